package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/astrocoach/insight/internal/analytics"
)

func newTrendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trend",
		Short: "Show the demand trend signal",
		Long: `Compare recent premium demand against the start of the analysis
window. Dates bound the window inclusively; omit both to use all data.

Example:
  insight trend --from 2025-06-01 --to 2025-06-30`,
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := dateFlag(cmd, "from")
			if err != nil {
				return err
			}
			to, err := dateFlag(cmd, "to")
			if err != nil {
				return err
			}

			svc, st, _, err := newService(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			trend, err := svc.Trend(cmd.Context(), from, to)
			if err != nil {
				return fmt.Errorf("computing trend: %w", err)
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(trend)
			}

			out := cmd.OutOrStdout()
			if trend.Points == 0 {
				fmt.Fprintln(out, "No demand data in the selected window.")
				return nil
			}
			word := "softening"
			if trend.Direction == analytics.TrendRising {
				word = "rising"
			}
			fmt.Fprintf(out, "Demand is %s: %.1f -> %.1f avg daily subscriptions (%d days)\n",
				word, trend.EarlierAvg, trend.RecentAvg, trend.Points)
			return nil
		},
	}

	cmd.Flags().String("from", "", "Window start date (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "Window end date (YYYY-MM-DD)")

	return cmd
}

func dateFlag(cmd *cobra.Command, name string) (time.Time, error) {
	v, _ := cmd.Flags().GetString(name)
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s date %q (want YYYY-MM-DD)", name, v)
	}
	return t, nil
}
