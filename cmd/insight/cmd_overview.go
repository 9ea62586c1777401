package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newOverviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Show the executive overview",
		Long: `Show the consolidated leadership view: user counts, total forecast
demand, conversion lift of high-intent users, and premium churn risk.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, st, _, err := newService(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			ov, err := svc.Overview(cmd.Context())
			if err != nil {
				return fmt.Errorf("building overview: %w", err)
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(ov)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Users:            %d (%d premium)\n", ov.TotalUsers, ov.PremiumUsers)
			fmt.Fprintf(out, "Forecast demand:  %.0f subscriptions\n", ov.ForecastDemand)
			fmt.Fprintf(out, "Conversion lift:  %.2fx (high-intent vs baseline)\n", ov.ConversionLift)
			fmt.Fprintf(out, "Targeted lift:    %+.1f%%\n", ov.TargetedLiftPercent)
			fmt.Fprintf(out, "Churn risk:       %.1f%% of premium users\n", ov.ChurnRiskPercent)
			return nil
		},
	}
}
