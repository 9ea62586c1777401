package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/astrocoach/insight/internal/export"
)

func newChurnCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "churn",
		Short: "List premium users at risk of churning",
		Long: `Select premium users whose churn probability is at or above the
threshold, most at risk first.

Example:
  insight churn --threshold 0.7 --export at_risk.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			threshold, _ := cmd.Flags().GetFloat64("threshold")
			exportPath, _ := cmd.Flags().GetString("export")

			svc, st, _, err := newService(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			atRisk, err := svc.AtRisk(cmd.Context(), threshold)
			if err != nil {
				return fmt.Errorf("selecting at-risk users: %w", err)
			}

			if exportPath != "" {
				f, err := os.Create(exportPath)
				if err != nil {
					return fmt.Errorf("creating export file: %w", err)
				}
				defer f.Close()
				if err := export.WriteAtRisk(f, atRisk); err != nil {
					return fmt.Errorf("exporting at-risk users: %w", err)
				}
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{
					"at_risk": atRisk,
					"count":   len(atRisk),
				})
			}

			out := cmd.OutOrStdout()
			if len(atRisk) == 0 {
				fmt.Fprintln(out, "No premium users above the churn threshold.")
				return nil
			}

			fmt.Fprintf(out, "At-risk premium users (%d):\n\n", len(atRisk))
			for i, u := range atRisk {
				fmt.Fprintf(out, "%3d. %-24s %.2f\n", i+1, u.UserID, u.ChurnProbability)
			}
			if exportPath != "" {
				fmt.Fprintf(out, "\nExported to %s\n", exportPath)
			}
			return nil
		},
	}

	cmd.Flags().Float64("threshold", 0, "Minimum churn probability (default from config)")
	cmd.Flags().String("export", "", "Write at-risk users to a CSV file")

	return cmd
}
