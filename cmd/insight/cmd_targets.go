package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/astrocoach/insight/internal/export"
)

func newTargetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "targets",
		Short: "List high-intent freemium users for conversion targeting",
		Long: `Select freemium users whose conversion probability is at or above the
threshold, ranked most likely first.

Example:
  insight targets --threshold 0.8 --limit 50 --export targets.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			threshold, _ := cmd.Flags().GetFloat64("threshold")
			limit, _ := cmd.Flags().GetInt("limit")
			exportPath, _ := cmd.Flags().GetString("export")

			svc, st, _, err := newService(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			targets, err := svc.Targets(cmd.Context(), threshold, limit)
			if err != nil {
				return fmt.Errorf("selecting targets: %w", err)
			}

			if exportPath != "" {
				f, err := os.Create(exportPath)
				if err != nil {
					return fmt.Errorf("creating export file: %w", err)
				}
				defer f.Close()
				if err := export.WriteTargets(f, targets.Candidates); err != nil {
					return fmt.Errorf("exporting targets: %w", err)
				}
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(targets)
			}

			out := cmd.OutOrStdout()
			if len(targets.Candidates) == 0 {
				fmt.Fprintln(out, "No users meet the targeting threshold.")
				return nil
			}

			fmt.Fprintf(out, "Targeting candidates (%d, avg probability %.2f):\n\n",
				len(targets.Candidates), targets.AvgProb)
			for i, u := range targets.Candidates {
				fmt.Fprintf(out, "%3d. %-24s %.2f\n", i+1, u.UserID, u.ConversionProbability)
			}
			if exportPath != "" {
				fmt.Fprintf(out, "\nExported to %s\n", exportPath)
			}
			return nil
		},
	}

	cmd.Flags().Float64("threshold", 0, "Minimum conversion probability (default from config)")
	cmd.Flags().Int("limit", 0, "Maximum candidates to list (0 = unlimited)")
	cmd.Flags().String("export", "", "Write candidates to a CSV file")

	return cmd
}
