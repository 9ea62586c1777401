package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/astrocoach/insight/internal/export"
	"github.com/astrocoach/insight/internal/report"
	"github.com/astrocoach/insight/internal/simulate"
)

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a what-if impact simulation",
		Long: `Estimate the aggregate outcome effect of uplifting selected behaviors.
Each selected signal contributes coefficient * uplift/100; for churn the
sign is inverted because improving a risk behavior reduces risk.

Example:
  insight simulate --select session_count --select days_inactive --uplift 20
  insight simulate --outcome churn --select support_tickets --uplift 10 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			outcome, err := outcomeFlag(cmd)
			if err != nil {
				return err
			}
			selected, _ := cmd.Flags().GetStringSlice("select")
			uplift, _ := cmd.Flags().GetFloat64("uplift")
			exportPath, _ := cmd.Flags().GetString("export")

			if len(selected) == 0 {
				return fmt.Errorf("select at least one signal with --select (see 'insight drivers')")
			}
			if uplift < report.MinUpliftPercent || uplift > report.MaxUpliftPercent {
				return fmt.Errorf("--uplift must be between %d and %d percent",
					report.MinUpliftPercent, report.MaxUpliftPercent)
			}

			svc, st, _, err := newService(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			rep, err := svc.Simulate(cmd.Context(), outcome, simulate.Request{
				Selected:      selected,
				UpliftPercent: uplift,
			})
			if err != nil {
				return fmt.Errorf("running simulation: %w", err)
			}

			if exportPath != "" {
				f, err := os.Create(exportPath)
				if err != nil {
					return fmt.Errorf("creating export file: %w", err)
				}
				defer f.Close()
				if err := export.WriteSimulation(f, rep.Result); err != nil {
					return fmt.Errorf("exporting simulation: %w", err)
				}
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(rep)
			}

			out := cmd.OutOrStdout()
			result := rep.Result

			if len(result.PerSignal) == 0 {
				fmt.Fprintln(out, "None of the selected signals exist in the model.")
				fmt.Fprintln(out, "Run 'insight drivers' to see available signal names.")
				return nil
			}

			fmt.Fprintf(out, "Simulated %.0f%% uplift on %d signal(s), %s model:\n\n",
				uplift, len(result.PerSignal), outcome)
			for _, si := range result.PerSignal {
				fmt.Fprintf(out, "  %-32s %+.4f -> %+.4f\n", si.Name, si.Coefficient, si.SimulatedImpact)
			}
			fmt.Fprintln(out)
			fmt.Fprintf(out, "Net effect:  %+.3f\n", result.RoundNet())
			fmt.Fprintf(out, "Confidence:  %.1f%% (%s)\n", result.ConfidencePercent, result.Band)
			fmt.Fprintln(out)
			fmt.Fprintln(out, rep.Interpretation.Headline)
			for _, g := range rep.Interpretation.Guidance {
				fmt.Fprintf(out, "  - %s\n", g)
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, rep.ConfidenceCaption)
			if exportPath != "" {
				fmt.Fprintf(out, "\nExported to %s\n", exportPath)
			}
			return nil
		},
	}

	cmd.Flags().String("outcome", "conversion", "Outcome model: conversion or churn")
	cmd.Flags().StringSlice("select", nil, "Signal name to include (repeatable)")
	cmd.Flags().Float64("uplift", 20, "Assumed behavioral uplift in percent (5-50)")
	cmd.Flags().String("export", "", "Write the per-signal breakdown to a CSV file")

	return cmd
}
