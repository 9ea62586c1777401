package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/astrocoach/insight/internal/models"
)

func newDriversCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drivers",
		Short: "Show the top behavioral drivers for an outcome",
		Long: `List the strongest ranked signals from the conversion or churn model.
Positive coefficients push the outcome up, negative ones pull it down.

Example:
  insight drivers --outcome churn --count 5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			outcome, err := outcomeFlag(cmd)
			if err != nil {
				return err
			}
			count, _ := cmd.Flags().GetInt("count")

			svc, st, _, err := newService(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			drivers, err := svc.Drivers(cmd.Context(), outcome, count)
			if err != nil {
				return fmt.Errorf("loading drivers: %w", err)
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{
					"outcome": outcome,
					"drivers": drivers,
				})
			}

			out := cmd.OutOrStdout()
			if len(drivers.Drivers) == 0 {
				fmt.Fprintf(out, "No signals available for %s.\n", outcome)
				return nil
			}

			fmt.Fprintf(out, "Top %s drivers (%d):\n\n", outcome, len(drivers.Drivers))
			for i, s := range drivers.Drivers {
				fmt.Fprintf(out, "%2d. %-32s %+.4f\n", i+1, s.Name, s.Coefficient)
			}
			fmt.Fprintln(out)
			if drivers.StrongestPositive != "" {
				fmt.Fprintf(out, "Strongest positive: %s\n", drivers.StrongestPositive)
			}
			if drivers.StrongestNegative != "" {
				fmt.Fprintf(out, "Strongest negative: %s\n", drivers.StrongestNegative)
			}
			return nil
		},
	}

	cmd.Flags().String("outcome", "conversion", "Outcome model: conversion or churn")
	cmd.Flags().Int("count", 0, "Number of drivers to show (default from config)")

	return cmd
}

func outcomeFlag(cmd *cobra.Command) (models.Outcome, error) {
	v, _ := cmd.Flags().GetString("outcome")
	outcome := models.Outcome(v)
	if !outcome.Valid() {
		return "", fmt.Errorf("invalid --outcome %q (must be %s or %s)",
			v, models.OutcomeConversion, models.OutcomeChurn)
	}
	return outcome, nil
}
