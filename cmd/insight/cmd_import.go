package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/astrocoach/insight/internal/dataset"
	"github.com/astrocoach/insight/internal/store"
)

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import the CSV tables into a SQLite warehouse",
		Long: `Parse the six processed CSV tables and load them into a SQLite
warehouse. Subsequent commands read from the warehouse when it is
configured (data.warehouse in config, or INSIGHT_WAREHOUSE), which skips
CSV parsing on every run.

Example:
  insight import --warehouse .insight/warehouse.db`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			warehousePath, _ := cmd.Flags().GetString("warehouse")
			if warehousePath == "" {
				warehousePath = cfg.Data.Warehouse
			}
			if warehousePath == "" {
				return fmt.Errorf("no warehouse path: pass --warehouse or set data.warehouse in config")
			}

			tables, err := dataset.LoadDir(cfg.Data.Dir)
			if err != nil {
				return fmt.Errorf("loading CSV tables: %w", err)
			}

			st, err := store.NewSQLiteStore(warehousePath)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.ImportTables(cmd.Context(), tables); err != nil {
				return err
			}

			counts := map[string]int{
				"conversion_signals": len(tables.ConversionSignals),
				"churn_signals":      len(tables.ChurnSignals),
				"user_scores":        len(tables.UserScores),
				"churn_scores":       len(tables.ChurnScores),
				"daily_demand":       len(tables.DailyDemand),
				"forecast":           len(tables.Forecast),
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{
					"status":    "imported",
					"warehouse": warehousePath,
					"rows":      counts,
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported into %s:\n", warehousePath)
			fmt.Fprintf(out, "  conversion signals: %d\n", counts["conversion_signals"])
			fmt.Fprintf(out, "  churn signals:      %d\n", counts["churn_signals"])
			fmt.Fprintf(out, "  user scores:        %d\n", counts["user_scores"])
			fmt.Fprintf(out, "  churn scores:       %d\n", counts["churn_scores"])
			fmt.Fprintf(out, "  daily demand:       %d\n", counts["daily_demand"])
			fmt.Fprintf(out, "  forecast:           %d\n", counts["forecast"])
			return nil
		},
	}

	cmd.Flags().String("warehouse", "", "Warehouse file path (default from config)")

	return cmd
}
