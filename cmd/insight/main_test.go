package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

// newTestRootCmd creates a root command with persistent flags for testing
// subcommands in isolation.
func newTestRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use: "insight",
	}
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().String("config", "", "Config file path")
	rootCmd.PersistentFlags().String("data", "", "Data directory override")
	return rootCmd
}

// isolateHome sets HOME to a temp directory to avoid reading a real
// ~/.insight/config.yaml. Must be called for any test that loads config.
func isolateHome(t *testing.T, tmpDir string) {
	t.Helper()
	tmpHome := filepath.Join(tmpDir, "home")
	if err := os.MkdirAll(tmpHome, 0700); err != nil {
		t.Fatalf("Failed to create temp home: %v", err)
	}
	oldHome := os.Getenv("HOME")
	os.Setenv("HOME", tmpHome)
	t.Cleanup(func() {
		os.Setenv("HOME", oldHome)
	})
}

// writeFixtureData writes a minimal set of CSV tables and returns the dir.
func writeFixtureData(t *testing.T, base string) string {
	t.Helper()
	dir := filepath.Join(base, "data")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}

	files := map[string]string{
		"daily_premium_demand.csv": "payment_date,premium_subscriptions\n" +
			"2025-06-01,10\n2025-06-02,10\n2025-06-03,11\n2025-06-04,11\n" +
			"2025-06-05,12\n2025-06-06,13\n2025-06-07,13\n2025-06-08,18\n" +
			"2025-06-09,19\n2025-06-10,21\n",
		"premium_demand_forecast.csv":       "date,predicted_premium_subscriptions\n2025-07-01,12.5\n",
		"conversion_feature_importance.csv": "feature,coefficient\nsession_count,0.4\ndays_inactive,-0.1\n",
		"churn_feature_importance.csv":      "feature,coefficient\nsupport_tickets,0.5\n",
		"user_conversion_scores.csv":        "user_id,conversion_probability,isPremiumUserFlag\nu1,0.9,0\np1,0.5,1\n",
		"premium_churn_scores.csv":          "user_id,churn_probability\np1,0.8\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func runCommand(t *testing.T, cmd *cobra.Command, args ...string) string {
	t.Helper()
	root := newTestRootCmd()
	root.AddCommand(cmd)

	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)

	if err := root.Execute(); err != nil {
		t.Fatalf("command failed: %v\noutput: %s", err, buf.String())
	}
	return buf.String()
}

func TestNewVersionCmd(t *testing.T) {
	cmd := newVersionCmd()
	if cmd.Use != "version" {
		t.Errorf("Use = %q, want %q", cmd.Use, "version")
	}
}

func TestOverviewCmd_JSON(t *testing.T) {
	tmp := t.TempDir()
	isolateHome(t, tmp)
	dataDir := writeFixtureData(t, tmp)

	out := runCommand(t, newOverviewCmd(), "overview", "--json", "--data", dataDir)

	var ov map[string]any
	if err := json.Unmarshal([]byte(out), &ov); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if ov["total_users"] != float64(2) {
		t.Errorf("total_users = %v, want 2", ov["total_users"])
	}
	if ov["premium_users"] != float64(1) {
		t.Errorf("premium_users = %v, want 1", ov["premium_users"])
	}
}

func TestTrendCmd(t *testing.T) {
	tmp := t.TempDir()
	isolateHome(t, tmp)
	dataDir := writeFixtureData(t, tmp)

	out := runCommand(t, newTrendCmd(), "trend", "--data", dataDir)

	if !strings.Contains(out, "rising") {
		t.Errorf("expected rising trend, got: %s", out)
	}
}

func TestTrendCmd_BadDate(t *testing.T) {
	root := newTestRootCmd()
	root.AddCommand(newTrendCmd())
	root.SetOut(new(bytes.Buffer))
	root.SetErr(new(bytes.Buffer))
	root.SetArgs([]string{"trend", "--from", "not-a-date"})

	if err := root.Execute(); err == nil {
		t.Error("expected error for bad --from date")
	}
}

func TestDriversCmd(t *testing.T) {
	tmp := t.TempDir()
	isolateHome(t, tmp)
	dataDir := writeFixtureData(t, tmp)

	out := runCommand(t, newDriversCmd(), "drivers", "--data", dataDir)

	if !strings.Contains(out, "session_count") {
		t.Errorf("expected session_count in output: %s", out)
	}
	if !strings.Contains(out, "Strongest positive: session_count") {
		t.Errorf("expected strongest positive callout: %s", out)
	}
}

func TestDriversCmd_InvalidOutcome(t *testing.T) {
	root := newTestRootCmd()
	root.AddCommand(newDriversCmd())
	root.SetOut(new(bytes.Buffer))
	root.SetErr(new(bytes.Buffer))
	root.SetArgs([]string{"drivers", "--outcome", "retention"})

	if err := root.Execute(); err == nil {
		t.Error("expected error for invalid outcome")
	}
}

func TestTargetsCmd_Export(t *testing.T) {
	tmp := t.TempDir()
	isolateHome(t, tmp)
	dataDir := writeFixtureData(t, tmp)
	exportPath := filepath.Join(tmp, "targets.csv")

	out := runCommand(t, newTargetsCmd(), "targets", "--data", dataDir, "--export", exportPath)

	if !strings.Contains(out, "u1") {
		t.Errorf("expected u1 in output: %s", out)
	}

	data, err := os.ReadFile(exportPath)
	if err != nil {
		t.Fatalf("export file not written: %v", err)
	}
	if !strings.Contains(string(data), "user_id,conversion_probability") {
		t.Errorf("export missing header: %s", data)
	}
	if !strings.Contains(string(data), "u1") {
		t.Errorf("export missing candidate: %s", data)
	}
}

func TestChurnCmd(t *testing.T) {
	tmp := t.TempDir()
	isolateHome(t, tmp)
	dataDir := writeFixtureData(t, tmp)

	out := runCommand(t, newChurnCmd(), "churn", "--data", dataDir)

	if !strings.Contains(out, "p1") {
		t.Errorf("expected p1 in output: %s", out)
	}
}

func TestSimulateCmd(t *testing.T) {
	tmp := t.TempDir()
	isolateHome(t, tmp)
	dataDir := writeFixtureData(t, tmp)

	out := runCommand(t, newSimulateCmd(), "simulate",
		"--data", dataDir,
		"--select", "session_count",
		"--select", "days_inactive",
		"--uplift", "20")

	if !strings.Contains(out, "Net effect:  +0.060") {
		t.Errorf("expected net effect +0.060 in output: %s", out)
	}
	if !strings.Contains(out, "Confidence:") {
		t.Errorf("expected confidence line: %s", out)
	}
}

func TestSimulateCmd_Validation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no selection", []string{"simulate", "--uplift", "20"}},
		{"uplift too low", []string{"simulate", "--select", "session_count", "--uplift", "2"}},
		{"uplift too high", []string{"simulate", "--select", "session_count", "--uplift", "60"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := newTestRootCmd()
			root.AddCommand(newSimulateCmd())
			root.SetOut(new(bytes.Buffer))
			root.SetErr(new(bytes.Buffer))
			root.SetArgs(tt.args)

			if err := root.Execute(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestImportCmd(t *testing.T) {
	tmp := t.TempDir()
	isolateHome(t, tmp)
	dataDir := writeFixtureData(t, tmp)
	warehouse := filepath.Join(tmp, "warehouse.db")

	out := runCommand(t, newImportCmd(), "import",
		"--data", dataDir, "--warehouse", warehouse, "--json")

	var result map[string]any
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if result["status"] != "imported" {
		t.Errorf("status = %v", result["status"])
	}

	if _, err := os.Stat(warehouse); err != nil {
		t.Errorf("warehouse file not created: %v", err)
	}
}

func TestImportCmd_NoWarehousePath(t *testing.T) {
	tmp := t.TempDir()
	isolateHome(t, tmp)
	dataDir := writeFixtureData(t, tmp)

	root := newTestRootCmd()
	root.AddCommand(newImportCmd())
	root.SetOut(new(bytes.Buffer))
	root.SetErr(new(bytes.Buffer))
	root.SetArgs([]string{"import", "--data", dataDir})

	if err := root.Execute(); err == nil {
		t.Error("expected error when no warehouse path is configured")
	}
}
