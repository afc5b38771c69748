// Package main provides the CLI entrypoint for boxline.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/boxline/internal/config"
	"github.com/verte-zerg/boxline/internal/model"
	"github.com/verte-zerg/boxline/internal/report"
	"github.com/verte-zerg/boxline/internal/reportui"
	"github.com/verte-zerg/boxline/internal/store"
)

const defaultAddr = ":8080"

var (
	dbPath string

	filterStart string
	filterEnd   string
	filterShift string
	filterMonth string

	stopWindowDays int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "boxline",
		Short:         "Production reports for a corrugated box line",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runDashboardCmd,
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (default: XDG data dir)")
	addFilterFlags(rootCmd)
	rootCmd.Flags().StringVar(&filterMonth, "month", "", "month for the monthly report (YYYY-MM, default: current)")
	rootCmd.Flags().IntVar(&stopWindowDays, "stop-window", report.DefaultStopWindowDays, "days covered by the stop-reason view")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newDailyCmd())
	rootCmd.AddCommand(newMonthlyCmd())
	rootCmd.AddCommand(newStopsCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newServeCmd())

	return rootCmd
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&filterStart, "start", "", "start date (YYYY-MM-DD, default: today)")
	cmd.Flags().StringVar(&filterEnd, "end", "", "end date (YYYY-MM-DD, default: today)")
	cmd.Flags().StringVar(&filterShift, "shift", model.AllShifts, "shift filter ('all' disables it)")
}

func runDashboardCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadFileConfig(cmd)
	if err != nil {
		return err
	}
	applyIntConfig(cmd, "stop-window", &stopWindowDays, fileCfg.Reports.StopWindowDays)

	now := time.Now()
	cfg, err := reportConfig(now)
	if err != nil {
		return err
	}
	if cfg.Month == "" {
		cfg.Month = now.Format("2006-01")
	}
	if stopWindowDays <= 0 {
		return fmt.Errorf("--stop-window must be > 0")
	}
	cfg.StopStart, cfg.StopEnd = report.TrailingRange(now, stopWindowDays)

	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer closeStore(st)

	ui := reportui.NewModel(st, cfg)
	program := tea.NewProgram(ui, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run dashboard: %w", err)
	}
	return nil
}

// loadFileConfig reads the config file and applies the values shared by
// every command.
func loadFileConfig(cmd *cobra.Command) (config.FileConfig, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return config.FileConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "db", &dbPath, fileCfg.Storage.DB)
	if dbPath == "" {
		dbPath = config.DefaultDBPath()
	}
	if cmd.Flags().Lookup("shift") != nil {
		applyStringConfig(cmd, "shift", &filterShift, fileCfg.Reports.Shift)
	}
	return fileCfg, nil
}

// reportConfig builds the filter from the flags, defaulting dates to today.
func reportConfig(now time.Time) (model.ReportConfig, error) {
	today := report.Today(now)
	start := valueOr(filterStart, today)
	end := valueOr(filterEnd, today)
	for name, v := range map[string]string{"--start": start, "--end": end} {
		if _, err := time.ParseInLocation("2006-01-02", v, time.Local); err != nil {
			return model.ReportConfig{}, fmt.Errorf("invalid %s value %q (expected YYYY-MM-DD)", name, v)
		}
	}
	if filterMonth != "" {
		if _, _, err := report.ParseMonth(filterMonth); err != nil {
			return model.ReportConfig{}, err
		}
	}
	return model.ReportConfig{
		Filter: model.ReportFilter{StartDate: start, EndDate: end, Shift: filterShift},
		Month:  filterMonth,
	}, nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# boxline configuration
# Uncomment a value to enable it. CLI flags override config values.

[storage]
# db = %q
# export-dir = %q

[reports]
# shift = %q               # Default shift filter
# stop-window-days = %d     # Days covered by the stop-reason view

[server]
# addr = %q
# cors-origins = ["http://localhost:5173"]
`,
		config.DefaultDBPath(),
		config.DefaultExportDir(),
		model.AllShifts,
		report.DefaultStopWindowDays,
		defaultAddr,
	)
}

func closeStore(st *store.Store) {
	if cerr := st.Close(); cerr != nil {
		logErrf("failed to close db: %v\n", cerr)
	}
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyStringsConfig(cmd *cobra.Command, name string, target *[]string, value []string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = value
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
