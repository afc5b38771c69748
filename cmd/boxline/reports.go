package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/boxline/internal/charting"
	"github.com/verte-zerg/boxline/internal/report"
	"github.com/verte-zerg/boxline/internal/store"
)

var (
	monthlyPlot bool
	monthlyPNG  string

	stopsExpand bool
)

func newDailyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Print the daily summary and production details",
		Args:  cobra.NoArgs,
		RunE:  runDailyCmd,
	}
	addFilterFlags(cmd)
	return cmd
}

func runDailyCmd(cmd *cobra.Command, _ []string) error {
	rep, err := loadReport(cmd, time.Now())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if err := report.RenderDailySummary(out, rep.Daily); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := report.RenderDetails(out, rep.Details); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newMonthlyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "monthly",
		Short: "Print the monthly report",
		Args:  cobra.NoArgs,
		RunE:  runMonthlyCmd,
	}
	cmd.Flags().StringVar(&filterMonth, "month", "", "month (YYYY-MM, default: current)")
	cmd.Flags().BoolVar(&monthlyPlot, "plot", true, "draw the yield/utilization trend")
	cmd.Flags().StringVar(&monthlyPNG, "png", "", "also write the trend chart as PNG to this path")
	return cmd
}

func runMonthlyCmd(cmd *cobra.Command, _ []string) error {
	now := time.Now()
	if filterMonth == "" {
		filterMonth = now.Format("2006-01")
	}
	rep, err := loadReport(cmd, now)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if err := report.RenderMonthly(out, rep.Monthly); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if monthlyPlot && len(rep.Monthly.DailyRows) > 1 {
		if err := report.PlotTrend(out, "Daily Trend", report.MonthlyTrendSeries(rep.Monthly), 0, 8, false); err != nil {
			return fmt.Errorf("failed to render trend: %w", err)
		}
	}
	if monthlyPNG != "" {
		img, err := charting.NewGenerator().MonthlyTrend(rep.Monthly)
		if err != nil {
			return fmt.Errorf("failed to render chart: %w", err)
		}
		if err := os.WriteFile(monthlyPNG, img, 0o644); err != nil {
			return fmt.Errorf("failed to write chart: %w", err)
		}
		logErrf("Wrote %s\n", monthlyPNG)
	}
	return nil
}

func newStopsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stops",
		Short: "Print stop reasons grouped by reason",
		Args:  cobra.NoArgs,
		RunE:  runStopsCmd,
	}
	cmd.Flags().StringVar(&filterStart, "start", "", "start date (YYYY-MM-DD, default: stop window before today)")
	cmd.Flags().StringVar(&filterEnd, "end", "", "end date (YYYY-MM-DD, default: today)")
	cmd.Flags().IntVar(&stopWindowDays, "stop-window", report.DefaultStopWindowDays, "days covered when --start is omitted")
	cmd.Flags().BoolVar(&stopsExpand, "expand", false, "list every stop occurrence")
	return cmd
}

func runStopsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadFileConfig(cmd)
	if err != nil {
		return err
	}
	applyIntConfig(cmd, "stop-window", &stopWindowDays, fileCfg.Reports.StopWindowDays)
	if stopWindowDays <= 0 {
		return fmt.Errorf("--stop-window must be > 0")
	}
	start, end := report.TrailingRange(time.Now(), stopWindowDays)
	filterStart = valueOr(filterStart, start)
	filterEnd = valueOr(filterEnd, end)

	rep, err := buildReport(cmd.Context(), time.Now())
	if err != nil {
		return err
	}
	if err := report.RenderStopReasons(cmd.OutOrStdout(), rep.Stops, stopsExpand); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// loadReport applies the config file and builds the report from the store.
func loadReport(cmd *cobra.Command, now time.Time) (report.Report, error) {
	if _, err := loadFileConfig(cmd); err != nil {
		return report.Report{}, err
	}
	return buildReport(cmd.Context(), now)
}

func buildReport(ctx context.Context, now time.Time) (report.Report, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := reportConfig(now)
	if err != nil {
		return report.Report{}, err
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return report.Report{}, fmt.Errorf("failed to open db: %w", err)
	}
	defer closeStore(st)

	rep, err := report.BuildReport(ctx, st, cfg)
	if err != nil {
		return report.Report{}, fmt.Errorf("failed to build report: %w", err)
	}
	return rep, nil
}
