package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/boxline/internal/api"
	"github.com/verte-zerg/boxline/internal/charting"
	"github.com/verte-zerg/boxline/internal/config"
	"github.com/verte-zerg/boxline/internal/importer"
	"github.com/verte-zerg/boxline/internal/report"
	"github.com/verte-zerg/boxline/internal/store"
)

const (
	exportDetails = "details"
	exportMonthly = "monthly"
	exportStops   = "stops"
)

var (
	exportKind   string
	exportOut    string
	exportExpand bool

	serveAddr        string
	serveCORSOrigins []string
)

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.json>",
		Short: "Import production records from a dashboard JSON export",
		Args:  cobra.ExactArgs(1),
		RunE:  runImportCmd,
	}
}

func runImportCmd(cmd *cobra.Command, args []string) error {
	if _, err := loadFileConfig(cmd); err != nil {
		return err
	}
	records, err := importer.LoadRecords(args[0])
	if err != nil {
		return fmt.Errorf("failed to load records: %w", err)
	}
	if len(records) == 0 {
		logErrln("No records found in", args[0])
		return nil
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer closeStore(st)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	n, err := st.SaveRecords(ctx, records)
	if err != nil {
		return fmt.Errorf("failed to save records: %w", err)
	}
	logErrf("Imported %d records into %s\n", n, dbPath)
	return nil
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a report as CSV",
		Args:  cobra.NoArgs,
		RunE:  runExportCmd,
	}
	addFilterFlags(cmd)
	cmd.Flags().StringVar(&filterMonth, "month", "", "month for --kind monthly (YYYY-MM, default: current)")
	cmd.Flags().StringVar(&exportKind, "kind", exportDetails, "report to export: details, monthly or stops")
	cmd.Flags().StringVar(&exportOut, "out", "", "output file ('-' for stdout, default: export dir)")
	cmd.Flags().BoolVar(&stopsExpand, "expand", false, "one row per stop occurrence for --kind stops")
	return cmd
}

func runExportCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadFileConfig(cmd)
	if err != nil {
		return err
	}
	exportDir := config.DefaultExportDir()
	if fileCfg.Storage.ExportDir != nil {
		exportDir = *fileCfg.Storage.ExportDir
	}

	now := time.Now()
	var write func(io.Writer, report.Report) error
	switch exportKind {
	case exportDetails:
		write = func(w io.Writer, rep report.Report) error { return importer.WriteDetailsCSV(w, rep.Details) }
	case exportMonthly:
		if filterMonth == "" {
			filterMonth = now.Format("2006-01")
		}
		write = func(w io.Writer, rep report.Report) error { return importer.WriteMonthlyCSV(w, rep.Monthly) }
	case exportStops:
		write = func(w io.Writer, rep report.Report) error { return importer.WriteStopReasonsCSV(w, rep.Stops, stopsExpand) }
	default:
		return fmt.Errorf("unknown --kind %q (use details, monthly or stops)", exportKind)
	}

	rep, err := buildReport(cmd.Context(), now)
	if err != nil {
		return err
	}

	if exportOut == "-" {
		if err := write(cmd.OutOrStdout(), rep); err != nil {
			return fmt.Errorf("failed to write csv: %w", err)
		}
		return nil
	}
	path := exportOut
	if path == "" {
		path = filepath.Join(exportDir, fmt.Sprintf("%s-%s.csv", exportKind, now.Format("20060102-150405")))
	}
	if err := writeFile(path, func(w io.Writer) error { return write(w, rep) }); err != nil {
		return err
	}
	logErrf("Wrote %s\n", path)
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create export dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "export-*.csv")
	if err != nil {
		return fmt.Errorf("failed to create temp export: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if err := write(tmpFile); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close export: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the reports over an HTTP JSON API",
		Args:  cobra.NoArgs,
		RunE:  runServeCmd,
	}
	cmd.Flags().StringVar(&serveAddr, "addr", defaultAddr, "listen address")
	cmd.Flags().StringSliceVar(&serveCORSOrigins, "cors-origin", nil, "allowed CORS origins (default: any)")
	cmd.Flags().StringVar(&filterShift, "shift", "", "default shift filter")
	cmd.Flags().IntVar(&stopWindowDays, "stop-window", report.DefaultStopWindowDays, "days covered by the default stop-reason window")
	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadFileConfig(cmd)
	if err != nil {
		return err
	}
	applyStringConfig(cmd, "addr", &serveAddr, fileCfg.Server.Addr)
	applyStringsConfig(cmd, "cors-origin", &serveCORSOrigins, fileCfg.Server.CORSOrigins)
	applyIntConfig(cmd, "stop-window", &stopWindowDays, fileCfg.Reports.StopWindowDays)

	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer closeStore(st)

	logger := log.New(os.Stderr, "boxline ", log.LstdFlags)
	handler := api.NewHandler(st, charting.NewGenerator(), api.Options{
		Shift:          filterShift,
		StopWindowDays: stopWindowDays,
	})
	srv := api.NewServer(handler, api.ServerConfig{
		Addr:        serveAddr,
		CORSOrigins: serveCORSOrigins,
		Logger:      logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := api.ListenAndServe(ctx, srv, logger); err != nil {
		return fmt.Errorf("failed to serve: %w", err)
	}
	return nil
}
