package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/riskibarqy/fpl-monthly/internal/app"
	"github.com/riskibarqy/fpl-monthly/internal/config"
	"github.com/riskibarqy/fpl-monthly/internal/platform/logging"
	"github.com/riskibarqy/fpl-monthly/internal/usecase"
)

type runFlags struct {
	outDir   string
	months   string
	leagueID int64
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.NewConsole(logging.LevelInfo).Error("load config", "error", err)
		os.Exit(1)
	}

	logger := logging.NewConsole(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(cfg, logger).ExecuteContext(ctx); err != nil {
		logger.Error("monthly failed", "error", err)
		os.Exit(1)
	}
}

func newRootCmd(cfg config.Config, logger *logging.Logger) *cobra.Command {
	flags := &runFlags{}

	root := &cobra.Command{
		Use:           "monthly",
		Short:         "Compute FPL monthly leaderboards and write the CSV exports",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&flags.outDir, "out", "o", ".", "directory the export files are written to")
	root.PersistentFlags().StringVar(&flags.months, "months", "", `month definitions, e.g. "M1:1-4;M2:5-8" (defaults to MONTHS / MONTHS_FILE)`)

	csvCmd := &cobra.Command{
		Use:   "csv <file>",
		Short: "Compute from an uploaded-style CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService(cfg, flags, logger)
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open input: %w", err)
			}
			defer f.Close()

			report, err := svc.ComputeUpload(cmd.Context(), f)
			if err != nil {
				return err
			}
			return writeReport(cmd.OutOrStdout(), flags.outDir, report, logger)
		},
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "Compute from the live FPL API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if flags.leagueID <= 0 {
				return fmt.Errorf("%w: --league-id or FPL_LEAGUE_ID is required", usecase.ErrInvalidInput)
			}
			svc, err := newService(cfg, flags, logger)
			if err != nil {
				return err
			}

			report, err := svc.ComputeLive(cmd.Context(), flags.leagueID)
			if err != nil {
				return err
			}
			return writeReport(cmd.OutOrStdout(), flags.outDir, report, logger)
		},
	}
	liveCmd.Flags().Int64Var(&flags.leagueID, "league-id", cfg.FPLLeagueID, "classic league id (FPL_LEAGUE_ID)")

	root.AddCommand(csvCmd, liveCmd)
	return root
}

func newService(cfg config.Config, flags *runFlags, logger *logging.Logger) (*usecase.LeaderboardService, error) {
	if raw := strings.TrimSpace(flags.months); raw != "" {
		months, err := config.ParseMonths(raw)
		if err != nil {
			return nil, fmt.Errorf("parse --months: %w", err)
		}
		cfg.Months = months
	}
	return app.NewLeaderboardService(cfg, logger)
}

// writeReport writes both exports into dir and prints the winners of each
// month to out.
func writeReport(out io.Writer, dir string, report usecase.Report, logger *logging.Logger) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	for _, kind := range []string{usecase.ExportCombined, usecase.ExportGameweeks} {
		name, err := usecase.ExportFileName(kind)
		if err != nil {
			return err
		}
		body, err := usecase.Export(report, kind)
		if err != nil {
			return err
		}
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, body, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		logger.Info("export written", "path", path, "bytes", len(body))
	}

	printWinners(out, report)
	return nil
}

func printWinners(out io.Writer, report usecase.Report) {
	if len(report.Entries) == 0 {
		fmt.Fprintln(out, "No entries found.")
		return
	}

	fmt.Fprintf(out, "Monthly winners (%d entries):\n", len(report.Entries))
	for _, table := range report.Result.Months {
		winners := table.Winners()
		if len(winners) == 0 {
			fmt.Fprintf(out, "  %s (%s): no scores\n", table.Month.Label, table.Month.Span())
			continue
		}
		names := make([]string, 0, len(winners))
		for _, w := range winners {
			names = append(names, w.Entry.Label())
		}
		fmt.Fprintf(out, "  %s (%s): %s with %d\n", table.Month.Label, table.Month.Span(), strings.Join(names, ", "), winners[0].Net)
	}
	if len(report.Result.Combined) > 0 {
		top := report.Result.Combined[0]
		fmt.Fprintf(out, "Overall leader: %s with %d\n", top.Entry.Label(), top.TotalNet)
	}
}
