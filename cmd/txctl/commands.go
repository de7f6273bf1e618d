package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"transaction-dashboard/internal/analytics"
	"transaction-dashboard/internal/config"
	"transaction-dashboard/internal/database"
	"transaction-dashboard/internal/export"
	"transaction-dashboard/internal/logger"
	"transaction-dashboard/internal/services/seeder"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var exportOut string

var rootCmd = &cobra.Command{
	Use:          "txctl",
	Short:        "Operate the transaction dashboard store",
	SilenceUsage: true,
	Long: `
txctl runs the dashboard operations without the HTTP server.

  seed     Import the seed feed into the database (appends, never dedupes)
  stats    Print totals, category and price-range counts for a month
  export   Write a month's transactions to an XLSX workbook

Configuration is read from the environment or a .env file
(DATABASE_URL, SEED_URL, SEED_TIMEOUT, LOG_LEVEL).`,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Import the seed feed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		cfg, log, repo, closeDB, err := openRepository()
		if err != nil {
			return err
		}
		defer closeDB()

		summary, err := seeder.New(cfg.SeedURL, cfg.SeedTimeout, repo, log).Seed(ctx)
		if err != nil {
			return err
		}
		total, err := repo.Count(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "inserted %d transactions (%d stored)\n", summary.Inserted, total)
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats <month>",
	Short: "Print the combined view for a month",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := analytics.MonthNumber(args[0]); err != nil {
			return fmt.Errorf("%q: %w", args[0], err)
		}
		ctx, stop := signalContext()
		defer stop()

		_, _, repo, closeDB, err := openRepository()
		if err != nil {
			return err
		}
		defer closeDB()
		combined, err := analytics.NewEngine(repo).Combined(ctx, args[0])
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(combined)
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <month>",
	Short: "Write a month's transactions to an XLSX file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		month := args[0]
		if _, err := analytics.MonthNumber(month); err != nil {
			return fmt.Errorf("%q: %w", month, err)
		}
		ctx, stop := signalContext()
		defer stop()

		_, _, repo, closeDB, err := openRepository()
		if err != nil {
			return err
		}
		defer closeDB()
		items, err := analytics.NewEngine(repo).ListTransactions(ctx, month)
		if err != nil {
			return err
		}

		out := exportOut
		if out == "" {
			out = fmt.Sprintf("transactions-%s.xlsx", month)
		}
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		if err := export.WriteMonthWorkbook(f, month, items, analytics.ComputeStatistics(items)); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d transactions to %s\n", len(items), out)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default transactions-<month>.xlsx)")
	rootCmd.AddCommand(seedCmd, statsCmd, exportCmd)
}

func openRepository() (*config.Config, zerolog.Logger, *database.TransactionRepository, func(), error) {
	cfg := config.Load()
	log := logger.NewWithWriter(os.Stderr, cfg.LogLevel)
	db, err := database.Initialize(cfg.DatabaseURL, log)
	if err != nil {
		return nil, log, nil, nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, log, nil, nil, err
	}
	closeDB := func() {
		if err := sqlDB.Close(); err != nil {
			log.Warn().Err(err).Msg("closing database")
		}
	}
	return cfg, log, database.NewTransactionRepository(db), closeDB, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
