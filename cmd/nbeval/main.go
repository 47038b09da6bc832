// Command nbeval executes tutorial notebooks and fails the process on the
// first notebook whose cells error.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"fairbench/adapters/jupyter"
	"fairbench/adapters/postgres"
	"fairbench/internal"
	"fairbench/internal/config"
	"fairbench/internal/nbrun"
	"fairbench/ports"
)

func main() {
	// .env is optional; the environment wins when both are present.
	_ = godotenv.Load()

	var nb string
	var nbDir string

	cmd := &cobra.Command{
		Use:   "nbeval",
		Short: "Execute tutorial notebooks and report pass/fail with timing",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			runner, err := buildRunner(cmd, cfg)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("nb_dir") {
				return runner.RunDir(cmd.Context(), nbDir)
			}
			return runner.RunNotebook(cmd.Context(), nb)
		},
	}
	cmd.Flags().StringVar(&nb, "nb", ".", "path to a single notebook")
	cmd.Flags().StringVar(&nbDir, "nb_dir", ".", "directory to search recursively for notebooks")
	cmd.SilenceUsage = true

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildRunner(cmd *cobra.Command, cfg *config.Config) (*nbrun.Runner, error) {
	log := internal.DefaultLogger

	var ledger ports.RunLedger
	if cfg.Database.URL != "" {
		db, err := postgres.Connect(cmd.Context(), cfg.Database.URL)
		if err != nil {
			return nil, err
		}
		ledger = postgres.NewRunLedger(db)
		log.Debug("recording notebook runs to database")
	}

	executor := jupyter.NewExecutor(cfg.Notebooks.JupyterBin, cfg.Notebooks.TutorialsDir)
	opts := []nbrun.Option{
		nbrun.WithTimeout(cfg.Notebooks.Timeout),
		nbrun.WithEnabled(cfg.Notebooks.Enabled),
	}
	if ledger != nil {
		opts = append(opts, nbrun.WithLedger(ledger))
	}
	return nbrun.NewRunner(executor, opts...), nil
}
