// Command fairbench computes fairness scores for tabular datasets, renders
// DAG descriptions, and serves evaluation reports.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"fairbench/adapters/excel"
	"fairbench/adapters/postgres"
	"fairbench/app"
	"fairbench/domain/core"
	"fairbench/internal"
	"fairbench/internal/api"
	"fairbench/internal/config"
	"fairbench/internal/dag"
	"fairbench/internal/fairness"
	"fairbench/internal/testkit"
	"fairbench/ports"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "fairbench",
		Short: "Fairness-evaluation utilities for the tutorial suite",
	}
	rootCmd.SilenceUsage = true
	rootCmd.AddCommand(
		newScoreCmd(),
		newDagCmd(),
		newServeCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newScoreCmd() *cobra.Command {
	var target string
	var sensitive []string

	cmd := &cobra.Command{
		Use:   "score [data-file]",
		Short: "Compute FTU and demographic-parity scores for a tabular dataset",
		Long: `Compute both fairness scores for an .xlsx or .csv dataset.

Example: fairbench score patients.csv --target readmitted --sensitive ethnicity`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			loader, err := excel.NewFileLoader(excel.LoaderConfig{
				FilePath:          args[0],
				TargetColumn:      core.ColumnKey(target),
				SensitiveFeatures: core.ColumnKeys(sensitive),
			})
			if err != nil {
				return err
			}

			svc := app.NewEvalService(
				fairness.NewScorer(fairness.WithLeakageColumn(core.ColumnKey(cfg.Data.LeakageColumn))),
				buildLedger(cmd, cfg),
				internal.DefaultLogger,
			)
			report, err := svc.Evaluate(cmd.Context(), args[0], loader)
			if err != nil {
				return err
			}
			fmt.Printf("FTU score:                %.6f\n", report.FTU)
			fmt.Printf("Demographic parity score: %.6f\n", report.DemographicParity)
			return nil
		},
	}
	cmd.Flags().StringVar(&target, "target", "", "binary label column (required)")
	cmd.Flags().StringSliceVar(&sensitive, "sensitive", nil, "sensitive attribute column(s) (required)")
	cmd.MarkFlagRequired("target")
	cmd.MarkFlagRequired("sensitive")
	return cmd
}

func newDagCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dag [src>dst...]",
		Short: "Render an edge list as Graphviz DOT",
		Long: `Render a list of directed edges as DOT for documentation.

Example: fairbench dag "age>outcome" "treatment>outcome"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var edges []dag.Edge
			for _, arg := range args {
				parts := strings.SplitN(arg, ">", 2)
				if len(parts) != 2 {
					return fmt.Errorf("edge %q is not of the form src>dst", arg)
				}
				edges = append(edges, dag.Edge{From: parts[0], To: parts[1]})
			}
			fmt.Print(dag.Build(edges).DOT())
			return nil
		},
	}
}

func newServeCmd() *cobra.Command {
	var dataFile string
	var target string
	var sensitive []string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the evaluation report over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ledger := buildLedger(cmd, cfg)
			server := api.NewServer(ledger, internal.DefaultLogger)

			if dataFile == "" {
				dataFile = cfg.Data.File
			}
			if dataFile != "" {
				loader, err := excel.NewFileLoader(excel.LoaderConfig{
					FilePath:          dataFile,
					TargetColumn:      core.ColumnKey(target),
					SensitiveFeatures: core.ColumnKeys(sensitive),
				})
				if err != nil {
					return err
				}
				svc := app.NewEvalService(
					fairness.NewScorer(fairness.WithLeakageColumn(core.ColumnKey(cfg.Data.LeakageColumn))),
					ledger,
					internal.DefaultLogger,
				)
				report, err := svc.Evaluate(cmd.Context(), dataFile, loader)
				if err != nil {
					return err
				}
				server.SetReport(report)
			}

			return server.Listen(":" + cfg.Server.Port)
		},
	}
	cmd.Flags().StringVar(&dataFile, "data", "", "dataset to evaluate before serving (defaults to DATA_FILE)")
	cmd.Flags().StringVar(&target, "target", "", "binary label column")
	cmd.Flags().StringSliceVar(&sensitive, "sensitive", nil, "sensitive attribute column(s)")
	return cmd
}

// buildLedger returns the postgres ledger when configured, otherwise an
// in-memory one so the report history still works within the process.
func buildLedger(cmd *cobra.Command, cfg *config.Config) ports.RunLedger {
	if cfg.Database.URL == "" {
		return testkit.NewInMemoryLedger()
	}
	db, err := postgres.Connect(cmd.Context(), cfg.Database.URL)
	if err != nil {
		internal.DefaultLogger.Warn("database unavailable, falling back to in-memory ledger: %v", err)
		return testkit.NewInMemoryLedger()
	}
	return postgres.NewRunLedger(db)
}
