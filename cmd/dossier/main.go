package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/agenthands/dossier/internal/app"
	"github.com/agenthands/dossier/internal/core/model"
	"github.com/agenthands/dossier/internal/report"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "dossier",
		Short: "Generate compliance reports by deep research over a document corpus",
		SilenceUsage: true,
	}
	root.AddCommand(generateCmd())
	return root
}

func generateCmd() *cobra.Command {
	var (
		configPath  string
		outputPath  string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Research every checklist item and write the assembled report",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(); err != nil {
				log.Println("No .env file found, using defaults")
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := app.Load(ctx, configPath)
			if err != nil {
				return err
			}
			defer a.Close(context.Background())

			if concurrency > 0 {
				a.Researcher.Concurrency = concurrency
			}

			log.Printf("Processing %d checklist items...", len(a.Checklist))

			events := make(chan model.ProgressEvent, 4)
			go func() {
				for event := range events {
					if event.Done {
						continue
					}
					log.Printf("Progress: %d/%d (item %s)",
						event.ProcessedCount, event.TotalCount, event.CurrentItemID)
				}
			}()

			rep, runErr := a.Researcher.Run(ctx, a.Checklist, events)
			if rep == nil {
				return runErr
			}
			if runErr != nil {
				log.Printf("Run interrupted: %v (%d sections completed)", runErr, len(rep.CompletedSections))
			}

			if a.Store != nil {
				if err := a.Store.SaveRun(context.Background(), rep.RunID, rep.CompletedSections); err != nil {
					log.Printf("Failed to persist run %s: %v", rep.RunID, err)
				}
			}

			document := report.Assemble(a.Config.Report.Title, rep.CompletedSections)
			if err := os.WriteFile(outputPath, []byte(document), 0o644); err != nil {
				return fmt.Errorf("failed to write report: %w", err)
			}

			log.Printf("Report written to %s (%d sections, run %s)",
				outputPath, len(rep.CompletedSections), rep.RunID)
			return runErr
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "config/config.toml", "path to the TOML config")
	cmd.Flags().StringVar(&outputPath, "output", "report.txt", "output path for the assembled report")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "max checklist items researched in parallel (0 = config value)")

	return cmd
}
