package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"todo-export/config"
	"todo-export/internal/export"
	"todo-export/internal/export/repository/graph"
	"todo-export/internal/export/repository/notefs"
	"todo-export/internal/export/usecase"
	"todo-export/internal/note"
	"todo-export/pkg/log"
)

func newRootCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "todo-export",
		Short: "Export Microsoft To Do lists into Markdown note files",
		Long: "todo-export reads every task list of the source account through the " +
			"Microsoft Graph API and writes one frontmatter-plus-Markdown note file " +
			"per task. It never writes back to any remote account.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cfg)
		},
	}

	cmd.Version = version

	flags := cmd.Flags()
	flags.StringVar(&cfg.Graph.SourceToken, "source-token", cfg.Graph.SourceToken, "source account bearer token")
	flags.StringVar(&cfg.Graph.DestToken, "dest-token", cfg.Graph.DestToken, "destination account bearer token (accepted, not used)")
	flags.StringVar(&cfg.Graph.BaseURL, "source-base", cfg.Graph.BaseURL, "source API base URL")
	flags.StringVarP(&cfg.Export.OutputFolder, "output-folder", "o", cfg.Export.OutputFolder, "output folder for exported notes")
	flags.BoolVar(&cfg.Export.SkipCompleted, "skip-completed", cfg.Export.SkipCompleted, "skip completed tasks")
	flags.BoolVar(&cfg.Export.FolderPerList, "folder-per-list", cfg.Export.FolderPerList, "write each list into its own subfolder")

	return cmd
}

func run(ctx context.Context, cfg *config.Config) error {
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting To Do export...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)
	logger.Infof(ctx, "Output folder: %s", cfg.Export.OutputFolder)

	if cfg.Graph.DestToken != "" {
		logger.Warn(ctx, "Destination token provided but destination import is not implemented; token ignored")
	}

	client, err := graph.NewClient(cfg.Graph.BaseURL, cfg.Graph.SourceToken, graph.Config{
		Timeout:           cfg.Graph.Timeout,
		RetryAttempts:     cfg.Graph.RetryAttempts,
		RetryBaseDelay:    cfg.Graph.RetryBaseDelay,
		RetryMaxDelay:     cfg.Graph.RetryMaxDelay,
		RequestsPerSecond: cfg.Graph.RequestsPerSecond,
	})
	if err != nil {
		return err
	}

	source := graph.New(client, logger)
	notes := notefs.New(cfg.Export.OutputFolder, cfg.Export.FolderPerList, logger)
	renderer := note.New()
	uc := usecase.New(logger, source, notes, renderer)

	report, err := uc.Run(ctx, export.RunInput{SkipCompleted: cfg.Export.SkipCompleted})
	if err != nil {
		return err
	}

	logger.Infof(ctx, "Migration completed! Total exported: %d", report.Exported)
	return nil
}
