package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/supplysift/supplysift/pkg/analyze"
	"github.com/supplysift/supplysift/pkg/blob"
	"github.com/supplysift/supplysift/pkg/config"
	"github.com/supplysift/supplysift/pkg/pipeline"

	"github.com/supplysift/supplysift/internal/models"
	"github.com/supplysift/supplysift/internal/types"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "supplysift",
	Short:         "Procurement document pipeline: extract, normalize and gap-check supplier submissions",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")
	rootCmd.AddCommand(rfiCmd, docsCmd, researchCmd, serveCmd)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if problems := cfg.Validate(); len(problems) > 0 {
		for _, p := range problems {
			color.Red("config: %v", p)
		}
		return nil, fmt.Errorf("invalid configuration (%d problems)", len(problems))
	}
	return cfg, nil
}

func buildCollaborators(cfg *config.Config) (types.BlobStore, types.Analyzer, pipeline.PipelineConfig, error) {
	store, err := blob.NewWithConfig(blob.StoreConfig{
		ConnectionString: cfg.Storage.ConnectionString,
	})
	if err != nil {
		return nil, nil, pipeline.PipelineConfig{}, err
	}

	analyzer, err := analyze.NewWithConfig(analyze.ClientConfig{
		Endpoint:     cfg.Analysis.Endpoint,
		APIKey:       cfg.Analysis.APIKey,
		ModelID:      cfg.Analysis.ModelID,
		OutputFormat: cfg.Analysis.OutputFormat,
		APIVersion:   cfg.Analysis.APIVersion,
		MaxPolls:     cfg.Analysis.MaxPolls,
	})
	if err != nil {
		return nil, nil, pipeline.PipelineConfig{}, err
	}

	batch := pipeline.PipelineConfig{
		SubmissionsContainer: cfg.Storage.SubmissionsContainer,
		ResultsContainer:     cfg.Storage.ResultsContainer,
		ProposalsContainer:   cfg.Storage.ProposalsContainer,
		OutputPrefix:         cfg.Storage.OutputPrefix,
		Profile: models.RequirementProfile{
			MustHave:   cfg.Requirements.MustHave,
			NiceToHave: cfg.Requirements.NiceToHave,
		},
	}
	return store, analyzer, batch, nil
}

func buildPipeline(cfg *config.Config, onEvent func(pipeline.Event)) (*pipeline.Pipeline, error) {
	store, analyzer, batch, err := buildCollaborators(cfg)
	if err != nil {
		return nil, err
	}
	batch.OnEvent = onEvent
	return pipeline.New(batch, store, analyzer), nil
}

func getSpinner(description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(color.CyanString(description)),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWidth(20),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func printBatchResult(result *pipeline.BatchResult) {
	color.Green("\n✓ Processed %d documents", len(result.Processed))
	for name, reason := range result.Failed {
		color.Red("✗ %s: %s", name, reason)
	}
	for _, artifact := range result.Artifacts {
		fmt.Printf("  %s\n", artifact)
	}
}
