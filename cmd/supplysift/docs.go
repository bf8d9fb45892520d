package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/supplysift/supplysift/pkg/pipeline"
)

var docsPrefix string

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Extract key fields from proposal documents and save the normalized JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		bar := getSpinner("📄 Extracting proposals...")
		p, err := buildPipeline(cfg, func(e pipeline.Event) {
			bar.Add(1)
			if e.Stage == "failed" {
				color.Red("\n✗ %s: %s", e.Blob, e.Error)
			}
		})
		if err != nil {
			return err
		}

		result, err := p.ProcessProposals(cmd.Context(), docsPrefix)
		bar.Finish()
		if err != nil {
			return err
		}

		printBatchResult(result)
		return nil
	},
}

func init() {
	docsCmd.Flags().StringVar(&docsPrefix, "prefix", "", "Only process proposals under this blob prefix")
}
