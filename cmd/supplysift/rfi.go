package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/supplysift/supplysift/pkg/pipeline"
)

var rfiPrefix string

var rfiCmd = &cobra.Command{
	Use:   "rfi",
	Short: "Run the RFI batch: extract, normalize, gap-check and build the comparison artifacts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		bar := getSpinner("📄 Processing submissions...")
		p, err := buildPipeline(cfg, func(e pipeline.Event) {
			bar.Add(1)
			switch e.Stage {
			case "extract":
				bar.Describe(color.CyanString("📄 Extracting %s...", e.Blob))
			case "schema":
				if e.Error != "" {
					color.Yellow("\n⚠ %s: %s", e.Blob, e.Error)
				} else {
					color.Yellow("\n⚠ %s: %s", e.Blob, e.Message)
				}
			case "failed":
				color.Red("\n✗ %s: %s", e.Blob, e.Error)
			}
		})
		if err != nil {
			return err
		}

		result, err := p.ProcessRFIBatch(cmd.Context(), rfiPrefix)
		bar.Finish()
		if err != nil {
			return err
		}

		printBatchResult(result)
		return nil
	},
}

func init() {
	rfiCmd.Flags().StringVar(&rfiPrefix, "prefix", "", "Only process submissions under this blob prefix")
}
