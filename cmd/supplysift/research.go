package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/supplysift/supplysift/internal/models"
	"github.com/supplysift/supplysift/pkg/agent"
	"github.com/supplysift/supplysift/pkg/llm"
	"github.com/supplysift/supplysift/pkg/search"
	"github.com/supplysift/supplysift/pkg/store"
)

var researchFind string

const researchInstructions = "You are a procurement market researcher. " +
	"Use the web_search tool to gather facts about the supplier, then write " +
	"a short factual profile: what they sell, where they operate, and any " +
	"certifications or compliance signals. Cite nothing you did not find."

var researchCmd = &cobra.Command{
	Use:   "research [supplier...]",
	Short: "Research suppliers on the web and index the profiles for similarity lookup",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		embedder, err := llm.NewEmbedderWithConfig(llm.EmbedderConfig{
			Model:   cfg.Research.EmbedModel,
			BaseURL: cfg.Research.EmbedURL,
		})
		if err != nil {
			return err
		}

		index, err := store.NewWithConfig(store.ResearchIndexConfig{
			ConnString: cfg.Research.DatabaseURL,
			TableName:  cfg.Research.TableName,
			VectorDim:  cfg.Research.VectorDim,
		}, embedder)
		if err != nil {
			return err
		}
		defer index.Close()

		if researchFind != "" {
			profiles, err := index.Query(cmd.Context(), researchFind, 5)
			if err != nil {
				return err
			}
			for _, p := range profiles {
				color.Cyan("%s (%s)", p.Name, p.Domain)
				fmt.Println(p.Summary)
			}
			return nil
		}

		if len(args) == 0 {
			return fmt.Errorf("supply at least one supplier name, or use --find")
		}

		searcher := search.NewWithConfig(search.ClientConfig{
			Region:     cfg.Search.Region,
			SafeSearch: cfg.Search.SafeSearch,
			TimeLimit:  cfg.Search.TimeLimit,
			AllowList:  cfg.Search.AllowDomains,
			DenyList:   cfg.Search.DenyDomains,
			MaxResults: cfg.Search.MaxResults,
			RateLimit:  cfg.Search.RateLimit,
		})

		runner, err := agent.NewWithConfig(agent.RunnerConfig{
			BaseURL:     cfg.Agent.BaseURL,
			Token:       cfg.Agent.Token,
			Model:       cfg.Agent.Model,
			Temperature: cfg.Agent.Temperature,
			MaxTurns:    cfg.Agent.MaxTurns,
		}, agent.WebSearchTool(searcher))
		if err != nil {
			return err
		}

		var profiles []models.SupplierProfile
		for _, name := range args {
			spinner := getSpinner(fmt.Sprintf("🔍 Researching %s...", name))
			profile, err := researchSupplier(cmd, searcher, runner, name)
			spinner.Finish()
			if err != nil {
				color.Red("✗ %s: %v", name, err)
				continue
			}
			profiles = append(profiles, *profile)
			color.Green("✓ %s", name)
		}

		if len(profiles) == 0 {
			return fmt.Errorf("no suppliers researched")
		}
		if err := index.Store(cmd.Context(), profiles); err != nil {
			return err
		}
		color.Green("✓ Indexed %d supplier profiles", len(profiles))
		return nil
	},
}

func researchSupplier(cmd *cobra.Command, searcher *search.Client, runner *agent.Runner, name string) (*models.SupplierProfile, error) {
	payload, err := searcher.Search(cmd.Context(), name+" supplier company profile", 0)
	if err != nil {
		return nil, err
	}

	var found struct {
		Results []search.SearchResult `json:"results"`
	}
	if err := json.Unmarshal([]byte(payload), &found); err != nil {
		return nil, fmt.Errorf("failed to decode search payload: %w", err)
	}

	profile := models.SupplierProfile{
		ID:   uuid.NewString(),
		Name: name,
	}
	for _, r := range found.Results {
		profile.Sources = append(profile.Sources, r.URL)
	}
	if len(found.Results) > 0 {
		profile.Domain = found.Results[0].Domain
	}

	result, err := runner.Run(cmd.Context(), researchInstructions,
		fmt.Sprintf("Research the supplier %q and write their profile.", name))
	if err != nil {
		// The index is still useful with raw snippets when the model is
		// unreachable.
		var snippets []string
		for _, r := range found.Results {
			snippets = append(snippets, r.Snippet)
		}
		if len(snippets) == 0 {
			return nil, err
		}
		profile.Summary = strings.Join(snippets, " ")
		return &profile, nil
	}

	profile.Summary = result.Output
	return &profile, nil
}

func init() {
	researchCmd.Flags().StringVar(&researchFind, "find", "", "Query the research index instead of researching new suppliers")
}
