// Package pipeline orchestrates the document flows: list submissions,
// download, analyze, normalize, gap-check, and write artifacts back to
// storage. Processing is sequential; one document's failure never aborts
// the rest of the batch.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/supplysift/supplysift/internal/models"
	"github.com/supplysift/supplysift/internal/types"
	"github.com/supplysift/supplysift/pkg/gaps"
	"github.com/supplysift/supplysift/pkg/normalize"
	"github.com/supplysift/supplysift/pkg/report"
	"github.com/supplysift/supplysift/pkg/schema"
)

// Event is one progress notification emitted while a batch runs.
type Event struct {
	Stage   string `json:"stage"`
	Blob    string `json:"blob,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

type PipelineConfig struct {
	SubmissionsContainer string
	ResultsContainer     string
	ProposalsContainer   string
	OutputPrefix         string
	Profile              models.RequirementProfile

	// OnEvent, when set, observes batch progress. It is fixed at
	// construction; callers wanting a different sink build a new pipeline.
	OnEvent func(Event)
}

type Pipeline struct {
	config   PipelineConfig
	store    types.BlobStore
	analyzer types.Analyzer

	rfiNormalizer      types.Normalizer
	proposalNormalizer types.Normalizer
}

func New(config PipelineConfig, store types.BlobStore, analyzer types.Analyzer) *Pipeline {
	if config.SubmissionsContainer == "" {
		config.SubmissionsContainer = "rfi-submissions"
	}
	if config.ResultsContainer == "" {
		config.ResultsContainer = "rfi-results"
	}
	if config.ProposalsContainer == "" {
		config.ProposalsContainer = "proposals"
	}
	if config.OutputPrefix == "" {
		config.OutputPrefix = "outputs/"
	}
	return &Pipeline{
		config:             config,
		store:              store,
		analyzer:           analyzer,
		rfiNormalizer:      normalize.PatternNormalizer{},
		proposalNormalizer: normalize.LabelNormalizer{},
	}
}

// BatchResult summarizes one batch run.
type BatchResult struct {
	Processed []string          `json:"processed"`
	Failed    map[string]string `json:"failed"`
	Artifacts []string          `json:"artifacts"`
}

// ProcessRFIBatch runs every submission under prefix through extract,
// normalize, schema check and gap check, uploads the per-supplier JSON, and
// finishes with the comparison CSV, the Markdown summary, and per-supplier
// clarification notes.
func (p *Pipeline) ProcessRFIBatch(ctx context.Context, prefix string) (*BatchResult, error) {
	names, err := p.store.List(ctx, p.config.SubmissionsContainer, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}

	result := &BatchResult{Failed: map[string]string{}}
	var records []*models.RFIRecord

	for _, name := range names {
		p.emit(Event{Stage: "extract", Blob: name})

		rec, err := p.processSubmission(ctx, name)
		if err != nil {
			result.Failed[name] = err.Error()
			p.emit(Event{Stage: "failed", Blob: name, Error: err.Error()})
			continue
		}

		records = append(records, rec)
		result.Processed = append(result.Processed, name)
		p.emit(Event{Stage: "normalized", Blob: name})
	}

	if len(records) > 0 {
		artifacts, err := p.writeArtifacts(ctx, records)
		if err != nil {
			return result, err
		}
		result.Artifacts = artifacts
	}

	return result, nil
}

func (p *Pipeline) processSubmission(ctx context.Context, name string) (*models.RFIRecord, error) {
	data, err := p.store.Download(ctx, p.config.SubmissionsContainer, name)
	if err != nil {
		return nil, err
	}

	res, err := p.analyzer.Analyze(ctx, data)
	if err != nil {
		return nil, err
	}

	rec := p.rfiNormalizer.Normalize(res).(*models.RFIRecord)
	rec.Sources = []string{name}
	rec.Attachments = []string{name}

	violations, err := schema.ValidateRecord(rec)
	if err != nil {
		p.emit(Event{Stage: "schema", Blob: name, Error: err.Error()})
	} else if len(violations) > 0 {
		p.emit(Event{Stage: "schema", Blob: name, Message: strings.Join(violations, "; ")})
	}

	rec.Gaps = gaps.Check(rec, p.config.Profile)

	payload, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}
	target := jsonName(name)
	if err := p.store.Upload(ctx, p.config.ResultsContainer, target, payload, "application/json"); err != nil {
		return nil, err
	}

	return rec, nil
}

func (p *Pipeline) writeArtifacts(ctx context.Context, records []*models.RFIRecord) ([]string, error) {
	var artifacts []string

	csvData, err := report.ComparisonCSV(records)
	if err != nil {
		return nil, err
	}
	if err := p.store.Upload(ctx, p.config.ResultsContainer, "comparison.csv", csvData, "text/csv"); err != nil {
		return nil, err
	}
	artifacts = append(artifacts, "comparison.csv")

	summary := report.Summary(records)
	if err := p.store.Upload(ctx, p.config.ResultsContainer, "summary.md", []byte(summary), "text/markdown"); err != nil {
		return nil, err
	}
	artifacts = append(artifacts, "summary.md")

	for _, rec := range records {
		note := report.Clarifications(rec)
		target := "clarifications/" + slugName(rec.SupplierName) + ".md"
		if err := p.store.Upload(ctx, p.config.ResultsContainer, target, []byte(note), "text/markdown"); err != nil {
			return nil, err
		}
		artifacts = append(artifacts, target)
	}

	p.emit(Event{Stage: "artifacts", Message: strings.Join(artifacts, ", ")})
	return artifacts, nil
}

// ProcessProposals extracts key/value fields from each proposal document
// and saves the normalized JSON next to the sources under the output
// prefix.
func (p *Pipeline) ProcessProposals(ctx context.Context, prefix string) (*BatchResult, error) {
	names, err := p.store.List(ctx, p.config.ProposalsContainer, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list proposals: %w", err)
	}

	result := &BatchResult{Failed: map[string]string{}}

	for _, name := range names {
		if strings.HasPrefix(name, p.config.OutputPrefix) {
			continue
		}
		p.emit(Event{Stage: "extract", Blob: name})

		if err := p.processProposal(ctx, name); err != nil {
			result.Failed[name] = err.Error()
			p.emit(Event{Stage: "failed", Blob: name, Error: err.Error()})
			continue
		}

		result.Processed = append(result.Processed, name)
		result.Artifacts = append(result.Artifacts, p.config.OutputPrefix+jsonName(name))
		p.emit(Event{Stage: "normalized", Blob: name})
	}

	return result, nil
}

func (p *Pipeline) processProposal(ctx context.Context, name string) error {
	data, err := p.store.Download(ctx, p.config.ProposalsContainer, name)
	if err != nil {
		return err
	}

	res, err := p.analyzer.Analyze(ctx, data)
	if err != nil {
		return err
	}

	rec := p.proposalNormalizer.Normalize(res).(*models.ProposalExtraction)
	rec.BlobName = name

	payload, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode extraction: %w", err)
	}
	return p.store.Upload(ctx, p.config.ProposalsContainer, p.config.OutputPrefix+jsonName(name), payload, "application/json")
}

func (p *Pipeline) emit(e Event) {
	if p.config.OnEvent != nil {
		p.config.OnEvent(e)
	}
}

func jsonName(blobName string) string {
	base := path.Base(blobName)
	ext := path.Ext(base)
	return strings.TrimSuffix(base, ext) + ".json"
}

func slugName(name string) string {
	if name == "" {
		return "unnamed-supplier"
	}
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '-'
		}
	}, slug)
	return strings.Trim(slug, "-")
}
