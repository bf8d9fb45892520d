// Package report builds the comparison artifacts derived from normalized
// RFI records: the cross-supplier CSV, the internal Markdown summary, and
// per-supplier clarification notes.
package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/supplysift/supplysift/internal/models"
)

// ComparisonCSV renders one row per supplier with the five comparison
// columns, in record order.
func ComparisonCSV(records []*models.RFIRecord) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(models.ComparisonColumns); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, rec := range records {
		if err := w.Write(rec.ComparisonRow()); err != nil {
			return nil, fmt.Errorf("write csv row for %q: %w", rec.SupplierName, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// Summary renders a ten-line internal Markdown summary of the batch.
func Summary(records []*models.RFIRecord) string {
	var (
		withGaps     int
		pricingGaps  int
		isoConfirmed int
	)
	for _, rec := range records {
		if rec.Gaps != nil && (len(rec.Gaps.Missing) > 0 || len(rec.Gaps.FollowUps) > 0) {
			withGaps++
		}
		if rec.PricingNotes == "" {
			pricingGaps++
		}
		if rec.ISO27001 == "yes" {
			isoConfirmed++
		}
	}

	var b strings.Builder
	b.WriteString("# RFI intake summary\n\n")
	fmt.Fprintf(&b, "- Submissions processed: %d\n", len(records))
	fmt.Fprintf(&b, "- Submissions with open gaps: %d\n", withGaps)
	fmt.Fprintf(&b, "- ISO 27001 confirmed: %d of %d\n", isoConfirmed, len(records))
	fmt.Fprintf(&b, "- Pricing detail missing: %d\n", pricingGaps)
	b.WriteString("\n## Suppliers\n\n")
	for _, rec := range records {
		name := rec.SupplierName
		if name == "" {
			name = "(unnamed supplier)"
		}
		gapCount := 0
		if rec.Gaps != nil {
			gapCount = len(rec.Gaps.Missing) + len(rec.Gaps.FollowUps)
		}
		fmt.Fprintf(&b, "- %s: delivery %s days, ISO 27001 %s, %d open items\n",
			name, orDash(rec.DeliveryTimeDays.String()), orDash(rec.ISO27001), gapCount)
	}
	return b.String()
}

// Clarifications renders the buyer clarification note for one supplier as
// bullet points only, ready to paste into an email.
func Clarifications(rec *models.RFIRecord) string {
	name := rec.SupplierName
	if name == "" {
		name = "(unnamed supplier)"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## Clarifications for %s\n\n", name)

	if rec.Gaps == nil || (len(rec.Gaps.Missing) == 0 && len(rec.Gaps.FollowUps) == 0) {
		b.WriteString("- No clarifications needed.\n")
		return b.String()
	}
	for _, field := range rec.Gaps.Missing {
		fmt.Fprintf(&b, "- Please provide %s; it was missing or empty in your submission.\n", field)
	}
	for _, followUp := range rec.Gaps.FollowUps {
		fmt.Fprintf(&b, "- %s\n", followUp)
	}
	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "n/a"
	}
	return s
}
