package report_test

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supplysift/supplysift/internal/models"
	"github.com/supplysift/supplysift/pkg/gaps"
	"github.com/supplysift/supplysift/pkg/report"
)

func batchRecords() []*models.RFIRecord {
	complete := models.NewRFIRecord()
	complete.SupplierName = "Acme"
	complete.ContactEmail = "sales@acme.example.com"
	complete.CoverageRegions = []string{"Benelux"}
	complete.DeliveryTimeDays = models.FlexFromInt(12)
	complete.ISO27001 = "yes"
	complete.SLASummary = "99.9% uptime"
	complete.PricingNotes = "per shipment"

	sparse := models.NewRFIRecord()
	sparse.SupplierName = "Bolt Freight"
	sparse.ISO27001 = "unclear"

	for _, rec := range []*models.RFIRecord{complete, sparse} {
		rec.Gaps = gaps.Check(rec, models.RequirementProfile{})
	}
	return []*models.RFIRecord{complete, sparse}
}

func TestComparisonCSV(t *testing.T) {
	out, err := report.ComparisonCSV(batchRecords())
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, models.ComparisonColumns, rows[0])
	assert.Equal(t, []string{"Acme", "12", "yes", "99.9% uptime", "per shipment"}, rows[1])
	assert.Equal(t, []string{"Bolt Freight", "", "unclear", "", ""}, rows[2])
}

func TestSummaryCounts(t *testing.T) {
	summary := report.Summary(batchRecords())

	assert.Contains(t, summary, "# RFI intake summary")
	assert.Contains(t, summary, "Submissions processed: 2")
	assert.Contains(t, summary, "Submissions with open gaps: 1")
	assert.Contains(t, summary, "ISO 27001 confirmed: 1 of 2")
	assert.Contains(t, summary, "Pricing detail missing: 1")
	assert.Contains(t, summary, "- Acme: delivery 12 days, ISO 27001 yes, 0 open items")
	assert.Contains(t, summary, "Bolt Freight: delivery n/a days")
}

func TestClarificationsBullets(t *testing.T) {
	records := batchRecords()

	clean := report.Clarifications(records[0])
	assert.Contains(t, clean, "## Clarifications for Acme")
	assert.Contains(t, clean, "- No clarifications needed.")

	note := report.Clarifications(records[1])
	assert.Contains(t, note, "## Clarifications for Bolt Freight")
	assert.Contains(t, note, "- Please provide contact_email; it was missing or empty in your submission.")
	assert.Contains(t, note, "- Provide ISO 27001 certificate or explain compensating controls.")
	assert.NotContains(t, note, "No clarifications needed")
}

func TestClarificationsUnnamedSupplier(t *testing.T) {
	rec := models.NewRFIRecord()
	rec.Gaps = gaps.Check(rec, models.RequirementProfile{})

	note := report.Clarifications(rec)
	assert.Contains(t, note, "## Clarifications for (unnamed supplier)")
}
