package gaps_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supplysift/supplysift/internal/models"
	"github.com/supplysift/supplysift/pkg/gaps"
)

func completeRecord() *models.RFIRecord {
	rec := models.NewRFIRecord()
	rec.SupplierName = "Acme Logistics"
	rec.ContactEmail = "sales@acme.example.com"
	rec.CoverageRegions = []string{"Benelux", "DACH"}
	rec.DeliveryTimeDays = models.FlexFromInt(12)
	rec.ISO27001 = "yes"
	rec.SLASummary = "99.9% uptime, 4h response"
	rec.PricingNotes = "Per-shipment fee, volume discounts"
	return rec
}

func TestCheckCompleteRecord(t *testing.T) {
	report := gaps.Check(completeRecord(), models.RequirementProfile{})
	require.NotNil(t, report)

	assert.Empty(t, report.Missing)
	assert.Empty(t, report.FollowUps)
	assert.Empty(t, report.Risks)
}

func TestCheckEmptyRecord(t *testing.T) {
	report := gaps.Check(models.NewRFIRecord(), models.RequirementProfile{})

	assert.Equal(t, []string{
		"supplier_name", "contact_email", "coverage_regions",
		"delivery_time_days", "iso_27001", "sla_summary",
	}, report.Missing)

	// An absent delivery value coerces as -1 and takes the non-positive
	// path; an empty ISO answer triggers no compliance follow-up.
	assert.Equal(t, []string{
		"Confirm delivery_time_days; non-positive value detected.",
		"Share pricing model and inclusions/exclusions (e.g., VAT, support).",
	}, report.FollowUps)
}

func TestCheckISOFollowUp(t *testing.T) {
	for _, answer := range []string{"no", "unclear"} {
		rec := completeRecord()
		rec.ISO27001 = answer

		report := gaps.Check(rec, models.RequirementProfile{})
		assert.Contains(t, report.FollowUps,
			"Provide ISO 27001 certificate or explain compensating controls.", answer)
	}
}

func TestCheckNonPositiveDelivery(t *testing.T) {
	rec := completeRecord()
	rec.ContactEmail = ""
	rec.DeliveryTimeDays = models.FlexFromInt(-5)

	report := gaps.Check(rec, models.RequirementProfile{})

	assert.Contains(t, report.Missing, "contact_email")
	assert.Contains(t, report.FollowUps,
		"Confirm delivery_time_days; non-positive value detected.")
	assert.NotContains(t, report.FollowUps,
		"delivery_time_days not numeric; please clarify.")
}

func TestCheckNonNumericDelivery(t *testing.T) {
	rec := completeRecord()
	rec.DeliveryTimeDays = models.FlexFromString("abc")

	report := gaps.Check(rec, models.RequirementProfile{})

	// A non-empty string is present, so it is not missing; it just fails
	// coercion.
	assert.NotContains(t, report.Missing, "delivery_time_days")
	assert.Contains(t, report.FollowUps,
		"delivery_time_days not numeric; please clarify.")
	assert.NotContains(t, report.FollowUps,
		"Confirm delivery_time_days; non-positive value detected.")
}

func TestCheckZeroDelivery(t *testing.T) {
	rec := completeRecord()
	rec.DeliveryTimeDays = models.FlexFromInt(0)

	report := gaps.Check(rec, models.RequirementProfile{})

	assert.Contains(t, report.Missing, "delivery_time_days")
	assert.Contains(t, report.FollowUps,
		"Confirm delivery_time_days; non-positive value detected.")
}

func TestCheckPricingFollowUp(t *testing.T) {
	rec := completeRecord()
	rec.PricingNotes = ""

	report := gaps.Check(rec, models.RequirementProfile{})
	assert.Equal(t, []string{
		"Share pricing model and inclusions/exclusions (e.g., VAT, support).",
	}, report.FollowUps)
}

func TestCheckOutOfEnumISOPasses(t *testing.T) {
	rec := completeRecord()
	rec.ISO27001 = "pending"

	report := gaps.Check(rec, models.RequirementProfile{})
	assert.Empty(t, report.FollowUps)
	assert.NotContains(t, report.Missing, "iso_27001")
}
