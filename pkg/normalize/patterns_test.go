package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supplysift/supplysift/internal/models"
	"github.com/supplysift/supplysift/pkg/analyze"
	"github.com/supplysift/supplysift/pkg/normalize"
)

const sampleSubmission = `RFI Response

Supplier: Acme Logistics B.V.
Contact: sales@acme.example.com
Coverage: Benelux, DACH, Nordics
Delivery time (days): 12
ISO 27001 certified: yes

SLA Summary:
99.9% uptime, 4h response
Credits after two breaches

Pricing Notes:
Per-shipment fee, volume discounts
Exceptions:
- Hazardous goods
- Weekend delivery

Thank you for considering us.
`

func TestPatternNormalizerFullSubmission(t *testing.T) {
	res := &analyze.Result{Content: sampleSubmission}

	rec, ok := normalize.PatternNormalizer{}.Normalize(res).(*models.RFIRecord)
	require.True(t, ok)

	assert.Equal(t, "Acme Logistics B.V.", rec.SupplierName)
	assert.Equal(t, "sales@acme.example.com", rec.ContactEmail)
	assert.Equal(t, []string{"Benelux", "DACH", "Nordics"}, rec.CoverageRegions)
	assert.Equal(t, "yes", rec.ISO27001)

	days, err := rec.DeliveryTimeDays.Int()
	require.NoError(t, err)
	assert.Equal(t, 12, days)

	assert.Equal(t, "99.9% uptime, 4h response\nCredits after two breaches", rec.SLASummary)
	assert.Equal(t, "Per-shipment fee, volume discounts", rec.PricingNotes)
	assert.Equal(t, []string{"Hazardous goods", "Weekend delivery"}, rec.Exceptions)
}

func TestPatternNormalizerEmptyText(t *testing.T) {
	rec, ok := normalize.PatternNormalizer{}.Normalize(&analyze.Result{Content: "unrelated text"}).(*models.RFIRecord)
	require.True(t, ok)

	assert.Empty(t, rec.SupplierName)
	assert.Empty(t, rec.ContactEmail)
	assert.Equal(t, []string{}, rec.CoverageRegions)
	assert.False(t, rec.DeliveryTimeDays.Defined())
	assert.Equal(t, []string{}, rec.Exceptions)
}

func TestPatternNormalizerNonNumericDelivery(t *testing.T) {
	res := &analyze.Result{Content: "Delivery time (days): to be confirmed\n"}

	rec := normalize.PatternNormalizer{}.Normalize(res).(*models.RFIRecord)

	assert.True(t, rec.DeliveryTimeDays.Defined())
	_, err := rec.DeliveryTimeDays.Int()
	assert.Error(t, err)
	assert.Equal(t, "to be confirmed", rec.DeliveryTimeDays.String())
}

func TestRuleBlockUntilBlankRunsToEnd(t *testing.T) {
	res := &analyze.Result{Content: "SLA Summary:\nline one\nline two"}

	rec := normalize.PatternNormalizer{}.Normalize(res).(*models.RFIRecord)
	assert.Equal(t, "line one\nline two", rec.SLASummary)
}

func TestRuleCaseInsensitiveISOHeading(t *testing.T) {
	res := &analyze.Result{Content: "Iso-27001 status: Unclear\n"}

	rec := normalize.PatternNormalizer{}.Normalize(res).(*models.RFIRecord)
	assert.Equal(t, "unclear", rec.ISO27001)
}
