// Package gaps derives actionable gaps from a normalized RFI record:
// missing required fields, compliance follow-ups, and reserved risk flags.
package gaps

import "github.com/supplysift/supplysift/internal/models"

const (
	isoFollowUp         = "Provide ISO 27001 certificate or explain compensating controls."
	nonPositiveFollowUp = "Confirm delivery_time_days; non-positive value detected."
	notNumericFollowUp  = "delivery_time_days not numeric; please clarify."
	pricingFollowUp     = "Share pricing model and inclusions/exclusions (e.g., VAT, support)."
)

// baselineFields are checked for presence regardless of the requirement
// profile, in report order.
var baselineFields = []string{
	"supplier_name", "contact_email", "coverage_regions",
	"delivery_time_days", "iso_27001", "sla_summary",
}

// Check produces a gap report for one record. It never fails: a maximally
// empty record simply yields every baseline field in Missing plus the
// applicable follow-ups.
//
// The requirement profile is accepted for configuration compatibility but
// the checks below run a fixed baseline.
func Check(rec *models.RFIRecord, profile models.RequirementProfile) *models.GapReport {
	report := models.NewGapReport()

	for _, field := range baselineFields {
		if fieldEmpty(rec, field) {
			report.Missing = append(report.Missing, field)
		}
	}

	// Compliance evidence. Only the explicit negative answers trigger a
	// follow-up; an out-of-enum value passes through here and is only
	// flagged by the presence check when empty.
	if rec.ISO27001 == "no" || rec.ISO27001 == "unclear" {
		report.FollowUps = append(report.FollowUps, isoFollowUp)
	}

	// Delivery sanity. Exactly one of the two follow-ups can fire: an
	// absent key coerces as -1 and takes the non-positive path, while null
	// or a non-numeric string fails coercion.
	if days, err := deliveryDays(rec.DeliveryTimeDays); err != nil {
		report.FollowUps = append(report.FollowUps, notNumericFollowUp)
	} else if days <= 0 {
		report.FollowUps = append(report.FollowUps, nonPositiveFollowUp)
	}

	if rec.PricingNotes == "" {
		report.FollowUps = append(report.FollowUps, pricingFollowUp)
	}

	return report
}

func deliveryDays(v models.FlexInt) (int, error) {
	if !v.Defined() {
		return -1, nil
	}
	return v.Int()
}

// fieldEmpty is the permissive presence check: an explicitly-empty-but-
// present value still counts as a gap. Note numeric zero is empty while the
// string "0" is not.
func fieldEmpty(rec *models.RFIRecord, field string) bool {
	switch field {
	case "supplier_name":
		return rec.SupplierName == ""
	case "contact_email":
		return rec.ContactEmail == ""
	case "coverage_regions":
		return len(rec.CoverageRegions) == 0
	case "delivery_time_days":
		return rec.DeliveryTimeDays.IsZero()
	case "iso_27001":
		return rec.ISO27001 == ""
	case "sla_summary":
		return rec.SLASummary == ""
	}
	return false
}
