package models

// Field is a single extracted value paired with the recognizer's confidence.
// Value is nil when no key matched, and Confidence is 0.0 in that case.
type Field struct {
	Value      *string `json:"value"`
	Confidence float64 `json:"confidence"`
}

// ProposalFields is the fixed field set extracted from supplier proposals.
type ProposalFields struct {
	VendorName   Field `json:"vendor_name"`
	DeliveryDate Field `json:"delivery_date"`
	Cost         Field `json:"cost"`
	Technologies Field `json:"technologies"`
}

// ProposalExtraction is the normalized output for one proposal document.
type ProposalExtraction struct {
	BlobName string         `json:"blob_name,omitempty"`
	Fields   ProposalFields `json:"fields"`
	Preview  string         `json:"preview"`
}

// RFIRecord is the normalized output for one RFI submission. Every schema
// field is always serialized, even when empty; downstream gap checks treat
// an empty value as a gap, not absence of the key.
type RFIRecord struct {
	SupplierName     string     `json:"supplier_name"`
	ContactEmail     string     `json:"contact_email"`
	CoverageRegions  []string   `json:"coverage_regions"`
	DeliveryTimeDays FlexInt    `json:"delivery_time_days"`
	ISO27001         string     `json:"iso_27001"`
	SLASummary       string     `json:"sla_summary"`
	PricingNotes     string     `json:"pricing_notes"`
	Exceptions       []string   `json:"exceptions"`
	Attachments      []string   `json:"attachments"`
	Sources          []string   `json:"sources"`
	Gaps             *GapReport `json:"gaps,omitempty"`
}

// NewRFIRecord returns a record whose array fields serialize as [] rather
// than null.
func NewRFIRecord() *RFIRecord {
	return &RFIRecord{
		CoverageRegions: []string{},
		Exceptions:      []string{},
		Attachments:     []string{},
		Sources:         []string{},
	}
}

// ComparisonColumns are the columns of the cross-supplier comparison CSV.
var ComparisonColumns = []string{
	"supplier_name", "delivery_time_days", "iso_27001", "sla_summary", "pricing_notes",
}

// ComparisonRow returns the record's values in ComparisonColumns order.
func (r *RFIRecord) ComparisonRow() []string {
	return []string{
		r.SupplierName,
		r.DeliveryTimeDays.String(),
		r.ISO27001,
		r.SLASummary,
		r.PricingNotes,
	}
}

// Record is implemented by both normalized record shapes. Callers pick the
// shape through the normalizer they run, not by inspecting the result.
type Record interface {
	RecordKind() string
}

func (*ProposalExtraction) RecordKind() string { return "proposal" }
func (*RFIRecord) RecordKind() string          { return "rfi" }

// RequirementProfile is the buyer-configured requirement sets. The gap
// analyzer currently runs a fixed baseline regardless of profile content;
// the profile rides along for configuration compatibility.
type RequirementProfile struct {
	MustHave   []string `json:"must_have" yaml:"must_have"`
	NiceToHave []string `json:"nice_to_have" yaml:"nice_to_have"`
}

// GapReport flags missing or non-compliant fields in a normalized record.
// Risks is reserved for future rule categories and stays in the output
// shape even though nothing populates it yet.
type GapReport struct {
	Missing   []string `json:"missing"`
	FollowUps []string `json:"follow_ups"`
	Risks     []string `json:"risks"`
}

// NewGapReport returns a report whose lists serialize as [] rather than null.
func NewGapReport() *GapReport {
	return &GapReport{
		Missing:   []string{},
		FollowUps: []string{},
		Risks:     []string{},
	}
}
