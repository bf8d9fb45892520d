package normalize

import (
	"regexp"
	"strings"

	"github.com/supplysift/supplysift/internal/models"
	"github.com/supplysift/supplysift/pkg/analyze"
)

// Semantics selects how a rule's match is turned into a field value.
type Semantics int

const (
	// Capture takes the pattern's first capture group.
	Capture Semantics = iota
	// BlockUntilBlank takes everything from the end of the match up to the
	// next blank line, or the end of the text.
	BlockUntilBlank
	// BlockUntilTerminator takes everything from the end of the match up to
	// a literal terminator string, or the end of the text.
	BlockUntilTerminator
)

// Rule extracts one field from free text. Rules are independent: a rule
// that fails to match leaves its field null and has no effect on the others.
type Rule struct {
	Field      string
	Pattern    *regexp.Regexp
	Semantics  Semantics
	Terminator string
}

// Extract applies the rule to text. Nil means no match; matched text comes
// back with surrounding whitespace trimmed. Pattern matching is boolean
// here, so there is no confidence axis. A document whose formatting
// deviates from the expected section layout yields null or truncated
// fields; that is an accepted limitation of pattern-based parsing.
func (r Rule) Extract(text string) *string {
	switch r.Semantics {
	case BlockUntilBlank, BlockUntilTerminator:
		loc := r.Pattern.FindStringIndex(text)
		if loc == nil {
			return nil
		}
		rest := text[loc[1]:]
		end := len(rest)
		if r.Semantics == BlockUntilBlank {
			if i := strings.Index(rest, "\n\n"); i >= 0 {
				end = i
			}
		} else if r.Terminator != "" {
			if i := strings.Index(rest, r.Terminator); i >= 0 {
				end = i
			}
		}
		value := strings.TrimSpace(rest[:end])
		return &value
	default:
		m := r.Pattern.FindStringSubmatch(text)
		if m == nil || len(m) < 2 {
			return nil
		}
		value := strings.TrimSpace(m[1])
		return &value
	}
}

// rfiRules are the extraction rules for text-shaped RFI submissions, applied
// in order. Section headings follow the RFI template suppliers fill in.
var rfiRules = []Rule{
	{Field: "supplier_name", Pattern: regexp.MustCompile(`(?m)^Supplier:[ \t]*(.+)$`)},
	{Field: "contact_email", Pattern: regexp.MustCompile(`([A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,})`)},
	{Field: "coverage_regions", Pattern: regexp.MustCompile(`(?m)^Coverage(?: [Rr]egions)?:[ \t]*(.+)$`)},
	{Field: "delivery_time_days", Pattern: regexp.MustCompile(`(?mi)^Delivery(?: time)?(?: \(days\))?:[ \t]*([^\n]+)$`)},
	{Field: "iso_27001", Pattern: regexp.MustCompile(`(?i)ISO[ /\-]?27001[^\n:]*:[ \t]*(yes|no|unclear)`)},
	{Field: "sla_summary", Pattern: regexp.MustCompile(`(?m)^SLA(?: [Ss]ummary)?:[ \t]*`), Semantics: BlockUntilBlank},
	{Field: "pricing_notes", Pattern: regexp.MustCompile(`(?m)^Pricing(?: [Nn]otes)?:[ \t]*`), Semantics: BlockUntilTerminator, Terminator: "\nExceptions"},
	{Field: "exceptions", Pattern: regexp.MustCompile(`(?m)^Exceptions:[ \t]*`), Semantics: BlockUntilBlank},
}

// PatternNormalizer builds an RFI record from the flat text of an analysis
// result. It is used for documents analyzed with the plain read/layout
// model, where no key/value pairs are available.
type PatternNormalizer struct{}

func (PatternNormalizer) Name() string { return "patterns" }

func (PatternNormalizer) Normalize(res *analyze.Result) models.Record {
	rec := models.NewRFIRecord()

	for _, rule := range rfiRules {
		value := rule.Extract(res.Content)
		if value == nil {
			continue
		}
		switch rule.Field {
		case "supplier_name":
			rec.SupplierName = *value
		case "contact_email":
			rec.ContactEmail = *value
		case "coverage_regions":
			rec.CoverageRegions = splitList(*value)
		case "delivery_time_days":
			rec.DeliveryTimeDays = models.FlexFromString(*value)
		case "iso_27001":
			rec.ISO27001 = strings.ToLower(*value)
		case "sla_summary":
			rec.SLASummary = *value
		case "pricing_notes":
			rec.PricingNotes = *value
		case "exceptions":
			rec.Exceptions = splitList(*value)
		}
	}

	return rec
}

// splitList breaks a comma- or line-separated enumeration into items,
// stripping bullet markers and dropping empties.
func splitList(value string) []string {
	items := []string{}
	for _, part := range strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == '\n' || r == ';'
	}) {
		item := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(part), "-*• \t"))
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}
