package normalize

import (
	"strings"

	"github.com/supplysift/supplysift/internal/models"
	"github.com/supplysift/supplysift/pkg/analyze"
)

// MatchLabel scans key/value pairs in recognition order and returns the
// value of the first pair whose key contains any of the candidate labels,
// case-insensitive. First match wins: a later pair with higher confidence is
// never preferred. No match yields {nil, 0.0}.
func MatchLabel(pairs []analyze.KeyValuePair, labels ...string) models.Field {
	lowered := make([]string, len(labels))
	for i, l := range labels {
		lowered[i] = strings.ToLower(l)
	}

	for _, kv := range pairs {
		key := strings.ToLower(kv.Key)
		for _, label := range lowered {
			if strings.Contains(key, label) {
				value := kv.Value
				return models.Field{Value: &value, Confidence: kv.Confidence}
			}
		}
	}
	return models.Field{Value: nil, Confidence: 0.0}
}

// LabelNormalizer maps a key/value analysis result onto the proposal field
// set. It is used for documents analyzed with the key/value recognition
// model.
type LabelNormalizer struct{}

func (LabelNormalizer) Name() string { return "labels" }

func (LabelNormalizer) Normalize(res *analyze.Result) models.Record {
	return &models.ProposalExtraction{
		Fields: models.ProposalFields{
			VendorName:   MatchLabel(res.KeyValuePairs, "vendor", "supplier"),
			DeliveryDate: MatchLabel(res.KeyValuePairs, "delivery date", "expected delivery"),
			Cost:         MatchLabel(res.KeyValuePairs, "total cost", "budget", "price", "amount"),
			Technologies: MatchLabel(res.KeyValuePairs, "technologies", "tech stack", "tools"),
		},
		Preview: Preview(res.Content, 1200),
	}
}

// Preview returns the first n characters of text.
func Preview(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}
