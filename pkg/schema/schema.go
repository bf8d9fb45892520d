// Package schema holds the RFI answer schema and validates normalized
// records against it before they are uploaded.
package schema

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/kaptinlin/jsonschema"

	"github.com/supplysift/supplysift/internal/models"
)

// RFISchemaJSON is the schema suppliers' answers are normalized to. It is
// also handed verbatim to the agent as part of its instructions.
const RFISchemaJSON = `{
  "type": "object",
  "required": ["supplier_name", "contact_email", "coverage_regions", "delivery_time_days",
               "iso_27001", "sla_summary", "pricing_notes", "exceptions", "attachments"],
  "properties": {
    "supplier_name": {"type": "string"},
    "contact_email": {"type": "string"},
    "coverage_regions": {"type": "array", "items": {"type": "string"}},
    "delivery_time_days": {"type": "integer"},
    "iso_27001": {"type": "string", "enum": ["yes", "no", "unclear"]},
    "sla_summary": {"type": "string"},
    "pricing_notes": {"type": "string"},
    "exceptions": {"type": "array", "items": {"type": "string"}},
    "attachments": {"type": "array", "items": {"type": "string"}},
    "sources": {"type": "array", "items": {"type": "string"}}
  }
}`

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func rfiSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiled, compileErr = compiler.Compile([]byte(RFISchemaJSON))
	})
	return compiled, compileErr
}

// ValidateRecord checks a normalized record against the RFI schema and
// returns the violation messages. Extraction routinely produces records
// that miss the schema (null delivery days, out-of-enum ISO answers), so
// violations are reported for logging rather than treated as failures.
func ValidateRecord(rec *models.RFIRecord) ([]string, error) {
	schema, err := rfiSchema()
	if err != nil {
		return nil, fmt.Errorf("compile RFI schema: %w", err)
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}

	result := schema.ValidateJSON(data)
	if result.IsValid() {
		return nil, nil
	}

	violations := make([]string, 0, len(result.Errors))
	for field, evalErr := range result.Errors {
		violations = append(violations, fmt.Sprintf("%s: %v", field, evalErr))
	}
	return violations, nil
}
