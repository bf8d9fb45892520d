package config

import (
	"fmt"
	"net/url"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	if c.Storage.ConnectionString == "" {
		errors = append(errors, ValidationError{
			Field:   "storage.connection_string",
			Message: "storage connection string is required",
		})
	}

	if c.Analysis.Endpoint == "" {
		errors = append(errors, ValidationError{
			Field:   "analysis.endpoint",
			Message: "document analysis endpoint is required",
		})
	} else if _, err := url.Parse(c.Analysis.Endpoint); err != nil {
		errors = append(errors, ValidationError{
			Field:   "analysis.endpoint",
			Message: "invalid document analysis endpoint",
		})
	}
	if c.Analysis.APIKey == "" {
		errors = append(errors, ValidationError{
			Field:   "analysis.api_key",
			Message: "document analysis API key is required",
		})
	}
	if c.Analysis.OutputFormat != "text" && c.Analysis.OutputFormat != "markdown" {
		errors = append(errors, ValidationError{
			Field:   "analysis.output_format",
			Message: "output_format must be text or markdown",
		})
	}
	if c.Analysis.MaxPolls < 1 {
		errors = append(errors, ValidationError{
			Field:   "analysis.max_polls",
			Message: "max_polls must be positive",
		})
	}

	if c.Agent.Temperature < 0 || c.Agent.Temperature > 2 {
		errors = append(errors, ValidationError{
			Field:   "agent.temperature",
			Message: "temperature must be between 0 and 2",
		})
	}
	if c.Agent.MaxTurns < 1 {
		errors = append(errors, ValidationError{
			Field:   "agent.max_turns",
			Message: "max_turns must be positive",
		})
	}

	switch c.Search.TimeLimit {
	case "d", "w", "m", "y":
	default:
		errors = append(errors, ValidationError{
			Field:   "search.timelimit",
			Message: "timelimit must be one of d, w, m, y",
		})
	}
	if c.Search.RateLimit <= 0 {
		errors = append(errors, ValidationError{
			Field:   "search.rate_limit",
			Message: "rate_limit must be positive",
		})
	}
	if c.Search.MaxResults < 1 {
		errors = append(errors, ValidationError{
			Field:   "search.max_results",
			Message: "max_results must be positive",
		})
	}

	if c.Research.DatabaseURL != "" {
		if _, err := url.Parse(c.Research.DatabaseURL); err != nil {
			errors = append(errors, ValidationError{
				Field:   "research.database_url",
				Message: "invalid database URL",
			})
		}
		if c.Research.VectorDim < 1 {
			errors = append(errors, ValidationError{
				Field:   "research.vector_dim",
				Message: "vector_dim must be positive",
			})
		}
	}

	return errors
}
