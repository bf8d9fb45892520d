package analyze

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type ClientConfig struct {
	Endpoint     string
	APIKey       string
	ModelID      string
	OutputFormat string // "text" or "markdown"
	APIVersion   string
	InitialDelay time.Duration
	PollInterval time.Duration
	MaxPolls     int
	Timeout      time.Duration
}

// Client calls the hosted document layout analysis service: it posts a
// document, then polls the returned operation URL until the analysis
// succeeds or fails.
type Client struct {
	config     ClientConfig
	httpClient *http.Client
}

func NewWithConfig(config ClientConfig) (*Client, error) {
	if config.Endpoint == "" || config.APIKey == "" {
		return nil, fmt.Errorf("analysis endpoint and API key are required")
	}
	if config.ModelID == "" {
		config.ModelID = "prebuilt-layout"
	}
	if config.OutputFormat == "" {
		config.OutputFormat = "text"
	}
	if config.APIVersion == "" {
		config.APIVersion = "2024-11-30"
	}
	if config.InitialDelay == 0 {
		config.InitialDelay = 4 * time.Second
	}
	if config.PollInterval == 0 {
		config.PollInterval = 1 * time.Second
	}
	if config.MaxPolls == 0 {
		config.MaxPolls = 20
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}, nil
}

// Analyze runs layout analysis over one document and returns the decoded
// result. Any upstream failure surfaces as *ExtractionError; the caller gets
// either a complete result or none at all.
func (c *Client) Analyze(ctx context.Context, data []byte) (*Result, error) {
	opURL, err := c.submit(ctx, data)
	if err != nil {
		return nil, err
	}

	if err := sleepCtx(ctx, c.config.InitialDelay); err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= c.config.MaxPolls; attempt++ {
		resp, err := c.fetchResult(ctx, opURL)
		if err != nil {
			return nil, err
		}

		switch resp.Status {
		case "succeeded":
			return decodeResult(resp.AnalyzeResult), nil
		case "failed":
			msg := "analysis reported failure"
			if resp.Error != nil {
				msg = resp.Error.Message
			}
			return nil, &ExtractionError{Status: "failed", Message: msg}
		}

		if attempt == c.config.MaxPolls {
			break
		}
		if err := sleepCtx(ctx, c.config.PollInterval); err != nil {
			return nil, err
		}
	}

	return nil, &ExtractionError{Status: "timeout", Message: "max polls reached waiting for analysis result"}
}

func (c *Client) submit(ctx context.Context, data []byte) (string, error) {
	url := fmt.Sprintf(
		"%s/documentintelligence/documentModels/%s:analyze?api-version=%s&outputContentFormat=%s",
		c.config.Endpoint, c.config.ModelID, c.config.APIVersion, c.config.OutputFormat,
	)

	body, err := json.Marshal(map[string]string{
		"base64Source": base64.StdEncoding.EncodeToString(data),
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal analyze request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create analyze request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Ocp-Apim-Subscription-Key", c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &ExtractionError{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted && resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return "", &ExtractionError{
			Status:  http.StatusText(resp.StatusCode),
			Message: string(raw),
		}
	}

	opURL := resp.Header.Get("Operation-Location")
	if opURL == "" {
		return "", &ExtractionError{Message: "analysis service returned no operation location"}
	}
	return opURL, nil
}

func (c *Client) fetchResult(ctx context.Context, opURL string) (*analyzeResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, opURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create result request: %w", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ExtractionError{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, &ExtractionError{
			Status:  http.StatusText(resp.StatusCode),
			Message: string(raw),
		}
	}

	var decoded analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, &ExtractionError{Message: fmt.Sprintf("failed to decode analysis response: %v", err)}
	}
	return &decoded, nil
}

func decodeResult(ar analyzeResult) *Result {
	pairs := make([]KeyValuePair, 0, len(ar.KeyValuePairs))
	for _, kv := range ar.KeyValuePairs {
		pair := KeyValuePair{Confidence: kv.Confidence}
		if kv.Key != nil {
			pair.Key = kv.Key.Content
		}
		if kv.Value != nil {
			pair.Value = kv.Value.Content
		}
		pairs = append(pairs, pair)
	}

	return &Result{
		Content:       ar.Content,
		KeyValuePairs: pairs,
		Tables:        buildGrids(ar.Tables),
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
