package fn

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrNotConfigured marks a client with no base URL; callers fall back to
// their local implementation.
var ErrNotConfigured = errors.New("functions endpoint not configured")

// Client invokes the serverless function collaborators. Every function
// answers a JSON envelope with at least a success flag and either a data
// payload or an error/message string; some return the payload flat at
// the top level instead, so Invoke normalizes both shapes.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// One Client instance serves every request handler concurrently, so the
// default transport is a package-level value instead of a lazily written
// field.
var defaultHTTPClient = &http.Client{Timeout: 30 * time.Second}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return defaultHTTPClient
}

type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

func (c *Client) Configured() bool {
	return c != nil && c.BaseURL != ""
}

// Invoke POSTs the payload to the named function and returns the
// normalized data payload.
func (c *Client) Invoke(ctx context.Context, name string, payload any) (json.RawMessage, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/"+name, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := readAll(resp)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("function %s: %s: %s", name, resp.Status, errorMessage(raw))
	}
	return normalize(raw)
}

func readAll(resp *http.Response) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// normalize unwraps {"success":true,"data":...} envelopes and passes
// flat payloads through untouched.
func normalize(raw json.RawMessage) (json.RawMessage, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		// Not an object (e.g. a bare array): flat payload.
		return raw, nil
	}
	if env.Success != nil && !*env.Success {
		return nil, errors.New(errorMessage(raw))
	}
	if len(env.Data) > 0 && string(env.Data) != "null" {
		return env.Data, nil
	}
	return raw, nil
}

func errorMessage(raw json.RawMessage) string {
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil {
		if env.Error != "" {
			return env.Error
		}
		if env.Message != "" {
			return env.Message
		}
	}
	return "function call failed"
}

// GenerateReportResult is the payload of the generate-report function,
// mirroring the local assembler's outputs.
type GenerateReportResult struct {
	FullText               string `json:"full_text"`
	Conclusion             string `json:"conclusion"`
	InsalubrityGrade       string `json:"insalubrity_grade"`
	PericulosityIdentified bool   `json:"periculosity_identified"`
}

// GenerateReport asks the server-side assembler for the report text.
func (c *Client) GenerateReport(ctx context.Context, processID, reportType string) (GenerateReportResult, error) {
	var out GenerateReportResult
	data, err := c.Invoke(ctx, "generate-report", map[string]string{
		"process_id":  processID,
		"report_type": reportType,
	})
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, err
	}
	return out, nil
}

// SearchProcesses delegates full-text process search.
func (c *Client) SearchProcesses(ctx context.Context, userID, query string) (json.RawMessage, error) {
	return c.Invoke(ctx, "search-processes", map[string]string{
		"user_id": userID,
		"query":   query,
	})
}

// ValidateProcess runs the server-side business-rule validation.
func (c *Client) ValidateProcess(ctx context.Context, processID string) (json.RawMessage, error) {
	return c.Invoke(ctx, "validate-process", map[string]string{"process_id": processID})
}

// Statistics returns per-user process statistics.
func (c *Client) Statistics(ctx context.Context, userID string) (json.RawMessage, error) {
	return c.Invoke(ctx, "process-statistics", map[string]string{"user_id": userID})
}

// SendScheduleEmail sends a diligence reminder email.
func (c *Client) SendScheduleEmail(ctx context.Context, processID, recipient string) (json.RawMessage, error) {
	return c.Invoke(ctx, "schedule-email", map[string]string{
		"process_id": processID,
		"recipient":  recipient,
	})
}
