package fn

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

func TestClientNotConfigured(t *testing.T) {
	var c *Client
	if c.Configured() {
		t.Fatalf("nil client should not be configured")
	}
	c = &Client{}
	if _, err := c.Invoke(context.Background(), "generate-report", nil); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestInvokeUnwrapsEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/generate-report" {
			t.Fatalf("path %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    map[string]string{"full_text": "laudo"},
		})
	}))
	defer srv.Close()

	c := &Client{BaseURL: srv.URL}
	data, err := c.Invoke(context.Background(), "generate-report", map[string]string{"process_id": "p1"})
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	var out map[string]string
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out["full_text"] != "laudo" {
		t.Fatalf("envelope not unwrapped: %s", data)
	}
}

func TestInvokePassesFlatPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"full_text": "laudo direto"})
	}))
	defer srv.Close()

	c := &Client{BaseURL: srv.URL}
	data, err := c.Invoke(context.Background(), "generate-report", nil)
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	var out map[string]string
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out["full_text"] != "laudo direto" {
		t.Fatalf("flat payload altered: %s", data)
	}
}

func TestInvokeFunctionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "process not found"})
	}))
	defer srv.Close()

	c := &Client{BaseURL: srv.URL}
	if _, err := c.Invoke(context.Background(), "validate-process", nil); err == nil || err.Error() != "process not found" {
		t.Fatalf("expected function error, got %v", err)
	}
}

func TestInvokeHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]any{"message": "boom"})
	}))
	defer srv.Close()

	c := &Client{BaseURL: srv.URL}
	if _, err := c.Invoke(context.Background(), "search-processes", nil); err == nil {
		t.Fatalf("expected http error")
	}
}

// One client is shared by every request handler; run with -race.
func TestInvokeConcurrent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": true, "data": map[string]string{"ok": "1"}})
	}))
	defer srv.Close()

	c := &Client{BaseURL: srv.URL}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.Invoke(context.Background(), "process-statistics", nil); err != nil {
				t.Errorf("invoke: %v", err)
			}
		}()
	}
	wg.Wait()
}

func TestGenerateReport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["process_id"] != "p1" || body["report_type"] != "completo" {
			t.Fatalf("unexpected payload: %v", body)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": GenerateReportResult{
				FullText:               "texto",
				Conclusion:             "conclusão",
				InsalubrityGrade:       "médio",
				PericulosityIdentified: true,
			},
		})
	}))
	defer srv.Close()

	c := &Client{BaseURL: srv.URL}
	got, err := c.GenerateReport(context.Background(), "p1", "completo")
	if err != nil {
		t.Fatalf("generate report: %v", err)
	}
	if got.Conclusion != "conclusão" || got.InsalubrityGrade != "médio" || !got.PericulosityIdentified {
		t.Fatalf("result %+v", got)
	}
}
