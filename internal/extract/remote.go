package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// ErrNotConfigured marks a remote extractor whose URL is unset. Callers
// treat it as "use the local heuristic", never as a user-facing error.
var ErrNotConfigured = errors.New("extractor not configured")

// Remote wraps the optional third-party extraction endpoints. Every
// method degrades to ErrNotConfigured when its URL is empty.
type Remote struct {
	ProofreadURL  string
	PetitionURL   string
	TranscribeURL string
	OCRURL        string
	Client        *http.Client
}

type remoteResponse struct {
	Success bool   `json:"success"`
	Text    string `json:"text"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// One Remote instance serves every request handler concurrently, so the
// default transport is a package-level value instead of a lazily written
// field.
var defaultClient = &http.Client{Timeout: 60 * time.Second}

func (r *Remote) client() *http.Client {
	if r.Client != nil {
		return r.Client
	}
	return defaultClient
}

// Proofread sends text for correction and returns the corrected version.
func (r *Remote) Proofread(ctx context.Context, text string) (string, error) {
	return r.postJSON(ctx, r.ProofreadURL, map[string]string{"text": text})
}

// ExtractPetition asks the LLM endpoint for the excerpt of an initial
// petition relevant to the category.
func (r *Remote) ExtractPetition(ctx context.Context, text, category string) (string, error) {
	return r.postJSON(ctx, r.PetitionURL, map[string]string{
		"text":     text,
		"category": category,
	})
}

// Transcribe posts an audio recording and returns the activity
// description extracted from it.
func (r *Remote) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	return r.postFile(ctx, r.TranscribeURL, "audio", filename, audio)
}

// OCR posts a scanned document and returns the recognized text.
func (r *Remote) OCR(ctx context.Context, filename string, file io.Reader) (string, error) {
	return r.postFile(ctx, r.OCRURL, "file", filename, file)
}

func (r *Remote) postJSON(ctx context.Context, url string, payload any) (string, error) {
	if url == "" {
		return "", ErrNotConfigured
	}
	b, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	return r.do(req)
}

func (r *Remote) postFile(ctx context.Context, url, field, filename string, file io.Reader) (string, error) {
	if url == "" {
		return "", ErrNotConfigured
	}
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return r.do(req)
}

func (r *Remote) do(req *http.Request) (string, error) {
	resp, err := r.client().Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("extractor http error: %s", resp.Status)
	}

	var body remoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	if !body.Success && body.Text == "" {
		msg := body.Error
		if msg == "" {
			msg = body.Message
		}
		if msg == "" {
			msg = "extractor returned no text"
		}
		return "", errors.New(msg)
	}
	return body.Text, nil
}
