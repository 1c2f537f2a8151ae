package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/pericialab/backend/internal/extract"
)

func extractionHandler() *Handler {
	return &Handler{
		Remote:    &extract.Remote{},
		Validator: validator.New(),
		Logger:    zerolog.Nop(),
	}
}

func postJSON(t *testing.T, r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req, _ := http.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestExtractHeuristicFallback(t *testing.T) {
	h := extractionHandler()
	r := gin.New()
	r.POST("/extract", h.Extract)

	body := `{"text":"Contexto geral.\n\nO reclamante esteve exposto a ruído e requer o adicional de insalubridade.","category":"insalubridade"}`
	w := postJSON(t, r, "/extract", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["source"] != "heuristic" {
		t.Fatalf("source %q", resp["source"])
	}
	if !strings.Contains(resp["text"], "Trechos relevantes (insalubridade):") {
		t.Fatalf("text %q", resp["text"])
	}
}

func TestExtractNoMatchMessage(t *testing.T) {
	h := extractionHandler()
	r := gin.New()
	r.POST("/extract", h.Extract)

	w := postJSON(t, r, "/extract", `{"text":"Pedido de férias em dobro.\n\nNada mais.","category":"periculosidade"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	var resp map[string]string
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["message"] != "no relevant excerpt detected" {
		t.Fatalf("message %q", resp["message"])
	}
}

func TestExtractRejectsUnknownCategory(t *testing.T) {
	h := extractionHandler()
	r := gin.New()
	r.POST("/extract", h.Extract)

	w := postJSON(t, r, "/extract", `{"text":"algum texto","category":"outra"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestProofreadWithoutEndpointReturnsOriginal(t *testing.T) {
	h := extractionHandler()
	r := gin.New()
	r.POST("/proofread", h.Proofread)

	w := postJSON(t, r, "/proofread", `{"text":"texto original"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	var resp map[string]string
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["text"] != "texto original" || resp["source"] != "original" {
		t.Fatalf("resp %v", resp)
	}
}

func postFile(t *testing.T, r *gin.Engine, path, field, filename, contentType, content string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	hdr.Set("Content-Type", contentType)
	part, err := writer.CreatePart(hdr)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req, _ := http.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestTranscribeWithoutRemote(t *testing.T) {
	h := &Handler{Validator: validator.New(), Logger: zerolog.Nop()}
	r := gin.New()
	r.POST("/transcribe", h.Transcribe)

	w := postFile(t, r, "/transcribe", "audio", "visita.mp3", "audio/mpeg", "audio-bytes")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	var resp map[string]string
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["message"] != "transcription not configured" {
		t.Fatalf("message %q", resp["message"])
	}
}

func TestOCRWithoutRemote(t *testing.T) {
	h := &Handler{Validator: validator.New(), Logger: zerolog.Nop()}
	r := gin.New()
	r.POST("/ocr", h.OCRDocument)

	w := postFile(t, r, "/ocr", "file", "scan.pdf", "application/pdf", "pdf-bytes")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	var resp map[string]string
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["message"] != "OCR not configured" {
		t.Fatalf("message %q", resp["message"])
	}
}

func TestIsAudioUpload(t *testing.T) {
	if !isAudioUpload("audio/mpeg") {
		t.Fatalf("audio/mpeg should be accepted")
	}
	if isAudioUpload("application/pdf") {
		t.Fatalf("application/pdf is not audio")
	}
}
