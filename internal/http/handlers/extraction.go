package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pericialab/backend/internal/extract"
)

type ExtractRequest struct {
	Text     string `json:"text" validate:"required"`
	Category string `json:"category" validate:"required,oneof=insalubridade periculosidade acidente"`
}

// @Summary Extract relevant excerpt
// @Description Returns the excerpt of the text relevant to the category. The LLM endpoint is preferred when configured; the keyword heuristic is the local fallback.
// @Tags extraction
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/extract [post]
func (h *Handler) Extract(c *gin.Context) {
	var req ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	if h.Remote != nil {
		text, err := h.Remote.ExtractPetition(c.Request.Context(), req.Text, req.Category)
		if err == nil {
			c.JSON(http.StatusOK, gin.H{"text": text, "source": "remote"})
			return
		}
		if !errors.Is(err, extract.ErrNotConfigured) {
			h.Logger.Warn().Err(err).Msg("remote extraction failed, using heuristic")
		}
	}

	text := extract.Relevant(req.Text, req.Category)
	if text == "" {
		c.JSON(http.StatusOK, gin.H{"text": "", "source": "heuristic", "message": "no relevant excerpt detected"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": text, "source": "heuristic"})
}

type ProofreadRequest struct {
	Text string `json:"text" validate:"required"`
}

// Proofread forwards text to the proofreading endpoint. Without a
// configured URL the original text comes back unchanged.
func (h *Handler) Proofread(c *gin.Context) {
	var req ProofreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}

	if h.Remote != nil {
		text, err := h.Remote.Proofread(c.Request.Context(), req.Text)
		if err == nil {
			c.JSON(http.StatusOK, gin.H{"text": text, "source": "remote"})
			return
		}
		if !errors.Is(err, extract.ErrNotConfigured) {
			h.Logger.Warn().Err(err).Msg("proofread failed, returning original text")
		}
	}
	c.JSON(http.StatusOK, gin.H{"text": req.Text, "source": "original"})
}

// Transcribe posts an uploaded audio recording to the transcription
// endpoint and returns the extracted activity description.
func (h *Handler) Transcribe(c *gin.Context) {
	fileHeader, err := c.FormFile("audio")
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "audio file is required", nil)
		return
	}
	if !isAudioUpload(fileHeader.Header.Get("Content-Type")) {
		writeError(c, http.StatusBadRequest, "UNSUPPORTED_TYPE", "Expected an audio upload", nil)
		return
	}

	if h.Remote == nil {
		c.JSON(http.StatusOK, gin.H{"text": "", "message": "transcription not configured"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		writeError(c, http.StatusInternalServerError, "UPLOAD_ERROR", "Failed to read upload", err.Error())
		return
	}
	defer file.Close()

	text, err := h.Remote.Transcribe(c.Request.Context(), fileHeader.Filename, file)
	if err != nil {
		if errors.Is(err, extract.ErrNotConfigured) {
			c.JSON(http.StatusOK, gin.H{"text": "", "message": "transcription not configured"})
			return
		}
		writeError(c, http.StatusBadGateway, "TRANSCRIBE_ERROR", "Transcription failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": text})
}

// OCRDocument posts an uploaded scan to the OCR endpoint.
func (h *Handler) OCRDocument(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "file is required", nil)
		return
	}

	if h.Remote == nil {
		c.JSON(http.StatusOK, gin.H{"text": "", "message": "OCR not configured"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		writeError(c, http.StatusInternalServerError, "UPLOAD_ERROR", "Failed to read upload", err.Error())
		return
	}
	defer file.Close()

	text, err := h.Remote.OCR(c.Request.Context(), fileHeader.Filename, file)
	if err != nil {
		if errors.Is(err, extract.ErrNotConfigured) {
			c.JSON(http.StatusOK, gin.H{"text": "", "message": "OCR not configured"})
			return
		}
		writeError(c, http.StatusBadGateway, "OCR_ERROR", "OCR failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": text})
}
