package handlers

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pericialab/backend/internal/http/middleware"
	"github.com/pericialab/backend/internal/models"
	"github.com/pericialab/backend/internal/storage"
)

// allowedUploadTypes mirrors the client-side validation so a bypassed
// frontend cannot push arbitrary content into the bucket.
var allowedUploadTypes = map[string]bool{
	"application/pdf": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/msword": true,
	"image/png":          true,
	"image/jpeg":         true,
	"image/webp":         true,
	"audio/mpeg":         true,
	"audio/wav":          true,
	"audio/mp4":          true,
}

// @Summary Upload process document
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "document"
// @Success 201 {object} models.Document
// @Failure 400 {object} map[string]any
// @Router /api/processes/{id}/documents [post]
func (h *Handler) DocumentUpload(c *gin.Context) {
	userID := middleware.UserID(c)
	processID := c.Param("id")

	p, err := h.Store.GetProcess(c.Request.Context(), userID, processID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Process not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load process", err.Error())
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "file is required", nil)
		return
	}
	if fileHeader.Size > h.MaxUploadBytes {
		writeError(c, http.StatusBadRequest, "FILE_TOO_LARGE", "File exceeds the upload limit", nil)
		return
	}
	contentType := fileHeader.Header.Get("Content-Type")
	if !allowedUploadTypes[contentType] {
		writeError(c, http.StatusBadRequest, "UNSUPPORTED_TYPE", "Unsupported file type", contentType)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		writeError(c, http.StatusInternalServerError, "UPLOAD_ERROR", "Failed to read upload", err.Error())
		return
	}
	defer file.Close()

	name := filepath.Base(fileHeader.Filename)
	key := storage.ObjectKey(p.OwnerID, p.ID, name)
	if err := h.Bucket.Upload(c.Request.Context(), key, contentType, file); err != nil {
		writeError(c, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to store file", err.Error())
		return
	}

	doc := models.Document{
		ID:          uuid.NewString(),
		ProcessID:   p.ID,
		OwnerID:     p.OwnerID,
		Name:        name,
		StoragePath: key,
		ContentType: contentType,
		SizeBytes:   fileHeader.Size,
		UploadedAt:  time.Now().UTC(),
	}
	if err := h.Store.InsertDocument(c.Request.Context(), doc); err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to record document", err.Error())
		return
	}
	c.JSON(http.StatusCreated, doc)
}

// DocumentList returns the document rows with best-effort signed URLs;
// a failed signature for one attachment becomes a warning, not a failure.
func (h *Handler) DocumentList(c *gin.Context) {
	docs, err := h.Store.ListDocuments(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list documents", err.Error())
		return
	}

	var warnings []string
	items := make([]gin.H, 0, len(docs))
	for _, d := range docs {
		item := gin.H{"document": d, "is_image": storage.IsImagePath(d.StoragePath)}
		if h.Bucket != nil {
			url, err := h.Bucket.SignedURL(d.StoragePath)
			if err != nil {
				warnings = append(warnings, "signed url for "+d.Name+": "+err.Error())
			} else {
				item["url"] = url
			}
		}
		items = append(items, item)
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "warnings": warnings})
}

func (h *Handler) DocumentDelete(c *gin.Context) {
	doc, err := h.Store.GetDocument(c.Request.Context(), c.Param("docId"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Document not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load document", err.Error())
		return
	}

	var warnings []string
	if h.Bucket != nil {
		if err := h.Bucket.Delete(c.Request.Context(), doc.StoragePath); err != nil {
			warnings = append(warnings, err.Error())
		}
	}
	if err := h.Store.DeleteDocument(c.Request.Context(), doc.ID); err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to delete document", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "warnings": warnings})
}

func isAudioUpload(contentType string) bool {
	return strings.HasPrefix(contentType, "audio/")
}
