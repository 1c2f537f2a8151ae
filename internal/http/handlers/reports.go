package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pericialab/backend/internal/http/middleware"
	"github.com/pericialab/backend/internal/models"
	"github.com/pericialab/backend/internal/report"
)

type GenerateReportRequest struct {
	ReportType string `json:"report_type" validate:"required,oneof=insalubridade periculosidade completo"`
}

// @Summary Generate report
// @Description Assembles the 21-section report; the serverless generator is preferred, the local assembler is the fallback.
// @Tags reports
// @Accept json
// @Produce json
// @Success 201 {object} models.Report
// @Failure 404 {object} map[string]any
// @Router /api/processes/{id}/reports [post]
func (h *Handler) ReportGenerate(c *gin.Context) {
	var req GenerateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		req.ReportType = report.TypeCompleto
	}
	if req.ReportType == "" {
		req.ReportType = report.TypeCompleto
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	userID := middleware.UserID(c)
	rep, err := h.Generator.Generate(c.Request.Context(), userID, c.Param("id"), req.ReportType)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Process not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "REPORT_ERROR", "Failed to generate report", err.Error())
		return
	}

	notification := models.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     "Laudo gerado",
		Body:      "Laudo " + rep.ReportType + " gerado para o processo " + rep.ProcessID + ".",
		CreatedAt: time.Now().UTC(),
	}
	if err := h.Store.InsertNotification(c.Request.Context(), notification); err != nil {
		h.Logger.Warn().Err(err).Msg("report notification not recorded")
	}

	c.JSON(http.StatusCreated, rep)
}

func (h *Handler) ReportHistory(c *gin.Context) {
	items, err := h.Store.ListReports(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list reports", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// ProcessValidate runs the server-side business-rule validation when
// configured; otherwise only the local required-field check applies.
func (h *Handler) ProcessValidate(c *gin.Context) {
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

	if h.Functions.Configured() {
		data, err := h.Functions.ValidateProcess(c.Request.Context(), processID)
		if err == nil {
			c.Data(http.StatusOK, "application/json", data)
			return
		}
		h.Logger.Warn().Err(err).Msg("remote validation failed, using local checks")
	}

	var issues []string
	if p.ProcessNumber == "" {
		issues = append(issues, "process_number is empty")
	}
	if p.ClaimantName == "" {
		issues = append(issues, "claimant_name is empty")
	}
	if p.DefendantName == "" {
		issues = append(issues, "defendant_name is empty")
	}
	c.JSON(http.StatusOK, gin.H{"valid": len(issues) == 0, "issues": issues})
}
