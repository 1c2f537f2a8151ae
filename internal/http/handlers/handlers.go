package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/pericialab/backend/internal/db"
	"github.com/pericialab/backend/internal/extract"
	"github.com/pericialab/backend/internal/fn"
	"github.com/pericialab/backend/internal/http/middleware"
	"github.com/pericialab/backend/internal/models"
	"github.com/pericialab/backend/internal/report"
	"github.com/pericialab/backend/internal/storage"
	"github.com/pericialab/backend/internal/utils"
)

type Handler struct {
	Store          *db.Store
	Bucket         *storage.Bucket
	Functions      *fn.Client
	Remote         *extract.Remote
	Generator      *report.Generator
	Validator      *validator.Validate
	Logger         zerolog.Logger
	MaxUploadBytes int64
}

func writeError(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

func (h *Handler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()
	if err := h.Store.Ping(ctx); err != nil {
		writeError(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Database unavailable", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type ProcessRequest struct {
	ProcessNumber string `json:"process_number" validate:"required"`
	ClaimantName  string `json:"claimant_name" validate:"required"`
	DefendantName string `json:"defendant_name" validate:"required"`
	Court         string `json:"court"`

	Objective            string `json:"objective"`
	Methodology          string `json:"methodology"`
	InitialPetition      string `json:"initial_petition"`
	Defense              string `json:"defense"`
	Activities           string `json:"activities"`
	Workplace            string `json:"workplace"`
	InsalubrityAnalysis  string `json:"insalubrity_analysis"`
	InsalubrityResult    string `json:"insalubrity_result"`
	PericulosityAnalysis string `json:"periculosity_analysis"`
	PericulosityResult   string `json:"periculosity_result"`
	PericulosityConcept  string `json:"periculosity_concept"`
	FlammableDefinition  string `json:"flammable_definition"`
	Conclusion           string `json:"conclusion"`

	InspectionDate    string `json:"inspection_date"`
	InspectionAddress string `json:"inspection_address"`
	InspectionTime    string `json:"inspection_time"`

	EPCSelection string `json:"epc_selection"`
	EPCNotes     string `json:"epc_notes"`
	EPIIntro     string `json:"epi_intro"`

	Positions  []models.Position     `json:"positions"`
	Diligences []models.Diligence    `json:"diligences"`
	Attendees  []models.Attendee     `json:"attendees"`
	DocItems   []models.DocumentItem `json:"doc_items"`
	EPIItems   []models.EPIItem      `json:"epi_items"`

	ReportConfig models.ReportConfig `json:"report_config"`
}

func (r ProcessRequest) apply(p models.Process) models.Process {
	p.ProcessNumber = strings.TrimSpace(r.ProcessNumber)
	p.ClaimantName = strings.TrimSpace(r.ClaimantName)
	p.DefendantName = strings.TrimSpace(r.DefendantName)
	p.Court = strings.TrimSpace(r.Court)
	p.Objective = r.Objective
	p.Methodology = r.Methodology
	p.InitialPetition = r.InitialPetition
	p.Defense = r.Defense
	p.Activities = r.Activities
	p.Workplace = r.Workplace
	p.InsalubrityAnalysis = r.InsalubrityAnalysis
	p.InsalubrityResult = r.InsalubrityResult
	p.PericulosityAnalysis = r.PericulosityAnalysis
	p.PericulosityResult = r.PericulosityResult
	p.PericulosityConcept = r.PericulosityConcept
	p.FlammableDefinition = r.FlammableDefinition
	p.Conclusion = r.Conclusion
	p.InspectionDate = r.InspectionDate
	p.InspectionAddress = r.InspectionAddress
	p.InspectionTime = r.InspectionTime
	p.EPCSelection = r.EPCSelection
	p.EPCNotes = r.EPCNotes
	p.EPIIntro = r.EPIIntro
	p.Positions = r.Positions
	p.Diligences = r.Diligences
	p.Attendees = r.Attendees
	p.DocItems = r.DocItems
	p.EPIItems = r.EPIItems
	p.ReportConfig = r.ReportConfig
	return p
}

// @Summary Create process
// @Tags processes
// @Accept json
// @Produce json
// @Success 201 {object} models.Process
// @Failure 400 {object} map[string]any
// @Router /api/processes [post]
func (h *Handler) ProcessCreate(c *gin.Context) {
	var req ProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	now := time.Now().UTC()
	p := req.apply(models.Process{
		ID:        uuid.NewString(),
		OwnerID:   middleware.UserID(c),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err := h.Store.CreateProcess(c.Request.Context(), p); err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to create process", err.Error())
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) ProcessGet(c *gin.Context) {
	p, err := h.Store.GetProcess(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Process not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to get process", err.Error())
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) ProcessUpdate(c *gin.Context) {
	var req ProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	p := req.apply(models.Process{ID: c.Param("id")})
	if err := h.Store.UpdateProcess(c.Request.Context(), middleware.UserID(c), p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Process not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to update process", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) ProcessList(c *gin.Context) {
	q := c.Query("q")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	items, err := h.Store.ListProcesses(c.Request.Context(), middleware.UserID(c), q, limit, offset)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list processes", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "limit": limit, "offset": offset})
}

// ProcessSearch prefers the serverless search function and falls back
// to the local ILIKE listing when it is unavailable.
func (h *Handler) ProcessSearch(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "q is required", nil)
		return
	}

	if h.Functions.Configured() {
		data, err := h.Functions.SearchProcesses(c.Request.Context(), middleware.UserID(c), q)
		if err == nil {
			c.Data(http.StatusOK, "application/json", data)
			return
		}
		h.Logger.Warn().Err(err).Msg("remote search failed, using local listing")
	}

	items, err := h.Store.ListProcesses(c.Request.Context(), middleware.UserID(c), q, 50, 0)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Search failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// @Summary Delete process with cascade
// @Description Removes the process, its dependent rows and stored files. Per-step failures are returned as warnings.
// @Tags processes
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/processes/{id} [delete]
func (h *Handler) ProcessDelete(c *gin.Context) {
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
	if p.OwnerID != userID {
		writeError(c, http.StatusForbidden, "FORBIDDEN", "Only the owner can delete a process", nil)
		return
	}

	var warnings []string
	var objectsDeleted int
	if h.Bucket != nil {
		prefix := storage.ProcessPrefix(p.OwnerID, p.ID)
		deleted, storageWarnings, err := h.Bucket.DeletePrefix(c.Request.Context(), prefix)
		objectsDeleted = deleted
		warnings = append(warnings, storageWarnings...)
		if err != nil {
			warnings = append(warnings, "storage listing failed: "+err.Error())
		}
	}

	result, err := h.Store.DeleteProcessCascade(c.Request.Context(), processID)
	warnings = append(warnings, result.Warnings...)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to delete process", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rows_deleted":    result.RowsDeleted,
		"objects_deleted": objectsDeleted,
		"warnings":        warnings,
	})
}

type AccessRequest struct {
	CPF string `json:"cpf" validate:"required"`
}

func (h *Handler) AccessGrant(c *gin.Context) {
	var req AccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if !utils.ValidCPF(req.CPF) {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid CPF", nil)
		return
	}

	access := models.ProcessAccess{
		ID:        uuid.NewString(),
		ProcessID: c.Param("id"),
		CPF:       utils.NormalizeCPF(req.CPF),
		GrantedAt: time.Now().UTC(),
	}
	if err := h.Store.GrantAccess(c.Request.Context(), access); err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to grant access", err.Error())
		return
	}
	c.JSON(http.StatusCreated, access)
}

func (h *Handler) AccessRevoke(c *gin.Context) {
	cpf := utils.NormalizeCPF(c.Param("cpf"))
	if err := h.Store.RevokeAccess(c.Request.Context(), c.Param("id"), cpf); err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to revoke access", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) AccessList(c *gin.Context) {
	items, err := h.Store.ListAccess(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list access", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}
