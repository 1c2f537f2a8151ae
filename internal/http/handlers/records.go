package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pericialab/backend/internal/http/middleware"
	"github.com/pericialab/backend/internal/models"
)

type QuestionnaireRequest struct {
	Party    string `json:"party" validate:"required,oneof=claimant defendant judge"`
	Number   int    `json:"number" validate:"required,min=1"`
	Question string `json:"question" validate:"required"`
	Answer   string `json:"answer"`
}

func (h *Handler) QuestionnaireUpsert(c *gin.Context) {
	var req QuestionnaireRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	entry := models.QuestionnaireEntry{
		ID:        uuid.NewString(),
		ProcessID: c.Param("id"),
		Party:     req.Party,
		Number:    req.Number,
		Question:  req.Question,
		Answer:    req.Answer,
	}
	if err := h.Store.UpsertQuestionnaireEntry(c.Request.Context(), entry); err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to save questionnaire entry", err.Error())
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// QuestionnaireReplace swaps the whole questionnaire in one transaction;
// the form on the client always submits every question together.
func (h *Handler) QuestionnaireReplace(c *gin.Context) {
	var reqs []QuestionnaireRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}

	entries := make([]models.QuestionnaireEntry, 0, len(reqs))
	for _, req := range reqs {
		if err := h.Validator.Struct(req); err != nil {
			writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
			return
		}
		entries = append(entries, models.QuestionnaireEntry{
			ID:        uuid.NewString(),
			ProcessID: c.Param("id"),
			Party:     req.Party,
			Number:    req.Number,
			Question:  req.Question,
			Answer:    req.Answer,
		})
	}

	if err := h.Store.ReplaceQuestionnaire(c.Request.Context(), c.Param("id"), entries); err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to replace questionnaire", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": entries})
}

func (h *Handler) QuestionnaireList(c *gin.Context) {
	items, err := h.Store.ListQuestionnaire(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list questionnaire", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

type RiskAgentRequest struct {
	AgentType      string `json:"agent_type" validate:"required"`
	Description    string `json:"description"`
	MeasuredValue  string `json:"measured_value"`
	MeasuredUnit   string `json:"measured_unit"`
	ToleranceLimit string `json:"tolerance_limit"`
	ToleranceUnit  string `json:"tolerance_unit"`
	RiskLevel      string `json:"risk_level"`
	Notes          string `json:"notes"`
}

func (h *Handler) RiskAgentCreate(c *gin.Context) {
	var req RiskAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	agent := models.RiskAgent{
		ID:             uuid.NewString(),
		ProcessID:      c.Param("id"),
		AgentType:      req.AgentType,
		Description:    req.Description,
		MeasuredValue:  req.MeasuredValue,
		MeasuredUnit:   req.MeasuredUnit,
		ToleranceLimit: req.ToleranceLimit,
		ToleranceUnit:  req.ToleranceUnit,
		RiskLevel:      req.RiskLevel,
		Notes:          req.Notes,
	}
	if err := h.Store.InsertRiskAgent(c.Request.Context(), agent); err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to save risk agent", err.Error())
		return
	}
	c.JSON(http.StatusCreated, agent)
}

func (h *Handler) RiskAgentList(c *gin.Context) {
	items, err := h.Store.ListRiskAgents(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list risk agents", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) RiskAgentDelete(c *gin.Context) {
	if err := h.Store.DeleteRiskAgent(c.Request.Context(), c.Param("agentId")); err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to delete risk agent", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) NotificationsList(c *gin.Context) {
	unreadOnly := c.Query("unread") == "1"
	items, err := h.Store.ListNotifications(c.Request.Context(), middleware.UserID(c), unreadOnly)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list notifications", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) NotificationRead(c *gin.Context) {
	if err := h.Store.MarkNotificationRead(c.Request.Context(), middleware.UserID(c), c.Param("notificationId")); err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to mark notification", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Statistics proxies the per-user statistics function, with a local
// fallback counting only what this service owns.
func (h *Handler) Statistics(c *gin.Context) {
	userID := middleware.UserID(c)
	if h.Functions.Configured() {
		data, err := h.Functions.Statistics(c.Request.Context(), userID)
		if err == nil {
			c.Data(http.StatusOK, "application/json", data)
			return
		}
		h.Logger.Warn().Err(err).Msg("remote statistics failed, using local count")
	}

	items, err := h.Store.ListProcesses(c.Request.Context(), userID, "", 200, 0)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load statistics", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"processes": len(items), "generated_at": time.Now().UTC()})
}
