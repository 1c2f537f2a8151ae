package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pericialab/backend/internal/calendar"
	"github.com/pericialab/backend/internal/http/middleware"
	"github.com/pericialab/backend/internal/models"
)

// ScheduleICS streams an iCalendar file with one VEVENT per scheduled
// diligence of the process, with an optional VALARM reminder.
func (h *Handler) ScheduleICS(c *gin.Context) {
	p, err := h.Store.GetProcess(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Process not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load process", err.Error())
		return
	}

	reminder, _ := strconv.Atoi(c.DefaultQuery("reminder_minutes", "60"))
	events := calendar.EventsForProcess(p, reminder)
	ics := calendar.ICS(events, time.Now().UTC())

	c.Header("Content-Disposition", `attachment; filename="pericia-`+p.ProcessNumber+`.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(ics))
}

// ScheduleLinks returns Google Calendar event-creation deep links.
func (h *Handler) ScheduleLinks(c *gin.Context) {
	p, err := h.Store.GetProcess(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Process not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load process", err.Error())
		return
	}

	events := calendar.EventsForProcess(p, 0)
	links := make([]gin.H, 0, len(events))
	for _, e := range events {
		links = append(links, gin.H{
			"summary":  e.Summary,
			"start":    e.Start,
			"location": e.Location,
			"url":      calendar.GoogleCalendarLink(e),
		})
	}
	c.JSON(http.StatusOK, gin.H{"items": links})
}

type ScheduleEmailRequest struct {
	Recipient string `json:"recipient" validate:"required,email"`
}

// ScheduleEmail sends a diligence reminder through the schedule-email
// function and records a receipt.
func (h *Handler) ScheduleEmail(c *gin.Context) {
	var req ScheduleEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	processID := c.Param("id")
	if _, err := h.Functions.SendScheduleEmail(c.Request.Context(), processID, req.Recipient); err != nil {
		writeError(c, http.StatusBadGateway, "EMAIL_ERROR", "Failed to send schedule email", err.Error())
		return
	}

	receipt := models.ScheduleEmailReceipt{
		ID:        uuid.NewString(),
		ProcessID: processID,
		Recipient: req.Recipient,
		SentAt:    time.Now().UTC(),
	}
	if err := h.Store.InsertScheduleEmailReceipt(c.Request.Context(), receipt); err != nil {
		h.Logger.Warn().Err(err).Msg("schedule email receipt not recorded")
	}
	c.JSON(http.StatusOK, gin.H{"status": "sent"})
}
