package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Admin user management lives in the admin serverless functions; this
// service only fronts them behind the admin key.

type AdminUserRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"required"`
}

func (h *Handler) AdminUserCreate(c *gin.Context) {
	var req AdminUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	data, err := h.Functions.Invoke(c.Request.Context(), "admin-create-user", req)
	if err != nil {
		writeError(c, http.StatusBadGateway, "ADMIN_ERROR", "Failed to create user", err.Error())
		return
	}
	c.Data(http.StatusCreated, "application/json", data)
}

func (h *Handler) AdminUserList(c *gin.Context) {
	data, err := h.Functions.Invoke(c.Request.Context(), "admin-list-users", gin.H{})
	if err != nil {
		writeError(c, http.StatusBadGateway, "ADMIN_ERROR", "Failed to list users", err.Error())
		return
	}
	c.Data(http.StatusOK, "application/json", data)
}

func (h *Handler) AdminUserDelete(c *gin.Context) {
	data, err := h.Functions.Invoke(c.Request.Context(), "admin-delete-user", gin.H{"user_id": c.Param("userId")})
	if err != nil {
		writeError(c, http.StatusBadGateway, "ADMIN_ERROR", "Failed to delete user", err.Error())
		return
	}
	c.Data(http.StatusOK, "application/json", data)
}
