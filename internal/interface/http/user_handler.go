package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/kopidesk/identity-service/internal/application"
	"github.com/kopidesk/identity-service/internal/domain/entity"
	"github.com/kopidesk/identity-service/internal/interface/middleware"
	"github.com/kopidesk/identity-service/pkg/response"
	"github.com/kopidesk/identity-service/pkg/validation"
)

// UserHandler serves the authenticated user-management endpoints.
type UserHandler struct {
	Svc    *application.Service
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.Service, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type updateUserRequest struct {
	FullName *string      `json:"full_name"`
	Role     *entity.Role `json:"role" binding:"omitempty,oneof=user admin"`
}

// Me GET /api/me
func (h *UserHandler) Me(c *gin.Context) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	response.JSON(c, http.StatusOK, h.Svc.GetSelf(caller), "profile")
}

// List GET /api/users?skip=0&limit=100 (admin only)
func (h *UserHandler) List(c *gin.Context) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	views, err := h.Svc.ListUsers(c.Request.Context(), caller, skip, limit)
	if err != nil {
		status, msg := statusFor(err)
		response.Fail(c, status, msg, nil)
		return
	}
	response.JSON(c, http.StatusOK, views, "users")
}

// Get GET /api/users/:id (admin only)
func (h *UserHandler) Get(c *gin.Context) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	view, err := h.Svc.GetUser(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		status, msg := statusFor(err)
		response.Fail(c, status, msg, nil)
		return
	}
	response.JSON(c, http.StatusOK, view, "user")
}

// Update PATCH /api/users/:id (self or admin)
func (h *UserHandler) Update(c *gin.Context) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	view, err := h.Svc.UpdateUser(c.Request.Context(), caller, c.Param("id"), application.UpdateUserInput{
		FullName: req.FullName,
		Role:     req.Role,
	})
	if err != nil {
		status, msg := statusFor(err)
		response.Fail(c, status, msg, nil)
		return
	}
	response.JSON(c, http.StatusOK, view, "user updated")
}

// Delete DELETE /api/users/:id (admin only)
func (h *UserHandler) Delete(c *gin.Context) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	if err := h.Svc.DeleteUser(c.Request.Context(), caller, c.Param("id")); err != nil {
		status, msg := statusFor(err)
		response.Fail(c, status, msg, nil)
		return
	}
	response.JSON[any](c, http.StatusOK, gin.H{"deleted": true}, "user deleted successfully")
}
