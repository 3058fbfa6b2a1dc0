package handlers

import (
	"errors"
	"net/http"

	"github.com/birlikkoshan/todo-tracker/internal/auth"
	dom "github.com/birlikkoshan/todo-tracker/internal/domain"
	"github.com/birlikkoshan/todo-tracker/internal/dto"
	"github.com/birlikkoshan/todo-tracker/internal/logging"
	"github.com/birlikkoshan/todo-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	svc *service.UserService
	log logging.Logger
}

func NewUserHandler(svc *service.UserService, log logging.Logger) *UserHandler {
	return &UserHandler{svc: svc, log: log}
}

// Me godoc
// @Summary      Get my profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.UserResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /users/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	u, err := h.svc.Profile(c.Request.Context(), auth.UserIDFromContext(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, profileToResponse(u.Profile()))
}

// UpdateMe godoc
// @Summary      Update my profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.UpdateProfileRequest  true  "Partial update"
// @Success      200   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /users/me [patch]
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Email.Null || req.Name.Null {
		badRequest(c, errors.New("email and name cannot be null"))
		return
	}

	var in service.UpdateProfileInput
	if req.Email.Set {
		in.Email = dom.Some(req.Email.Value)
	}
	if req.Name.Set {
		in.Name = dom.Some(req.Name.Value)
	}
	u, err := h.svc.UpdateProfile(c.Request.Context(), auth.UserIDFromContext(c), in)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, profileToResponse(u.Profile()))
}
