package handlers

import (
	"net/http"

	"github.com/birlikkoshan/todo-tracker/internal/auth"
	dom "github.com/birlikkoshan/todo-tracker/internal/domain"
	"github.com/birlikkoshan/todo-tracker/internal/dto"
	"github.com/birlikkoshan/todo-tracker/internal/logging"
	"github.com/birlikkoshan/todo-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

const tokenType = "Bearer"

// AuthHandler handles register, login, profile, refresh and logout.
type AuthHandler struct {
	userSvc *service.UserService
	tokens  *auth.TokenIssuer
	revoked *auth.Revocations
	log     logging.Logger
}

// NewAuthHandler returns a new AuthHandler. revoked may be nil, in which case
// logout only tells the client to drop its token.
func NewAuthHandler(userSvc *service.UserService, tokens *auth.TokenIssuer, revoked *auth.Revocations, log logging.Logger) *AuthHandler {
	return &AuthHandler{userSvc: userSvc, tokens: tokens, revoked: revoked, log: log}
}

// Register godoc
// @Summary      Register
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.RegisterRequest  true  "New account"
// @Success      201   {object}  dto.AuthResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	user, err := h.userSvc.Register(c.Request.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	h.respondWithToken(c, http.StatusCreated, user.Profile(), "User registered successfully")
}

// Login godoc
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.LoginRequest  true  "Credentials"
// @Success      200   {object}  dto.AuthResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	user, err := h.userSvc.ValidateCredentials(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	h.respondWithToken(c, http.StatusOK, user.Profile(), "Login successful")
}

// Profile godoc
// @Summary      Current user from the token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.ProfileResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /auth/profile [get]
func (h *AuthHandler) Profile(c *gin.Context) {
	user, err := h.userSvc.Profile(c.Request.Context(), auth.UserIDFromContext(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ProfileResponse{
		User:    profileToResponse(user.Profile()),
		Message: "Profile retrieved successfully",
	})
}

// Refresh godoc
// @Summary      Issue a fresh token for the current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.AuthResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	user, err := h.userSvc.Profile(c.Request.Context(), auth.UserIDFromContext(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	h.respondWithToken(c, http.StatusOK, user.Profile(), "Token refreshed successfully")
}

// Logout godoc
// @Summary      Logout
// @Description  Revokes the presented token until it expires.
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.MessageResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := auth.ClaimsFromContext(c)
	if h.revoked != nil && claims.ID != "" && claims.ExpiresAt != nil {
		if err := h.revoked.Revoke(c.Request.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
			writeError(c, h.log, err)
			return
		}
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Logged out"})
}

func (h *AuthHandler) respondWithToken(c *gin.Context, status int, p dom.UserProfile, msg string) {
	token, err := h.tokens.Issue(p)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(status, dto.AuthResponse{
		User:        profileToResponse(p),
		AccessToken: token,
		TokenType:   tokenType,
		ExpiresIn:   int64(h.tokens.TTL().Seconds()),
		Message:     msg,
	})
}

func profileToResponse(p dom.UserProfile) dto.UserResponse {
	return dto.UserResponse{ID: p.ID, Email: p.Email, Name: p.Name}
}
