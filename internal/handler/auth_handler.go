package handler

import (
	"net/http"

	"warung-pos/internal/services"
	"warung-pos/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuthHandler handles authentication HTTP endpoints.
type AuthHandler struct {
	service *services.AuthService
}

// NewAuthHandler creates an auth handler.
func NewAuthHandler(service *services.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// Register handles user registration.
func (h *AuthHandler) Register(c *gin.Context) {
	var req httpdto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	res, err := h.service.Register(c.Request.Context(), services.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Phone:    req.Phone,
		Role:     req.Role,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(toAuthResponse(res)))
}

// Login handles user authentication.
func (h *AuthHandler) Login(c *gin.Context) {
	var req httpdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	res, err := h.service.Login(c.Request.Context(), services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(toAuthResponse(res)))
}

// Logout revokes the current session.
func (h *AuthHandler) Logout(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Query("session_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid session id", "INVALID_REQUEST"))
		return
	}
	if err := h.service.Logout(c.Request.Context(), sessionID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"message": "logged out"}))
}

// LogoutAll revokes every session of the authenticated user.
func (h *AuthHandler) LogoutAll(c *gin.Context) {
	userID, err := services.UserIDFromContext(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	if err := h.service.LogoutAll(c.Request.Context(), userID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"message": "logged out"}))
}

func toAuthResponse(res services.AuthResponse) httpdto.AuthResponse {
	return httpdto.AuthResponse{
		AccessToken: res.AccessToken,
		ExpiresIn:   res.ExpiresIn,
		SessionID:   res.SessionID,
		User: httpdto.AuthUserDTO{
			ID:       res.User.ID,
			Email:    res.User.Email,
			FullName: res.User.FullName,
			Role:     res.User.Role,
		},
	}
}
