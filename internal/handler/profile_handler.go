package handler

import (
	"net/http"

	"warung-pos/internal/domain/profile"
	"warung-pos/internal/services"
	"warung-pos/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProfileHandler handles profile and presence HTTP endpoints.
type ProfileHandler struct {
	profiles *services.ProfileService
	presence *services.PresenceService
}

func NewProfileHandler(profiles *services.ProfileService, presence *services.PresenceService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, presence: presence}
}

// Me returns the authenticated user's profile.
func (h *ProfileHandler) Me(c *gin.Context) {
	userID, err := services.UserIDFromContext(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	p, err := h.profiles.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(toProfileDTO(p)))
}

// List returns every profile; the team is small so there is no paging.
func (h *ProfileHandler) List(c *gin.Context) {
	profiles, err := h.profiles.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	dtos := make([]httpdto.ProfileDTO, 0, len(profiles))
	for _, p := range profiles {
		dtos = append(dtos, toProfileDTO(p))
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(dtos))
}

// UpdateMe updates the authenticated user's profile.
func (h *ProfileHandler) UpdateMe(c *gin.Context) {
	userID, err := services.UserIDFromContext(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	var req httpdto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	p, err := h.profiles.Update(c.Request.Context(), userID, services.UpdateProfileInput{
		FullName:  req.FullName,
		Phone:     req.Phone,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(toProfileDTO(p)))
}

// SetRole changes another user's role; admin-only route.
func (h *ProfileHandler) SetRole(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid user id", "INVALID_REQUEST"))
		return
	}

	var req httpdto.SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	p, err := h.profiles.SetRole(c.Request.Context(), userID, req.Role)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(toProfileDTO(p)))
}

// Presence returns a user's cached presence.
func (h *ProfileHandler) Presence(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid user id", "INVALID_REQUEST"))
		return
	}
	status, err := h.presence.GetPresence(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.PresenceDTO{
		UserID:   status.UserID,
		IsOnline: status.IsOnline,
		LastSeen: status.LastSeen,
	}))
}

// OnlineUsers lists the IDs of everyone currently online.
func (h *ProfileHandler) OnlineUsers(c *gin.Context) {
	users, err := h.presence.OnlineUsers(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(users))
}

func toProfileDTO(p profile.Profile) httpdto.ProfileDTO {
	dto := httpdto.ProfileDTO{
		UserID:   p.UserID.String(),
		FullName: p.FullName,
		Role:     p.Role,
		IsOnline: p.IsOnline,
	}
	if p.Phone.Valid {
		dto.Phone = p.Phone.String
	}
	if p.AvatarURL.Valid {
		dto.AvatarURL = p.AvatarURL.String
	}
	if p.LastSeen.Valid {
		t := p.LastSeen.Time
		dto.LastSeen = &t
	}
	return dto
}
