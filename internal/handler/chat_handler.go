package handler

import (
	"net/http"

	"warung-pos/internal/domain/chat"
	"warung-pos/internal/services"
	"warung-pos/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ChatHandler handles chat HTTP endpoints.
type ChatHandler struct {
	chats  *services.ChatService
	typing *services.TypingService
}

func NewChatHandler(chats *services.ChatService, typing *services.TypingService) *ChatHandler {
	return &ChatHandler{chats: chats, typing: typing}
}

// List returns the authenticated user's chat list with unread counts.
func (h *ChatHandler) List(c *gin.Context) {
	userID, err := services.UserIDFromContext(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	summaries, err := h.chats.GetUserChats(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	dtos := make([]httpdto.ChatSummaryDTO, 0, len(summaries))
	for _, s := range summaries {
		dtos = append(dtos, toChatSummaryDTO(s))
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(dtos))
}

// Direct finds or creates the direct chat with another user.
func (h *ChatHandler) Direct(c *gin.Context) {
	userID, err := services.UserIDFromContext(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	var req httpdto.DirectChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}
	otherID, err := uuid.Parse(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid user id", "INVALID_REQUEST"))
		return
	}

	created, err := h.chats.GetOrCreateDirectChat(c.Request.Context(), userID, otherID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(toChatDTO(created)))
}

// Group creates a group chat.
func (h *ChatHandler) Group(c *gin.Context) {
	userID, err := services.UserIDFromContext(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	var req httpdto.GroupChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	memberIDs := make([]uuid.UUID, 0, len(req.MemberIDs))
	for _, raw := range req.MemberIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid member id", "INVALID_REQUEST"))
			return
		}
		memberIDs = append(memberIDs, id)
	}

	created, err := h.chats.CreateGroupChat(c.Request.Context(), userID, req.Name, req.Description, memberIDs)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(toChatDTO(created)))
}

// Open marks the chat read and returns its history.
func (h *ChatHandler) Open(c *gin.Context) {
	userID, err := services.UserIDFromContext(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	chatID, err := uuid.Parse(c.Param("chatId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid chat id", "INVALID_REQUEST"))
		return
	}

	messages, err := h.chats.OpenChat(c.Request.Context(), chatID, userID)
	if err != nil {
		writeError(c, err)
		return
	}
	dtos := make([]httpdto.MessageDTO, 0, len(messages))
	for _, m := range messages {
		dtos = append(dtos, toMessageDTO(m))
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(dtos))
}

// MarkRead advances the read marker without loading history.
func (h *ChatHandler) MarkRead(c *gin.Context) {
	userID, err := services.UserIDFromContext(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	chatID, err := uuid.Parse(c.Param("chatId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid chat id", "INVALID_REQUEST"))
		return
	}

	if err := h.chats.MarkRead(c.Request.Context(), chatID, userID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"message": "marked read"}))
}

// Typing flips the caller's typing flag in a chat.
func (h *ChatHandler) Typing(c *gin.Context) {
	userID, err := services.UserIDFromContext(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	chatID, err := uuid.Parse(c.Param("chatId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid chat id", "INVALID_REQUEST"))
		return
	}

	var req httpdto.TypingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	if err := h.typing.SetTyping(c.Request.Context(), chatID, userID, req.IsTyping); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"message": "ok"}))
}

// TypingUsers returns who is currently typing in a chat.
func (h *ChatHandler) TypingUsers(c *gin.Context) {
	chatID, err := uuid.Parse(c.Param("chatId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid chat id", "INVALID_REQUEST"))
		return
	}
	users, err := h.typing.TypingUsers(c.Request.Context(), chatID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(users))
}

func toChatDTO(c chat.Chat) httpdto.ChatDTO {
	dto := httpdto.ChatDTO{
		ID:        c.ID.String(),
		Name:      c.Name,
		ChatType:  c.ChatType,
		CreatedBy: c.CreatedBy.String(),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if c.Description.Valid {
		dto.Description = c.Description.String
	}
	return dto
}

func toChatSummaryDTO(s services.ChatSummary) httpdto.ChatSummaryDTO {
	dto := httpdto.ChatSummaryDTO{
		Chat:        toChatDTO(s.Chat),
		DisplayName: s.DisplayName,
		AvatarURL:   s.AvatarURL,
		UnreadCount: s.UnreadCount,
	}
	if s.LastMessage != nil {
		m := toMessageDTO(*s.LastMessage)
		dto.LastMessage = &m
	}
	for _, p := range s.Members {
		dto.Members = append(dto.Members, httpdto.ParticipantDTO{
			UserID:     p.UserID.String(),
			FullName:   p.FullName,
			AvatarURL:  p.AvatarURL,
			Role:       p.Role,
			LastReadAt: p.LastReadAt,
		})
	}
	return dto
}
