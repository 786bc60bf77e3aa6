package handler

import (
	"net/http"

	"warung-pos/internal/domain/message"
	"warung-pos/internal/services"
	"warung-pos/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MessageHandler handles message HTTP endpoints.
type MessageHandler struct {
	messages *services.MessageService
}

func NewMessageHandler(messages *services.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

// Send posts a message into a chat.
func (h *MessageHandler) Send(c *gin.Context) {
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

	var req httpdto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	in := services.SendMessageInput{
		ChatID:      chatID,
		SenderID:    userID,
		Content:     req.Content,
		MessageType: req.MessageType,
		FileURL:     req.FileURL,
		FileName:    req.FileName,
		IsImage:     req.IsImage,
	}
	if req.ReplyTo != "" {
		replyTo, err := uuid.Parse(req.ReplyTo)
		if err != nil {
			c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid reply id", "INVALID_REQUEST"))
			return
		}
		in.ReplyTo = &replyTo
	}

	msg, err := h.messages.Send(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(toMessageDTO(msg)))
}

// History returns a chat's messages with sender snapshots.
func (h *MessageHandler) History(c *gin.Context) {
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

	views, err := h.messages.History(c.Request.Context(), chatID, userID)
	if err != nil {
		writeError(c, err)
		return
	}
	dtos := make([]httpdto.MessageViewDTO, 0, len(views))
	for _, v := range views {
		dtos = append(dtos, toMessageViewDTO(v))
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(dtos))
}

// Edit replaces a message's content.
func (h *MessageHandler) Edit(c *gin.Context) {
	userID, err := services.UserIDFromContext(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	messageID, err := uuid.Parse(c.Param("messageId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid message id", "INVALID_REQUEST"))
		return
	}

	var req httpdto.EditMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	msg, err := h.messages.Edit(c.Request.Context(), messageID, userID, req.Content)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(toMessageDTO(msg)))
}

func toMessageDTO(m message.Message) httpdto.MessageDTO {
	dto := httpdto.MessageDTO{
		ID:          m.ID.String(),
		ChatID:      m.ChatID.String(),
		SenderID:    m.SenderID.String(),
		Content:     m.Content,
		MessageType: m.MessageType,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if m.FileURL.Valid {
		dto.FileURL = m.FileURL.String
	}
	if m.ReplyTo.Valid {
		dto.ReplyTo = m.ReplyTo.UUID.String()
	}
	if m.EditedAt.Valid {
		t := m.EditedAt.Time
		dto.EditedAt = &t
	}
	return dto
}

func toMessageViewDTO(v services.MessageView) httpdto.MessageViewDTO {
	return httpdto.MessageViewDTO{
		Message: toMessageDTO(v.Message),
		Sender: httpdto.SenderDTO{
			UserID:    v.Sender.UserID.String(),
			FullName:  v.Sender.FullName,
			AvatarURL: v.Sender.AvatarURL,
		},
	}
}
