package handler

import (
	"net/http"

	"warung-pos/internal/services"
	"warung-pos/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

// SettingsHandler handles store settings HTTP endpoints.
type SettingsHandler struct {
	settings *services.SettingsService
}

func NewSettingsHandler(settings *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.settings.Get(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(settings))
}

func (h *SettingsHandler) Update(c *gin.Context) {
	userID, err := services.UserIDFromContext(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	var req httpdto.SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	settings, err := h.settings.Update(c.Request.Context(), userID, services.SettingsInput{
		StoreName:     req.StoreName,
		StoreAddress:  req.StoreAddress,
		StorePhone:    req.StorePhone,
		StoreLogo:     req.StoreLogo,
		ReceiptFooter: req.ReceiptFooter,
		TaxRate:       req.TaxRate,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(settings))
}
