package handler

import (
	"net/http"

	"warung-pos/internal/services"
	"warung-pos/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

// UploadHandler handles file upload HTTP endpoints.
type UploadHandler struct {
	uploads *services.UploadService
}

func NewUploadHandler(uploads *services.UploadService) *UploadHandler {
	return &UploadHandler{uploads: uploads}
}

// Upload accepts a multipart file and stores it.
func (h *UploadHandler) Upload(c *gin.Context) {
	userID, err := services.UserIDFromContext(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("missing file", "INVALID_REQUEST"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("unreadable file", "INVALID_REQUEST"))
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	result, err := h.uploads.Upload(c.Request.Context(), userID, fileHeader.Filename, contentType, fileHeader.Size, file)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(result))
}

// Presign returns a presigned PUT URL for a direct upload.
func (h *UploadHandler) Presign(c *gin.Context) {
	userID, err := services.UserIDFromContext(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	var req httpdto.PresignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	result, err := h.uploads.Presign(c.Request.Context(), userID, req.FileName, req.ContentType, req.SizeBytes)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(result))
}
