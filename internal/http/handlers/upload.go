package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shelfcast/shelfcast-backend/internal/http/response"
	"github.com/shelfcast/shelfcast-backend/internal/pkg/logger"
	"github.com/shelfcast/shelfcast-backend/internal/services"
)

type UploadHandler struct {
	log           *logger.Logger
	uploadService services.UploadService
}

func NewUploadHandler(log *logger.Logger, uploadService services.UploadService) *UploadHandler {
	return &UploadHandler{
		log:           log.With("handler", "UploadHandler"),
		uploadService: uploadService,
	}
}

func (h *UploadHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "missing_file", err)
		return
	}
	if fileHeader.Size > services.MaxUploadBytes {
		response.RespondError(c, http.StatusBadRequest, "file_too_large", nil)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "unreadable_file", err)
		return
	}
	defer file.Close()

	session, err := h.uploadService.Relay(c.Request.Context(), fileHeader.Filename, fileHeader.Size, file)
	if err != nil {
		h.log.Error("Upload relay failed", "file", fileHeader.Filename, "error", err)
		response.RespondFromError(c, err)
		return
	}
	response.RespondCreated(c, session)
}

func (h *UploadHandler) Progress(c *gin.Context) {
	sessionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	session, found := h.uploadService.Progress(sessionID)
	if !found {
		response.RespondError(c, http.StatusNotFound, "upload_session_not_found", nil)
		return
	}
	response.RespondOK(c, session)
}
