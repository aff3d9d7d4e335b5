package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shelfcast/shelfcast-backend/internal/http/middleware"
	"github.com/shelfcast/shelfcast-backend/internal/http/response"
	"github.com/shelfcast/shelfcast-backend/internal/pkg/logger"
	"github.com/shelfcast/shelfcast-backend/internal/repos"
	"github.com/shelfcast/shelfcast-backend/internal/services"
	"github.com/shelfcast/shelfcast-backend/internal/types"
)

type VideoHandler struct {
	log          *logger.Logger
	videoService services.VideoService
}

func NewVideoHandler(log *logger.Logger, videoService services.VideoService) *VideoHandler {
	return &VideoHandler{
		log:          log.With("handler", "VideoHandler"),
		videoService: videoService,
	}
}

func (h *VideoHandler) Publish(c *gin.Context) {
	var body struct {
		Title           string `json:"title"`
		EnglishTitle    string `json:"englishTitle"`
		CategoryID      string `json:"categoryId"`
		ContentID       string `json:"contentId"`
		VideoURL        string `json:"videoUrl"`
		CoverURL        string `json:"coverUrl"`
		DurationSeconds int    `json:"durationSeconds"`
		FileSizeBytes   int64  `json:"fileSizeBytes"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	input := services.PublishInput{
		Title:           body.Title,
		EnglishTitle:    body.EnglishTitle,
		VideoURL:        body.VideoURL,
		CoverURL:        body.CoverURL,
		DurationSeconds: body.DurationSeconds,
		FileSizeBytes:   body.FileSizeBytes,
	}
	if body.CategoryID != "" {
		categoryID, err := uuid.Parse(body.CategoryID)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_category_id", err)
			return
		}
		input.CategoryID = categoryID
	}
	if body.ContentID != "" {
		contentID, err := uuid.Parse(body.ContentID)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_content_id", err)
			return
		}
		input.ContentID = &contentID
	}
	if claims := middleware.GetClaims(c); claims != nil {
		input.AuthorID = &claims.UserID
	}
	video, err := h.videoService.Publish(c.Request.Context(), input)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondCreated(c, video)
}

func (h *VideoHandler) Review(c *gin.Context) {
	videoID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body struct {
		Action string `json:"action"`
		Notes  string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	video, err := h.videoService.Review(c.Request.Context(), videoID, body.Action, body.Notes)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, video)
}

func (h *VideoHandler) ToggleStatus(c *gin.Context) {
	videoID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body struct {
		Disabled *bool `json:"disabled"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Disabled == nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	video, err := h.videoService.ToggleDisabled(c.Request.Context(), videoID, *body.Disabled)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, video)
}

func (h *VideoHandler) Delete(c *gin.Context) {
	videoID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.videoService.Delete(c.Request.Context(), videoID); err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": true})
}

func (h *VideoHandler) Get(c *gin.Context) {
	videoID, ok := pathID(c, "id")
	if !ok {
		return
	}
	video, err := h.videoService.Get(c.Request.Context(), videoID)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, video)
}

func (h *VideoHandler) List(c *gin.Context) {
	filter := repos.VideoFilter{
		Status: types.VideoStatus(c.Query("status")),
		Search: c.Query("search"),
		Offset: intQuery(c, "offset", 0),
		Limit:  intQuery(c, "limit", 20),
	}
	if raw := c.Query("category_id"); raw != "" {
		categoryID, err := uuid.Parse(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_category_id", err)
			return
		}
		filter.CategoryID = &categoryID
	}
	videos, total, err := h.videoService.List(c.Request.Context(), filter)
	if err != nil {
		h.log.Error("List videos failed", "error", err)
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"videos": videos, "total": total})
}

func (h *VideoHandler) Update(c *gin.Context) {
	videoID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	video, err := h.videoService.Update(c.Request.Context(), videoID, updates)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, video)
}
