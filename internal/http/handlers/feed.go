package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shelfcast/shelfcast-backend/internal/http/response"
	"github.com/shelfcast/shelfcast-backend/internal/pkg/logger"
	"github.com/shelfcast/shelfcast-backend/internal/services"
)

type FeedHandler struct {
	log         *logger.Logger
	feedService services.FeedService
}

func NewFeedHandler(log *logger.Logger, feedService services.FeedService) *FeedHandler {
	return &FeedHandler{
		log:         log.With("handler", "FeedHandler"),
		feedService: feedService,
	}
}

func (h *FeedHandler) ListVideos(c *gin.Context) {
	var categoryID *uuid.UUID
	if raw := c.Query("category_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_category_id", err)
			return
		}
		categoryID = &parsed
	}
	videos, total, err := h.feedService.ListVideos(c.Request.Context(), categoryID, intQuery(c, "offset", 0), intQuery(c, "limit", 20))
	if err != nil {
		h.log.Error("List feed videos failed", "error", err)
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"videos": videos, "total": total})
}

func (h *FeedHandler) GetVideo(c *gin.Context) {
	videoID, ok := pathID(c, "id")
	if !ok {
		return
	}
	video, err := h.feedService.GetVideo(c.Request.Context(), videoID)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, video)
}

func (h *FeedHandler) RecordView(c *gin.Context) {
	videoID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.feedService.RecordView(c.Request.Context(), videoID); err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"recorded": true})
}

func (h *FeedHandler) RecordLike(c *gin.Context) {
	videoID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.feedService.RecordLike(c.Request.Context(), videoID); err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"recorded": true})
}
