package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shelfcast/shelfcast-backend/internal/http/response"
	"github.com/shelfcast/shelfcast-backend/internal/pkg/logger"
	"github.com/shelfcast/shelfcast-backend/internal/services"
	"github.com/shelfcast/shelfcast-backend/internal/types"
)

type StatsHandler struct {
	log          *logger.Logger
	statsService services.StatsService
}

func NewStatsHandler(log *logger.Logger, statsService services.StatsService) *StatsHandler {
	return &StatsHandler{
		log:          log.With("handler", "StatsHandler"),
		statsService: statsService,
	}
}

func (h *StatsHandler) Summary(c *gin.Context) {
	summary, err := h.statsService.Summary(c.Request.Context())
	if err != nil {
		h.log.Error("Stats summary failed", "error", err)
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, summary)
}

func (h *StatsHandler) UpsertDaily(c *gin.Context) {
	var body struct {
		Date           string `json:"date"`
		Users          int64  `json:"users"`
		Videos         int64  `json:"videos"`
		Views          int64  `json:"views"`
		Likes          int64  `json:"likes"`
		Comments       int64  `json:"comments"`
		PendingReviews int64  `json:"pendingReviews"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	stats, err := h.statsService.UpsertDaily(c.Request.Context(), &types.StatisticsDaily{
		Date:           body.Date,
		Users:          body.Users,
		Videos:         body.Videos,
		Views:          body.Views,
		Likes:          body.Likes,
		Comments:       body.Comments,
		PendingReviews: body.PendingReviews,
	})
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, stats)
}

func (h *StatsHandler) ListDaily(c *gin.Context) {
	rows, err := h.statsService.ListDaily(c.Request.Context(), c.Query("from"), c.Query("to"))
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"daily": rows})
}
