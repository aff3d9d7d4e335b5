package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shelfcast/shelfcast-backend/internal/http/response"
	"github.com/shelfcast/shelfcast-backend/internal/pkg/logger"
	"github.com/shelfcast/shelfcast-backend/internal/services"
)

// ContentHandler exposes the pipeline stage operations. Each endpoint runs
// exactly one stage; recovery after a failure is re-invoking that stage.
type ContentHandler struct {
	log         *logger.Logger
	pipeline    services.PipelineService
	bookService services.BookService
}

func NewContentHandler(log *logger.Logger, pipeline services.PipelineService, bookService services.BookService) *ContentHandler {
	return &ContentHandler{
		log:         log.With("handler", "ContentHandler"),
		pipeline:    pipeline,
		bookService: bookService,
	}
}

func (h *ContentHandler) Extract(c *gin.Context) {
	bookID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body struct {
		Segments int `json:"segments"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	contents, err := h.pipeline.Extract(c.Request.Context(), bookID, body.Segments)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, contents)
}

func (h *ContentHandler) GenerateAvatar(c *gin.Context) {
	contentID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body struct {
		AvatarDescription string `json:"avatarDescription"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	item, err := h.pipeline.GenerateAvatar(c.Request.Context(), contentID, body.AvatarDescription)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, item)
}

func (h *ContentHandler) GenerateAudio(c *gin.Context) {
	contentID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body struct {
		Text     string `json:"text"`
		Language string `json:"language"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	item, err := h.pipeline.GenerateAudio(c.Request.Context(), contentID, body.Text, body.Language)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, item)
}

func (h *ContentHandler) GenerateSilentVideo(c *gin.Context) {
	contentID, ok := pathID(c, "id")
	if !ok {
		return
	}
	item, err := h.pipeline.GenerateSilentVideo(c.Request.Context(), contentID)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, item)
}

func (h *ContentHandler) GenerateVideo(c *gin.Context) {
	contentID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body struct {
		AudioURL string `json:"audioUrl"`
		Language string `json:"language"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	item, err := h.pipeline.MergeVideo(c.Request.Context(), contentID, body.AudioURL, body.Language)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, item)
}

func (h *ContentHandler) Translate(c *gin.Context) {
	contentID, ok := pathID(c, "id")
	if !ok {
		return
	}
	item, err := h.pipeline.Translate(c.Request.Context(), contentID)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, item)
}

func (h *ContentHandler) GenerateEnglishVideo(c *gin.Context) {
	contentID, ok := pathID(c, "id")
	if !ok {
		return
	}
	item, err := h.pipeline.GenerateEnglishVideo(c.Request.Context(), contentID)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, item)
}

func (h *ContentHandler) Update(c *gin.Context) {
	contentID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	item, err := h.bookService.UpdateContent(c.Request.Context(), contentID, updates)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, item)
}
