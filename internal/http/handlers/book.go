package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shelfcast/shelfcast-backend/internal/http/response"
	"github.com/shelfcast/shelfcast-backend/internal/pkg/logger"
	"github.com/shelfcast/shelfcast-backend/internal/repos"
	"github.com/shelfcast/shelfcast-backend/internal/services"
	"github.com/shelfcast/shelfcast-backend/internal/types"
)

type BookHandler struct {
	log         *logger.Logger
	bookService services.BookService
}

func NewBookHandler(log *logger.Logger, bookService services.BookService) *BookHandler {
	return &BookHandler{
		log:         log.With("handler", "BookHandler"),
		bookService: bookService,
	}
}

type bookBody struct {
	Title      string `json:"title"`
	Author     string `json:"author"`
	ISBN       string `json:"isbn"`
	CategoryID string `json:"categoryId"`
	CoverURL   string `json:"coverUrl"`
	FileURL    string `json:"fileUrl"`
}

func (h *BookHandler) Create(c *gin.Context) {
	var body bookBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	input := services.CreateBookInput{
		Title:    body.Title,
		Author:   body.Author,
		ISBN:     body.ISBN,
		CoverURL: body.CoverURL,
		FileURL:  body.FileURL,
	}
	if body.CategoryID != "" {
		categoryID, err := uuid.Parse(body.CategoryID)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_category_id", err)
			return
		}
		input.CategoryID = &categoryID
	}
	book, err := h.bookService.Create(c.Request.Context(), input)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondCreated(c, book)
}

func (h *BookHandler) Get(c *gin.Context) {
	bookID, ok := pathID(c, "id")
	if !ok {
		return
	}
	book, err := h.bookService.Get(c.Request.Context(), bookID)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, book)
}

func (h *BookHandler) List(c *gin.Context) {
	filter := repos.BookFilter{
		Status: types.BookStatus(c.Query("status")),
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
	books, total, err := h.bookService.List(c.Request.Context(), filter)
	if err != nil {
		h.log.Error("List books failed", "error", err)
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"books": books, "total": total})
}

func (h *BookHandler) Update(c *gin.Context) {
	bookID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	book, err := h.bookService.Update(c.Request.Context(), bookID, updates)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, book)
}

func (h *BookHandler) Delete(c *gin.Context) {
	bookID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.bookService.Delete(c.Request.Context(), bookID); err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": true})
}

func (h *BookHandler) ListContents(c *gin.Context) {
	bookID, ok := pathID(c, "id")
	if !ok {
		return
	}
	contents, err := h.bookService.ListContents(c.Request.Context(), bookID)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"contents": contents})
}

// pathID parses the uuid path param, responding 400 itself on failure.
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", fmt.Errorf("invalid %s path parameter", name))
		return uuid.Nil, false
	}
	return id, true
}

func intQuery(c *gin.Context, name string, defaultVal int) int {
	raw := c.Query(name)
	if raw == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val < 0 {
		return defaultVal
	}
	return val
}
