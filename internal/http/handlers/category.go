package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/shelfcast/shelfcast-backend/internal/http/response"
	"github.com/shelfcast/shelfcast-backend/internal/pkg/logger"
	"github.com/shelfcast/shelfcast-backend/internal/services"
)

type CategoryHandler struct {
	log             *logger.Logger
	categoryService services.CategoryService
}

func NewCategoryHandler(log *logger.Logger, categoryService services.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		log:             log.With("handler", "CategoryHandler"),
		categoryService: categoryService,
	}
}

func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.categoryService.List(c.Request.Context())
	if err != nil {
		h.log.Error("List categories failed", "error", err)
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"categories": categories})
}
