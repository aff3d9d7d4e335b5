package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shelfcast/shelfcast-backend/internal/http/response"
	"github.com/shelfcast/shelfcast-backend/internal/pkg/logger"
	"github.com/shelfcast/shelfcast-backend/internal/services"
)

type UserHandler struct {
	log         *logger.Logger
	userService services.UserService
}

func NewUserHandler(log *logger.Logger, userService services.UserService) *UserHandler {
	return &UserHandler{
		log:         log.With("handler", "UserHandler"),
		userService: userService,
	}
}

func (h *UserHandler) Create(c *gin.Context) {
	var body struct {
		Email      string `json:"email"`
		Username   string `json:"username"`
		Password   string `json:"password"`
		IsAdmin    bool   `json:"isAdmin"`
		CanPublish bool   `json:"canPublish"`
		CanComment *bool  `json:"canComment"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	canComment := true
	if body.CanComment != nil {
		canComment = *body.CanComment
	}
	user, err := h.userService.Create(c.Request.Context(), services.CreateUserInput{
		Email:      body.Email,
		Username:   body.Username,
		Password:   body.Password,
		IsAdmin:    body.IsAdmin,
		CanPublish: body.CanPublish,
		CanComment: canComment,
	})
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondCreated(c, user)
}

func (h *UserHandler) Get(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	user, err := h.userService.Get(c.Request.Context(), userID)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, user)
}

func (h *UserHandler) List(c *gin.Context) {
	users, total, err := h.userService.List(c.Request.Context(), intQuery(c, "offset", 0), intQuery(c, "limit", 20))
	if err != nil {
		h.log.Error("List users failed", "error", err)
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"users": users, "total": total})
}

func (h *UserHandler) Update(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	user, err := h.userService.Update(c.Request.Context(), userID, updates)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, user)
}

func (h *UserHandler) Delete(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.userService.Delete(c.Request.Context(), userID); err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": true})
}
