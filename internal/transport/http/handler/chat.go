package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"docassist/internal/app"
	"docassist/internal/transport/http/response"
)

type ChatHandler struct {
	responder *app.ResponderService
}

type ChatRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Query  string `json:"query" binding:"required"`
}

func NewChatHandler(responder *app.ResponderService) *ChatHandler {
	return &ChatHandler{responder: responder}
}

func (h *ChatHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	result, err := h.responder.Respond(c.Request.Context(), app.RespondInput{
		UserID: req.UserID,
		Query:  req.Query,
	})
	if err != nil {
		if errors.Is(err, app.ErrQueryEmpty) {
			response.Error(c, http.StatusBadRequest, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "chat failed")
		return
	}

	c.JSON(http.StatusOK, result)
}
