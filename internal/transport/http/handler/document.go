package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"docassist/internal/repository"
	"docassist/internal/transport/http/response"
)

type DocumentHandler struct {
	docRepo *repository.DocumentRepository
}

func NewDocumentHandler(docRepo *repository.DocumentRepository) *DocumentHandler {
	return &DocumentHandler{docRepo: docRepo}
}

func (h *DocumentHandler) List(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		response.Error(c, http.StatusBadRequest, "missing user_id")
		return
	}

	docs, err := h.docRepo.ListByUserID(userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "list documents failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":   userID,
		"documents": docs,
	})
}
