package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AskRequest struct {
	Message string `json:"message" binding:"required"`
}

func (h *Handler) AskAI(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}

	if h.Agent == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Server missing Gemini API Key"})
		return
	}

	response, err := h.Agent.Ask(c.Request.Context(), req.Message)
	if err != nil {
		log.Printf("ai: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Assistant is unavailable right now"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": response})
}
