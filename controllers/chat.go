package controllers

import (
	"errors"
	"net/http"

	"gamerscove/apperror"
	"gamerscove/services/ai"

	"github.com/gin-gonic/gin"
)

type chatResponse struct {
	SessionID string `json:"sessionId"`
	ai.Envelope
}

// @Summary Send a message to the assistant
// @Description Omit sessionId to start a new conversation; reuse the returned one to continue it
// @Tags chat
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param body body object{message=string,sessionId=string} true "Message and optional session id"
// @Success 200 {object} controllers.chatResponse
// @Failure 400 {object} object{error=string}
// @Failure 502 {object} controllers.chatResponse
// @Router /api/chat [post]
func Chat(agent *ai.Agent) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Message   string `json:"message" binding:"required"`
			SessionID string `json:"sessionId"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
			return
		}

		envelope, sessionID, err := agent.Chat(c.Request.Context(), body.SessionID, body.Message)
		status := http.StatusOK
		if err != nil {
			// The envelope still carries a degraded reply, so it goes out
			// with the error status instead of a bare error body.
			if !errors.Is(err, apperror.ErrExternalService) {
				c.JSON(apperror.HTTPStatus(err), gin.H{"error": err.Error()})
				return
			}
			status = http.StatusBadGateway
		}

		c.JSON(status, chatResponse{SessionID: sessionID, Envelope: envelope})
	}
}
