package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tasktalk-dev/tasktalk/db"
	"github.com/tasktalk-dev/tasktalk/internal/llm"
	"github.com/tasktalk-dev/tasktalk/internal/services"
	"github.com/tasktalk-dev/tasktalk/internal/utils"
)

type ChatRequest struct {
	ConversationID *uint  `json:"conversation_id"`
	Message        string `json:"message" binding:"required"`
}

// Chat handles one conversational turn. The user_id path parameter exists
// for readability and logging only; the authoritative identity is the
// token subject, and the two must match exactly.
func Chat(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	claimedUserID := ctx.Param("user_id")

	if claimedUserID != strconv.FormatUint(uint64(currentUser.ID), 10) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Token subject does not match requested user"})
		return
	}

	var req ChatRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	service := services.NewChatService(db.DB, llm.Default)

	response, err := service.HandleTurn(ctx.Request.Context(), currentUser.ID, services.ChatTurnRequest{
		ConversationID: req.ConversationID,
		Message:        req.Message,
	})

	if err != nil {
		respondStoreError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response)
}
