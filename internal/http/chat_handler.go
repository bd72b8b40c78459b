package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"divisafe-support/internal/domain"
	"divisafe-support/internal/service"
)

type ChatHandler struct {
	logger *zap.Logger
	chat   *service.ChatService
}

func NewChatHandler(logger *zap.Logger, chat *service.ChatService) *ChatHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatHandler{logger: logger, chat: chat}
}

type chatReplyRequest struct {
	Messages    []domain.ChatMessage `json:"messages" binding:"required,min=1"`
	UserContext service.UserContext  `json:"user_context"`
	Annotate    bool                 `json:"annotate"`
}

// Reply maneja POST /api/chat/reply. Un LLM caido no es error: se devuelve la disculpa con degraded=true.
func (h *ChatHandler) Reply(c *gin.Context) {
	var req chatReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid chat request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	reply, err := h.chat.Reply(c.Request.Context(), service.ChatInput{
		History:     req.Messages,
		UserContext: req.UserContext,
		ClientIP:    c.ClientIP(),
		Annotate:    req.Annotate,
	})
	if err != nil {
		if errors.Is(err, service.ErrChatNoUserMessage) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "a user message is required"})
			return
		}
		writeServiceError(c, h.logger, "chat reply", err)
		return
	}

	c.JSON(http.StatusOK, reply)
}
