package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"divisafe-support/internal/domain"
	"divisafe-support/internal/service"
)

// ModerationHandler sirve el panel de moderadores. Todas las rutas requieren JWT de moderador.
type ModerationHandler struct {
	logger  *zap.Logger
	support *service.SupportService
}

func NewModerationHandler(logger *zap.Logger, support *service.SupportService) *ModerationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ModerationHandler{logger: logger, support: support}
}

func (h *ModerationHandler) ListPending(c *gin.Context) {
	list, err := h.support.ListPendingEscalations(c.Request.Context())
	if err != nil {
		writeServiceError(c, h.logger, "list escalations", err)
		return
	}
	if list == nil {
		list = []domain.Escalation{}
	}
	c.JSON(http.StatusOK, gin.H{"escalations": list})
}

func (h *ModerationHandler) Get(c *gin.Context) {
	esc, err := h.support.GetEscalation(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, h.logger, "get escalation", err)
		return
	}
	c.JSON(http.StatusOK, esc)
}

// Resolve marca la escalacion como atendida por el moderador del token.
func (h *ModerationHandler) Resolve(c *gin.Context) {
	claims, ok := GetModeratorClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	esc, err := h.support.ResolveEscalation(c.Request.Context(), c.Param("id"), claims.ModeratorID)
	if err != nil {
		writeServiceError(c, h.logger, "resolve escalation", err)
		return
	}
	c.JSON(http.StatusOK, esc)
}

func (h *ModerationHandler) RecentInteractions(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = v
	}
	list, err := h.support.RecentInteractions(c.Request.Context(), limit)
	if err != nil {
		writeServiceError(c, h.logger, "list interactions", err)
		return
	}
	if list == nil {
		list = []domain.InteractionRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"interactions": list})
}
