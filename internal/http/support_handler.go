package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"divisafe-support/internal/service"
)

// SupportHandler expone el analisis emocional y los catalogos publicos.
type SupportHandler struct {
	logger  *zap.Logger
	support *service.SupportService
}

func NewSupportHandler(logger *zap.Logger, support *service.SupportService) *SupportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SupportHandler{logger: logger, support: support}
}

type analyzeRequest struct {
	Message     string              `json:"message"`
	UserContext service.UserContext `json:"user_context"`
}

// Analyze maneja POST /api/chat/analyze.
func (h *SupportHandler) Analyze(c *gin.Context) {
	var req analyzeRequest
	// Un mensaje vacio es valido: el pipeline devuelve el estado por defecto.
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid analyze request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	analysis, err := h.support.Analyze(c.Request.Context(), service.AnalyzeInput{
		Message:     req.Message,
		UserContext: req.UserContext,
		ClientIP:    c.ClientIP(),
	})
	if err != nil {
		writeServiceError(c, h.logger, "analyze", err)
		return
	}

	c.JSON(http.StatusOK, analysis)
}

// CrisisResources maneja GET /api/crisis-resources?locale=.
func (h *SupportHandler) CrisisResources(c *gin.Context) {
	locale := strings.ToLower(strings.TrimSpace(c.Query("locale")))
	c.JSON(http.StatusOK, gin.H{
		"locale":    locale,
		"resources": h.support.GetCrisisResources(locale),
		"locales":   h.support.Locales(),
	})
}

// Rooms maneja GET /api/chat/rooms.
func (h *SupportHandler) Rooms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"rooms": h.support.Rooms()})
}

func (h *SupportHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// writeServiceError traduce errores del servicio sin exponer detalles internos.
func writeServiceError(c *gin.Context, logger *zap.Logger, op string, err error) {
	switch {
	case errors.Is(err, service.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests, please slow down"})
	case errors.Is(err, service.ErrEscalationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "escalation not found"})
	case errors.Is(err, service.ErrSupportServiceNotConfigured):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "feature not configured"})
	default:
		logger.Error(op+" failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong, please try again"})
	}
}
