package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"divisafe-support/internal/service"
)

const moderatorClaimsKey = "moderator_claims"

// ModeratorAuthMiddleware valida el JWT de moderador y guarda claims en el contexto.
func ModeratorAuthMiddleware(tokenSvc *service.ModeratorTokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenSvc == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "moderation not configured"})
			c.Abort()
			return
		}

		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			c.Abort()
			return
		}

		token := strings.TrimSpace(header[len("Bearer "):])
		claims, err := tokenSvc.Parse(token)
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, service.ErrTokenExpired) {
				msg = "token expired"
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": msg})
			c.Abort()
			return
		}

		c.Set(moderatorClaimsKey, claims)
		c.Next()
	}
}

// GetModeratorClaims obtiene claims de JWT desde el contexto.
func GetModeratorClaims(c *gin.Context) (service.ModeratorClaims, bool) {
	val, ok := c.Get(moderatorClaimsKey)
	if !ok {
		return service.ModeratorClaims{}, false
	}
	claims, ok := val.(service.ModeratorClaims)
	return claims, ok
}
