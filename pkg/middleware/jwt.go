package middleware

import (
	"errors"
	"net/http"
	"strings"

	"keygate/auth-api/internal/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewJWTMiddleware guards routes that need an authenticated session. It
// expects an Authorization: Bearer header, validates the token through the
// issuer (signature, expiry, then the jti allow-list) and sets accountID and
// jti in the context for the handler.
func NewJWTMiddleware(issuer *session.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.MustGet("requestID").(string)

		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "missing_bearer_token",
				"requestID": requestID,
			})
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")

		accountID, jti, err := issuer.Validate(c.Request.Context(), tokenStr)
		if err != nil {
			if !errors.Is(err, session.ErrInvalidToken) {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error":     "internal_server_error",
					"requestID": requestID,
				})

				zap.L().Error("Failed to validate session token", zap.Error(err), zap.String("requestID", requestID))
				return
			}

			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "token_invalid",
				"requestID": requestID,
			})
			return
		}

		c.Set("accountID", accountID)
		c.Set("jti", jti)
		c.Next()
	}
}
