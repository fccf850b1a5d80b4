package api

import (
	"errors"
	"fmt"
	"net/http"

	"keygate/auth-api/internal/verification"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// VerifyEmail consumes the token from the verification link and redirects
// the browser to the front app. Blank and unknown tokens both get a 403.
func (a *API) VerifyEmail(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	token := c.Query("token")

	_, err := a.Auth.VerifyEmail(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, verification.ErrInvalidToken) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":     "Verification token is invalid",
				"requestID": requestID,
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Email verification failed", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("https://%s", viper.GetString("front_app.host")))
}
