package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SignOut revokes the session the request authenticated with. The JWT
// middleware already validated the token and stored its jti, so reaching
// this handler without one is impossible.
func (a *API) SignOut(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	jti := c.MustGet("jti").(string)

	if err := a.Auth.SignOut(c.Request.Context(), jti); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Sign-out failed", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.Status(http.StatusNoContent)
}
