package api

import (
	"errors"
	"net/http"

	"keygate/auth-api/internal/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type signInBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignIn checks credentials and returns the account with a fresh session
// token. Unknown email and wrong password produce the same 401.
func (a *API) SignIn(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data signInBody
	if err := c.ShouldBind(&data); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})

		zap.L().Error("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if data.Email == "" || data.Password == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Email and password fields can't be empty",
			"requestID": requestID,
		})
		return
	}

	acc, token, err := a.Auth.SignIn(c.Request.Context(), data.Email, data.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Invalid credentials",
				"requestID": requestID,
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Sign-in failed", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"account": acc,
		"token":   token,
	})
}
