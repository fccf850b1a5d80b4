package api

import (
	"errors"
	"net/http"

	"keygate/auth-api/internal/account"
	"keygate/auth-api/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type signUpBody struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// SignUp registers a new account. The duplicate check is the unique index on
// the email column, so concurrent sign-ups with the same address can't both
// win. Verification mail is queued by the service and never blocks the 201.
func (a *API) SignUp(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data signUpBody
	if err := c.ShouldBind(&data); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})

		zap.L().Error("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if err := validators.EmailValidator(data.Email); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	if err := validators.UsernameValidator(data.Username); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	if err := validators.PasswordValidator(data.Password); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	acc, token, err := a.Auth.SignUp(c.Request.Context(), data.Email, data.Username, data.Password)
	if err != nil {
		if errors.Is(err, account.ErrDuplicateEmail) {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"error":     "This email is already registered. Please sign in or use a different email",
				"requestID": requestID,
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Sign-up failed", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"account": acc,
		"token":   token,
	})
}
