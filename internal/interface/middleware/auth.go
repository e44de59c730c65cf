package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/recruitment-accounts/internal/application"
	"github.com/oksasatya/recruitment-accounts/pkg/response"
)

// Authenticator resolves a bearer token to the user id it was issued for.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (string, error)
}

// Auth rejects requests without a valid, unrevoked bearer token and sets
// userID in the Gin context on success.
func Auth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			response.Error[any](c, http.StatusUnauthorized, "missing access token", gin.H{"code": application.ErrNoToken.Code})
			return
		}
		uid, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			var appErr *application.Error
			if errors.As(err, &appErr) && appErr.Kind == application.KindTokenInvalid {
				response.Error[any](c, http.StatusUnauthorized, appErr.Message, gin.H{"code": appErr.Code, "reason": appErr.Reason})
				return
			}
			response.Error[any](c, http.StatusInternalServerError, "internal error", gin.H{"code": application.ErrStoreFailure.Code})
			return
		}
		c.Set(CtxUserIDKey, uid)
		c.Next()
	}
}
