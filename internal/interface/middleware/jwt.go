package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/recruitment-accounts/pkg/helpers"
)

const CtxUserIDKey = "userID"

// BearerToken returns the token from "Authorization: Bearer <token>", falling
// back to the access_token cookie. It returns "" when neither is present.
func BearerToken(c *gin.Context) string {
	if h := strings.TrimSpace(c.GetHeader("Authorization")); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if token, err := c.Cookie(helpers.AccessTokenCookie); err == nil {
		return strings.TrimSpace(token)
	}
	return ""
}
