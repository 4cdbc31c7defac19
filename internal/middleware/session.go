package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-vault-api/internal/service"
	"github.com/noah-isme/school-vault-api/pkg/response"
)

// ContextUserKey is the gin context key storing the logged-in username.
const ContextUserKey = "currentUser"

// Session protects routes by requiring an active session. The session lives
// server-side in the vault's singleton slot, so there is no credential to
// parse from the request; the middleware only resolves and checks it.
func Session(sessions *service.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, err := sessions.Require()
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		c.Set(ContextUserKey, username)
		c.Next()
	}
}
