package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"workflowmonk/internal/domain/wizard"
	"workflowmonk/internal/pkg/jwt"
	"workflowmonk/internal/pkg/response"
)

// StateKey is the gin context key holding the decoded wizard.State.
const StateKey = "wizard_state"

// StateToken decodes the bearer state token into the request context.
func StateToken(tokens *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" {
			response.Abort(c, http.StatusUnauthorized, "TOKEN_MISSING", "Missing Authorization header")
			return
		}

		if !strings.HasPrefix(h, "Bearer ") {
			response.Abort(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Invalid Authorization header")
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		if tokenStr == "" {
			response.Abort(c, http.StatusUnauthorized, "TOKEN_MISSING", "Empty token")
			return
		}

		claims, err := tokens.ValidateToken(tokenStr)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired state token")
			return
		}

		c.Set(StateKey, claims.State)
		c.Next()
	}
}

// StateFrom returns the state placed by StateToken.
func StateFrom(c *gin.Context) (wizard.State, bool) {
	v, ok := c.Get(StateKey)
	if !ok {
		return wizard.State{}, false
	}
	s, ok := v.(wizard.State)
	return s, ok
}
