package auth

import (
	"net/http"
	"strings"

	"github.com/birlikkoshan/todo-tracker/internal/logging"

	"github.com/gin-gonic/gin"
)

const contextKeyClaims = "claims"

// UserIDFromContext returns the current user ID set by RequireAuth. Empty if not set.
func UserIDFromContext(c *gin.Context) string {
	return ClaimsFromContext(c).UserID()
}

// ClaimsFromContext returns the verified token claims set by RequireAuth.
func ClaimsFromContext(c *gin.Context) Claims {
	v, ok := c.Get(contextKeyClaims)
	if !ok {
		return Claims{}
	}
	claims, _ := v.(Claims)
	return claims
}

// RequireAuth returns a middleware that checks the bearer token and sets the
// current user in context. If missing, invalid or revoked, responds with 401.
// revoked and log may be nil.
func RequireAuth(tokens *TokenIssuer, revoked *Revocations, log logging.Logger) gin.HandlerFunc {
	if log == nil {
		log = logging.Nop()
	}
	return func(c *gin.Context) {
		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		claims, err := tokens.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		if revoked != nil && claims.ID != "" {
			gone, err := revoked.IsRevoked(c.Request.Context(), claims.ID)
			switch {
			case err != nil:
				// a Redis outage must not lock every user out
				log.Warn(c.Request.Context(), "revocation check unavailable", "error", err, "user_id", claims.UserID())
			case gone:
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": ErrRevokedToken.Error()})
				return
			}
		}
		c.Set(contextKeyClaims, claims)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
