package accessgate

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const identityKey = "accessgate.identity"

// RequireAuth rejects requests without a valid token with 401 and stores the Identity in the gin context.
// The token is read from the Authorization Bearer header or, for WebSocket upgrades, the token query parameter.
func (g *Gate) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := g.Resolve(tokenFrom(c))
		if err != nil {
			message := ErrInvalidToken.Error()
			if errors.Is(err, ErrMissingToken) {
				message = ErrMissingToken.Error()
			}

			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": message})
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// RequireRole rejects callers without the role with 403. It must run after RequireAuth.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": ErrMissingToken.Error()})
			return
		}

		if identity.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": ErrAdminRequired.Error()})
			return
		}

		c.Next()
	}
}

// IdentityFrom returns the Identity stored by RequireAuth.
func IdentityFrom(c *gin.Context) (Identity, bool) {
	value, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}

	identity, ok := value.(Identity)

	return identity, ok
}

func tokenFrom(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if scheme, token, found := strings.Cut(header, " "); found && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}

	return c.Query("token")
}
