package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/registrar-hub/registrar-analytics-api/internal/models"
	appErrors "github.com/registrar-hub/registrar-analytics-api/pkg/errors"
	"github.com/registrar-hub/registrar-analytics-api/pkg/response"
)

// ContextIdentityKey is the gin context key storing the caller identity.
const ContextIdentityKey = "identity"

// IdentityClaims is the token payload minted by the upstream gateway.
// Subject carries the actor id (student number, professor id or staff
// account) and Role one of the recognised roles.
type IdentityClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Identity requires a valid HS256 bearer token from the gateway and
// stores the resulting actor identity on the request context.
func Identity(secret, audience string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		claims, err := parseIdentityToken(parts[1], secret, audience)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextIdentityKey, models.RequestContext{
			ActorID: claims.Subject,
			Role:    claims.Role,
		})
		c.Next()
	}
}

func parseIdentityToken(raw, secret, audience string) (*IdentityClaims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if audience != "" {
		opts = append(opts, jwt.WithAudience(audience))
	}

	claims := &IdentityClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, opts...)
	if err != nil || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired token")
	}
	switch claims.Role {
	case models.RoleAdmin, models.RoleProfessor, models.RoleStudent:
	default:
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "unknown role in token")
	}
	if claims.Subject == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "token missing subject")
	}
	return claims, nil
}

// CurrentIdentity returns the identity stored by Identity.
func CurrentIdentity(c *gin.Context) (models.RequestContext, bool) {
	value, exists := c.Get(ContextIdentityKey)
	if !exists {
		return models.RequestContext{}, false
	}
	rctx, ok := value.(models.RequestContext)
	return rctx, ok
}

// RequireRoles blocks callers whose role is not in the allowed set.
// Identity must run first.
func RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		rctx, ok := CurrentIdentity(c)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if _, ok := allowed[rctx.Role]; !ok {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
