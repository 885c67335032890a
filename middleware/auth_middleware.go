package middleware

import (
	"fmt"
	"strings"

	"github.com/atmacsn/agriadmin/apperror"
	"github.com/atmacsn/agriadmin/auth"
	"github.com/atmacsn/agriadmin/metrics"
	"github.com/atmacsn/agriadmin/models"
	"github.com/atmacsn/agriadmin/utils"
	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// Rule grants the listed roles access to one route. Routes without a rule
// are public.
type Rule struct {
	Method string
	Path   string
	Roles  []models.Role
}

type Permissions map[string][]models.Role

func NewPermissions(rules []Rule) Permissions {
	p := make(Permissions, len(rules))
	for _, r := range rules {
		p[permissionKey(r.Method, r.Path)] = r.Roles
	}
	return p
}

// Lookup returns the roles allowed on a route template and whether the route
// is protected at all.
func (p Permissions) Lookup(method, path string) ([]models.Role, bool) {
	roles, ok := p[permissionKey(method, path)]
	return roles, ok
}

func permissionKey(method, path string) string {
	return strings.ToUpper(method) + " " + path
}

// Gate admits a request to a protected route only with a bearer access token
// that is not revoked, verifies, and carries one of the route's roles.
type Gate struct {
	tokens  *auth.TokenService
	ledger  auth.Ledger
	perms   Permissions
	metrics *metrics.Metrics
}

func NewGate(tokens *auth.TokenService, ledger auth.Ledger, perms Permissions, m *metrics.Metrics) *Gate {
	return &Gate{tokens: tokens, ledger: ledger, perms: perms, metrics: m}
}

func (g *Gate) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		roles, protected := g.perms.Lookup(c.Request.Method, c.FullPath())
		if !protected {
			c.Next()
			return
		}

		token, ok := BearerToken(c)
		if !ok {
			g.reject(c, "missing_token", apperror.Unauthorized("Missing or invalid token format"))
			return
		}

		revoked, err := g.ledger.IsRevoked(c.Request.Context(), token)
		if err != nil {
			utils.Fail(c, apperror.Internal(err))
			return
		}
		if revoked {
			g.reject(c, "blacklisted", apperror.Unauthorized("Token is blacklisted"))
			return
		}

		claims, err := g.tokens.Verify(token, auth.AccessToken)
		if err != nil {
			g.reject(c, "invalid_token", apperror.Forbidden("Invalid or expired token"))
			return
		}

		principal := claims.Principal()
		if !roleAllowed(principal.Role, roles) {
			g.reject(c, "forbidden_role", apperror.Forbidden(fmt.Sprintf("Access forbidden for role %s", principal.Role)))
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

func (g *Gate) reject(c *gin.Context, reason string, err error) {
	g.metrics.Rejected(reason)
	utils.Fail(c, err)
}

func roleAllowed(role models.Role, allowed []models.Role) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

// BearerToken extracts the token of an "Authorization: Bearer <token>" header.
func BearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" || strings.Contains(token, " ") {
		return "", false
	}
	return token, true
}

func PrincipalFrom(c *gin.Context) (auth.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return auth.Principal{}, false
	}
	p, ok := v.(auth.Principal)
	return p, ok
}

// AuthedHandler is a handler that runs behind the gate.
type AuthedHandler func(c *gin.Context, p auth.Principal)

// WithPrincipal adapts an AuthedHandler to gin. It refuses to run the handler
// when the gate did not admit the request.
func WithPrincipal(h AuthedHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		if !ok {
			utils.Fail(c, apperror.Unauthorized("Missing or invalid token format"))
			return
		}
		h(c, p)
	}
}
