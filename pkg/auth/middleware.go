package auth

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shishobooks/folio/pkg/errcodes"
)

const (
	contextKeyClaims = "claims"
	// The reader web view loads pages with a plain GET, so the token may also
	// come in the query string.
	tokenQueryParam = "access_token"
)

// Middleware provides authentication middleware.
type Middleware struct {
	authService *Service
}

func NewMiddleware(authService *Service) *Middleware {
	return &Middleware{authService: authService}
}

// Authenticate validates the bearer token (or access_token query param) and
// stores its claims on the context. Requests without a valid token get a 401.
func (m *Middleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := tokenFromRequest(c)
		if token == "" {
			return errcodes.Unauthorized("Authentication required")
		}

		claims, err := m.authService.ValidateToken(token)
		if err != nil {
			return errcodes.Unauthorized("Invalid or expired token")
		}

		c.Set(contextKeyClaims, claims)
		return next(c)
	}
}

// RequireScope returns middleware that checks the token carries scope. Must be
// used after Authenticate.
func (m *Middleware) RequireScope(scope string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := ClaimsFromContext(c)
			if claims == nil {
				return errcodes.Unauthorized("Authentication required")
			}
			if !claims.HasScope(scope) {
				return errcodes.Forbidden("Using a token without the " + scope + " scope")
			}
			return next(c)
		}
	}
}

// ClaimsFromContext returns the claims stored by Authenticate, or nil.
func ClaimsFromContext(c echo.Context) *JWTClaims {
	claims, _ := c.Get(contextKeyClaims).(*JWTClaims)
	return claims
}

func tokenFromRequest(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if scheme, token, ok := strings.Cut(header, " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}
	return c.QueryParam(tokenQueryParam)
}
