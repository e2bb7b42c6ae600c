package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct{}

// me describes the token used for the request.
func (h *handler) me(c echo.Context) error {
	claims := ClaimsFromContext(c)

	resp := map[string]interface{}{
		"subject": claims.Subject,
		"scopes":  claims.Scopes,
	}
	if claims.ExpiresAt != nil {
		resp["expires_at"] = claims.ExpiresAt.Time
	}
	return errors.WithStack(c.JSON(http.StatusOK, resp))
}
