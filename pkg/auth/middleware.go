package auth

import (
	"strings"

	"github.com/labstack/echo/v4"

	apierr "github.com/tigrlab/niviz-rater/pkg/api/types/errors"
)

// RaterContextKey is where the middleware stores the verified rater name.
const RaterContextKey = "rater"

// BearerAuth requires a valid bearer token on each request.
func BearerAuth(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			tokenString, found := strings.CutPrefix(header, "Bearer ")
			if !found {
				return apierr.Unauthorized("set a bearer token in the Authorization header", nil)
			}

			rater, err := Verify(secret, tokenString)
			if err != nil {
				return apierr.Unauthorized("token is invalid or expired", err)
			}

			c.Set(RaterContextKey, rater)
			return next(c)
		}
	}
}
