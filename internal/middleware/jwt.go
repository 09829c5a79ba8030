package middleware // reusable HTTP middleware for the checkout API

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// JWTAuth returns an Echo middleware that gates checkout behind a
// valid Bearer access token.  The service only reads tokens, it never
// issues them: login lives in the external auth service.  When the
// token is missing or invalid the response carries a login_required
// hint plus the path the client should return to after logging in,
// so the host page can redirect and come back to the same checkout.
// On success the token's subject and email claims are stored in the
// request context under "user_id" and "email".
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return loginRequired(c)
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			// Parse with HS256 only; any other signing method is
			// rejected.
			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return loginRequired(c)
			}
			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return loginRequired(c)
			}
			c.Set("user_id", claims["sub"])
			c.Set("email", claims["email"])
			return next(c)
		}
	}
}

// loginRequired answers 401 with the return context for the login
// redirect.
func loginRequired(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{
		"error":     "login_required",
		"return_to": c.Request().URL.RequestURI(),
	})
}
