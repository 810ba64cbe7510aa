package token

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// AutoRefreshMiddleware authenticates the request from the access cookie and
// transparently rotates an expired pair via the refresh cookie. The verified
// {userID, role} claims end up in the echo context; downstream handlers never
// touch the token themselves.
func (t *TokenService) AutoRefreshMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		newAccess, newRefresh, _, err := t.CheckCookie(c)
		if err != nil {
			return err
		}

		if newRefresh != "" {
			t.setCookies(c, newAccess, newRefresh)
		}
		return next(c)
	}
}

func (t *TokenService) AutoRefreshMiddlewareAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		newAccess, newRefresh, role, err := t.CheckCookie(c)
		if err != nil {
			return err
		}
		if role != "admin" {
			return echo.NewHTTPError(http.StatusForbidden, "you don't have enough rights")
		}

		if newRefresh != "" {
			t.setCookies(c, newAccess, newRefresh)
		}
		return next(c)
	}
}

func (t *TokenService) setCookies(c echo.Context, access, refresh string) {
	c.SetCookie(CreateCookie("accessToken", access, "/", time.Now().Add(AccessTTL)))
	c.SetCookie(CreateCookie("refreshToken", refresh, "/", time.Now().Add(RefreshTTL)))
}
