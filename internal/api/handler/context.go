package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/chatapp/realtime-chat/internal/api/middleware"
	"github.com/chatapp/realtime-chat/internal/core/domain"
)

// currentAccount returns the account attached by the Auth guard. A missing
// identity means the route was mounted without the guard.
func currentAccount(c echo.Context) (domain.Account, error) {
	a, ok := middleware.AccountFrom(c.Request().Context())
	if !ok || a.ID == "" {
		return domain.Account{}, domain.ErrAuthFailed
	}
	return a, nil
}
