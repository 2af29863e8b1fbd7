package middleware

import (
	"strings"

	deliverycontext "miniblog/internal/delivery/context"
	domainerrors "miniblog/internal/domain/errors"
	"miniblog/internal/usecase"

	"github.com/labstack/echo/v4"
)

const bearerPrefix = "Bearer "

// AuthMiddleware guards routes with the access token and exposes the caller identity to handlers.
type AuthMiddleware struct {
	authUC usecase.AuthUsecase
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(authUC usecase.AuthUsecase) *AuthMiddleware {
	return &AuthMiddleware{authUC: authUC}
}

// Authenticate verifies the bearer access token and stores the identity in the request context.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			return domainerrors.ErrUnauthorized
		}

		identity, err := m.authUC.VerifyAccessToken(strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix)))
		if err != nil {
			return err
		}

		ctx := deliverycontext.WithIdentity(c.Request().Context(), *identity)
		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}
