// Package handler contains the HTTP handlers for the application.
package handler

import (
	"net/http"

	"miniblog/internal/delivery/api/cookie"
	"miniblog/internal/delivery/api/response"
	deliverycontext "miniblog/internal/delivery/context"
	"miniblog/internal/domain/entity"
	domainerrors "miniblog/internal/domain/errors"
	"miniblog/internal/errors"
	"miniblog/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type registerRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	DisplayName string `json:"displayName" validate:"required,min=2,max=50"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	AccessToken string              `json:"accessToken"`
	User        *usecase.UserOutput `json:"user"`
}

type accessTokenResponse struct {
	AccessToken string `json:"accessToken"`
}

type identityResponse struct {
	ID    uuid.UUID   `json:"id"`
	Email string      `json:"email"`
	Role  entity.Role `json:"role"`
}

// AuthHandler exposes the session manager over HTTP. The refresh token travels only in the cookie.
type AuthHandler struct {
	uc     usecase.AuthUsecase
	cookie *cookie.RefreshCookie
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(uc usecase.AuthUsecase, refreshCookie *cookie.RefreshCookie) *AuthHandler {
	return &AuthHandler{uc: uc, cookie: refreshCookie}
}

// Register handles the registration request.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.uc.Register(c.Request().Context(), usecase.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, user)
}

// Login handles the login request and sets the refresh cookie.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	output, err := h.uc.Login(c.Request().Context(), usecase.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		return errors.WithStack(err)
	}

	h.cookie.Set(c, output.RefreshToken)

	return response.Success(c, http.StatusOK, loginResponse{AccessToken: output.AccessToken, User: output.User})
}

// Refresh rotates the refresh cookie and returns a new access token.
func (h *AuthHandler) Refresh(c echo.Context) error {
	presented := h.cookie.Read(c)
	if presented == "" {
		return domainerrors.ErrInvalidToken
	}

	pair, err := h.uc.Refresh(c.Request().Context(), presented)
	if err != nil {
		return errors.WithStack(err)
	}

	h.cookie.Set(c, pair.RefreshToken)

	return response.Success(c, http.StatusOK, accessTokenResponse{AccessToken: pair.AccessToken})
}

// Logout revokes the presented refresh token and always clears the cookie.
func (h *AuthHandler) Logout(c echo.Context) error {
	h.uc.Logout(c.Request().Context(), h.cookie.Read(c))
	h.cookie.Clear(c)

	return response.Success(c, http.StatusOK, map[string]bool{"ok": true})
}

// LogoutAll revokes every session of the caller and clears the cookie.
func (h *AuthHandler) LogoutAll(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}

	revoked, err := h.uc.LogoutAll(c.Request().Context(), identity)
	if err != nil {
		return errors.WithStack(err)
	}

	h.cookie.Clear(c)

	return response.Success(c, http.StatusOK, map[string]int64{"revoked": revoked})
}

// Me returns the identity carried by the access token.
func (h *AuthHandler) Me(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, identityResponse{
		ID:    identity.UserID,
		Email: identity.Email,
		Role:  identity.Role,
	})
}

// Sessions lists the caller's live sessions.
func (h *AuthHandler) Sessions(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}

	sessions, err := h.uc.ListSessions(c.Request().Context(), identity)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, sessions)
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"})
}

// identityFrom returns the identity stored by the authentication guard.
func identityFrom(c echo.Context) (entity.Identity, error) {
	identity, ok := deliverycontext.IdentityFrom(c.Request().Context())
	if !ok {
		return entity.Identity{}, domainerrors.ErrUnauthorized
	}

	return identity, nil
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("malformed request body")
	}

	return c.Validate(req)
}
