package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"miniblog/config"
	deliverycontext "miniblog/internal/delivery/context"
	"miniblog/internal/domain/entity"
	domainerrors "miniblog/internal/domain/errors"
	"miniblog/internal/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newAccessLogEcho wires the request ID and access log middleware in server order.
func newAccessLogEcho(t *testing.T, buf *bytes.Buffer) *echo.Echo {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	cfg := &config.Config{}
	cfg.Env.Debug = true

	e := echo.New()
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		var appErr domainerrors.AppError
		if errors.As(err, &appErr) {
			_ = c.NoContent(appErr.HTTPCode())

			return
		}
		e.DefaultHTTPErrorHandler(err, c)
	}
	e.Use(NewRequestIDMiddleware(logger).Process)
	e.Use(NewLoggerMiddleware(logger, cfg).Handle)

	return e
}

func decodeAccessLog(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	return entry
}

func TestLoggerMiddleware_LogsRenderedStatus(t *testing.T) {
	tests := []struct {
		name      string
		handler   echo.HandlerFunc
		wantCode  int
		wantLevel string
	}{
		{
			name:      "success",
			handler:   func(c echo.Context) error { return c.NoContent(http.StatusNoContent) },
			wantCode:  http.StatusNoContent,
			wantLevel: "INFO",
		},
		{
			name:      "echo http error",
			handler:   func(echo.Context) error { return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token") },
			wantCode:  http.StatusUnauthorized,
			wantLevel: "WARN",
		},
		{
			name:      "wrapped app error",
			handler:   func(echo.Context) error { return errors.Wrap(domainerrors.ErrTokenRevoked, "refresh") },
			wantCode:  http.StatusUnauthorized,
			wantLevel: "WARN",
		},
		{
			name:      "unclassified error",
			handler:   func(echo.Context) error { return errors.New("boom") },
			wantCode:  http.StatusInternalServerError,
			wantLevel: "ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			e := newAccessLogEcho(t, &buf)
			e.GET("/api/v1/sessions", tt.handler)

			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/sessions", nil))

			require.Equal(t, tt.wantCode, rec.Code)
			entry := decodeAccessLog(t, &buf)
			assert.EqualValues(t, tt.wantCode, entry["status"])
			assert.Equal(t, tt.wantLevel, entry["level"])
			assert.Equal(t, "/api/v1/sessions", entry["route"])
			assert.Equal(t, rec.Header().Get(deliverycontext.HeaderXRequestID), entry["request_id"])
		})
	}
}

func TestLoggerMiddleware_LogsCallerIdentity(t *testing.T) {
	var buf bytes.Buffer
	e := newAccessLogEcho(t, &buf)

	userID := uuid.New()
	guard := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := deliverycontext.WithIdentity(c.Request().Context(), entity.Identity{UserID: userID, Role: entity.RoleUser})
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
	e.DELETE("/api/v1/sessions", func(echo.Context) error { return domainerrors.ErrTokenRevoked }, guard)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/sessions", nil))

	entry := decodeAccessLog(t, &buf)
	assert.Equal(t, userID.String(), entry["user_id"])
	assert.EqualValues(t, http.StatusUnauthorized, entry["status"])
}

func TestLoggerMiddleware_DisabledPassesErrorThrough(t *testing.T) {
	var buf bytes.Buffer
	m := NewLoggerMiddleware(slog.New(slog.NewJSONHandler(&buf, nil)), &config.Config{})

	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	err := m.Handle(func(echo.Context) error { return domainerrors.ErrInvalidToken })(c)

	assert.ErrorIs(t, err, domainerrors.ErrInvalidToken)
	assert.Zero(t, buf.Len())
}

func TestRequestIDMiddleware_Process(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
		wantKeep bool
	}{
		{name: "keeps well formed client id", incoming: "trace-01HZX.abc:7", wantKeep: true},
		{name: "mints when absent", incoming: ""},
		{name: "replaces header injection attempt", incoming: "abc\" level=ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seenCtxID string
			var seenLogger *slog.Logger
			e := echo.New()
			e.Use(NewRequestIDMiddleware(slog.New(slog.DiscardHandler)).Process)
			e.GET("/", func(c echo.Context) error {
				seenCtxID = deliverycontext.GetRequestIDFromContext(c.Request().Context())
				seenLogger = deliverycontext.GetLogger(c.Request().Context())

				return c.NoContent(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.incoming != "" {
				req.Header.Set(deliverycontext.HeaderXRequestID, tt.incoming)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			got := rec.Header().Get(deliverycontext.HeaderXRequestID)
			require.NotEmpty(t, got)
			assert.Equal(t, got, seenCtxID)
			assert.NotNil(t, seenLogger)
			if tt.wantKeep {
				assert.Equal(t, tt.incoming, got)
			} else {
				_, err := uuid.Parse(got)
				assert.NoError(t, err)
			}
		})
	}
}
