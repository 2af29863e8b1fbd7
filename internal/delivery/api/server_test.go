package api

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"miniblog/config"
	"miniblog/internal/delivery/api/cookie"
	apimiddleware "miniblog/internal/delivery/api/middleware"
	"miniblog/internal/delivery/api/router"
	"miniblog/internal/delivery/api/router/handler"
	"miniblog/internal/infra/auth"
	"miniblog/internal/infra/metrics"
	"miniblog/internal/infra/persistence/memory"
	"miniblog/internal/infra/pubsub"
	"miniblog/internal/infra/storage"
	"miniblog/internal/usecase/impl"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
	Meta struct {
		RequestID string `json:"request_id"`
	} `json:"meta"`
}

func newTestConfig() *config.Config {
	cfg := &config.Config{
		SecretKey: config.SecretKeyConfig{Access: "access-test-secret", Refresh: "refresh-test-secret"},
		Auth:      &config.AuthConfig{BcryptCost: 4},
		Metrics:   &config.MetricsConfig{Enabled: true},
	}
	cfg.ApplyDefaults()

	return cfg
}

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	cfg := newTestConfig()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tokens, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	registry := metrics.NewRegistry()
	sessionMetrics, err := metrics.NewSessionMetrics(registry)
	require.NoError(t, err)

	bucket := memblob.OpenBucket(nil)
	t.Cleanup(func() { _ = bucket.Close() })

	store := memory.NewStore()
	txManager := memory.NewTransactionManager(store)

	authUC := impl.NewAuthService(impl.AuthServiceParams{
		TxManager:        txManager,
		UserRepo:         memory.NewUserRepository(store),
		RefreshTokenRepo: memory.NewRefreshTokenRepository(store),
		Hasher:           auth.NewBcryptHasher(cfg),
		TokenService:     tokens,
		Publisher:        pubsub.NewNoopPublisher(logger),
		Metrics:          sessionMetrics,
		Config:           cfg,
		Logger:           logger,
	})
	postUC := impl.NewPostService(impl.PostServiceParams{
		TxManager: txManager,
		PostRepo:  memory.NewPostRepository(store),
		Logger:    logger,
	})
	mediaUC := impl.NewMediaService(impl.MediaServiceParams{
		MediaRepo: memory.NewMediaRepository(store),
		Storage:   storage.NewBlobStorage(bucket),
		Config:    cfg,
		Logger:    logger,
	})

	return NewEcho(cfg, logger, router.RouterParams{
		AuthHandler:    handler.NewAuthHandler(authUC, cookie.NewRefreshCookie(cfg)),
		PostHandler:    handler.NewPostHandler(postUC),
		MediaHandler:   handler.NewMediaHandler(mediaUC),
		AuthMiddleware: apimiddleware.NewAuthMiddleware(authUC),
		Registry:       registry,
		Config:         cfg,
	})
}

type request struct {
	method      string
	path        string
	body        io.Reader
	contentType string
	bearer      string
	cookie      *http.Cookie
}

func do(t *testing.T, e *echo.Echo, r request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	req := httptest.NewRequest(r.method, r.path, r.body)
	if r.body != nil {
		contentType := r.contentType
		if contentType == "" {
			contentType = echo.MIMEApplicationJSON
		}
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	if r.bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+r.bearer)
	}
	if r.cookie != nil {
		req.AddCookie(r.cookie)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}

	return rec, env
}

func refreshCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "refresh_token" {
			return ck
		}
	}
	t.Fatal("refresh_token cookie not set")

	return nil
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()

	raw, err := json.Marshal(v)
	require.NoError(t, err)

	return bytes.NewReader(raw)
}

func registerAndLogin(t *testing.T, e *echo.Echo) (string, *http.Cookie) {
	t.Helper()

	rec, _ := do(t, e, request{method: http.MethodPost, path: "/auth/register", body: jsonBody(t, map[string]string{
		"email": "alice@example.com", "password": "correct horse", "displayName": "Alice",
	})})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env := do(t, e, request{method: http.MethodPost, path: "/auth/login", body: jsonBody(t, map[string]string{
		"email": "alice@example.com", "password": "correct horse",
	})})
	require.Equal(t, http.StatusOK, rec.Code)

	var login struct {
		AccessToken string `json:"accessToken"`
		User        struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &login))
	assert.Equal(t, "alice@example.com", login.User.Email)
	assert.NotContains(t, string(env.Data), "refreshToken")

	return login.AccessToken, refreshCookie(t, rec)
}

func TestServer_SessionLifecycle(t *testing.T) {
	e := newTestServer(t)
	access, first := registerAndLogin(t, e)

	rec, env := do(t, e, request{method: http.MethodGet, path: "/auth/me", bearer: access})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"role":"USER"`)

	rec, env = do(t, e, request{method: http.MethodPost, path: "/auth/refresh", cookie: first})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), "accessToken")
	second := refreshCookie(t, rec)
	assert.NotEqual(t, first.Value, second.Value)

	// Replaying the rotated cookie is rejected.
	rec, env = do(t, e, request{method: http.MethodPost, path: "/auth/refresh", cookie: first})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "TOKEN_REVOKED", env.Error.Code)

	rec, env = do(t, e, request{method: http.MethodGet, path: "/auth/sessions", bearer: access})
	require.Equal(t, http.StatusOK, rec.Code)
	var sessions []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &sessions))
	assert.Len(t, sessions, 1)

	rec, _ = do(t, e, request{method: http.MethodPost, path: "/auth/logout", cookie: second})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, -1, refreshCookie(t, rec).MaxAge)

	rec, _ = do(t, e, request{method: http.MethodPost, path: "/auth/logout"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env = do(t, e, request{method: http.MethodPost, path: "/auth/refresh"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_TOKEN", env.Error.Code)
}

func TestServer_AuthErrors(t *testing.T) {
	e := newTestServer(t)
	registerAndLogin(t, e)

	rec, env := do(t, e, request{method: http.MethodPost, path: "/auth/login", body: jsonBody(t, map[string]string{
		"email": "alice@example.com", "password": "wrong password",
	})})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", env.Error.Code)

	rec, env = do(t, e, request{method: http.MethodPost, path: "/auth/register", body: jsonBody(t, map[string]string{
		"email": "alice@example.com", "password": "correct horse", "displayName": "Alice",
	})})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "EMAIL_ALREADY_IN_USE", env.Error.Code)

	rec, env = do(t, e, request{method: http.MethodPost, path: "/auth/register", body: jsonBody(t, map[string]string{
		"email": "not-an-email", "password": "short",
	})})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Contains(t, string(env.Error.Details), "displayName")

	rec, env = do(t, e, request{method: http.MethodGet, path: "/auth/me", bearer: "garbage"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)
	assert.Empty(t, env.Error.Details)

	rec, _ = do(t, e, request{method: http.MethodGet, path: "/auth/me"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestServer_Posts(t *testing.T) {
	e := newTestServer(t)
	access, _ := registerAndLogin(t, e)

	rec, env := do(t, e, request{method: http.MethodPost, path: "/posts", bearer: access, body: jsonBody(t, map[string]string{
		"title": "İlk Yazım", "content": `{"type":"doc"}`,
	})})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "DRAFT", created.Status)

	rec, _ = do(t, e, request{method: http.MethodPost, path: "/posts", body: jsonBody(t, map[string]string{"title": "x", "content": "y"})})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, env = do(t, e, request{method: http.MethodGet, path: "/posts"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, string(env.Data))

	rec, env = do(t, e, request{method: http.MethodPost, path: "/posts/publish/" + created.ID, bearer: access})
	require.Equal(t, http.StatusOK, rec.Code)
	var published struct {
		Slug string `json:"slug"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &published))
	assert.True(t, strings.HasPrefix(published.Slug, "ilk-yazim-"), published.Slug)

	rec, env = do(t, e, request{method: http.MethodGet, path: "/posts/" + published.Slug})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), created.ID)

	rec, env = do(t, e, request{method: http.MethodGet, path: "/posts"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"displayName":"Alice"`)

	rec, env = do(t, e, request{method: http.MethodGet, path: "/posts/me/list", bearer: access})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), created.ID)

	rec, env = do(t, e, request{method: http.MethodPatch, path: "/posts/not-a-uuid", bearer: access, body: jsonBody(t, map[string]string{"title": "x"})})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "POST_NOT_FOUND", env.Error.Code)

	rec, _ = do(t, e, request{method: http.MethodDelete, path: "/posts/" + created.ID, bearer: access})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env = do(t, e, request{method: http.MethodGet, path: "/posts/" + published.Slug})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "POST_NOT_FOUND", env.Error.Code)
}

func multipartImage(t *testing.T, contentType string, data []byte) (io.Reader, string) {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="pixel.png"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return &body, writer.FormDataContentType()
}

func TestServer_MediaUpload(t *testing.T) {
	e := newTestServer(t)
	access, _ := registerAndLogin(t, e)

	var img bytes.Buffer
	require.NoError(t, png.Encode(&img, image.NewRGBA(image.Rect(0, 0, 4, 4))))

	body, contentType := multipartImage(t, "image/png", img.Bytes())
	rec, env := do(t, e, request{method: http.MethodPost, path: "/media/upload", bearer: access, body: body, contentType: contentType})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var uploaded struct {
		URL   string `json:"url"`
		Width *int   `json:"width"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &uploaded))
	require.NotNil(t, uploaded.Width)
	assert.Equal(t, 4, *uploaded.Width)

	rec, _ = do(t, e, request{method: http.MethodGet, path: uploaded.URL})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))
	assert.Equal(t, img.Bytes(), rec.Body.Bytes())
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "sandbox")

	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg"><script>alert(1)</script></svg>`)
	body, contentType = multipartImage(t, "image/svg+xml", svg)
	rec, env = do(t, e, request{method: http.MethodPost, path: "/media/upload", bearer: access, body: body, contentType: contentType})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "MEDIA_INVALID_TYPE", env.Error.Code)

	body, contentType = multipartImage(t, "text/plain", []byte("hello"))
	rec, env = do(t, e, request{method: http.MethodPost, path: "/media/upload", bearer: access, body: body, contentType: contentType})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "MEDIA_INVALID_TYPE", env.Error.Code)

	rec, env = do(t, e, request{method: http.MethodPost, path: "/media/upload", bearer: access, body: jsonBody(t, map[string]string{})})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "MEDIA_FILE_REQUIRED", env.Error.Code)

	rec, env = do(t, e, request{method: http.MethodGet, path: "/uploads/missing.png"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestServer_HealthAndMetrics(t *testing.T) {
	e := newTestServer(t)
	registerAndLogin(t, e)

	rec, env := do(t, e, request{method: http.MethodGet, path: "/health"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, string(env.Data))

	rec, _ = do(t, e, request{method: http.MethodGet, path: "/metrics"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `miniblog_auth_logins_total{outcome="success"} 1`)

	rec, env = do(t, e, request{method: http.MethodGet, path: "/nope"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestServer_BodyLimit(t *testing.T) {
	e := newTestServer(t)

	huge := `{"email":"` + strings.Repeat("a", 200<<10) + `@example.com"}`
	rec, env := do(t, e, request{method: http.MethodPost, path: "/auth/login", body: strings.NewReader(huge)})
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "PAYLOAD_TOO_LARGE", env.Error.Code)
}
