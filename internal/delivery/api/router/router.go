// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"strconv"

	"miniblog/config"
	"miniblog/internal/delivery/api/middleware"
	"miniblog/internal/delivery/api/router/handler"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
)

// uploadOverhead leaves room for multipart boundaries and form fields around the file part.
const uploadOverhead = 64 << 10

// UploadPath is the only route allowed past the global request body limit.
const UploadPath = "/media/upload"

type RouterParams struct {
	fx.In

	AuthHandler    *handler.AuthHandler
	PostHandler    *handler.PostHandler
	MediaHandler   *handler.MediaHandler
	AuthMiddleware *middleware.AuthMiddleware
	Registry       *prometheus.Registry
	Config         *config.Config
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler    *handler.AuthHandler
	postHandler    *handler.PostHandler
	mediaHandler   *handler.MediaHandler
	authMiddleware *middleware.AuthMiddleware
	registry       *prometheus.Registry
	config         *config.Config
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:    params.AuthHandler,
		postHandler:    params.PostHandler,
		mediaHandler:   params.MediaHandler,
		authMiddleware: params.AuthMiddleware,
		registry:       params.Registry,
		config:         params.Config,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	if r.config.Metrics != nil && r.config.Metrics.Enabled {
		e.GET(r.config.Metrics.Path, echo.WrapHandler(promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})))
	}

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.authHandler.Register)
		authGroup.POST("/login", r.authHandler.Login)
		authGroup.POST("/refresh", r.authHandler.Refresh)
		authGroup.POST("/logout", r.authHandler.Logout)

		authGroup.GET("/me", r.authHandler.Me, r.authMiddleware.Authenticate)
		authGroup.GET("/sessions", r.authHandler.Sessions, r.authMiddleware.Authenticate)
		authGroup.POST("/logout-all", r.authHandler.LogoutAll, r.authMiddleware.Authenticate)
	}

	// Public reads
	e.GET("/posts", r.postHandler.ListPublished)
	e.GET("/posts/:slug", r.postHandler.GetPublished)
	e.GET(r.config.Media.PublicPrefix+"/:key", r.mediaHandler.Serve)

	// Authoring routes require authentication
	postsGroup := e.Group("/posts", r.authMiddleware.Authenticate)
	{
		postsGroup.POST("", r.postHandler.Create)
		postsGroup.PATCH("/:id", r.postHandler.Update)
		postsGroup.DELETE("/:id", r.postHandler.Delete)
		postsGroup.POST("/publish/:id", r.postHandler.Publish)
		postsGroup.GET("/me/list", r.postHandler.ListMine)
		postsGroup.GET("/me/:id", r.postHandler.GetMine)
	}

	uploadLimit := echomiddleware.BodyLimit(strconv.FormatInt(r.config.Media.MaxUploadBytes+uploadOverhead, 10) + "B")
	e.POST(UploadPath, r.mediaHandler.Upload, r.authMiddleware.Authenticate, uploadLimit)
}
