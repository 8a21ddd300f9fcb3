package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/medvault/dicom-server/internal/api/http/handler"
	"github.com/medvault/dicom-server/internal/api/http/middleware"
	"github.com/medvault/dicom-server/internal/logger"
	"github.com/medvault/dicom-server/internal/model"
)

// Router wires HTTP handlers and middleware for the service.
type Router struct {
	authService    handler.AuthService
	dicomService   handler.DICOMService
	tokenManager   model.TokenManager
	userStore      model.UserStore
	allowedOrigins []string
	logger         *logger.Logger
}

// New creates a new Router instance.
func New(
	authService handler.AuthService,
	dicomService handler.DICOMService,
	tokenManager model.TokenManager,
	userStore model.UserStore,
	allowedOrigins []string,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:    authService,
		dicomService:   dicomService,
		tokenManager:   tokenManager,
		userStore:      userStore,
		allowedOrigins: allowedOrigins,
		logger:         logger,
	}
}

// Register builds the gin engine with all routes and middleware.
// Registration and login are the only unauthenticated entry points.
func (r *Router) Register() *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.NewLogging(r.logger).Handle())
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     r.allowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	authHandler := handler.NewAuth(r.authService, r.logger)
	dicomHandler := handler.NewDICOM(r.dicomService, r.logger)
	authenticate := middleware.NewAuthenticate(r.tokenManager, r.userStore, r.logger)

	auth := engine.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	protected := engine.Group("/")
	protected.Use(authenticate.Handle())
	{
		protected.POST("/upload", dicomHandler.Upload)
		protected.GET("/dicoms", dicomHandler.List)
		protected.GET("/dicoms/:id", dicomHandler.Get)
		protected.GET("/dicoms/:id/download", dicomHandler.Download)
		protected.DELETE("/dicoms/:id", dicomHandler.Delete)
	}

	return engine
}
