package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/tasknestle/tasknestle/internal/api/handler"
	"github.com/tasknestle/tasknestle/internal/api/middleware"
	"github.com/tasknestle/tasknestle/internal/core/domain"
	"github.com/tasknestle/tasknestle/internal/core/ports"
	"github.com/tasknestle/tasknestle/internal/infrastructure/http/handlers"
)

// Services are the use cases exposed over HTTP.
type Services struct {
	Auth        ports.AuthService
	Users       ports.UserService
	Projects    ports.ProjectService
	Tasks       ports.TaskService
	Comments    ports.CommentService
	Invitations ports.InvitationService
}

// Options tunes the transport around the routes.
type Options struct {
	Log         zerolog.Logger
	CORSOrigins []string
	Health      *handlers.HealthHandler
	// Registerer receives the HTTP metrics. Defaults to prometheus.DefaultRegisterer.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(svc Services, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(opts.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(opts.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: corsOrigins(opts.CORSOrigins),
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(echomiddleware.BodyLimit("1M"))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:                 "tasknestle",
		Registerer:                opts.Registerer,
		DoNotUseRequestPathFor404: true,
	}))

	// --- Operational endpoints (no auth required) ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	if opts.Health != nil {
		e.GET("/health", opts.Health.Liveness)        // liveness  – is the process alive?
		e.GET("/health/ready", opts.Health.Readiness) // readiness – are dependencies up?
	}

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(svc.Auth)
	userHandler := handler.NewUserHandler(svc.Users)
	projectHandler := handler.NewProjectHandler(svc.Projects)
	taskHandler := handler.NewTaskHandler(svc.Tasks)
	commentHandler := handler.NewCommentHandler(svc.Comments)
	invitationHandler := handler.NewInvitationHandler(svc.Invitations)

	authenticated := middleware.Auth(svc.Auth)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	api := e.Group("/api")

	// --- Auth and profile ---
	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.GET("/profile", authHandler.Profile, authenticated)
	auth.PUT("/profile", authHandler.UpdateProfile, authenticated)
	auth.PUT("/change-password", authHandler.ChangePassword, authenticated)

	// --- Admin panel ---
	admin := []echo.MiddlewareFunc{authenticated, adminOnly}
	auth.POST("/users", userHandler.CreateUser, admin...)
	auth.POST("/users/with-credentials", userHandler.CreateUserWithCredentials, admin...)
	auth.POST("/users/add-to-project", userHandler.AddToProject, admin...)
	auth.GET("/users", userHandler.ListUsers, admin...)
	auth.DELETE("/users/:userId", userHandler.DeleteUser, admin...)
	auth.PUT("/users/:userId/role", userHandler.UpdateRole, admin...)
	auth.GET("/admin/dashboard", userHandler.Dashboard, admin...)

	// --- Projects ---
	projects := api.Group("/projects", authenticated)
	projects.POST("", projectHandler.Create)
	projects.GET("", projectHandler.List)
	projects.GET("/:id", projectHandler.Get)
	projects.PUT("/:id", projectHandler.Update)
	projects.DELETE("/:id", projectHandler.Delete)
	projects.POST("/:id/members", projectHandler.AddMembers)
	projects.DELETE("/:id/members", projectHandler.RemoveMembers)
	projects.GET("/:id/members", projectHandler.Members)
	projects.POST("/:id/tasks", taskHandler.Create)
	projects.GET("/:id/tasks", taskHandler.List)
	projects.GET("/:id/tasks/stats", taskHandler.Stats)
	projects.POST("/:id/invite", invitationHandler.Invite)

	// --- Tasks and comments ---
	tasks := api.Group("/tasks", authenticated)
	tasks.GET("/my-tasks", taskHandler.MyTasks)
	tasks.GET("/:id", taskHandler.Get)
	tasks.PUT("/:id", taskHandler.Update)
	tasks.DELETE("/:id", taskHandler.Delete)
	tasks.POST("/:id/comments", commentHandler.Add)
	tasks.GET("/:id/comments", commentHandler.List)

	comments := api.Group("/comments", authenticated)
	comments.PUT("/:id", commentHandler.Update)
	comments.DELETE("/:id", commentHandler.Delete)

	// --- Invitations (public) ---
	invitations := api.Group("/invitations")
	invitations.POST("/accept", invitationHandler.Accept)
	invitations.GET("/verify/:token", invitationHandler.Verify)

	return e
}

func corsOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// requestLogger writes one zerolog entry per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogStatus:    true,
		LogMethod:    true,
		LogURI:       true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics" || c.Path() == "/health"
		},
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Status >= 500 {
				evt = log.Error().Err(v.Error)
			}
			evt.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
