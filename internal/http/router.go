package http

import (
	"context"
	"log/slog"

	"github.com/geocoder89/koinonia/internal/auth"
	"github.com/geocoder89/koinonia/internal/config"
	"github.com/geocoder89/koinonia/internal/domain/user"
	"github.com/geocoder89/koinonia/internal/http/handlers"
	"github.com/geocoder89/koinonia/internal/http/middlewares"
	"github.com/geocoder89/koinonia/internal/observability"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

type UserStore interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
	Create(ctx context.Context, name, email, passwordHash, role string) (user.User, error)
}

// Deps are the collaborators the router wires into handlers. Prom and
// Gatherer are optional; without them /metrics is not mounted.
type Deps struct {
	Users       UserStore
	Events      handlers.EventStore
	Enrollments handlers.EnrollmentStore
	Ping        handlers.Pinger

	JWT         *auth.Manager
	Revocations auth.RevocationStore

	Prom     *observability.Prom
	Gatherer prometheus.Gatherer
}

func NewRouter(log *slog.Logger, cfg config.Config, deps Deps) *gin.Engine {
	if !cfg.IsDevOrTest() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(otelgin.Middleware(cfg.OTelServiceName))
	if deps.Prom != nil {
		r.Use(deps.Prom.GinHandleMiddleware())
	}
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.CORSAllowedOrigins))
	if cfg.MaxBodyBytes > 0 {
		r.Use(middlewares.MaxBodyBytes(cfg.MaxBodyBytes))
	}

	if deps.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	h := handlers.NewHealthHandler(deps.Ping)
	r.GET("/", h.Root)
	r.GET("/health", h.Health)

	r.GET("/docs", handlers.SwaggerUI)
	r.GET("/docs/openapi.yaml", handlers.OpenAPISpec)

	authMW := middlewares.NewAuthMiddleware(deps.JWT, deps.Revocations)
	loginLimiter := middlewares.NewRateLimiter(cfg.LoginRatePerMinute)

	usersHandler := handlers.NewUsersHandler(deps.Users)
	authHandler := handlers.NewAuthHandler(deps.Users, deps.JWT, deps.Revocations)
	eventsHandler := handlers.NewEventsHandler(deps.Events)
	enrollmentsHandler := handlers.NewEnrollmentsHandler(deps.Enrollments)

	authGroup := r.Group("/auth")
	authGroup.POST("/login",
		loginLimiter.RateLimiterMiddleware(middlewares.KeyByIP),
		middlewares.RequireJSON(),
		authHandler.Login,
	)
	// logout takes no body and must accept already revoked tokens
	authGroup.POST("/logout", authHandler.Logout)

	api := r.Group("/")
	api.Use(middlewares.RequireJSON())
	api.Use(authMW.OptionalAuth())

	api.POST("/users", usersHandler.CreateUser)
	api.GET("/users/:id/enrolled-events", eventsHandler.ListUserEvents)

	api.GET("/events", eventsHandler.ListEvents)
	api.POST("/events", eventsHandler.CreateEvent)
	api.GET("/events/:id", eventsHandler.GetEventByID)

	api.POST("/events/:id/enrollments", enrollmentsHandler.AddParticipants)
	api.GET("/events/:id/enrollments/:userId", enrollmentsHandler.GetParticipants)
	api.DELETE("/events/:id/enrollments/:userId", enrollmentsHandler.CancelEnrollment)

	return r
}
