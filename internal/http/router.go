package http

import (
	"log/slog"

	"github.com/gatherhub/gatherhub/internal/config"
	"github.com/gatherhub/gatherhub/internal/http/handlers"
	"github.com/gatherhub/gatherhub/internal/http/middlewares"
	"github.com/gatherhub/gatherhub/internal/observability"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Deps carries the explicitly constructed collaborators; the router owns
// no repositories of its own.
type Deps struct {
	Users  handlers.UsersRepository
	Events handlers.EventsRepository
	Engine handlers.RegistrationEngine

	// InvalidateEvent drops a cached event after writes; may be nil.
	InvalidateEvent func(id string)

	// Ping reports store readiness for /readyz; may be nil.
	Ping func() error

	// Gatherer backs /metrics; nil disables the endpoint.
	Gatherer prometheus.Gatherer
}

func NewRouter(log *slog.Logger, cfg config.Config, prom *observability.Prom, deps Deps) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	r.Use(otelgin.Middleware("gatherhub"))

	if prom != nil {
		r.Use(prom.GinHandleMiddleware())
	}

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(cfg.MaxBodyBytes))
	r.Use(middlewares.RequireJSON())

	limiter := middlewares.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
	r.Use(limiter.RateLimiterMiddleware(middlewares.KeyByIP))

	// health
	h := handlers.NewHealthHandler(deps.Ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if deps.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	// wire up handlers
	eventsHandler := handlers.NewEventsHandler(deps.Events, deps.InvalidateEvent)
	usersHandler := handlers.NewUsersHandler(deps.Users)
	registrationsHandler := handlers.NewRegistrationsHandler(deps.Engine)

	r.POST("/events", eventsHandler.CreateEvent)
	r.GET("/events", eventsHandler.ListEvents)
	r.GET("/events/:id", eventsHandler.GetEventByID)
	r.PUT("/events/:id", eventsHandler.UpdateEvent)
	r.DELETE("/events/:id", eventsHandler.DeleteEvent)

	r.POST("/users", usersHandler.CreateUser)
	r.GET("/users", usersHandler.ListUsers)
	r.GET("/users/:id", usersHandler.GetUserByID)
	r.GET("/users/:id/registrations", registrationsHandler.ListForUser)

	// registration routes
	r.POST("/events/:id/registrations", registrationsHandler.Register)
	r.GET("/events/:id/registrations", registrationsHandler.ListForEvent)
	r.DELETE("/events/:id/registrations/:userId", registrationsHandler.Unregister)

	return r
}
