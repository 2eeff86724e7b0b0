package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/chamber122/chamber122-backend/api/controllers"
	"github.com/chamber122/chamber122-backend/api/middleware"
	"github.com/chamber122/chamber122-backend/api/responses"
	"github.com/chamber122/chamber122-backend/pkg/config"
	"github.com/chamber122/chamber122-backend/pkg/db"
	"github.com/chamber122/chamber122-backend/pkg/enums"
	"github.com/chamber122/chamber122-backend/pkg/logger"
	"github.com/chamber122/chamber122-backend/pkg/metrics"
	"github.com/chamber122/chamber122-backend/pkg/redis"
)

// NewRouter builds the HTTP surface. redisClient and reg are optional: without
// redis the public rate limits are off, without a registry /metrics is not
// mounted.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	reg *prometheus.Registry,
	svc Services,
) http.Handler {
	r := chi.NewRouter()
	r.NotFound(responses.WriteRouteNotFound)
	r.MethodNotAllowed(responses.WriteRouteNotFound)

	var httpMetrics *metrics.HTTPMetrics
	if reg != nil {
		httpMetrics = metrics.NewHTTPMetrics(reg)
	}

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)
	if httpMetrics != nil {
		r.Use(middleware.Metrics(httpMetrics))
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}

	var limiter middleware.RateLimitStore
	var redisPinger interface {
		Ping(ctx context.Context) error
	}
	if redisClient != nil {
		limiter = redisClient
		redisPinger = redisClient
	}
	registerLimit := middleware.RateLimit(middleware.NewRateLimitPolicy(
		"register",
		cfg.RateLimit.RegisterWindow,
		cfg.RateLimit.RegisterIPLimit,
		cfg.RateLimit.RegisterEmailLimit,
	), limiter, logg)

	requireAuth := middleware.Auth(cfg.JWT, logg)
	requireAdmin := middleware.RequireRole(enums.UserRoleAdmin, logg)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", controllers.Health(cfg))
		r.Get("/health/ready", controllers.HealthReady(cfg, logg, dbP, redisPinger))

		r.With(requireAuth).Get("/auth/me", controllers.AuthMe(svc.Users, svc.Businesses, logg))

		businessRoutes := func(r chi.Router) {
			r.Get("/public", controllers.BusinessesPublic(svc.Businesses, logg))

			r.Group(func(r chi.Router) {
				r.Use(requireAuth, requireAdmin)
				r.Get("/admin", controllers.BusinessesAll(svc.Businesses, logg))
				r.Get("/all", controllers.BusinessesAll(svc.Businesses, logg))
				r.Put("/{id}/admin", controllers.BusinessAdminUpdate(svc.Businesses, logg))
				r.Delete("/{id}/admin", controllers.BusinessAdminDelete(svc.Businesses, logg))
			})

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/me", controllers.BusinessMine(svc.Businesses, logg))
				r.Put("/me", controllers.BusinessUpsertMine(svc.Businesses, logg))
				r.Post("/me", controllers.BusinessUpsertMine(svc.Businesses, logg))
				r.Post("/upsert", controllers.BusinessUpsertMine(svc.Businesses, logg))
				r.Put("/{id}", controllers.BusinessUpdate(svc.Businesses, logg))
				r.Delete("/{id}", controllers.BusinessDelete(svc.Businesses, logg))
				r.Post("/{id}/media", controllers.BusinessAddMedia(svc.Businesses, logg))
				r.Delete("/{id}/media/{mediaId}", controllers.BusinessDeleteMedia(svc.Businesses, logg))
			})

			r.Get("/{id}", controllers.BusinessGet(svc.Businesses, logg))
		}
		r.Route("/businesses", businessRoutes)
		r.Route("/business", businessRoutes)

		r.With(requireAuth, requireAdmin).Get("/users/{id}", controllers.UserByID(svc.Users, logg))

		r.Route("/events", func(r chi.Router) {
			r.Get("/", controllers.EventsList(svc.Events, logg))
			r.Get("/public", controllers.EventsList(svc.Events, logg))
			r.Get("/{id}", controllers.EventGet(svc.Events, logg))
			r.With(registerLimit).Post("/{id}/register", controllers.EventRegister(svc.Events, logg))

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/", controllers.EventCreate(svc.Events, logg))
				r.Post("/create", controllers.EventCreate(svc.Events, logg))
				r.Put("/{id}/publish", controllers.EventPublish(svc.Events, logg))
				r.Put("/{id}", controllers.EventUpdate(svc.Events, logg))
				r.Delete("/{id}", controllers.EventDelete(svc.Events, logg))
			})
		})

		r.Route("/bulletins", func(r chi.Router) {
			r.Get("/", controllers.BulletinsList(svc.Bulletins, logg))
			r.Get("/{id}", controllers.BulletinGet(svc.Bulletins, logg))
			r.With(registerLimit).Post("/{id}/register", controllers.BulletinRegister(svc.Bulletins, logg))

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/", controllers.BulletinCreate(svc.Bulletins, logg))
				r.Put("/{id}", controllers.BulletinUpdate(svc.Bulletins, logg))
				r.Delete("/{id}", controllers.BulletinDelete(svc.Bulletins, logg))
			})
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/my-events", controllers.DashboardMyEvents(svc.Dashboard, logg))
			r.Get("/registrations/{eventId}", controllers.DashboardEventRegistrations(svc.Dashboard, logg))
			r.Get("/my-bulletins", controllers.DashboardMyBulletins(svc.Dashboard, logg))
			r.Get("/bulletin-registrations/{bulletinId}", controllers.DashboardBulletinRegistrations(svc.Dashboard, logg))
		})

		r.Route("/messages", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/conversations", controllers.MessagesConversations(svc.Messages, logg))
			r.Get("/conversations/{id}", controllers.MessagesThread(svc.Messages, logg))
			r.Post("/conversations", controllers.MessagesStart(svc.Messages, logg))
			r.Post("/", controllers.MessagesSend(svc.Messages, logg))
		})
	})

	return r
}
