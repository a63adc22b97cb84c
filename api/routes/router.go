package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/avelezcruz/mealbridge-backend/api/controllers"
	"github.com/avelezcruz/mealbridge-backend/api/middleware"
	"github.com/avelezcruz/mealbridge-backend/internal/auth"
	"github.com/avelezcruz/mealbridge-backend/internal/donations"
	"github.com/avelezcruz/mealbridge-backend/internal/notifications"
	"github.com/avelezcruz/mealbridge-backend/internal/profiles"
	"github.com/avelezcruz/mealbridge-backend/internal/requests"
	"github.com/avelezcruz/mealbridge-backend/pkg/auth/session"
	"github.com/avelezcruz/mealbridge-backend/pkg/config"
	"github.com/avelezcruz/mealbridge-backend/pkg/db"
	"github.com/avelezcruz/mealbridge-backend/pkg/enums"
	"github.com/avelezcruz/mealbridge-backend/pkg/logger"
	"github.com/avelezcruz/mealbridge-backend/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

// RouterParams bundles everything the HTTP surface depends on.
type RouterParams struct {
	Config         *config.Config
	Logger         *logger.Logger
	DBPinger       db.Pinger
	Redis          *redis.Client
	SessionManager sessionManager
	Gatherer       prometheus.Gatherer

	AuthService         auth.Service
	RegisterService     auth.RegisterService
	ProfileService      *profiles.Service
	DonationService     donations.Service
	RequestService      requests.Service
	NotificationService notifications.Service
}

func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.DBPinger, p.Redis))
	})

	if p.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(p.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, p.Redis, logg)).Post("/login", controllers.AuthLogin(p.AuthService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, p.Redis, logg)).Post("/register", controllers.AuthRegister(p.RegisterService, p.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(p.SessionManager, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(p.SessionManager, cfg.JWT, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.SessionManager, logg))

		r.Get("/profiles/me", controllers.ProfileMe(p.ProfileService, logg))
		r.Get("/leaderboard", controllers.Leaderboard(p.ProfileService, logg))

		r.Route("/donations", func(r chi.Router) {
			r.With(middleware.RequireRole(string(enums.UserRoleDonor), logg)).Post("/", controllers.DonationCreate(p.DonationService, logg))
			r.Get("/", controllers.DonationList(p.DonationService, logg))
			r.Get("/recent", controllers.DonationRecent(p.DonationService, logg))

			r.Route("/{donationId}", func(r chi.Router) {
				r.Get("/", controllers.DonationDetail(p.DonationService, logg))
				r.With(middleware.RequireRole(string(enums.UserRoleReceiver), logg)).Post("/claim", controllers.DonationClaim(p.DonationService, logg))
				r.With(middleware.RequireRole(string(enums.UserRoleVolunteer), logg)).Post("/accept", controllers.DonationAccept(p.DonationService, logg))
				r.Post("/complete", controllers.DonationComplete(p.DonationService, logg))
				if !cfg.App.IsProd() {
					r.Patch("/status", controllers.DonationUpdateStatus(p.DonationService, logg))
				}
			})
		})

		r.Get("/donors/{donorId}/donations", controllers.DonorDonations(p.DonationService, logg))
		r.Get("/receivers/{receiverId}/claims", controllers.ReceiverClaims(p.DonationService, logg))
		r.Get("/volunteers/{volunteerId}/tasks", controllers.VolunteerTasks(p.DonationService, logg))

		r.Route("/requests", func(r chi.Router) {
			r.With(middleware.RequireRole(string(enums.UserRoleReceiver), logg)).Post("/", controllers.RequestCreate(p.RequestService, logg))
			r.Get("/", controllers.RequestList(p.RequestService, logg))
			r.With(middleware.RequireRole(string(enums.UserRoleReceiver), logg)).Post("/{requestId}/fulfill", controllers.RequestFulfill(p.RequestService, logg))
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(p.NotificationService, logg))
			r.Get("/unread-count", controllers.UnreadNotificationsCount(p.NotificationService, logg))
			r.Post("/{notificationId}/read", controllers.MarkNotificationRead(p.NotificationService, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(p.NotificationService, logg))
		})
	})

	return r
}
