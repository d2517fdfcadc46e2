package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aqarlink/aqarlink-backend/api/controllers"
	"github.com/aqarlink/aqarlink-backend/api/middleware"
	"github.com/aqarlink/aqarlink-backend/internal/agents"
	"github.com/aqarlink/aqarlink-backend/internal/appointments"
	"github.com/aqarlink/aqarlink-backend/internal/notifications"
	"github.com/aqarlink/aqarlink-backend/internal/reviews"
	"github.com/aqarlink/aqarlink-backend/internal/wallet"
	"github.com/aqarlink/aqarlink-backend/pkg/config"
	"github.com/aqarlink/aqarlink-backend/pkg/db"
	"github.com/aqarlink/aqarlink-backend/pkg/logger"
	"github.com/aqarlink/aqarlink-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	appointmentsService appointments.Service,
	agentsService agents.Service,
	walletService wallet.Service,
	reviewsService reviews.Service,
	notificationsService notifications.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/appointments", func(r chi.Router) {
			r.Post("/", controllers.CreateAppointment(appointmentsService, logg))
			r.Get("/", controllers.ListMyAppointments(appointmentsService, logg))
			r.Get("/{appointmentId}", controllers.GetAppointment(appointmentsService, logg))
		})

		r.Post("/reviews", controllers.CreateReview(reviewsService, logg))
		r.Get("/agents/{agentUserId}/reviews", controllers.ListAgentReviews(reviewsService, logg))

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(notificationsService, logg))
			r.Post("/{notificationId}/read", controllers.MarkNotificationRead(notificationsService, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(notificationsService, logg))
		})

		r.Route("/agent", func(r chi.Router) {
			r.Use(middleware.RequireRole("agent", logg))
			r.Get("/profile", controllers.AgentProfile(agentsService, logg))
			r.Get("/appointments", controllers.ListAgentAppointments(appointmentsService, logg))
			r.Route("/requests", func(r chi.Router) {
				r.Get("/", controllers.ListPendingRequests(appointmentsService, logg))
				r.Patch("/{requestId}", controllers.RespondToRequest(appointmentsService, logg))
			})
			r.Route("/wallet", func(r chi.Router) {
				r.Get("/", controllers.AgentWallet(walletService, logg))
				r.Get("/transactions", controllers.AgentWalletTransactions(walletService, logg))
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole("admin", logg))
			r.Patch("/appointments/{appointmentId}/final-status", controllers.FinalizeAppointment(appointmentsService, logg))
			r.Patch("/appointments/{appointmentId}/status", controllers.OverrideAppointmentStatus(appointmentsService, logg))
			r.Route("/agents", func(r chi.Router) {
				r.Post("/{agentId}/decision", controllers.DecideAgent(agentsService, logg))
				r.Patch("/{agentId}/visit-amount", controllers.SetVisitAmount(agentsService, logg))
				r.Get("/{agentUserId}/wallet", controllers.AdminAgentWallet(walletService, logg))
			})
			r.Post("/payouts", controllers.ProcessPayout(walletService, logg))
			r.Get("/payouts", controllers.ListPayouts(walletService, logg))
		})
	})

	return r
}
