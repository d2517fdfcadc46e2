package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aqarlink/aqarlink-backend/internal/agents"
	"github.com/aqarlink/aqarlink-backend/internal/appointments"
	"github.com/aqarlink/aqarlink-backend/internal/notifications"
	"github.com/aqarlink/aqarlink-backend/internal/reviews"
	"github.com/aqarlink/aqarlink-backend/internal/wallet"
	pkgAuth "github.com/aqarlink/aqarlink-backend/pkg/auth"
	"github.com/aqarlink/aqarlink-backend/pkg/config"
	"github.com/aqarlink/aqarlink-backend/pkg/db/models"
	"github.com/aqarlink/aqarlink-backend/pkg/enums"
	"github.com/aqarlink/aqarlink-backend/pkg/logger"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubAppointmentsService struct{}

func (stubAppointmentsService) Create(context.Context, appointments.CreateParams) (*models.Appointment, error) {
	return &models.Appointment{}, nil
}

func (stubAppointmentsService) Respond(context.Context, appointments.RespondParams) (*appointments.RespondResult, error) {
	return &appointments.RespondResult{}, nil
}

func (stubAppointmentsService) FinalizeStatus(context.Context, appointments.FinalizeParams) (*models.Appointment, error) {
	return &models.Appointment{}, nil
}

func (stubAppointmentsService) OverrideStatus(context.Context, appointments.OverrideParams) (*models.Appointment, error) {
	return &models.Appointment{}, nil
}

func (stubAppointmentsService) GetByID(context.Context, uuid.UUID, appointments.Actor) (*models.Appointment, error) {
	return &models.Appointment{}, nil
}

func (stubAppointmentsService) ListForCustomer(context.Context, appointments.ListParams) (*appointments.ListResult, error) {
	return &appointments.ListResult{}, nil
}

func (stubAppointmentsService) ListForAgent(context.Context, appointments.ListParams) (*appointments.ListResult, error) {
	return &appointments.ListResult{}, nil
}

func (stubAppointmentsService) PendingRequests(context.Context, uuid.UUID) ([]models.AgentAppointmentRequest, error) {
	return nil, nil
}

func (stubAppointmentsService) RemindersDue(context.Context, time.Time) ([]models.Appointment, error) {
	return nil, nil
}

func (stubAppointmentsService) UnassignedOn(context.Context, time.Time) ([]models.Appointment, error) {
	return nil, nil
}

type stubAgentsService struct{}

func (stubAgentsService) GetByUserID(context.Context, uuid.UUID) (*models.Agent, error) {
	return &models.Agent{}, nil
}

func (stubAgentsService) Decide(context.Context, agents.DecideParams) (*models.Agent, error) {
	return &models.Agent{}, nil
}

func (stubAgentsService) SetVisitAmount(context.Context, agents.SetVisitAmountParams) (*models.Agent, error) {
	return &models.Agent{}, nil
}

func (stubAgentsService) EligibleForProperty(context.Context, *models.Property) ([]models.Agent, error) {
	return nil, nil
}

type stubWalletService struct{}

func (stubWalletService) CreditCommission(context.Context, *gorm.DB, wallet.CreditCommissionParams) (*models.WalletTransaction, error) {
	return &models.WalletTransaction{}, nil
}

func (stubWalletService) RecordExpiredVisit(context.Context, *gorm.DB, uuid.UUID) error {
	return nil
}

func (stubWalletService) ProcessPayout(context.Context, wallet.PayoutParams) (*models.AgentPayment, error) {
	return &models.AgentPayment{}, nil
}

func (stubWalletService) GetSnapshot(context.Context, uuid.UUID) (*wallet.Snapshot, error) {
	return &wallet.Snapshot{}, nil
}

func (stubWalletService) ListTransactions(context.Context, wallet.ListTransactionsParams) (*wallet.TransactionList, error) {
	return &wallet.TransactionList{}, nil
}

func (stubWalletService) ListPayouts(context.Context, wallet.ListPayoutsParams) ([]models.AgentPayment, error) {
	return nil, nil
}

type stubReviewsService struct{}

func (stubReviewsService) Create(context.Context, reviews.CreateParams) (*models.CustomerReview, error) {
	return &models.CustomerReview{}, nil
}

func (stubReviewsService) ListForAgent(context.Context, uuid.UUID, int) (*reviews.AgentReviews, error) {
	return &reviews.AgentReviews{}, nil
}

type stubNotificationsService struct{}

func (stubNotificationsService) List(context.Context, notifications.ListParams) (*notifications.ListResult, error) {
	return &notifications.ListResult{}, nil
}

func (stubNotificationsService) MarkRead(context.Context, uuid.UUID, uuid.UUID) error {
	return nil
}

func (stubNotificationsService) MarkAllRead(context.Context, uuid.UUID) (int64, error) {
	return 0, nil
}

func routerForTest(t *testing.T) (http.Handler, *config.Config) {
	t.Helper()
	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.JWT = config.JWTConfig{
		Secret:            "router-test-secret",
		Issuer:            "aqarlink-test",
		ExpirationMinutes: 15,
	}
	logg := logger.New(logger.Options{ServiceName: "router-test", Output: io.Discard})
	handler := NewRouter(
		cfg,
		logg,
		stubPinger{},
		stubPinger{},
		stubAppointmentsService{},
		stubAgentsService{},
		stubWalletService{},
		stubReviewsService{},
		stubNotificationsService{},
	)
	return handler, cfg
}

func mintToken(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestRouterHealthIsPublic(t *testing.T) {
	handler, _ := routerForTest(t)
	for _, path := range []string{"/health/live", "/health/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, resp.Code)
		}
	}
}

func TestRouterRequiresAuth(t *testing.T) {
	handler, _ := routerForTest(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/appointments", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestRouterEnforcesRoleGates(t *testing.T) {
	handler, cfg := routerForTest(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/agent/wallet", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, enums.UserRoleCustomer))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("customer on agent route: expected 403 got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/agent/wallet", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, enums.UserRoleAgent))
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("agent on agent route: expected 200 got %d", resp.Code)
	}
}

func TestRouterCustomerCanListOwnAppointments(t *testing.T) {
	handler, cfg := routerForTest(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/appointments", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, enums.UserRoleCustomer))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}
