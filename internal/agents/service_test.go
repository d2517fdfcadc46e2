package agents

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/aqarlink/aqarlink-backend/internal/users"
	"github.com/aqarlink/aqarlink-backend/pkg/db/models"
	dbtypes "github.com/aqarlink/aqarlink-backend/pkg/db/types"
	"github.com/aqarlink/aqarlink-backend/pkg/enums"
	pkgerrors "github.com/aqarlink/aqarlink-backend/pkg/errors"
	"github.com/aqarlink/aqarlink-backend/pkg/outbox"
)

type stubAgentsRepo struct {
	agent         *models.Agent
	approved      []models.Agent
	statusUpdates int64
	updatedStatus enums.AgentStatus
	visitAmount   decimal.Decimal
}

func (s *stubAgentsRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubAgentsRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Agent, error) {
	if s.agent == nil || s.agent.ID != id {
		return nil, nil
	}
	return s.agent, nil
}

func (s *stubAgentsRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Agent, error) {
	if s.agent == nil || s.agent.UserID != userID {
		return nil, nil
	}
	return s.agent, nil
}

func (s *stubAgentsRepo) FindApproved(ctx context.Context) ([]models.Agent, error) {
	return s.approved, nil
}

func (s *stubAgentsRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.AgentStatus) (int64, error) {
	if s.agent == nil || s.agent.ID != id || s.agent.Status != from {
		return 0, nil
	}
	s.updatedStatus = to
	s.statusUpdates++
	return 1, nil
}

func (s *stubAgentsRepo) UpdateVisitAmount(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	s.visitAmount = amount
	return nil
}

type stubUsersRepo struct {
	roles map[uuid.UUID]enums.UserRole
}

func (s *stubUsersRepo) WithTx(tx *gorm.DB) users.Repository { return s }

func (s *stubUsersRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	panic("not implemented")
}

func (s *stubUsersRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error) {
	panic("not implemented")
}

func (s *stubUsersRepo) FindAdmins(ctx context.Context) ([]models.User, error) {
	panic("not implemented")
}

func (s *stubUsersRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	panic("not implemented")
}

func (s *stubUsersRepo) Create(ctx context.Context, user *models.User) error {
	panic("not implemented")
}

func (s *stubUsersRepo) UpdateRole(ctx context.Context, id uuid.UUID, role enums.UserRole) error {
	if s.roles == nil {
		s.roles = make(map[uuid.UUID]enums.UserRole)
	}
	s.roles[id] = role
	return nil
}

type stubOutboxPublisher struct {
	events []outbox.DomainEvent
	err    error
}

func (s *stubOutboxPublisher) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, event)
	return nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func newTestService(t *testing.T, repo Repository, usersRepo users.Repository, publisher outboxPublisher) Service {
	t.Helper()
	svc, err := NewService(stubTxRunner{}, repo, usersRepo, publisher, decimal.NewFromInt(10000))
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}
	return svc
}

func TestDecideApprovesAndPromotes(t *testing.T) {
	agentID := uuid.New()
	userID := uuid.New()
	repo := &stubAgentsRepo{agent: &models.Agent{ID: agentID, UserID: userID, Status: enums.AgentStatusPending}}
	usersRepo := &stubUsersRepo{}
	publisher := &stubOutboxPublisher{}
	svc := newTestService(t, repo, usersRepo, publisher)

	decided, err := svc.Decide(context.Background(), DecideParams{
		AgentID:   agentID,
		Approve:   true,
		DecidedBy: uuid.New(),
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if decided.Status != enums.AgentStatusApproved {
		t.Fatalf("expected approved got %s", decided.Status)
	}
	if usersRepo.roles[userID] != enums.UserRoleAgent {
		t.Fatalf("expected user promoted to agent role, got %s", usersRepo.roles[userID])
	}
	if len(publisher.events) != 1 || publisher.events[0].EventType != enums.EventAgentApprovalDecided {
		t.Fatalf("expected approval event, got %+v", publisher.events)
	}
}

func TestDecideRejectKeepsRole(t *testing.T) {
	agentID := uuid.New()
	repo := &stubAgentsRepo{agent: &models.Agent{ID: agentID, UserID: uuid.New(), Status: enums.AgentStatusPending}}
	usersRepo := &stubUsersRepo{}
	svc := newTestService(t, repo, usersRepo, &stubOutboxPublisher{})

	decided, err := svc.Decide(context.Background(), DecideParams{
		AgentID:   agentID,
		Approve:   false,
		DecidedBy: uuid.New(),
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if decided.Status != enums.AgentStatusRejected {
		t.Fatalf("expected rejected got %s", decided.Status)
	}
	if len(usersRepo.roles) != 0 {
		t.Fatal("rejected agent must not change the user role")
	}
}

func TestDecideAlreadyDecided(t *testing.T) {
	agentID := uuid.New()
	repo := &stubAgentsRepo{agent: &models.Agent{ID: agentID, UserID: uuid.New(), Status: enums.AgentStatusApproved}}
	svc := newTestService(t, repo, &stubUsersRepo{}, &stubOutboxPublisher{})

	_, err := svc.Decide(context.Background(), DecideParams{AgentID: agentID, Approve: true, DecidedBy: uuid.New()})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict got %v", err)
	}
}

func TestSetVisitAmountBounds(t *testing.T) {
	agentID := uuid.New()
	repo := &stubAgentsRepo{agent: &models.Agent{ID: agentID, UserID: uuid.New(), Status: enums.AgentStatusApproved}}
	svc := newTestService(t, repo, &stubUsersRepo{}, &stubOutboxPublisher{})

	cases := []decimal.Decimal{
		decimal.Zero,
		decimal.NewFromInt(-5),
		decimal.NewFromInt(10001),
	}
	for _, amount := range cases {
		_, err := svc.SetVisitAmount(context.Background(), SetVisitAmountParams{
			AgentID:   agentID,
			Amount:    amount,
			UpdatedBy: uuid.New(),
		})
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("amount %s: expected validation error got %v", amount, err)
		}
	}
}

func TestSetVisitAmountEmitsEvent(t *testing.T) {
	agentID := uuid.New()
	repo := &stubAgentsRepo{agent: &models.Agent{ID: agentID, UserID: uuid.New(), Status: enums.AgentStatusApproved}}
	publisher := &stubOutboxPublisher{}
	svc := newTestService(t, repo, &stubUsersRepo{}, publisher)

	updated, err := svc.SetVisitAmount(context.Background(), SetVisitAmountParams{
		AgentID:   agentID,
		Amount:    decimal.NewFromInt(350),
		UpdatedBy: uuid.New(),
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if !updated.VisitAmount.Equal(decimal.NewFromInt(350)) {
		t.Fatalf("expected visit amount 350 got %s", updated.VisitAmount)
	}
	if !repo.visitAmount.Equal(decimal.NewFromInt(350)) {
		t.Fatalf("repo not updated, got %s", repo.visitAmount)
	}
	if len(publisher.events) != 1 || publisher.events[0].EventType != enums.EventAgentVisitAmountUpdated {
		t.Fatalf("expected visit amount event, got %+v", publisher.events)
	}
}

func TestEligibleForProperty(t *testing.T) {
	cityA := uuid.New()
	cityB := uuid.New()
	areaA := uuid.New()
	areaB := uuid.New()

	multiCity := models.Agent{
		ID:      uuid.New(),
		UserID:  uuid.New(),
		Status:  enums.AgentStatusApproved,
		CityIDs: dbtypes.UUIDArray{cityA, cityB},
	}
	singleCityAreaMatch := models.Agent{
		ID:      uuid.New(),
		UserID:  uuid.New(),
		Status:  enums.AgentStatusApproved,
		CityIDs: dbtypes.UUIDArray{cityA},
		AreaIDs: dbtypes.UUIDArray{areaA},
	}
	singleCityWrongArea := models.Agent{
		ID:      uuid.New(),
		UserID:  uuid.New(),
		Status:  enums.AgentStatusApproved,
		CityIDs: dbtypes.UUIDArray{cityA},
		AreaIDs: dbtypes.UUIDArray{areaB},
	}
	noCities := models.Agent{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Status: enums.AgentStatusApproved,
	}

	repo := &stubAgentsRepo{approved: []models.Agent{multiCity, singleCityAreaMatch, singleCityWrongArea, noCities}}
	svc := newTestService(t, repo, &stubUsersRepo{}, &stubOutboxPublisher{})

	property := &models.Property{ID: uuid.New(), CityID: cityA, AreaID: areaA}
	eligible, err := svc.EligibleForProperty(context.Background(), property)
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if len(eligible) != 2 {
		t.Fatalf("expected 2 eligible agents got %d", len(eligible))
	}
	got := map[uuid.UUID]bool{}
	for _, agent := range eligible {
		got[agent.ID] = true
	}
	if !got[multiCity.ID] || !got[singleCityAreaMatch.ID] {
		t.Fatalf("wrong eligible set: %v", got)
	}
}

func TestGetByUserIDNotFound(t *testing.T) {
	svc := newTestService(t, &stubAgentsRepo{}, &stubUsersRepo{}, &stubOutboxPublisher{})
	_, err := svc.GetByUserID(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found got %v", err)
	}
}
