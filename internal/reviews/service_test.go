package reviews

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aqarlink/aqarlink-backend/pkg/db/models"
	"github.com/aqarlink/aqarlink-backend/pkg/enums"
	pkgerrors "github.com/aqarlink/aqarlink-backend/pkg/errors"
)

type stubReviewsRepo struct {
	created  []models.CustomerReview
	existing bool
	rows     []models.CustomerReview
	average  float64
	total    int64
}

func (s *stubReviewsRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubReviewsRepo) Create(ctx context.Context, review *models.CustomerReview) error {
	s.created = append(s.created, *review)
	return nil
}

func (s *stubReviewsRepo) Exists(ctx context.Context, customerID, agentUserID uuid.UUID) (bool, error) {
	return s.existing, nil
}

func (s *stubReviewsRepo) ListForAgent(ctx context.Context, agentUserID uuid.UUID, limit int) ([]models.CustomerReview, error) {
	return s.rows, nil
}

func (s *stubReviewsRepo) AverageRating(ctx context.Context, agentUserID uuid.UUID) (float64, int64, error) {
	return s.average, s.total, nil
}

type stubAgentLoader struct {
	agent *models.Agent
}

func (s *stubAgentLoader) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Agent, error) {
	if s.agent == nil || s.agent.UserID != userID {
		return nil, nil
	}
	return s.agent, nil
}

func TestCreateReview(t *testing.T) {
	agent := &models.Agent{ID: uuid.New(), UserID: uuid.New(), Status: enums.AgentStatusApproved}
	repo := &stubReviewsRepo{}
	svc, err := NewService(repo, &stubAgentLoader{agent: agent})
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}

	review, err := svc.Create(context.Background(), CreateParams{
		AgentUserID: agent.UserID,
		CustomerID:  uuid.New(),
		Rating:      4,
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if review.Rating != 4 {
		t.Fatalf("expected rating 4 got %d", review.Rating)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected one stored review got %d", len(repo.created))
	}
}

func TestCreateReviewRatingBounds(t *testing.T) {
	agent := &models.Agent{ID: uuid.New(), UserID: uuid.New(), Status: enums.AgentStatusApproved}
	svc, _ := NewService(&stubReviewsRepo{}, &stubAgentLoader{agent: agent})

	for _, rating := range []int{0, -1, 6} {
		_, err := svc.Create(context.Background(), CreateParams{
			AgentUserID: agent.UserID,
			CustomerID:  uuid.New(),
			Rating:      rating,
		})
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("rating %d: expected validation error got %v", rating, err)
		}
	}
}

func TestCreateReviewDuplicateRejected(t *testing.T) {
	agent := &models.Agent{ID: uuid.New(), UserID: uuid.New(), Status: enums.AgentStatusApproved}
	repo := &stubReviewsRepo{existing: true}
	svc, _ := NewService(repo, &stubAgentLoader{agent: agent})

	_, err := svc.Create(context.Background(), CreateParams{
		AgentUserID: agent.UserID,
		CustomerID:  uuid.New(),
		Rating:      5,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict got %v", err)
	}
	if len(repo.created) != 0 {
		t.Fatal("duplicate review must not be stored")
	}
}

func TestCreateReviewUnapprovedAgent(t *testing.T) {
	agent := &models.Agent{ID: uuid.New(), UserID: uuid.New(), Status: enums.AgentStatusPending}
	svc, _ := NewService(&stubReviewsRepo{}, &stubAgentLoader{agent: agent})

	_, err := svc.Create(context.Background(), CreateParams{
		AgentUserID: agent.UserID,
		CustomerID:  uuid.New(),
		Rating:      5,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found got %v", err)
	}
}

func TestListForAgentAggregates(t *testing.T) {
	repo := &stubReviewsRepo{
		rows:    []models.CustomerReview{{ID: uuid.New(), Rating: 5}, {ID: uuid.New(), Rating: 3}},
		average: 4.0,
		total:   2,
	}
	svc, _ := NewService(repo, &stubAgentLoader{})

	result, err := svc.ListForAgent(context.Background(), uuid.New(), 10)
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if result.AverageRating != 4.0 || result.TotalReviews != 2 {
		t.Fatalf("wrong aggregates: %+v", result)
	}
	if len(result.Items) != 2 {
		t.Fatalf("expected 2 reviews got %d", len(result.Items))
	}
}
