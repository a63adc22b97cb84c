package requests

import (
	"context"
	"errors"

	"github.com/avelezcruz/mealbridge-backend/pkg/db/models"
	"github.com/avelezcruz/mealbridge-backend/pkg/enums"
	pkgerrors "github.com/avelezcruz/mealbridge-backend/pkg/errors"
	"github.com/avelezcruz/mealbridge-backend/pkg/logger"
	"github.com/avelezcruz/mealbridge-backend/pkg/metrics"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Matcher fans out proximity alerts to donors after a request is posted.
type Matcher interface {
	NotifyRequestMatches(ctx context.Context, request *models.FoodRequest) (int, error)
}

// Service drives food request creation and listing.
type Service interface {
	Create(ctx context.Context, input CreateRequestInput) (*models.FoodRequest, error)
	ListActive(ctx context.Context) ([]RequestWithReceiver, error)
	MarkFulfilled(ctx context.Context, receiverID, id uuid.UUID) error
}

type service struct {
	repo    Repository
	matcher Matcher
	logg    *logger.Logger
	metrics *metrics.MatchingMetrics
}

// NewService wires the requests dependencies. Metrics may be nil.
func NewService(repo Repository, matcher Matcher, logg *logger.Logger, m *metrics.MatchingMetrics) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "requests repository required")
	}
	if matcher == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "matcher required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &service{repo: repo, matcher: matcher, logg: logg, metrics: m}, nil
}

func (s *service) Create(ctx context.Context, input CreateRequestInput) (*models.FoodRequest, error) {
	if input.ReceiverID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "receiver identity missing")
	}
	if input.FoodTypeNeeded == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "food type required")
	}
	if input.QuantityNeeded == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity required")
	}

	request := &models.FoodRequest{
		ID:             uuid.New(),
		ReceiverID:     input.ReceiverID,
		FoodTypeNeeded: input.FoodTypeNeeded,
		QuantityNeeded: input.QuantityNeeded,
		Location:       input.Location,
		Status:         enums.RequestStatusActive,
	}
	if err := s.repo.Create(ctx, request); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create food request")
	}

	// post-commit fan-out; never fails the request
	if _, err := s.matcher.NotifyRequestMatches(ctx, request); err != nil {
		s.logg.Error(ctx, "post-commit effect failed: request_match_fanout", err)
		s.metrics.IncEffectFailure("request_match_fanout")
	}
	return request, nil
}

func (s *service) ListActive(ctx context.Context) ([]RequestWithReceiver, error) {
	rows, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list active requests")
	}
	return rows, nil
}

func (s *service) MarkFulfilled(ctx context.Context, receiverID, id uuid.UUID) error {
	if receiverID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "receiver identity missing")
	}
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "request id required")
	}
	request, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "food request not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load food request")
	}
	if request.ReceiverID != receiverID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "request belongs to another receiver")
	}
	if request.Status == enums.RequestStatusFulfilled {
		return nil
	}
	// A concurrent fulfill losing the race is still fulfilled; no error.
	if _, err := s.repo.UpdateStatus(ctx, id, enums.RequestStatusFulfilled); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark request fulfilled")
	}
	return nil
}
