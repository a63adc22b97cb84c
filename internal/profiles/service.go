package profiles

import (
	"context"
	"errors"
	"fmt"

	"github.com/avelezcruz/mealbridge-backend/pkg/config"
	"github.com/avelezcruz/mealbridge-backend/pkg/db/models"
	pkgerrors "github.com/avelezcruz/mealbridge-backend/pkg/errors"
	"github.com/avelezcruz/mealbridge-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const defaultLeaderboardSize = 10

// LeaderboardEntry is one ranked profile on the public leaderboard.
type LeaderboardEntry struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Points int       `json:"points"`
}

// LeaderboardDTO groups the top scorers by role.
type LeaderboardDTO struct {
	Volunteers []LeaderboardEntry `json:"volunteers"`
	Donors     []LeaderboardEntry `json:"donors"`
}

type profileSource interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	TopByRole(ctx context.Context, role enums.UserRole, limit int) ([]models.Profile, error)
}

// Service exposes profile reads used by the HTTP layer.
type Service struct {
	repo profileSource
	size int
}

// NewService builds a profile service over the given source.
func NewService(repo profileSource, cfg config.MatchingConfig) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("profile repository is required")
	}
	size := cfg.LeaderboardSize
	if size <= 0 {
		size = defaultLeaderboardSize
	}
	return &Service{repo: repo, size: size}, nil
}

// Me returns the authenticated caller's profile.
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	profile, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load profile")
	}
	return FromModel(profile), nil
}

// Leaderboard returns the top volunteers and donors ranked by points.
func (s *Service) Leaderboard(ctx context.Context) (*LeaderboardDTO, error) {
	volunteers, err := s.repo.TopByRole(ctx, enums.UserRoleVolunteer, s.size)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rank volunteers")
	}
	donors, err := s.repo.TopByRole(ctx, enums.UserRoleDonor, s.size)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rank donors")
	}

	return &LeaderboardDTO{
		Volunteers: toEntries(volunteers),
		Donors:     toEntries(donors),
	}, nil
}

func toEntries(rows []models.Profile) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, LeaderboardEntry{
			ID:     row.ID,
			Name:   row.Name,
			Points: row.Points,
		})
	}
	return entries
}
