package profiles

import (
	"time"

	"github.com/google/uuid"

	"github.com/avelezcruz/mealbridge-backend/pkg/db/models"
	"github.com/avelezcruz/mealbridge-backend/pkg/enums"
	"github.com/avelezcruz/mealbridge-backend/pkg/types"
)

// ProfileDTO is the transport shape that omits credentials.
type ProfileDTO struct {
	ID        uuid.UUID       `json:"id"`
	Email     string          `json:"email"`
	Role      enums.UserRole  `json:"role"`
	Name      string          `json:"name"`
	Phone     *string         `json:"phone,omitempty"`
	Location  *types.Location `json:"location,omitempty"`
	Points    int             `json:"points"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CreateProfileDTO holds the data required by the repo to persist a new profile.
type CreateProfileDTO struct {
	Email        string
	PasswordHash string
	Role         enums.UserRole
	Name         string
	Phone        *string
	Location     *types.Location
}

func FromModel(p *models.Profile) *ProfileDTO {
	if p == nil {
		return nil
	}

	return &ProfileDTO{
		ID:        p.ID,
		Email:     p.Email,
		Role:      p.Role,
		Name:      p.Name,
		Phone:     p.Phone,
		Location:  p.Location,
		Points:    p.Points,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (c CreateProfileDTO) ToModel() *models.Profile {
	return &models.Profile{
		ID:           uuid.New(),
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		Role:         c.Role,
		Name:         c.Name,
		Phone:        c.Phone,
		Location:     c.Location,
	}
}
