package auth

import (
	"github.com/avelezcruz/mealbridge-backend/internal/profiles"
	"github.com/avelezcruz/mealbridge-backend/pkg/enums"
	"github.com/avelezcruz/mealbridge-backend/pkg/types"
)

// RegisterRequest contains the payload required to onboard a new profile.
type RegisterRequest struct {
	Name     string          `json:"name" validate:"required"`
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required,min=8"`
	Role     enums.UserRole  `json:"role" validate:"required"`
	Phone    *string         `json:"phone,omitempty"`
	Location *types.Location `json:"location,omitempty"`
}

// LoginRequest captures the credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse contains the tokens and profile produced by a successful login.
type LoginResponse struct {
	AccessToken  string               `json:"access_token"`
	RefreshToken string               `json:"refresh_token"`
	User         *profiles.ProfileDTO `json:"user"`
}
