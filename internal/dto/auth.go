package dto

import (
	"time"

	"github.com/mss-edu/school-api/internal/models"
)

// LoginRequest is the credential payload. Failures never reveal whether
// the username or the password was wrong.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the issued token and the session identity.
type LoginResponse struct {
	Token     string          `json:"token"`
	ExpiresIn int64           `json:"expiresIn"`
	IssuedAt  time.Time       `json:"issuedAt"`
	User      models.UserInfo `json:"user"`
}

// NavigationResponse lists the modules the current role may reach.
type NavigationResponse struct {
	Role    models.UserRole `json:"role"`
	Modules []string        `json:"modules"`
}
