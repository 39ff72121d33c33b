package app

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"villa_mare/internal/domain"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthService struct {
	admins domain.AdminRepository
	auth   domain.Authenticator
}

func NewAuthService(a domain.AdminRepository, auth domain.Authenticator) *AuthService {
	return &AuthService{admins: a, auth: auth}
}

// Login checks the credentials and the admin role, and returns a signed token.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (string, error) {
	if err := validateStruct(req); err != nil {
		return "", err
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	u, err := s.admins.GetAdminByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return "", domain.ErrUnauthorized
	}
	if err != nil {
		return "", err
	}
	if err := s.auth.ComparePassword(u.PasswordHash, req.Password); err != nil {
		log.Info().Str("email", email).Msg("admin login refused")
		return "", domain.ErrUnauthorized
	}
	ok, err := s.admins.HasAdminRole(ctx, u.ID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", domain.ErrForbidden
	}
	return s.auth.IssueToken(u.ID, u.Email)
}
