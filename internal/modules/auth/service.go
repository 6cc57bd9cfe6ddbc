package auth

import (
	"context"
	"errors"

	"inspectdesk/internal/domain"
	"inspectdesk/internal/pkg/jwt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type InspectorRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Inspector, error)
	FindByEmail(ctx context.Context, email string) (*domain.Inspector, error)
}

type Service struct {
	inspectors InspectorRepository
	tokens     *jwt.Service
}

func NewService(inspectors InspectorRepository, tokens *jwt.Service) *Service {
	return &Service{inspectors: inspectors, tokens: tokens}
}

// Login authenticates an inspector by email and password and issues a JWT.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (string, *domain.Inspector, error) {
	inspector, err := s.inspectors.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(inspector.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(inspector.ID, inspector.AccountID)
	if err != nil {
		return "", nil, err
	}
	return token, inspector, nil
}

// Me returns the authenticated inspector's profile.
func (s *Service) Me(ctx context.Context, inspectorID int64) (*domain.Inspector, error) {
	return s.inspectors.GetByID(ctx, inspectorID)
}
