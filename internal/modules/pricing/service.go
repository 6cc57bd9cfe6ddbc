package pricing

import (
	"context"
	"fmt"
	"time"

	"inspectdesk/internal/domain"
)

// AccountRepository is the slice of the account store the pricing service
// needs.
type AccountRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Account, error)
}

// ServiceInfo is one catalog entry exposed to the public booking form.
type ServiceInfo struct {
	Short string `json:"short"`
	Long  string `json:"long"`
}

type Service struct {
	accounts AccountRepository
}

func NewService(accounts AccountRepository) *Service {
	return &Service{accounts: accounts}
}

// GetServices lists the account's service catalog.
func (s *Service) GetServices(ctx context.Context, accountID int64) ([]ServiceInfo, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	out := make([]ServiceInfo, 0, len(account.Pricing.Services))
	for _, svc := range account.Pricing.Services {
		out = append(out, ServiceInfo{Short: svc.ShortName, Long: svc.LongName})
	}
	return out, nil
}

// CalculatePricing loads the account's pricing configuration and runs the
// engine. Either age or yearBuilt may be supplied; a year built is
// converted to an age against the current year.
func (s *Service) CalculatePricing(ctx context.Context, accountID int64, services []string, sqft, yearBuilt, age int, foundation string) (domain.Invoice, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return domain.Invoice{}, err
	}

	if age == 0 && yearBuilt > 0 {
		age = time.Now().Year() - yearBuilt
	}
	if age <= 0 {
		return domain.Invoice{}, fmt.Errorf("%w: invalid house age", ErrInvalidParameter)
	}

	return Calculate(account.Pricing, services, sqft, age, foundation)
}
