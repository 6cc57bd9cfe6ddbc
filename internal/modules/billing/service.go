package billing

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"inspectdesk/internal/domain"
	"inspectdesk/internal/modules/pricing"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	accounts    AccountRepository
	inspections InspectionRepository
	documents   DocumentRepository
	notifs      Notifier
}

func NewService(accounts AccountRepository, inspections InspectionRepository, documents DocumentRepository, notifs Notifier) *Service {
	return &Service{
		accounts:    accounts,
		inspections: inspections,
		documents:   documents,
		notifs:      notifs,
	}
}

// InvoiceResult reports a generated invoice and the document created for it.
type InvoiceResult struct {
	DocumentID int64          `json:"document_id"`
	Invoice    domain.Invoice `json:"invoice"`
}

// DocumentView is a document resolved through one of its access tokens.
type DocumentView struct {
	Document *domain.Document `json:"document"`
	Viewer   string           `json:"viewer"`
}

// GenerateSendInvoice prices the inspection's locked-in details, creates
// the invoice document with one access token per involved party, and locks
// the inspection. The operation is one-shot: once the invoice-sent flag is
// set it cannot run again.
func (s *Service) GenerateSendInvoice(ctx context.Context, accountID, inspectionID int64) (*InvoiceResult, error) {
	inspection, err := s.ownedInspection(ctx, accountID, inspectionID)
	if err != nil {
		return nil, err
	}
	if inspection.Payment.InvoiceSent {
		return nil, fmt.Errorf("%w: invoice already sent", ErrInvalidOperation)
	}

	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	age := time.Now().Year() - inspection.Property.YearBuilt
	inv, err := pricing.Calculate(account.Pricing, inspection.Services(), inspection.Property.Sqft, age, inspection.Property.Foundation)
	if err != nil {
		return nil, err
	}

	doc := &domain.Document{
		InspectionID: inspection.ID,
		Kind:         domain.DocumentInvoice,
		Tokens:       invoiceTokens(inspection),
	}
	if err := s.documents.Create(ctx, doc); err != nil {
		return nil, err
	}

	if err := s.inspections.MarkInvoiced(ctx, inspection.ID, inv); err != nil {
		return nil, err
	}

	if s.notifs != nil {
		if err := s.notifs.InvoiceSent(ctx, account, inspection, inv); err != nil {
			log.Printf("notify invoice_sent inspection=%d err=%v", inspection.ID, err)
		}
	}

	return &InvoiceResult{DocumentID: doc.ID, Invoice: inv}, nil
}

// RecordPayment applies a received payment against the inspection's
// balance. The invoice must have been sent first, and a payment may not
// exceed the outstanding balance.
func (s *Service) RecordPayment(ctx context.Context, accountID, inspectionID int64, amount float64, method string) (*domain.Payment, error) {
	inspection, err := s.ownedInspection(ctx, accountID, inspectionID)
	if err != nil {
		return nil, err
	}
	if !inspection.Payment.InvoiceSent {
		return nil, fmt.Errorf("%w: invoice has not been sent", ErrInvalidOperation)
	}
	if amount <= 0 {
		return nil, fmt.Errorf("%w: invalid payment amount", ErrInvalidParameter)
	}
	if method == "" {
		return nil, fmt.Errorf("%w: invalid payment method", ErrInvalidParameter)
	}
	if amount > inspection.Payment.Balance {
		return nil, fmt.Errorf("%w: payment exceeds outstanding balance", ErrInvalidParameter)
	}

	record := domain.PaymentRecord{
		Amount:   amount,
		Method:   method,
		Received: time.Now().UTC(),
	}
	history := append(inspection.Payment.History, record)
	balance := round2(inspection.Payment.Balance - amount)

	if err := s.inspections.SavePayments(ctx, inspection.ID, balance, history); err != nil {
		return nil, err
	}

	inspection.Payment.Balance = balance
	inspection.Payment.History = history

	if s.notifs != nil {
		account, err := s.accounts.GetByID(ctx, accountID)
		if err != nil {
			log.Printf("notify payment_confirmed inspection=%d err=%v", inspection.ID, err)
		} else if err := s.notifs.PaymentConfirmed(ctx, account, inspection, amount, balance); err != nil {
			log.Printf("notify payment_confirmed inspection=%d err=%v", inspection.ID, err)
		}
	}

	payment := inspection.Payment
	return &payment, nil
}

// GetPayment returns the inspection's payment state.
func (s *Service) GetPayment(ctx context.Context, accountID, inspectionID int64) (*domain.Payment, error) {
	inspection, err := s.ownedInspection(ctx, accountID, inspectionID)
	if err != nil {
		return nil, err
	}
	payment := inspection.Payment
	return &payment, nil
}

// AccessDocument resolves a document through one of its access tokens and
// records the access. Expiry applies only to tokens with a non-zero
// duration.
func (s *Service) AccessDocument(ctx context.Context, documentID int64, token string) (*DocumentView, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: a token is required", ErrUnauthorized)
	}

	doc, err := s.documents.GetByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: invalid token", ErrUnauthorized)
		}
		return nil, err
	}

	for i := range doc.Tokens {
		t := &doc.Tokens[i]
		if t.Token != token {
			continue
		}
		if t.Duration > 0 && time.Since(doc.Created) > t.Duration {
			return nil, fmt.Errorf("%w: token expired", ErrUnauthorized)
		}
		t.Accessed++
		t.LastAccessed = time.Now().UTC()
		if err := s.documents.UpdateTokens(ctx, doc.ID, doc.Tokens); err != nil {
			return nil, err
		}
		return &DocumentView{Document: doc, Viewer: t.UserType}, nil
	}
	return nil, fmt.Errorf("%w: invalid token", ErrUnauthorized)
}

func (s *Service) ownedInspection(ctx context.Context, accountID, inspectionID int64) (*domain.Inspection, error) {
	inspection, err := s.inspections.GetByID(ctx, inspectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: an inspection by that id does not exist", ErrInvalidParameter)
		}
		return nil, err
	}
	if inspection.AccountID != accountID {
		return nil, fmt.Errorf("%w: an inspection by that id does not exist", ErrInvalidParameter)
	}
	return inspection, nil
}

// invoiceTokens issues one non-expiring access token per party involved in
// the inspection.
func invoiceTokens(inspection *domain.Inspection) []domain.AccessToken {
	tokens := []domain.AccessToken{{
		UserID:   inspection.InspectorID,
		UserType: domain.ViewerInspector,
		Token:    uuid.NewString(),
	}}
	for _, clientID := range []*int64{inspection.Client1ID, inspection.Client2ID} {
		if clientID == nil {
			continue
		}
		tokens = append(tokens, domain.AccessToken{
			UserID:   *clientID,
			UserType: domain.ViewerClient,
			Token:    uuid.NewString(),
		})
	}
	if inspection.RealtorID != nil {
		tokens = append(tokens, domain.AccessToken{
			UserID:   *inspection.RealtorID,
			UserType: domain.ViewerRealtor,
			Token:    uuid.NewString(),
		})
	}
	return tokens
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
