package billing

import (
	"context"
	"testing"
	"time"

	"inspectdesk/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

type MockInspectionRepository struct {
	mock.Mock
}

func (m *MockInspectionRepository) GetByID(ctx context.Context, id int64) (*domain.Inspection, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Inspection), args.Error(1)
}

func (m *MockInspectionRepository) MarkInvoiced(ctx context.Context, id int64, inv domain.Invoice) error {
	args := m.Called(ctx, id, inv)
	return args.Error(0)
}

func (m *MockInspectionRepository) SavePayments(ctx context.Context, id int64, balance float64, history []domain.PaymentRecord) error {
	args := m.Called(ctx, id, balance, history)
	return args.Error(0)
}

type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) Create(ctx context.Context, d *domain.Document) error {
	args := m.Called(ctx, d)
	if d != nil {
		d.ID = 501
	}
	return args.Error(0)
}

func (m *MockDocumentRepository) GetByID(ctx context.Context, id int64) (*domain.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentRepository) UpdateTokens(ctx context.Context, id int64, tokens []domain.AccessToken) error {
	args := m.Called(ctx, id, tokens)
	return args.Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) InvoiceSent(ctx context.Context, account *domain.Account, inspection *domain.Inspection, inv domain.Invoice) error {
	args := m.Called(ctx, account, inspection, inv)
	return args.Error(0)
}

func (m *MockNotifier) PaymentConfirmed(ctx context.Context, account *domain.Account, inspection *domain.Inspection, amount, balance float64) error {
	args := m.Called(ctx, account, inspection, amount, balance)
	return args.Error(0)
}

func billingAccount() *domain.Account {
	return &domain.Account{
		ID: 1,
		Pricing: domain.PricingConfig{
			Services: []domain.ServiceDef{
				{ShortName: "full", LongName: "Full Home Inspection", Price: 300},
				{ShortName: "radon", LongName: "Radon Test", Price: 125},
			},
			TaxRate: 0.08,
		},
	}
}

func unlockedInspection() *domain.Inspection {
	client1 := int64(21)
	realtor := int64(31)
	return &domain.Inspection{
		ID:          101,
		Number:      42,
		AccountID:   1,
		InspectorID: 7,
		Client1ID:   &client1,
		RealtorID:   &realtor,
		Property: domain.Property{
			Address1:   "12 Elm St",
			City:       "Concord",
			State:      "NH",
			Zip:        "03301",
			Sqft:       2200,
			YearBuilt:  time.Now().Year() - 30,
			Foundation: domain.FoundationBasement,
		},
		MainService:        "full",
		AdditionalServices: []string{"radon"},
		Date:               "20260102",
		TimeMinute:         480,
	}
}

func TestGenerateSendInvoice_Success(t *testing.T) {
	mockAccounts := new(MockAccountRepository)
	mockInspections := new(MockInspectionRepository)
	mockDocuments := new(MockDocumentRepository)
	mockNotifs := new(MockNotifier)

	inspection := unlockedInspection()
	mockInspections.On("GetByID", mock.Anything, int64(101)).Return(inspection, nil)
	mockAccounts.On("GetByID", mock.Anything, int64(1)).Return(billingAccount(), nil)
	mockDocuments.On("Create", mock.Anything, mock.Anything).Return(nil)
	mockInspections.On("MarkInvoiced", mock.Anything, int64(101), mock.Anything).Return(nil)
	mockNotifs.On("InvoiceSent", mock.Anything, mock.Anything, inspection, mock.Anything).Return(nil)

	service := NewService(mockAccounts, mockInspections, mockDocuments, mockNotifs)

	result, err := service.GenerateSendInvoice(context.Background(), 1, 101)

	assert.NoError(t, err)
	assert.Equal(t, int64(501), result.DocumentID)
	assert.Equal(t, 425.0, result.Invoice.Subtotal)
	assert.Equal(t, 34.0, result.Invoice.Tax)
	assert.Equal(t, 459.0, result.Invoice.Total)

	doc := mockDocuments.Calls[0].Arguments.Get(1).(*domain.Document)
	assert.Equal(t, domain.DocumentInvoice, doc.Kind)
	assert.Len(t, doc.Tokens, 3) // inspector, client1, realtor
	seen := map[string]bool{}
	for _, tok := range doc.Tokens {
		assert.NotEmpty(t, tok.Token)
		assert.Zero(t, tok.Duration)
		seen[tok.UserType] = true
	}
	assert.True(t, seen[domain.ViewerInspector])
	assert.True(t, seen[domain.ViewerClient])
	assert.True(t, seen[domain.ViewerRealtor])

	mockInspections.AssertExpectations(t)
	mockNotifs.AssertExpectations(t)
}

func TestGenerateSendInvoice_AlreadySent(t *testing.T) {
	mockAccounts := new(MockAccountRepository)
	mockInspections := new(MockInspectionRepository)
	mockDocuments := new(MockDocumentRepository)

	inspection := unlockedInspection()
	inspection.Payment.InvoiceSent = true
	mockInspections.On("GetByID", mock.Anything, int64(101)).Return(inspection, nil)

	service := NewService(mockAccounts, mockInspections, mockDocuments, nil)

	_, err := service.GenerateSendInvoice(context.Background(), 1, 101)

	assert.ErrorIs(t, err, ErrInvalidOperation)
	assert.ErrorContains(t, err, "invoice already sent")
	mockDocuments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	mockInspections.AssertNotCalled(t, "MarkInvoiced", mock.Anything, mock.Anything, mock.Anything)
}

func TestGenerateSendInvoice_ForeignAccount(t *testing.T) {
	mockInspections := new(MockInspectionRepository)
	inspection := unlockedInspection()
	inspection.AccountID = 2
	mockInspections.On("GetByID", mock.Anything, int64(101)).Return(inspection, nil)

	service := NewService(new(MockAccountRepository), mockInspections, new(MockDocumentRepository), nil)

	_, err := service.GenerateSendInvoice(context.Background(), 1, 101)

	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestRecordPayment_ReducesBalance(t *testing.T) {
	mockAccounts := new(MockAccountRepository)
	mockInspections := new(MockInspectionRepository)
	mockNotifs := new(MockNotifier)

	inspection := unlockedInspection()
	inspection.Payment = domain.Payment{InvoiceSent: true, Invoiced: 459, Balance: 459}
	mockInspections.On("GetByID", mock.Anything, int64(101)).Return(inspection, nil)
	mockInspections.On("SavePayments", mock.Anything, int64(101), 259.0, mock.Anything).Return(nil)
	mockAccounts.On("GetByID", mock.Anything, int64(1)).Return(billingAccount(), nil)
	mockNotifs.On("PaymentConfirmed", mock.Anything, mock.Anything, mock.Anything, 200.0, 259.0).Return(nil)

	service := NewService(mockAccounts, mockInspections, new(MockDocumentRepository), mockNotifs)

	payment, err := service.RecordPayment(context.Background(), 1, 101, 200, "check")

	assert.NoError(t, err)
	assert.Equal(t, 259.0, payment.Balance)
	assert.Len(t, payment.History, 1)
	assert.Equal(t, 200.0, payment.History[0].Amount)
	assert.Equal(t, "check", payment.History[0].Method)
	mockNotifs.AssertExpectations(t)
}

func TestRecordPayment_UnsentInvoice(t *testing.T) {
	mockInspections := new(MockInspectionRepository)
	mockInspections.On("GetByID", mock.Anything, int64(101)).Return(unlockedInspection(), nil)

	service := NewService(new(MockAccountRepository), mockInspections, new(MockDocumentRepository), nil)

	_, err := service.RecordPayment(context.Background(), 1, 101, 100, "check")

	assert.ErrorIs(t, err, ErrInvalidOperation)
}

func TestRecordPayment_Overpayment(t *testing.T) {
	mockInspections := new(MockInspectionRepository)
	inspection := unlockedInspection()
	inspection.Payment = domain.Payment{InvoiceSent: true, Invoiced: 459, Balance: 100}
	mockInspections.On("GetByID", mock.Anything, int64(101)).Return(inspection, nil)

	service := NewService(new(MockAccountRepository), mockInspections, new(MockDocumentRepository), nil)

	_, err := service.RecordPayment(context.Background(), 1, 101, 150, "check")

	assert.ErrorIs(t, err, ErrInvalidParameter)
	mockInspections.AssertNotCalled(t, "SavePayments", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRecordPayment_InvalidAmount(t *testing.T) {
	mockInspections := new(MockInspectionRepository)
	inspection := unlockedInspection()
	inspection.Payment = domain.Payment{InvoiceSent: true, Balance: 100}
	mockInspections.On("GetByID", mock.Anything, int64(101)).Return(inspection, nil)

	service := NewService(new(MockAccountRepository), mockInspections, new(MockDocumentRepository), nil)

	_, err := service.RecordPayment(context.Background(), 1, 101, 0, "check")
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = service.RecordPayment(context.Background(), 1, 101, 50, "")
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestAccessDocument_ValidToken(t *testing.T) {
	mockDocuments := new(MockDocumentRepository)
	doc := &domain.Document{
		ID:           501,
		InspectionID: 101,
		Kind:         domain.DocumentInvoice,
		Created:      time.Now().Add(-time.Hour),
		Tokens: []domain.AccessToken{
			{UserID: 21, UserType: domain.ViewerClient, Token: "tok-client"},
		},
	}
	mockDocuments.On("GetByID", mock.Anything, int64(501)).Return(doc, nil)
	mockDocuments.On("UpdateTokens", mock.Anything, int64(501), mock.Anything).Return(nil)

	service := NewService(new(MockAccountRepository), new(MockInspectionRepository), mockDocuments, nil)

	view, err := service.AccessDocument(context.Background(), 501, "tok-client")

	assert.NoError(t, err)
	assert.Equal(t, domain.ViewerClient, view.Viewer)
	assert.Equal(t, 1, view.Document.Tokens[0].Accessed)
	assert.False(t, view.Document.Tokens[0].LastAccessed.IsZero())
}

func TestAccessDocument_InvalidToken(t *testing.T) {
	mockDocuments := new(MockDocumentRepository)
	doc := &domain.Document{
		ID:     501,
		Tokens: []domain.AccessToken{{Token: "tok-client"}},
	}
	mockDocuments.On("GetByID", mock.Anything, int64(501)).Return(doc, nil)

	service := NewService(new(MockAccountRepository), new(MockInspectionRepository), mockDocuments, nil)

	_, err := service.AccessDocument(context.Background(), 501, "wrong")

	assert.ErrorIs(t, err, ErrUnauthorized)
	mockDocuments.AssertNotCalled(t, "UpdateTokens", mock.Anything, mock.Anything, mock.Anything)
}

func TestAccessDocument_ExpiredToken(t *testing.T) {
	mockDocuments := new(MockDocumentRepository)
	doc := &domain.Document{
		ID:      501,
		Created: time.Now().Add(-2 * time.Hour),
		Tokens: []domain.AccessToken{
			{Token: "tok-short", Duration: time.Hour},
		},
	}
	mockDocuments.On("GetByID", mock.Anything, int64(501)).Return(doc, nil)

	service := NewService(new(MockAccountRepository), new(MockInspectionRepository), mockDocuments, nil)

	_, err := service.AccessDocument(context.Background(), 501, "tok-short")

	assert.ErrorIs(t, err, ErrUnauthorized)
}
