package scheduling

import (
	"context"
	"testing"

	"inspectdesk/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
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

func (m *MockAccountRepository) NextInspectionNumber(ctx context.Context, accountID int64) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

type MockInspectorRepository struct {
	mock.Mock
}

func (m *MockInspectorRepository) GetByID(ctx context.Context, id int64) (*domain.Inspector, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Inspector), args.Error(1)
}

func (m *MockInspectorRepository) AppendInspection(ctx context.Context, inspectorID, inspectionID int64) error {
	args := m.Called(ctx, inspectorID, inspectionID)
	return args.Error(0)
}

type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) FindByEmail(ctx context.Context, accountID int64, email string) (*domain.Client, error) {
	args := m.Called(ctx, accountID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientRepository) Create(ctx context.Context, c *domain.Client) error {
	args := m.Called(ctx, c)
	if c != nil {
		c.ID = 21 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockClientRepository) AppendInspection(ctx context.Context, clientID, inspectionID int64) error {
	args := m.Called(ctx, clientID, inspectionID)
	return args.Error(0)
}

type MockRealtorRepository struct {
	mock.Mock
}

func (m *MockRealtorRepository) FindByEmail(ctx context.Context, accountID int64, email string) (*domain.Realtor, error) {
	args := m.Called(ctx, accountID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Realtor), args.Error(1)
}

func (m *MockRealtorRepository) Create(ctx context.Context, r *domain.Realtor) error {
	args := m.Called(ctx, r)
	if r != nil {
		r.ID = 31
	}
	return args.Error(0)
}

func (m *MockRealtorRepository) AppendInspection(ctx context.Context, realtorID, inspectionID int64) error {
	args := m.Called(ctx, realtorID, inspectionID)
	return args.Error(0)
}

func (m *MockRealtorRepository) AppendClient(ctx context.Context, realtorID, clientID int64) error {
	args := m.Called(ctx, realtorID, clientID)
	return args.Error(0)
}

type MockInspectionRepository struct {
	mock.Mock
}

func (m *MockInspectionRepository) Create(ctx context.Context, i *domain.Inspection) error {
	args := m.Called(ctx, i)
	if i != nil && args.Error(0) == nil {
		i.ID = 101
	}
	return args.Error(0)
}

func (m *MockInspectionRepository) GetByID(ctx context.Context, id int64) (*domain.Inspection, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Inspection), args.Error(1)
}

func (m *MockInspectionRepository) ListByInspectorBetween(ctx context.Context, inspectorID int64, from, until string) ([]*domain.Inspection, error) {
	args := m.Called(ctx, inspectorID, from, until)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Inspection), args.Error(1)
}

func (m *MockInspectionRepository) UpdateProperty(ctx context.Context, id int64, p domain.Property) error {
	args := m.Called(ctx, id, p)
	return args.Error(0)
}

func (m *MockInspectionRepository) UpdateAppointment(ctx context.Context, id int64, inspectorID int64, date string, minute int) error {
	args := m.Called(ctx, id, inspectorID, date, minute)
	return args.Error(0)
}

func (m *MockInspectionRepository) UpdateServices(ctx context.Context, id int64, main string, additional []string) error {
	args := m.Called(ctx, id, main, additional)
	return args.Error(0)
}

type MockAvailabilityChecker struct {
	mock.Mock
}

func (m *MockAvailabilityChecker) CanSchedule(ctx context.Context, accountID, inspectorID int64, date string, minute int) (bool, error) {
	args := m.Called(ctx, accountID, inspectorID, date, minute)
	return args.Bool(0), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) PartyAccountCreated(ctx context.Context, accountID int64, name, email, plaintextPassword string) error {
	args := m.Called(ctx, accountID, name, email, plaintextPassword)
	return args.Error(0)
}

func (m *MockNotifier) ScheduledClient(ctx context.Context, account *domain.Account, client *domain.Client, inspection *domain.Inspection) error {
	args := m.Called(ctx, account, client, inspection)
	return args.Error(0)
}

func (m *MockNotifier) ScheduledRealtor(ctx context.Context, account *domain.Account, realtor *domain.Realtor, inspection *domain.Inspection) error {
	args := m.Called(ctx, account, realtor, inspection)
	return args.Error(0)
}

type fixture struct {
	accounts     *MockAccountRepository
	inspectors   *MockInspectorRepository
	clients      *MockClientRepository
	realtors     *MockRealtorRepository
	inspections  *MockInspectionRepository
	availability *MockAvailabilityChecker
	notifs       *MockNotifier
	service      *Service
}

func newFixture() *fixture {
	f := &fixture{
		accounts:     new(MockAccountRepository),
		inspectors:   new(MockInspectorRepository),
		clients:      new(MockClientRepository),
		realtors:     new(MockRealtorRepository),
		inspections:  new(MockInspectionRepository),
		availability: new(MockAvailabilityChecker),
		notifs:       new(MockNotifier),
	}
	f.service = NewService(
		f.accounts,
		f.inspectors,
		f.clients,
		f.realtors,
		f.inspections,
		f.availability,
		f.notifs,
		Limits{MaxSqft: 20000, MinYearBuilt: 1800},
	)
	return f
}

func testAccount() *domain.Account {
	return &domain.Account{
		ID:   1,
		Name: "Granite State Home Inspections",
		Pricing: domain.PricingConfig{
			Services: []domain.ServiceDef{
				{ShortName: "full", LongName: "Full Home Inspection", Price: 300},
				{ShortName: "pre", LongName: "Pre-Inspection Walkthrough", Price: 150},
				{ShortName: "radon", LongName: "Radon Test", Price: 125},
			},
		},
	}
}

func testInspector() *domain.Inspector {
	return &domain.Inspector{ID: 7, AccountID: 1, FirstName: "Sam", LastName: "Porter"}
}

func validBooking() BookingRequest {
	minute := 480
	return BookingRequest{
		Services: []string{"full", "radon"},
		Property: PropertyPayload{
			Address1:   "12 Elm St",
			City:       "Concord",
			State:      "NH",
			Zip:        "03301",
			Sqft:       2200,
			YearBuilt:  1987,
			Foundation: domain.FoundationBasement,
		},
		Appointment: AppointmentPayload{Date: "20260102", Time: &minute, InspectorID: 7},
		Client1: &ContactPayload{
			FirstName: "Dana",
			LastName:  "Reed",
			Email:     "dana@example.com",
			Phone:     "603-555-0101",
		},
	}
}

func TestSchedule_Success_CreatesClient(t *testing.T) {
	f := newFixture()

	f.accounts.On("GetByID", mock.Anything, int64(1)).Return(testAccount(), nil)
	f.inspectors.On("GetByID", mock.Anything, int64(7)).Return(testInspector(), nil)
	f.availability.On("CanSchedule", mock.Anything, int64(1), int64(7), "20260102", 480).Return(true, nil)
	f.clients.On("FindByEmail", mock.Anything, int64(1), "dana@example.com").Return(nil, nil)
	f.clients.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.accounts.On("NextInspectionNumber", mock.Anything, int64(1)).Return(int64(42), nil)
	f.inspections.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.inspectors.On("AppendInspection", mock.Anything, int64(7), int64(101)).Return(nil)
	f.clients.On("AppendInspection", mock.Anything, int64(21), int64(101)).Return(nil)
	f.notifs.On("PartyAccountCreated", mock.Anything, int64(1), "Dana Reed", "dana@example.com", mock.Anything).Return(nil)
	f.notifs.On("ScheduledClient", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	result, err := f.service.Schedule(context.Background(), 1, validBooking())

	assert.NoError(t, err)
	assert.Equal(t, int64(101), result.InspectionID)
	assert.Equal(t, int64(42), result.InspectionNumber)
	assert.Equal(t, "20260102", result.Date)
	assert.Equal(t, 480, result.Time)

	// The stored password is a bcrypt hash of the plaintext handed to the
	// notifier.
	created := f.clients.Calls[1].Arguments.Get(1).(*domain.Client)
	plaintext := f.notifs.Calls[0].Arguments.String(4)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte(plaintext)))
	f.notifs.AssertExpectations(t)
}

func TestSchedule_ReusesExistingClient(t *testing.T) {
	f := newFixture()

	existing := &domain.Client{ID: 55, AccountID: 1, FirstName: "Dana", LastName: "Reed", Email: "dana@example.com"}

	f.accounts.On("GetByID", mock.Anything, int64(1)).Return(testAccount(), nil)
	f.inspectors.On("GetByID", mock.Anything, int64(7)).Return(testInspector(), nil)
	f.availability.On("CanSchedule", mock.Anything, int64(1), int64(7), "20260102", 480).Return(true, nil)
	f.clients.On("FindByEmail", mock.Anything, int64(1), "dana@example.com").Return(existing, nil)
	f.accounts.On("NextInspectionNumber", mock.Anything, int64(1)).Return(int64(43), nil)
	f.inspections.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.inspectors.On("AppendInspection", mock.Anything, int64(7), int64(101)).Return(nil)
	f.clients.On("AppendInspection", mock.Anything, int64(55), int64(101)).Return(nil)
	f.notifs.On("ScheduledClient", mock.Anything, mock.Anything, existing, mock.Anything).Return(nil)

	// The payload is incomplete for a create; reuse must not validate it.
	req := validBooking()
	req.Client1 = &ContactPayload{Email: "dana@example.com"}

	_, err := f.service.Schedule(context.Background(), 1, req)

	assert.NoError(t, err)
	f.clients.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.notifs.AssertNotCalled(t, "PartyAccountCreated", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSchedule_FullAndPreMutuallyExclusive(t *testing.T) {
	f := newFixture()
	f.accounts.On("GetByID", mock.Anything, int64(1)).Return(testAccount(), nil)

	req := validBooking()
	req.Services = []string{"full", "pre"}

	_, err := f.service.Schedule(context.Background(), 1, req)

	assert.ErrorIs(t, err, ErrInvalidParameter)
	f.inspections.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSchedule_MainServiceRequired(t *testing.T) {
	f := newFixture()
	f.accounts.On("GetByID", mock.Anything, int64(1)).Return(testAccount(), nil)

	req := validBooking()
	req.Services = []string{"radon"}

	_, err := f.service.Schedule(context.Background(), 1, req)

	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestSchedule_RequiresClientOrRealtorEmail(t *testing.T) {
	f := newFixture()
	f.accounts.On("GetByID", mock.Anything, int64(1)).Return(testAccount(), nil)
	f.inspectors.On("GetByID", mock.Anything, int64(7)).Return(testInspector(), nil)
	f.availability.On("CanSchedule", mock.Anything, int64(1), int64(7), "20260102", 480).Return(true, nil)

	req := validBooking()
	req.Client1 = nil

	_, err := f.service.Schedule(context.Background(), 1, req)

	assert.ErrorIs(t, err, ErrInvalidParameter)
	f.accounts.AssertNotCalled(t, "NextInspectionNumber", mock.Anything, mock.Anything)
}

func TestSchedule_ClientEmailsMustDiffer(t *testing.T) {
	f := newFixture()
	f.accounts.On("GetByID", mock.Anything, int64(1)).Return(testAccount(), nil)
	f.inspectors.On("GetByID", mock.Anything, int64(7)).Return(testInspector(), nil)
	f.availability.On("CanSchedule", mock.Anything, int64(1), int64(7), "20260102", 480).Return(true, nil)

	req := validBooking()
	req.Client2 = &ContactPayload{
		FirstName: "Dana",
		LastName:  "Reed",
		Email:     "Dana@Example.com",
		Phone:     "603-555-0101",
	}

	_, err := f.service.Schedule(context.Background(), 1, req)

	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestSchedule_InspectorUnavailable(t *testing.T) {
	f := newFixture()
	f.accounts.On("GetByID", mock.Anything, int64(1)).Return(testAccount(), nil)
	f.inspectors.On("GetByID", mock.Anything, int64(7)).Return(testInspector(), nil)
	f.availability.On("CanSchedule", mock.Anything, int64(1), int64(7), "20260102", 480).Return(false, nil)

	_, err := f.service.Schedule(context.Background(), 1, validBooking())

	assert.ErrorIs(t, err, ErrInvalidParameter)
	assert.ErrorContains(t, err, "inspector unavailable")
}

func TestSchedule_ForeignInspector(t *testing.T) {
	f := newFixture()
	f.accounts.On("GetByID", mock.Anything, int64(1)).Return(testAccount(), nil)
	foreign := testInspector()
	foreign.AccountID = 2
	f.inspectors.On("GetByID", mock.Anything, int64(7)).Return(foreign, nil)

	_, err := f.service.Schedule(context.Background(), 1, validBooking())

	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestSchedule_LosingTheInsertRace(t *testing.T) {
	f := newFixture()

	f.accounts.On("GetByID", mock.Anything, int64(1)).Return(testAccount(), nil)
	f.inspectors.On("GetByID", mock.Anything, int64(7)).Return(testInspector(), nil)
	f.availability.On("CanSchedule", mock.Anything, int64(1), int64(7), "20260102", 480).Return(true, nil)
	f.clients.On("FindByEmail", mock.Anything, int64(1), "dana@example.com").Return(nil, nil)
	f.clients.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.accounts.On("NextInspectionNumber", mock.Anything, int64(1)).Return(int64(44), nil)
	f.inspections.On("Create", mock.Anything, mock.Anything).Return(gorm.ErrDuplicatedKey)
	f.notifs.On("PartyAccountCreated", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	_, err := f.service.Schedule(context.Background(), 1, validBooking())

	assert.ErrorIs(t, err, ErrInvalidParameter)
	assert.ErrorContains(t, err, "inspector unavailable")
	f.inspectors.AssertNotCalled(t, "AppendInspection", mock.Anything, mock.Anything, mock.Anything)
}

func TestSchedule_InvalidProperty_NoWrites(t *testing.T) {
	f := newFixture()
	f.accounts.On("GetByID", mock.Anything, int64(1)).Return(testAccount(), nil)

	req := validBooking()
	req.Property.Zip = "0330"

	_, err := f.service.Schedule(context.Background(), 1, req)

	assert.ErrorIs(t, err, ErrInvalidParameter)
	f.clients.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.inspections.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdatePropertyDetails_Locked(t *testing.T) {
	f := newFixture()
	f.inspections.On("GetByID", mock.Anything, int64(101)).Return(&domain.Inspection{
		ID: 101, AccountID: 1, DetailsLocked: true,
	}, nil)

	err := f.service.UpdatePropertyDetails(context.Background(), 1, 101, validBooking().Property)

	assert.ErrorIs(t, err, ErrInvalidOperation)
	f.inspections.AssertNotCalled(t, "UpdateProperty", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdatePropertyDetails_ForeignAccount(t *testing.T) {
	f := newFixture()
	f.inspections.On("GetByID", mock.Anything, int64(101)).Return(&domain.Inspection{
		ID: 101, AccountID: 2,
	}, nil)

	err := f.service.UpdatePropertyDetails(context.Background(), 1, 101, validBooking().Property)

	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestUpdateAppointment_UnchangedSlotSkipsAvailability(t *testing.T) {
	f := newFixture()
	f.inspections.On("GetByID", mock.Anything, int64(101)).Return(&domain.Inspection{
		ID: 101, AccountID: 1, InspectorID: 7, Date: "20260102", TimeMinute: 480,
	}, nil)
	f.inspectors.On("GetByID", mock.Anything, int64(7)).Return(testInspector(), nil)
	f.inspections.On("UpdateAppointment", mock.Anything, int64(101), int64(7), "20260102", 480).Return(nil)

	minute := 480
	err := f.service.UpdateAppointment(context.Background(), 1, 101, AppointmentPayload{
		Date: "20260102", Time: &minute, InspectorID: 7,
	})

	assert.NoError(t, err)
	f.availability.AssertNotCalled(t, "CanSchedule", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateAppointment_NewSlotChecked(t *testing.T) {
	f := newFixture()
	f.inspections.On("GetByID", mock.Anything, int64(101)).Return(&domain.Inspection{
		ID: 101, AccountID: 1, InspectorID: 7, Date: "20260102", TimeMinute: 480,
	}, nil)
	f.inspectors.On("GetByID", mock.Anything, int64(7)).Return(testInspector(), nil)
	f.availability.On("CanSchedule", mock.Anything, int64(1), int64(7), "20260109", 660).Return(false, nil)

	minute := 660
	err := f.service.UpdateAppointment(context.Background(), 1, 101, AppointmentPayload{
		Date: "20260109", Time: &minute, InspectorID: 7,
	})

	assert.ErrorIs(t, err, ErrInvalidParameter)
	assert.ErrorContains(t, err, "inspector unavailable")
}

func TestUpdateServices_ValidatesAgainstCatalog(t *testing.T) {
	f := newFixture()
	f.inspections.On("GetByID", mock.Anything, int64(101)).Return(&domain.Inspection{
		ID: 101, AccountID: 1,
	}, nil)
	f.accounts.On("GetByID", mock.Anything, int64(1)).Return(testAccount(), nil)

	err := f.service.UpdateServices(context.Background(), 1, 101, []string{"full", "termite"})

	assert.ErrorIs(t, err, ErrInvalidParameter)
	f.inspections.AssertNotCalled(t, "UpdateServices", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateServices_Success(t *testing.T) {
	f := newFixture()
	f.inspections.On("GetByID", mock.Anything, int64(101)).Return(&domain.Inspection{
		ID: 101, AccountID: 1,
	}, nil)
	f.accounts.On("GetByID", mock.Anything, int64(1)).Return(testAccount(), nil)
	f.inspections.On("UpdateServices", mock.Anything, int64(101), "pre", []string{"radon"}).Return(nil)

	err := f.service.UpdateServices(context.Background(), 1, 101, []string{"radon", "pre"})

	assert.NoError(t, err)
	f.inspections.AssertExpectations(t)
}

func TestGetSchedule_ReturnsInspectorInspections(t *testing.T) {
	f := newFixture()
	booked := []*domain.Inspection{
		{ID: 101, InspectorID: 7, Date: "20260102", TimeMinute: 480},
		{ID: 102, InspectorID: 7, Date: "20260103", TimeMinute: 540},
	}
	f.inspections.On("ListByInspectorBetween", mock.Anything, int64(7), "20260101", "20260107").Return(booked, nil)

	got, err := f.service.GetSchedule(context.Background(), 7, "20260101", "20260107")

	assert.NoError(t, err)
	assert.Equal(t, booked, got)
}

func TestGetSchedule_InvalidRange(t *testing.T) {
	f := newFixture()

	_, err := f.service.GetSchedule(context.Background(), 7, "20260107", "20260101")
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = f.service.GetSchedule(context.Background(), 7, "2026-01-01", "20260107")
	assert.ErrorIs(t, err, ErrInvalidParameter)

	f.inspections.AssertNotCalled(t, "ListByInspectorBetween", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
