package scheduling

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"inspectdesk/internal/domain"
	"inspectdesk/internal/pkg/dates"
	"inspectdesk/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Service struct {
	accounts     AccountRepository
	inspectors   InspectorRepository
	clients      ClientRepository
	realtors     RealtorRepository
	inspections  InspectionRepository
	availability AvailabilityChecker
	notifs       Notifier
	limits       Limits
}

func NewService(
	accounts AccountRepository,
	inspectors InspectorRepository,
	clients ClientRepository,
	realtors RealtorRepository,
	inspections InspectionRepository,
	availability AvailabilityChecker,
	notifs Notifier,
	limits Limits,
) *Service {
	return &Service{
		accounts:     accounts,
		inspectors:   inspectors,
		clients:      clients,
		realtors:     realtors,
		inspections:  inspections,
		availability: availability,
		notifs:       notifs,
		limits:       limits,
	}
}

// Schedule validates and commits a new booking. Validation is eager and
// read-only: nothing is written until every check has passed, so a failed
// booking leaves no records behind. The inspection insert's unique
// constraint is the final word on the slot; losing the race maps to the
// same "inspector unavailable" outcome as failing CanSchedule.
func (s *Service) Schedule(ctx context.Context, accountID int64, req BookingRequest) (*BookingResult, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: an account by that id does not exist", ErrInvalidParameter)
		}
		return nil, err
	}

	main, additional, err := validateServices(account, req.Services)
	if err != nil {
		return nil, err
	}
	if err := validateProperty(req.Property, s.limits); err != nil {
		return nil, err
	}
	if err := validateAppointmentShape(req.Appointment); err != nil {
		return nil, err
	}

	inspector, err := s.inspectors.GetByID(ctx, req.Appointment.InspectorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: an inspector by that id does not exist", ErrInvalidParameter)
		}
		return nil, err
	}
	if inspector.AccountID != accountID {
		return nil, fmt.Errorf("%w: inspector does not belong to the account", ErrInvalidParameter)
	}

	minute := *req.Appointment.Time
	bookable, err := s.availability.CanSchedule(ctx, accountID, inspector.ID, req.Appointment.Date, minute)
	if err != nil {
		return nil, err
	}
	if !bookable {
		return nil, fmt.Errorf("%w: inspector unavailable", ErrInvalidParameter)
	}

	if !hasEmail(req.Client1) && !hasEmail(req.Realtor) {
		return nil, fmt.Errorf("%w: a client or realtor email is required", ErrInvalidParameter)
	}
	if hasEmail(req.Client1) && hasEmail(req.Client2) &&
		normalizeEmail(req.Client1.Email) == normalizeEmail(req.Client2.Email) {
		return nil, fmt.Errorf("%w: client emails must differ", ErrInvalidParameter)
	}

	// Resolve parties by email before committing anything. Existing
	// records are reused as-is; only the to-be-created payloads get the
	// full contact validation.
	existingClient1, err := s.lookupClient(ctx, accountID, req.Client1, "client")
	if err != nil {
		return nil, err
	}
	existingClient2, err := s.lookupClient(ctx, accountID, req.Client2, "client")
	if err != nil {
		return nil, err
	}
	existingRealtor, err := s.lookupRealtor(ctx, accountID, req.Realtor)
	if err != nil {
		return nil, err
	}

	// Validation is complete; commit.
	client1, err := s.ensureClient(ctx, account, req.Client1, existingClient1)
	if err != nil {
		return nil, err
	}
	client2, err := s.ensureClient(ctx, account, req.Client2, existingClient2)
	if err != nil {
		return nil, err
	}
	realtor, err := s.ensureRealtor(ctx, account, req.Realtor, existingRealtor)
	if err != nil {
		return nil, err
	}

	number, err := s.accounts.NextInspectionNumber(ctx, accountID)
	if err != nil {
		return nil, err
	}

	inspection := &domain.Inspection{
		Number:      number,
		AccountID:   accountID,
		InspectorID: inspector.ID,
		Property: domain.Property{
			Address1:   req.Property.Address1,
			Address2:   req.Property.Address2,
			City:       req.Property.City,
			State:      req.Property.State,
			Zip:        req.Property.Zip,
			Sqft:       req.Property.Sqft,
			YearBuilt:  req.Property.YearBuilt,
			Foundation: req.Property.Foundation,
		},
		MainService:        main,
		AdditionalServices: additional,
		Date:               req.Appointment.Date,
		TimeMinute:         minute,
	}
	if client1 != nil {
		inspection.Client1ID = &client1.ID
	}
	if client2 != nil {
		inspection.Client2ID = &client2.ID
	}
	if realtor != nil {
		inspection.RealtorID = &realtor.ID
	}

	if err := s.inspections.Create(ctx, inspection); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, fmt.Errorf("%w: inspector unavailable", ErrInvalidParameter)
		}
		return nil, err
	}

	if err := s.linkParties(ctx, inspector.ID, inspection.ID, client1, client2, realtor); err != nil {
		return nil, err
	}

	s.notifyScheduled(ctx, account, inspection, client1, client2, realtor)

	return &BookingResult{
		InspectionID:     inspection.ID,
		InspectionNumber: inspection.Number,
		Date:             inspection.Date,
		Time:             inspection.TimeMinute,
	}, nil
}

// UpdatePropertyDetails replaces the property block of an unlocked
// inspection, applying the same validation as booking.
func (s *Service) UpdatePropertyDetails(ctx context.Context, accountID, inspectionID int64, p PropertyPayload) error {
	inspection, err := s.ownedInspection(ctx, accountID, inspectionID)
	if err != nil {
		return err
	}
	if inspection.DetailsLocked {
		return fmt.Errorf("%w: inspection details are locked", ErrInvalidOperation)
	}
	if err := validateProperty(p, s.limits); err != nil {
		return err
	}
	return s.inspections.UpdateProperty(ctx, inspectionID, domain.Property{
		Address1:   p.Address1,
		Address2:   p.Address2,
		City:       p.City,
		State:      p.State,
		Zip:        p.Zip,
		Sqft:       p.Sqft,
		YearBuilt:  p.YearBuilt,
		Foundation: p.Foundation,
	})
}

// UpdateAppointment moves an unlocked inspection to a new slot. The target
// slot must pass the same availability check as booking unless it is the
// inspection's current slot.
func (s *Service) UpdateAppointment(ctx context.Context, accountID, inspectionID int64, a AppointmentPayload) error {
	inspection, err := s.ownedInspection(ctx, accountID, inspectionID)
	if err != nil {
		return err
	}
	if inspection.DetailsLocked {
		return fmt.Errorf("%w: inspection details are locked", ErrInvalidOperation)
	}
	if err := validateAppointmentShape(a); err != nil {
		return err
	}

	inspector, err := s.inspectors.GetByID(ctx, a.InspectorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: an inspector by that id does not exist", ErrInvalidParameter)
		}
		return err
	}
	if inspector.AccountID != accountID {
		return fmt.Errorf("%w: inspector does not belong to the account", ErrInvalidParameter)
	}

	minute := *a.Time
	unchanged := inspection.InspectorID == a.InspectorID &&
		inspection.Date == a.Date &&
		inspection.TimeMinute == minute
	if !unchanged {
		bookable, err := s.availability.CanSchedule(ctx, accountID, a.InspectorID, a.Date, minute)
		if err != nil {
			return err
		}
		if !bookable {
			return fmt.Errorf("%w: inspector unavailable", ErrInvalidParameter)
		}
	}

	if err := s.inspections.UpdateAppointment(ctx, inspectionID, a.InspectorID, a.Date, minute); err != nil {
		if repository.IsDuplicateKey(err) {
			return fmt.Errorf("%w: inspector unavailable", ErrInvalidParameter)
		}
		return err
	}
	return nil
}

// UpdateServices replaces an unlocked inspection's service selection.
func (s *Service) UpdateServices(ctx context.Context, accountID, inspectionID int64, services []string) error {
	inspection, err := s.ownedInspection(ctx, accountID, inspectionID)
	if err != nil {
		return err
	}
	if inspection.DetailsLocked {
		return fmt.Errorf("%w: inspection details are locked", ErrInvalidOperation)
	}

	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return err
	}
	main, additional, err := validateServices(account, services)
	if err != nil {
		return err
	}
	return s.inspections.UpdateServices(ctx, inspectionID, main, additional)
}

// GetSchedule returns the inspector's inspections within an inclusive date
// range, ordered by date and time.
func (s *Service) GetSchedule(ctx context.Context, inspectorID int64, from, until string) ([]*domain.Inspection, error) {
	fromDay, err := dates.Parse(from)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date range", ErrInvalidParameter)
	}
	untilDay, err := dates.Parse(until)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date range", ErrInvalidParameter)
	}
	if untilDay.Before(fromDay) {
		return nil, fmt.Errorf("%w: invalid date range", ErrInvalidParameter)
	}
	return s.inspections.ListByInspectorBetween(ctx, inspectorID, from, until)
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

// lookupClient resolves a contact payload to an existing client, or
// validates it for creation when no record matches by email.
func (s *Service) lookupClient(ctx context.Context, accountID int64, payload *ContactPayload, label string) (*domain.Client, error) {
	if !hasEmail(payload) {
		return nil, nil
	}
	existing, err := s.clients.FindByEmail(ctx, accountID, payload.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	if err := validateContact(payload, label); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *Service) lookupRealtor(ctx context.Context, accountID int64, payload *ContactPayload) (*domain.Realtor, error) {
	if !hasEmail(payload) {
		return nil, nil
	}
	existing, err := s.realtors.FindByEmail(ctx, accountID, payload.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	if err := validateContact(payload, "realtor"); err != nil {
		return nil, err
	}
	return nil, nil
}

// ensureClient returns the existing record untouched, or creates a new
// one with a generated password. The plaintext password leaves the
// process only inside the account-created notification.
func (s *Service) ensureClient(ctx context.Context, account *domain.Account, payload *ContactPayload, existing *domain.Client) (*domain.Client, error) {
	if !hasEmail(payload) {
		return nil, nil
	}
	if existing != nil {
		return existing, nil
	}

	password := uuid.NewString()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	client := &domain.Client{
		AccountID:    account.ID,
		FirstName:    payload.FirstName,
		LastName:     payload.LastName,
		Email:        normalizeEmail(payload.Email),
		Phone:        payload.Phone,
		Address:      payload.Address,
		City:         payload.City,
		State:        payload.State,
		Zip:          payload.Zip,
		PasswordHash: string(hash),
	}
	if err := s.clients.Create(ctx, client); err != nil {
		return nil, err
	}

	if s.notifs != nil {
		if err := s.notifs.PartyAccountCreated(ctx, account.ID, client.Name(), client.Email, password); err != nil {
			log.Printf("notify account_created client=%d err=%v", client.ID, err)
		}
	}
	return client, nil
}

func (s *Service) ensureRealtor(ctx context.Context, account *domain.Account, payload *ContactPayload, existing *domain.Realtor) (*domain.Realtor, error) {
	if !hasEmail(payload) {
		return nil, nil
	}
	if existing != nil {
		return existing, nil
	}

	password := uuid.NewString()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	realtor := &domain.Realtor{
		AccountID:          account.ID,
		FirstName:          payload.FirstName,
		LastName:           payload.LastName,
		Email:              normalizeEmail(payload.Email),
		Phone:              payload.Phone,
		Affiliation:        payload.Affiliation,
		PrimaryPhone:       payload.PrimaryPhone,
		PrimaryPhoneType:   payload.PrimaryPhoneType,
		SecondaryPhone:     payload.SecondaryPhone,
		SecondaryPhoneType: payload.SecondaryPhoneType,
		Address:            payload.Address,
		City:               payload.City,
		State:              payload.State,
		Zip:                payload.Zip,
		PasswordHash:       string(hash),
	}
	if err := s.realtors.Create(ctx, realtor); err != nil {
		return nil, err
	}

	if s.notifs != nil {
		if err := s.notifs.PartyAccountCreated(ctx, account.ID, realtor.Name(), realtor.Email, password); err != nil {
			log.Printf("notify account_created realtor=%d err=%v", realtor.ID, err)
		}
	}
	return realtor, nil
}

func (s *Service) linkParties(ctx context.Context, inspectorID, inspectionID int64, client1, client2 *domain.Client, realtor *domain.Realtor) error {
	if err := s.inspectors.AppendInspection(ctx, inspectorID, inspectionID); err != nil {
		return err
	}
	for _, c := range []*domain.Client{client1, client2} {
		if c == nil {
			continue
		}
		if err := s.clients.AppendInspection(ctx, c.ID, inspectionID); err != nil {
			return err
		}
	}
	if realtor != nil {
		if err := s.realtors.AppendInspection(ctx, realtor.ID, inspectionID); err != nil {
			return err
		}
		for _, c := range []*domain.Client{client1, client2} {
			if c == nil {
				continue
			}
			if err := s.realtors.AppendClient(ctx, realtor.ID, c.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Service) notifyScheduled(ctx context.Context, account *domain.Account, inspection *domain.Inspection, client1, client2 *domain.Client, realtor *domain.Realtor) {
	if s.notifs == nil {
		return
	}
	for _, c := range []*domain.Client{client1, client2} {
		if c == nil {
			continue
		}
		if err := s.notifs.ScheduledClient(ctx, account, c, inspection); err != nil {
			log.Printf("notify scheduled client=%d inspection=%d err=%v", c.ID, inspection.ID, err)
		}
	}
	if realtor != nil {
		if err := s.notifs.ScheduledRealtor(ctx, account, realtor, inspection); err != nil {
			log.Printf("notify scheduled realtor=%d inspection=%d err=%v", realtor.ID, inspection.ID, err)
		}
	}
}

func hasEmail(c *ContactPayload) bool {
	return c != nil && strings.TrimSpace(c.Email) != ""
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}
