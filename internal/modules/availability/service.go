package availability

import (
	"context"
	"fmt"
	"sort"

	"inspectdesk/internal/domain"
	"inspectdesk/internal/pkg/dates"
)

// Slot is one open appointment start for one inspector.
type Slot struct {
	Time          int    `json:"time"`
	InspectorID   int64  `json:"inspector_id"`
	InspectorName string `json:"inspector_name"`
}

type Service struct {
	inspectors  InspectorRepository
	inspections InspectionRepository
}

func NewService(inspectors InspectorRepository, inspections InspectionRepository) *Service {
	return &Service{
		inspectors:  inspectors,
		inspections: inspections,
	}
}

// ownedInspector loads an inspector and verifies it belongs to the account.
// A foreign inspector reads the same as a missing one: callers learn
// nothing about other tenants' rosters.
func (s *Service) ownedInspector(ctx context.Context, accountID, inspectorID int64) (*domain.Inspector, error) {
	inspector, err := s.inspectors.GetByID(ctx, inspectorID)
	if err != nil {
		return nil, err
	}
	if inspector.AccountID != accountID {
		return nil, fmt.Errorf("%w: an inspector by that id does not exist", ErrInvalidParameter)
	}
	return inspector, nil
}

// GetTimeslots returns the inspector's weekly availability pattern.
func (s *Service) GetTimeslots(ctx context.Context, accountID, inspectorID int64) (domain.WeeklyTimeslots, error) {
	inspector, err := s.ownedInspector(ctx, accountID, inspectorID)
	if err != nil {
		return domain.WeeklyTimeslots{}, err
	}
	return inspector.Timeslots, nil
}

// AddTimeslot inserts a minute-of-day value into the inspector's bucket
// for the given weekday, keeping the bucket sorted ascending.
func (s *Service) AddTimeslot(ctx context.Context, accountID, inspectorID int64, day string, minute int) error {
	if !domain.IsWeekday(day) {
		return fmt.Errorf("%w: invalid day of the week", ErrInvalidParameter)
	}
	if minute < 0 || minute >= domain.MinutesPerDay {
		return fmt.Errorf("%w: invalid time", ErrInvalidParameter)
	}

	inspector, err := s.ownedInspector(ctx, accountID, inspectorID)
	if err != nil {
		return err
	}

	bucket, _ := inspector.Timeslots.Bucket(day)
	for _, t := range bucket {
		if t == minute {
			return fmt.Errorf("%w: duplicate timeslot", ErrDuplicateEntry)
		}
	}

	bucket = append(bucket, minute)
	sort.Ints(bucket)
	inspector.Timeslots.SetBucket(day, bucket)

	return s.inspectors.SaveTimeslots(ctx, inspectorID, inspector.Timeslots)
}

// RemoveTimeslot deletes a minute-of-day value from the inspector's bucket
// for the given weekday.
func (s *Service) RemoveTimeslot(ctx context.Context, accountID, inspectorID int64, day string, minute int) error {
	if !domain.IsWeekday(day) {
		return fmt.Errorf("%w: invalid day of the week", ErrInvalidParameter)
	}
	if minute < 0 || minute >= domain.MinutesPerDay {
		return fmt.Errorf("%w: invalid time", ErrInvalidParameter)
	}

	inspector, err := s.ownedInspector(ctx, accountID, inspectorID)
	if err != nil {
		return err
	}

	bucket, _ := inspector.Timeslots.Bucket(day)
	idx := -1
	for i, t := range bucket {
		if t == minute {
			idx = i
			break
		}
	}
	if idx == -1 {
		return fmt.Errorf("%w: nonexistent timeslot", ErrNotFound)
	}

	inspector.Timeslots.SetBucket(day, append(bucket[:idx], bucket[idx+1:]...))

	return s.inspectors.SaveTimeslots(ctx, inspectorID, inspector.Timeslots)
}

// GetTimeoff returns every time-off entry on record. No window is applied:
// the store holds the full history and trimming is the caller's choice.
func (s *Service) GetTimeoff(ctx context.Context, accountID, inspectorID int64) ([]domain.TimeOffEntry, error) {
	inspector, err := s.ownedInspector(ctx, accountID, inspectorID)
	if err != nil {
		return nil, err
	}
	if inspector.TimeOff == nil {
		return []domain.TimeOffEntry{}, nil
	}
	return inspector.TimeOff, nil
}

// AddTimeoff records a date-specific exception removing one recurring
// timeslot.
func (s *Service) AddTimeoff(ctx context.Context, accountID, inspectorID int64, date string, minute int) error {
	if _, err := dates.Parse(date); err != nil {
		return fmt.Errorf("%w: invalid date", ErrInvalidParameter)
	}
	if minute < 0 || minute >= domain.MinutesPerDay {
		return fmt.Errorf("%w: invalid time", ErrInvalidParameter)
	}

	inspector, err := s.ownedInspector(ctx, accountID, inspectorID)
	if err != nil {
		return err
	}

	for _, e := range inspector.TimeOff {
		if e.Date == date && e.Time == minute {
			return fmt.Errorf("%w: duplicate time-off slot", ErrDuplicateEntry)
		}
	}

	entries := append(inspector.TimeOff, domain.TimeOffEntry{Date: date, Time: minute})
	return s.inspectors.SaveTimeOff(ctx, inspectorID, entries)
}

// RemoveTimeoff deletes a time-off exception.
func (s *Service) RemoveTimeoff(ctx context.Context, accountID, inspectorID int64, date string, minute int) error {
	if _, err := dates.Parse(date); err != nil {
		return fmt.Errorf("%w: invalid date", ErrInvalidParameter)
	}
	if minute < 0 || minute >= domain.MinutesPerDay {
		return fmt.Errorf("%w: invalid time", ErrInvalidParameter)
	}

	inspector, err := s.ownedInspector(ctx, accountID, inspectorID)
	if err != nil {
		return err
	}

	idx := -1
	for i, e := range inspector.TimeOff {
		if e.Date == date && e.Time == minute {
			idx = i
			break
		}
	}
	if idx == -1 {
		return fmt.Errorf("%w: nonexistent time-off slot", ErrNotFound)
	}

	entries := append(inspector.TimeOff[:idx], inspector.TimeOff[idx+1:]...)
	return s.inspectors.SaveTimeOff(ctx, inspectorID, entries)
}

// CanSchedule reports whether the inspector is bookable at (date, minute):
// the minute must be in the weekly bucket for that date's weekday, not
// excluded by a time-off entry, and not already taken by an inspection.
// This is a pure predicate; the inspection insert's unique constraint is
// what actually closes the booking race.
func (s *Service) CanSchedule(ctx context.Context, accountID, inspectorID int64, date string, minute int) (bool, error) {
	day, err := dates.Parse(date)
	if err != nil {
		return false, fmt.Errorf("%w: invalid date", ErrInvalidParameter)
	}
	if minute < 0 || minute >= domain.MinutesPerDay {
		return false, fmt.Errorf("%w: invalid time", ErrInvalidParameter)
	}

	inspector, err := s.inspectors.GetByID(ctx, inspectorID)
	if err != nil {
		return false, err
	}
	if inspector.AccountID != accountID {
		return false, fmt.Errorf("%w: inspector does not belong to the account", ErrInvalidParameter)
	}

	bucket, _ := inspector.Timeslots.Bucket(dates.WeekdayName(day))
	available := false
	for _, t := range bucket {
		if t == minute {
			available = true
			break
		}
	}
	if !available {
		return false, nil
	}

	for _, e := range inspector.TimeOff {
		if e.Date == date && e.Time == minute {
			return false, nil
		}
	}

	booked, err := s.inspections.ExistsAt(ctx, inspectorID, date, minute)
	if err != nil {
		return false, err
	}
	return !booked, nil
}

// GetAvailabilities lists every open slot for the account's inspectors
// over the inclusive [from, until] date range, keyed by date. Slots
// covered by a time-off entry or an existing inspection are excluded.
func (s *Service) GetAvailabilities(ctx context.Context, accountID int64, from, until string) (map[string][]Slot, error) {
	start, err := dates.Parse(from)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid start date", ErrInvalidParameter)
	}
	end, err := dates.Parse(until)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid end date", ErrInvalidParameter)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end date precedes start date", ErrInvalidParameter)
	}

	inspectors, err := s.inspectors.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	bookedRows, err := s.inspections.BookedBetween(ctx, accountID, from, until)
	if err != nil {
		return nil, err
	}
	type slotKey struct {
		inspectorID int64
		date        string
		minute      int
	}
	booked := make(map[slotKey]struct{}, len(bookedRows))
	for _, b := range bookedRows {
		booked[slotKey{b.InspectorID, b.Date, b.TimeMinute}] = struct{}{}
	}

	out := make(map[string][]Slot)
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		date := dates.Format(day)
		weekday := dates.WeekdayName(day)
		slots := []Slot{}

		for _, inspector := range inspectors {
			bucket, _ := inspector.Timeslots.Bucket(weekday)
			for _, minute := range bucket {
				if timeOffAt(inspector.TimeOff, date, minute) {
					continue
				}
				if _, taken := booked[slotKey{inspector.ID, date, minute}]; taken {
					continue
				}
				slots = append(slots, Slot{
					Time:          minute,
					InspectorID:   inspector.ID,
					InspectorName: inspector.Name(),
				})
			}
		}

		sort.Slice(slots, func(i, j int) bool {
			if slots[i].Time != slots[j].Time {
				return slots[i].Time < slots[j].Time
			}
			return slots[i].InspectorID < slots[j].InspectorID
		})
		out[date] = slots
	}

	return out, nil
}

func timeOffAt(entries []domain.TimeOffEntry, date string, minute int) bool {
	for _, e := range entries {
		if e.Date == date && e.Time == minute {
			return true
		}
	}
	return false
}
