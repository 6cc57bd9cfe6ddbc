package scheduling

import (
	"fmt"
	"regexp"
	"time"

	"inspectdesk/internal/domain"
	"inspectdesk/internal/pkg/dates"
)

const (
	maxAddressLen = 100
	maxCityLen    = 50
	maxNameLen    = 50
)

var (
	nameRe  = regexp.MustCompile(`^[A-Za-z][A-Za-z '.-]*$`)
	cityRe  = regexp.MustCompile(`^[A-Za-z][A-Za-z '.-]*$`)
	stateRe = regexp.MustCompile(`^[A-Z]{2}$`)
	zipRe   = regexp.MustCompile(`^[0-9]{5}$`)
	emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phoneRe = regexp.MustCompile(`^\+?[0-9 ().-]{7,20}$`)
)

// Limits are the configurable property validation bounds.
type Limits struct {
	MaxSqft      int
	MinYearBuilt int
}

// validateServices checks the service selection against the account's
// catalog and splits it into the main service and the additional ones.
// Exactly one of full/pre must be present.
func validateServices(account *domain.Account, services []string) (main string, additional []string, err error) {
	if len(services) == 0 {
		return "", nil, fmt.Errorf("%w: no services selected", ErrInvalidParameter)
	}

	additional = make([]string, 0, len(services))
	for _, name := range services {
		if name == domain.ServiceFull || name == domain.ServicePre {
			if main != "" {
				return "", nil, fmt.Errorf("%w: full and pre inspections are mutually exclusive", ErrInvalidParameter)
			}
			main = name
			continue
		}
		if _, ok := account.Pricing.ServiceByShortName(name); !ok {
			return "", nil, fmt.Errorf("%w: invalid service name: %s", ErrInvalidParameter, name)
		}
		additional = append(additional, name)
	}
	if main == "" {
		return "", nil, fmt.Errorf("%w: a full or pre inspection is required", ErrInvalidParameter)
	}
	return main, additional, nil
}

func validateProperty(p PropertyPayload, limits Limits) error {
	if p.Address1 == "" || len(p.Address1) > maxAddressLen {
		return fmt.Errorf("%w: invalid address", ErrInvalidParameter)
	}
	if len(p.Address2) > maxAddressLen {
		return fmt.Errorf("%w: invalid address line 2", ErrInvalidParameter)
	}
	if p.City == "" || len(p.City) > maxCityLen || !cityRe.MatchString(p.City) {
		return fmt.Errorf("%w: invalid city", ErrInvalidParameter)
	}
	if !stateRe.MatchString(p.State) {
		return fmt.Errorf("%w: invalid state", ErrInvalidParameter)
	}
	if !zipRe.MatchString(p.Zip) {
		return fmt.Errorf("%w: invalid zip code", ErrInvalidParameter)
	}
	if p.Sqft <= 0 || p.Sqft > limits.MaxSqft {
		return fmt.Errorf("%w: invalid square footage", ErrInvalidParameter)
	}
	if p.YearBuilt < limits.MinYearBuilt || p.YearBuilt > time.Now().Year() {
		return fmt.Errorf("%w: invalid year built", ErrInvalidParameter)
	}
	if p.Foundation != domain.FoundationBasement &&
		p.Foundation != domain.FoundationSlab &&
		p.Foundation != domain.FoundationCrawlspace {
		return fmt.Errorf("%w: invalid foundation type", ErrInvalidParameter)
	}
	return nil
}

func validateAppointmentShape(a AppointmentPayload) error {
	if _, err := dates.Parse(a.Date); err != nil {
		return fmt.Errorf("%w: invalid date", ErrInvalidParameter)
	}
	if a.Time == nil || *a.Time < 0 || *a.Time >= domain.MinutesPerDay {
		return fmt.Errorf("%w: invalid time", ErrInvalidParameter)
	}
	if a.InspectorID == 0 {
		return fmt.Errorf("%w: invalid inspector", ErrInvalidParameter)
	}
	return nil
}

// validateContact checks a full contact payload for the create path. The
// address block is all-or-nothing: supplying any of address/city/state/zip
// requires a valid complete block.
func validateContact(c *ContactPayload, label string) error {
	if c.FirstName == "" || len(c.FirstName) > maxNameLen || !nameRe.MatchString(c.FirstName) {
		return fmt.Errorf("%w: invalid %s first name", ErrInvalidParameter, label)
	}
	if c.LastName == "" || len(c.LastName) > maxNameLen || !nameRe.MatchString(c.LastName) {
		return fmt.Errorf("%w: invalid %s last name", ErrInvalidParameter, label)
	}
	if !emailRe.MatchString(c.Email) {
		return fmt.Errorf("%w: invalid %s email", ErrInvalidParameter, label)
	}
	if !phoneRe.MatchString(c.Phone) {
		return fmt.Errorf("%w: invalid %s phone", ErrInvalidParameter, label)
	}

	if c.Address != "" || c.City != "" || c.State != "" || c.Zip != "" {
		if c.Address == "" || len(c.Address) > maxAddressLen {
			return fmt.Errorf("%w: invalid %s address", ErrInvalidParameter, label)
		}
		if c.City == "" || len(c.City) > maxCityLen || !cityRe.MatchString(c.City) {
			return fmt.Errorf("%w: invalid %s city", ErrInvalidParameter, label)
		}
		if !stateRe.MatchString(c.State) {
			return fmt.Errorf("%w: invalid %s state", ErrInvalidParameter, label)
		}
		if !zipRe.MatchString(c.Zip) {
			return fmt.Errorf("%w: invalid %s zip code", ErrInvalidParameter, label)
		}
	}
	return nil
}
