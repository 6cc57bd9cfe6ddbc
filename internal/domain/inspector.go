package domain

// Canonical weekday names, in calendar order starting Monday. Timeslot
// buckets are keyed by these names only.
var Weekdays = []string{
	"monday",
	"tuesday",
	"wednesday",
	"thursday",
	"friday",
	"saturday",
	"sunday",
}

// IsWeekday reports whether day is one of the seven canonical names.
func IsWeekday(day string) bool {
	for _, d := range Weekdays {
		if d == day {
			return true
		}
	}
	return false
}

// MinutesPerDay bounds a minute-of-day value: valid times are in [0,1440).
const MinutesPerDay = 1440

// WeeklyTimeslots holds an inspector's recurring availability: for each
// weekday, the minute-of-day values at which an inspection may start.
// Each bucket is kept sorted ascending with no duplicates.
type WeeklyTimeslots struct {
	Monday    []int `json:"monday"`
	Tuesday   []int `json:"tuesday"`
	Wednesday []int `json:"wednesday"`
	Thursday  []int `json:"thursday"`
	Friday    []int `json:"friday"`
	Saturday  []int `json:"saturday"`
	Sunday    []int `json:"sunday"`
}

// Bucket returns the slice for the named weekday. The second result is
// false for a non-canonical name.
func (t *WeeklyTimeslots) Bucket(day string) ([]int, bool) {
	switch day {
	case "monday":
		return t.Monday, true
	case "tuesday":
		return t.Tuesday, true
	case "wednesday":
		return t.Wednesday, true
	case "thursday":
		return t.Thursday, true
	case "friday":
		return t.Friday, true
	case "saturday":
		return t.Saturday, true
	case "sunday":
		return t.Sunday, true
	}
	return nil, false
}

// SetBucket replaces the slice for the named weekday.
func (t *WeeklyTimeslots) SetBucket(day string, slots []int) {
	switch day {
	case "monday":
		t.Monday = slots
	case "tuesday":
		t.Tuesday = slots
	case "wednesday":
		t.Wednesday = slots
	case "thursday":
		t.Thursday = slots
	case "friday":
		t.Friday = slots
	case "saturday":
		t.Saturday = slots
	case "sunday":
		t.Sunday = slots
	}
}

// TimeOffEntry removes one recurring timeslot on one specific date.
// Date is a YYYYMMDD string, Time a minute-of-day value.
type TimeOffEntry struct {
	Date string `json:"date"`
	Time int    `json:"time"`
}

// Inspector belongs to exactly one account.
type Inspector struct {
	ID        int64  `json:"id"`
	AccountID int64  `json:"account_id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`

	PasswordHash string `json:"-"`

	Timeslots WeeklyTimeslots `json:"timeslots"`
	TimeOff   []TimeOffEntry  `json:"timeoff"`

	// InspectionIDs is the backreference list maintained by the scheduler.
	InspectionIDs []int64 `json:"inspections"`
}

// Name returns the inspector's display name.
func (i *Inspector) Name() string {
	return i.FirstName + " " + i.LastName
}
