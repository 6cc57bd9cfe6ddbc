package availability

// TimeslotRequest adds or removes one weekly timeslot.
type TimeslotRequest struct {
	Day  string `json:"day" binding:"required"`
	Time *int   `json:"time" binding:"required"`
}

// TimeoffRequest adds or removes one date-specific time-off entry.
type TimeoffRequest struct {
	Date string `json:"date" binding:"required"`
	Time *int   `json:"time" binding:"required"`
}
