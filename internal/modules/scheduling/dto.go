package scheduling

// ContactPayload carries the contact fields of a client or realtor
// submitted with a booking. The address block is optional as a whole:
// supplying any part of it requires the full block.
type ContactPayload struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`

	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Zip     string `json:"zip,omitempty"`

	// Realtor-only fields.
	Affiliation        string `json:"affiliation,omitempty"`
	PrimaryPhone       string `json:"primaryPhone,omitempty"`
	PrimaryPhoneType   string `json:"primaryPhoneType,omitempty"`
	SecondaryPhone     string `json:"secondaryPhone,omitempty"`
	SecondaryPhoneType string `json:"secondaryPhoneType,omitempty"`
}

// PropertyPayload carries the property details of a booking.
type PropertyPayload struct {
	Address1   string `json:"address1"`
	Address2   string `json:"address2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	Zip        string `json:"zip"`
	Sqft       int    `json:"sqft"`
	YearBuilt  int    `json:"year_built"`
	Foundation string `json:"foundation"`
}

// AppointmentPayload carries the requested appointment slot.
type AppointmentPayload struct {
	Date        string `json:"date"`
	Time        *int   `json:"time"`
	InspectorID int64  `json:"inspectorId"`
}

// BookingRequest is the full booking payload.
type BookingRequest struct {
	Services    []string           `json:"services" binding:"required"`
	Property    PropertyPayload    `json:"property" binding:"required"`
	Appointment AppointmentPayload `json:"appointment" binding:"required"`
	Client1     *ContactPayload    `json:"client1,omitempty"`
	Client2     *ContactPayload    `json:"client2,omitempty"`
	Realtor     *ContactPayload    `json:"realtor,omitempty"`
}

// BookingResult reports the committed inspection.
type BookingResult struct {
	InspectionID     int64  `json:"inspection_id"`
	InspectionNumber int64  `json:"inspection_number"`
	Date             string `json:"date"`
	Time             int    `json:"time"`
}

// UpdateServicesRequest replaces an inspection's service selection.
type UpdateServicesRequest struct {
	Services []string `json:"services" binding:"required"`
}
