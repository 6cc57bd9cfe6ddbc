package domain

// Client is a contact record created lazily during scheduling when no
// existing record matches by email.
type Client struct {
	ID        int64  `json:"id"`
	AccountID int64  `json:"account_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`

	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Zip     string `json:"zip,omitempty"`

	PasswordHash string `json:"-"`

	InspectionIDs []int64 `json:"inspections"`
}

// Name returns the client's display name.
func (c *Client) Name() string {
	return c.FirstName + " " + c.LastName
}

// Realtor is a contact record for the referring real-estate agent.
type Realtor struct {
	ID        int64  `json:"id"`
	AccountID int64  `json:"account_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`

	Affiliation        string `json:"affiliation,omitempty"`
	PrimaryPhone       string `json:"primary_phone,omitempty"`
	PrimaryPhoneType   string `json:"primary_phone_type,omitempty"`
	SecondaryPhone     string `json:"secondary_phone,omitempty"`
	SecondaryPhoneType string `json:"secondary_phone_type,omitempty"`

	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Zip     string `json:"zip,omitempty"`

	PasswordHash string `json:"-"`

	InspectionIDs []int64 `json:"inspections"`
	ClientIDs     []int64 `json:"clients"`
}

// Name returns the realtor's display name.
func (r *Realtor) Name() string {
	return r.FirstName + " " + r.LastName
}
