package domain

import (
	"fmt"
	"time"
)

// Property carries the details of the house being inspected.
type Property struct {
	Address1   string `json:"address1"`
	Address2   string `json:"address2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	Zip        string `json:"zip"`
	Sqft       int    `json:"sqft"`
	YearBuilt  int    `json:"year_built"`
	Foundation string `json:"foundation"`
}

// FormatAddress renders the property address as a single display string.
func (p Property) FormatAddress() string {
	addr := p.Address1
	if p.Address2 != "" {
		addr += " " + p.Address2
	}
	return fmt.Sprintf("%s, %s, %s %s", addr, p.City, p.State, p.Zip)
}

// InvoiceItem is one line of a computed invoice.
type InvoiceItem struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Invoice is the deterministic, itemized output of the pricing engine.
// TaxPercent is the display value (rate x 100), not the fraction.
type Invoice struct {
	Items      []InvoiceItem `json:"items"`
	Subtotal   float64       `json:"subtotal"`
	Tax        float64       `json:"tax"`
	TaxPercent float64       `json:"tax_percent"`
	Total      float64       `json:"total"`
}

// PaymentRecord is one received payment against an inspection's balance.
type PaymentRecord struct {
	Amount   float64   `json:"amount"`
	Method   string    `json:"method"`
	Received time.Time `json:"received"`
}

// Payment is the nested payment state of an inspection.
type Payment struct {
	InvoiceSent bool            `json:"invoice_sent"`
	Invoiced    float64         `json:"invoiced"`
	Balance     float64         `json:"balance"`
	Pricing     *Invoice        `json:"pricing,omitempty"`
	History     []PaymentRecord `json:"history"`
}

// Inspection is a scheduled appointment. Property, services and the
// appointment itself stay editable until DetailsLocked is set by invoice
// generation; there is no unlock transition.
type Inspection struct {
	ID     int64 `json:"id"`
	Number int64 `json:"number"`

	AccountID   int64  `json:"account_id"`
	InspectorID int64  `json:"inspector_id"`
	Client1ID   *int64 `json:"client1_id,omitempty"`
	Client2ID   *int64 `json:"client2_id,omitempty"`
	RealtorID   *int64 `json:"realtor_id,omitempty"`

	Property Property `json:"property"`

	MainService        string   `json:"main_service"`
	AdditionalServices []string `json:"additional_services"`

	// Date is a YYYYMMDD string, TimeMinute a minute-of-day value.
	Date       string `json:"date"`
	TimeMinute int    `json:"time"`

	DetailsLocked bool    `json:"details_locked"`
	Payment       Payment `json:"payment"`

	Scheduled time.Time `json:"scheduled"`
}

// Services returns the full selected service set, main service first.
func (i *Inspection) Services() []string {
	out := make([]string, 0, len(i.AdditionalServices)+1)
	out = append(out, i.MainService)
	out = append(out, i.AdditionalServices...)
	return out
}
