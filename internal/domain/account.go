package domain

import "time"

// Foundation types accepted for a property.
const (
	FoundationBasement   = "basement"
	FoundationSlab       = "slab"
	FoundationCrawlspace = "crawlspace"
)

// Main service short names. An inspection carries exactly one of these.
const (
	ServiceFull = "full"
	ServicePre  = "pre"
)

// ServiceDef is one entry of an account's service catalog.
type ServiceDef struct {
	ShortName string  `json:"short_name"`
	LongName  string  `json:"long_name"`
	Price     float64 `json:"price"`
}

// PriceTier maps a floor value (sqft or years) to a price. Tiers are kept
// in ascending floor order; the applicable tier is the highest floor
// strictly below the measured value.
type PriceTier struct {
	Floor int     `json:"floor"`
	Price float64 `json:"price"`
}

// TierPricing is a tiered price table that can be switched off per account.
type TierPricing struct {
	Enabled bool        `json:"enabled"`
	Ranges  []PriceTier `json:"ranges"`
}

// FoundationPricing holds flat adjustments per foundation type.
type FoundationPricing struct {
	Basement   float64 `json:"basement"`
	Slab       float64 `json:"slab"`
	Crawlspace float64 `json:"crawlspace"`
}

// For returns the configured adjustment for a foundation type.
func (f FoundationPricing) For(foundation string) float64 {
	switch foundation {
	case FoundationBasement:
		return f.Basement
	case FoundationSlab:
		return f.Slab
	case FoundationCrawlspace:
		return f.Crawlspace
	}
	return 0
}

// PricingConfig is the account's pricing configuration, loaded per request
// and treated as an immutable value by the pricing engine.
type PricingConfig struct {
	Services          []ServiceDef      `json:"services"`
	SqftPricing       TierPricing       `json:"sqft_pricing"`
	AgePricing        TierPricing       `json:"age_pricing"`
	FoundationPricing FoundationPricing `json:"foundation_pricing"`
	// TaxRate is a fraction (0.08 = 8%), not a percentage.
	TaxRate float64 `json:"tax"`
}

// ServiceByShortName looks a service up in the catalog.
func (c PricingConfig) ServiceByShortName(short string) (ServiceDef, bool) {
	for _, s := range c.Services {
		if s.ShortName == short {
			return s, true
		}
	}
	return ServiceDef{}, false
}

// Account is a tenant: one home-inspection company with its roster and
// pricing configuration.
type Account struct {
	ID      int64     `json:"id"`
	Created time.Time `json:"created"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`

	// InspectionCounter is the last issued inspection number. Numbers are
	// unique and strictly increasing per account; the increment happens in
	// one statement on the store.
	InspectionCounter int64 `json:"inspection_counter"`

	Pricing PricingConfig `json:"pricing"`
}
