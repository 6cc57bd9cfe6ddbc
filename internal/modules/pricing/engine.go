package pricing

import (
	"fmt"
	"math"
	"sort"

	"inspectdesk/internal/domain"
)

// CalculateTieredPrice resolves a tiered price table against a measured
// value: the result is the price of the highest floor strictly below the
// value, or 0 when the value clears no floor. Ties on equal floors resolve
// to the last matching tier.
func CalculateTieredPrice(tiers []domain.PriceTier, value int) float64 {
	ordered := make([]domain.PriceTier, len(tiers))
	copy(ordered, tiers)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Floor < ordered[j].Floor })

	price := 0.0
	for _, t := range ordered {
		if value > t.Floor {
			price = t.Price
		}
	}
	return price
}

// Calculate computes the itemized invoice for a service selection against
// a property profile. The config is treated as immutable; identical inputs
// produce identical output.
func Calculate(cfg domain.PricingConfig, services []string, sqft, age int, foundation string) (domain.Invoice, error) {
	if len(services) == 0 {
		return domain.Invoice{}, fmt.Errorf("%w: invalid services", ErrInvalidParameter)
	}
	if sqft <= 0 {
		return domain.Invoice{}, fmt.Errorf("%w: invalid square footage", ErrInvalidParameter)
	}
	if age <= 0 {
		return domain.Invoice{}, fmt.Errorf("%w: invalid house age", ErrInvalidParameter)
	}
	if foundation != domain.FoundationBasement &&
		foundation != domain.FoundationSlab &&
		foundation != domain.FoundationCrawlspace {
		return domain.Invoice{}, fmt.Errorf("%w: invalid foundation type", ErrInvalidParameter)
	}

	items := []domain.InvoiceItem{}
	subtotal := 0.0

	for _, name := range services {
		svc, ok := cfg.ServiceByShortName(name)
		if !ok {
			return domain.Invoice{}, fmt.Errorf("%w: invalid service name: %s", ErrInvalidParameter, name)
		}
		items = append(items, domain.InvoiceItem{Name: svc.LongName, Price: svc.Price})
		subtotal += svc.Price
	}

	if (contains(services, domain.ServiceFull) || contains(services, domain.ServicePre)) && cfg.SqftPricing.Enabled {
		price := CalculateTieredPrice(cfg.SqftPricing.Ranges, sqft)
		items = append(items, domain.InvoiceItem{
			Name:  fmt.Sprintf("Square Footage: %d", sqft),
			Price: price,
		})
		subtotal += price
	}

	if contains(services, domain.ServiceFull) && cfg.AgePricing.Enabled {
		price := CalculateTieredPrice(cfg.AgePricing.Ranges, age)
		items = append(items, domain.InvoiceItem{
			Name:  fmt.Sprintf("House Age: %d", age),
			Price: price,
		})
		subtotal += price
	}

	if price := cfg.FoundationPricing.For(foundation); price != 0 {
		items = append(items, domain.InvoiceItem{
			Name:  "Foundation: " + foundation,
			Price: price,
		})
		subtotal += price
	}

	tax := 0.0
	taxPercent := 0.0
	if cfg.TaxRate != 0 {
		tax = round2(subtotal * cfg.TaxRate)
		taxPercent = round3(cfg.TaxRate * 100)
	}

	return domain.Invoice{
		Items:      items,
		Subtotal:   subtotal,
		Tax:        tax,
		TaxPercent: taxPercent,
		Total:      subtotal + tax,
	}, nil
}

func contains(services []string, name string) bool {
	for _, s := range services {
		if s == name {
			return true
		}
	}
	return false
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
