package invoice

import (
	"fmt"
	"strings"

	"voyago/models"
)

// Generator renders a customer-facing invoice for a booked order.
type Generator interface {
	Generate(record *models.BookingRecord) ([]byte, error)
}

// TextGenerator renders a plain-text invoice. It is the body attached to the
// confirmation email.
type TextGenerator struct {
	CompanyName string
}

func NewTextGenerator(companyName string) *TextGenerator {
	if companyName == "" {
		companyName = "Voyago"
	}
	return &TextGenerator{CompanyName: companyName}
}

func (g *TextGenerator) Generate(record *models.BookingRecord) ([]byte, error) {
	if record == nil {
		return nil, fmt.Errorf("cannot generate invoice for nil booking record")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s Booking Invoice\n", g.CompanyName)
	fmt.Fprintf(&b, "Order: %s\n", record.OrderNumber)
	fmt.Fprintf(&b, "Status: %s\n", record.Status)
	if record.BookingReference != nil && *record.BookingReference != "" {
		fmt.Fprintf(&b, "Reference: %s\n", *record.BookingReference)
	}
	fmt.Fprintf(&b, "Date: %s\n\n", record.UpdatedAt.Format("2006-01-02 15:04"))

	for i, result := range record.Results {
		fmt.Fprintf(&b, "Item %d: %s", i+1, result.Provider)
		if result.BookingReference != nil && *result.BookingReference != "" {
			fmt.Fprintf(&b, " (ref %s)", *result.BookingReference)
		}
		b.WriteString("\n")
		for _, offer := range result.Offers {
			fmt.Fprintf(&b, "  %s %s: %.2f %s\n", offer.Kind, offer.OfferID, offer.Pricing.Total, offer.Pricing.Currency)
		}
	}

	fmt.Fprintf(&b, "\nTotal: %.2f %s\n", record.Total, record.Currency)
	return []byte(b.String()), nil
}
