package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"voyago/models"
	"voyago/services/normalize"
)

// CatalogAdapter covers the listing-style upstreams (cars, tours, transfers).
// They share one wire shape: a flat item list with string prices and ISO-8601
// durations, plus a simple booking call.
type CatalogAdapter struct {
	Client       *Client
	ProviderName string
	ItemKind     string // "car", "tour" or "transfer"
}

type catalogSearchResponse struct {
	Items []json.RawMessage `json:"items"`
}

type catalogItemDTO struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Category   string `json:"category"`
	Currency   string `json:"currency"`
	Price      string `json:"price"`
	Duration   string `json:"duration,omitempty"`
	From       string `json:"from,omitempty"`
	To         string `json:"to,omitempty"`
	Start      string `json:"start,omitempty"`
	End        string `json:"end,omitempty"`
	Vehicle    string `json:"vehicle,omitempty"`
	Operator   string `json:"operator,omitempty"`
	Refundable *bool  `json:"refundable,omitempty"`
}

type catalogBookingResponse struct {
	OrderID   string `json:"order_id"`
	Reference string `json:"reference"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

func (a *CatalogAdapter) Provider() string { return a.ProviderName }
func (a *CatalogAdapter) Kind() string     { return a.ItemKind }

// Search returns normalized offers for the listing criteria.
func (a *CatalogAdapter) Search(ctx context.Context, criteria models.SearchCriteria) ([]models.CanonicalOffer, error) {
	cfg := a.Client.Resolver.Resolve(a.ProviderName)
	if !cfg.Configured() {
		return nil, &ProviderNotConfigured{Provider: a.ProviderName}
	}

	query := url.Values{}
	if criteria.Location != "" {
		query.Set("location", criteria.Location)
	}
	if criteria.Date != "" {
		query.Set("date", criteria.Date)
	}
	if criteria.Category != "" {
		query.Set("category", criteria.Category)
	}

	raw, status, err := a.Client.CallWithConfig(ctx, cfg, cfg.SearchMethod, cfg.SearchPath, query, nil)
	if err != nil {
		return nil, &ProviderSearchFailed{Provider: a.ProviderName, Cause: err}
	}
	if status < 200 || status > 299 {
		return nil, &ProviderSearchFailed{Provider: a.ProviderName, Status: status, Body: string(raw)}
	}

	var resp catalogSearchResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, &ProviderSearchFailed{Provider: a.ProviderName, Status: status, Cause: err}
	}

	offers := make([]models.CanonicalOffer, 0, len(resp.Items))
	for _, element := range resp.Items {
		var dto catalogItemDTO
		if err := json.Unmarshal(element, &dto); err != nil {
			return nil, &ProviderSearchFailed{Provider: a.ProviderName, Status: status, Cause: err}
		}
		offers = append(offers, a.normalize(dto, element))
	}
	return offers, nil
}

// Details fetches one listing by id.
func (a *CatalogAdapter) Details(ctx context.Context, offerID string) (*models.CanonicalOffer, error) {
	cfg := a.Client.Resolver.Resolve(a.ProviderName)
	if !cfg.Configured() {
		return nil, &ProviderNotConfigured{Provider: a.ProviderName}
	}

	raw, status, err := a.Client.CallWithConfig(ctx, cfg, "GET", cfg.DetailsPath+"/"+url.PathEscape(offerID), nil, nil)
	if err != nil {
		return nil, &ProviderSearchFailed{Provider: a.ProviderName, Cause: err}
	}
	if status < 200 || status > 299 {
		return nil, &ProviderSearchFailed{Provider: a.ProviderName, Status: status, Body: string(raw)}
	}

	var dto catalogItemDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		return nil, &ProviderSearchFailed{Provider: a.ProviderName, Status: status, Cause: err}
	}
	offer := a.normalize(dto, raw)
	return &offer, nil
}

// Book creates an upstream reservation for the offers. Not idempotent.
func (a *CatalogAdapter) Book(ctx context.Context, offers []models.CanonicalOffer, travelers []models.Traveler) (*models.CanonicalBookingResult, error) {
	cfg := a.Client.Resolver.Resolve(a.ProviderName)
	if !cfg.Configured() {
		return nil, &ProviderNotConfigured{Provider: a.ProviderName}
	}

	ids := make([]string, 0, len(offers))
	for _, o := range offers {
		ids = append(ids, o.OfferID)
	}
	payload := map[string]interface{}{
		"items":     ids,
		"travelers": travelers,
	}

	raw, status, err := a.Client.CallWithConfig(ctx, cfg, http.MethodPost, cfg.BookPath, nil, payload)
	if err != nil {
		return nil, &ProviderBookingFailed{Provider: a.ProviderName, Cause: err}
	}
	if status < 200 || status > 299 {
		return nil, &ProviderBookingFailed{Provider: a.ProviderName, Status: status, Body: string(raw)}
	}

	var resp catalogBookingResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, &ProviderBookingFailed{Provider: a.ProviderName, Status: status, Cause: err}
	}

	result := &models.CanonicalBookingResult{
		Provider:        a.ProviderName,
		ProviderOrderID: resp.OrderID,
		CreatedAt:       parseUpstreamTime(resp.CreatedAt),
		Travelers:       travelers,
		Offers:          offers,
		Status:          bookingStatus(resp.Status),
		Raw:             raw,
	}
	if resp.Reference != "" {
		ref := resp.Reference
		result.BookingReference = &ref
	}
	return result, nil
}

func (a *CatalogAdapter) normalize(dto catalogItemDTO, raw json.RawMessage) models.CanonicalOffer {
	total := normalize.ParseAmount(dto.Price)

	var slices []models.Slice
	if dto.From != "" || dto.To != "" || dto.Duration != "" {
		minutes := normalize.DurationMinutes(dto.Duration)
		slices = []models.Slice{{
			DurationMinutes: minutes,
			Segments: []models.Segment{{
				Carrier:         dto.Operator,
				Number:          dto.ID,
				Origin:          dto.From,
				Destination:     dto.To,
				DepartureTime:   dto.Start,
				ArrivalTime:     dto.End,
				DurationMinutes: minutes,
				Equipment:       dto.Vehicle,
			}},
		}}
	}

	return models.CanonicalOffer{
		Provider: a.ProviderName,
		OfferID:  dto.ID,
		Kind:     a.ItemKind,
		Slices:   slices,
		Pricing: models.OfferPricing{
			Currency: dto.Currency,
			Total:    total,
			Base:     total,
		},
		Cabins:     normalize.DedupeCabins([]string{dto.Category}),
		Refundable: normalize.Refundable(dto.Refundable != nil, dto.Refundable != nil && *dto.Refundable),
		Raw:        raw,
	}
}
