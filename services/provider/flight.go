package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"voyago/models"
	"voyago/services/normalize"
)

// Upstream flight offer shapes. Prices arrive as strings and durations as
// ISO-8601; the normalizer deals with both.
type flightSearchResponse struct {
	Data []json.RawMessage `json:"data"`
}

type flightOfferDTO struct {
	ID          string             `json:"id"`
	Itineraries []flightItinerary  `json:"itineraries"`
	Price       flightPrice        `json:"price"`
	Travelers   []travelerPricing  `json:"travelerPricings"`
	Policies    *flightPolicies    `json:"policies,omitempty"`
}

type flightItinerary struct {
	Duration string          `json:"duration"`
	Segments []flightSegment `json:"segments"`
}

type flightSegment struct {
	Departure struct {
		IataCode string `json:"iataCode"`
		At       string `json:"at"`
	} `json:"departure"`
	Arrival struct {
		IataCode string `json:"iataCode"`
		At       string `json:"at"`
	} `json:"arrival"`
	CarrierCode string `json:"carrierCode"`
	Number      string `json:"number"`
	Duration    string `json:"duration"`
	Aircraft    struct {
		Code string `json:"code"`
	} `json:"aircraft"`
}

type flightPrice struct {
	Currency string `json:"currency"`
	Total    string `json:"total"`
	Base     string `json:"base"`
}

type travelerPricing struct {
	FareDetails []struct {
		Cabin string `json:"cabin"`
	} `json:"fareDetailsBySegment"`
}

type flightPolicies struct {
	Refundable bool `json:"refundable"`
}

type flightOrderResponse struct {
	Data struct {
		ID                string `json:"id"`
		Status            string `json:"status"`
		CreatedAt         string `json:"createdAt"`
		AssociatedRecords []struct {
			Reference string `json:"reference"`
		} `json:"associatedRecords"`
	} `json:"data"`
}

// FlightAdapter talks to the flight GDS: search, re-quote and book.
type FlightAdapter struct {
	Client       *Client
	ProviderName string
}

func (a *FlightAdapter) Provider() string { return a.ProviderName }
func (a *FlightAdapter) Kind() string     { return "flight" }

// Search returns normalized flight offers for the criteria. Either the full
// normalized list is returned or an error; never a partial list.
func (a *FlightAdapter) Search(ctx context.Context, criteria models.SearchCriteria) ([]models.CanonicalOffer, error) {
	cfg := a.Client.Resolver.Resolve(a.ProviderName)
	if !cfg.Configured() {
		return nil, &ProviderNotConfigured{Provider: a.ProviderName}
	}

	query := url.Values{}
	query.Set("originLocationCode", criteria.Origin)
	query.Set("destinationLocationCode", criteria.Destination)
	query.Set("departureDate", criteria.DepartureDate)
	if criteria.ReturnDate != "" {
		query.Set("returnDate", criteria.ReturnDate)
	}
	adults := criteria.Adults
	if adults == 0 {
		adults = 1
	}
	query.Set("adults", strconv.Itoa(adults))
	if criteria.Children > 0 {
		query.Set("children", strconv.Itoa(criteria.Children))
	}
	if criteria.CabinClass != "" {
		query.Set("travelClass", criteria.CabinClass)
	}

	raw, status, err := a.Client.CallWithConfig(ctx, cfg, cfg.SearchMethod, cfg.SearchPath, query, nil)
	if err != nil {
		return nil, &ProviderSearchFailed{Provider: a.ProviderName, Cause: err}
	}
	if status < 200 || status > 299 {
		return nil, &ProviderSearchFailed{Provider: a.ProviderName, Status: status, Body: string(raw)}
	}

	var resp flightSearchResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, &ProviderSearchFailed{Provider: a.ProviderName, Status: status, Cause: err}
	}

	offers := make([]models.CanonicalOffer, 0, len(resp.Data))
	for _, element := range resp.Data {
		var dto flightOfferDTO
		if err := json.Unmarshal(element, &dto); err != nil {
			return nil, &ProviderSearchFailed{Provider: a.ProviderName, Status: status, Cause: err}
		}
		offers = append(offers, a.normalize(dto, element))
	}
	return offers, nil
}

// Price re-quotes the held offers; upstream prices drift between search and
// purchase. Offer identity must survive the round trip unchanged.
func (a *FlightAdapter) Price(ctx context.Context, offers []models.CanonicalOffer) ([]models.CanonicalOffer, error) {
	cfg := a.Client.Resolver.Resolve(a.ProviderName)
	if !cfg.Configured() {
		return nil, &ProviderNotConfigured{Provider: a.ProviderName}
	}

	payload := map[string]interface{}{
		"data": map[string]interface{}{
			"type":         "flight-offers-pricing",
			"flightOffers": rawOffers(offers),
		},
	}
	raw, status, err := a.Client.CallWithConfig(ctx, cfg, http.MethodPost, cfg.PricePath, nil, payload)
	if err != nil {
		return nil, &ProviderPricingFailed{Provider: a.ProviderName, Cause: err}
	}
	if status < 200 || status > 299 {
		return nil, &ProviderPricingFailed{Provider: a.ProviderName, Status: status, Body: string(raw)}
	}

	var resp struct {
		Data struct {
			FlightOffers []json.RawMessage `json:"flightOffers"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, &ProviderPricingFailed{Provider: a.ProviderName, Status: status, Cause: err}
	}

	priced := make([]models.CanonicalOffer, 0, len(resp.Data.FlightOffers))
	for _, element := range resp.Data.FlightOffers {
		var dto flightOfferDTO
		if err := json.Unmarshal(element, &dto); err != nil {
			return nil, &ProviderPricingFailed{Provider: a.ProviderName, Status: status, Cause: err}
		}
		priced = append(priced, a.normalize(dto, element))
	}
	return priced, nil
}

// Book instructs the GDS to issue a reservation for the offers. Not
// idempotent: every call creates a new upstream order.
func (a *FlightAdapter) Book(ctx context.Context, offers []models.CanonicalOffer, travelers []models.Traveler) (*models.CanonicalBookingResult, error) {
	cfg := a.Client.Resolver.Resolve(a.ProviderName)
	if !cfg.Configured() {
		return nil, &ProviderNotConfigured{Provider: a.ProviderName}
	}

	payload := map[string]interface{}{
		"data": map[string]interface{}{
			"type":         "flight-order",
			"flightOffers": rawOffers(offers),
			"travelers":    travelers,
		},
	}
	raw, status, err := a.Client.CallWithConfig(ctx, cfg, http.MethodPost, cfg.BookPath, nil, payload)
	if err != nil {
		return nil, &ProviderBookingFailed{Provider: a.ProviderName, Cause: err}
	}
	if status < 200 || status > 299 {
		return nil, &ProviderBookingFailed{Provider: a.ProviderName, Status: status, Body: string(raw)}
	}

	var resp flightOrderResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, &ProviderBookingFailed{Provider: a.ProviderName, Status: status, Cause: err}
	}

	result := &models.CanonicalBookingResult{
		Provider:        a.ProviderName,
		ProviderOrderID: resp.Data.ID,
		CreatedAt:       parseUpstreamTime(resp.Data.CreatedAt),
		Travelers:       travelers,
		Offers:          offers,
		Status:          bookingStatus(resp.Data.Status),
		Raw:             raw,
	}
	if len(resp.Data.AssociatedRecords) > 0 && resp.Data.AssociatedRecords[0].Reference != "" {
		ref := resp.Data.AssociatedRecords[0].Reference
		result.BookingReference = &ref
	}
	return result, nil
}

func (a *FlightAdapter) normalize(dto flightOfferDTO, raw json.RawMessage) models.CanonicalOffer {
	slices := make([]models.Slice, 0, len(dto.Itineraries))
	for _, itin := range dto.Itineraries {
		segments := make([]models.Segment, 0, len(itin.Segments))
		for _, seg := range itin.Segments {
			segments = append(segments, models.Segment{
				Carrier:         seg.CarrierCode,
				Number:          seg.Number,
				Origin:          seg.Departure.IataCode,
				Destination:     seg.Arrival.IataCode,
				DepartureTime:   seg.Departure.At,
				ArrivalTime:     seg.Arrival.At,
				DurationMinutes: normalize.DurationMinutes(seg.Duration),
				Equipment:       seg.Aircraft.Code,
			})
		}
		slices = append(slices, models.Slice{
			Segments:        segments,
			DurationMinutes: normalize.DurationMinutes(itin.Duration),
		})
	}

	var cabins []string
	for _, tp := range dto.Travelers {
		for _, fd := range tp.FareDetails {
			cabins = append(cabins, fd.Cabin)
		}
	}

	total := normalize.ParseAmount(dto.Price.Total)
	base := normalize.ParseAmount(dto.Price.Base)
	taxes := total - base
	if taxes < 0 {
		taxes = 0
	}

	return models.CanonicalOffer{
		Provider: a.ProviderName,
		OfferID:  dto.ID,
		Kind:     "flight",
		Slices:   slices,
		Pricing: models.OfferPricing{
			Currency: dto.Price.Currency,
			Total:    total,
			Base:     base,
			Taxes:    taxes,
		},
		Cabins:     normalize.DedupeCabins(cabins),
		Refundable: normalize.Refundable(dto.Policies != nil, dto.Policies != nil && dto.Policies.Refundable),
		Raw:        raw,
	}
}

// rawOffers replays the untouched upstream payloads; the GDS expects its own
// offer documents back, not our canonical shape.
func rawOffers(offers []models.CanonicalOffer) []json.RawMessage {
	out := make([]json.RawMessage, 0, len(offers))
	for _, o := range offers {
		out = append(out, o.Raw)
	}
	return out
}

func parseUpstreamTime(s string) time.Time {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Now()
}

func bookingStatus(upstream string) string {
	switch upstream {
	case "CONFIRMED", "ISSUED", "TICKETED":
		return models.BookingStatusConfirmed
	case "PENDING", "ON_HOLD":
		return models.BookingStatusPending
	case "CANCELLED":
		return models.BookingStatusCancelled
	default:
		return models.BookingStatusUnknown
	}
}
