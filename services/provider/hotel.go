package provider

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"voyago/models"
	"voyago/services/normalize"
)

type hotelSearchResponse struct {
	Hotels []json.RawMessage `json:"hotels"`
}

type hotelOfferDTO struct {
	Code         json.Number `json:"code"`
	Name         string      `json:"name"`
	CategoryName string      `json:"categoryName"`
	Currency     string      `json:"currency"`
	MinRate      string      `json:"minRate"`
	TotalNet     string      `json:"totalNet"`
	Refundable   *bool       `json:"refundable,omitempty"`
	Amenities    []string    `json:"amenities,omitempty"`
}

// HotelAdapter talks to the hotel aggregator: search and per-hotel details.
type HotelAdapter struct {
	Client       *Client
	ProviderName string
}

func (a *HotelAdapter) Provider() string { return a.ProviderName }
func (a *HotelAdapter) Kind() string     { return "hotel" }

// Search returns normalized hotel offers for the stay criteria.
func (a *HotelAdapter) Search(ctx context.Context, criteria models.SearchCriteria) ([]models.CanonicalOffer, error) {
	cfg := a.Client.Resolver.Resolve(a.ProviderName)
	if !cfg.Configured() {
		return nil, &ProviderNotConfigured{Provider: a.ProviderName}
	}

	query := url.Values{}
	query.Set("destinationCode", criteria.CityCode)
	query.Set("checkIn", criteria.CheckInDate)
	query.Set("checkOut", criteria.CheckOutDate)
	rooms := criteria.Rooms
	if rooms == 0 {
		rooms = 1
	}
	query.Set("rooms", strconv.Itoa(rooms))
	if criteria.Adults > 0 {
		query.Set("adults", strconv.Itoa(criteria.Adults))
	}

	raw, status, err := a.Client.CallWithConfig(ctx, cfg, cfg.SearchMethod, cfg.SearchPath, query, nil)
	if err != nil {
		return nil, &ProviderSearchFailed{Provider: a.ProviderName, Cause: err}
	}
	if status < 200 || status > 299 {
		return nil, &ProviderSearchFailed{Provider: a.ProviderName, Status: status, Body: string(raw)}
	}

	var resp hotelSearchResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, &ProviderSearchFailed{Provider: a.ProviderName, Status: status, Cause: err}
	}

	offers := make([]models.CanonicalOffer, 0, len(resp.Hotels))
	for _, element := range resp.Hotels {
		var dto hotelOfferDTO
		if err := json.Unmarshal(element, &dto); err != nil {
			return nil, &ProviderSearchFailed{Provider: a.ProviderName, Status: status, Cause: err}
		}
		offers = append(offers, a.normalize(dto, element))
	}
	return offers, nil
}

// Details fetches one hotel offer by its provider code.
func (a *HotelAdapter) Details(ctx context.Context, offerID string) (*models.CanonicalOffer, error) {
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

	var dto hotelOfferDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		return nil, &ProviderSearchFailed{Provider: a.ProviderName, Status: status, Cause: err}
	}
	offer := a.normalize(dto, raw)
	return &offer, nil
}

func (a *HotelAdapter) normalize(dto hotelOfferDTO, raw json.RawMessage) models.CanonicalOffer {
	// Per-night minRate is the fallback when the aggregator omits a stay total.
	amount := dto.TotalNet
	if amount == "" {
		amount = dto.MinRate
	}
	total := normalize.ParseAmount(amount)

	categories := append([]string{dto.CategoryName}, dto.Amenities...)

	return models.CanonicalOffer{
		Provider: a.ProviderName,
		OfferID:  dto.Code.String(),
		Kind:     "hotel",
		Pricing: models.OfferPricing{
			Currency: dto.Currency,
			Total:    total,
			Base:     total,
		},
		Cabins:     normalize.DedupeCabins(categories),
		Refundable: normalize.Refundable(dto.Refundable != nil, dto.Refundable != nil && *dto.Refundable),
		Raw:        raw,
	}
}
