package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"voyago/models"

	"go.uber.org/zap"
)

const flightSearchBody = `{"data":[{
	"id":"OFFER-1",
	"itineraries":[{"duration":"PT5H30M","segments":[
		{"departure":{"iataCode":"JED","at":"2026-10-01T08:00:00"},
		 "arrival":{"iataCode":"DXB","at":"2026-10-01T11:15:00"},
		 "carrierCode":"SV","number":"552","duration":"PT3H15M","aircraft":{"code":"320"}},
		{"departure":{"iataCode":"DXB","at":"2026-10-01T12:30:00"},
		 "arrival":{"iataCode":"BOM","at":"2026-10-01T14:45:00"},
		 "carrierCode":"SV","number":"710","duration":"PT2H15M","aircraft":{"code":"321"}}]}],
	"price":{"currency":"SAR","total":"1,234.50 SAR","base":"1,000.00"},
	"travelerPricings":[{"fareDetailsBySegment":[{"cabin":"ECONOMY"},{"cabin":"ECONOMY"}]}]
}]}`

func testClient(t *testing.T, baseURL string, extra map[string]string) *Client {
	t.Helper()
	values := map[string]string{}
	for k, v := range extra {
		values[k] = v
	}
	store := &fakeStore{
		values:   values,
		baseURLs: map[string]string{},
	}
	if baseURL != "" {
		store.baseURLs["amadeus"] = baseURL
	}
	resolver := &DefaultConfigResolver{Store: store}
	return NewClient(resolver, nil, 5*time.Second, zap.NewNop())
}

func TestFlightSearchNormalizes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("originLocationCode") != "JED" {
			t.Errorf("missing origin in query: %v", r.URL.Query())
		}
		w.Write([]byte(flightSearchBody))
	}))
	defer srv.Close()

	adapter := &FlightAdapter{Client: testClient(t, srv.URL, nil), ProviderName: "amadeus"}
	offers, err := adapter.Search(context.Background(), models.SearchCriteria{
		Origin: "JED", Destination: "BOM", DepartureDate: "2026-10-01", Adults: 1,
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(offers) != 1 {
		t.Fatalf("expected 1 offer, got %d", len(offers))
	}

	offer := offers[0]
	if offer.OfferID != "OFFER-1" || offer.Provider != "amadeus" || offer.Kind != "flight" {
		t.Fatalf("unexpected identity: %+v", offer)
	}
	if offer.Pricing.Total != 1234.50 {
		t.Fatalf("expected coerced total 1234.50, got %v", offer.Pricing.Total)
	}
	if offer.Pricing.Taxes != 234.50 {
		t.Fatalf("expected taxes 234.50, got %v", offer.Pricing.Taxes)
	}
	if len(offer.Slices) != 1 || len(offer.Slices[0].Segments) != 2 {
		t.Fatalf("unexpected slice shape: %+v", offer.Slices)
	}
	if offer.Slices[0].DurationMinutes != 330 {
		t.Fatalf("expected 330 minute itinerary, got %d", offer.Slices[0].DurationMinutes)
	}
	if offer.Slices[0].Segments[1].DurationMinutes != 135 {
		t.Fatalf("expected 135 minute segment, got %d", offer.Slices[0].Segments[1].DurationMinutes)
	}
	if len(offer.Cabins) != 1 || offer.Cabins[0] != "ECONOMY" {
		t.Fatalf("expected deduplicated cabins, got %v", offer.Cabins)
	}
	if offer.Refundable != nil {
		t.Fatalf("expected unknown refundability, got %v", *offer.Refundable)
	}
	if len(offer.Raw) == 0 {
		t.Fatal("expected raw upstream payload to be retained")
	}
}

func TestSearchUnconfiguredProvider(t *testing.T) {
	adapter := &FlightAdapter{Client: testClient(t, "", nil), ProviderName: "amadeus"}

	_, err := adapter.Search(context.Background(), models.SearchCriteria{Origin: "JED", Destination: "BOM"})
	var nc *ProviderNotConfigured
	if !errors.As(err, &nc) {
		t.Fatalf("expected ProviderNotConfigured, got %v", err)
	}
	if nc.Provider != "amadeus" {
		t.Fatalf("unexpected provider in error: %q", nc.Provider)
	}
}

func TestSearchUpstreamErrorWrapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"errors":[{"title":"upstream exploded"}]}`))
	}))
	defer srv.Close()

	adapter := &FlightAdapter{Client: testClient(t, srv.URL, nil), ProviderName: "amadeus"}
	offers, err := adapter.Search(context.Background(), models.SearchCriteria{Origin: "JED", Destination: "BOM"})

	var sf *ProviderSearchFailed
	if !errors.As(err, &sf) {
		t.Fatalf("expected ProviderSearchFailed, got %v", err)
	}
	if sf.Status != http.StatusBadGateway {
		t.Fatalf("expected wrapped status 502, got %d", sf.Status)
	}
	if offers != nil {
		t.Fatal("expected no partial results alongside an error")
	}
}

func TestPricePreservesOfferID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search":
			w.Write([]byte(flightSearchBody))
		case "/price":
			// The upstream echoes back the offers it was sent, repriced.
			var req struct {
				Data struct {
					FlightOffers []json.RawMessage `json:"flightOffers"`
				} `json:"data"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("decode pricing request: %v", err)
			}
			resp := map[string]interface{}{
				"data": map[string]interface{}{"flightOffers": req.Data.FlightOffers},
			}
			json.NewEncoder(w).Encode(resp)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	adapter := &FlightAdapter{Client: testClient(t, srv.URL, nil), ProviderName: "amadeus"}

	offers, err := adapter.Search(context.Background(), models.SearchCriteria{Origin: "JED", Destination: "BOM"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	priced, err := adapter.Price(context.Background(), offers)
	if err != nil {
		t.Fatalf("price: %v", err)
	}
	if len(priced) != 1 {
		t.Fatalf("expected 1 priced offer, got %d", len(priced))
	}
	if priced[0].OfferID != offers[0].OfferID {
		t.Fatalf("offer id changed across pricing: %q -> %q", offers[0].OfferID, priced[0].OfferID)
	}
}

func TestAPIKeyAuthAttached(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("x-api-key"); got != "key-123" {
			t.Errorf("expected api key header, got %q", got)
		}
		w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	adapter := &FlightAdapter{
		Client:       testClient(t, srv.URL, map[string]string{"amadeus/api_key": "key-123"}),
		ProviderName: "amadeus",
	}
	if _, err := adapter.Search(context.Background(), models.SearchCriteria{Origin: "JED", Destination: "BOM"}); err != nil {
		t.Fatalf("search: %v", err)
	}
}

func TestFlightBookMapsOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{
			"id":"ORDER-9",
			"status":"CONFIRMED",
			"createdAt":"2026-10-01T09:00:00Z",
			"associatedRecords":[{"reference":"PNR123"}]
		}}`))
	}))
	defer srv.Close()

	adapter := &FlightAdapter{Client: testClient(t, srv.URL, nil), ProviderName: "amadeus"}
	travelers := []models.Traveler{{ID: "1", FirstName: "Aziz", LastName: "Khan"}}

	result, err := adapter.Book(context.Background(), []models.CanonicalOffer{{OfferID: "OFFER-1", Raw: json.RawMessage(`{}`)}}, travelers)
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if result.ProviderOrderID != "ORDER-9" {
		t.Fatalf("unexpected order id %q", result.ProviderOrderID)
	}
	if result.Status != models.BookingStatusConfirmed {
		t.Fatalf("unexpected status %q", result.Status)
	}
	if result.BookingReference == nil || *result.BookingReference != "PNR123" {
		t.Fatalf("expected reference PNR123, got %v", result.BookingReference)
	}
}

func TestFlightBookUpstreamErrorWrapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"errors":[{"title":"SEGMENT SELL FAILURE"}]}`))
	}))
	defer srv.Close()

	adapter := &FlightAdapter{Client: testClient(t, srv.URL, nil), ProviderName: "amadeus"}

	_, err := adapter.Book(context.Background(), []models.CanonicalOffer{{OfferID: "OFFER-1", Raw: json.RawMessage(`{}`)}}, nil)

	var bookFailed *ProviderBookingFailed
	if !errors.As(err, &bookFailed) {
		t.Fatalf("expected ProviderBookingFailed, got %v", err)
	}
	if bookFailed.Status != http.StatusBadGateway {
		t.Fatalf("expected upstream status 502, got %d", bookFailed.Status)
	}
	if !strings.Contains(err.Error(), "booking failed") {
		t.Fatalf("failure cause should name the booking operation, got %q", err.Error())
	}
}
