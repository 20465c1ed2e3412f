package models

// SearchCriteria covers every provider kind; adapters pick the fields that
// apply to them and ignore the rest.
type SearchCriteria struct {
	// Flights.
	Origin        string `json:"origin,omitempty"`
	Destination   string `json:"destination,omitempty"`
	DepartureDate string `json:"departure_date,omitempty"` // YYYY-MM-DD
	ReturnDate    string `json:"return_date,omitempty"`
	Adults        int    `json:"adults,omitempty"`
	Children      int    `json:"children,omitempty"`
	CabinClass    string `json:"cabin_class,omitempty"`

	// Hotels.
	CityCode     string `json:"city_code,omitempty"`
	CheckInDate  string `json:"check_in_date,omitempty"`
	CheckOutDate string `json:"check_out_date,omitempty"`
	Rooms        int    `json:"rooms,omitempty"`

	// Cars / tours / transfers.
	Location string `json:"location,omitempty"`
	Date     string `json:"date,omitempty"`
	Category string `json:"category,omitempty"`
}
