package entity

// DateLayout is the wire format for query dates.
const DateLayout = "2006-01-02"

// SearchQuery describes one flight search request.
type SearchQuery struct {
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	DepartureDate string `json:"departureDate"`
	ReturnDate    string `json:"returnDate,omitempty"`
}
