package entity

import "time"

// SearchRun is the persisted summary of one pipeline run, kept so operators
// can diagnose source failures after the fact.
type SearchRun struct {
	ID            string        `bson:"_id,omitempty"`
	Origin        string        `bson:"origin"`
	Destination   string        `bson:"destination"`
	DepartureDate string        `bson:"departureDate"`
	ReturnDate    string        `bson:"returnDate,omitempty"`
	Report        OutcomeReport `bson:"report"`
	CreatedAt     time.Time     `bson:"createdAt"`
}
