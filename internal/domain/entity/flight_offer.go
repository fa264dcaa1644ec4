package entity

import (
	"strings"
	"time"
)

// RawOffer is one flight offer exactly as a source adapter reported it.
// Field types are unvalidated; timestamps stay as strings until the
// authenticity validator parses them.
type RawOffer struct {
	CarrierCode     string  `json:"carrierCode"`
	FlightNumber    string  `json:"flightNumber"`
	Origin          string  `json:"origin"`
	Destination     string  `json:"destination"`
	DepartureTime   string  `json:"departureTime"`
	ArrivalTime     string  `json:"arrivalTime,omitempty"`
	Price           float64 `json:"price"`
	Currency        string  `json:"currency"`
	DurationSeconds int64   `json:"durationSeconds,omitempty"`
	SourceID        string  `json:"sourceId"`
	AircraftType    string  `json:"aircraftType,omitempty"`
	CabinClass      string  `json:"cabinClass,omitempty"`
	StopCount       int     `json:"stopCount,omitempty"`
}

// FlightOffer is a validated, canonical offer. It is never mutated after
// construction and carries no identity beyond a single pipeline run.
type FlightOffer struct {
	CarrierCode     string    `json:"carrierCode"`
	FlightNumber    string    `json:"flightNumber"`
	Origin          string    `json:"origin"`
	Destination     string    `json:"destination"`
	DepartureTime   time.Time `json:"departureTime"`
	ArrivalTime     time.Time `json:"arrivalTime,omitempty"`
	Price           float64   `json:"price"`
	Currency        string    `json:"currency"`
	DurationSeconds int64     `json:"durationSeconds"`
	SourceID        string    `json:"sourceId"`
	AircraftType    string    `json:"aircraftType,omitempty"`
	CabinClass      string    `json:"cabinClass,omitempty"`
	StopCount       int       `json:"stopCount,omitempty"`
}

// RecordKey identifies the real-world flight behind an offer. Two offers
// with equal keys are the same flight regardless of which source reported
// them.
type RecordKey struct {
	FlightNumber  string
	DepartureUnix int64
}

// Key derives the deduplication identity of an offer.
func (o FlightOffer) Key() RecordKey {
	return RecordKey{
		FlightNumber:  strings.ToUpper(o.FlightNumber),
		DepartureUnix: o.DepartureTime.Unix(),
	}
}
