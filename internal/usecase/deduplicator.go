package usecase

import "flightsearch-service/internal/domain/entity"

// Deduplicator collapses validated offers into a canonical set keyed by
// (flight number, departure time). First seen wins; later duplicates are
// dropped whole, their fields are not merged into the kept offer.
type Deduplicator struct{}

// NewDeduplicator creates a new deduplicator
func NewDeduplicator() *Deduplicator {
	return &Deduplicator{}
}

// Dedupe returns the input offers with duplicates removed, preserving the
// order of first occurrence. Calling it on its own output is a no-op.
func (d *Deduplicator) Dedupe(offers []entity.FlightOffer) []entity.FlightOffer {
	seen := make(map[entity.RecordKey]struct{}, len(offers))
	unique := make([]entity.FlightOffer, 0, len(offers))

	for _, offer := range offers {
		key := offer.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, offer)
	}

	return unique
}
