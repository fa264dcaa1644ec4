package entity

// SourceCategory classifies a flight data source.
type SourceCategory string

const (
	CategoryDirectCarrier SourceCategory = "direct-carrier"
	CategoryAggregator    SourceCategory = "aggregator"
)

// SourceDescriptor is the static identity of one external flight data
// source. Descriptors are loaded once at startup and never mutated.
type SourceDescriptor struct {
	ID           string         `json:"id"`
	DisplayName  string         `json:"displayName"`
	Category     SourceCategory `json:"category"`
	EndpointHint string         `json:"endpointHint"`
}
