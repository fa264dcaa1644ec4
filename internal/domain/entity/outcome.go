package entity

// Failure reasons recorded in the outcome report.
const (
	ReasonTimeout   = "timeout"
	ReasonNoAdapter = "no adapter registered"
)

// SourceFailure records why a single source produced no usable data.
type SourceFailure struct {
	SourceID string `json:"sourceId" bson:"sourceId"`
	Reason   string `json:"reason" bson:"reason"`
}

// OutcomeReport summarizes one pipeline run: which sources were attempted,
// which failed and why, and how many records survived each stage. It is
// built by the orchestrator and handed to the caller alongside the results.
type OutcomeReport struct {
	SourcesAttempted int             `json:"sourcesAttempted" bson:"sourcesAttempted"`
	SourcesSucceeded int             `json:"sourcesSucceeded" bson:"sourcesSucceeded"`
	SourcesFailed    int             `json:"sourcesFailed" bson:"sourcesFailed"`
	Failures         []SourceFailure `json:"failures,omitempty" bson:"failures,omitempty"`
	RawRecords       int             `json:"rawRecords" bson:"rawRecords"`
	ValidatedRecords int             `json:"validatedRecords" bson:"validatedRecords"`
	DedupedRecords   int             `json:"dedupedRecords" bson:"dedupedRecords"`

	// RejectionsByCheck counts validation rejections per failing check.
	RejectionsByCheck map[string]int `json:"rejectionsByCheck,omitempty" bson:"rejectionsByCheck,omitempty"`
}
