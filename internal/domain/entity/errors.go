package entity

import "fmt"

// QueryInvalidError reports a malformed search query. No fetch is attempted
// when the query itself is wrong.
type QueryInvalidError struct {
	Field  string
	Detail string
}

func (e *QueryInvalidError) Error() string {
	return fmt.Sprintf("invalid query: %s: %s", e.Field, e.Detail)
}

// NoDataAvailableError is the terminal failure when zero offers survive
// validation and deduplication across all sources. It carries the full
// outcome report so callers can diagnose which sources failed and why.
// Synthetic data is never substituted for this failure.
type NoDataAvailableError struct {
	Report *OutcomeReport
}

func (e *NoDataAvailableError) Error() string {
	if e.Report == nil {
		return "no flight data available"
	}
	return fmt.Sprintf("no flight data available: %d sources attempted, %d failed, %d raw records, %d validated",
		e.Report.SourcesAttempted, e.Report.SourcesFailed, e.Report.RawRecords, e.Report.ValidatedRecords)
}
