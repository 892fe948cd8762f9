package constants

// ParseStatus is the outcome of one ExtractReport call, as exported in batch results.
type ParseStatus string

// Stable values (written verbatim into exports and API responses).
const (
	StatusOK           ParseStatus = "OK"           // record extracted
	StatusEmpty        ParseStatus = "EMPTY"        // report states no data for the period
	StatusUnrecognized ParseStatus = "UNRECOGNIZED" // no extractor matched
	StatusRejected     ParseStatus = "REJECTED"     // known legacy layout
	StatusFailed       ParseStatus = "FAILED"       // extraction or provider error
)
