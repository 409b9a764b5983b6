package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeEmptyInput           ErrorCode = 100
	ErrCodeInsufficientData     ErrorCode = 101
	ErrCodeInsufficientColumns  ErrorCode = 102
	ErrCodeInvalidParameter     ErrorCode = 103
	ErrCodeInvalidWindow        ErrorCode = 104
	ErrCodeInvalidTicker        ErrorCode = 105
	ErrCodeInvalidConfiguration ErrorCode = 106
	ErrCodeShapeMismatch        ErrorCode = 107

	// Data source errors (200-299)
	ErrCodeNoDataFound     ErrorCode = 200
	ErrCodeFieldMissing    ErrorCode = 201
	ErrCodeFetchFailed     ErrorCode = 202
	ErrCodeQueryFailed     ErrorCode = 203
	ErrCodeInvalidProvider ErrorCode = 204

	// Output errors (300-399)
	ErrCodeRenderFailed      ErrorCode = 300
	ErrCodeReportWriteFailed ErrorCode = 301
)
