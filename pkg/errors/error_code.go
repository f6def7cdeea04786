package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Configuration errors (100-199)
	ErrCodeInvalidParameter       ErrorCode = 100
	ErrCodeInvalidConfiguration   ErrorCode = 101
	ErrCodeInvalidParameterSpec   ErrorCode = 102
	ErrCodeInvalidProgressionMode ErrorCode = 103
	ErrCodeMissingParameter       ErrorCode = 104
	ErrCodeInsufficientData       ErrorCode = 105
	ErrCodeInvalidFailurePolicy   ErrorCode = 106

	// Data/Resource errors (200-299)
	ErrCodeDataNotFound    ErrorCode = 200
	ErrCodeQueryFailed     ErrorCode = 201
	ErrCodeMetricNotFound  ErrorCode = 202
	ErrCodeUnknownStrategy ErrorCode = 203

	// Backtest errors (600-699)
	ErrCodeBacktestFailed     ErrorCode = 600
	ErrCodeBacktestTimeout    ErrorCode = 601
	ErrCodeDegenerateSignal   ErrorCode = 602
	ErrCodeNoSuccessfulPairs  ErrorCode = 603
	ErrCodeBacktestNotRun     ErrorCode = 604
	ErrCodeBacktestIndexError ErrorCode = 605
)

// IsConfiguration reports whether the code belongs to the configuration range.
func (c ErrorCode) IsConfiguration() bool {
	return c >= 100 && c < 200
}

// IsBacktest reports whether the code belongs to the backtest range.
func (c ErrorCode) IsBacktest() bool {
	return c >= 600 && c < 700
}
