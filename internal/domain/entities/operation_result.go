package entities

// ErrorType is the closed set of classified update failures. New failure
// modes must be added here rather than folded into an existing value.
type ErrorType string

const (
	ErrorTypeNone                  ErrorType = ""
	ErrorTypeAuthenticationFailure ErrorType = "AuthenticationFailure"
	ErrorTypeMissingFile           ErrorType = "MissingFile"
)

// UpdateOperationResult is the single outcome of a run. The zero value is a
// success; absent error fields in the serialized form mean the same.
type UpdateOperationResult struct {
	ErrorType    ErrorType `json:"errorType,omitempty"`
	ErrorDetails string    `json:"errorDetails,omitempty"`
}

// IsSuccess reports whether the run finished without a classified failure.
func (r UpdateOperationResult) IsSuccess() bool {
	return r.ErrorType == ErrorTypeNone
}

// NewAuthenticationFailureResult builds the result for a 401/403 from a
// package source. details is the pre-formatted list of source URLs.
func NewAuthenticationFailureResult(details string) UpdateOperationResult {
	return UpdateOperationResult{ErrorType: ErrorTypeAuthenticationFailure, ErrorDetails: details}
}

// NewMissingFileResult builds the result for a required file that was absent.
func NewMissingFileResult(filePath string) UpdateOperationResult {
	return UpdateOperationResult{ErrorType: ErrorTypeMissingFile, ErrorDetails: filePath}
}
