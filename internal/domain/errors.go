package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeCatalogUnavailable = "CATALOG_UNAVAILABLE"
	ErrCodeStoreError         = "STORE_ERROR"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeInvalidOperation   = "INVALID_OPERATION"
)

// Validation errors
var (
	ErrInvalidDateRange     = NewDomainError(ErrCodeValidation, "invalid date range, expected YYYY-MM-DD/YYYY-MM-DD")
	ErrInvalidCloudCover    = NewDomainError(ErrCodeValidation, "cloud cover bounds must satisfy 0 <= min <= max <= 100")
	ErrInvalidCoordinates   = NewDomainError(ErrCodeValidation, "longitude/latitude out of range")
	ErrMissingRequestID     = NewDomainError(ErrCodeValidation, "missing request id")
	ErrMissingRequiredField = NewDomainError(ErrCodeValidation, "missing required field")
	ErrInvalidProductID     = NewDomainError(ErrCodeValidation, "malformed landsat product id")
	ErrInvalidPathRow       = NewDomainError(ErrCodeValidation, "path/row must be given as PATH|ROW")
)

// Not found errors
var (
	ErrResultNotReady    = NewDomainError(ErrCodeNotFound, "search result not ready or expired")
	ErrWatermarkNotFound = NewDomainError(ErrCodeNotFound, "no crawl watermark recorded for satellite")
)

// CatalogError reports a failed call to the remote imagery catalog.
// Status is the HTTP status code, or zero for transport/timeout failures.
type CatalogError struct {
	Status int
	Err    error
}

func (e *CatalogError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("[%s] catalog returned status %d", ErrCodeCatalogUnavailable, e.Status)
	}
	return fmt.Sprintf("[%s] catalog request failed: %v", ErrCodeCatalogUnavailable, e.Err)
}

func (e *CatalogError) Unwrap() error {
	return e.Err
}

// NewCatalogError creates a CatalogError for a non-200 response.
func NewCatalogError(status int) *CatalogError {
	return &CatalogError{Status: status}
}

// NewCatalogTransportError creates a CatalogError for a transport or timeout failure.
func NewCatalogTransportError(err error) *CatalogError {
	return &CatalogError{Err: err}
}

// NewStoreError wraps a persistence failure.
func NewStoreError(op string, err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeStoreError, op, err)
}
