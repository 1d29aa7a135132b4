package services

import "errors"

type ErrorCode string

const (
	ErrorInvalid         ErrorCode = "invalid"
	ErrorForbidden       ErrorCode = "forbidden"
	ErrorNotFound        ErrorCode = "not_found"
	ErrorConflict        ErrorCode = "conflict"
	ErrorUnauthorized    ErrorCode = "unauthorized"
	ErrorComputation     ErrorCode = "computation"
	ErrorIntegrity       ErrorCode = "integrity"
	ErrorPaymentRequired ErrorCode = "payment_required"
	ErrorBadGateway      ErrorCode = "bad_gateway"
)

type ServiceError struct {
	Code    ErrorCode
	Message string
}

func (e *ServiceError) Error() string { return e.Message }

func NewInvalidError(msg string) error   { return &ServiceError{Code: ErrorInvalid, Message: msg} }
func NewForbiddenError(msg string) error { return &ServiceError{Code: ErrorForbidden, Message: msg} }
func NewNotFoundError(msg string) error  { return &ServiceError{Code: ErrorNotFound, Message: msg} }
func NewConflictError(msg string) error  { return &ServiceError{Code: ErrorConflict, Message: msg} }
func NewUnauthorizedError(msg string) error {
	return &ServiceError{Code: ErrorUnauthorized, Message: msg}
}

// NewComputationError flags numerically degenerate input that cannot be scored.
func NewComputationError(msg string) error {
	return &ServiceError{Code: ErrorComputation, Message: msg}
}

// NewIntegrityError flags a certificate whose recomputed hash does not match.
func NewIntegrityError(msg string) error {
	return &ServiceError{Code: ErrorIntegrity, Message: msg}
}

func NewPaymentRequiredError(msg string) error {
	return &ServiceError{Code: ErrorPaymentRequired, Message: msg}
}

func NewBadGatewayError(msg string) error { return &ServiceError{Code: ErrorBadGateway, Message: msg} }

func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
