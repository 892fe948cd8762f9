package common

import (
	"errors"
	"fmt"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Error kinds. Match with errors.Is.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnrecognizedFormat = errors.New("unrecognized report format")
	ErrRejectedFormat     = errors.New("rejected legacy report format")
	ErrMissingFields      = errors.New("missing required fields")
	ErrAmbiguousChart     = errors.New("ambiguous chart data")
	ErrBandDataMissing    = errors.New("band data missing")
	ErrMalformedDate      = errors.New("malformed date")
	ErrInvalidRecord      = errors.New("invalid record")
	ErrProvider           = errors.New("document provider failure")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// MissingFieldsError lists every required field an extractor could not locate.
type MissingFieldsError struct {
	Vendor string
	Fields []string
}

func NewMissingFieldsError(vendor string, fields []string) *MissingFieldsError {
	return &MissingFieldsError{Vendor: vendor, Fields: append([]string(nil), fields...)}
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("could not parse %s report: missing %s", e.Vendor, strings.Join(e.Fields, ", "))
}

func (e *MissingFieldsError) Unwrap() error { return ErrMissingFields }

// RejectedFormatError is raised for layouts known to produce wrong data with current rules.
type RejectedFormatError struct {
	Vendor string
	Marker string
}

func (e *RejectedFormatError) Error() string {
	return fmt.Sprintf("old %s report (%q) should not be parsed", e.Vendor, e.Marker)
}

func (e *RejectedFormatError) Unwrap() error { return ErrRejectedFormat }

// MalformedDateError is raised when date tokens matched but did not resolve to a calendar date.
type MalformedDateError struct {
	Input  string
	Reason string
}

func (e *MalformedDateError) Error() string {
	return fmt.Sprintf("malformed date %q: %s", e.Input, e.Reason)
}

func (e *MalformedDateError) Unwrap() error { return ErrMalformedDate }

// ProviderError wraps a failed external tool invocation: the document could not be read.
type ProviderError struct {
	Command string
	Stderr  string
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s: %v: %s", e.Command, e.Err, e.Stderr)
	}
	return fmt.Sprintf("%s: %v", e.Command, e.Err)
}

func (e *ProviderError) Unwrap() []error { return []error{ErrProvider, e.Err} }

// IsParseError reports whether err is a parsing-layer failure, i.e. the document was
// read but did not match expectations.
func IsParseError(err error) bool {
	if err == nil || errors.Is(err, ErrProvider) {
		return false
	}
	for _, kind := range []error{
		ErrUnrecognizedFormat, ErrRejectedFormat, ErrMissingFields, ErrAmbiguousChart,
		ErrBandDataMissing, ErrMalformedDate, ErrInvalidRecord,
	} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}

// GRPCCode maps an error kind to the status code returned by the report service.
func GRPCCode(err error) codes.Code {
	switch {
	case err == nil:
		return codes.OK
	case errors.Is(err, ErrInvalidInput):
		return codes.InvalidArgument
	case errors.Is(err, ErrProvider):
		return codes.Unavailable
	case IsParseError(err):
		return codes.FailedPrecondition
	default:
		return codes.Internal
	}
}

// GRPCError converts err into a status error carrying GRPCCode(err).
func GRPCError(err error) error {
	if err == nil {
		return nil
	}
	return status.Error(GRPCCode(err), err.Error())
}

// gRPC error helpers
func InvalidArgumentError(message string) error {
	return status.Error(codes.InvalidArgument, message)
}

func InternalError(message string) error {
	return status.Error(codes.Internal, message)
}

func InvalidArgumentErrorf(format string, args ...interface{}) error {
	return InvalidArgumentError(fmt.Sprintf(format, args...))
}
