// Package domainerrors carries coded errors across service boundaries.
// Expected conditions (missing state, sequence violations, policy vetoes)
// are returned as coded errors and translated by the transport layer;
// only programming-contract violations bubble up uncoded.
package domainerrors

import (
	"errors"
	"net/http"
)

// Code identifies the class of a domain error. Codes are part of the wire
// contract: handlers serialize them verbatim into the error envelope.
type Code string

const (
	CodeBadRequest   Code = "bad_request"
	CodeInvalidInput Code = "invalid_input"
	CodeNotFound     Code = "not_found"
	CodeUnauthorized Code = "unauthorized"
	CodeConflict     Code = "conflict"
	CodeInternal     Code = "internal_error"

	// Verification authority.
	CodeIncompleteIdentity Code = "incomplete_identity"
	CodeUnknownPrincipal   Code = "unknown_principal"

	// Staged authorization engine.
	CodeInvalidAmount    Code = "invalid_amount"
	CodeUnknownPayment   Code = "unknown_payment"
	CodeNotAuthorized    Code = "not_authorized"
	CodeHighRiskRejected Code = "high_risk_rejected"
	CodeTimeout          Code = "timeout"
)

// Error is a coded domain error. Message is safe to show to callers except
// when the code is CodeInternal, where transports drop it.
type Error struct {
	Code    Code
	Message string
	wrapped error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return string(e.Code) + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.wrapped }

// New builds a coded error.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap builds a coded error that preserves the underlying cause for errors.Is
// chains while exposing only the coded message outward.
func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, wrapped: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal for uncoded
// errors so transports never leak raw failure detail.
func CodeOf(err error) Code {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps codes onto HTTP statuses for the JSON error envelope.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest, CodeInvalidInput, CodeInvalidAmount, CodeIncompleteIdentity:
		return http.StatusBadRequest
	case CodeNotFound, CodeUnknownPayment, CodeUnknownPrincipal:
		return http.StatusNotFound
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeConflict, CodeNotAuthorized:
		return http.StatusConflict
	case CodeHighRiskRejected:
		return http.StatusUnprocessableEntity
	case CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
