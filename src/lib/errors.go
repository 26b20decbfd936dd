package lib

import (
	"errors"
	"fmt"
)

// Domain errors returned by services. The Fiber error handler maps them to HTTP codes.
var (
	ErrSelfRequest  = errors.New("self request")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrValidation   = errors.New("validation error")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
)

// Error pairs a domain sentinel with the message shown to the client.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func NotFound(message string) error {
	return &Error{Kind: ErrNotFound, Message: message}
}

func Forbidden(message string) error {
	return &Error{Kind: ErrForbidden, Message: message}
}

func SelfRequest(message string) error {
	return &Error{Kind: ErrSelfRequest, Message: message}
}

func Unauthorized(message string) error {
	return &Error{Kind: ErrUnauthorized, Message: message}
}

// ConflictReason tells the caller which existing relationship blocked the transition.
type ConflictReason string

const (
	ReasonAlreadyFriends  ConflictReason = "already friends"
	ReasonAlreadySent     ConflictReason = "already sent"
	ReasonAlreadyReceived ConflictReason = "already received"
	ReasonBlocked         ConflictReason = "blocked"
	ReasonRejected        ConflictReason = "rejected"
	ReasonEmailTaken      ConflictReason = "email taken"
)

// ConflictError is returned when a row exists in a state incompatible with the request.
type ConflictError struct {
	Reason  ConflictReason
	Message string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// NewConflict builds a ConflictError.
func NewConflict(reason ConflictReason, message string) error {
	return &ConflictError{Reason: reason, Message: message}
}

// ValidationError carries the offending field, if any.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidation builds a ValidationError.
func NewValidation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
