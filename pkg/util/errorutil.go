package util

import (
	"errors"
	"fmt"
)

// Kind is a stable failure category produced by the core services. The
// command layer maps every kind to a user-facing message; an unmapped kind
// is a defect.
type Kind string

const (
	KindInsufficientFunds     Kind = "INSUFFICIENT_FUNDS"
	KindInvalidAmount         Kind = "INVALID_AMOUNT"
	KindOnCooldown            Kind = "ON_COOLDOWN"
	KindAlreadyHasOpenTicket  Kind = "ALREADY_HAS_OPEN_TICKET"
	KindDuplicateTicket       Kind = "DUPLICATE_TICKET"
	KindTicketNotFound        Kind = "TICKET_NOT_FOUND"
	KindAlreadyClosed         Kind = "ALREADY_CLOSED"
	KindPermissionDenied      Kind = "PERMISSION_DENIED"
	KindChannelCreationFailed Kind = "CHANNEL_CREATION_FAILED"
	KindInternal              Kind = "INTERNAL_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Kind    Kind
	Message string
	Details map[string]any
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(kind Kind, message string, details map[string]any) *DomainError {
	return &DomainError{Kind: kind, Message: message, Details: details}
}

func NewInsufficientFunds(message string) error {
	return NewDomainError(KindInsufficientFunds, message, nil)
}

func NewInvalidAmount(message string) error {
	return NewDomainError(KindInvalidAmount, message, nil)
}

func NewOnCooldown(message string, remainingSeconds int64) error {
	return NewDomainError(KindOnCooldown, message, map[string]any{
		"remaining_seconds": remainingSeconds,
	})
}

func NewAlreadyHasOpenTicket(userID string) error {
	return NewDomainError(KindAlreadyHasOpenTicket, "you already have an open ticket", map[string]any{
		"user_id": userID,
	})
}

func NewDuplicateTicket(channelID string) error {
	return NewDomainError(KindDuplicateTicket, "a ticket already exists for this channel", map[string]any{
		"channel_id": channelID,
	})
}

func NewTicketNotFound(channelID string) error {
	return NewDomainError(KindTicketNotFound, "no ticket exists for this channel", map[string]any{
		"channel_id": channelID,
	})
}

func NewAlreadyClosed(channelID string) error {
	return NewDomainError(KindAlreadyClosed, "this ticket is already closed", map[string]any{
		"channel_id": channelID,
	})
}

func NewPermissionDenied(message string) error {
	return NewDomainError(KindPermissionDenied, message, nil)
}

func NewChannelCreationFailed(err error) error {
	return &DomainError{
		Kind:    KindChannelCreationFailed,
		Message: "failed to create the ticket channel",
		Err:     err,
	}
}

func NewInternalError(err error) error {
	return &DomainError{
		Kind:    KindInternal,
		Message: "operation failed",
		Err:     err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &DomainError{
		Kind:    KindInternal,
		Message: "operation failed",
		Err:     err,
	}
}

// KindOf reports the failure kind carried by err, or KindInternal for
// errors that are not DomainErrors.
func KindOf(err error) Kind {
	return ToDomainError(err).Kind
}
