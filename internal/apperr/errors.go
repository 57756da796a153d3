// Package apperr defines the error taxonomy surfaced to callers. These are
// contract violations, not transient faults; nothing in this service retries
// them.
package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindNotFound          Kind = "not_found"
	KindConflict          Kind = "conflict"
	KindInsufficientStock Kind = "insufficient_stock"
	KindInvalidReference  Kind = "invalid_reference"
	KindValidation        Kind = "validation"
)

// Error carries the kind plus the offending entity so callers can report
// exactly which record violated the contract.
type Error struct {
	Kind     Kind
	Entity   string
	EntityID string
	Msg      string
}

func (e *Error) Error() string {
	if e.EntityID != "" {
		return fmt.Sprintf("%s: %s %s: %s", e.Kind, e.Entity, e.EntityID, e.Msg)
	}
	if e.Entity != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Entity, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func NotFound(entity, id string) *Error {
	return &Error{Kind: KindNotFound, Entity: entity, EntityID: id, Msg: "does not exist"}
}

func Conflict(entity, id, msg string) *Error {
	return &Error{Kind: KindConflict, Entity: entity, EntityID: id, Msg: msg}
}

func InsufficientStock(itemID string, available, requested int64) *Error {
	return &Error{
		Kind:     KindInsufficientStock,
		Entity:   "inventory_item",
		EntityID: itemID,
		Msg:      fmt.Sprintf("have %d, need %d", available, requested),
	}
}

func InvalidReference(entity, id, msg string) *Error {
	return &Error{Kind: KindInvalidReference, Entity: entity, EntityID: id, Msg: msg}
}

func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Msg: msg}
}

func is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

func IsNotFound(err error) bool          { return is(err, KindNotFound) }
func IsConflict(err error) bool          { return is(err, KindConflict) }
func IsInsufficientStock(err error) bool { return is(err, KindInsufficientStock) }
func IsInvalidReference(err error) bool  { return is(err, KindInvalidReference) }
func IsValidation(err error) bool        { return is(err, KindValidation) }
