package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingField indicates one or more required inputs were empty.
	ErrMissingField = errors.New("missing required field")
	// ErrInvalidNumber indicates a numeric input could not be parsed.
	ErrInvalidNumber = errors.New("invalid number")
	// ErrNoMatchingPurchase indicates a sale has no purchase with the same item, company and model.
	ErrNoMatchingPurchase = errors.New("no matching purchase record")
	// ErrStorageRead indicates a table could not be read or parsed.
	ErrStorageRead = errors.New("storage read failed")
	// ErrStorageWrite indicates a table could not be written.
	ErrStorageWrite = errors.New("storage write failed")
	// ErrInvalidIndex indicates a delete referenced a row that does not exist.
	ErrInvalidIndex = errors.New("invalid row index")
	// ErrConfirmationRequired guards destructive bulk operations.
	ErrConfirmationRequired = errors.New("confirmation required")
	// ErrUnknownKind indicates an unrecognised table name.
	ErrUnknownKind = errors.New("unknown record kind")
)

// MissingFieldError lists the empty required fields in form order.
type MissingFieldError struct {
	Fields []string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("all fields are required, missing: %s", strings.Join(e.Fields, ", "))
}

func (e *MissingFieldError) Unwrap() error { return ErrMissingField }

// NumberError reports the field whose value failed to parse.
type NumberError struct {
	Field string
	Value string
	Want  string
}

func (e *NumberError) Error() string {
	return fmt.Sprintf("%s must be %s, got %q", e.Field, e.Want, e.Value)
}

func (e *NumberError) Unwrap() error { return ErrInvalidNumber }
