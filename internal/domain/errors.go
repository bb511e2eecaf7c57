package domain

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	KindValidation ErrorKind = iota
	KindProductNotFound
	KindOutOfStock
	KindNotFound
	KindPersistence
	KindUnauthorized
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "VALIDATION"
	case KindProductNotFound:
		return "PRODUCT_NOT_FOUND"
	case KindOutOfStock:
		return "OUT_OF_STOCK"
	case KindNotFound:
		return "NOT_FOUND"
	case KindPersistence:
		return "PERSISTENCE"
	case KindUnauthorized:
		return "UNAUTHORIZED"
	default:
		return "UNKNOWN"
	}
}

// Error is the error type surfaced by the services. Message is safe to show
// to the caller; Err holds the underlying cause for logs.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

const (
	ErrMsgMissingFields   = "Missing required fields"
	ErrMsgSelectorMissing = "Order number or phone required"
	ErrMsgOrderNotFound   = "Order not found"
	ErrMsgCreateFailed    = "Failed to create order"
	ErrMsgUpdateFailed    = "Failed to update order"
	ErrMsgFetchFailed     = "Failed to fetch orders"
	ErrMsgUnauthorized    = "Unauthorized"
)

func NewValidation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func NewProductNotFound(productID string) *Error {
	return &Error{Kind: KindProductNotFound, Message: "Product not found: " + productID}
}

func NewOutOfStock(productName string) *Error {
	return &Error{Kind: KindOutOfStock, Message: "Product out of stock: " + productName}
}

func NewNotFound(message string, err error) *Error {
	return &Error{Kind: KindNotFound, Message: message, Err: err}
}

func NewPersistence(message string, err error) *Error {
	return &Error{Kind: KindPersistence, Message: message, Err: err}
}

// KindOf reports the kind of err, treating anything untyped as a persistence
// fault.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindPersistence
}

// PublicMessage returns the caller-facing text for err.
func PublicMessage(err error, fallback string) string {
	var de *Error
	if errors.As(err, &de) && de.Kind != KindPersistence {
		return de.Message
	}
	return fallback
}
