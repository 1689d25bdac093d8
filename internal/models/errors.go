package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for the recoverable conditions of the catalog and invoices.
var (
	ErrCategoryInvalid   = errors.New("invalid category")
	ErrDuplicateLineItem = errors.New("line item already on invoice")
	ErrInvalidArticle    = errors.New("invalid article")
	ErrInvoiceFinalized  = errors.New("invoice is finalized")
	ErrInvoiceNotFound   = errors.New("invoice not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrUnexpected        = errors.New("unexpected error")
)

// CategoryError reports a category outside the accepted set.
type CategoryError struct {
	Category string
}

func (e *CategoryError) Error() string {
	return fmt.Sprintf("catégorie invalide: %s", e.Category)
}

// Is makes errors.Is(err, ErrCategoryInvalid) match.
func (e *CategoryError) Is(target error) bool {
	return target == ErrCategoryInvalid
}

// DuplicateLineItemError reports an attempt to add a product already present on an invoice.
// The invoice is left unchanged.
type DuplicateLineItemError struct {
	InvoiceNumber int64
	ProductCode   string
}

func (e *DuplicateLineItemError) Error() string {
	return fmt.Sprintf("invoice %d: product %q already present", e.InvoiceNumber, e.ProductCode)
}

func (e *DuplicateLineItemError) Is(target error) bool {
	return target == ErrDuplicateLineItem
}

// UnexpectedError wraps any failure that is neither a category nor a duplicate condition.
type UnexpectedError struct {
	Op  string
	Err error
}

func (e *UnexpectedError) Error() string {
	if e.Err == nil {
		return e.Op + ": unexpected error"
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UnexpectedError) Unwrap() error { return e.Err }

func (e *UnexpectedError) Is(target error) bool {
	return target == ErrUnexpected
}

// Unexpected wraps err as an UnexpectedError unless it already carries one of the
// typed recoverable conditions.
func Unexpected(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrCategoryInvalid) || errors.Is(err, ErrDuplicateLineItem) || errors.Is(err, ErrUnexpected) {
		return err
	}
	return &UnexpectedError{Op: op, Err: err}
}
