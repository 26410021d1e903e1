package model

import "errors"

// Error taxonomy for the store boundary. Every failure aborts the whole
// requested operation; callers match with errors.Is.
var (
	ErrValidation        = errors.New("validation failed")
	ErrDuplicateSKU      = errors.New("SKU must be unique")
	ErrInvalidLineItem   = errors.New("invalid line item")
	ErrInsufficientStock = errors.New("insufficient stock for sale")
	ErrUnknownProduct    = errors.New("unknown product")
	ErrNotFound          = errors.New("record not found")
	ErrProductReferenced = errors.New("product is referenced by transaction items")
)
