package domain

import "errors"

var (
	ErrUnknownCommand  = errors.New("unknown command")
	ErrMissingField    = errors.New("missing required field")
	ErrTypeMismatch    = errors.New("field type mismatch")
	ErrInvalidValue    = errors.New("invalid field value")
	ErrTransportClosed = errors.New("transport closed")
)
