package service

import "errors"

var (
	// ErrNotFound is returned when a requested record does not exist
	ErrNotFound = errors.New("record not found")

	// ErrRequestClosed is returned when an action targets a completed or
	// rejected request
	ErrRequestClosed = errors.New("exeat request is closed")

	// ErrOutstandingDebt is returned when a student with unpaid debts
	// attempts to submit a new request
	ErrOutstandingDebt = errors.New("student has outstanding debts")

	// ErrUnknownRole is returned when an acting role maps to no pipeline stage
	ErrUnknownRole = errors.New("unknown approval role")

	// ErrInvalidInput is returned when request fields fail validation
	ErrInvalidInput = errors.New("invalid input")
)
