package domain

import "errors"

var (
	ErrUnknownOutcome        = errors.New("unknown purchase outcome")
	ErrUnknownKind           = errors.New("unknown notification kind")
	ErrNoListener            = errors.New("no billing updates listener registered")
	ErrNotificationNotFound  = errors.New("notification not found")
	ErrInvalidNotificationID = errors.New("notification ID cannot be empty")
	ErrInvalidLimit          = errors.New("limit must be positive")
	ErrUnknownPurchaseState  = errors.New("unknown purchase state")
)
