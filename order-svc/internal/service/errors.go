package service

import "errors"

var (
	ErrPaymentAssetUnavailable = errors.New("payment asset unavailable")
	ErrUnauthorizedStaff       = errors.New("staff command from outside the staff chat")
	ErrEmptyCart               = errors.New("cart is empty")
	ErrMissingOrderID          = errors.New("order id is required")
	ErrNoTransport             = errors.New("no chat transport configured")
	ErrUnknownUpdate           = errors.New("unknown update kind")
)
