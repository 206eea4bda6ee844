package payment

import "errors"

// Service errors
var (
	ErrInvalidAmount        = errors.New("amount must be positive")
	ErrInsufficientBalance  = errors.New("insufficient wallet balance")
	ErrBankNotVerified      = errors.New("bank details not verified")
	ErrBankResolutionFailed = errors.New("could not resolve bank account")
	ErrUnknownReference     = errors.New("no record matches this reference")
)
