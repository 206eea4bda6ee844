package order

import "errors"

// Service errors
var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrEmptyOrder          = errors.New("order must contain at least one item")
	ErrMixedSellers        = errors.New("all items in an order must belong to one seller")
	ErrBelowMinimum        = errors.New("quantity below the product's minimum order")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrAlreadyPaidOut      = errors.New("order already paid out")
	ErrInvalidPayoutStatus = errors.New("order is not in a payable status")
	ErrInvalidTransition   = errors.New("invalid order status transition")
	ErrNotParticipant      = errors.New("order belongs to another user")
	ErrSelfPurchase        = errors.New("cannot order your own products")
)
