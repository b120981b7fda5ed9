package engine

import "errors"

// Rejection reasons. A rejected command leaves the state untouched.
var (
	ErrUnknownCommand    = errors.New("unknown command")
	ErrGameOver          = errors.New("game over")
	ErrNotFound          = errors.New("not found")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrIneligible        = errors.New("ineligible")
	ErrDistrictMismatch  = errors.New("district mismatch")
	ErrAtCapacity        = errors.New("staff at capacity")
	ErrNotPromotable     = errors.New("not enough experience")
	ErrNoEquity          = errors.New("no positive equity")
)
