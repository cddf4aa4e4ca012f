package amm

import "errors"

var (
	// ErrNoLiquidity indicates the pool has an empty reserve and cannot quote.
	ErrNoLiquidity = errors.New("amm: no liquidity")

	// ErrInsufficientLiquidity indicates the requested output exceeds the reserve.
	ErrInsufficientLiquidity = errors.New("amm: insufficient liquidity for requested output")

	// ErrExcessiveInput indicates the required input exceeds the caller's maximum.
	ErrExcessiveInput = errors.New("amm: required input exceeds maximum")

	// ErrExpired indicates the swap deadline has passed.
	ErrExpired = errors.New("amm: deadline expired")

	// ErrZeroAmount indicates a zero-amount quote or swap.
	ErrZeroAmount = errors.New("amm: zero amount")
)
