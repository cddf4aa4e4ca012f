package token

import "errors"

var (
	// ErrInsufficientBalance indicates the sender's balance does not cover the amount.
	ErrInsufficientBalance = errors.New("token: insufficient balance")

	// ErrInsufficientAllowance indicates the spender's allowance does not cover the amount.
	ErrInsufficientAllowance = errors.New("token: insufficient allowance")

	// ErrZeroAddress indicates a transfer to or from the zero address.
	ErrZeroAddress = errors.New("token: zero address")

	// ErrZeroAmount indicates a zero-amount operation.
	ErrZeroAmount = errors.New("token: zero amount")

	// ErrNotRewardSystem indicates a mint attempt by an address that is not the reward engine.
	ErrNotRewardSystem = errors.New("token: caller is not the reward system")

	// ErrNotOwner indicates an owner-gated operation by a non-owner.
	ErrNotOwner = errors.New("token: caller is not the owner")

	// ErrBuyingDisabled indicates a transfer blocked by the buying gate.
	ErrBuyingDisabled = errors.New("token: buying disabled")
)
