package reward

import "errors"

var (
	// ErrNotFundraise indicates the caller is not the fundraise ledger.
	ErrNotFundraise = errors.New("reward: caller is not the fundraise ledger")

	// ErrNotManager indicates the caller does not hold the manager role.
	ErrNotManager = errors.New("reward: caller is not a manager")

	// ErrZeroAddress indicates a required address argument was zero.
	ErrZeroAddress = errors.New("reward: zero address")

	// ErrZeroAmount indicates a zero-amount argument.
	ErrZeroAmount = errors.New("reward: zero amount")

	// ErrSelfReferral indicates a user supplied themselves as inviter.
	ErrSelfReferral = errors.New("reward: self-referral")

	// ErrVenueUnset indicates the market venue or asset wiring is missing.
	ErrVenueUnset = errors.New("reward: market venue not configured")

	// ErrVenueFailure indicates the market venue rejected a quote or swap.
	// This is an external-dependency failure, distinct from logic errors;
	// the enclosing call aborts and the caller may retry once liquidity is
	// restored.
	ErrVenueFailure = errors.New("reward: market venue failure")

	// ErrZeroQuote indicates the venue quoted zero tokens for the investment.
	ErrZeroQuote = errors.New("reward: zero token quote")

	// ErrAlreadyActivated indicates the project's vesting clock is already set.
	ErrAlreadyActivated = errors.New("reward: project rewards already activated")

	// ErrNotActivated indicates the project's vesting clock is not set yet.
	ErrNotActivated = errors.New("reward: project rewards not activated")

	// ErrNothingToClaim indicates no claimable balance at this time.
	ErrNothingToClaim = errors.New("reward: nothing to claim")

	// ErrInsufficientRewardBalance indicates the engine's own token balance
	// cannot cover the claim.
	ErrInsufficientRewardBalance = errors.New("reward: insufficient reward token balance")

	// ErrInsufficientStable indicates the engine's stablecoin balance cannot
	// cover the buyback.
	ErrInsufficientStable = errors.New("reward: insufficient stablecoin for buyback")

	// ErrParamOutOfRange indicates a percentage parameter outside [1000, 1000000].
	ErrParamOutOfRange = errors.New("reward: percentage parameter out of range")

	// ErrEmptyBatch indicates a batch call with no elements.
	ErrEmptyBatch = errors.New("reward: empty batch")

	// ErrDuplicateElement indicates a batch names the same (user, project)
	// pair more than once.
	ErrDuplicateElement = errors.New("reward: duplicate batch element")
)
