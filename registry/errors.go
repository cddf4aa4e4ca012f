package registry

import "errors"

var (
	// ErrNotOwner indicates the caller is not the registry owner.
	ErrNotOwner = errors.New("registry: caller is not the owner")

	// ErrNotManager indicates the caller does not hold the manager role.
	ErrNotManager = errors.New("registry: caller is not a manager")

	// ErrNotRewardSystem indicates the caller is not the registered reward engine.
	ErrNotRewardSystem = errors.New("registry: caller is not the reward system")

	// ErrZeroAddress indicates a required address argument was zero.
	ErrZeroAddress = errors.New("registry: zero address")

	// ErrInvalidAddress indicates an address string could not be parsed.
	ErrInvalidAddress = errors.New("registry: invalid address")
)
