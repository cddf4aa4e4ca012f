package config

import "errors"

var (
	// ErrEmptyDataDir indicates the data directory path is empty.
	ErrEmptyDataDir = errors.New("config: data directory must not be empty")

	// ErrConfigNotFound indicates the configuration file does not exist.
	ErrConfigNotFound = errors.New("config: configuration file not found")

	// ErrInvalidConfigLine indicates a line in the config file is malformed.
	ErrInvalidConfigLine = errors.New("config: invalid configuration line")

	// ErrInvalidSignerKey indicates the signer public key is not a valid
	// hex-encoded compressed key.
	ErrInvalidSignerKey = errors.New("config: invalid signer public key")

	// ErrRateOutOfRange indicates a basis-point rate is outside the
	// accepted range.
	ErrRateOutOfRange = errors.New("config: rate out of range")

	// ErrZeroVestingWeeks indicates the vesting schedule has no weeks.
	ErrZeroVestingWeeks = errors.New("config: vesting weeks must not be zero")
)
