package config

import (
	"encoding/hex"
	"fmt"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"

	"github.com/crowdlend/libcrowdlend-go/reward"
)

// ValidateConfig checks that all configuration values are within acceptable
// ranges and returns the first error encountered, or nil if valid.
func ValidateConfig(cfg Config) error {
	if cfg.DataDir == "" {
		return ErrEmptyDataDir
	}

	for _, rate := range []uint64{cfg.ReferralRate, cfg.TokenRate, cfg.BurnRate, cfg.WeeklyUnlockRate} {
		if rate < reward.MinRate || rate > reward.MaxRate {
			return fmt.Errorf("%w: %d not in [%d, %d]", ErrRateOutOfRange, rate, reward.MinRate, reward.MaxRate)
		}
	}
	if cfg.VestingWeeks == 0 {
		return ErrZeroVestingWeeks
	}

	if cfg.SignerPubKey != "" {
		if _, err := SignerKey(cfg); err != nil {
			return err
		}
	}
	return nil
}

// SignerKey parses the configured trusted-signer public key.
func SignerKey(cfg Config) (*ec.PublicKey, error) {
	raw, err := hex.DecodeString(cfg.SignerPubKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignerKey, err)
	}
	pub, err := ec.PublicKeyFromBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignerKey, err)
	}
	return pub, nil
}
