// Package config holds the platform's file-backed configuration: storage
// paths and the reward engine's economic parameters, persisted in a plain
// key=value format.
package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/crowdlend/libcrowdlend-go/reward"
)

// Config is the full platform configuration.
type Config struct {
	// DataDir is the directory holding the bolt database files.
	DataDir string

	// SignerPubKey is the compressed public key of the trusted off-chain
	// signer, hex encoded. Empty means the ledger is constructed with a
	// key supplied by the host instead.
	SignerPubKey string

	// Reward economics, basis points where noted (1,000,000 = 100%).
	ReferralRate          uint64 // bp
	TokenRate             uint64 // bp
	BurnRate              uint64 // bp
	WeeklyUnlockRate      uint64 // bp
	WelcomeBonus          uint64 // stablecoin base units
	MinInvestmentForBonus uint64 // stablecoin base units
	VestingWeeks          uint64
	SlippageAllowance     uint64 // stablecoin base units
}

// DefaultConfig returns the configuration used when no file is present:
// a 1% referral commission, 5% token entitlement, 5% burn, a 2.5% weekly
// unlock over 40 weeks, and a 30 USDC welcome bonus at a 1,000 USDC
// minimum investment.
func DefaultConfig() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{
		DataDir:               filepath.Join(home, ".crowdlend"),
		ReferralRate:          10_000,
		TokenRate:             50_000,
		BurnRate:              50_000,
		WeeklyUnlockRate:      25_000,
		WelcomeBonus:          30_000_000,
		MinInvestmentForBonus: 1_000_000_000,
		VestingWeeks:          40,
		SlippageAllowance:     10_000_000,
	}
}

// RewardParams converts the configuration into the reward engine's
// parameter block.
func (c Config) RewardParams() reward.Params {
	return reward.Params{
		ReferralRate:          c.ReferralRate,
		TokenRate:             c.TokenRate,
		BurnRate:              c.BurnRate,
		WeeklyUnlockRate:      c.WeeklyUnlockRate,
		WelcomeBonus:          c.WelcomeBonus,
		MinInvestmentForBonus: c.MinInvestmentForBonus,
		VestingWeeks:          c.VestingWeeks,
		SlippageAllowance:     c.SlippageAllowance,
	}
}

// LoadConfig reads a configuration file. Missing keys keep their default
// values; unknown keys are ignored.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return cfg, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return cfg, fmt.Errorf("%w: line %d: %q", ErrInvalidConfigLine, lineNum, line)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if err := cfg.set(key, value); err != nil {
			return cfg, fmt.Errorf("%w: line %d: %v", ErrInvalidConfigLine, lineNum, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// SaveConfig writes the configuration to path, creating parent directories
// as needed.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "datadir=%s\n", cfg.DataDir)
	fmt.Fprintf(&b, "signerpubkey=%s\n", cfg.SignerPubKey)
	fmt.Fprintf(&b, "referralrate=%d\n", cfg.ReferralRate)
	fmt.Fprintf(&b, "tokenrate=%d\n", cfg.TokenRate)
	fmt.Fprintf(&b, "burnrate=%d\n", cfg.BurnRate)
	fmt.Fprintf(&b, "weeklyunlockrate=%d\n", cfg.WeeklyUnlockRate)
	fmt.Fprintf(&b, "welcomebonus=%d\n", cfg.WelcomeBonus)
	fmt.Fprintf(&b, "mininvestmentforbonus=%d\n", cfg.MinInvestmentForBonus)
	fmt.Fprintf(&b, "vestingweeks=%d\n", cfg.VestingWeeks)
	fmt.Fprintf(&b, "slippageallowance=%d\n", cfg.SlippageAllowance)

	return os.WriteFile(path, []byte(b.String()), 0o600)
}

// set applies one key=value pair.
func (c *Config) set(key, value string) error {
	switch strings.ToLower(key) {
	case "datadir":
		c.DataDir = value
		return nil
	case "signerpubkey":
		c.SignerPubKey = value
		return nil
	}

	target := map[string]*uint64{
		"referralrate":          &c.ReferralRate,
		"tokenrate":             &c.TokenRate,
		"burnrate":              &c.BurnRate,
		"weeklyunlockrate":      &c.WeeklyUnlockRate,
		"welcomebonus":          &c.WelcomeBonus,
		"mininvestmentforbonus": &c.MinInvestmentForBonus,
		"vestingweeks":          &c.VestingWeeks,
		"slippageallowance":     &c.SlippageAllowance,
	}[strings.ToLower(key)]
	if target == nil {
		// Unknown keys are ignored so old binaries tolerate newer files.
		return nil
	}
	n, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return fmt.Errorf("key %q: %v", key, err)
	}
	*target = n
	return nil
}
