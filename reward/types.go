// Package reward implements the reward and vesting accrual engine: referral
// commissions, one-time welcome bonuses, and linearly vesting platform-token
// entitlements priced against the market venue, funded by a
// buyback-and-burn at project activation.
package reward

import (
	"github.com/holiman/uint256"

	"github.com/crowdlend/libcrowdlend-go/registry"
)

// BasisPoints is the fixed-point percentage scale: 1,000,000 = 100%.
const BasisPoints = 1_000_000

const (
	// MinRate and MaxRate bound the configurable percentage parameters
	// (0.1% to 100%).
	MinRate = 1_000
	MaxRate = BasisPoints

	// SecondsPerWeek is the vesting tranche interval.
	SecondsPerWeek = 7 * 24 * 60 * 60
)

// Params holds the engine's economic configuration. The four rate fields are
// basis points and must fall within [MinRate, MaxRate]; the remaining fields
// are unconstrained.
type Params struct {
	ReferralRate          uint64 // share of each investment credited to the inviter
	TokenRate             uint64 // share of each investment converted to token entitlement
	BurnRate              uint64 // nonzero enables the buyback-and-burn at activation
	WeeklyUnlockRate      uint64 // share of the entitlement unlocked per vesting week
	WelcomeBonus          uint64 // fixed stablecoin bonus for first eligible investment
	MinInvestmentForBonus uint64 // minimum investment to qualify for the bonus
	VestingWeeks          uint64 // weeks until the full entitlement is unlocked
	SlippageAllowance     uint64 // stablecoin headroom added to buyback quotes
}

// Validate checks the rate bounds.
func (p Params) Validate() error {
	for _, rate := range []uint64{p.ReferralRate, p.TokenRate, p.BurnRate, p.WeeklyUnlockRate} {
		if rate < MinRate || rate > MaxRate {
			return ErrParamOutOfRange
		}
	}
	return nil
}

// Profile is the per-user reward profile. The zero value is a brand-new
// user: no inviter, welcome bonus not yet granted.
type Profile struct {
	Inviter    registry.Address
	HasInviter bool
	Welcomed   bool // set once the welcome bonus has been granted
}

// IsNewUser reports whether the user is still eligible for the welcome bonus.
func (p Profile) IsNewUser() bool { return !p.Welcomed }

// Accrual is the per-(user, project) reward state.
type Accrual struct {
	USDC           uint64      // claimable stablecoin bonus, zeroed on claim
	Tokens         uint256.Int // total token entitlement for this project
	VestingClaimed uint256.Int // tokens already released, bounded by the unlock formula
}

// ProjectReward is the per-project reward state.
type ProjectReward struct {
	PendingMint  uint256.Int // tokens to mint at activation
	VestingStart int64       // unix seconds; zero until activation, then immutable
}

// InviterStats aggregates referral activity for an inviter.
type InviterStats struct {
	TotalReferralUSDC uint64 // lifetime referral commission accrued
	RefereeCount      uint64 // users who registered this inviter
}

// VestingInfo describes a user's vesting position on a project.
type VestingInfo struct {
	VestingStart   int64
	TotalTokens    uint256.Int
	VestingClaimed uint256.Int
	Claimable      uint256.Int
}

// UserProject identifies one element of a batch send.
type UserProject struct {
	User      registry.Address
	ProjectID uint64
}

// TokenGrant is one element of a manual vesting distribution.
type TokenGrant struct {
	User      registry.Address
	ProjectID uint64
	Amount    *uint256.Int
}
