// Package fundraise implements the project ledger: loan project records,
// the campaign stage machine, investment intake gated by the trusted-signer
// authorization protocol, fund release to the borrower, repayment intake,
// and proportional investor claims.
package fundraise

import (
	"github.com/crowdlend/libcrowdlend-go/registry"
)

// BasisPoints is the fixed-point percentage scale: 1,000,000 = 100%.
const BasisPoints = 1_000_000

// Stage is a project's lifecycle state. Stages only move forward through
// the legal transition graph; cancellation and repayment are terminal.
type Stage uint8

const (
	StageComingSoon Stage = iota
	StageOpen
	StageCanceled
	StagePreFunded
	StageFunded
	StageRepaid
)

// String returns the stage as lower-case text.
func (s Stage) String() string {
	switch s {
	case StageComingSoon:
		return "coming-soon"
	case StageOpen:
		return "open"
	case StageCanceled:
		return "canceled"
	case StagePreFunded:
		return "pre-funded"
	case StageFunded:
		return "funded"
	case StageRepaid:
		return "repaid"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transitions are possible.
func (s Stage) Terminal() bool { return s == StageCanceled || s == StageRepaid }

// Project is one funding campaign. Amounts are stablecoin units of the
// project's loan token; rates are basis points of TotalInvested. The raise
// deadline and the pre-fund clock are separate fields so neither timestamp
// ever carries a double meaning.
type Project struct {
	ID       uint64
	Borrower registry.Address
	// LoanToken names the stablecoin this project raises and repays in.
	LoanToken string

	HardCap       uint64
	SoftCap       uint64
	TotalInvested uint64

	StartAt           int64 // campaign open time, unix seconds
	OpenDeadline      int64 // raising deadline
	PreFundClockStart int64 // set at the Open -> PreFunded transition
	PreFundDuration   int64 // grace window before timeout cancellation, seconds

	InvestorRate uint64 // investor interest, basis points
	PlatformRate uint64 // platform fee, basis points

	TotalRepaid uint64
	FundedTime  int64
	Stage       Stage
}

// Exists reports whether the record describes a created project. A project
// with both caps zero does not exist.
func (p *Project) Exists() bool { return p.HardCap != 0 || p.SoftCap != 0 }

// Position is an investor's stake in one project.
type Position struct {
	Invested uint64 // cumulative contribution, zeroed on post-cancellation withdrawal
	Claimed  uint64 // cumulative repayment payout, never exceeds the proportional share
}
