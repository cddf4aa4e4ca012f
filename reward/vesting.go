package reward

import (
	"github.com/holiman/uint256"

	"github.com/crowdlend/libcrowdlend-go/registry"
)

// unlockedTokens computes the cumulative unlocked entitlement at time now.
//
// The first week's tranche unlocks at activation, not after a full week:
// unlocked weeks = floor((now - start) / week) + 1. Once the unlocked week
// count reaches the configured vesting length, the full entitlement is
// unlocked.
func unlockedTokens(total *uint256.Int, vestingStart, now int64, weeklyRate, vestingWeeks uint64) *uint256.Int {
	if now < vestingStart {
		return uint256.NewInt(0)
	}
	unlockedWeeks := uint64((now-vestingStart)/SecondsPerWeek) + 1
	if unlockedWeeks >= vestingWeeks {
		return new(uint256.Int).Set(total)
	}
	unlocked := new(uint256.Int).Mul(total, uint256.NewInt(unlockedWeeks))
	unlocked.Mul(unlocked, uint256.NewInt(weeklyRate))
	unlocked.Div(unlocked, uint256.NewInt(BasisPoints))
	if unlocked.Gt(total) {
		return new(uint256.Int).Set(total)
	}
	return unlocked
}

// claimable returns unlocked minus already-claimed, floored at zero.
func claimable(unlocked, claimed *uint256.Int) *uint256.Int {
	if !unlocked.Gt(claimed) {
		return uint256.NewInt(0)
	}
	return new(uint256.Int).Sub(unlocked, claimed)
}

// ClaimableTokens returns the tokens a user could claim for a project right
// now. Zero if the project's rewards are not yet activated.
func (e *Engine) ClaimableTokens(user registry.Address, projectID uint64) (*uint256.Int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.claimableLocked(user, projectID)
}

// claimableLocked is ClaimableTokens with the engine mutex already held.
func (e *Engine) claimableLocked(user registry.Address, projectID uint64) (*uint256.Int, error) {
	pr, err := e.store.ProjectReward(projectID)
	if err != nil {
		return nil, err
	}
	if pr.VestingStart == 0 {
		return uint256.NewInt(0), nil
	}
	acc, err := e.store.Accrual(user, projectID)
	if err != nil {
		return nil, err
	}
	unlocked := unlockedTokens(&acc.Tokens, pr.VestingStart, e.now().Unix(), e.params.WeeklyUnlockRate, e.params.VestingWeeks)
	return claimable(unlocked, &acc.VestingClaimed), nil
}

// VestingInfoFor returns the vesting position of a user on a project.
func (e *Engine) VestingInfoFor(user registry.Address, projectID uint64) (VestingInfo, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var info VestingInfo
	pr, err := e.store.ProjectReward(projectID)
	if err != nil {
		return info, err
	}
	acc, err := e.store.Accrual(user, projectID)
	if err != nil {
		return info, err
	}
	info.VestingStart = pr.VestingStart
	info.TotalTokens = acc.Tokens
	info.VestingClaimed = acc.VestingClaimed
	if pr.VestingStart != 0 {
		unlocked := unlockedTokens(&acc.Tokens, pr.VestingStart, e.now().Unix(), e.params.WeeklyUnlockRate, e.params.VestingWeeks)
		info.Claimable = *claimable(unlocked, &acc.VestingClaimed)
	}
	return info, nil
}

// ProfileFor returns a user's reward profile.
func (e *Engine) ProfileFor(user registry.Address) (Profile, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Profile(user)
}

// AccrualFor returns the accrual for a (user, project) pair.
func (e *Engine) AccrualFor(user registry.Address, projectID uint64) (Accrual, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Accrual(user, projectID)
}

// InviterStatsFor returns aggregate referral statistics for an inviter.
func (e *Engine) InviterStatsFor(inviter registry.Address) (InviterStats, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.InviterStats(inviter)
}

// VestingStart returns the project's vesting clock, zero if not activated.
func (e *Engine) VestingStart(projectID uint64) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	pr, err := e.store.ProjectReward(projectID)
	if err != nil {
		return 0, err
	}
	return pr.VestingStart, nil
}
