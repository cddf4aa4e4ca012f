package reward

import (
	"github.com/holiman/uint256"

	"github.com/crowdlend/libcrowdlend-go/registry"
)

// ClaimUSDCForProject pays out the caller's accrued stablecoin bonus for a
// project and zeroes the accrual. Requires the project's rewards to be
// activated.
func (e *Engine) ClaimUSDCForProject(caller registry.Address, projectID uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sendUSDCLocked(caller, projectID)
}

// SendUSDCForProjectToUser is the manager-initiated equivalent of
// ClaimUSDCForProject.
func (e *Engine) SendUSDCForProjectToUser(caller, user registry.Address, projectID uint64) error {
	if !e.reg.IsManager(caller) {
		return ErrNotManager
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sendUSDCLocked(user, projectID)
}

// SendUSDCForProjectToUserBatch processes multiple stablecoin payouts. Each
// element carries the per-element guards of the singular call; the batch is
// validated in full before any payout, so one bad element means nothing is
// paid.
func (e *Engine) SendUSDCForProjectToUserBatch(caller registry.Address, elements []UserProject) error {
	if !e.reg.IsManager(caller) {
		return ErrNotManager
	}
	if len(elements) == 0 {
		return ErrEmptyBatch
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	// Duplicates would pass validation against the unmutated state and then
	// fail mid-payout, so they are rejected up front.
	seen := make(map[UserProject]struct{}, len(elements))
	var need uint64
	for _, el := range elements {
		if _, dup := seen[el]; dup {
			return ErrDuplicateElement
		}
		seen[el] = struct{}{}
		amount, _, err := e.usdcPayoutLocked(el.User, el.ProjectID)
		if err != nil {
			return err
		}
		need += amount
	}
	if e.stable.BalanceOf(e.addr) < need {
		return ErrInsufficientStable
	}
	for _, el := range elements {
		if err := e.sendUSDCLocked(el.User, el.ProjectID); err != nil {
			return err
		}
	}
	return nil
}

// usdcPayoutLocked validates a stablecoin payout and returns its amount and
// destination without mutating anything.
func (e *Engine) usdcPayoutLocked(user registry.Address, projectID uint64) (uint64, registry.Address, error) {
	if user.IsZero() {
		return 0, registry.ZeroAddress, ErrZeroAddress
	}
	pr, err := e.store.ProjectReward(projectID)
	if err != nil {
		return 0, registry.ZeroAddress, err
	}
	if pr.VestingStart == 0 {
		return 0, registry.ZeroAddress, ErrNotActivated
	}
	acc, err := e.store.Accrual(user, projectID)
	if err != nil {
		return 0, registry.ZeroAddress, err
	}
	if acc.USDC == 0 {
		return 0, registry.ZeroAddress, ErrNothingToClaim
	}
	return acc.USDC, e.reg.GetInvestorClaimAddress(user), nil
}

// sendUSDCLocked performs a single validated stablecoin payout.
func (e *Engine) sendUSDCLocked(user registry.Address, projectID uint64) error {
	amount, dest, err := e.usdcPayoutLocked(user, projectID)
	if err != nil {
		return err
	}
	acc, err := e.store.Accrual(user, projectID)
	if err != nil {
		return err
	}
	if err := e.stable.Transfer(e.addr, dest, amount); err != nil {
		return err
	}
	acc.USDC = 0
	return e.store.PutAccrual(user, projectID, acc)
}

// ClaimTokensForProject pays out the caller's currently unlockable vested
// tokens for a project. Requires activation, a positive claimable amount,
// and the engine's token balance to cover it.
func (e *Engine) ClaimTokensForProject(caller registry.Address, projectID uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sendTokensLocked(caller, projectID)
}

// SendTokensForProjectToUser is the manager-initiated equivalent of
// ClaimTokensForProject.
func (e *Engine) SendTokensForProjectToUser(caller, user registry.Address, projectID uint64) error {
	if !e.reg.IsManager(caller) {
		return ErrNotManager
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sendTokensLocked(user, projectID)
}

// SendTokensForProjectToUserBatch processes multiple token payouts with the
// singular call's guards per element; a failing element aborts the batch
// before any payout.
func (e *Engine) SendTokensForProjectToUserBatch(caller registry.Address, elements []UserProject) error {
	if !e.reg.IsManager(caller) {
		return ErrNotManager
	}
	if len(elements) == 0 {
		return ErrEmptyBatch
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	seen := make(map[UserProject]struct{}, len(elements))
	need := uint256.NewInt(0)
	for _, el := range elements {
		if _, dup := seen[el]; dup {
			return ErrDuplicateElement
		}
		seen[el] = struct{}{}
		amount, err := e.tokenPayoutLocked(el.User, el.ProjectID)
		if err != nil {
			return err
		}
		need.Add(need, amount)
	}
	if e.asset.BalanceOf(e.addr).Lt(need) {
		return ErrInsufficientRewardBalance
	}
	for _, el := range elements {
		if err := e.sendTokensLocked(el.User, el.ProjectID); err != nil {
			return err
		}
	}
	return nil
}

// tokenPayoutLocked validates a token payout and returns the claimable
// amount without mutating anything.
func (e *Engine) tokenPayoutLocked(user registry.Address, projectID uint64) (*uint256.Int, error) {
	if user.IsZero() {
		return nil, ErrZeroAddress
	}
	pr, err := e.store.ProjectReward(projectID)
	if err != nil {
		return nil, err
	}
	if pr.VestingStart == 0 {
		return nil, ErrNotActivated
	}
	amount, err := e.claimableLocked(user, projectID)
	if err != nil {
		return nil, err
	}
	if amount.IsZero() {
		return nil, ErrNothingToClaim
	}
	return amount, nil
}

// sendTokensLocked performs a single validated token payout. The destination
// gets a transient pool exemption so the transfer passes the buying gate,
// scoped to this call alone.
func (e *Engine) sendTokensLocked(user registry.Address, projectID uint64) error {
	amount, err := e.tokenPayoutLocked(user, projectID)
	if err != nil {
		return err
	}
	if e.asset.BalanceOf(e.addr).Lt(amount) {
		return ErrInsufficientRewardBalance
	}

	dest := e.reg.GetInvestorClaimAddress(user)
	wasPool := e.reg.IsPool(dest)
	if !wasPool {
		if err := e.reg.SetPoolStatusForReward(e.addr, dest, true); err != nil {
			return err
		}
	}
	transferErr := e.asset.Transfer(e.addr, dest, amount)
	if !wasPool {
		_ = e.reg.SetPoolStatusForReward(e.addr, dest, false)
	}
	if transferErr != nil {
		return transferErr
	}

	acc, err := e.store.Accrual(user, projectID)
	if err != nil {
		return err
	}
	acc.VestingClaimed.Add(&acc.VestingClaimed, amount)
	return e.store.PutAccrual(user, projectID, acc)
}

// DistributeVestingTokens grants additional token entitlements outside the
// investment path. Manager only. The granted quantity is minted to the
// engine so later claims are backed; a project whose vesting clock is still
// unset is lazily activated at the current time.
func (e *Engine) DistributeVestingTokens(caller registry.Address, grants []TokenGrant) error {
	if !e.reg.IsManager(caller) {
		return ErrNotManager
	}
	if len(grants) == 0 {
		return ErrEmptyBatch
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	total := uint256.NewInt(0)
	for _, g := range grants {
		if g.User.IsZero() {
			return ErrZeroAddress
		}
		if g.Amount == nil || g.Amount.IsZero() {
			return ErrZeroAmount
		}
		total.Add(total, g.Amount)
	}
	if err := e.asset.MintReward(e.addr, e.addr, total); err != nil {
		return err
	}

	for _, g := range grants {
		acc, err := e.store.Accrual(g.User, g.ProjectID)
		if err != nil {
			return err
		}
		acc.Tokens.Add(&acc.Tokens, g.Amount)
		if err := e.store.PutAccrual(g.User, g.ProjectID, acc); err != nil {
			return err
		}

		pr, err := e.store.ProjectReward(g.ProjectID)
		if err != nil {
			return err
		}
		if pr.VestingStart == 0 {
			pr.VestingStart = e.now().Unix()
			if err := e.store.PutProjectReward(g.ProjectID, pr); err != nil {
				return err
			}
		}
	}
	return nil
}
