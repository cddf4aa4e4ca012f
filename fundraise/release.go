package fundraise

import (
	"github.com/crowdlend/libcrowdlend-go/registry"
)

// TransferFundsToBorrower releases an escrowed raise to the borrower.
// Callable by the borrower or a manager. From PreFunded the release is
// unconditional; from Open it requires the raise to have cleared the soft
// cap. Any other stage is an accepted no-op, so a retried release after
// success does not fail.
//
// Activation of project rewards (minting plus buyback-and-burn) is the
// fallible step and runs first; the platform fee then moves to the
// treasury and the remainder to the borrower.
func (l *Ledger) TransferFundsToBorrower(caller registry.Address, projectID uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	p, err := l.store.Project(projectID)
	if err != nil {
		return err
	}
	if !p.Exists() {
		return ErrProjectNotFound
	}
	if caller != p.Borrower && !l.reg.IsManager(caller) {
		return ErrNotBorrower
	}

	now := l.now().Unix()
	stageChanged := syncStage(&p, now)

	switch p.Stage {
	case StagePreFunded:
	case StageOpen:
		if p.TotalInvested < p.SoftCap {
			return ErrSoftCapNotReached
		}
	default:
		if stageChanged {
			return l.store.PutProject(p)
		}
		return nil
	}

	sc, err := l.loanToken(&p)
	if err != nil {
		return err
	}
	if err := l.rewards.ActivateProjectRewards(l.addr, projectID, p.TotalInvested); err != nil {
		return err
	}

	fee := mulDivBP(p.TotalInvested, p.PlatformRate)
	if fee > 0 {
		if err := sc.Transfer(l.addr, l.treasury, fee); err != nil {
			return err
		}
	}
	if remainder := p.TotalInvested - fee; remainder > 0 {
		if err := sc.Transfer(l.addr, p.Borrower, remainder); err != nil {
			return err
		}
	}

	p.Stage = StageFunded
	p.FundedTime = now
	return l.store.PutProject(p)
}
