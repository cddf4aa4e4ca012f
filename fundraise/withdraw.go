package fundraise

import (
	"github.com/crowdlend/libcrowdlend-go/registry"
)

// WithdrawInvestment returns an investor's full stake on a canceled
// project. The investor may call for themselves, or a manager on their
// behalf; funds always go to the investor's registered claim address.
func (l *Ledger) WithdrawInvestment(caller, investor registry.Address, projectID uint64) error {
	if investor.IsZero() {
		return ErrZeroAddress
	}
	if caller != investor && !l.reg.IsManager(caller) {
		return ErrNotInvestor
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	p, err := l.store.Project(projectID)
	if err != nil {
		return err
	}
	if !p.Exists() {
		return ErrProjectNotFound
	}
	syncStage(&p, l.now().Unix())
	if p.Stage != StageCanceled {
		return ErrWrongStage
	}

	pos, err := l.store.Position(investor, projectID)
	if err != nil {
		return err
	}
	if pos.Invested == 0 {
		return ErrNothingToWithdraw
	}
	sc, err := l.loanToken(&p)
	if err != nil {
		return err
	}

	amount := pos.Invested
	dest := l.reg.GetInvestorClaimAddress(investor)
	if err := sc.Transfer(l.addr, dest, amount); err != nil {
		return err
	}
	pos.Invested = 0
	p.TotalInvested -= amount
	if err := l.store.PutPosition(investor, projectID, pos); err != nil {
		return err
	}
	return l.store.PutProject(p)
}
