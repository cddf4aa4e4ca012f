package fundraise

import (
	"github.com/crowdlend/libcrowdlend-go/registry"
)

// Claim pays an investor their pending share of repayments. The investor
// may call for themselves, or a manager on their behalf; funds go to the
// investor's registered claim address. Valid while the project is Funded or
// Repaid. A call with nothing pending is an accepted no-op, so claims may
// be retried freely between repayments.
func (l *Ledger) Claim(caller, investor registry.Address, projectID uint64) error {
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
	if p.Stage != StageFunded && p.Stage != StageRepaid {
		return ErrWrongStage
	}

	pos, err := l.store.Position(investor, projectID)
	if err != nil {
		return err
	}
	payout := claimablePayout(&p, &pos)
	if payout == 0 {
		return nil
	}

	sc, err := l.loanToken(&p)
	if err != nil {
		return err
	}
	dest := l.reg.GetInvestorClaimAddress(investor)
	if err := sc.Transfer(l.addr, dest, payout); err != nil {
		return err
	}
	pos.Claimed += payout
	return l.store.PutPosition(investor, projectID, pos)
}
