package fundraise

import (
	"github.com/crowdlend/libcrowdlend-go/registry"
)

// MakeRepayment records a loan repayment, pulling amount from the caller
// into escrow. Callable by the borrower or a manager, only while the
// project is Funded. Once cumulative repayments reach principal plus the
// investor interest the project moves to Repaid; repayments past that point
// are rejected with the stage error.
func (l *Ledger) MakeRepayment(caller registry.Address, projectID uint64, amount uint64) error {
	if amount == 0 {
		return ErrZeroAmount
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
	if caller != p.Borrower && !l.reg.IsManager(caller) {
		return ErrNotBorrower
	}
	if p.Stage != StageFunded {
		return ErrWrongStage
	}

	sc, err := l.loanToken(&p)
	if err != nil {
		return err
	}
	if err := sc.Transfer(caller, l.addr, amount); err != nil {
		return err
	}

	p.TotalRepaid += amount
	owed := p.TotalInvested + mulDivBP(p.TotalInvested, p.InvestorRate)
	if p.TotalRepaid >= owed {
		p.Stage = StageRepaid
	}
	return l.store.PutProject(p)
}
