package fundraise

import (
	"fmt"

	"github.com/crowdlend/libcrowdlend-go/authz"
	"github.com/crowdlend/libcrowdlend-go/registry"
)

// InvestUpdate is the investment entry point. The call carries a new
// whitelist root, the next global nonce, and the trusted signer's signature
// binding (caller, project, amount, root, nonce, inviter); the signature is
// the sole admission check — it authorizes both the root rotation and the
// investment.
//
// On an accepted call the root is stored, the investment effect is applied,
// and the global nonce advances by one. A call against a project that is
// still ComingSoon and not yet started is accepted but only rotates the
// root and consumes the nonce; no funds move.
func (l *Ledger) InvestUpdate(caller registry.Address, projectID uint64, amount uint64, newRoot authz.Root, nonce uint64, sigDER []byte, inviter registry.Address) error {
	if caller.IsZero() {
		return ErrZeroAddress
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Strict sequential nonce consumption: any gap or replay fails before
	// anything else is even read.
	current, err := l.store.Nonce()
	if err != nil {
		return err
	}
	if nonce != current+1 {
		return fmt.Errorf("%w: got %d, want %d", ErrBadNonce, nonce, current+1)
	}

	msg := &authz.Message{
		Investor:  caller,
		ProjectID: projectID,
		Amount:    amount,
		NewRoot:   newRoot,
		Nonce:     nonce,
		Inviter:   inviter,
	}
	if err := authz.Verify(msg, sigDER, l.signer); err != nil {
		return err
	}

	p, err := l.store.Project(projectID)
	if err != nil {
		return err
	}
	now := l.now().Unix()
	stageChanged := syncStage(&p, now)

	invest := true
	switch {
	case inviter == caller:
		return ErrSelfInvite
	case !p.Exists():
		return ErrProjectNotFound
	case caller == p.Borrower:
		return ErrBorrowerInvestment
	case p.Stage == StageComingSoon:
		// Not started yet: accepted, but only the root rotates.
		invest = false
	case p.Stage != StageOpen:
		return ErrWrongStage
	case amount == 0:
		return ErrZeroAmount
	case p.HardCap > 0 && p.TotalInvested+amount > p.HardCap:
		return ErrHardCapExceeded
	}

	if invest {
		sc, err := l.loanToken(&p)
		if err != nil {
			return err
		}
		// The investor's balance is checked up front so the transfer
		// after the reward notification cannot fail and tear state.
		if sc.BalanceOf(caller) < amount {
			return ErrInsufficientFunds
		}
		// The reward notification is fallible (it prices the token
		// entitlement against the venue); it must succeed before any
		// funds move.
		if err := l.rewards.RecordInvestment(l.addr, caller, amount, inviter, projectID); err != nil {
			return err
		}
		if err := sc.Transfer(caller, l.addr, amount); err != nil {
			return err
		}

		pos, err := l.store.Position(caller, projectID)
		if err != nil {
			return err
		}
		pos.Invested += amount
		p.TotalInvested += amount
		stageChanged = syncStage(&p, now) || stageChanged

		if err := l.store.PutPosition(caller, projectID, pos); err != nil {
			return err
		}
	}

	if invest || stageChanged {
		if err := l.store.PutProject(p); err != nil {
			return err
		}
	}
	if err := l.store.PutWhitelistRoot(projectID, newRoot); err != nil {
		return err
	}
	return l.store.PutNonce(nonce)
}
