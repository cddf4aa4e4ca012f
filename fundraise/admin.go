package fundraise

import (
	"github.com/crowdlend/libcrowdlend-go/registry"
)

// maxDeadlineExtension bounds a single OpenDeadline extension while a
// project is raising.
const maxDeadlineExtension = 30 * 24 * 60 * 60 // 30 days, seconds

// CreateProject registers a new campaign and returns its id. Manager only.
// The record starts in ComingSoon regardless of the supplied stage; ids are
// monotonically increasing and never reused. hardCap >= softCap is expected
// but not enforced here.
func (l *Ledger) CreateProject(caller registry.Address, p Project) (uint64, error) {
	if !l.reg.IsManager(caller) {
		return 0, ErrNotManager
	}
	if !p.Exists() {
		return 0, ErrZeroCaps
	}
	if p.Borrower.IsZero() {
		return 0, ErrZeroAddress
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.bank[p.LoanToken]; !ok {
		return 0, ErrUnknownLoanToken
	}
	id, err := l.store.NextProjectID()
	if err != nil {
		return 0, err
	}
	p.ID = id
	p.Stage = StageComingSoon
	p.TotalInvested = 0
	p.TotalRepaid = 0
	p.FundedTime = 0
	p.PreFundClockStart = 0
	if err := l.store.PutProject(p); err != nil {
		return 0, err
	}
	return id, nil
}

// SetProject mutates a project record. Manager only; permitted only while
// ComingSoon or Open.
//
// While ComingSoon the whole record may be rewritten, provided the new
// record also specifies ComingSoon. While Open exactly three fields are
// mutable, each one-directionally: OpenDeadline may increase by at most 30
// days per call, and the two interest rates may only increase. Changes to
// any other field in the Open branch are silently ignored.
func (l *Ledger) SetProject(caller registry.Address, id uint64, np Project) error {
	if !l.reg.IsManager(caller) {
		return ErrNotManager
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	p, err := l.store.Project(id)
	if err != nil {
		return err
	}
	if !p.Exists() {
		return ErrProjectNotFound
	}

	switch p.Stage {
	case StageComingSoon:
		if np.Stage != StageComingSoon {
			return ErrWrongStage
		}
		np.ID = id
		return l.store.PutProject(np)

	case StageOpen:
		if np.OpenDeadline != p.OpenDeadline {
			if np.OpenDeadline < p.OpenDeadline || np.OpenDeadline-p.OpenDeadline > maxDeadlineExtension {
				return ErrDeadlineGuard
			}
			p.OpenDeadline = np.OpenDeadline
		}
		if np.PlatformRate != p.PlatformRate {
			if np.PlatformRate < p.PlatformRate {
				return ErrRateGuard
			}
			p.PlatformRate = np.PlatformRate
		}
		if np.InvestorRate != p.InvestorRate {
			if np.InvestorRate < p.InvestorRate {
				return ErrRateGuard
			}
			p.InvestorRate = np.InvestorRate
		}
		return l.store.PutProject(p)

	default:
		return ErrWrongStage
	}
}

// CancelProject cancels a campaign. A manager may cancel at any time while
// the project is ComingSoon, Open, or PreFunded. Any caller may cancel a
// PreFunded project once the pre-fund grace window has elapsed — the
// permissionless escape hatch for stuck projects.
func (l *Ledger) CancelProject(caller registry.Address, projectID uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	p, err := l.store.Project(projectID)
	if err != nil {
		return err
	}
	if !p.Exists() {
		return ErrProjectNotFound
	}

	now := l.now().Unix()
	changed := syncStage(&p, now)
	if p.Stage == StageCanceled {
		// The deadline transition already canceled it; persist and stop.
		if changed {
			return l.store.PutProject(p)
		}
		return nil
	}

	if !l.reg.IsManager(caller) {
		if p.Stage != StagePreFunded {
			return ErrNotManager
		}
		if now <= p.PreFundClockStart+p.PreFundDuration {
			return ErrTimeoutNotReached
		}
	} else if p.Stage != StageComingSoon && p.Stage != StageOpen && p.Stage != StagePreFunded {
		return ErrWrongStage
	}

	p.Stage = StageCanceled
	return l.store.PutProject(p)
}
