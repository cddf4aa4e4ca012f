package fundraise

// syncStage applies the lazy, time- and capital-driven stage transitions.
// Returns true if the record changed. Explicit actions (cancellation, fund
// release) are not evaluated here.
//
//	ComingSoon -> Open       once now >= StartAt
//	Open       -> PreFunded  when TotalInvested reaches HardCap, or the
//	                         deadline passed with TotalInvested > SoftCap
//	Open       -> Canceled   when the deadline passed with TotalInvested <= SoftCap
func syncStage(p *Project, now int64) bool {
	changed := false

	if p.Stage == StageComingSoon && now >= p.StartAt {
		p.Stage = StageOpen
		changed = true
	}

	if p.Stage == StageOpen {
		switch {
		case p.HardCap > 0 && p.TotalInvested >= p.HardCap:
			p.Stage = StagePreFunded
			p.PreFundClockStart = now
			changed = true
		case now > p.OpenDeadline && p.TotalInvested > p.SoftCap:
			p.Stage = StagePreFunded
			p.PreFundClockStart = now
			changed = true
		case now > p.OpenDeadline:
			p.Stage = StageCanceled
			changed = true
		}
	}

	return changed
}

// AdvanceStage applies the lazy transitions for a project. Permissionless;
// a no-op when no transition is due.
func (l *Ledger) AdvanceStage(projectID uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	p, err := l.store.Project(projectID)
	if err != nil {
		return err
	}
	if !p.Exists() {
		return ErrProjectNotFound
	}
	if syncStage(&p, l.now().Unix()) {
		return l.store.PutProject(p)
	}
	return nil
}
