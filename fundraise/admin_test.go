package fundraise

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crowdlend/libcrowdlend-go/registry"
)

// ---------------------------------------------------------------------------
// CreateProject tests
// ---------------------------------------------------------------------------

func TestCreateProject_ManagerOnly(t *testing.T) {
	f := newFixture(t)
	_, err := f.ledger.CreateProject(addr(9), Project{
		Borrower:  f.borrower,
		LoanToken: "USDC",
		HardCap:   1_000 * usdc,
		SoftCap:   500 * usdc,
	})
	assert.ErrorIs(t, err, ErrNotManager)
}

func TestCreateProject_MonotonicIDs(t *testing.T) {
	f := newFixture(t)
	id1 := f.createProject(t)
	id2 := f.createProject(t)
	assert.Equal(t, uint64(1), id1)
	assert.Equal(t, uint64(2), id2)
}

func TestCreateProject_ForcesComingSoonAndCleanCounters(t *testing.T) {
	f := newFixture(t)
	id, err := f.ledger.CreateProject(f.owner, Project{
		Borrower:      f.borrower,
		LoanToken:     "USDC",
		HardCap:       1_000 * usdc,
		SoftCap:       500 * usdc,
		StartAt:       f.now.Unix() + day,
		OpenDeadline:  f.now.Unix() + 30*day,
		Stage:         StageFunded, // ignored
		TotalInvested: 999,         // ignored
		TotalRepaid:   999,         // ignored
	})
	require.NoError(t, err)

	p, err := f.ledger.GetProject(id)
	require.NoError(t, err)
	assert.Equal(t, StageComingSoon, p.Stage)
	assert.Zero(t, p.TotalInvested)
	assert.Zero(t, p.TotalRepaid)
	assert.Zero(t, p.FundedTime)
}

func TestCreateProject_Validation(t *testing.T) {
	f := newFixture(t)

	_, err := f.ledger.CreateProject(f.owner, Project{
		Borrower: f.borrower, LoanToken: "USDC",
	})
	assert.ErrorIs(t, err, ErrZeroCaps)

	_, err = f.ledger.CreateProject(f.owner, Project{
		LoanToken: "USDC", HardCap: 1_000 * usdc,
	})
	assert.ErrorIs(t, err, ErrZeroAddress)
}

// ---------------------------------------------------------------------------
// SetProject tests
// ---------------------------------------------------------------------------

func TestSetProject_ComingSoonFullRewrite(t *testing.T) {
	f := newFixture(t)
	id, err := f.ledger.CreateProject(f.owner, Project{
		Borrower:     f.borrower,
		LoanToken:    "USDC",
		HardCap:      1_000 * usdc,
		SoftCap:      500 * usdc,
		StartAt:      f.now.Unix() + day,
		OpenDeadline: f.now.Unix() + 30*day,
	})
	require.NoError(t, err)

	np := Project{
		Borrower:        addr(8),
		LoanToken:       "USDC",
		HardCap:         2_000 * usdc,
		SoftCap:         900 * usdc,
		StartAt:         f.now.Unix() + 2*day,
		OpenDeadline:    f.now.Unix() + 60*day,
		PreFundDuration: 7 * day,
		InvestorRate:    80_000,
		PlatformRate:    20_000,
		Stage:           StageComingSoon,
	}
	require.NoError(t, f.ledger.SetProject(f.owner, id, np))

	got, err := f.ledger.GetProject(id)
	require.NoError(t, err)
	np.ID = id
	assert.Equal(t, np, got)
}

func TestSetProject_ComingSoonCannotSkipStages(t *testing.T) {
	f := newFixture(t)
	id, err := f.ledger.CreateProject(f.owner, Project{
		Borrower:     f.borrower,
		LoanToken:    "USDC",
		HardCap:      1_000 * usdc,
		SoftCap:      500 * usdc,
		StartAt:      f.now.Unix() + day,
		OpenDeadline: f.now.Unix() + 30*day,
	})
	require.NoError(t, err)

	np := Project{
		Borrower: f.borrower, LoanToken: "USDC",
		HardCap: 1_000 * usdc, SoftCap: 500 * usdc,
		Stage: StageOpen,
	}
	assert.ErrorIs(t, f.ledger.SetProject(f.owner, id, np), ErrWrongStage)
}

func TestSetProject_OpenGuardedFields(t *testing.T) {
	f := newFixture(t)
	id := f.createProject(t)

	p, err := f.ledger.GetProject(id)
	require.NoError(t, err)

	// Deadline may extend up to 30 days per call.
	np := p
	np.OpenDeadline = p.OpenDeadline + 30*day
	require.NoError(t, f.ledger.SetProject(f.owner, id, np))

	// Rates may only increase.
	np, err = f.ledger.GetProject(id)
	require.NoError(t, err)
	np.InvestorRate += 10_000
	np.PlatformRate += 5_000
	require.NoError(t, f.ledger.SetProject(f.owner, id, np))

	got, err := f.ledger.GetProject(id)
	require.NoError(t, err)
	assert.Equal(t, p.OpenDeadline+30*day, got.OpenDeadline)
	assert.Equal(t, p.InvestorRate+10_000, got.InvestorRate)
	assert.Equal(t, p.PlatformRate+5_000, got.PlatformRate)
}

func TestSetProject_OpenGuardViolations(t *testing.T) {
	f := newFixture(t)
	id := f.createProject(t)
	p, err := f.ledger.GetProject(id)
	require.NoError(t, err)

	tests := []struct {
		name    string
		modify  func(*Project)
		wantErr error
	}{
		{
			name:    "deadline_decrease",
			modify:  func(np *Project) { np.OpenDeadline = p.OpenDeadline - 1 },
			wantErr: ErrDeadlineGuard,
		},
		{
			name:    "deadline_extension_too_long",
			modify:  func(np *Project) { np.OpenDeadline = p.OpenDeadline + 30*day + 1 },
			wantErr: ErrDeadlineGuard,
		},
		{
			name:    "investor_rate_decrease",
			modify:  func(np *Project) { np.InvestorRate = p.InvestorRate - 1 },
			wantErr: ErrRateGuard,
		},
		{
			name:    "platform_rate_decrease",
			modify:  func(np *Project) { np.PlatformRate = p.PlatformRate - 1 },
			wantErr: ErrRateGuard,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			np := p
			tc.modify(&np)
			assert.ErrorIs(t, f.ledger.SetProject(f.owner, id, np), tc.wantErr)
		})
	}
}

func TestSetProject_OpenIgnoresOtherFields(t *testing.T) {
	f := newFixture(t)
	id := f.createProject(t)
	p, err := f.ledger.GetProject(id)
	require.NoError(t, err)

	// Changes outside the three guarded fields are silently dropped.
	np := p
	np.HardCap = 99_999 * usdc
	np.Borrower = addr(9)
	np.TotalInvested = 12345
	require.NoError(t, f.ledger.SetProject(f.owner, id, np))

	got, err := f.ledger.GetProject(id)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestSetProject_Guards(t *testing.T) {
	f := newFixture(t)
	id := f.createProject(t)
	p, err := f.ledger.GetProject(id)
	require.NoError(t, err)

	assert.ErrorIs(t, f.ledger.SetProject(addr(9), id, p), ErrNotManager)
	assert.ErrorIs(t, f.ledger.SetProject(f.owner, 999, p), ErrProjectNotFound)

	// No mutation once the raise is over.
	require.NoError(t, f.invest(t, addr(10), id, 40_000*usdc, registry.ZeroAddress))
	assert.ErrorIs(t, f.ledger.SetProject(f.owner, id, p), ErrWrongStage)
}

// ---------------------------------------------------------------------------
// CancelProject tests
// ---------------------------------------------------------------------------

func TestCancelProject_ByManager(t *testing.T) {
	f := newFixture(t)

	for _, setup := range []func() uint64{
		func() uint64 { // ComingSoon
			id, err := f.ledger.CreateProject(f.owner, Project{
				Borrower: f.borrower, LoanToken: "USDC",
				HardCap: 1_000 * usdc, SoftCap: 500 * usdc,
				StartAt:      f.now.Unix() + day,
				OpenDeadline: f.now.Unix() + 30*day,
			})
			require.NoError(t, err)
			return id
		},
		func() uint64 { // Open
			return f.createProject(t)
		},
		func() uint64 { // PreFunded
			id := f.createProject(t)
			require.NoError(t, f.invest(t, addr(10), id, 40_000*usdc, registry.ZeroAddress))
			return id
		},
	} {
		id := setup()
		require.NoError(t, f.ledger.CancelProject(f.owner, id))
		p, err := f.ledger.GetProject(id)
		require.NoError(t, err)
		assert.Equal(t, StageCanceled, p.Stage)
	}
}

func TestCancelProject_ManagerCannotCancelFunded(t *testing.T) {
	f := newFixture(t)
	id := fundProject(t, f, addr(10), 25_000*usdc)
	assert.ErrorIs(t, f.ledger.CancelProject(f.owner, id), ErrWrongStage)
}

func TestCancelProject_PermissionlessAfterTimeout(t *testing.T) {
	f := newFixture(t)
	id := f.createProject(t)
	require.NoError(t, f.invest(t, addr(10), id, 40_000*usdc, registry.ZeroAddress))

	// Before the grace window elapses, outsiders cannot cancel.
	err := f.ledger.CancelProject(addr(9), id)
	assert.ErrorIs(t, err, ErrTimeoutNotReached)

	// Once PreFundClockStart + PreFundDuration passes, anyone can.
	f.advance(15 * day * time.Second)
	require.NoError(t, f.ledger.CancelProject(addr(9), id))

	p, perr := f.ledger.GetProject(id)
	require.NoError(t, perr)
	assert.Equal(t, StageCanceled, p.Stage)
}

func TestCancelProject_OutsiderBeforePreFunded(t *testing.T) {
	f := newFixture(t)
	id := f.createProject(t)
	assert.ErrorIs(t, f.ledger.CancelProject(addr(9), id), ErrNotManager)
}

func TestCancelProject_Unknown(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.ledger.CancelProject(f.owner, 42), ErrProjectNotFound)
}
