package reward

import (
	"path/filepath"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempBoltStore(t *testing.T) *BoltStore {
	t.Helper()
	store, err := OpenBoltStore(filepath.Join(t.TempDir(), "reward.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestBoltStore_ProfileRoundTrip(t *testing.T) {
	store := tempBoltStore(t)
	user, inviter := addr(10), addr(11)

	// Unknown users read as the zero profile.
	p, err := store.Profile(user)
	require.NoError(t, err)
	assert.True(t, p.IsNewUser())
	assert.False(t, p.HasInviter)

	p.Inviter = inviter
	p.HasInviter = true
	p.Welcomed = true
	require.NoError(t, store.PutProfile(user, p))

	got, err := store.Profile(user)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestBoltStore_AccrualRoundTrip(t *testing.T) {
	store := tempBoltStore(t)
	user := addr(10)

	a := Accrual{USDC: 42_000_000}
	a.Tokens.Set(tokens(123))
	a.VestingClaimed.Set(tokens(4))
	require.NoError(t, store.PutAccrual(user, 7, a))

	got, err := store.Accrual(user, 7)
	require.NoError(t, err)
	assert.Equal(t, a, got)

	// Same user, different project is independent state.
	other, err := store.Accrual(user, 8)
	require.NoError(t, err)
	assert.Zero(t, other.USDC)
	assert.True(t, other.Tokens.IsZero())
}

func TestBoltStore_AccrualKeyedByUser(t *testing.T) {
	store := tempBoltStore(t)

	a1 := Accrual{USDC: 1}
	a2 := Accrual{USDC: 2}
	require.NoError(t, store.PutAccrual(addr(10), 7, a1))
	require.NoError(t, store.PutAccrual(addr(11), 7, a2))

	got, err := store.Accrual(addr(10), 7)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), got.USDC)
}

func TestBoltStore_ProjectRewardRoundTrip(t *testing.T) {
	store := tempBoltStore(t)

	pr := ProjectReward{VestingStart: 1_700_000_000}
	pr.PendingMint.Set(tokens(999))
	require.NoError(t, store.PutProjectReward(3, pr))

	got, err := store.ProjectReward(3)
	require.NoError(t, err)
	assert.Equal(t, pr, got)
}

func TestBoltStore_InviterStatsRoundTrip(t *testing.T) {
	store := tempBoltStore(t)
	inviter := addr(11)

	st := InviterStats{TotalReferralUSDC: 55, RefereeCount: 3}
	require.NoError(t, store.PutInviterStats(inviter, st))

	got, err := store.InviterStats(inviter)
	require.NoError(t, err)
	assert.Equal(t, st, got)
}

func TestBoltStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reward.db")

	store, err := OpenBoltStore(path)
	require.NoError(t, err)
	a := Accrual{USDC: 77}
	a.Tokens.Set(uint256.NewInt(5))
	require.NoError(t, store.PutAccrual(addr(10), 1, a))
	require.NoError(t, store.Close())

	store, err = OpenBoltStore(path)
	require.NoError(t, err)
	defer store.Close()

	got, err := store.Accrual(addr(10), 1)
	require.NoError(t, err)
	assert.Equal(t, a, got)
}

func TestEngineWithBoltStore(t *testing.T) {
	f := newFixture(t)
	f.engine.store = tempBoltStore(t)
	user := addr(10)

	require.NoError(t, f.engine.RecordInvestment(f.fundraise, user, 1_000_000_000, addr(11), 1))
	require.NoError(t, f.engine.ActivateProjectRewards(f.fundraise, 1, 1_000_000_000))

	acc, err := f.engine.AccrualFor(user, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(30_000_000), acc.USDC)
	assert.False(t, acc.Tokens.IsZero())
}
