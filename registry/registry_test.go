package registry

import (
	"testing"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addr(b byte) Address {
	var a Address
	a[0] = b
	return a
}

// ---------------------------------------------------------------------------
// Address tests
// ---------------------------------------------------------------------------

func TestAddressFromPubKey_Deterministic(t *testing.T) {
	priv, err := ec.NewPrivateKey()
	require.NoError(t, err)

	a1 := AddressFromPubKey(priv.PubKey())
	a2 := AddressFromPubKey(priv.PubKey())
	assert.Equal(t, a1, a2)
	assert.False(t, a1.IsZero())
}

func TestAddressFromString_RoundTrip(t *testing.T) {
	a := addr(0x7f)
	got, err := AddressFromString(a.String())
	require.NoError(t, err)
	assert.Equal(t, a, got)
}

func TestAddressFromString_Invalid(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"not_hex", "zzzz"},
		{"too_short", "abcd"},
		{"too_long", "0000000000000000000000000000000000000000ff"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := AddressFromString(tc.in)
			assert.ErrorIs(t, err, ErrInvalidAddress)
		})
	}
}

// ---------------------------------------------------------------------------
// Role tests
// ---------------------------------------------------------------------------

func TestSetRole_OwnerOnly(t *testing.T) {
	owner := addr(1)
	r := New(owner)

	err := r.SetRole(addr(2), RoleManager, addr(3), true)
	assert.ErrorIs(t, err, ErrNotOwner)
	assert.False(t, r.IsManager(addr(3)))

	require.NoError(t, r.SetRole(owner, RoleManager, addr(3), true))
	assert.True(t, r.IsManager(addr(3)))
}

func TestSetRole_Revoke(t *testing.T) {
	owner := addr(1)
	r := New(owner)

	require.NoError(t, r.SetRole(owner, RolePool, addr(5), true))
	assert.True(t, r.IsPool(addr(5)))

	require.NoError(t, r.SetRole(owner, RolePool, addr(5), false))
	assert.False(t, r.IsPool(addr(5)))
}

func TestSetRole_ZeroAddress(t *testing.T) {
	r := New(addr(1))
	err := r.SetRole(addr(1), RolePool, ZeroAddress, true)
	assert.ErrorIs(t, err, ErrZeroAddress)
}

func TestNew_OwnerIsManager(t *testing.T) {
	owner := addr(9)
	r := New(owner)
	assert.True(t, r.IsManager(owner))
	assert.Equal(t, owner, r.Owner())
}

func TestRoles_Independent(t *testing.T) {
	owner := addr(1)
	r := New(owner)
	require.NoError(t, r.SetRole(owner, RoleFundraise, addr(4), true))

	assert.True(t, r.IsFundraise(addr(4)))
	assert.False(t, r.IsPool(addr(4)))
	assert.False(t, r.IsRewardSystem(addr(4)))
	assert.False(t, r.IsTreasury(addr(4)))
}

// ---------------------------------------------------------------------------
// Transient pool exemption tests
// ---------------------------------------------------------------------------

func TestSetPoolStatusForReward_RewardSystemOnly(t *testing.T) {
	owner := addr(1)
	engine := addr(2)
	r := New(owner)
	require.NoError(t, r.SetRole(owner, RoleRewardSystem, engine, true))

	// Only the registered reward system may toggle the exemption.
	err := r.SetPoolStatusForReward(addr(3), addr(7), true)
	assert.ErrorIs(t, err, ErrNotRewardSystem)

	require.NoError(t, r.SetPoolStatusForReward(engine, addr(7), true))
	assert.True(t, r.IsPool(addr(7)))

	require.NoError(t, r.SetPoolStatusForReward(engine, addr(7), false))
	assert.False(t, r.IsPool(addr(7)))
}

func TestSetPoolStatusForReward_RevokedRewardSystem(t *testing.T) {
	owner := addr(1)
	engine := addr(2)
	r := New(owner)
	require.NoError(t, r.SetRole(owner, RoleRewardSystem, engine, true))
	require.NoError(t, r.SetRole(owner, RoleRewardSystem, engine, false))

	err := r.SetPoolStatusForReward(engine, addr(7), true)
	assert.ErrorIs(t, err, ErrNotRewardSystem)
}

// ---------------------------------------------------------------------------
// Claim address tests
// ---------------------------------------------------------------------------

func TestClaimAddress_DefaultsToSelf(t *testing.T) {
	r := New(addr(1))
	investor := addr(10)
	assert.Equal(t, investor, r.GetInvestorClaimAddress(investor))
}

func TestSetInvestorClaimAddress_BySelf(t *testing.T) {
	r := New(addr(1))
	investor := addr(10)
	claim := addr(11)

	require.NoError(t, r.SetInvestorClaimAddress(investor, investor, claim))
	assert.Equal(t, claim, r.GetInvestorClaimAddress(investor))
}

func TestSetInvestorClaimAddress_ByManager(t *testing.T) {
	owner := addr(1)
	r := New(owner)
	investor := addr(10)
	claim := addr(11)

	require.NoError(t, r.SetInvestorClaimAddress(owner, investor, claim))
	assert.Equal(t, claim, r.GetInvestorClaimAddress(investor))
}

func TestSetInvestorClaimAddress_Unauthorized(t *testing.T) {
	r := New(addr(1))
	err := r.SetInvestorClaimAddress(addr(2), addr(10), addr(11))
	assert.ErrorIs(t, err, ErrNotManager)
}

func TestSetInvestorClaimAddress_ZeroInvestor(t *testing.T) {
	r := New(addr(1))
	assert.ErrorIs(t, r.SetInvestorClaimAddress(addr(1), ZeroAddress, addr(11)), ErrZeroAddress)
}

func TestSetInvestorClaimAddress_ZeroClearsOverride(t *testing.T) {
	r := New(addr(1))
	investor := addr(10)

	require.NoError(t, r.SetInvestorClaimAddress(investor, investor, addr(11)))
	require.NoError(t, r.SetInvestorClaimAddress(investor, investor, ZeroAddress))
	assert.Equal(t, investor, r.GetInvestorClaimAddress(investor))
}
