// Package registry implements the platform access registry: role
// assignments, the investor claim-address indirection table, and the
// transient pool exemption used by the reward engine during token payouts.
//
// Components do not query roles through a global service locator; each holds
// a *Registry reference injected at construction and passes the authenticated
// caller address into every privileged entry point.
package registry

import (
	"encoding/hex"
	"sync"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	bsvhash "github.com/bsv-blockchain/go-sdk/primitives/hash"
)

// AddressSize is the length of a platform address in bytes.
const AddressSize = 20

// Address identifies an account on the platform.
// It is the HASH160 of the account's compressed public key.
type Address [AddressSize]byte

// ZeroAddress is the all-zero address, used as "no address" in arguments.
var ZeroAddress Address

// IsZero returns true for the all-zero address.
func (a Address) IsZero() bool { return a == ZeroAddress }

// String returns the hex encoding of the address.
func (a Address) String() string { return hex.EncodeToString(a[:]) }

// AddressFromPubKey derives the platform address for a public key.
func AddressFromPubKey(pub *ec.PublicKey) Address {
	var a Address
	copy(a[:], bsvhash.Hash160(pub.Compressed()))
	return a
}

// AddressFromString parses a hex-encoded address.
func AddressFromString(s string) (Address, error) {
	var a Address
	b, err := hex.DecodeString(s)
	if err != nil {
		return a, ErrInvalidAddress
	}
	if len(b) != AddressSize {
		return a, ErrInvalidAddress
	}
	copy(a[:], b)
	return a, nil
}

// Role is a platform capability assigned to an address.
type Role uint8

const (
	RoleManager Role = iota
	RolePool
	RoleRewardSystem
	RoleFundraise
	RoleTreasury
)

// Registry holds role assignments and the claim-address table.
type Registry struct {
	mu           sync.RWMutex
	owner        Address
	roles        map[Role]map[Address]bool
	claimAddrs   map[Address]Address
	rewardSystem Address
}

// New creates a registry owned by owner. The owner is also a manager.
func New(owner Address) *Registry {
	r := &Registry{
		owner:      owner,
		roles:      make(map[Role]map[Address]bool),
		claimAddrs: make(map[Address]Address),
	}
	r.roles[RoleManager] = map[Address]bool{owner: true}
	return r
}

// Owner returns the registry owner.
func (r *Registry) Owner() Address {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.owner
}

// SetRole grants or revokes a role for an address. Owner only.
func (r *Registry) SetRole(caller Address, role Role, addr Address, enabled bool) error {
	if addr.IsZero() {
		return ErrZeroAddress
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if caller != r.owner {
		return ErrNotOwner
	}
	m := r.roles[role]
	if m == nil {
		m = make(map[Address]bool)
		r.roles[role] = m
	}
	if enabled {
		m[addr] = true
	} else {
		delete(m, addr)
	}
	// The reward system address is tracked so SetPoolStatusForReward can
	// authenticate its caller without a second lookup.
	if role == RoleRewardSystem {
		if enabled {
			r.rewardSystem = addr
		} else if r.rewardSystem == addr {
			r.rewardSystem = ZeroAddress
		}
	}
	return nil
}

func (r *Registry) hasRole(role Role, addr Address) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.roles[role][addr]
}

// IsManager reports whether addr holds the manager role.
func (r *Registry) IsManager(addr Address) bool { return r.hasRole(RoleManager, addr) }

// IsPool reports whether addr is registered as a market pool.
func (r *Registry) IsPool(addr Address) bool { return r.hasRole(RolePool, addr) }

// IsRewardSystem reports whether addr is the reward engine.
func (r *Registry) IsRewardSystem(addr Address) bool { return r.hasRole(RoleRewardSystem, addr) }

// IsFundraise reports whether addr is the fundraise ledger.
func (r *Registry) IsFundraise(addr Address) bool { return r.hasRole(RoleFundraise, addr) }

// IsTreasury reports whether addr is the treasury.
func (r *Registry) IsTreasury(addr Address) bool { return r.hasRole(RoleTreasury, addr) }

// SetPoolStatusForReward toggles the pool flag on behalf of the reward
// engine. Only the registered reward system may call it; it exists so token
// payouts can pass the transfer gate for the duration of a single call.
func (r *Registry) SetPoolStatusForReward(caller, addr Address, enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if caller.IsZero() || caller != r.rewardSystem {
		return ErrNotRewardSystem
	}
	m := r.roles[RolePool]
	if m == nil {
		m = make(map[Address]bool)
		r.roles[RolePool] = m
	}
	if enabled {
		m[addr] = true
	} else {
		delete(m, addr)
	}
	return nil
}

// SetInvestorClaimAddress registers an alternate payout destination for an
// investor. Callable by the investor themselves or a manager.
func (r *Registry) SetInvestorClaimAddress(caller, investor, claimAddr Address) error {
	if investor.IsZero() {
		return ErrZeroAddress
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if caller != investor && !r.roles[RoleManager][caller] {
		return ErrNotManager
	}
	if claimAddr.IsZero() {
		delete(r.claimAddrs, investor)
		return nil
	}
	r.claimAddrs[investor] = claimAddr
	return nil
}

// GetInvestorClaimAddress resolves the payout destination for an investor.
// Defaults to the investor's own address when no override is registered.
func (r *Registry) GetInvestorClaimAddress(investor Address) Address {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if override, ok := r.claimAddrs[investor]; ok {
		return override
	}
	return investor
}
