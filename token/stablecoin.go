// Package token implements the two fungible asset ledgers the platform
// consumes: plain stablecoins (loan tokens, USDC-style 6-decimal units held
// as uint64) and the platform token (18-decimal units held as uint256, with
// reward-engine-gated minting and a global buying gate).
//
// Balances live in the ledger itself; the host environment authenticates the
// caller, so transfer authority is expressed by passing the caller address
// into each operation.
package token

import (
	"sync"

	"github.com/crowdlend/libcrowdlend-go/registry"
)

// Stablecoin is a simple transferable balance ledger with allowances.
type Stablecoin struct {
	mu        sync.RWMutex
	symbol    string
	decimals  uint8
	balances  map[registry.Address]uint64
	allowance map[registry.Address]map[registry.Address]uint64
}

// NewStablecoin creates an empty stablecoin ledger.
func NewStablecoin(symbol string, decimals uint8) *Stablecoin {
	return &Stablecoin{
		symbol:    symbol,
		decimals:  decimals,
		balances:  make(map[registry.Address]uint64),
		allowance: make(map[registry.Address]map[registry.Address]uint64),
	}
}

// Symbol returns the asset symbol.
func (s *Stablecoin) Symbol() string { return s.symbol }

// Decimals returns the declared decimal precision.
func (s *Stablecoin) Decimals() uint8 { return s.decimals }

// BalanceOf returns the balance of addr.
func (s *Stablecoin) BalanceOf(addr registry.Address) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balances[addr]
}

// Mint credits amount to addr. Test and deployment funding hook; the
// stablecoin issuer is outside this system.
func (s *Stablecoin) Mint(addr registry.Address, amount uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[addr] += amount
}

// Transfer moves amount from the caller to the recipient.
func (s *Stablecoin) Transfer(from, to registry.Address, amount uint64) error {
	if from.IsZero() || to.IsZero() {
		return ErrZeroAddress
	}
	if amount == 0 {
		return ErrZeroAmount
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.balances[from] < amount {
		return ErrInsufficientBalance
	}
	s.balances[from] -= amount
	s.balances[to] += amount
	return nil
}

// Approve sets the allowance spender may move out of owner's balance.
func (s *Stablecoin) Approve(owner, spender registry.Address, amount uint64) error {
	if owner.IsZero() || spender.IsZero() {
		return ErrZeroAddress
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.allowance[owner]
	if m == nil {
		m = make(map[registry.Address]uint64)
		s.allowance[owner] = m
	}
	m[spender] = amount
	return nil
}

// Allowance returns the remaining amount spender may move from owner.
func (s *Stablecoin) Allowance(owner, spender registry.Address) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.allowance[owner][spender]
}

// TransferFrom moves amount from owner to recipient using spender's allowance.
func (s *Stablecoin) TransferFrom(spender, owner, to registry.Address, amount uint64) error {
	if spender.IsZero() || owner.IsZero() || to.IsZero() {
		return ErrZeroAddress
	}
	if amount == 0 {
		return ErrZeroAmount
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.allowance[owner][spender] < amount {
		return ErrInsufficientAllowance
	}
	if s.balances[owner] < amount {
		return ErrInsufficientBalance
	}
	s.allowance[owner][spender] -= amount
	s.balances[owner] -= amount
	s.balances[to] += amount
	return nil
}
