package token

import (
	"sync"

	"github.com/holiman/uint256"

	"github.com/crowdlend/libcrowdlend-go/registry"
)

// PlatformToken is the mintable/burnable platform asset. Amounts are
// 18-decimal fixed-point integers. While buying is disabled, a transfer must
// involve a registered pool or the reward engine on at least one side; the
// reward engine lifts this for a single payout via the registry's transient
// pool exemption.
type PlatformToken struct {
	mu            sync.RWMutex
	reg           *registry.Registry
	symbol        string
	buyingEnabled bool
	totalSupply   *uint256.Int
	balances      map[registry.Address]*uint256.Int
	allowance     map[registry.Address]map[registry.Address]*uint256.Int
}

// PlatformDecimals is the platform token's decimal precision.
const PlatformDecimals = 18

// NewPlatformToken creates the platform token ledger with buying disabled.
func NewPlatformToken(symbol string, reg *registry.Registry) *PlatformToken {
	return &PlatformToken{
		reg:         reg,
		symbol:      symbol,
		totalSupply: uint256.NewInt(0),
		balances:    make(map[registry.Address]*uint256.Int),
		allowance:   make(map[registry.Address]map[registry.Address]*uint256.Int),
	}
}

// Symbol returns the asset symbol.
func (t *PlatformToken) Symbol() string { return t.symbol }

// SetBuyingEnabled flips the global transfer gate. Registry owner only.
func (t *PlatformToken) SetBuyingEnabled(caller registry.Address, enabled bool) error {
	if caller != t.reg.Owner() {
		return ErrNotOwner
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buyingEnabled = enabled
	return nil
}

// TotalSupply returns the current token supply.
func (t *PlatformToken) TotalSupply() *uint256.Int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return new(uint256.Int).Set(t.totalSupply)
}

// BalanceOf returns the balance of addr.
func (t *PlatformToken) BalanceOf(addr registry.Address) *uint256.Int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if b, ok := t.balances[addr]; ok {
		return new(uint256.Int).Set(b)
	}
	return uint256.NewInt(0)
}

// MintReward mints amount to the recipient. Reward engine only.
func (t *PlatformToken) MintReward(caller, to registry.Address, amount *uint256.Int) error {
	if !t.reg.IsRewardSystem(caller) {
		return ErrNotRewardSystem
	}
	if to.IsZero() {
		return ErrZeroAddress
	}
	if amount == nil || amount.IsZero() {
		return ErrZeroAmount
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.credit(to, amount)
	t.totalSupply.Add(t.totalSupply, amount)
	return nil
}

// Burn destroys amount from the caller's own balance.
func (t *PlatformToken) Burn(caller registry.Address, amount *uint256.Int) error {
	if amount == nil || amount.IsZero() {
		return ErrZeroAmount
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	b := t.balances[caller]
	if b == nil || b.Lt(amount) {
		return ErrInsufficientBalance
	}
	b.Sub(b, amount)
	t.totalSupply.Sub(t.totalSupply, amount)
	return nil
}

// Transfer moves amount from the caller to the recipient, subject to the
// buying gate.
func (t *PlatformToken) Transfer(from, to registry.Address, amount *uint256.Int) error {
	if from.IsZero() || to.IsZero() {
		return ErrZeroAddress
	}
	if amount == nil || amount.IsZero() {
		return ErrZeroAmount
	}
	if err := t.checkGate(from, to); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	b := t.balances[from]
	if b == nil || b.Lt(amount) {
		return ErrInsufficientBalance
	}
	b.Sub(b, amount)
	t.credit(to, amount)
	return nil
}

// Approve sets the allowance spender may move out of owner's balance.
func (t *PlatformToken) Approve(owner, spender registry.Address, amount *uint256.Int) error {
	if owner.IsZero() || spender.IsZero() {
		return ErrZeroAddress
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	m := t.allowance[owner]
	if m == nil {
		m = make(map[registry.Address]*uint256.Int)
		t.allowance[owner] = m
	}
	m[spender] = new(uint256.Int).Set(amount)
	return nil
}

// TransferFrom moves amount from owner to recipient using spender's
// allowance, subject to the buying gate.
func (t *PlatformToken) TransferFrom(spender, owner, to registry.Address, amount *uint256.Int) error {
	if spender.IsZero() || owner.IsZero() || to.IsZero() {
		return ErrZeroAddress
	}
	if amount == nil || amount.IsZero() {
		return ErrZeroAmount
	}
	if err := t.checkGate(owner, to); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	allowed := t.allowance[owner][spender]
	if allowed == nil || allowed.Lt(amount) {
		return ErrInsufficientAllowance
	}
	b := t.balances[owner]
	if b == nil || b.Lt(amount) {
		return ErrInsufficientBalance
	}
	allowed.Sub(allowed, amount)
	b.Sub(b, amount)
	t.credit(to, amount)
	return nil
}

// checkGate enforces the buying restriction. Registry lookups happen outside
// the token mutex; the registry has its own lock.
func (t *PlatformToken) checkGate(from, to registry.Address) error {
	t.mu.RLock()
	enabled := t.buyingEnabled
	t.mu.RUnlock()
	if enabled {
		return nil
	}
	if t.reg.IsPool(from) || t.reg.IsPool(to) ||
		t.reg.IsRewardSystem(from) || t.reg.IsRewardSystem(to) {
		return nil
	}
	return ErrBuyingDisabled
}

// credit adds amount to addr's balance. Caller holds the lock.
func (t *PlatformToken) credit(addr registry.Address, amount *uint256.Int) {
	b := t.balances[addr]
	if b == nil {
		b = uint256.NewInt(0)
		t.balances[addr] = b
	}
	b.Add(b, amount)
}
