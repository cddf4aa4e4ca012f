// Package amm implements the market venue the reward engine trades against:
// a constant-product pool between the stablecoin and the platform token.
//
// Only the two operations the platform consumes are exposed — quoting and
// fixed-output swaps. Quotes use the standard x*y=k formulas with a 0.3% fee:
//
//	out = in*997*Rout / (Rin*1000 + in*997)
//	in  = Rin*out*1000 / ((Rout-out)*997) + 1
package amm

import (
	"sync"
	"time"

	"github.com/holiman/uint256"

	"github.com/crowdlend/libcrowdlend-go/registry"
	"github.com/crowdlend/libcrowdlend-go/token"
)

// Pool is a two-asset constant-product market. Its reserves are its own
// balances on the stablecoin and platform-token ledgers; the pool address
// must be registered with the pool role so token transfers pass the gate.
type Pool struct {
	mu     sync.Mutex
	addr   registry.Address
	stable *token.Stablecoin
	asset  *token.PlatformToken
	now    func() time.Time
}

// NewPool creates a pool trading stable against asset, holding its reserves
// at addr.
func NewPool(addr registry.Address, stable *token.Stablecoin, asset *token.PlatformToken) *Pool {
	return &Pool{addr: addr, stable: stable, asset: asset, now: time.Now}
}

// Address returns the pool's reserve-holding address.
func (p *Pool) Address() registry.Address { return p.addr }

// SetClock overrides the deadline clock. Intended for tests.
func (p *Pool) SetClock(now func() time.Time) { p.now = now }

// Reserves returns the current stablecoin and token reserves.
func (p *Pool) Reserves() (uint64, *uint256.Int) {
	return p.stable.BalanceOf(p.addr), p.asset.BalanceOf(p.addr)
}

// AddLiquidity moves reserves from the caller into the pool. There is no LP
// share accounting; liquidity provisioning is outside the platform's scope.
func (p *Pool) AddLiquidity(caller registry.Address, stableAmount uint64, assetAmount *uint256.Int) error {
	if stableAmount > 0 {
		if err := p.stable.Transfer(caller, p.addr, stableAmount); err != nil {
			return err
		}
	}
	if assetAmount != nil && !assetAmount.IsZero() {
		if err := p.asset.Transfer(caller, p.addr, assetAmount); err != nil {
			return err
		}
	}
	return nil
}

// QuoteTokensOut returns the platform tokens received for stableIn.
func (p *Pool) QuoteTokensOut(stableIn uint64) (*uint256.Int, error) {
	if stableIn == 0 {
		return nil, ErrZeroAmount
	}
	rIn, rOut := p.Reserves()
	if rIn == 0 || rOut.IsZero() {
		return nil, ErrNoLiquidity
	}
	// out = in*997*Rout / (Rin*1000 + in*997)
	inFee := new(uint256.Int).Mul(uint256.NewInt(stableIn), uint256.NewInt(997))
	num := new(uint256.Int).Mul(inFee, rOut)
	den := new(uint256.Int).Mul(uint256.NewInt(rIn), uint256.NewInt(1000))
	den.Add(den, inFee)
	return num.Div(num, den), nil
}

// QuoteStableIn returns the stablecoin required to buy exactly tokensOut.
func (p *Pool) QuoteStableIn(tokensOut *uint256.Int) (uint64, error) {
	if tokensOut == nil || tokensOut.IsZero() {
		return 0, ErrZeroAmount
	}
	rIn, rOut := p.Reserves()
	if rIn == 0 || rOut.IsZero() {
		return 0, ErrNoLiquidity
	}
	if !tokensOut.Lt(rOut) {
		return 0, ErrInsufficientLiquidity
	}
	// in = Rin*out*1000 / ((Rout-out)*997) + 1
	num := new(uint256.Int).Mul(uint256.NewInt(rIn), tokensOut)
	num.Mul(num, uint256.NewInt(1000))
	den := new(uint256.Int).Sub(rOut, tokensOut)
	den.Mul(den, uint256.NewInt(997))
	in := num.Div(num, den)
	in.AddUint64(in, 1)
	if !in.IsUint64() {
		return 0, ErrInsufficientLiquidity
	}
	return in.Uint64(), nil
}

// SwapForExactTokens buys exactly tokensOut for the caller, spending at most
// maxStableIn of the caller's stablecoin via allowance, and delivers the
// tokens to the recipient. Returns the stablecoin actually spent.
func (p *Pool) SwapForExactTokens(caller registry.Address, tokensOut *uint256.Int, maxStableIn uint64, to registry.Address, deadline time.Time) (uint64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.now().After(deadline) {
		return 0, ErrExpired
	}
	in, err := p.QuoteStableIn(tokensOut)
	if err != nil {
		return 0, err
	}
	if in > maxStableIn {
		return 0, ErrExcessiveInput
	}
	if err := p.stable.TransferFrom(p.addr, caller, p.addr, in); err != nil {
		return 0, err
	}
	if err := p.asset.Transfer(p.addr, to, tokensOut); err != nil {
		// Undo the payment so a failed delivery leaves no partial state.
		_ = p.stable.Transfer(p.addr, caller, in)
		return 0, err
	}
	return in, nil
}
