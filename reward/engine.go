package reward

import (
	"fmt"
	"sync"
	"time"

	"github.com/holiman/uint256"

	"github.com/crowdlend/libcrowdlend-go/registry"
	"github.com/crowdlend/libcrowdlend-go/token"
)

// MarketVenue is the price-discovery venue the engine trades against. Quote
// and swap failures must surface as errors; the engine treats them as
// external-dependency failures and aborts the enclosing call.
type MarketVenue interface {
	// QuoteTokensOut returns the platform tokens received for stableIn.
	QuoteTokensOut(stableIn uint64) (*uint256.Int, error)

	// QuoteStableIn returns the stablecoin required to buy exactly tokensOut.
	QuoteStableIn(tokensOut *uint256.Int) (uint64, error)

	// SwapForExactTokens buys exactly tokensOut for the caller and returns
	// the stablecoin spent.
	SwapForExactTokens(caller registry.Address, tokensOut *uint256.Int, maxStableIn uint64, to registry.Address, deadline time.Time) (uint64, error)

	// Address returns the venue's reserve-holding address, the approval target.
	Address() registry.Address
}

// swapDeadline bounds how long a buyback swap may sit before the venue
// rejects it. The host serializes calls, so this only guards clock skew.
const swapDeadline = 5 * time.Minute

// Engine is the reward ledger. All state transitions go through its entry
// points; a single mutex serializes them, standing in for the host ledger's
// whole-call atomicity.
type Engine struct {
	mu     sync.Mutex
	addr   registry.Address
	reg    *registry.Registry
	store  Store
	stable *token.Stablecoin
	asset  *token.PlatformToken
	venue  MarketVenue
	params Params
	now    func() time.Time
}

// NewEngine creates a reward engine holding its balances at addr. The
// address must be registered with the reward-system role so minting and the
// transfer gate recognize it.
func NewEngine(addr registry.Address, reg *registry.Registry, store Store, stable *token.Stablecoin, asset *token.PlatformToken, venue MarketVenue, params Params) *Engine {
	return &Engine{
		addr:   addr,
		reg:    reg,
		store:  store,
		stable: stable,
		asset:  asset,
		venue:  venue,
		params: params,
		now:    time.Now,
	}
}

// Address returns the engine's own account address.
func (e *Engine) Address() registry.Address { return e.addr }

// SetClock overrides the vesting clock source. Intended for tests.
func (e *Engine) SetClock(now func() time.Time) { e.now = now }

// Params returns the current economic configuration.
func (e *Engine) Params() Params {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.params
}

// SetParameters replaces the economic configuration. Manager only; the four
// rate parameters must fall within [MinRate, MaxRate].
func (e *Engine) SetParameters(caller registry.Address, p Params) error {
	if !e.reg.IsManager(caller) {
		return ErrNotManager
	}
	if err := p.Validate(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.params = p
	return nil
}

// mulDivBP computes amount * rate / BasisPoints without intermediate
// overflow.
func mulDivBP(amount, rate uint64) uint64 {
	v := new(uint256.Int).Mul(uint256.NewInt(amount), uint256.NewInt(rate))
	return v.Div(v, uint256.NewInt(BasisPoints)).Uint64()
}

// RecordInvestment registers the reward effects of an accepted investment:
// inviter registration, referral commission, token entitlement priced
// against the venue, and the one-time welcome bonus. Fundraise ledger only.
//
// Every fallible step — argument checks, the venue quote — runs before the
// first state write, so a failure leaves no partial accrual behind and the
// enclosing investment call can abort cleanly.
func (e *Engine) RecordInvestment(caller, user registry.Address, amount uint64, inviter registry.Address, projectID uint64) error {
	if !e.reg.IsFundraise(caller) {
		return ErrNotFundraise
	}
	if user.IsZero() {
		return ErrZeroAddress
	}
	if amount == 0 {
		return ErrZeroAmount
	}
	if inviter == user {
		return ErrSelfReferral
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	profile, err := e.store.Profile(user)
	if err != nil {
		return err
	}

	// Price the token entitlement first. A dry venue fails the whole call
	// before anything is written.
	if e.venue == nil || e.asset == nil || e.stable == nil {
		return ErrVenueUnset
	}
	tokenSub := mulDivBP(amount, e.params.TokenRate)
	quote, err := e.venue.QuoteTokensOut(tokenSub)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrVenueFailure, err)
	}
	if quote.IsZero() {
		return ErrZeroQuote
	}

	// Inviter relationship: registered exactly once, at the first
	// investment that names one. Later investments naming an inviter are
	// ignored once a relationship is on file.
	if !profile.HasInviter && !inviter.IsZero() {
		profile.Inviter = inviter
		profile.HasInviter = true
		stats, err := e.store.InviterStats(inviter)
		if err != nil {
			return err
		}
		stats.RefereeCount++
		if err := e.store.PutInviterStats(inviter, stats); err != nil {
			return err
		}
	}

	// Referral commission to the inviter on file.
	if profile.HasInviter {
		commission := mulDivBP(amount, e.params.ReferralRate)
		if commission > 0 {
			acc, err := e.store.Accrual(profile.Inviter, projectID)
			if err != nil {
				return err
			}
			acc.USDC += commission
			if err := e.store.PutAccrual(profile.Inviter, projectID, acc); err != nil {
				return err
			}
			stats, err := e.store.InviterStats(profile.Inviter)
			if err != nil {
				return err
			}
			stats.TotalReferralUSDC += commission
			if err := e.store.PutInviterStats(profile.Inviter, stats); err != nil {
				return err
			}
		}
	}

	// Token entitlement and the project-wide pending-mint tally.
	acc, err := e.store.Accrual(user, projectID)
	if err != nil {
		return err
	}
	acc.Tokens.Add(&acc.Tokens, quote)

	pr, err := e.store.ProjectReward(projectID)
	if err != nil {
		return err
	}
	pr.PendingMint.Add(&pr.PendingMint, quote)

	// Welcome bonus: at most once per user, ever.
	if profile.IsNewUser() && amount >= e.params.MinInvestmentForBonus {
		acc.USDC += e.params.WelcomeBonus
		profile.Welcomed = true
	}

	if err := e.store.PutAccrual(user, projectID, acc); err != nil {
		return err
	}
	if err := e.store.PutProjectReward(projectID, pr); err != nil {
		return err
	}
	return e.store.PutProfile(user, profile)
}

// ActivateProjectRewards starts the project's vesting clock, mints the
// pending token tally to the engine, and — when a burn rate is configured —
// buys back the identical quantity from the venue and burns it, so the net
// supply effect of this reward event is zero. Fundraise ledger only; a
// second activation for the same project fails. totalInvested is the final
// raise as reported by the project ledger; accrual totals were already
// recorded investment by investment.
func (e *Engine) ActivateProjectRewards(caller registry.Address, projectID uint64, totalInvested uint64) error {
	if !e.reg.IsFundraise(caller) {
		return ErrNotFundraise
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	pr, err := e.store.ProjectReward(projectID)
	if err != nil {
		return err
	}
	if pr.VestingStart != 0 {
		return ErrAlreadyActivated
	}

	pending := new(uint256.Int).Set(&pr.PendingMint)
	if !pending.IsZero() {
		if err := e.asset.MintReward(e.addr, e.addr, pending); err != nil {
			return err
		}
		if e.params.BurnRate > 0 {
			if err := e.buybackAndBurn(pending); err != nil {
				// Unwind the mint so a failed activation leaves
				// supply untouched and can be retried.
				_ = e.asset.Burn(e.addr, pending)
				return err
			}
		}
	}

	pr.VestingStart = e.now().Unix()
	pr.PendingMint.Clear()
	return e.store.PutProjectReward(projectID, pr)
}

// buybackAndBurn repurchases quantity from the venue at the quoted cost plus
// the slippage allowance, then burns the purchased tokens.
func (e *Engine) buybackAndBurn(quantity *uint256.Int) error {
	if e.venue == nil {
		return ErrVenueUnset
	}
	cost, err := e.venue.QuoteStableIn(quantity)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrVenueFailure, err)
	}
	maxIn := cost + e.params.SlippageAllowance
	if e.stable.BalanceOf(e.addr) < maxIn {
		return ErrInsufficientStable
	}
	if err := e.stable.Approve(e.addr, e.venue.Address(), maxIn); err != nil {
		return err
	}
	deadline := e.now().Add(swapDeadline)
	if _, err := e.venue.SwapForExactTokens(e.addr, quantity, maxIn, e.addr, deadline); err != nil {
		return fmt.Errorf("%w: %w", ErrVenueFailure, err)
	}
	return e.asset.Burn(e.addr, quantity)
}
