package fundraise

import (
	"sync"
	"time"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/holiman/uint256"

	"github.com/crowdlend/libcrowdlend-go/authz"
	"github.com/crowdlend/libcrowdlend-go/registry"
	"github.com/crowdlend/libcrowdlend-go/token"
)

// RewardEngine is the reward ledger as the project ledger consumes it. Both
// calls must succeed for the enclosing operation to succeed; errors
// propagate and abort the whole call.
type RewardEngine interface {
	// RecordInvestment registers the reward effects of an accepted investment.
	RecordInvestment(caller, user registry.Address, amount uint64, inviter registry.Address, projectID uint64) error

	// ActivateProjectRewards starts vesting and runs the buyback-and-burn.
	ActivateProjectRewards(caller registry.Address, projectID uint64, totalInvested uint64) error
}

// Ledger is the project ledger. It escrows raised funds at its own address
// and serializes all entry points behind one mutex, standing in for the
// host ledger's whole-call atomicity. Fallible steps run before the first
// state write of each call.
type Ledger struct {
	mu       sync.Mutex
	addr     registry.Address
	reg      *registry.Registry
	store    Store
	bank     map[string]*token.Stablecoin
	rewards  RewardEngine
	treasury registry.Address
	signer   *ec.PublicKey
	now      func() time.Time
}

// NewLedger creates a project ledger escrowing at addr. signer is the
// trusted off-chain signer whose signature admits investment calls. The
// ledger's address must be registered with the fundraise role so the reward
// engine accepts its notifications.
func NewLedger(addr registry.Address, reg *registry.Registry, store Store, rewards RewardEngine, treasury registry.Address, signer *ec.PublicKey) *Ledger {
	return &Ledger{
		addr:     addr,
		reg:      reg,
		store:    store,
		bank:     make(map[string]*token.Stablecoin),
		rewards:  rewards,
		treasury: treasury,
		signer:   signer,
		now:      time.Now,
	}
}

// Address returns the ledger's escrow account address.
func (l *Ledger) Address() registry.Address { return l.addr }

// SetClock overrides the stage clock source. Intended for tests.
func (l *Ledger) SetClock(now func() time.Time) { l.now = now }

// RegisterLoanToken makes a stablecoin available as a project loan token.
func (l *Ledger) RegisterLoanToken(sc *token.Stablecoin) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.bank[sc.Symbol()] = sc
}

// loanToken resolves a project's stablecoin ledger.
func (l *Ledger) loanToken(p *Project) (*token.Stablecoin, error) {
	sc, ok := l.bank[p.LoanToken]
	if !ok {
		return nil, ErrUnknownLoanToken
	}
	return sc, nil
}

// mulDivBP computes amount * rate / BasisPoints without intermediate
// overflow. Division truncates toward zero; dust accumulates in the
// ledger's favor.
func mulDivBP(amount, rate uint64) uint64 {
	v := new(uint256.Int).Mul(uint256.NewInt(amount), uint256.NewInt(rate))
	return v.Div(v, uint256.NewInt(BasisPoints)).Uint64()
}

// GetProject returns the record for a project id.
func (l *Ledger) GetProject(id uint64) (Project, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, err := l.store.Project(id)
	if err != nil {
		return Project{}, err
	}
	if !p.Exists() {
		return Project{}, ErrProjectNotFound
	}
	return p, nil
}

// GetPosition returns an investor's position on a project.
func (l *Ledger) GetPosition(investor registry.Address, projectID uint64) (Position, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.Position(investor, projectID)
}

// GetWhitelistRoot returns the current whitelist root for a project.
func (l *Ledger) GetWhitelistRoot(projectID uint64) (authz.Root, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.WhitelistRoot(projectID)
}

// Nonce returns the last consumed global nonce. The next accepted
// investment call must supply this value plus one.
func (l *Ledger) Nonce() (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.Nonce()
}

// ClaimableAmount returns what an investor could claim from repayments
// right now: their basis-point share of TotalInvested applied to
// TotalRepaid, minus what they already claimed.
func (l *Ledger) ClaimableAmount(investor registry.Address, projectID uint64) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, err := l.store.Project(projectID)
	if err != nil {
		return 0, err
	}
	if !p.Exists() {
		return 0, ErrProjectNotFound
	}
	pos, err := l.store.Position(investor, projectID)
	if err != nil {
		return 0, err
	}
	return claimablePayout(&p, &pos), nil
}

// claimablePayout computes the pending proportional entitlement. Integer
// division with basis-point intermediate scaling:
// share = invested * BP / totalInvested; entitlement = repaid * share / BP.
func claimablePayout(p *Project, pos *Position) uint64 {
	if p.TotalInvested == 0 || pos.Invested == 0 {
		return 0
	}
	share := new(uint256.Int).Mul(uint256.NewInt(pos.Invested), uint256.NewInt(BasisPoints))
	share.Div(share, uint256.NewInt(p.TotalInvested))
	entitlement := new(uint256.Int).Mul(uint256.NewInt(p.TotalRepaid), share)
	entitlement.Div(entitlement, uint256.NewInt(BasisPoints))
	e := entitlement.Uint64()
	if e <= pos.Claimed {
		return 0
	}
	return e - pos.Claimed
}
