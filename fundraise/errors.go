package fundraise

import "errors"

var (
	// ErrNotManager indicates the caller does not hold the manager role.
	ErrNotManager = errors.New("fundraise: caller is not a manager")

	// ErrNotBorrower indicates the caller is neither the borrower nor a manager.
	ErrNotBorrower = errors.New("fundraise: caller is not the borrower")

	// ErrNotInvestor indicates the caller is neither the investor nor a manager.
	ErrNotInvestor = errors.New("fundraise: caller is not the investor")

	// ErrProjectNotFound indicates no project exists under the given id.
	ErrProjectNotFound = errors.New("fundraise: project not found")

	// ErrWrongStage indicates the project's stage does not permit the operation.
	ErrWrongStage = errors.New("fundraise: wrong project stage")

	// ErrZeroAmount indicates a zero-amount argument.
	ErrZeroAmount = errors.New("fundraise: zero amount")

	// ErrZeroCaps indicates a project record with both caps zero; such a
	// record cannot be told apart from an absent one.
	ErrZeroCaps = errors.New("fundraise: project caps must not both be zero")

	// ErrZeroAddress indicates a required address argument was zero.
	ErrZeroAddress = errors.New("fundraise: zero address")

	// ErrBadNonce indicates the supplied nonce is not the next global nonce.
	ErrBadNonce = errors.New("fundraise: nonce mismatch")

	// ErrSelfInvite indicates the inviter equals the investor.
	ErrSelfInvite = errors.New("fundraise: inviter equals investor")

	// ErrBorrowerInvestment indicates the borrower attempted to invest in
	// their own project.
	ErrBorrowerInvestment = errors.New("fundraise: borrower cannot invest in own project")

	// ErrHardCapExceeded indicates the investment would push the raise past
	// the hard cap.
	ErrHardCapExceeded = errors.New("fundraise: hard cap exceeded")

	// ErrSoftCapNotReached indicates a release attempt before the soft cap
	// was met.
	ErrSoftCapNotReached = errors.New("fundraise: soft cap not reached")

	// ErrInsufficientFunds indicates the investor's loan-token balance does
	// not cover the investment.
	ErrInsufficientFunds = errors.New("fundraise: insufficient funds")

	// ErrNothingToWithdraw indicates the investor has no recorded position.
	ErrNothingToWithdraw = errors.New("fundraise: nothing to withdraw")

	// ErrUnknownLoanToken indicates the project's loan token is not
	// registered with the ledger.
	ErrUnknownLoanToken = errors.New("fundraise: unknown loan token")

	// ErrDeadlineGuard indicates an OpenDeadline extension beyond the
	// 30-day per-call limit, or a decrease.
	ErrDeadlineGuard = errors.New("fundraise: deadline may only increase, by at most 30 days per call")

	// ErrRateGuard indicates an interest-rate decrease; rates may only increase.
	ErrRateGuard = errors.New("fundraise: interest rates may only increase")

	// ErrTimeoutNotReached indicates a permissionless cancellation attempt
	// before the pre-fund grace window elapsed.
	ErrTimeoutNotReached = errors.New("fundraise: pre-fund timeout not reached")
)
