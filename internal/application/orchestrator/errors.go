package orchestrator

import "errors"

// Failure taxonomy. Ledger-side failures during submission or confirmation
// surface to the caller and reverse the optimistic transition; store-side
// failures after the ledger fact is confirmed are logged, never re-raised.
var (
	// ErrNotConfigured refuses ledger-mutating operations while the fee
	// oracle is unset or still loading. No state change.
	ErrNotConfigured = errors.New("randomness fee oracle not configured")

	// ErrInvalidState refuses an operation invoked outside the state it
	// belongs to. No transaction is submitted.
	ErrInvalidState = errors.New("operation not valid in current battle state")

	// ErrSubmission reports a transaction rejected by the signer or the
	// network. State reverts to the prior stable state.
	ErrSubmission = errors.New("ledger transaction submission failed")

	// ErrConfirmationTimeout reports that no event, receipt or poll
	// confirmed the transaction within the budget.
	ErrConfirmationTimeout = errors.New("battle confirmation timed out")

	// ErrIdentifierRecovery reports that a sentinel battle id could not be
	// recovered from the ledger's battle counter.
	ErrIdentifierRecovery = errors.New("battle identifier recovery failed")
)
