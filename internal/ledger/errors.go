package ledger

import "errors"

// Error kinds for the ledger engine. Every call reports exactly one of these
// (possibly wrapped with context); callers rely on errors.Is to distinguish
// them, e.g. to tell an already-redeemed voucher from a bad signature.
var (
	// ErrUnauthorized means the caller lacks the role the operation requires.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound means a category lookup had no entry.
	ErrNotFound = errors.New("not found")

	// ErrCategoryNotFound means a whitelist or mint referenced a category
	// that was never created.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrCategoryMismatch means a participant is not enrolled in the
	// category the operation requires.
	ErrCategoryMismatch = errors.New("category mismatch")

	// ErrRestrictedTransfer means the transfer is outside the allowed
	// beneficiary-to-vendor flow and no clearing authority is involved.
	ErrRestrictedTransfer = errors.New("restricted transfer")

	// ErrInvalidSignature means a voucher signature is malformed or no
	// public key could be recovered from it.
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrSignerMismatch means a voucher verified but was signed by a key
	// other than the claimed beneficiary's.
	ErrSignerMismatch = errors.New("signer mismatch")

	// ErrNonceReused means the (beneficiary, nonce) pair was already
	// consumed by an earlier redemption.
	ErrNonceReused = errors.New("nonce reused")

	// ErrInsufficientBalance means the payer cannot cover the amount.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrPinMismatch means the presented secret does not match the stored
	// commitment (or no commitment exists).
	ErrPinMismatch = errors.New("pin mismatch")

	// ErrAlreadyIssued means the address already holds a credential.
	ErrAlreadyIssued = errors.New("credential already issued")

	// ErrInvalidArgument covers malformed input that no business rule
	// applies to: bad addresses, zero amounts, empty names.
	ErrInvalidArgument = errors.New("invalid argument")
)
