package ledger

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// The PIN path is a deliberately weaker mechanism than vouchers: it
// authorizes a vendor-initiated pull against a single static commitment, with
// no per-use nonce. Anyone holding the secret can charge the beneficiary
// repeatedly until the PIN is rotated. That limitation is inherited behavior
// and is surfaced (docs, pin_charges metric) rather than papered over with
// invented replay semantics.

// SetSecurityPin stores a new commitment for the caller's secret,
// overwriting any prior one. Only the plaintext's bcrypt hash is kept.
func (l *Ledger) SetSecurityPin(caller Address, secret string) (Record, error) {
	if secret == "" {
		return Record{}, fmt.Errorf("%w: secret is required", ErrInvalidArgument)
	}
	if len(secret) > 72 {
		return Record{}, fmt.Errorf("%w: secret exceeds 72 bytes", ErrInvalidArgument)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.entities[caller].Role != RoleBeneficiary {
		return Record{}, fmt.Errorf("%w: only beneficiaries set a PIN", ErrUnauthorized)
	}
	l.pins[caller] = hash

	return Record{
		Kind:    RecordPinSet,
		At:      l.now(),
		Address: caller,
		PinHash: hash,
	}, nil
}

// ChargeBeneficiary is the vendor-initiated pull: on a matching secret it
// performs the same eligibility and balance checks as a direct transfer and
// moves amount from the beneficiary to the caller.
func (l *Ledger) ChargeBeneficiary(caller, beneficiary Address, amount Amount, secret string) (Record, error) {
	if amount == 0 {
		return Record{}, fmt.Errorf("%w: amount must be positive", ErrInvalidArgument)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	hash, ok := l.pins[beneficiary]
	if !ok {
		return Record{}, fmt.Errorf("%w: no commitment for %s", ErrPinMismatch, beneficiary)
	}
	if bcrypt.CompareHashAndPassword(hash, []byte(secret)) != nil {
		return Record{}, fmt.Errorf("%w: secret does not match commitment", ErrPinMismatch)
	}

	if err := l.spendAllowed(beneficiary, caller); err != nil {
		return Record{}, err
	}
	if l.balances[beneficiary] < amount {
		return Record{}, fmt.Errorf("%w: %s holds %d, charge for %d", ErrInsufficientBalance, beneficiary, l.balances[beneficiary], amount)
	}
	if err := l.move(beneficiary, caller, amount); err != nil {
		return Record{}, err
	}

	return Record{
		Kind:       RecordPinCharged,
		At:         l.now(),
		CategoryID: l.entities[beneficiary].CategoryID,
		From:       beneficiary,
		To:         caller,
		Amount:     amount,
	}, nil
}
