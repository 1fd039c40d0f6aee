package ledger

import (
	"fmt"

	"relieffund/internal/voucher"
)

// RedeemVoucher executes an offline-signed authorization submitted by a
// vendor. All validation is deferred to this point because the ledger never
// saw the voucher at signing time; the check order below is fixed so callers
// can diagnose failures (a replayed voucher reports NonceReused, not a
// signature problem).
//
// The nonce insertion and the balance movement commit under one write-lock
// acquisition. A failed redemption consumes nothing: the nonce stays unused
// and no balance changes.
func (l *Ledger) RedeemVoucher(caller, beneficiary Address, amount Amount, nonce uint64, signature []byte) (Record, error) {
	if amount == 0 {
		return Record{}, fmt.Errorf("%w: amount must be positive", ErrInvalidArgument)
	}

	// Reconstruct the exact signed bytes and recover the signer before
	// taking the lock; signature recovery needs no ledger state.
	msg := voucher.Message(uint64(amount), nonce)
	signer, err := voucher.Recover(msg, signature)
	if err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	if Address(signer) != beneficiary {
		return Record{}, fmt.Errorf("%w: voucher signed by %s, not %s", ErrSignerMismatch, signer, beneficiary)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	key := nonceKey{beneficiary, nonce}
	if _, used := l.usedNonces[key]; used {
		return Record{}, fmt.Errorf("%w: nonce %d for %s", ErrNonceReused, nonce, beneficiary)
	}

	benEnt := l.entities[beneficiary]
	vendEnt := l.entities[caller]
	if benEnt.Role != RoleBeneficiary || vendEnt.Role != RoleVendor ||
		benEnt.CategoryID != vendEnt.CategoryID {
		return Record{}, fmt.Errorf("%w: voucher from %s cannot be redeemed by %s", ErrCategoryMismatch, beneficiary, caller)
	}

	if l.balances[beneficiary] < amount {
		return Record{}, fmt.Errorf("%w: %s holds %d, voucher for %d", ErrInsufficientBalance, beneficiary, l.balances[beneficiary], amount)
	}
	if err := l.move(beneficiary, caller, amount); err != nil {
		return Record{}, err
	}
	l.usedNonces[key] = struct{}{}

	return Record{
		Kind:       RecordVoucherRedeemed,
		At:         l.now(),
		CategoryID: benEnt.CategoryID,
		From:       beneficiary,
		To:         caller,
		Amount:     amount,
		Nonce:      nonce,
	}, nil
}
