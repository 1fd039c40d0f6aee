package ledger

import (
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relieffund/internal/voucher"
)

// signingBeneficiary generates a key pair and whitelists its address as a
// beneficiary of catID with a starting balance.
func signingBeneficiary(t *testing.T, l *Ledger, catID uint64, balance Amount) (*secp256k1.PrivateKey, Address) {
	t.Helper()
	key, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	addr := Address(voucher.PubKeyAddress(key.PubKey()))

	_, err = l.Whitelist(admin, addr, RoleBeneficiary, catID)
	require.NoError(t, err)
	if balance > 0 {
		_, err = l.MintAndDistribute(admin, catID, []Address{addr}, balance)
		require.NoError(t, err)
	}
	return key, addr
}

func signVoucher(key *secp256k1.PrivateKey, amount Amount, nonce uint64) []byte {
	return voucher.Sign(key, voucher.Message(uint64(amount), nonce))
}

func TestRedeemVoucher(t *testing.T) {
	l, catID := newTestLedger(t)
	key, ben := signingBeneficiary(t, l, catID, 100)

	sig := signVoucher(key, 20, 7)
	rec, err := l.RedeemVoucher(vera, ben, 20, 7, sig)
	require.NoError(t, err)
	assert.Equal(t, RecordVoucherRedeemed, rec.Kind)
	assert.Equal(t, catID, rec.CategoryID)
	assert.Equal(t, uint64(7), rec.Nonce)

	assert.Equal(t, Amount(80), l.BalanceOf(ben))
	assert.Equal(t, Amount(20), l.BalanceOf(vera))
	assert.True(t, l.NonceUsed(ben, 7))
}

func TestRedeemVoucherRejectsReplay(t *testing.T) {
	l, catID := newTestLedger(t)
	key, ben := signingBeneficiary(t, l, catID, 100)

	sig := signVoucher(key, 20, 7)
	_, err := l.RedeemVoucher(vera, ben, 20, 7, sig)
	require.NoError(t, err)

	_, err = l.RedeemVoucher(vera, ben, 20, 7, sig)
	assert.ErrorIs(t, err, ErrNonceReused)
	assert.Equal(t, Amount(80), l.BalanceOf(ben))
	assert.Equal(t, Amount(20), l.BalanceOf(vera))

	// A fresh nonce still works.
	sig2 := signVoucher(key, 5, 8)
	_, err = l.RedeemVoucher(vera, ben, 5, 8, sig2)
	require.NoError(t, err)
}

func TestRedeemVoucherTamperedFields(t *testing.T) {
	l, catID := newTestLedger(t)
	key, ben := signingBeneficiary(t, l, catID, 100)

	sig := signVoucher(key, 20, 7)

	// Inflated amount: the signature no longer recovers the beneficiary.
	_, err := l.RedeemVoucher(vera, ben, 25, 7, sig)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNonceReused)

	// Different nonce: same story.
	_, err = l.RedeemVoucher(vera, ben, 20, 9, sig)
	assert.Error(t, err)

	// Flipped signature byte.
	bad := append([]byte(nil), sig...)
	bad[10] ^= 0xff
	_, err = l.RedeemVoucher(vera, ben, 20, 7, bad)
	assert.Error(t, err)

	// Nothing moved, the nonce is still spendable.
	assert.Equal(t, Amount(100), l.BalanceOf(ben))
	assert.False(t, l.NonceUsed(ben, 7))
}

func TestRedeemVoucherSignerMismatch(t *testing.T) {
	l, catID := newTestLedger(t)
	_, ben := signingBeneficiary(t, l, catID, 100)
	otherKey, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)

	sig := signVoucher(otherKey, 20, 7)
	_, err = l.RedeemVoucher(vera, ben, 20, 7, sig)
	assert.ErrorIs(t, err, ErrSignerMismatch)
}

func TestRedeemVoucherMalformedSignature(t *testing.T) {
	l, catID := newTestLedger(t)
	_, ben := signingBeneficiary(t, l, catID, 100)

	_, err := l.RedeemVoucher(vera, ben, 20, 7, []byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestRedeemVoucherCrossCategory(t *testing.T) {
	l, catID := newTestLedger(t)
	key, ben := signingBeneficiary(t, l, catID, 100)

	rec, err := l.CreateCategory(admin, "Drought Relief")
	require.NoError(t, err)
	_, err = l.Whitelist(admin, vera2, RoleVendor, rec.CategoryID)
	require.NoError(t, err)

	// The signature is valid, but the vendor is enrolled elsewhere.
	sig := signVoucher(key, 20, 7)
	_, err = l.RedeemVoucher(vera2, ben, 20, 7, sig)
	assert.ErrorIs(t, err, ErrCategoryMismatch)
	assert.False(t, l.NonceUsed(ben, 7))

	// A non-vendor caller fails the same way.
	_, err = l.RedeemVoucher(outsider, ben, 20, 7, sig)
	assert.ErrorIs(t, err, ErrCategoryMismatch)
}

func TestRedeemVoucherInsufficientBalance(t *testing.T) {
	l, catID := newTestLedger(t)
	key, ben := signingBeneficiary(t, l, catID, 10)

	sig := signVoucher(key, 20, 7)
	_, err := l.RedeemVoucher(vera, ben, 20, 7, sig)
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	// The failed attempt must not burn the nonce.
	assert.False(t, l.NonceUsed(ben, 7))
	_, err = l.MintAndDistribute(admin, catID, []Address{ben}, 90)
	require.NoError(t, err)
	_, err = l.RedeemVoucher(vera, ben, 20, 7, sig)
	require.NoError(t, err)
}
