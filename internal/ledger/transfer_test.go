package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMintAndDistribute(t *testing.T) {
	l, catID := newTestLedger(t)

	rec, err := l.MintAndDistribute(admin, catID, []Address{benny}, 100)
	require.NoError(t, err)
	assert.Equal(t, RecordMinted, rec.Kind)
	assert.Equal(t, Amount(100), l.BalanceOf(benny))

	cat, err := l.GetCategory(catID)
	require.NoError(t, err)
	assert.Equal(t, Amount(100), cat.TotalRaised)
	assert.Equal(t, Amount(100), cat.TotalDistributed)
}

func TestMintBatchIsAllOrNothing(t *testing.T) {
	l, catID := newTestLedger(t)

	b2 := Address("0xb000000000000000000000000000000000000002")
	_, err := l.Whitelist(admin, b2, RoleBeneficiary, catID)
	require.NoError(t, err)

	// outsider has no role, so the whole batch must fail.
	_, err = l.MintAndDistribute(admin, catID, []Address{benny, outsider, b2}, 50)
	assert.ErrorIs(t, err, ErrCategoryMismatch)
	assert.Zero(t, l.BalanceOf(benny))
	assert.Zero(t, l.BalanceOf(b2))

	cat, err := l.GetCategory(catID)
	require.NoError(t, err)
	assert.Zero(t, cat.TotalRaised)
}

func TestMintRejectsVendorsAndWrongCategory(t *testing.T) {
	l, catID := newTestLedger(t)

	_, err := l.MintAndDistribute(admin, catID, []Address{vera}, 10)
	assert.ErrorIs(t, err, ErrCategoryMismatch)

	rec, err := l.CreateCategory(admin, "Drought Relief")
	require.NoError(t, err)
	_, err = l.MintAndDistribute(admin, rec.CategoryID, []Address{benny}, 10)
	assert.ErrorIs(t, err, ErrCategoryMismatch)
}

func TestMintErrors(t *testing.T) {
	l, catID := newTestLedger(t)

	_, err := l.MintAndDistribute(benny, catID, []Address{benny}, 10)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = l.MintAndDistribute(admin, 99, []Address{benny}, 10)
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	_, err = l.MintAndDistribute(admin, catID, nil, 10)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = l.MintAndDistribute(admin, catID, []Address{benny}, 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = l.MintAndDistribute(admin, catID, []Address{benny, benny}, maxAmount)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestPayVendorWithinCategory(t *testing.T) {
	l, catID := newTestLedger(t)
	_, err := l.MintAndDistribute(admin, catID, []Address{benny}, 100)
	require.NoError(t, err)

	rec, err := l.PayVendor(benny, vera, 30)
	require.NoError(t, err)
	assert.Equal(t, RecordTransferred, rec.Kind)
	assert.Equal(t, catID, rec.CategoryID)
	assert.False(t, rec.Clearing)
	assert.Equal(t, Amount(70), l.BalanceOf(benny))
	assert.Equal(t, Amount(30), l.BalanceOf(vera))
}

func TestTransferToNonVendorIsRestricted(t *testing.T) {
	l, catID := newTestLedger(t)
	_, err := l.MintAndDistribute(admin, catID, []Address{benny}, 100)
	require.NoError(t, err)

	_, err = l.Transfer(benny, benny, outsider, 10)
	assert.ErrorIs(t, err, ErrRestrictedTransfer)
	assert.Equal(t, Amount(100), l.BalanceOf(benny))
}

func TestTransferAcrossCategoriesIsRestricted(t *testing.T) {
	l, _ := newTestLedger(t)
	rec, err := l.CreateCategory(admin, "Drought Relief")
	require.NoError(t, err)
	_, err = l.Whitelist(admin, vera2, RoleVendor, rec.CategoryID)
	require.NoError(t, err)

	_, err = l.MintAndDistribute(admin, 1, []Address{benny}, 100)
	require.NoError(t, err)

	_, err = l.Transfer(benny, benny, vera2, 10)
	assert.ErrorIs(t, err, ErrRestrictedTransfer)
}

func TestVendorCannotSpendToVendor(t *testing.T) {
	l, catID := newTestLedger(t)
	_, err := l.Whitelist(admin, vera2, RoleVendor, catID)
	require.NoError(t, err)
	_, err = l.MintAndDistribute(admin, catID, []Address{benny}, 100)
	require.NoError(t, err)
	_, err = l.PayVendor(benny, vera, 50)
	require.NoError(t, err)

	_, err = l.Transfer(vera, vera, vera2, 10)
	assert.ErrorIs(t, err, ErrRestrictedTransfer)
}

func TestAdminClearingBypass(t *testing.T) {
	l, catID := newTestLedger(t)
	_, err := l.MintAndDistribute(admin, catID, []Address{benny}, 100)
	require.NoError(t, err)

	// Vendor settles out to the clearing authority regardless of roles.
	_, err = l.PayVendor(benny, vera, 50)
	require.NoError(t, err)
	rec, err := l.Transfer(vera, vera, admin, 50)
	require.NoError(t, err)
	assert.True(t, rec.Clearing)
	assert.Equal(t, Amount(50), l.BalanceOf(admin))

	// And the clearing authority moves value unconditionally the other way,
	// even to an address with no role anywhere.
	rec, err = l.Transfer(admin, admin, outsider, 20)
	require.NoError(t, err)
	assert.True(t, rec.Clearing)
	assert.Equal(t, Amount(20), l.BalanceOf(outsider))
}

func TestTransferCallerMustBePayerOrAdmin(t *testing.T) {
	l, catID := newTestLedger(t)
	_, err := l.MintAndDistribute(admin, catID, []Address{benny}, 100)
	require.NoError(t, err)

	_, err = l.Transfer(vera, benny, vera, 10)
	assert.ErrorIs(t, err, ErrUnauthorized)

	// An admin caller may move another address's balance (administrative
	// correction path).
	_, err = l.Transfer(admin, benny, vera, 10)
	require.NoError(t, err)
	assert.Equal(t, Amount(90), l.BalanceOf(benny))
}

func TestTransferInsufficientBalance(t *testing.T) {
	l, catID := newTestLedger(t)
	_, err := l.MintAndDistribute(admin, catID, []Address{benny}, 10)
	require.NoError(t, err)

	_, err = l.PayVendor(benny, vera, 11)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.Equal(t, Amount(10), l.BalanceOf(benny))
	assert.Zero(t, l.BalanceOf(vera))
}

func TestTransferInvalidArguments(t *testing.T) {
	l, _ := newTestLedger(t)
	_, err := l.PayVendor(benny, vera, 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = l.Transfer(benny, benny, benny, 5)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

// Balance conservation: whatever sequence of spends happens, the sum of all
// balances equals the sum of all minted amounts.
func TestBalanceConservation(t *testing.T) {
	l, catID := newTestLedger(t)
	b2 := Address("0xb000000000000000000000000000000000000002")
	_, err := l.Whitelist(admin, b2, RoleBeneficiary, catID)
	require.NoError(t, err)

	_, err = l.MintAndDistribute(admin, catID, []Address{benny, b2}, 100)
	require.NoError(t, err)

	_, err = l.PayVendor(benny, vera, 30)
	require.NoError(t, err)
	_, err = l.PayVendor(b2, vera, 60)
	require.NoError(t, err)
	_, err = l.Transfer(vera, vera, admin, 45)
	require.NoError(t, err)
	_, err = l.PayVendor(benny, vera, 71)
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	total := l.BalanceOf(admin) + l.BalanceOf(benny) + l.BalanceOf(b2) + l.BalanceOf(vera)
	assert.Equal(t, Amount(200), total)

	cat, err := l.GetCategory(catID)
	require.NoError(t, err)
	assert.LessOrEqual(t, cat.TotalDistributed, cat.TotalRaised)
}
