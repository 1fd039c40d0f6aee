package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relieffund/internal/ledger"
)

func TestFromRecordSpendPaths(t *testing.T) {
	at := time.Now()
	ben := ledger.Address("0xb000000000000000000000000000000000000001")
	vend := ledger.Address("0xc000000000000000000000000000000000000001")

	cases := []struct {
		kind ledger.RecordKind
		path SpendPath
	}{
		{ledger.RecordTransferred, PathDirect},
		{ledger.RecordVoucherRedeemed, PathVoucher},
		{ledger.RecordPinCharged, PathPin},
	}
	for _, tc := range cases {
		events := FromRecord(ledger.Record{
			Kind: tc.kind, At: at, CategoryID: 3, From: ben, To: vend, Amount: 25,
		})
		require.Len(t, events, 1, tc.kind)
		assert.Equal(t, EventAidUsed, events[0].Kind)
		assert.Equal(t, tc.path, events[0].Path)
		assert.Equal(t, ben, events[0].Beneficiary)
		assert.Equal(t, vend, events[0].Vendor)
		assert.Equal(t, ledger.Amount(25), events[0].Amount)
	}
}

func TestFromRecordDistributionFansOutPerBeneficiary(t *testing.T) {
	recipients := []ledger.Address{
		"0xb000000000000000000000000000000000000001",
		"0xb000000000000000000000000000000000000002",
	}
	events := FromRecord(ledger.Record{
		Kind:       ledger.RecordMinted,
		CategoryID: 1,
		Recipients: recipients,
		Amount:     100,
	})
	require.Len(t, events, len(recipients))
	for i, event := range events {
		assert.Equal(t, EventAidDistributed, event.Kind)
		assert.Equal(t, recipients[i], event.Beneficiary)
		assert.Equal(t, ledger.Amount(100), event.Amount)
		assert.Equal(t, uint64(1), event.CategoryID)
	}
}

func TestFromRecordClearingTransfer(t *testing.T) {
	admin := ledger.Address("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	vend := ledger.Address("0xc000000000000000000000000000000000000001")

	events := FromRecord(ledger.Record{
		Kind: ledger.RecordTransferred, From: vend, To: admin, Amount: 50, Clearing: true,
	})
	require.Len(t, events, 1)
	assert.Equal(t, EventClearingTransfer, events[0].Kind)
	assert.Equal(t, vend, events[0].From)
	assert.Equal(t, admin, events[0].To)
	assert.Equal(t, ledger.Amount(50), events[0].Amount)
	assert.Empty(t, events[0].Beneficiary)
	assert.Empty(t, events[0].Path)
}

func TestFromRecordUnknownKind(t *testing.T) {
	assert.Empty(t, FromRecord(ledger.Record{Kind: "mystery"}))
}

func TestNilSafePublish(t *testing.T) {
	// Must not panic with no publisher configured.
	Publish(context.Background(), nil, Event{Kind: EventAidUsed})

	p := NewMemoryPublisher()
	Publish(context.Background(), p, Event{Kind: EventAidUsed})
	assert.Len(t, p.Events(), 1)
}
