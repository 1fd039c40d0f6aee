//go:build integration

package receipts_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"relieffund/internal/ledger"
	"relieffund/internal/receipts"
	"relieffund/pkg/testutil/containers"
)

type ReceiptCacheSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	cache *receipts.Cache
}

func TestReceiptCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(ReceiptCacheSuite))
}

func (s *ReceiptCacheSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.cache = receipts.NewCache(s.redis.Client, time.Minute)
}

func (s *ReceiptCacheSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *ReceiptCacheSuite) TestPutGetRoundTrip() {
	ctx := context.Background()

	r := receipts.New(ledger.Record{
		Kind:       ledger.RecordVoucherRedeemed,
		At:         time.Now().UTC().Truncate(time.Millisecond),
		CategoryID: 1,
		From:       "0xb000000000000000000000000000000000000001",
		To:         "0xc000000000000000000000000000000000000001",
		Amount:     20,
		Nonce:      7,
	})
	s.Require().NoError(s.cache.Put(ctx, r))

	got, err := s.cache.Get(ctx, r.ID)
	s.Require().NoError(err)
	s.Equal(r.ID, got.ID)
	s.Equal(r.Kind, got.Kind)
	s.Equal(r.Amount, got.Amount)
	s.Equal(r.Nonce, got.Nonce)
}

func (s *ReceiptCacheSuite) TestGetMissing() {
	_, err := s.cache.Get(context.Background(), uuid.New())
	s.ErrorIs(err, receipts.ErrNotFound)
}

func (s *ReceiptCacheSuite) TestExpiry() {
	ctx := context.Background()
	short := receipts.NewCache(s.redis.Client, 50*time.Millisecond)

	r := receipts.New(ledger.Record{Kind: ledger.RecordTransferred, Amount: 1})
	s.Require().NoError(short.Put(ctx, r))

	time.Sleep(150 * time.Millisecond)
	_, err := short.Get(ctx, r.ID)
	s.ErrorIs(err, receipts.ErrNotFound)
}
