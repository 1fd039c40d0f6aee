//go:build integration

package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"relieffund/internal/journal/postgres"
	"relieffund/internal/ledger"
	"relieffund/pkg/testutil/containers"
)

type PostgresJournalSuite struct {
	suite.Suite
	store *postgres.Store
}

func TestPostgresJournalSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresJournalSuite))
}

func (s *PostgresJournalSuite) SetupSuite() {
	pg := containers.NewPostgresContainer(s.T())
	store, err := postgres.New(context.Background(), pg.URL)
	s.Require().NoError(err)
	s.store = store
}

func (s *PostgresJournalSuite) TearDownSuite() {
	if s.store != nil {
		_ = s.store.Close()
	}
}

func (s *PostgresJournalSuite) TestAppendLoadRoundTrip() {
	ctx := context.Background()

	ben := ledger.Address("0xb000000000000000000000000000000000000001")
	vend := ledger.Address("0xc000000000000000000000000000000000000001")
	recs := []ledger.Record{
		{Kind: ledger.RecordCategoryCreated, CategoryID: 1, Name: "Flood Relief"},
		{Kind: ledger.RecordWhitelisted, Address: ben, Role: ledger.RoleBeneficiary, CategoryID: 1},
		{Kind: ledger.RecordWhitelisted, Address: vend, Role: ledger.RoleVendor, CategoryID: 1},
		{Kind: ledger.RecordMinted, CategoryID: 1, Recipients: []ledger.Address{ben}, Amount: 100},
		{Kind: ledger.RecordVoucherRedeemed, CategoryID: 1, From: ben, To: vend, Amount: 20, Nonce: 7},
	}
	for _, r := range recs {
		s.Require().NoError(s.store.Append(ctx, r))
	}

	loaded, err := s.store.Load(ctx)
	s.Require().NoError(err)
	s.Require().Len(loaded, len(recs))
	for i := range recs {
		s.Equal(recs[i].Kind, loaded[i].Kind)
		s.Equal(recs[i].CategoryID, loaded[i].CategoryID)
		s.Equal(recs[i].Amount, loaded[i].Amount)
		s.Equal(recs[i].Nonce, loaded[i].Nonce)
	}

	// The loaded journal must replay cleanly.
	l := ledger.New("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	for _, r := range loaded {
		s.Require().NoError(l.Apply(r))
	}
	s.Equal(ledger.Amount(80), l.BalanceOf(ben))
	s.Equal(ledger.Amount(20), l.BalanceOf(vend))
	s.True(l.NonceUsed(ben, 7))
}
