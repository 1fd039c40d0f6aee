package tokens

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relieffund/internal/ledger"
)

const addr = ledger.Address("0xb000000000000000000000000000000000000001")

func TestIssueVerifyRoundTrip(t *testing.T) {
	a := New([]byte("test-signing-key"))

	token, err := a.Issue(addr, time.Minute)
	require.NoError(t, err)

	got, err := a.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, addr, got)
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	token, err := New([]byte("key-one")).Issue(addr, time.Minute)
	require.NoError(t, err)

	_, err = New([]byte("key-two")).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpired(t *testing.T) {
	a := New([]byte("test-signing-key"))
	token, err := a.Issue(addr, -time.Minute)
	require.NoError(t, err)

	_, err = a.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsNonAddressSubject(t *testing.T) {
	a := New([]byte("test-signing-key"))
	token, err := a.Issue(ledger.Address("not-an-address"), time.Minute)
	require.NoError(t, err)

	_, err = a.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	_, err := New([]byte("test-signing-key")).Verify("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
