// Package journal persists the ledger's committed mutations so state
// survives restarts. The journal is recovery state, not a query surface:
// the only reads are a full replay at boot.
package journal

import (
	"context"

	"relieffund/internal/ledger"
)

// Store is an append-only record log. Append is called in commit order (the
// service serializes mutations); Load returns every record in that order.
type Store interface {
	Append(ctx context.Context, rec ledger.Record) error
	Load(ctx context.Context) ([]ledger.Record, error)
	Close() error
}
