// Package receipts caches operation receipts for short-lived lookup. The
// cache is a convenience for clients that want to re-fetch the outcome of a
// recent call (e.g. a vendor confirming a redemption on a flaky link); the
// journal remains the authoritative record and receipts expire.
package receipts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"relieffund/internal/ledger"
)

// ErrNotFound means the receipt expired or never existed.
var ErrNotFound = errors.New("receipt not found")

// Receipt is the typed result of one successful mutation.
type Receipt struct {
	ID         uuid.UUID         `json:"id"`
	Kind       ledger.RecordKind `json:"kind"`
	At         time.Time         `json:"at"`
	CategoryID uint64            `json:"category_id,omitempty"`
	From       ledger.Address    `json:"from,omitempty"`
	To         ledger.Address    `json:"to,omitempty"`
	Amount     ledger.Amount     `json:"amount,omitempty"`
	Nonce      uint64            `json:"nonce,omitempty"`
}

// New builds a receipt for a committed record.
func New(rec ledger.Record) Receipt {
	return Receipt{
		ID:         uuid.New(),
		Kind:       rec.Kind,
		At:         rec.At,
		CategoryID: rec.CategoryID,
		From:       rec.From,
		To:         rec.To,
		Amount:     rec.Amount,
		Nonce:      rec.Nonce,
	}
}

// Cache stores receipts with a TTL. A nil *Cache is valid and caches nothing.
type Cache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewCache wraps a redis client. Returns nil when client is nil so callers
// can pass through an unconfigured redis.
func NewCache(client redis.Cmdable, ttl time.Duration) *Cache {
	if client == nil {
		return nil
	}
	return &Cache{client: client, ttl: ttl}
}

func key(id uuid.UUID) string {
	return "receipt:" + id.String()
}

// Put stores a receipt; failures are returned for logging but are not fatal
// to the operation that produced the receipt.
func (c *Cache) Put(ctx context.Context, r Receipt) error {
	if c == nil {
		return nil
	}
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode receipt: %w", err)
	}
	if err := c.client.Set(ctx, key(r.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("store receipt: %w", err)
	}
	return nil
}

// Get fetches a receipt by id.
func (c *Cache) Get(ctx context.Context, id uuid.UUID) (Receipt, error) {
	if c == nil {
		return Receipt{}, ErrNotFound
	}
	data, err := c.client.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Receipt{}, ErrNotFound
	}
	if err != nil {
		return Receipt{}, fmt.Errorf("fetch receipt: %w", err)
	}
	var r Receipt
	if err := json.Unmarshal(data, &r); err != nil {
		return Receipt{}, fmt.Errorf("decode receipt: %w", err)
	}
	return r, nil
}
