// Package ledger is the restricted-transfer state machine: category and
// entity registries, balances, voucher redemption, PIN charges, and
// credential issuance.
//
// The whole mutable state lives behind one RWMutex. Every mutating operation
// validates and commits under a single write-lock acquisition, so no observer
// can see a nonce consumed without its balance movement or vice versa.
// Read-only queries run concurrently against the latest committed state.
package ledger

import (
	"fmt"
	"sync"
	"time"
)

// Ledger holds all engine state. Construct with New; the zero value is not
// usable.
type Ledger struct {
	mu sync.RWMutex

	categories     map[uint64]*Category
	nextCategoryID uint64

	entities    map[Address]Entity
	balances    map[Address]Amount
	usedNonces  map[nonceKey]struct{}
	pins        map[Address][]byte
	credentials map[Address]Credential

	now func() time.Time
}

// New returns a ledger with admin seeded as the operating authority.
func New(admin Address) *Ledger {
	l := &Ledger{
		categories:     make(map[uint64]*Category),
		nextCategoryID: 1,
		entities:       make(map[Address]Entity),
		balances:       make(map[Address]Amount),
		usedNonces:     make(map[nonceKey]struct{}),
		pins:           make(map[Address][]byte),
		credentials:    make(map[Address]Credential),
		now:            func() time.Time { return time.Now().UTC() },
	}
	if admin != "" {
		l.entities[admin] = Entity{Address: admin, Role: RoleAdmin}
	}
	return l
}

// GetCategory returns a category by id.
func (l *Ledger) GetCategory(id uint64) (Category, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	cat, ok := l.categories[id]
	if !ok {
		return Category{}, fmt.Errorf("%w: category %d", ErrNotFound, id)
	}
	return *cat, nil
}

// Categories returns all categories ordered by id.
func (l *Ledger) Categories() []Category {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Category, 0, len(l.categories))
	for id := uint64(1); id < l.nextCategoryID; id++ {
		if cat, ok := l.categories[id]; ok {
			out = append(out, *cat)
		}
	}
	return out
}

// RoleOf returns the role assignment for an address. Unknown addresses are
// (RoleNone, 0); that is a valid answer, not an error.
func (l *Ledger) RoleOf(addr Address) (Role, uint64) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	ent := l.entities[addr]
	return ent.Role, ent.CategoryID
}

// BalanceOf returns the current balance for an address.
func (l *Ledger) BalanceOf(addr Address) Amount {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.balances[addr]
}

// HasCredential reports whether a credential was issued to addr.
func (l *Ledger) HasCredential(addr Address) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	_, ok := l.credentials[addr]
	return ok
}

// CredentialOf returns the credential issued to addr, if any.
func (l *Ledger) CredentialOf(addr Address) (Credential, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	cred, ok := l.credentials[addr]
	return cred, ok
}

// NonceUsed reports whether a (beneficiary, nonce) pair has been consumed.
func (l *Ledger) NonceUsed(beneficiary Address, nonce uint64) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	_, ok := l.usedNonces[nonceKey{beneficiary, nonce}]
	return ok
}

// isAdmin must be called with at least a read lock held.
func (l *Ledger) isAdmin(addr Address) bool {
	return l.entities[addr].Role == RoleAdmin
}

// credit must be called with the write lock held.
func (l *Ledger) credit(addr Address, amount Amount) error {
	if l.balances[addr] > maxAmount-amount {
		return fmt.Errorf("%w: balance overflow for %s", ErrInvalidArgument, addr)
	}
	l.balances[addr] += amount
	return nil
}

// move must be called with the write lock held and the source balance already
// verified. The destination overflow check runs before any balance changes so
// a failed move leaves both sides untouched.
func (l *Ledger) move(from, to Address, amount Amount) error {
	if l.balances[to] > maxAmount-amount {
		return fmt.Errorf("%w: balance overflow for %s", ErrInvalidArgument, to)
	}
	l.balances[from] -= amount
	l.balances[to] += amount
	return nil
}

const maxAmount = Amount(^uint64(0))
