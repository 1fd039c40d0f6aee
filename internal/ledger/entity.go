package ledger

import "fmt"

// Whitelist assigns role and category to an address, overwriting any prior
// assignment. Re-whitelisting with identical arguments is a no-op beyond the
// overwrite itself. Admin assignments carry no category.
func (l *Ledger) Whitelist(caller, addr Address, role Role, categoryID uint64) (Record, error) {
	if role != RoleBeneficiary && role != RoleVendor && role != RoleAdmin {
		return Record{}, fmt.Errorf("%w: role %s is not assignable", ErrInvalidArgument, role)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.isAdmin(caller) {
		return Record{}, fmt.Errorf("%w: only admins whitelist entities", ErrUnauthorized)
	}
	if role == RoleAdmin {
		categoryID = 0
	} else if _, ok := l.categories[categoryID]; !ok {
		return Record{}, fmt.Errorf("%w: category %d", ErrCategoryNotFound, categoryID)
	}

	l.entities[addr] = Entity{Address: addr, Role: role, CategoryID: categoryID}

	return Record{
		Kind:       RecordWhitelisted,
		At:         l.now(),
		Address:    addr,
		Role:       role,
		CategoryID: categoryID,
	}, nil
}
