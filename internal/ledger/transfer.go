package ledger

import "fmt"

// MintAndDistribute mints amountPer to every recipient and books the summed
// amount into the category's totals. The batch is all-or-nothing: one
// recipient outside (Beneficiary, categoryID) fails the whole call with no
// balance changes.
func (l *Ledger) MintAndDistribute(caller Address, categoryID uint64, recipients []Address, amountPer Amount) (Record, error) {
	if len(recipients) == 0 {
		return Record{}, fmt.Errorf("%w: at least one recipient is required", ErrInvalidArgument)
	}
	if amountPer == 0 {
		return Record{}, fmt.Errorf("%w: amount must be positive", ErrInvalidArgument)
	}
	if amountPer > maxAmount/Amount(len(recipients)) {
		return Record{}, fmt.Errorf("%w: distribution total overflows", ErrInvalidArgument)
	}
	total := amountPer * Amount(len(recipients))

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.isAdmin(caller) {
		return Record{}, fmt.Errorf("%w: only admins distribute credits", ErrUnauthorized)
	}
	cat, ok := l.categories[categoryID]
	if !ok {
		return Record{}, fmt.Errorf("%w: category %d", ErrCategoryNotFound, categoryID)
	}

	// Validate the entire batch before touching any balance.
	for _, r := range recipients {
		ent := l.entities[r]
		if ent.Role != RoleBeneficiary || ent.CategoryID != categoryID {
			return Record{}, fmt.Errorf("%w: %s is not a beneficiary of category %d", ErrCategoryMismatch, r, categoryID)
		}
		if l.balances[r] > maxAmount-amountPer {
			return Record{}, fmt.Errorf("%w: balance overflow for %s", ErrInvalidArgument, r)
		}
	}
	if cat.TotalRaised > maxAmount-total || cat.TotalDistributed > maxAmount-total {
		return Record{}, fmt.Errorf("%w: category totals overflow", ErrInvalidArgument)
	}

	for _, r := range recipients {
		l.balances[r] += amountPer
	}
	cat.TotalRaised += total
	cat.TotalDistributed += total

	return Record{
		Kind:       RecordMinted,
		At:         l.now(),
		CategoryID: categoryID,
		Recipients: append([]Address(nil), recipients...),
		Amount:     amountPer,
	}, nil
}

// Transfer moves amount from one address to another on the direct (online)
// path. The caller must be the payer or an admin acting as the clearing
// authority.
func (l *Ledger) Transfer(caller, from, to Address, amount Amount) (Record, error) {
	if amount == 0 {
		return Record{}, fmt.Errorf("%w: amount must be positive", ErrInvalidArgument)
	}
	if from == to {
		return Record{}, fmt.Errorf("%w: self transfer", ErrInvalidArgument)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if caller != from && !l.isAdmin(caller) {
		return Record{}, fmt.Errorf("%w: caller may only spend its own balance", ErrUnauthorized)
	}
	if err := l.spendAllowed(from, to); err != nil {
		return Record{}, err
	}
	if l.balances[from] < amount {
		return Record{}, fmt.Errorf("%w: %s holds %d, needs %d", ErrInsufficientBalance, from, l.balances[from], amount)
	}
	if err := l.move(from, to, amount); err != nil {
		return Record{}, err
	}

	return Record{
		Kind:       RecordTransferred,
		At:         l.now(),
		CategoryID: l.entities[from].CategoryID,
		From:       from,
		To:         to,
		Amount:     amount,
		Clearing:   l.entities[from].Role == RoleAdmin || l.entities[to].Role == RoleAdmin,
	}, nil
}

// PayVendor is the online beneficiary path: sugar for Transfer with the
// caller as payer.
func (l *Ledger) PayVendor(caller, vendor Address, amount Amount) (Record, error) {
	return l.Transfer(caller, caller, vendor, amount)
}

// spendAllowed implements the restricted-transfer rule. Credits are not
// fungible cash: they flow beneficiary to vendor within one category. The
// clearing authority is the explicit exception — an admin on either side of
// the movement bypasses category matching entirely. Must be called with a
// lock held.
func (l *Ledger) spendAllowed(from, to Address) error {
	fromEnt := l.entities[from]
	toEnt := l.entities[to]

	switch {
	case toEnt.Role == RoleAdmin:
		return nil
	case fromEnt.Role == RoleAdmin:
		return nil
	case fromEnt.Role == RoleBeneficiary && toEnt.Role == RoleVendor &&
		fromEnt.CategoryID == toEnt.CategoryID:
		return nil
	default:
		return fmt.Errorf("%w: %s (%s) to %s (%s)", ErrRestrictedTransfer,
			from, fromEnt.Role, to, toEnt.Role)
	}
}
