package ledger

import "fmt"

// Apply replays a journaled record into the state. Records carry resolved
// facts from an earlier commit, so Apply performs no authorization, signature
// or balance-sufficiency checks — it trusts the journal. Structural problems
// (unknown kinds, missing categories) still error, since they mean the
// journal and the code disagree.
func (l *Ledger) Apply(r Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch r.Kind {
	case RecordCategoryCreated:
		l.categories[r.CategoryID] = &Category{ID: r.CategoryID, Name: r.Name}
		if r.CategoryID >= l.nextCategoryID {
			l.nextCategoryID = r.CategoryID + 1
		}

	case RecordWhitelisted:
		l.entities[r.Address] = Entity{Address: r.Address, Role: r.Role, CategoryID: r.CategoryID}

	case RecordMinted:
		cat, ok := l.categories[r.CategoryID]
		if !ok {
			return fmt.Errorf("replay %s: category %d missing", r.Kind, r.CategoryID)
		}
		for _, rec := range r.Recipients {
			l.balances[rec] += r.Amount
		}
		total := r.Amount * Amount(len(r.Recipients))
		cat.TotalRaised += total
		cat.TotalDistributed += total

	case RecordTransferred, RecordPinCharged:
		l.balances[r.From] -= r.Amount
		l.balances[r.To] += r.Amount

	case RecordVoucherRedeemed:
		l.balances[r.From] -= r.Amount
		l.balances[r.To] += r.Amount
		l.usedNonces[nonceKey{r.From, r.Nonce}] = struct{}{}

	case RecordPinSet:
		l.pins[r.Address] = append([]byte(nil), r.PinHash...)

	case RecordCredentialIssued:
		l.credentials[r.Address] = Credential{Owner: r.Address, Metadata: r.Metadata, IssuedAt: r.At}

	default:
		return fmt.Errorf("replay: unknown record kind %q", r.Kind)
	}
	return nil
}
