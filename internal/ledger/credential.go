package ledger

import "fmt"

// IssueCredential marks an address as a verified, onboarded beneficiary.
// One credential per address, ever: re-issuance fails with AlreadyIssued and
// no operation reassigns an owner. This deployment does not gate ledger
// operations on credential possession; the credential is read by outer
// surfaces (onboarding, dashboards) through HasCredential.
func (l *Ledger) IssueCredential(caller, owner Address, metadata string) (Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.isAdmin(caller) {
		return Record{}, fmt.Errorf("%w: only admins issue credentials", ErrUnauthorized)
	}
	if _, ok := l.credentials[owner]; ok {
		return Record{}, fmt.Errorf("%w: %s", ErrAlreadyIssued, owner)
	}

	now := l.now()
	l.credentials[owner] = Credential{Owner: owner, Metadata: metadata, IssuedAt: now}

	return Record{
		Kind:     RecordCredentialIssued,
		At:       now,
		Address:  owner,
		Metadata: metadata,
	}, nil
}
