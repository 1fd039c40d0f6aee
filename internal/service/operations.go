package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"relieffund/internal/audit"
	"relieffund/internal/ledger"
	"relieffund/internal/receipts"
)

// CreateCategory registers a new aid campaign.
func (s *Service) CreateCategory(ctx context.Context, caller ledger.Address, name string) (receipts.Receipt, error) {
	ctx, span := s.tracer.Start(ctx, "relief.CreateCategory")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.ledger.CreateCategory(caller, name)
	if err != nil {
		span.RecordError(err)
		return receipts.Receipt{}, err
	}
	s.metrics.CategoriesCreated.Inc()
	s.logger.Info("category created", "category_id", rec.CategoryID, "name", name)
	return s.commit(ctx, rec), nil
}

// GetCategory returns a category by id.
func (s *Service) GetCategory(ctx context.Context, id uint64) (ledger.Category, error) {
	_, span := s.tracer.Start(ctx, "relief.GetCategory")
	defer span.End()
	return s.ledger.GetCategory(id)
}

// ListCategories returns all categories ordered by id.
func (s *Service) ListCategories(ctx context.Context) []ledger.Category {
	_, span := s.tracer.Start(ctx, "relief.ListCategories")
	defer span.End()
	return s.ledger.Categories()
}

// Whitelist assigns a role and category to an address.
func (s *Service) Whitelist(ctx context.Context, caller, addr ledger.Address, role ledger.Role, categoryID uint64) (receipts.Receipt, error) {
	ctx, span := s.tracer.Start(ctx, "relief.Whitelist")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.ledger.Whitelist(caller, addr, role, categoryID)
	if err != nil {
		span.RecordError(err)
		return receipts.Receipt{}, err
	}
	s.metrics.EntitiesWhitelisted.Inc()
	s.logger.Info("entity whitelisted", "address", addr, "role", role.String(), "category_id", rec.CategoryID)
	return s.commit(ctx, rec), nil
}

// EntityInfo is the composite read for one address.
type EntityInfo struct {
	Address       ledger.Address
	Role          ledger.Role
	CategoryID    uint64
	Balance       ledger.Amount
	HasCredential bool
}

// Entity returns the role, category, balance, and credential flag for addr.
func (s *Service) Entity(ctx context.Context, addr ledger.Address) EntityInfo {
	_, span := s.tracer.Start(ctx, "relief.Entity")
	defer span.End()

	role, categoryID := s.ledger.RoleOf(addr)
	return EntityInfo{
		Address:       addr,
		Role:          role,
		CategoryID:    categoryID,
		Balance:       s.ledger.BalanceOf(addr),
		HasCredential: s.ledger.HasCredential(addr),
	}
}

// MintAndDistribute mints credits to a batch of beneficiaries.
func (s *Service) MintAndDistribute(ctx context.Context, caller ledger.Address, categoryID uint64, recipients []ledger.Address, amountPer ledger.Amount) (receipts.Receipt, error) {
	ctx, span := s.tracer.Start(ctx, "relief.MintAndDistribute")
	span.SetAttributes(attribute.Int("recipients", len(recipients)))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.ledger.MintAndDistribute(caller, categoryID, recipients, amountPer)
	if err != nil {
		span.RecordError(err)
		return receipts.Receipt{}, err
	}
	total := uint64(amountPer) * uint64(len(recipients))
	s.metrics.CreditsMinted.Add(float64(total))
	s.logger.Info("credits distributed", "category_id", categoryID, "recipients", len(recipients), "total", total)
	return s.commit(ctx, rec), nil
}

// Transfer moves credits on the direct path; caller must be the payer or an
// admin acting as clearing authority.
func (s *Service) Transfer(ctx context.Context, caller, from, to ledger.Address, amount ledger.Amount) (receipts.Receipt, error) {
	ctx, span := s.tracer.Start(ctx, "relief.Transfer")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.ledger.Transfer(caller, from, to, amount)
	s.metrics.Spends.WithLabelValues(string(audit.PathDirect), errLabel(err)).Inc()
	if err != nil {
		span.RecordError(err)
		return receipts.Receipt{}, err
	}
	s.logger.Info("credits transferred", "from", from, "to", to, "amount", amount)
	return s.commit(ctx, rec), nil
}

// PayVendor is the online beneficiary path.
func (s *Service) PayVendor(ctx context.Context, caller, vendor ledger.Address, amount ledger.Amount) (receipts.Receipt, error) {
	return s.Transfer(ctx, caller, caller, vendor, amount)
}

// RedeemVoucher executes an offline-signed authorization on behalf of the
// calling vendor.
func (s *Service) RedeemVoucher(ctx context.Context, caller, beneficiary ledger.Address, amount ledger.Amount, nonce uint64, signature []byte) (receipts.Receipt, error) {
	ctx, span := s.tracer.Start(ctx, "relief.RedeemVoucher")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.ledger.RedeemVoucher(caller, beneficiary, amount, nonce, signature)
	s.metrics.Spends.WithLabelValues(string(audit.PathVoucher), errLabel(err)).Inc()
	if err != nil {
		if errLabel(err) == "nonce_reused" {
			s.metrics.NonceReplays.Inc()
		}
		span.RecordError(err)
		return receipts.Receipt{}, err
	}
	s.logger.Info("voucher redeemed", "beneficiary", beneficiary, "vendor", caller, "amount", amount, "nonce", nonce)
	return s.commit(ctx, rec), nil
}

// SetSecurityPin stores a new PIN commitment for the calling beneficiary.
func (s *Service) SetSecurityPin(ctx context.Context, caller ledger.Address, secret string) (receipts.Receipt, error) {
	ctx, span := s.tracer.Start(ctx, "relief.SetSecurityPin")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.ledger.SetSecurityPin(caller, secret)
	if err != nil {
		span.RecordError(err)
		return receipts.Receipt{}, err
	}
	s.logger.Info("security pin set", "address", caller)
	return s.commit(ctx, rec), nil
}

// ChargeBeneficiary executes a vendor-initiated PIN pull.
func (s *Service) ChargeBeneficiary(ctx context.Context, caller, beneficiary ledger.Address, amount ledger.Amount, secret string) (receipts.Receipt, error) {
	ctx, span := s.tracer.Start(ctx, "relief.ChargeBeneficiary")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.ledger.ChargeBeneficiary(caller, beneficiary, amount, secret)
	s.metrics.Spends.WithLabelValues(string(audit.PathPin), errLabel(err)).Inc()
	if err != nil {
		span.RecordError(err)
		return receipts.Receipt{}, err
	}
	s.metrics.PinCharges.Inc()
	s.logger.Info("beneficiary charged", "beneficiary", beneficiary, "vendor", caller, "amount", amount)
	return s.commit(ctx, rec), nil
}

// IssueCredential marks an address as a verified beneficiary.
func (s *Service) IssueCredential(ctx context.Context, caller, owner ledger.Address, metadata string) (receipts.Receipt, error) {
	ctx, span := s.tracer.Start(ctx, "relief.IssueCredential")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.ledger.IssueCredential(caller, owner, metadata)
	if err != nil {
		span.RecordError(err)
		return receipts.Receipt{}, err
	}
	s.metrics.CredentialsIssued.Inc()
	s.logger.Info("credential issued", "owner", owner)
	return s.commit(ctx, rec), nil
}

// Credential returns the credential issued to owner, if any.
func (s *Service) Credential(ctx context.Context, owner ledger.Address) (ledger.Credential, bool) {
	_, span := s.tracer.Start(ctx, "relief.Credential")
	defer span.End()
	return s.ledger.CredentialOf(owner)
}
