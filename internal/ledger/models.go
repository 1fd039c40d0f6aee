package ledger

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Address identifies a participant. Addresses are lowercase 0x-prefixed hex,
// matching what signature recovery produces; ParseAddress normalizes input so
// map lookups never miss on case.
type Address string

// ParseAddress validates and normalizes an address string.
func ParseAddress(s string) (Address, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 42 || !strings.HasPrefix(s, "0x") {
		return "", fmt.Errorf("%w: address %q", ErrInvalidArgument, s)
	}
	for _, c := range s[2:] {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return "", fmt.Errorf("%w: address %q", ErrInvalidArgument, s)
		}
	}
	return Address(s), nil
}

// Amount is a credit quantity in base units. Balances never go negative and
// never round; arithmetic that would overflow is rejected.
type Amount uint64

// Role is the single role an address holds at a time.
type Role uint8

const (
	RoleNone Role = iota
	RoleBeneficiary
	RoleVendor
	RoleAdmin
)

var roleNames = map[Role]string{
	RoleNone:        "none",
	RoleBeneficiary: "beneficiary",
	RoleVendor:      "vendor",
	RoleAdmin:       "admin",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("role(%d)", uint8(r))
}

// ParseRole maps a role name to its Role. Only assignable roles parse; "none"
// is not assignable through whitelisting.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "beneficiary":
		return RoleBeneficiary, nil
	case "vendor":
		return RoleVendor, nil
	case "admin":
		return RoleAdmin, nil
	default:
		return RoleNone, fmt.Errorf("%w: role %q", ErrInvalidArgument, s)
	}
}

// MarshalJSON encodes roles by name so journal payloads stay readable.
func (r Role) MarshalJSON() ([]byte, error) {
	name, ok := roleNames[r]
	if !ok {
		return nil, fmt.Errorf("unknown role %d", uint8(r))
	}
	return json.Marshal(name)
}

func (r *Role) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for role, n := range roleNames {
		if n == name {
			*r = role
			return nil
		}
	}
	return fmt.Errorf("unknown role %q", name)
}

// Category is a scoped relief campaign. IDs are sequential from 1 and never
// reused; 0 means "unassigned".
type Category struct {
	ID               uint64 `json:"id"`
	Name             string `json:"name"`
	TotalRaised      Amount `json:"total_raised"`
	TotalDistributed Amount `json:"total_distributed"`
}

// Entity is an address's role assignment. Admins carry no category.
type Entity struct {
	Address    Address `json:"address"`
	Role       Role    `json:"role"`
	CategoryID uint64  `json:"category_id"`
}

// Credential marks an address as a verified, onboarded beneficiary. It is
// issued once and cannot be reassigned.
type Credential struct {
	Owner    Address   `json:"owner"`
	Metadata string    `json:"metadata"`
	IssuedAt time.Time `json:"issued_at"`
}

// RecordKind discriminates journal records.
type RecordKind string

const (
	RecordCategoryCreated  RecordKind = "category_created"
	RecordWhitelisted      RecordKind = "entity_whitelisted"
	RecordMinted           RecordKind = "credits_minted"
	RecordTransferred      RecordKind = "transferred"
	RecordVoucherRedeemed  RecordKind = "voucher_redeemed"
	RecordPinSet           RecordKind = "pin_set"
	RecordPinCharged       RecordKind = "pin_charged"
	RecordCredentialIssued RecordKind = "credential_issued"
)

// Record describes one committed mutation. Records are what the journal
// persists and what Apply replays; they carry resolved facts only, so replay
// never re-runs authorization or signature checks.
type Record struct {
	Kind RecordKind `json:"kind"`
	At   time.Time  `json:"at"`

	CategoryID uint64 `json:"category_id,omitempty"`
	Name       string `json:"name,omitempty"`

	Address Address `json:"address,omitempty"`
	Role    Role    `json:"role,omitempty"`

	From       Address   `json:"from,omitempty"`
	To         Address   `json:"to,omitempty"`
	Amount     Amount    `json:"amount,omitempty"`
	Recipients []Address `json:"recipients,omitempty"`
	Nonce      uint64    `json:"nonce,omitempty"`

	// Clearing marks a transfer with an admin on either side. Those are
	// administrative corrections, not beneficiary spends, and the audit
	// stream reports them separately.
	Clearing bool `json:"clearing,omitempty"`

	PinHash  []byte `json:"pin_hash,omitempty"`
	Metadata string `json:"metadata,omitempty"`
}

type nonceKey struct {
	beneficiary Address
	nonce       uint64
}
