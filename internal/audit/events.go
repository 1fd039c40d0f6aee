// Package audit emits the ledger's external events. Events are
// fire-and-forget signals for history and dashboard consumers; nothing in the
// engine's correctness depends on them being delivered.
package audit

import (
	"time"

	"relieffund/internal/ledger"
)

// EventKind names an audit event.
type EventKind string

const (
	// EventAidDistributed fires once per recipient of a distribution batch,
	// so dashboards can attribute credits to individual beneficiaries.
	EventAidDistributed EventKind = "aid_distributed"
	// EventAidUsed fires on every successful beneficiary spend, whatever
	// the path.
	EventAidUsed EventKind = "aid_used"
	// EventClearingTransfer fires for administrative movements (an admin on
	// either side). These are corrections and recoveries, not aid usage.
	EventClearingTransfer EventKind = "clearing_transfer"

	EventCategoryCreated    EventKind = "category_created"
	EventEntityWhitelisted  EventKind = "entity_whitelisted"
	EventCredentialIssued   EventKind = "credential_issued"
	EventSecurityPinChanged EventKind = "security_pin_changed"
)

// SpendPath distinguishes how a spend was authorized.
type SpendPath string

const (
	PathDirect  SpendPath = "direct"
	PathVoucher SpendPath = "voucher"
	PathPin     SpendPath = "pin"
)

// Event is the transport-agnostic audit record.
type Event struct {
	Kind        EventKind      `json:"kind"`
	At          time.Time      `json:"at"`
	CategoryID  uint64         `json:"category_id,omitempty"`
	Beneficiary ledger.Address `json:"beneficiary,omitempty"`
	Vendor      ledger.Address `json:"vendor,omitempty"`
	Address     ledger.Address `json:"address,omitempty"`
	From        ledger.Address `json:"from,omitempty"`
	To          ledger.Address `json:"to,omitempty"`
	Amount      ledger.Amount  `json:"amount,omitempty"`
	Path        SpendPath      `json:"path,omitempty"`
}

// FromRecord derives the audit events for a committed mutation. A
// distribution batch fans out to one event per recipient; every other record
// maps to at most one event. Unknown kinds produce none.
func FromRecord(rec ledger.Record) []Event {
	switch rec.Kind {
	case ledger.RecordCategoryCreated:
		return []Event{{Kind: EventCategoryCreated, At: rec.At, CategoryID: rec.CategoryID}}
	case ledger.RecordWhitelisted:
		return []Event{{Kind: EventEntityWhitelisted, At: rec.At, CategoryID: rec.CategoryID, Address: rec.Address}}
	case ledger.RecordMinted:
		events := make([]Event, 0, len(rec.Recipients))
		for _, beneficiary := range rec.Recipients {
			events = append(events, Event{
				Kind: EventAidDistributed, At: rec.At, CategoryID: rec.CategoryID,
				Beneficiary: beneficiary, Amount: rec.Amount,
			})
		}
		return events
	case ledger.RecordTransferred:
		if rec.Clearing {
			return []Event{{Kind: EventClearingTransfer, At: rec.At, CategoryID: rec.CategoryID,
				From: rec.From, To: rec.To, Amount: rec.Amount}}
		}
		return []Event{{Kind: EventAidUsed, At: rec.At, CategoryID: rec.CategoryID,
			Beneficiary: rec.From, Vendor: rec.To, Amount: rec.Amount, Path: PathDirect}}
	case ledger.RecordVoucherRedeemed:
		return []Event{{Kind: EventAidUsed, At: rec.At, CategoryID: rec.CategoryID,
			Beneficiary: rec.From, Vendor: rec.To, Amount: rec.Amount, Path: PathVoucher}}
	case ledger.RecordPinCharged:
		return []Event{{Kind: EventAidUsed, At: rec.At, CategoryID: rec.CategoryID,
			Beneficiary: rec.From, Vendor: rec.To, Amount: rec.Amount, Path: PathPin}}
	case ledger.RecordPinSet:
		return []Event{{Kind: EventSecurityPinChanged, At: rec.At, Address: rec.Address}}
	case ledger.RecordCredentialIssued:
		return []Event{{Kind: EventCredentialIssued, At: rec.At, Address: rec.Address}}
	default:
		return nil
	}
}
