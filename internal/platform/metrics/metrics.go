package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the ledger service.
type Metrics struct {
	CategoriesCreated   prometheus.Counter
	EntitiesWhitelisted prometheus.Counter
	CredentialsIssued   prometheus.Counter
	CreditsMinted       prometheus.Counter

	// Spends counts value-moving operations by path (direct, voucher, pin)
	// and result (ok or the error kind).
	Spends *prometheus.CounterVec

	// NonceReplays counts voucher redemptions rejected by the replay guard.
	NonceReplays prometheus.Counter

	// PinCharges counts vendor-initiated PIN pulls. The PIN path has no
	// replay protection, so this is the number deployments should watch.
	PinCharges prometheus.Counter

	JournalAppendFailures prometheus.Counter
}

// New creates and registers all Prometheus metrics on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CategoriesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "relief_categories_created_total",
			Help: "Total number of aid categories created.",
		}),
		EntitiesWhitelisted: factory.NewCounter(prometheus.CounterOpts{
			Name: "relief_entities_whitelisted_total",
			Help: "Total number of whitelist assignments (including overwrites).",
		}),
		CredentialsIssued: factory.NewCounter(prometheus.CounterOpts{
			Name: "relief_credentials_issued_total",
			Help: "Total number of beneficiary credentials issued.",
		}),
		CreditsMinted: factory.NewCounter(prometheus.CounterOpts{
			Name: "relief_credits_minted_total",
			Help: "Total credits minted across all distributions, in base units.",
		}),
		Spends: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "relief_spends_total",
			Help: "Value-moving operations by path and result.",
		}, []string{"path", "result"}),
		NonceReplays: factory.NewCounter(prometheus.CounterOpts{
			Name: "relief_voucher_nonce_replays_total",
			Help: "Voucher redemptions rejected because the nonce was already used.",
		}),
		PinCharges: factory.NewCounter(prometheus.CounterOpts{
			Name: "relief_pin_charges_total",
			Help: "Successful vendor-initiated PIN charges.",
		}),
		JournalAppendFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "relief_journal_append_failures_total",
			Help: "Committed mutations that could not be journaled.",
		}),
	}
}
