// Package service fronts the ledger engine with the operational concerns the
// engine itself stays free of: journaling, audit events, receipts, metrics,
// and tracing.
//
// Mutations are serialized by one mutex so the journal's append order always
// equals the engine's commit order. A journal append failure does not roll
// back the committed mutation — the engine is authoritative and a recovery
// would replay a consistent prefix — but it is logged and counted, because it
// means durability is degraded.
package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"relieffund/internal/audit"
	"relieffund/internal/journal"
	"relieffund/internal/ledger"
	"relieffund/internal/platform/metrics"
	"relieffund/internal/receipts"
)

// Service exposes every ledger operation to transports.
type Service struct {
	mu sync.Mutex

	ledger    *ledger.Ledger
	journal   journal.Store
	publisher audit.Publisher
	receipts  *receipts.Cache
	metrics   *metrics.Metrics
	logger    *slog.Logger
	tracer    trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithPublisher(p audit.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

func WithReceiptCache(c *receipts.Cache) Option {
	return func(s *Service) { s.receipts = c }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New builds a service over the given engine and journal.
func New(l *ledger.Ledger, j journal.Store, opts ...Option) (*Service, error) {
	if l == nil {
		return nil, errors.New("ledger is required")
	}
	if j == nil {
		return nil, errors.New("journal is required")
	}
	svc := &Service{
		ledger:  l,
		journal: j,
		logger:  slog.Default(),
		tracer:  otel.Tracer("relieffund/service"),
	}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.metrics == nil {
		svc.metrics = metrics.New(prometheus.NewRegistry())
	}
	return svc, nil
}

// Recover replays the journal into the engine. Call once before serving.
func (s *Service) Recover(ctx context.Context) error {
	records, err := s.journal.Load(ctx)
	if err != nil {
		return err
	}
	for _, rec := range records {
		if err := s.ledger.Apply(rec); err != nil {
			return err
		}
	}
	if len(records) > 0 {
		s.logger.Info("journal replayed", "records", len(records))
	}
	return nil
}

// commit journals a committed record and fans out receipt and audit event.
// Must be called with s.mu held for the journal append ordering guarantee;
// the fan-out itself is order-insensitive.
func (s *Service) commit(ctx context.Context, rec ledger.Record) receipts.Receipt {
	if err := s.journal.Append(ctx, rec); err != nil {
		s.metrics.JournalAppendFailures.Inc()
		s.logger.Error("journal append failed", "kind", rec.Kind, "err", err)
	}

	r := receipts.New(rec)
	if err := s.receipts.Put(ctx, r); err != nil {
		s.logger.Warn("receipt cache write failed", "receipt_id", r.ID, "err", err)
	}
	for _, event := range audit.FromRecord(rec) {
		audit.Publish(ctx, s.publisher, event)
	}
	return r
}

// Receipt fetches a cached receipt by id.
func (s *Service) Receipt(ctx context.Context, id uuid.UUID) (receipts.Receipt, error) {
	return s.receipts.Get(ctx, id)
}

// errLabel maps an engine error to its metric label.
func errLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ledger.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ledger.ErrRestrictedTransfer):
		return "restricted_transfer"
	case errors.Is(err, ledger.ErrCategoryMismatch):
		return "category_mismatch"
	case errors.Is(err, ledger.ErrInvalidSignature):
		return "invalid_signature"
	case errors.Is(err, ledger.ErrSignerMismatch):
		return "signer_mismatch"
	case errors.Is(err, ledger.ErrNonceReused):
		return "nonce_reused"
	case errors.Is(err, ledger.ErrInsufficientBalance):
		return "insufficient_balance"
	case errors.Is(err, ledger.ErrPinMismatch):
		return "pin_mismatch"
	default:
		return "error"
	}
}
