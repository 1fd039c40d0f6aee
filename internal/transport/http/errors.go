package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"

	"relieffund/internal/ledger"
	"relieffund/internal/receipts"
)

type errorResponse struct {
	Error string `json:"error"`
}

// writeError centralizes engine error translation to HTTP responses so every
// handler emits the same JSON envelope.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := "internal"
	switch {
	case errors.Is(err, ledger.ErrInvalidArgument):
		status, code = http.StatusBadRequest, "invalid_argument"
	case errors.Is(err, ledger.ErrInvalidSignature):
		status, code = http.StatusBadRequest, "invalid_signature"
	case errors.Is(err, ledger.ErrUnauthorized):
		status, code = http.StatusForbidden, "unauthorized"
	case errors.Is(err, ledger.ErrRestrictedTransfer):
		status, code = http.StatusForbidden, "restricted_transfer"
	case errors.Is(err, ledger.ErrSignerMismatch):
		status, code = http.StatusForbidden, "signer_mismatch"
	case errors.Is(err, ledger.ErrPinMismatch):
		status, code = http.StatusForbidden, "pin_mismatch"
	case errors.Is(err, ledger.ErrNotFound), errors.Is(err, ledger.ErrCategoryNotFound), errors.Is(err, receipts.ErrNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, ledger.ErrCategoryMismatch):
		status, code = http.StatusConflict, "category_mismatch"
	case errors.Is(err, ledger.ErrNonceReused):
		status, code = http.StatusConflict, "nonce_reused"
	case errors.Is(err, ledger.ErrInsufficientBalance):
		status, code = http.StatusConflict, "insufficient_balance"
	case errors.Is(err, ledger.ErrAlreadyIssued):
		status, code = http.StatusConflict, "already_issued"
	}
	writeJSON(w, status, errorResponse{Error: code})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
