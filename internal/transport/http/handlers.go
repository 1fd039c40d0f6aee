package httptransport

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"relieffund/internal/ledger"
	"relieffund/internal/platform/middleware"
)

type createCategoryRequest struct {
	Name string `json:"name"`
}

func (h *Handler) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body", ledger.ErrInvalidArgument))
		return
	}
	rcpt, err := h.svc.CreateCategory(r.Context(), middleware.GetCaller(r.Context()), req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rcpt)
}

func (h *Handler) handleListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.ListCategories(r.Context()))
}

func (h *Handler) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, fmt.Errorf("%w: category id", ledger.ErrInvalidArgument))
		return
	}
	cat, err := h.svc.GetCategory(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cat)
}

type whitelistRequest struct {
	Address    string `json:"address"`
	Role       string `json:"role"`
	CategoryID uint64 `json:"category_id"`
}

func (h *Handler) handleWhitelist(w http.ResponseWriter, r *http.Request) {
	var req whitelistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body", ledger.ErrInvalidArgument))
		return
	}
	addr, err := ledger.ParseAddress(req.Address)
	if err != nil {
		writeError(w, err)
		return
	}
	role, err := ledger.ParseRole(req.Role)
	if err != nil {
		writeError(w, fmt.Errorf("%w: %w", ledger.ErrInvalidArgument, err))
		return
	}
	rcpt, err := h.svc.Whitelist(r.Context(), middleware.GetCaller(r.Context()), addr, role, req.CategoryID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rcpt)
}

type entityResponse struct {
	Address       ledger.Address `json:"address"`
	Role          ledger.Role    `json:"role"`
	CategoryID    uint64         `json:"category_id"`
	Balance       ledger.Amount  `json:"balance"`
	HasCredential bool           `json:"has_credential"`
}

func (h *Handler) handleGetEntity(w http.ResponseWriter, r *http.Request) {
	addr, err := ledger.ParseAddress(chi.URLParam(r, "address"))
	if err != nil {
		writeError(w, err)
		return
	}
	info := h.svc.Entity(r.Context(), addr)
	writeJSON(w, http.StatusOK, entityResponse{
		Address:       info.Address,
		Role:          info.Role,
		CategoryID:    info.CategoryID,
		Balance:       info.Balance,
		HasCredential: info.HasCredential,
	})
}

type distributeRequest struct {
	CategoryID uint64   `json:"category_id"`
	Recipients []string `json:"recipients"`
	AmountPer  uint64   `json:"amount_per"`
}

func (h *Handler) handleDistribute(w http.ResponseWriter, r *http.Request) {
	var req distributeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body", ledger.ErrInvalidArgument))
		return
	}
	recipients := make([]ledger.Address, 0, len(req.Recipients))
	for _, raw := range req.Recipients {
		addr, err := ledger.ParseAddress(raw)
		if err != nil {
			writeError(w, err)
			return
		}
		recipients = append(recipients, addr)
	}
	rcpt, err := h.svc.MintAndDistribute(r.Context(), middleware.GetCaller(r.Context()),
		req.CategoryID, recipients, ledger.Amount(req.AmountPer))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rcpt)
}

type transferRequest struct {
	// From is optional; when omitted the caller pays.
	From   string `json:"from,omitempty"`
	To     string `json:"to"`
	Amount uint64 `json:"amount"`
}

func (h *Handler) handleTransfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body", ledger.ErrInvalidArgument))
		return
	}
	to, err := ledger.ParseAddress(req.To)
	if err != nil {
		writeError(w, err)
		return
	}
	caller := middleware.GetCaller(r.Context())
	from := caller
	if req.From != "" {
		if from, err = ledger.ParseAddress(req.From); err != nil {
			writeError(w, err)
			return
		}
	}
	rcpt, err := h.svc.Transfer(r.Context(), caller, from, to, ledger.Amount(req.Amount))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rcpt)
}

type redeemRequest struct {
	Beneficiary string `json:"beneficiary"`
	Amount      uint64 `json:"amount"`
	Nonce       uint64 `json:"nonce"`
	Signature   string `json:"signature"`
}

func (h *Handler) handleRedeemVoucher(w http.ResponseWriter, r *http.Request) {
	var req redeemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body", ledger.ErrInvalidArgument))
		return
	}
	beneficiary, err := ledger.ParseAddress(req.Beneficiary)
	if err != nil {
		writeError(w, err)
		return
	}
	signature, err := hex.DecodeString(strings.TrimPrefix(req.Signature, "0x"))
	if err != nil {
		writeError(w, fmt.Errorf("%w: signature is not hex", ledger.ErrInvalidArgument))
		return
	}
	rcpt, err := h.svc.RedeemVoucher(r.Context(), middleware.GetCaller(r.Context()),
		beneficiary, ledger.Amount(req.Amount), req.Nonce, signature)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rcpt)
}

type setPinRequest struct {
	Pin string `json:"pin"`
}

func (h *Handler) handleSetPin(w http.ResponseWriter, r *http.Request) {
	var req setPinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body", ledger.ErrInvalidArgument))
		return
	}
	rcpt, err := h.svc.SetSecurityPin(r.Context(), middleware.GetCaller(r.Context()), req.Pin)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rcpt)
}

type chargeRequest struct {
	Beneficiary string `json:"beneficiary"`
	Amount      uint64 `json:"amount"`
	Pin         string `json:"pin"`
}

func (h *Handler) handleCharge(w http.ResponseWriter, r *http.Request) {
	var req chargeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body", ledger.ErrInvalidArgument))
		return
	}
	beneficiary, err := ledger.ParseAddress(req.Beneficiary)
	if err != nil {
		writeError(w, err)
		return
	}
	rcpt, err := h.svc.ChargeBeneficiary(r.Context(), middleware.GetCaller(r.Context()),
		beneficiary, ledger.Amount(req.Amount), req.Pin)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rcpt)
}

type issueCredentialRequest struct {
	Owner    string `json:"owner"`
	Metadata string `json:"metadata"`
}

func (h *Handler) handleIssueCredential(w http.ResponseWriter, r *http.Request) {
	var req issueCredentialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body", ledger.ErrInvalidArgument))
		return
	}
	owner, err := ledger.ParseAddress(req.Owner)
	if err != nil {
		writeError(w, err)
		return
	}
	rcpt, err := h.svc.IssueCredential(r.Context(), middleware.GetCaller(r.Context()), owner, req.Metadata)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rcpt)
}

type credentialResponse struct {
	Owner    ledger.Address `json:"owner"`
	Metadata string         `json:"metadata"`
	IssuedAt time.Time      `json:"issued_at"`
}

func (h *Handler) handleGetCredential(w http.ResponseWriter, r *http.Request) {
	owner, err := ledger.ParseAddress(chi.URLParam(r, "address"))
	if err != nil {
		writeError(w, err)
		return
	}
	cred, ok := h.svc.Credential(r.Context(), owner)
	if !ok {
		writeError(w, ledger.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, credentialResponse{
		Owner:    cred.Owner,
		Metadata: cred.Metadata,
		IssuedAt: cred.IssuedAt,
	})
}

func (h *Handler) handleGetReceipt(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, fmt.Errorf("%w: receipt id", ledger.ErrInvalidArgument))
		return
	}
	rcpt, err := h.svc.Receipt(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rcpt)
}
