package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/example/txn-receipt-sms/internal/models"
	"github.com/example/txn-receipt-sms/internal/receipt"
)

const maxBodyBytes = 64 << 10

// TransactionService is the receipt flow the handlers drive.
type TransactionService interface {
	Submit(ctx context.Context, in models.TransactionInput) (*receipt.Receipt, error)
	Lookup(reference string) (models.Transaction, error)
}

// TransactionHandler serves transaction submission and lookup.
type TransactionHandler struct {
	svc    TransactionService
	logger zerolog.Logger
}

// NewTransactionHandler constructs the handler.
func NewTransactionHandler(svc TransactionService, logger zerolog.Logger) *TransactionHandler {
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}
	return &TransactionHandler{svc: svc, logger: logger}
}

// Create accepts a transaction as JSON or as a url-encoded form and responds
// 201 with the stored transaction and its receipt text.
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	in, err := decodeTransaction(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rec, err := h.svc.Submit(r.Context(), in)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, rec)
	case errors.Is(err, models.ErrInvalidTransaction):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error().Err(err).Msg("transaction submission failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// Get returns a stored transaction by reference.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	reference := strings.TrimSpace(chi.URLParam(r, "reference"))
	txn, err := h.svc.Lookup(reference)
	if err != nil {
		if errors.Is(err, receipt.ErrNotFound) {
			writeError(w, http.StatusNotFound, "No transaction data found")
			return
		}
		h.logger.Error().Err(err).Str("reference", reference).Msg("transaction lookup failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, txn)
}

// Health reports liveness.
func Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func decodeTransaction(r *http.Request) (models.TransactionInput, error) {
	var in models.TransactionInput

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&in); err != nil {
			return in, errors.New("invalid JSON body: " + err.Error())
		}
		return in, nil
	}

	if err := r.ParseForm(); err != nil {
		return in, errors.New("invalid form body: " + err.Error())
	}
	in.AccountName = r.PostForm.Get("accountName")
	in.BankName = r.PostForm.Get("bankName")
	in.AccountNumber = r.PostForm.Get("accountNumber")
	in.PhoneNumber = r.PostForm.Get("phoneNumber")
	in.Amount = json.Number(strings.TrimSpace(r.PostForm.Get("amount")))
	in.Narration = r.PostForm.Get("narration")
	in.TransactionDate = r.PostForm.Get("transactionDate")
	return in, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
