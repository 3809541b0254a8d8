package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/example/txn-receipt-sms/internal/util"
)

// ErrInvalidTransaction wraps every transaction validation failure.
var ErrInvalidTransaction = errors.New("invalid transaction")

// Transaction date window accepted from the form.
var (
	EarliestTransactionDate = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	FutureTransactionWindow = 30 * 24 * time.Hour
)

var transactionDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// TransactionInput is a transfer as submitted by the form or a JSON client.
// Amount accepts either a JSON number or a numeric string.
type TransactionInput struct {
	AccountName     string      `json:"accountName"`
	BankName        string      `json:"bankName"`
	AccountNumber   string      `json:"accountNumber"`
	PhoneNumber     string      `json:"phoneNumber"`
	Amount          json.Number `json:"amount"`
	Narration       string      `json:"narration"`
	TransactionDate string      `json:"transactionDate"`
}

// Transaction is a validated, stored transfer.
type Transaction struct {
	AccountName     string    `json:"accountName"`
	BankName        string    `json:"bankName"`
	AccountNumber   string    `json:"accountNumber"`
	PhoneNumber     string    `json:"phoneNumber"`
	Amount          float64   `json:"amount"`
	Narration       string    `json:"narration"`
	TransactionDate time.Time `json:"transactionDate"`
	ReferenceNumber string    `json:"referenceNumber"`
	SubmittedAt     time.Time `json:"submittedAt"`
}

// Validate checks every field and returns the parsed transaction. All field
// problems are reported together. Reference and submission time are left for
// the caller to assign.
func (in TransactionInput) Validate(now time.Time) (Transaction, error) {
	var errs []error
	fail := func(err error) {
		errs = append(errs, err)
	}

	txn := Transaction{
		AccountName:   strings.TrimSpace(in.AccountName),
		BankName:      strings.TrimSpace(in.BankName),
		AccountNumber: strings.TrimSpace(in.AccountNumber),
		PhoneNumber:   strings.TrimSpace(in.PhoneNumber),
		Narration:     strings.TrimSpace(in.Narration),
	}

	if err := util.EnsureMinRunes("accountName", txn.AccountName, 2); err != nil {
		fail(err)
	}
	if err := util.EnsureMinRunes("bankName", txn.BankName, 2); err != nil {
		fail(err)
	}
	if err := util.EnsureDigits("accountNumber", txn.AccountNumber, 10); err != nil {
		fail(err)
	}
	if err := util.ValidateFormPhone(txn.PhoneNumber); err != nil {
		fail(fmt.Errorf("phoneNumber: %w", err))
	}
	if err := util.EnsureMinRunes("narration", txn.Narration, 1); err != nil {
		fail(err)
	}

	amount, err := parseAmount(in.Amount)
	if err != nil {
		fail(err)
	}
	txn.Amount = amount

	date, err := parseTransactionDate(in.TransactionDate, now)
	if err != nil {
		fail(err)
	}
	txn.TransactionDate = date

	if len(errs) > 0 {
		return Transaction{}, fmt.Errorf("%w: %w", ErrInvalidTransaction, errors.Join(errs...))
	}
	return txn, nil
}

func parseAmount(raw json.Number) (float64, error) {
	value := strings.TrimSpace(raw.String())
	if value == "" {
		return 0, errors.New("amount is required")
	}
	amount, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, fmt.Errorf("amount %q is not a number", value)
	}
	if amount <= 0 {
		return 0, errors.New("amount must be greater than zero")
	}
	return amount, nil
}

func parseTransactionDate(raw string, now time.Time) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, errors.New("transactionDate is required")
	}

	var (
		date time.Time
		err  error
	)
	for _, layout := range transactionDateLayouts {
		date, err = time.ParseInLocation(layout, value, now.Location())
		if err == nil {
			break
		}
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("transactionDate %q is not a recognised date", value)
	}

	if date.Before(EarliestTransactionDate) {
		return time.Time{}, fmt.Errorf("transactionDate must not be before %s", EarliestTransactionDate.Format("2006-01-02"))
	}
	if date.After(now.Add(FutureTransactionWindow)) {
		return time.Time{}, errors.New("transactionDate must be within 30 days from now")
	}
	return date, nil
}
