package receipt

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/example/txn-receipt-sms/internal/models"
)

// MaxBalanceOffset bounds the random amount added to the credited amount to
// fabricate a closing balance.
const MaxBalanceOffset = 50000.0

const (
	amountFormat   = "#,###.##"
	receiptDateFmt = "02/01/2006 15:04:05"
	receiptFooter  = "Dial *966# for quick airtime/Data purchase"
)

// ComposerOption customises a Composer.
type ComposerOption func(*Composer)

// WithBalanceOffset replaces the random balance offset source.
func WithBalanceOffset(fn func() float64) ComposerOption {
	return func(c *Composer) {
		if fn != nil {
			c.balanceOffset = fn
		}
	}
}

// Composer renders the bank-style credit alert text.
type Composer struct {
	balanceOffset func() float64
}

// NewComposer builds a composer with a random balance offset in
// [0, MaxBalanceOffset).
func NewComposer(opts ...ComposerOption) *Composer {
	c := &Composer{
		balanceOffset: func() float64 { return rand.Float64() * MaxBalanceOffset },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Compose renders the six-line credit alert for txn. The time is printed in
// 24-hour form followed by a fixed "PM" marker.
func (c *Composer) Compose(txn models.Transaction) string {
	balance := roundCents(txn.Amount + c.balanceOffset())

	lines := []string{
		"Acct:" + MaskAccount(txn.AccountNumber),
		"DT:" + txn.TransactionDate.Format(receiptDateFmt) + " PM",
		"CIP/CR//Transfer from " + strings.ToUpper(txn.AccountName),
		"CR Amt:" + FormatAmount(txn.Amount),
		"Bal:" + FormatAmount(balance),
		receiptFooter,
	}
	return strings.Join(lines, "\n")
}

// MaskAccount keeps the first and last three characters of an account number.
func MaskAccount(account string) string {
	if len(account) < 6 {
		return account
	}
	return fmt.Sprintf("%s****%s", account[:3], account[len(account)-3:])
}

// FormatAmount renders v with thousands separators and two decimals.
func FormatAmount(v float64) string {
	return humanize.FormatFloat(amountFormat, roundCents(v))
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
