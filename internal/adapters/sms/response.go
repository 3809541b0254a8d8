package sms

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"

	common "github.com/example/txn-receipt-sms/internal/adapters/common"
	smsprovider "github.com/example/txn-receipt-sms/internal/providers/sms"
)

const unknownAPIError = "Unknown API error"

// interpretResponse maps a provider response onto a delivery or a classified
// failure. It is pure: the same response always yields the same result.
func interpretResponse(raw *smsprovider.RawResponse, recipient string) (*common.Delivery, error) {
	if raw == nil {
		return nil, common.NewError(common.KindInvalidProviderResponse, "empty response", nil)
	}

	env, err := smsprovider.DecodeEnvelope([]byte(raw.Body))
	if err != nil {
		return nil, common.NewError(common.KindInvalidProviderResponse, "", fmt.Errorf("http status %d: %w", raw.Code, err))
	}

	if len(env.Recipients) == 0 {
		reason := strings.TrimSpace(env.Message)
		if reason == "" {
			reason = unknownAPIError
		}
		return nil, common.NewError(common.KindProviderRejected, reason, nil)
	}

	// Only one recipient is ever sent, so only the first entry matters.
	first := env.Recipients[0]
	if first.Status != smsprovider.SuccessStatus {
		return nil, common.NewError(common.KindDeliveryFailed, first.Status, nil)
	}

	number := first.Number
	if number == "" {
		number = recipient
	}
	return &common.Delivery{
		Recipient:         number,
		ProviderMessageID: first.MessageID,
		Cost:              first.Cost,
		Status:            first.Status,
		StatusCode:        first.StatusCode,
	}, nil
}

// classifyTransportError splits failures where no response arrived into
// timeouts and everything else.
func classifyTransportError(err error) *common.Error {
	if isTimeout(err) {
		return common.NewError(common.KindTimeout, "", err)
	}
	return common.NewError(common.KindNetwork, "", err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
