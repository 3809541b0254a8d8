package sms

import (
	"strings"

	common "github.com/example/txn-receipt-sms/internal/adapters/common"
	"github.com/example/txn-receipt-sms/internal/config"
	smsprovider "github.com/example/txn-receipt-sms/internal/providers/sms"
)

// ProviderSettings is the part of the account configuration that shapes a
// request: the resolved mode and the production sender id.
type ProviderSettings struct {
	Mode     string
	SenderID string
}

// SettingsFromConfig resolves the mode once so every dispatch sees the same
// value.
func SettingsFromConfig(cfg config.AfricasTalkingConfig) ProviderSettings {
	return ProviderSettings{
		Mode:     cfg.ResolveMode(),
		SenderID: strings.TrimSpace(cfg.SenderID),
	}
}

// Sandbox reports whether requests go to the sandbox account.
func (s ProviderSettings) Sandbox() bool {
	return s.Mode == config.ModeSandbox
}

// BuildPayload turns a normalized recipient and body into a provider request.
// Sandbox requests always use the sandbox sender token; production requests
// need a configured sender id.
func BuildPayload(recipient, body string, settings ProviderSettings) (*smsprovider.Payload, error) {
	from := smsprovider.SandboxSender
	if !settings.Sandbox() {
		if settings.SenderID == "" {
			return nil, common.NewError(common.KindMissingSenderConfiguration, "sender id is required in production mode", nil)
		}
		from = settings.SenderID
	}

	return &smsprovider.Payload{
		To:      []string{recipient},
		Message: body,
		From:    from,
	}, nil
}
