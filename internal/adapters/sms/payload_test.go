package sms_test

import (
	"errors"
	"testing"

	common "github.com/example/txn-receipt-sms/internal/adapters/common"
	adaptersms "github.com/example/txn-receipt-sms/internal/adapters/sms"
	"github.com/example/txn-receipt-sms/internal/config"
	smsprovider "github.com/example/txn-receipt-sms/internal/providers/sms"
)

func TestBuildPayloadSandboxIgnoresSenderID(t *testing.T) {
	for _, sender := range []string{"", "MYBANK", "sandbox"} {
		settings := adaptersms.ProviderSettings{Mode: config.ModeSandbox, SenderID: sender}
		payload, err := adaptersms.BuildPayload("+2348082225459", "hello", settings)
		if err != nil {
			t.Fatalf("unexpected error for sender %q: %v", sender, err)
		}
		if payload.From != smsprovider.SandboxSender {
			t.Fatalf("expected sandbox sender token, got %q", payload.From)
		}
	}
}

func TestBuildPayloadProduction(t *testing.T) {
	settings := adaptersms.ProviderSettings{Mode: config.ModeProduction, SenderID: "MYBANK"}
	body := "Acct:123****890\n  spaced   body  "
	payload, err := adaptersms.BuildPayload("2348082225459", body, settings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.From != "MYBANK" {
		t.Fatalf("expected configured sender, got %q", payload.From)
	}
	if len(payload.To) != 1 || payload.To[0] != "2348082225459" {
		t.Fatalf("expected single verbatim recipient, got %v", payload.To)
	}
	if payload.Message != body {
		t.Fatalf("expected body passed through verbatim, got %q", payload.Message)
	}
}

func TestBuildPayloadProductionWithoutSender(t *testing.T) {
	settings := adaptersms.ProviderSettings{Mode: config.ModeProduction}
	_, err := adaptersms.BuildPayload("+2348082225459", "hello", settings)
	if !errors.Is(err, common.ErrMissingSenderConfiguration) {
		t.Fatalf("expected missing sender configuration, got %v", err)
	}
	if !errors.Is(err, common.ErrPermanent) {
		t.Fatalf("expected missing sender to be permanent")
	}
}

func TestSettingsFromConfig(t *testing.T) {
	settings := adaptersms.SettingsFromConfig(config.AfricasTalkingConfig{Username: "sandbox", SenderID: " MYBANK "})
	if !settings.Sandbox() {
		t.Fatalf("expected sandbox settings, got %+v", settings)
	}
	if settings.SenderID != "MYBANK" {
		t.Fatalf("expected trimmed sender id, got %q", settings.SenderID)
	}

	settings = adaptersms.SettingsFromConfig(config.AfricasTalkingConfig{Username: "mybank"})
	if settings.Sandbox() || settings.Mode != config.ModeProduction {
		t.Fatalf("expected production settings, got %+v", settings)
	}
}
