package messaging

import (
	"context"
	"testing"

	"github.com/proelectricos/charlie-bot/internal/whatsapp"
)

func TestWhatsAppCanonicalization(t *testing.T) {
	svc := NewWhatsAppService(whatsapp.NewMockClient())

	cases := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"bare number", "573168641671", "573168641671@s.whatsapp.net", false},
		{"full address", "573168641671@s.whatsapp.net", "573168641671@s.whatsapp.net", false},
		{"plus and dashes", "+57 316-864-1671", "573168641671@s.whatsapp.net", false},
		{"empty", "", "", true},
		{"no digits", "abc@s.whatsapp.net", "", true},
		{"too short", "12345", "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.ValidateAndCanonicalizeRecipient(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Errorf("expected error for %q, got %q", tc.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("canonical(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestWhatsAppSendEmitsReceipt(t *testing.T) {
	svc := NewWhatsAppService(whatsapp.NewMockClient())

	if err := svc.SendMessage(context.Background(), "573168641671@s.whatsapp.net", "hola"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	select {
	case receipt := <-svc.Receipts():
		if receipt.To != "573168641671@s.whatsapp.net" {
			t.Errorf("unexpected receipt recipient %q", receipt.To)
		}
	default:
		t.Error("expected a sent receipt")
	}
}

func TestWhatsAppStartWithMockSkipsEventHandling(t *testing.T) {
	svc := NewWhatsAppService(whatsapp.NewMockClient())
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Stop(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWhatsAppStoppedServiceRejectsSends(t *testing.T) {
	svc := NewWhatsAppService(whatsapp.NewMockClient())
	if err := svc.Stop(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.SendMessage(context.Background(), "573168641671@s.whatsapp.net", "hola"); err != ErrServiceStopped {
		t.Errorf("expected ErrServiceStopped, got %v", err)
	}
}

func TestWhatsAppStopTwiceIsSafe(t *testing.T) {
	svc := NewWhatsAppService(whatsapp.NewMockClient())
	if err := svc.Stop(); err != nil {
		t.Fatalf("first stop failed: %v", err)
	}
	if err := svc.Stop(); err != nil {
		t.Fatalf("second stop failed: %v", err)
	}
}

func TestTwilioCanonicalization(t *testing.T) {
	svc := NewTwilioService(nil)

	got, err := svc.ValidateAndCanonicalizeRecipient("+57 316-864-1671")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "573168641671" {
		t.Errorf("expected digits-only canonical form, got %q", got)
	}

	if _, err := svc.ValidateAndCanonicalizeRecipient("abc"); err == nil {
		t.Error("expected error for non-numeric recipient")
	}
}

func TestTwilioStoppedServiceRejectsSends(t *testing.T) {
	svc := NewTwilioService(nil)
	if err := svc.Stop(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.SendMessage(context.Background(), "573168641671", "hola"); err != ErrServiceStopped {
		t.Errorf("expected ErrServiceStopped, got %v", err)
	}
}
