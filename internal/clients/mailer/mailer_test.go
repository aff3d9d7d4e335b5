package mailer

import (
	"context"
	"testing"

	"github.com/shelfcast/shelfcast-backend/internal/pkg/logger"
)

func TestDetectHostByProviderDomain(t *testing.T) {
	t.Parallel()
	cases := []struct {
		account string
		want    string
	}{
		{"ops@qq.com", "smtp.qq.com"},
		{"ops@163.com", "smtp.163.com"},
		{"Ops@Gmail.COM", "smtp.gmail.com"},
		{"ops@outlook.com", "smtp-mail.outlook.com"},
		{"ops@hotmail.com", "smtp-mail.outlook.com"},
		{"ops@selfhosted.example", ""},
		{"not-an-email", ""},
	}
	for _, tc := range cases {
		if got := detectHost(tc.account); got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.account, got, tc.want)
		}
	}
}

func TestConfigFromEnvPrefersExplicitHost(t *testing.T) {
	t.Setenv("SMTP_ACCOUNT", "ops@qq.com")
	t.Setenv("SMTP_HOST", "mail.internal.example")
	t.Setenv("SMTP_PORT", "2525")

	cfg := ConfigFromEnv()
	if cfg.Host != "mail.internal.example" {
		t.Fatalf("host %q", cfg.Host)
	}
	if cfg.Port != "2525" {
		t.Fatalf("port %q", cfg.Port)
	}
}

func TestConfigFromEnvAutodetectsHost(t *testing.T) {
	t.Setenv("SMTP_ACCOUNT", "ops@163.com")
	t.Setenv("SMTP_HOST", "")

	cfg := ConfigFromEnv()
	if cfg.Host != "smtp.163.com" {
		t.Fatalf("host %q", cfg.Host)
	}
}

func TestSendFailsClearlyWhenUnconfigured(t *testing.T) {
	t.Setenv("SMTP_ACCOUNT", "")
	t.Setenv("SMTP_PASSWORD", "")
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}

	m := New(log)
	if err := m.Send(context.Background(), "to@example.com", "subject", "body"); err == nil {
		t.Fatal("unconfigured mailer must refuse to send")
	}
}
