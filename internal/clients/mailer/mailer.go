// Package mailer sends transactional mail over SMTP. The SMTP host is
// auto-detected from the account's email domain when not configured
// explicitly, matching the providers the admin console documents.
package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"sync"

	"github.com/shelfcast/shelfcast-backend/internal/pkg/envutil"
	"github.com/shelfcast/shelfcast-backend/internal/pkg/logger"
)

// smtpHostByDomain maps common provider email domains to their SMTP host.
var smtpHostByDomain = map[string]string{
	"qq.com":      "smtp.qq.com",
	"163.com":     "smtp.163.com",
	"126.com":     "smtp.126.com",
	"gmail.com":   "smtp.gmail.com",
	"outlook.com": "smtp-mail.outlook.com",
	"hotmail.com": "smtp-mail.outlook.com",
	"sina.com":    "smtp.sina.com",
}

type Config struct {
	Host     string
	Port     string
	Account  string
	Password string
}

func ConfigFromEnv() Config {
	account := envutil.String("SMTP_ACCOUNT", "")
	host := envutil.String("SMTP_HOST", "")
	if host == "" {
		host = detectHost(account)
	}
	return Config{
		Host:     host,
		Port:     envutil.String("SMTP_PORT", "587"),
		Account:  account,
		Password: envutil.String("SMTP_PASSWORD", ""),
	}
}

func detectHost(account string) string {
	at := strings.LastIndex(account, "@")
	if at < 0 {
		return ""
	}
	return smtpHostByDomain[strings.ToLower(account[at+1:])]
}

type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type mailer struct {
	log *logger.Logger
	cfg Config

	initOnce sync.Once
	auth     smtp.Auth
	addr     string
	initErr  error
}

// New returns a lazily-initialized mailer: the SMTP transport handle is
// created on first Send and reused for the process lifetime.
func New(log *logger.Logger) Mailer {
	return &mailer{
		log: log.With("service", "Mailer"),
		cfg: ConfigFromEnv(),
	}
}

func (m *mailer) init() {
	if m.cfg.Account == "" || m.cfg.Password == "" {
		m.initErr = fmt.Errorf("mailer not configured: missing SMTP_ACCOUNT or SMTP_PASSWORD")
		return
	}
	if m.cfg.Host == "" {
		m.initErr = fmt.Errorf("mailer not configured: no SMTP_HOST and no known provider for %q", m.cfg.Account)
		return
	}
	m.auth = smtp.PlainAuth("", m.cfg.Account, m.cfg.Password, m.cfg.Host)
	m.addr = m.cfg.Host + ":" + m.cfg.Port
	m.log.Info("Mailer transport initialized", "host", m.cfg.Host)
}

func (m *mailer) Send(ctx context.Context, to, subject, body string) error {
	m.initOnce.Do(m.init)
	if m.initErr != nil {
		return m.initErr
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := strings.Join([]string{
		"From: " + m.cfg.Account,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=UTF-8",
		"",
		body,
	}, "\r\n")
	if err := smtp.SendMail(m.addr, m.auth, m.cfg.Account, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}
