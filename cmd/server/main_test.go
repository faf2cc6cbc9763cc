package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/iho/ledgerlens/internal/infrastructure/config"
)

func TestEmailSenders(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
		want []string
	}{
		{
			name: "outbox only",
			cfg:  config.Config{EmailOutboxDir: t.TempDir()},
			want: []string{"file"},
		},
		{
			name: "smtp before outbox",
			cfg: config.Config{
				SMTPHost:       "smtp.example.com",
				SMTPPort:       587,
				SMTPUsername:   "reports",
				SMTPPassword:   "secret",
				EmailOutboxDir: t.TempDir(),
			},
			want: []string{"smtp", "file"},
		},
		{
			name: "unreadable gmail credentials are skipped",
			cfg: config.Config{
				GmailCredentialsFile: filepath.Join(t.TempDir(), "missing.json"),
				SMTPHost:             "smtp.example.com",
				SMTPPort:             465,
				SMTPUsername:         "reports",
				SMTPPassword:         "secret",
			},
			want: []string{"smtp"},
		},
		{
			name: "incomplete smtp settings",
			cfg:  config.Config{SMTPHost: "smtp.example.com", SMTPPort: 587},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			senders := emailSenders(context.Background(), &tt.cfg, zerolog.Nop())
			if len(senders) != len(tt.want) {
				t.Fatalf("expected %d senders, got %d", len(tt.want), len(senders))
			}
			for i, s := range senders {
				if s.Name() != tt.want[i] {
					t.Fatalf("sender %d: expected %s, got %s", i, tt.want[i], s.Name())
				}
			}
		})
	}
}

func TestCalendarDisabledWithoutCredentials(t *testing.T) {
	if c := calendar(context.Background(), &config.Config{}, zerolog.Nop()); c != nil {
		t.Fatalf("expected no calendar, got %T", c)
	}
	cfg := &config.Config{CalendarCredentialsFile: filepath.Join(t.TempDir(), "missing.json")}
	if c := calendar(context.Background(), cfg, zerolog.Nop()); c != nil {
		t.Fatalf("expected unreadable credentials to disable the calendar, got %T", c)
	}
}

func TestAuthentication(t *testing.T) {
	if _, _, err := authentication(&config.Config{APIKeys: []string{"a:viewer:k"}}); err == nil {
		t.Fatal("expected missing secret to fail")
	}
	if _, _, err := authentication(&config.Config{JWTSecret: "s"}); err == nil {
		t.Fatal("expected missing keys to fail")
	}
	if _, _, err := authentication(&config.Config{JWTSecret: "s", APIKeys: []string{"a:admin:k"}}); err == nil {
		t.Fatal("expected unknown role to fail")
	}

	manager, keys, err := authentication(&config.Config{JWTSecret: "s", APIKeys: []string{"a:viewer:k", "b:operator:k2"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if manager == nil || keys.Len() != 2 {
		t.Fatalf("expected manager and two keys, got %v %d", manager, keys.Len())
	}
}
