package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
)

func TestNewClientOptionsFromURL(t *testing.T) {
	s := miniredis.RunT(t)

	tests := []struct {
		name        string
		url         string
		db          int
		clientName  string
		dialTimeout time.Duration
	}{
		{"defaults", "redis://" + s.Addr(), 0, "ledgerlens", 2 * time.Second},
		{"database from path", "redis://" + s.Addr() + "/3", 3, "ledgerlens", 2 * time.Second},
		{"explicit name and timeout", "redis://" + s.Addr() + "/1?client_name=digest&dial_timeout=5s", 1, "digest", 5 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(context.Background(), tt.url)
			if err != nil {
				t.Fatalf("expected client, got error: %v", err)
			}
			defer client.Close()

			opts := client.Options()
			if opts.DB != tt.db {
				t.Errorf("expected db %d, got %d", tt.db, opts.DB)
			}
			if opts.ClientName != tt.clientName {
				t.Errorf("expected client name %q, got %q", tt.clientName, opts.ClientName)
			}
			if opts.DialTimeout != tt.dialTimeout {
				t.Errorf("expected dial timeout %v, got %v", tt.dialTimeout, opts.DialTimeout)
			}
		})
	}
}

func TestNewClientWritesToSelectedDatabase(t *testing.T) {
	s := miniredis.RunT(t)
	ctx := context.Background()

	client, err := NewClient(ctx, "redis://"+s.Addr()+"/2")
	if err != nil {
		t.Fatalf("expected client, got error: %v", err)
	}
	defer client.Close()

	if err := client.SetNX(ctx, "idempotency:/api/v1/communication/email:k1", "PENDING", time.Minute).Err(); err != nil {
		t.Fatalf("setnx failed: %v", err)
	}
	if got, err := s.DB(2).Get("idempotency:/api/v1/communication/email:k1"); err != nil || got != "PENDING" {
		t.Fatalf("expected key in db 2, got %q err=%v", got, err)
	}
	if s.Exists("idempotency:/api/v1/communication/email:k1") {
		t.Fatalf("expected db 0 to stay empty")
	}
}

func TestNewClientRejectsBadURL(t *testing.T) {
	for _, url := range []string{"://bad-url", "http://localhost:6379", "redis://localhost:6379/not-a-db"} {
		if _, err := NewClient(context.Background(), url); err == nil {
			t.Errorf("expected error for %q", url)
		}
	}
}

func TestNewClientFailsWhenServerIsDown(t *testing.T) {
	s := miniredis.RunT(t)
	url := "redis://" + s.Addr()
	s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := NewClient(ctx, url); err == nil {
		t.Fatalf("expected ping error when server is down")
	}
}
