package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iho/ledgerlens/internal/adapter/export"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("expected short unchanged, got %q", got)
	}

	if got := truncate("longerstring", 6); got != "lon..." {
		t.Fatalf("expected lon..., got %q", got)
	}
}

func TestPrintJSON(t *testing.T) {
	var out bytes.Buffer
	printJSON(&out, struct {
		A int `json:"a"`
	}{A: 1})

	expected := "{\n  \"a\": 1\n}\n"
	if out.String() != expected {
		t.Fatalf("unexpected json output:\n%s", out.String())
	}
}

func TestParams(t *testing.T) {
	q, err := params([]string{"start_date=2024-04-01", "party_name=Acme Traders"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Get("party_name") != "Acme Traders" {
		t.Fatalf("unexpected params: %v", q)
	}

	if _, err := params([]string{"start_date"}); err == nil {
		t.Fatal("expected error for a parameter without '='")
	}
}

func TestReportCmd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/financial/cash-flow" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("start_date") != "2024-04-01" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("expected bearer token, got %q", r.Header.Get("Authorization"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"status":"success","currency":"INR","data":{"net_cash_flow":"10"}}`)
	}))
	defer server.Close()

	out, err := execute(t, "--url", server.URL, "--token", "tok", "report", "/financial/cash-flow", "start_date=2024-04-01")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}
	if !strings.Contains(out, `"net_cash_flow": "10"`) {
		t.Fatalf("expected report in output, got %s", out)
	}
}

func TestReportCmdSurfacesErrorEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"status":"error","error_kind":"invalid_input","message":"start_date: is required"}`)
	}))
	defer server.Close()

	_, err := execute(t, "--url", server.URL, "kpis", "--start", "", "--end", "2024-01-31")
	if err == nil || !strings.Contains(err.Error(), "start_date: is required") {
		t.Fatalf("expected envelope message in error, got %v", err)
	}
}

func TestEmailCmd(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/communication/email" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Idempotency-Key") != "digest-1" {
			t.Errorf("expected idempotency key, got %q", r.Header.Get("Idempotency-Key"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("failed to decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"status":"success","data":{"method":"smtp"}}`)
	}))
	defer server.Close()

	out, err := execute(t, "--url", server.URL, "email",
		"--to", "a@example.com,b@example.com", "--subject", "Digest", "--idempotency-key", "digest-1")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}
	if to, _ := got["to"].([]any); len(to) != 2 {
		t.Fatalf("expected two recipients, got %v", got["to"])
	}
	if !strings.Contains(out, `"method": "smtp"`) {
		t.Fatalf("expected receipt in output, got %s", out)
	}
}

func TestExportCmd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/export/stock.xlsx" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", export.ContentType)
		_, _ = w.Write([]byte("PK-workbook"))
	}))
	defer server.Close()

	target := filepath.Join(t.TempDir(), "stock.xlsx")
	out, err := execute(t, "--url", server.URL, "export", "stock", "-o", target)
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("expected workbook on disk: %v", err)
	}
	if string(data) != "PK-workbook" {
		t.Fatalf("unexpected workbook contents %q", data)
	}
	if !strings.Contains(out, "Wrote "+target) {
		t.Fatalf("unexpected output %s", out)
	}
}

func TestExportCmdNoData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"status":"no_data","message":"No sales transactions found"}`)
	}))
	defer server.Close()

	_, err := execute(t, "--url", server.URL, "export", "parties", "-o", filepath.Join(t.TempDir(), "p.xlsx"))
	if err == nil || !strings.Contains(err.Error(), "No sales transactions found") {
		t.Fatalf("expected no-data message, got %v", err)
	}
}
