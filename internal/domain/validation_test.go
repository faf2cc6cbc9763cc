package domain

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestParseDateRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		from, to string
		wantErr  bool
		bounded  bool
	}{
		{name: "both bounds", from: "2024-01-01", to: "2024-03-31", bounded: true},
		{name: "same day", from: "2024-02-29", to: "2024-02-29", bounded: true},
		{name: "open start", to: "2024-03-31"},
		{name: "open end", from: "2024-01-01"},
		{name: "unbounded", from: "", to: "  "},
		{name: "start after end", from: "2024-04-01", to: "2024-03-31", wantErr: true},
		{name: "malformed start", from: "01/04/2024", to: "2024-03-31", wantErr: true},
		{name: "malformed end", from: "2024-01-01", to: "2024-13-01", wantErr: true},
		{name: "impossible day", from: "2023-02-29", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ParseDateRange(tt.from, tt.to)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidInput) {
					t.Fatalf("expected ErrInvalidInput, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if r.Bounded() != tt.bounded {
				t.Fatalf("Bounded() = %v, want %v", r.Bounded(), tt.bounded)
			}
		})
	}
}

func TestParseBoundedRange_RequiresBoth(t *testing.T) {
	t.Parallel()

	if _, err := ParseBoundedRange("", "2024-01-31"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for missing start, got %v", err)
	}
	if _, err := ParseBoundedRange("2024-01-01", ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for missing end, got %v", err)
	}
	if _, err := ParseBoundedRange("2024-01-01", "2024-01-31"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDateRange_ContainsIsInclusive(t *testing.T) {
	t.Parallel()

	r, err := ParseDateRange("2024-01-01", "2024-01-31")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := map[string]bool{
		"2023-12-31": false,
		"2024-01-01": true,
		"2024-01-15": true,
		"2024-01-31": true,
		"2024-02-01": false,
	}
	for day, want := range cases {
		d, _ := time.Parse(DateLayout, day)
		if got := r.Contains(d.Add(23 * time.Hour)); got != want {
			t.Fatalf("Contains(%s) = %v, want %v", day, got, want)
		}
	}
}

func TestDateRange_Params(t *testing.T) {
	t.Parallel()

	r, _ := ParseDateRange("2024-01-01", "")
	p := r.Params()
	if p["start_date"] != "2024-01-01" {
		t.Fatalf("expected start_date echoed, got %v", p)
	}
	if _, ok := p["end_date"]; ok {
		t.Fatalf("open end must not be echoed, got %v", p)
	}
}

func TestValidateFragment(t *testing.T) {
	t.Parallel()

	if _, err := ValidateFragment("name", "  ", true); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if got, err := ValidateFragment("name", "  ", false); err != nil || got != "" {
		t.Fatalf("optional blank should be empty, got %q %v", got, err)
	}
	if got, _ := ValidateFragment("name", " Cash ", true); got != "Cash" {
		t.Fatalf("expected trimmed value, got %q", got)
	}
	if _, err := ValidateFragment("name", strings.Repeat("a", MaxFragmentLength+1), true); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for long fragment, got %v", err)
	}
}

func TestValidateLimit(t *testing.T) {
	t.Parallel()

	if got, err := ValidateLimit(0, 5); err != nil || got != 5 {
		t.Fatalf("zero should default, got %d %v", got, err)
	}
	if got, err := ValidateLimit(7, 5); err != nil || got != 7 {
		t.Fatalf("expected 7, got %d %v", got, err)
	}
	for _, bad := range []int{-1, MaxLimit + 1} {
		if _, err := ValidateLimit(bad, 5); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("limit %d: expected ErrInvalidInput, got %v", bad, err)
		}
	}
}

func TestParseEnum(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		parse   func(string) (string, error)
		value   string
		want    string
		wantErr bool
	}{
		{name: "kind default", parse: asString(ParseTransactionKind), value: "", want: "both"},
		{name: "kind case folded", parse: asString(ParseTransactionKind), value: "PAYMENT", want: "payment"},
		{name: "kind unknown", parse: asString(ParseTransactionKind), value: "refund", wantErr: true},
		{name: "tier required", parse: asString(ParseAnalyticsTier), value: "", wantErr: true},
		{name: "tier all", parse: asString(ParseAnalyticsTier), value: "all", want: "all"},
		{name: "granularity default", parse: asString(ParseGranularity), value: "", want: "monthly"},
		{name: "granularity unknown", parse: asString(ParseGranularity), value: "yearly", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.parse(tt.value)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidInput) {
					t.Fatalf("expected ErrInvalidInput, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func asString[T ~string](f func(string) (T, error)) func(string) (string, error) {
	return func(v string) (string, error) {
		got, err := f(v)
		return string(got), err
	}
}

func TestGranularity_PeriodKey(t *testing.T) {
	t.Parallel()

	day := time.Date(2024, time.December, 30, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		g    Granularity
		want string
	}{
		{Daily, "2024-12-30"},
		{Weekly, "2025-W01"},
		{Monthly, "2024-12"},
	}
	for _, tt := range tests {
		if got := tt.g.PeriodKey(day); got != tt.want {
			t.Fatalf("%s key = %q, want %q", tt.g, got, tt.want)
		}
	}
}

func TestTransactionKind_VoucherTypes(t *testing.T) {
	t.Parallel()

	if got := KindPayment.VoucherTypes(); len(got) != 1 || got[0] != "Payment" {
		t.Fatalf("unexpected payment types %v", got)
	}
	if got := KindBoth.VoucherTypes(); len(got) != 2 {
		t.Fatalf("unexpected both types %v", got)
	}
}
