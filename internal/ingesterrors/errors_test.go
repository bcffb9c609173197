package ingesterrors

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestRateLimitErrorMessage(t *testing.T) {
	cases := []struct {
		name string
		err  *RateLimitError
		want string
	}{
		{
			name: "with status",
			err:  &RateLimitError{Source: "nba_stats", StatusCode: 429, RetryAfter: 5 * time.Second},
			want: "nba_stats: rate limited (status=429)",
		},
		{
			name: "without status",
			err:  &RateLimitError{Source: "bref"},
			want: "bref: rate limited",
		},
		{
			name: "custom message",
			err:  &RateLimitError{Source: "gamebooks", Message: "quota exhausted", StatusCode: 503},
			want: "quota exhausted (status=503)",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.err.Error(); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestAsRateLimitErrorUnwraps(t *testing.T) {
	base := &RateLimitError{Source: "nba_stats", StatusCode: 429}
	wrapped := fmt.Errorf("fetch failed: %w", base)

	rl, ok := AsRateLimitError(wrapped)
	if !ok {
		t.Fatal("expected RateLimitError to unwrap")
	}
	if rl.Source != "nba_stats" {
		t.Fatalf("unexpected source %q", rl.Source)
	}

	if _, ok := AsRateLimitError(errors.New("unrelated")); ok {
		t.Fatal("expected unrelated error to not unwrap")
	}
}

func TestSchemaDriftErrorMessage(t *testing.T) {
	err := &SchemaDriftError{Vendor: "nba_stats", Field: "EVENTMSGTYPE", Value: "99"}
	want := `nba_stats: unrecognized value "99" for field "EVENTMSGTYPE"`
	if got := err.Error(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	wrapped := fmt.Errorf("preprocess: %w", err)
	sd, ok := AsSchemaDriftError(wrapped)
	if !ok || sd.Field != "EVENTMSGTYPE" {
		t.Fatalf("expected SchemaDriftError to unwrap, got %+v ok=%v", sd, ok)
	}
}

func TestDataQualityErrorMessage(t *testing.T) {
	err := &DataQualityError{Check: "pbp_monotonicity", GameID: "0022300123", Issues: []string{"clock went backwards"}}
	wrapped := fmt.Errorf("validate: %w", err)

	dq, ok := AsDataQualityError(wrapped)
	if !ok {
		t.Fatal("expected DataQualityError to unwrap")
	}
	if dq.GameID != "0022300123" || len(dq.Issues) != 1 {
		t.Fatalf("unexpected error %+v", dq)
	}
}

func TestDomainInvariantErrorMessage(t *testing.T) {
	withAvail := &DomainInvariantError{Invariant: "tricode_resolution", Detail: "unknown tricode XYZ", Available: []string{"LAL", "BOS"}}
	if got := withAvail.Error(); got == "" {
		t.Fatal("expected non-empty message")
	}

	noAvail := &DomainInvariantError{Invariant: "clock_range", Detail: "clock -5 out of range"}
	wrapped := fmt.Errorf("transform: %w", noAvail)
	di, ok := AsDomainInvariantError(wrapped)
	if !ok || di.Invariant != "clock_range" {
		t.Fatalf("expected DomainInvariantError to unwrap, got %+v ok=%v", di, ok)
	}
}

func TestErrUnsupportedMessage(t *testing.T) {
	err := &ErrUnsupported{Op: "Shots", Source: "bref"}
	want := `bref: operation "Shots" not supported`
	if got := err.Error(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
