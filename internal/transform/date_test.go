package transform

import (
	"testing"
	"time"
)

func TestDeriveLocalDatePrefersSuppliedDateWhenConsistent(t *testing.T) {
	utc := time.Date(2024, 1, 16, 2, 30, 0, 0, time.UTC) // late game, crosses midnight UTC
	got, err := DeriveLocalDate(utc, "America/Los_Angeles", "2024-01-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "2024-01-15" {
		t.Fatalf("got %q, want 2024-01-15", got)
	}
}

func TestDeriveLocalDateFallsBackToTimezoneConversionWhenNoSuppliedDate(t *testing.T) {
	utc := time.Date(2024, 1, 16, 2, 30, 0, 0, time.UTC)
	got, err := DeriveLocalDate(utc, "America/Los_Angeles", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "2024-01-15" {
		t.Fatalf("got %q, want 2024-01-15", got)
	}
}

func TestDeriveLocalDateOneDayMismatchWarnsAndKeepsSupplied(t *testing.T) {
	utc := time.Date(2024, 1, 16, 2, 30, 0, 0, time.UTC) // derives to 2024-01-15 in LA
	got, err := DeriveLocalDate(utc, "America/Los_Angeles", "2024-01-14")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "2024-01-14" {
		t.Fatalf("got %q, want supplied date to win on 1-day mismatch", got)
	}
}

func TestDeriveLocalDateMultiDayMismatchErrors(t *testing.T) {
	utc := time.Date(2024, 1, 16, 2, 30, 0, 0, time.UTC)
	if _, err := DeriveLocalDate(utc, "America/Los_Angeles", "2024-01-01"); err == nil {
		t.Fatal("expected error for multi-day mismatch")
	}
}

func TestDeriveLocalDateUnknownTimezoneErrors(t *testing.T) {
	utc := time.Date(2024, 1, 16, 2, 30, 0, 0, time.UTC)
	if _, err := DeriveLocalDate(utc, "Not/A_Zone", ""); err == nil {
		t.Fatal("expected error for unknown timezone")
	}
}

func TestDeriveSeasonFromGameID(t *testing.T) {
	got, err := DeriveSeason("0022300123", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 2022 {
		t.Fatalf("got %d, want 2022", got)
	}
}

func TestDeriveSeasonFallsBackToMonthWhenGameIDMissing(t *testing.T) {
	octGame, err := DeriveSeason("", time.Date(2023, 11, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if octGame != 2023 {
		t.Fatalf("got %d, want 2023 for November start", octGame)
	}

	springGame, err := DeriveSeason("", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if springGame != 2023 {
		t.Fatalf("got %d, want 2023 for March start", springGame)
	}
}
