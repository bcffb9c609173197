package preprocess

import (
	"math"
	"testing"
)

func TestToIntOrNoneHandlesNullTokens(t *testing.T) {
	for _, tok := range []any{nil, "", "-", "—", "N/A", "NA", "null", "NONE", "--"} {
		if _, ok := ToIntOrNone(tok); ok {
			t.Errorf("expected %v to be treated as null", tok)
		}
	}
}

func TestToIntOrNoneStripsCommas(t *testing.T) {
	got, ok := ToIntOrNone("1,234")
	if !ok || got != 1234 {
		t.Fatalf("got %d, %v", got, ok)
	}
}

func TestToFloatOrNoneStripsPercent(t *testing.T) {
	got, ok := ToFloatOrNone("45.2%")
	if !ok || got != 45.2 {
		t.Fatalf("got %f, %v", got, ok)
	}
}

func TestToFloatOrNoneRejectsNaNAndInf(t *testing.T) {
	if _, ok := ToFloatOrNone(math.NaN()); ok {
		t.Fatal("expected NaN to be rejected")
	}
	if _, ok := ToFloatOrNone(math.Inf(1)); ok {
		t.Fatal("expected +Inf to be rejected")
	}
	if _, ok := ToFloatOrNone("NaN"); ok {
		t.Fatal("expected string NaN to be rejected")
	}
}

func TestToStringOrNoneTrimsAndTreatsNullTokens(t *testing.T) {
	got, ok := ToStringOrNone("  LAL  ")
	if !ok || got != "LAL" {
		t.Fatalf("got %q, %v", got, ok)
	}
	if _, ok := ToStringOrNone("--"); ok {
		t.Fatal("expected -- to be null")
	}
}

func TestToBoolOrNoneParsesCommonForms(t *testing.T) {
	cases := map[any]bool{
		true: true, "true": true, "Y": true, "1": true,
		false: false, "false": false, "n": false, "0": false,
	}
	for in, want := range cases {
		got, ok := ToBoolOrNone(in)
		if !ok {
			t.Fatalf("expected %v to coerce", in)
		}
		if got != want {
			t.Errorf("ToBoolOrNone(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestToBoolOrNoneRejectsAmbiguousString(t *testing.T) {
	if _, ok := ToBoolOrNone("maybe"); ok {
		t.Fatal("expected ambiguous string to be rejected")
	}
}
