package pdfparse

import (
	"bytes"
	"compress/zlib"
	"testing"
)

func buildFlatePDF(t *testing.T, content string) []byte {
	t.Helper()
	var compressed bytes.Buffer
	w := zlib.NewWriter(&compressed)
	if _, err := w.Write([]byte(content)); err != nil {
		t.Fatalf("compress: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	var pdf bytes.Buffer
	pdf.WriteString("%PDF-1.4\n1 0 obj\n<< /Length ")
	pdf.WriteString("0")
	pdf.WriteString(" >>\nstream\n")
	pdf.Write(compressed.Bytes())
	pdf.WriteString("\nendstream\nendobj\n")
	return pdf.Bytes()
}

func TestExtractTextLayerDecodesFlateStream(t *testing.T) {
	raw := buildFlatePDF(t, `(Game Id: 0022300123) Tj (Crew Chief: John Smith) Tj`)

	text, err := ExtractText(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Contains([]byte(text), []byte("Game Id: 0022300123")) {
		t.Fatalf("expected extracted text to contain game id literal, got %q", text)
	}
	if !bytes.Contains([]byte(text), []byte("Crew Chief: John Smith")) {
		t.Fatalf("expected extracted text to contain crew chief literal, got %q", text)
	}
}

func TestExtractTextLayerFallsBackToRawLiteralScan(t *testing.T) {
	raw := []byte(`some preamble (Referee: Jane Doe) Tj trailing bytes`)

	text, err := ExtractText(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Contains([]byte(text), []byte("Referee: Jane Doe")) {
		t.Fatalf("expected fallback scan to recover literal, got %q", text)
	}
}

func TestExtractTextNoTextReturnsError(t *testing.T) {
	_, err := ExtractText([]byte("no parens here at all"))
	if err != ErrNoText {
		t.Fatalf("expected ErrNoText, got %v", err)
	}
}

func TestUnescapePDFLiteralHandlesEscapes(t *testing.T) {
	got := unescapePDFLiteral([]byte(`Smith \(Crew Chief\)\nLine2`))
	want := "Smith (Crew Chief)\nLine2"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
