// Package pdfparse extracts officiating-crew text from NBA gamebook PDFs.
// No third-party PDF library appears anywhere in the example pack or
// other_examples, so this package implements minimal PDF text-stream
// extraction against the standard library only: it pulls
// stream/endstream content, Flate-decodes it with compress/zlib, and
// scans the result for PDF literal-string show operands. A raw
// literal-string scan over the whole file is the fallback when no
// stream decodes cleanly.
package pdfparse

import (
	"bytes"
	"compress/zlib"
	"errors"
	"io"
	"regexp"
	"strings"
)

// extractor pulls best-effort text out of a raw PDF. Multiple extractors
// run in order and the longest non-empty result wins, so a partial or
// malformed PDF still yields whatever text any one method could recover.
type extractor func(raw []byte) (string, error)

var extractors = []extractor{
	extractTextLayer,
	extractOCRStub,
}

// ErrNoText is returned when every extractor produced an empty result.
var ErrNoText = errors.New("pdfparse: no extractor produced text")

// ExtractText runs every registered extractor over raw and returns the
// longest non-empty result.
func ExtractText(raw []byte) (string, error) {
	var best string
	for _, ex := range extractors {
		text, err := ex(raw)
		if err != nil {
			continue
		}
		if len(text) > len(best) {
			best = text
		}
	}
	if best == "" {
		return "", ErrNoText
	}
	return best, nil
}

var streamLiteralPattern = regexp.MustCompile(`\(((?:[^()\\]|\\.)*)\)`)

// extractTextLayer walks stream/endstream blocks, Flate-decodes each,
// and collects PDF literal-string show operands (the "(...) Tj" /
// "[(...) ...] TJ" operators every gamebook's text layer uses). When no
// stream decodes, it falls back to scanning the raw bytes directly —
// some generators leave content uncompressed.
func extractTextLayer(raw []byte) (string, error) {
	var out strings.Builder
	idx := 0
	found := false

	for {
		start := bytes.Index(raw[idx:], []byte("stream"))
		if start == -1 {
			break
		}
		start += idx

		contentStart := start + len("stream")
		for contentStart < len(raw) && (raw[contentStart] == '\r' || raw[contentStart] == '\n') {
			contentStart++
		}

		end := bytes.Index(raw[contentStart:], []byte("endstream"))
		if end == -1 {
			break
		}
		end += contentStart

		chunk := raw[contentStart:end]
		if text, ok := decodeFlateText(chunk); ok {
			out.WriteString(text)
			out.WriteByte('\n')
			found = true
		}

		idx = end + len("endstream")
	}

	if !found {
		return extractLiteralTokens(raw), nil
	}
	return out.String(), nil
}

func decodeFlateText(chunk []byte) (string, bool) {
	r, err := zlib.NewReader(bytes.NewReader(chunk))
	if err != nil {
		return "", false
	}
	defer r.Close()

	decoded, err := io.ReadAll(r)
	if len(decoded) == 0 {
		return "", false
	}
	_ = err // partial decode output is still useful
	return extractLiteralTokens(decoded), true
}

func extractLiteralTokens(content []byte) string {
	matches := streamLiteralPattern.FindAllSubmatch(content, -1)
	var b strings.Builder
	for _, m := range matches {
		b.WriteString(unescapePDFLiteral(m[1]))
		b.WriteByte(' ')
	}
	return b.String()
}

var pdfEscapeReplacer = strings.NewReplacer(
	`\(`, "(",
	`\)`, ")",
	`\\`, `\`,
	`\n`, "\n",
	`\r`, "\r",
	`\t`, "\t",
)

func unescapePDFLiteral(s []byte) string {
	return pdfEscapeReplacer.Replace(string(s))
}

// extractOCRStub is wired into the same extractor seam an OCR backend
// would occupy; it intentionally yields nothing today so the longest-
// result selection never prefers it over a real text layer.
func extractOCRStub(raw []byte) (string, error) {
	return "", nil
}
