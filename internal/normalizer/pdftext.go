package normalizer

import (
	"bytes"
	"io"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// extractPDFText pulls the text layer out of a PDF. When the document has no
// extractable text layer it falls back to scanning for printable runes;
// callers treat an empty result as "try OCR".
func extractPDFText(data []byte) string {
	if len(data) == 0 {
		return ""
	}

	if r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data))); err == nil {
		if reader, textErr := r.GetPlainText(); textErr == nil {
			if out, readErr := io.ReadAll(reader); readErr == nil && len(out) > 0 {
				return string(out)
			}
		}
	}

	return string(extractPrintableText(data))
}

// extractPrintableText keeps printable runes and common whitespace from raw
// bytes, dropping everything else.
func extractPrintableText(in []byte) []byte {
	var out bytes.Buffer

	for len(in) > 0 {
		r, size := utf8.DecodeRune(in)
		if r == utf8.RuneError && size == 1 {
			if b := in[0]; isPrintableASCII(b) {
				out.WriteByte(b)
			}
			in = in[1:]
			continue
		}

		in = in[size:]
		if isPrintableRune(r) {
			out.WriteRune(r)
		}
	}

	return out.Bytes()
}

func isPrintableASCII(b byte) bool {
	return b == '\n' || b == '\r' || b == '\t' || (b >= 32 && b < 127)
}

func isPrintableRune(r rune) bool {
	if r == '\n' || r == '\r' || r == '\t' {
		return true
	}

	return r >= 32
}
