package service

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var (
	sqlKeywords = regexp.MustCompile(`(?i)\b(drop|table|insert|update|delete|union|select|where|or|and|exec|execute|into|values|payment)\b`)
	whitespace  = regexp.MustCompile(`\s+`)
)

// Sanitize scrubs free-text input before it is stored or echoed back: NFC
// normalization, removal of surrogate code points and invalid UTF-8 bytes,
// removal of quote/separator characters, SQL comment markers and a fixed
// keyword denylist, then whitespace collapsing. The result is always valid
// UTF-8 and sanitizing it again is a no-op.
//
// This is best-effort text scrubbing, not a substitute for parameterized
// persistence; the repository still binds every value.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}

	normalized := norm.NFC.String(s)

	var b strings.Builder
	b.Grow(len(normalized))
	for i, r := range normalized {
		if r >= 0xD800 && r <= 0xDFFF {
			continue
		}
		if r == utf8.RuneError {
			// Size 1 means a malformed byte, not a literal U+FFFD.
			if _, size := utf8.DecodeRuneInString(normalized[i:]); size <= 1 {
				continue
			}
		}
		switch r {
		case '\'', ';', '(', ')':
			continue
		}
		b.WriteRune(r)
	}

	stripped := strings.ReplaceAll(b.String(), "--", "")
	stripped = strings.ReplaceAll(stripped, "/*", "")
	stripped = strings.ReplaceAll(stripped, "*/", "")

	withoutKeywords := sqlKeywords.ReplaceAllString(stripped, "")

	return strings.TrimSpace(whitespace.ReplaceAllString(withoutKeywords, " "))
}
