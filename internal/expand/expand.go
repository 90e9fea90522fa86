// Package expand performs placeholder substitution for template bodies,
// destination path patterns, and mutation fragments. Placeholders look like
// {{UNIT_NAME}}. Expansion is a single left-to-right pass: bound values are
// inserted verbatim and never re-scanned, and placeholders with no binding
// pass through unchanged so that partially-bound templates survive a first
// pass intact.
package expand

import "strings"

// Bindings maps placeholder names to their replacement values. Names are
// case-sensitive.
type Bindings map[string]string

const (
	openDelim  = "{{"
	closeDelim = "}}"
)

// nameByte reports whether c may appear in a placeholder name.
func nameByte(c byte) bool {
	return c >= 'a' && c <= 'z' ||
		c >= 'A' && c <= 'Z' ||
		c >= '0' && c <= '9' ||
		c == '_'
}

// placeholderAt parses a placeholder starting at text[i] (which must begin
// with the open delimiter). It returns the name and total token length, or
// ok=false if the bytes at i do not form a well-delimited placeholder.
func placeholderAt(text string, i int) (name string, length int, ok bool) {
	j := i + len(openDelim)
	start := j
	for j < len(text) && nameByte(text[j]) {
		j++
	}
	if j == start || !strings.HasPrefix(text[j:], closeDelim) {
		return "", 0, false
	}
	return text[start:j], j + len(closeDelim) - i, true
}

// Expand replaces every placeholder in text whose name is present in b with
// its bound value. Unknown placeholders and malformed delimiter sequences
// are emitted unchanged. Expand never fails, for any input.
func Expand(text string, b Bindings) string {
	if !strings.Contains(text, openDelim) {
		return text
	}

	var sb strings.Builder
	sb.Grow(len(text))

	for {
		next := strings.Index(text, openDelim)
		if next < 0 {
			break
		}
		sb.WriteString(text[:next])
		text = text[next:]

		name, length, ok := placeholderAt(text, 0)
		if !ok {
			// Not a placeholder; emit the delimiter literally and move on
			// so a later "{{" still gets considered.
			sb.WriteString(openDelim)
			text = text[len(openDelim):]
			continue
		}

		if val, bound := b[name]; bound {
			sb.WriteString(val)
		} else {
			sb.WriteString(text[:length])
		}
		text = text[length:]
	}

	sb.WriteString(text)
	return sb.String()
}

// Has reports whether text contains at least one well-formed placeholder,
// bound or not.
func Has(text string) bool {
	for i := 0; ; {
		j := strings.Index(text[i:], openDelim)
		if j < 0 {
			return false
		}
		i += j
		if _, _, ok := placeholderAt(text, i); ok {
			return true
		}
		i += len(openDelim)
	}
}
