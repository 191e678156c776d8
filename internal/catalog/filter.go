package catalog

import (
	"strings"
	"unicode"

	"github.com/woozymasta/wpmap/internal/waypoint"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fold returns s case-folded with combining marks removed, so "Ålesund"
// and "alesund" compare equal.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return cases.Fold().String(stripped)
}

type matcher struct {
	needle string
	fields []string
}

func newMatcher(filter string, fields []string) matcher {
	return matcher{needle: fold(strings.TrimSpace(filter)), fields: fields}
}

// match reports whether w passes. An empty filter passes everything.
func (m matcher) match(w *waypoint.Waypoint) bool {
	if m.needle == "" {
		return true
	}
	if strings.Contains(fold(w.DisplayName), m.needle) {
		return true
	}
	for _, f := range m.fields {
		if v, ok := w.Properties.Text(f); ok && strings.Contains(fold(v), m.needle) {
			return true
		}
	}
	return false
}

// Match reports whether w passes filter, using the same rules as RefreshAll.
func Match(w *waypoint.Waypoint, filter string, fields ...string) bool {
	return newMatcher(filter, fields).match(w)
}
