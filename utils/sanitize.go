package utils

import (
	"html"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

var strictHTMLPolicy = bluemonday.StrictPolicy()

// SanitizeDisplayName removes markup and control characters from a caller
// supplied document name before it is echoed back or printed into a report.
func SanitizeDisplayName(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, s)
	return strings.TrimSpace(html.UnescapeString(strictHTMLPolicy.Sanitize(s)))
}

// SanitizeForFormulaInjection prefixes values that spreadsheets would evaluate
func SanitizeForFormulaInjection(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return s
	}
	switch trimmed[0] {
	case '=', '+', '-', '@':
		return "'" + s
	}
	return s
}

// ExportBaseName turns "report.pdf" into "report_ranked"
func ExportBaseName(displayName string) string {
	base := displayName
	if idx := strings.LastIndex(strings.ToLower(base), ".pdf"); idx >= 0 && idx == len(base)-4 {
		base = base[:idx]
	}
	base = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, base)
	if strings.TrimSpace(base) == "" {
		base = "report"
	}
	return base + "_ranked"
}
