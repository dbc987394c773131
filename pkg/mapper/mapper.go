// Package mapper converts delta reports into visualization patterns.
package mapper

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	kindSuccess = "success"
	kindError   = "error"
	kindWarning = "warning"
	kindInfo    = "info"
)

// title capitalizes each word of a section heading. Casers carry state, so
// each call gets its own.
func title(s string) string {
	return cases.Title(language.English).String(s)
}
