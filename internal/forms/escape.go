package forms

import "strings"

var escaper = strings.NewReplacer(
	"&", "&amp;",
	`"`, "&quot;",
	"'", "&#x27;",
	"<", "&lt;",
	">", "&gt;",
	"/", "&#x2F;",
	`\`, "&#x5C;",
	"`", "&#96;",
)

// Escape replaces markup-significant characters with HTML entities. Stored
// catalog text is escaped once, on input, and rendered verbatim.
func Escape(s string) string {
	return escaper.Replace(s)
}
