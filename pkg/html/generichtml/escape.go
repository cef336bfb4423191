package generichtml

import (
	"html"
	"strings"
)

var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"\n", "<br>",
)

// EscapeText makes message text safe to place between tags. Only ampersands, angle brackets and line
// breaks are rewritten; quotes are left alone because text never lands inside an attribute.
func EscapeText(text string) string {
	return textEscaper.Replace(text)
}

// EscapeAttribute makes a value safe to place inside a double quoted attribute.
func EscapeAttribute(value string) string {
	return html.EscapeString(value)
}
