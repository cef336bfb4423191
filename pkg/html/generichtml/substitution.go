package generichtml

import (
	"bytes"
	"text/template"
)

// Substitute executes tmpl against data and returns the output.
func Substitute(tmpl *template.Template, data interface{}) (string, error) {
	buf := &bytes.Buffer{}
	if err := tmpl.Execute(buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// MustSubstitute is Substitute for fixed templates fed with plain strings, where execution can only fail
// on a programming error.
func MustSubstitute(tmpl *template.Template, data interface{}) string {
	out, err := Substitute(tmpl, data)
	if err != nil {
		panic(err)
	}
	return out
}
