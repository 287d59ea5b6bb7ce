package main

import (
	"net/url"
	"strings"
)

// Field is a single form field.
type Field struct {
	Name  string
	Value string
}

// Form is an URL-encoded form body whose fields go on the wire in the order
// they were added, the way a browser submits an HTML form.
type Form []Field

// Add appends a field and returns the extended form.
func (f Form) Add(name, value string) Form {
	return append(f, Field{Name: name, Value: value})
}

// Encode renders the form as application/x-www-form-urlencoded without
// reordering the fields.
func (f Form) Encode() string {
	var b strings.Builder
	for i, field := range f {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(field.Name))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(field.Value))
	}
	return b.String()
}
