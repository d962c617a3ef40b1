// Package forms renders and validates the data-described booking form.
package forms

import "strings"

// Input types understood by the renderer. Unknown types render as text.
const (
	TypeText     = "text"
	TypeTextarea = "textarea"
	TypeSelect   = "select"
	TypeDate     = "date"
	TypeEmail    = "email"
	TypeTel      = "tel"
	TypeNumber   = "number"
)

// Reserved field names map onto the lead's sender/message columns and are
// never repeated in the order details block.
const (
	FieldName    = "name"
	FieldEmail   = "email"
	FieldPhone   = "phone"
	FieldMessage = "message"
)

var reserved = map[string]struct{}{
	FieldName:    {},
	FieldEmail:   {},
	FieldPhone:   {},
	FieldMessage: {},
}

// Field describes one input of the booking form.
type Field struct {
	Name        string   `json:"name"`
	Label       string   `json:"label"`
	Type        string   `json:"type"`
	Required    bool     `json:"required"`
	Placeholder string   `json:"placeholder,omitempty"`
	Options     []string `json:"options,omitempty"`
}

// IsReserved reports whether name is one of the sender/message keys.
func IsReserved(name string) bool {
	_, ok := reserved[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// DefaultFields is the form shown when a node carries no schema.
func DefaultFields() []Field {
	return []Field{
		{Name: FieldName, Label: "Full name", Type: TypeText, Required: true, Placeholder: "John Smith"},
		{Name: FieldPhone, Label: "Phone number", Type: TypeTel, Required: true, Placeholder: "+49 170 0000000"},
		{Name: FieldEmail, Label: "Email address", Type: TypeEmail, Placeholder: "john@example.com"},
		{Name: FieldMessage, Label: "Comment", Type: TypeTextarea, Placeholder: "Describe the job in more detail..."},
	}
}

// Effective returns schema when present, otherwise the default field set.
// A nil schema means "no schema"; an empty non-nil schema is honoured as is.
func Effective(schema []Field) []Field {
	if schema == nil {
		return DefaultFields()
	}
	return schema
}
