package forms

import "strings"

// Choice is one entry of a select input.
type Choice struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Disabled bool   `json:"disabled,omitempty"`
}

// Input is a field ready to be drawn by the host page.
type Input struct {
	Name        string   `json:"name"`
	Label       string   `json:"label"`
	Type        string   `json:"type"`
	Required    bool     `json:"required"`
	Placeholder string   `json:"placeholder,omitempty"`
	Value       string   `json:"value"`
	Choices     []Choice `json:"choices,omitempty"`
	Error       string   `json:"error,omitempty"`
}

// Render produces one input per field in schema order. errs, when non-nil,
// attaches per-field messages from a previous validation.
func Render(fields []Field, values map[string]string, errs map[string]string) []Input {
	inputs := make([]Input, 0, len(fields))
	for _, f := range fields {
		in := Input{
			Name:        f.Name,
			Label:       f.Label,
			Type:        normalizeType(f.Type),
			Required:    f.Required,
			Placeholder: f.Placeholder,
			Value:       values[f.Name],
			Error:       errs[f.Name],
		}
		if in.Type == TypeSelect {
			placeholder := f.Placeholder
			if placeholder == "" {
				placeholder = "Select..."
			}
			in.Choices = make([]Choice, 0, len(f.Options)+1)
			in.Choices = append(in.Choices, Choice{Value: "", Label: placeholder, Disabled: true})
			for _, opt := range f.Options {
				in.Choices = append(in.Choices, Choice{Value: opt, Label: opt})
			}
		}
		inputs = append(inputs, in)
	}
	return inputs
}

func normalizeType(t string) string {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case TypeTextarea:
		return TypeTextarea
	case TypeSelect:
		return TypeSelect
	case TypeDate:
		return TypeDate
	case TypeEmail:
		return TypeEmail
	case TypeTel, "phone":
		return TypeTel
	case TypeNumber:
		return TypeNumber
	default:
		return TypeText
	}
}
