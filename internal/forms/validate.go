package forms

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError lists the fields that block submission.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("forms: invalid fields: %s", strings.Join(names, ", "))
}

// Validate checks required fields and select membership. It returns nil
// when the form may be submitted.
func Validate(fields []Field, values map[string]string) error {
	errs := map[string]string{}
	for _, f := range fields {
		value := strings.TrimSpace(values[f.Name])
		if value == "" {
			if f.Required {
				errs[f.Name] = "required"
			}
			continue
		}
		if normalizeType(f.Type) == TypeSelect && len(f.Options) > 0 && !contains(f.Options, value) {
			errs[f.Name] = "not one of the offered options"
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Fields: errs}
}

// CanSubmit is Validate reduced to a flag.
func CanSubmit(fields []Field, values map[string]string) bool {
	return Validate(fields, values) == nil
}

func contains(options []string, value string) bool {
	for _, opt := range options {
		if opt == value {
			return true
		}
	}
	return false
}
