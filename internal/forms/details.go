package forms

import "strings"

const detailsHeader = "Order details:"

// OrderDetails serialises schema fields outside the reserved name set into a
// human readable block, one "Label: value" line per filled field.
func OrderDetails(fields []Field, values map[string]string) string {
	var lines []string
	for _, f := range fields {
		if IsReserved(f.Name) {
			continue
		}
		value := strings.TrimSpace(values[f.Name])
		if value == "" {
			continue
		}
		label := f.Label
		if label == "" {
			label = f.Name
		}
		lines = append(lines, label+": "+value)
	}
	if len(lines) == 0 {
		return ""
	}
	return detailsHeader + "\n" + strings.Join(lines, "\n")
}

// ComposeMessage appends the details block to the free-text message.
func ComposeMessage(message, details string) string {
	message = strings.TrimSpace(message)
	switch {
	case details == "":
		return message
	case message == "":
		return details
	default:
		return message + "\n\n" + details
	}
}
