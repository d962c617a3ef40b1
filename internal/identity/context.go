// Package identity carries the signed-in visitor's contact details, used to
// pre-fill the booking form.
package identity

import (
	"context"
	"strings"
)

type ctxKey string

const identityKey ctxKey = "deiw2.identity"

// Identity is what the portal knows about the caller.
type Identity struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// IsZero reports whether no field is set.
func (i Identity) IsZero() bool {
	return strings.TrimSpace(i.Name) == "" && strings.TrimSpace(i.Email) == "" && strings.TrimSpace(i.Phone) == ""
}

// WithIdentity stores the identity in context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// FromContext extracts the identity if present.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok && !id.IsZero()
}
