// Package taxonomy navigates the mixed catalog/config service tree and
// decides which nodes are bookable leaves.
package taxonomy

import (
	"github.com/GiornoGiovanaJoJo/deiw2-sub000/internal/catalog"
	"github.com/GiornoGiovanaJoJo/deiw2-sub000/internal/modalconfig"
)

// Source tags the two node variants.
type Source string

const (
	SourceCatalog Source = "catalog"
	SourceVirtual Source = "virtual"
)

// Kind is the outcome of classification.
type Kind string

const (
	Leaf   Kind = "leaf"
	Branch Kind = "branch"
)

// Option is a navigable node: exactly one of Category or Virtual is set,
// matching Source.
type Option struct {
	Source   Source                    `json:"source"`
	Category *catalog.Category         `json:"category,omitempty"`
	Virtual  *modalconfig.VirtualChild `json:"virtual,omitempty"`
}

// CatalogOption wraps a persisted node.
func CatalogOption(c *catalog.Category) Option {
	return Option{Source: SourceCatalog, Category: c}
}

// VirtualOption wraps a config-declared node.
func VirtualOption(v modalconfig.VirtualChild) Option {
	return Option{Source: SourceVirtual, Virtual: &v}
}

// IsVirtual reports whether the option came from configuration.
func (o Option) IsVirtual() bool {
	return o.Source == SourceVirtual
}

// Name is the display label.
func (o Option) Name() string {
	switch {
	case o.IsVirtual() && o.Virtual != nil:
		return o.Virtual.Name
	case o.Category != nil:
		return o.Category.Name
	}
	return ""
}

// ID is the node identifier, empty for ephemeral nodes.
func (o Option) ID() string {
	switch {
	case o.IsVirtual() && o.Virtual != nil:
		return o.Virtual.ID
	case o.Category != nil:
		return string(o.Category.ID)
	}
	return ""
}

// Ref is the service reference sent with a booking: id when present,
// name otherwise.
func (o Option) Ref() string {
	if id := o.ID(); id != "" {
		return id
	}
	return o.Name()
}
