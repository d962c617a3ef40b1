// Package catalog provides the service taxonomy consumed by the booking
// wizard: the category model and the sources it is read from.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"
	"strings"
)

// ID is a category identifier. The portal API emits integers while seed
// files and virtual entries use strings, so both decode into ID.
type ID string

// UnmarshalJSON accepts a JSON string, number or null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	if i, err := n.Int64(); err == nil {
		*id = ID(strconv.FormatInt(i, 10))
		return nil
	}
	*id = ID(n.String())
	return nil
}

// Category is one node of the service taxonomy.
type Category struct {
	ID          ID              `json:"id,omitempty"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Children    []*Category     `json:"children,omitempty"`
	ModalConfig json.RawMessage `json:"modal_config,omitempty"`
}

// QuoteInvalidConfigs rewrites every ModalConfig blob in the forest that is
// not valid JSON into a JSON string literal holding the original bytes, so
// trees carrying them can still be encoded. Readers treat the literal as a
// malformed config.
func QuoteInvalidConfigs(roots []*Category) {
	for _, root := range roots {
		root.quoteInvalidConfig()
	}
}

func (c *Category) quoteInvalidConfig() {
	if c == nil {
		return
	}
	if len(c.ModalConfig) > 0 && !json.Valid(c.ModalConfig) {
		quoted, _ := json.Marshal(string(c.ModalConfig))
		c.ModalConfig = quoted
	}
	for _, child := range c.Children {
		child.quoteInvalidConfig()
	}
}

// HasChildren reports whether the node has persisted children.
func (c *Category) HasChildren() bool {
	return c != nil && len(c.Children) > 0
}

// Find returns the node with the given id in the subtree rooted at c.
func (c *Category) Find(id ID) *Category {
	if c == nil {
		return nil
	}
	if c.ID == id {
		return c
	}
	for _, child := range c.Children {
		if found := child.Find(id); found != nil {
			return found
		}
	}
	return nil
}

// FindIn searches a forest of roots.
func FindIn(roots []*Category, id ID) *Category {
	for _, root := range roots {
		if found := root.Find(id); found != nil {
			return found
		}
	}
	return nil
}

// Source supplies the root of a category subtree. Implementations are
// read-only.
type Source interface {
	Tree(ctx context.Context, id ID) (*Category, error)
}
