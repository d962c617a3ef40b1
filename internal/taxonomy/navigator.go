package taxonomy

import (
	"github.com/GiornoGiovanaJoJo/deiw2-sub000/internal/catalog"
	"github.com/GiornoGiovanaJoJo/deiw2-sub000/internal/modalconfig"
)

// Navigator classifies nodes and lists options. It is stateless apart from
// the interpreter it parses config blobs with.
type Navigator struct {
	interp *modalconfig.Interpreter
}

// NewNavigator builds a navigator. A nil interpreter parses without
// memoisation or logging.
func NewNavigator(interp *modalconfig.Interpreter) *Navigator {
	return &Navigator{interp: interp}
}

// Config parses the node's blob. Failures read as empty config.
func (n *Navigator) Config(node *catalog.Category) modalconfig.Config {
	if node == nil {
		return modalconfig.Config{}
	}
	if n == nil || n.interp == nil {
		return modalconfig.Parse([]byte(node.ModalConfig))
	}
	return n.interp.ParseNode(nodeKey(node), node.ModalConfig)
}

// Classify applies the fixed precedence: virtual nodes are always leaves;
// other nodes are branches when they have persisted or config children.
func (n *Navigator) Classify(opt Option) Kind {
	if opt.IsVirtual() {
		return Leaf
	}
	node := opt.Category
	if node.HasChildren() {
		return Branch
	}
	if n.Config(node).HasVirtualChildren() {
		return Branch
	}
	return Leaf
}

// Options lists the effective children of node. Config-declared children
// replace persisted ones entirely.
func (n *Navigator) Options(node *catalog.Category) []Option {
	if node == nil {
		return nil
	}
	if cfg := n.Config(node); cfg.HasVirtualChildren() {
		opts := make([]Option, 0, len(cfg.VirtualChildren))
		for _, child := range cfg.VirtualChildren {
			opts = append(opts, VirtualOption(child))
		}
		return opts
	}
	opts := make([]Option, 0, len(node.Children))
	for _, child := range node.Children {
		opts = append(opts, CatalogOption(child))
	}
	return opts
}

// CurrentOptions lists what the visitor can pick at the end of trail. The
// fallback menu is only offered at the root.
func (n *Navigator) CurrentOptions(trail Trail) []Option {
	node := trail.Current()
	if node == nil {
		return nil
	}
	opts := n.Options(node)
	if len(opts) == 0 && trail.Len() == 1 {
		return FallbackOptions(node)
	}
	return opts
}

// FallbackOptions is the synthesized menu for a root without content.
func FallbackOptions(root *catalog.Category) []Option {
	return []Option{
		VirtualOption(modalconfig.VirtualChild{Name: "Consultation: " + root.Name}),
		VirtualOption(modalconfig.VirtualChild{Name: "Cost estimate"}),
		VirtualOption(modalconfig.VirtualChild{Name: "On-site visit"}),
	}
}

// nodeKey identifies a node for memoisation. The blob bytes are part of
// the memo key too, so ephemeral nodes can share a name-based key.
func nodeKey(node *catalog.Category) string {
	if node.ID != "" {
		return "id:" + string(node.ID)
	}
	return "name:" + node.Name
}
