package taxonomy

import (
	"errors"
	"strings"

	"github.com/GiornoGiovanaJoJo/deiw2-sub000/internal/catalog"
)

var (
	// ErrOptionOutOfRange is returned when a picked index is not listed
	ErrOptionOutOfRange = errors.New("option index out of range")

	// ErrBreadcrumbOutOfRange is returned for an unknown breadcrumb index
	ErrBreadcrumbOutOfRange = errors.New("breadcrumb index out of range")
)

// PathSeparator joins breadcrumb names in the lead's category field.
const PathSeparator = " / "

// Trail is the breadcrumb stack from the root to the current node.
type Trail []*catalog.Category

// NewTrail starts a trail at root.
func NewTrail(root *catalog.Category) Trail {
	return Trail{root}
}

// Len is the trail depth.
func (t Trail) Len() int { return len(t) }

// Root is the node the wizard was opened with.
func (t Trail) Root() *catalog.Category {
	if len(t) == 0 {
		return nil
	}
	return t[0]
}

// Current is the node whose options are on screen.
func (t Trail) Current() *catalog.Category {
	if len(t) == 0 {
		return nil
	}
	return t[len(t)-1]
}

// Names lists the display names from the root down.
func (t Trail) Names() []string {
	names := make([]string, 0, len(t))
	for _, node := range t {
		names = append(names, node.Name)
	}
	return names
}

// Path joins the names with PathSeparator.
func (t Trail) Path() string {
	return strings.Join(t.Names(), PathSeparator)
}

// Push returns the trail extended by node.
func (t Trail) Push(node *catalog.Category) Trail {
	out := make(Trail, len(t), len(t)+1)
	copy(out, t)
	return append(out, node)
}

// Truncate keeps entries [0, index].
func (t Trail) Truncate(index int) (Trail, error) {
	if index < 0 || index >= len(t) {
		return t, ErrBreadcrumbOutOfRange
	}
	return t[:index+1], nil
}

// Back pops one level. At the root it leaves the trail untouched and
// reports close=true.
func (t Trail) Back() (next Trail, close bool) {
	if len(t) <= 1 {
		return t, true
	}
	return t[:len(t)-1], false
}

// Step is the outcome of Select.
type Step struct {
	Trail Trail
	// Leaf is set when the pick terminated navigation.
	Leaf *Option
}

// Select applies a pick from CurrentOptions(trail): leaves become the
// booking target, branches are pushed.
func (n *Navigator) Select(trail Trail, index int) (Step, error) {
	opts := n.CurrentOptions(trail)
	if index < 0 || index >= len(opts) {
		return Step{Trail: trail}, ErrOptionOutOfRange
	}
	opt := opts[index]
	if n.Classify(opt) == Leaf {
		return Step{Trail: trail, Leaf: &opt}, nil
	}
	return Step{Trail: trail.Push(opt.Category)}, nil
}

// Indices encodes the trail as child positions from the root, the form in
// which sessions persist it.
func (t Trail) Indices() []int {
	idx := make([]int, 0, len(t))
	for i := 1; i < len(t); i++ {
		parent, child := t[i-1], t[i]
		for pos, c := range parent.Children {
			if c == child {
				idx = append(idx, pos)
				break
			}
		}
	}
	return idx
}

// Resolve rebuilds a trail from root and child positions. Positions that no
// longer exist end the walk.
func Resolve(root *catalog.Category, indices []int) Trail {
	if root == nil {
		return nil
	}
	trail := NewTrail(root)
	node := root
	for _, pos := range indices {
		if pos < 0 || pos >= len(node.Children) {
			break
		}
		node = node.Children[pos]
		trail = append(trail, node)
	}
	return trail
}
