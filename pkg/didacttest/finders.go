package didacttest

import (
	"strings"

	"github.com/go-didact/didact/pkg/memdom"
)

// FindByTag returns the first node with the given tag in depth-first
// order, or nil.
func (ts *Tester) FindByTag(tag string) *memdom.Node {
	return findFirst(ts.container, func(n *memdom.Node) bool {
		return !n.IsText() && n.Tag() == tag
	})
}

// FindAllByTag returns every node with the given tag in depth-first
// order.
func (ts *Tester) FindAllByTag(tag string) []*memdom.Node {
	var out []*memdom.Node
	walk(ts.container, func(n *memdom.Node) bool {
		if !n.IsText() && n.Tag() == tag {
			out = append(out, n)
		}
		return true
	})
	return out
}

// FindText returns the deepest element whose text content contains
// substr, or nil. Text nodes themselves are skipped; the element holding
// the text is returned.
func (ts *Tester) FindText(substr string) *memdom.Node {
	var deepest *memdom.Node
	deepestDepth := -1
	var rec func(n *memdom.Node, depth int)
	rec = func(n *memdom.Node, depth int) {
		if n != ts.container && !n.IsText() && strings.Contains(n.TextContent(), substr) {
			if depth > deepestDepth {
				deepest, deepestDepth = n, depth
			}
		}
		for _, child := range n.Children() {
			rec(child, depth+1)
		}
	}
	rec(ts.container, 0)
	return deepest
}

func findFirst(root *memdom.Node, match func(*memdom.Node) bool) *memdom.Node {
	var found *memdom.Node
	walk(root, func(n *memdom.Node) bool {
		if n != root && match(n) {
			found = n
			return false
		}
		return true
	})
	return found
}

// walk visits root and its descendants depth-first until visit returns
// false.
func walk(root *memdom.Node, visit func(*memdom.Node) bool) bool {
	if !visit(root) {
		return false
	}
	for _, child := range root.Children() {
		if !walk(child, visit) {
			return false
		}
	}
	return true
}
