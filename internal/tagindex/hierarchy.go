package tagindex

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Node is one grouping in a tag hierarchy. A node is keyed by a single tag or,
// at the top of a filtered hierarchy, by the tuple of base tags. Inner nodes
// hold Children; leaves hold the Docs carrying every tag on their key path.
// The child keyed by the empty tag collects documents matching the base tags
// but none of the other tags.
type Node struct {
	Tags     []string `json:"tags"`
	Children []*Node  `json:"children,omitempty"`
	Docs     []string `json:"docs,omitempty"`
}

// Key joins the node's tags for display and sorting.
func (n *Node) Key() string {
	return strings.Join(n.Tags, " & ")
}

// IsLeaf reports whether the node holds documents rather than children.
func (n *Node) IsLeaf() bool {
	return n.Children == nil
}

// HasTag reports whether tag is part of the node's key.
func (n *Node) HasTag(tag string) bool {
	for _, t := range n.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Walk traverses the subtree in depth-first order, calling fn for each node.
func (n *Node) Walk(fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// Items returns the distinct documents anywhere below n, sorted.
func (n *Node) Items() []string {
	set := make(map[string]bool)
	n.Walk(func(node *Node) {
		for _, d := range node.Docs {
			set[d] = true
		}
	})
	items := make([]string, 0, len(set))
	for d := range set {
		items = append(items, d)
	}
	sort.Strings(items)
	return items
}

// String returns a JSON representation of the node for debugging.
func (n *Node) String() string {
	b, _ := json.MarshalIndent(n, "", "  ")
	return string(b)
}

// MakeHierarchy adds one level of hierarchy to the index.
//
// Without base tags the index is returned as is: one leaf per tag. Otherwise
// the documents carrying every base tag are subdivided by each remaining tag,
// keeping only non-empty groups, and whatever no group covers is kept under
// the empty tag. The result is a single node keyed by base.
func MakeHierarchy(idx *Index, base ...string) ([]*Node, error) {
	if len(base) == 0 {
		nodes := make([]*Node, 0, idx.Len())
		for _, tag := range idx.order {
			nodes = append(nodes, &Node{Tags: []string{tag}, Docs: idx.MustGet(tag)})
		}
		return nodes, nil
	}

	isBase := make(map[string]bool, len(base))
	for _, tag := range base {
		if !idx.Has(tag) {
			return nil, fmt.Errorf("building hierarchy for %q: %w: %q", base, ErrUnknownTag, tag)
		}
		isBase[tag] = true
	}

	// Items having all given base tags, in the order of the first base tag.
	baseItems := idx.MustGet(base[0])
	for _, tag := range base[1:] {
		baseItems = intersect(baseItems, idx.seen[tag])
	}
	inBase := make(map[string]bool, len(baseItems))
	for _, d := range baseItems {
		inBase[d] = true
	}

	children := make([]*Node, 0)
	covered := make(map[string]bool)
	for _, tag := range idx.order {
		if isBase[tag] {
			continue
		}
		docs := intersect(idx.docs[tag], inBase)
		if len(docs) == 0 {
			continue
		}
		for _, d := range docs {
			covered[d] = true
		}
		children = append(children, &Node{Tags: []string{tag}, Docs: docs})
	}

	var remaining []string
	for _, d := range baseItems {
		if !covered[d] {
			remaining = append(remaining, d)
		}
	}
	if len(remaining) > 0 {
		children = append(children, &Node{Tags: []string{""}, Docs: remaining})
	}

	key := make([]string, len(base))
	copy(key, base)
	return []*Node{{Tags: key, Children: children}}, nil
}

// Empty reports whether no node of the hierarchy carries a document.
func Empty(nodes []*Node) bool {
	for _, n := range nodes {
		if len(n.Items()) > 0 {
			return false
		}
	}
	return true
}

// intersect keeps the members of docs found in set, preserving order.
func intersect(docs []string, set map[string]bool) []string {
	var out []string
	for _, d := range docs {
		if set[d] {
			out = append(out, d)
		}
	}
	return out
}
