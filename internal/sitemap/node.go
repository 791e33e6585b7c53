// Package sitemap parses HTML Help sitemap files (.hhc contents, .hhk
// index) into a navigation tree and provides the traversals the viewer
// needs: a flattened outline for display, a sorted keyword index, and a
// fallback start-page lookup.
package sitemap

import (
	"sort"
	"strings"
)

// UntitledLabel is used for entries that carry no Name param.
const UntitledLabel = "Untitled"

// breadcrumbSep joins ancestor titles for display.
const breadcrumbSep = " › "

// Node is one entry in a sitemap tree. Target is empty for pure grouping
// nodes; Children preserve input order, which is display order. Nodes are
// built in a single parse pass and not mutated afterwards.
type Node struct {
	Title    string
	Target   string
	Children []*Node
}

// Item is a presentation row derived from a Node: the flattened outline
// the front-ends render. Breadcrumb is the chain of ancestor titles
// including the item itself.
type Item struct {
	Title       string
	Target      string
	Breadcrumb  string
	Depth       int
	HasChildren bool
}

// IndexEntry is one keyword in the flattened index.
type IndexEntry struct {
	Label  string
	Target string
}

// Outline flattens the tree below n into pre-order presentation items.
// The receiver itself (normally the synthetic root) is not included.
func (n *Node) Outline() []Item {
	var items []Item
	var walk func(node *Node, depth int, trail []string)
	walk = func(node *Node, depth int, trail []string) {
		chain := append(trail, node.Title)
		items = append(items, Item{
			Title:       node.Title,
			Target:      node.Target,
			Breadcrumb:  strings.Join(chain, breadcrumbSep),
			Depth:       depth,
			HasChildren: len(node.Children) > 0,
		})
		for _, c := range node.Children {
			walk(c, depth+1, chain)
		}
	}
	trail := make([]string, 0, 8)
	for _, c := range n.Children {
		walk(c, 0, trail)
	}
	return items
}

// FirstTarget returns the first non-empty target in children order,
// depth-first, or "" if the tree has none. Used to pick a fallback start
// page when the documentation set has no index.html.
func (n *Node) FirstTarget() string {
	if n.Target != "" {
		return n.Target
	}
	for _, c := range n.Children {
		if t := c.FirstTarget(); t != "" {
			return t
		}
	}
	return ""
}

// BuildIndex flattens an index tree into (label, target) pairs sorted
// case-insensitively by label. Nodes without a target are traversed but
// contribute no entry of their own. The sort is stable, so duplicate
// labels keep their encounter order.
func BuildIndex(root *Node) []IndexEntry {
	var entries []IndexEntry
	var walk func(n *Node)
	walk = func(n *Node) {
		if n.Target != "" {
			entries = append(entries, IndexEntry{Label: n.Title, Target: n.Target})
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	for _, c := range root.Children {
		walk(c)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return strings.ToLower(entries[i].Label) < strings.ToLower(entries[j].Label)
	})
	return entries
}
