// Package templates renders dependency graphs of observables.
package templates

import (
	"fmt"
	"strings"

	"github.com/delaneyj/lazyquant/patterns"
)

type Node struct {
	ID         string
	Label      string
	Lazy       bool
	Calculated bool
	Frozen     bool
}

// Edge points from an observable to one of its observers.
type Edge struct {
	From, To string
}

type Graph struct {
	Name  string
	Nodes []Node
	Edges []Edge
}

type lazyState interface {
	IsCalculated() bool
	IsFrozen() bool
}

// CollectGraph walks from roots to everything observing them, breadth first
// and in registration order. Labels name observables; unnamed nodes are
// labelled by type.
func CollectGraph(name string, labels map[string]patterns.Source, roots ...patterns.Source) *Graph {
	c := &collector{
		graph:  &Graph{Name: name},
		labels: make(map[*patterns.Observable]string, len(labels)),
		ids:    map[any]string{},
	}
	for label, src := range labels {
		c.labels[src.AsObservable()] = label
	}

	queue := make([]patterns.Source, 0, len(roots))
	for _, root := range roots {
		if _, seen := c.visit(root); !seen {
			queue = append(queue, root)
		}
	}

	for len(queue) > 0 {
		src := queue[0]
		queue = queue[1:]
		from := c.ids[src.AsObservable()]

		for _, obs := range src.AsObservable().Observers() {
			to, seen := c.visit(obs)
			c.graph.Edges = append(c.graph.Edges, Edge{From: from, To: to})
			if next, ok := obs.(patterns.Source); ok && !seen {
				queue = append(queue, next)
			}
		}
	}
	return c.graph
}

type collector struct {
	graph  *Graph
	labels map[*patterns.Observable]string
	ids    map[any]string
}

// visit adds a node for v unless it was added before and returns its id.
func (c *collector) visit(v any) (string, bool) {
	k, label := v, ""
	src, isSource := v.(patterns.Source)
	if isSource {
		obs := src.AsObservable()
		k, label = obs, c.labels[obs]
	}
	if id, ok := c.ids[k]; ok {
		return id, true
	}

	id := fmt.Sprintf("n%d", len(c.graph.Nodes))
	if isSource {
		id = shortID(src.AsObservable().ID())
	}
	if label == "" {
		label = strings.TrimPrefix(fmt.Sprintf("%T", v), "*")
	}

	n := Node{ID: id, Label: label}
	if l, ok := v.(lazyState); ok {
		n.Lazy, n.Calculated, n.Frozen = true, l.IsCalculated(), l.IsFrozen()
	}
	c.ids[k] = id
	c.graph.Nodes = append(c.graph.Nodes, n)
	return id, false
}
