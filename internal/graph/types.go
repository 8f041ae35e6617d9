// Package graph orders the dump entities by the foreign keys between their
// destination tables.
package graph

import "github.com/dbsmedya/dumpmigrate/internal/dump"

// Edge represents a dependency between two entities.
type Edge struct {
	From dump.Entity // parent, referenced by the child
	To   dump.Entity // child, holding the foreign key
}

// Graph represents the dependency structure of a set of entities.
type Graph struct {
	Nodes        map[dump.Entity]bool
	Children     map[dump.Entity][]dump.Entity // entity -> entities referencing it
	Parents      map[dump.Entity][]dump.Entity // entity -> entities it references
	edgeMetadata map[Edge]string               // edge -> FK column in the child table
}

// NewGraph creates a new empty graph.
func NewGraph() *Graph {
	return &Graph{
		Nodes:        make(map[dump.Entity]bool),
		Children:     make(map[dump.Entity][]dump.Entity),
		Parents:      make(map[dump.Entity][]dump.Entity),
		edgeMetadata: make(map[Edge]string),
	}
}

// AddNode adds an entity to the graph.
func (g *Graph) AddNode(e dump.Entity) {
	g.Nodes[e] = true
}

// AddEdge adds a parent -> child relationship, adding both nodes when
// missing. foreignKey names the child column referencing the parent.
func (g *Graph) AddEdge(parent, child dump.Entity, foreignKey string) {
	g.AddNode(parent)
	g.AddNode(child)

	g.Children[parent] = append(g.Children[parent], child)
	g.Parents[child] = append(g.Parents[child], parent)
	g.edgeMetadata[Edge{From: parent, To: child}] = foreignKey
}

// GetChildren returns the entities that reference parent.
func (g *Graph) GetChildren(parent dump.Entity) []dump.Entity {
	return g.Children[parent]
}

// GetParents returns the entities child references, in entity order.
func (g *Graph) GetParents(child dump.Entity) []dump.Entity {
	parents := append([]dump.Entity(nil), g.Parents[child]...)
	sortByRank(parents)
	return parents
}

// ForeignKey returns the FK column of the edge, or "" if there is none.
func (g *Graph) ForeignKey(parent, child dump.Entity) string {
	return g.edgeMetadata[Edge{From: parent, To: child}]
}

// HasNode reports whether the graph contains e.
func (g *Graph) HasNode(e dump.Entity) bool {
	return g.Nodes[e]
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int {
	return len(g.Nodes)
}

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int {
	count := 0
	for _, children := range g.Children {
		count += len(children)
	}
	return count
}
