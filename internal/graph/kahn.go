package graph

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dbsmedya/dumpmigrate/internal/dump"
)

// ErrCycleDetected is returned when the dependency graph contains a cycle,
// making topological sorting impossible.
var ErrCycleDetected = errors.New("cycle detected in dependency graph")

// CycleError lists the entities Kahn's algorithm could not place.
type CycleError struct {
	Unprocessed []dump.Entity
}

func (e *CycleError) Error() string {
	names := make([]string, len(e.Unprocessed))
	for i, u := range e.Unprocessed {
		names[i] = string(u)
	}
	return fmt.Sprintf("%s: %s", ErrCycleDetected, strings.Join(names, ", "))
}

// Unwrap lets errors.Is match ErrCycleDetected.
func (e *CycleError) Unwrap() error {
	return ErrCycleDetected
}

// rank orders entities by their position in dump.Entities; unknown ones
// sort last, by name.
func rank(e dump.Entity) int {
	for i, known := range dump.Entities {
		if known == e {
			return i
		}
	}
	return len(dump.Entities)
}

func sortByRank(list []dump.Entity) {
	sort.SliceStable(list, func(i, j int) bool {
		ri, rj := rank(list[i]), rank(list[j])
		if ri != rj {
			return ri < rj
		}
		return list[i] < list[j]
	})
}

// CalculateInDegrees computes the number of parents of every node.
func (g *Graph) CalculateInDegrees() map[dump.Entity]int {
	inDegree := make(map[dump.Entity]int, len(g.Nodes))
	for e := range g.Nodes {
		inDegree[e] = 0
	}
	for _, children := range g.Children {
		for _, child := range children {
			inDegree[child]++
		}
	}
	return inDegree
}

// TopologicalSort returns the entities parents first using Kahn's
// algorithm. Among entities that are ready at the same time the one listed
// first in dump.Entities wins, so the order is stable.
func (g *Graph) TopologicalSort() ([]dump.Entity, error) {
	inDegree := g.CalculateInDegrees()

	var ready []dump.Entity
	for e, degree := range inDegree {
		if degree == 0 {
			ready = append(ready, e)
		}
	}

	result := make([]dump.Entity, 0, len(g.Nodes))
	for len(ready) > 0 {
		sortByRank(ready)
		node := ready[0]
		ready = ready[1:]
		result = append(result, node)

		for _, child := range g.GetChildren(node) {
			inDegree[child]--
			if inDegree[child] == 0 {
				ready = append(ready, child)
			}
		}
	}

	if len(result) != len(g.Nodes) {
		var unprocessed []dump.Entity
		for e, degree := range inDegree {
			if degree > 0 {
				unprocessed = append(unprocessed, e)
			}
		}
		sortByRank(unprocessed)
		return nil, &CycleError{Unprocessed: unprocessed}
	}

	return result, nil
}

// InsertOrder returns the order in which tables are filled: parents first.
func (g *Graph) InsertOrder() ([]dump.Entity, error) {
	return g.TopologicalSort()
}

// DeleteOrder returns the order in which tables are cleared: children
// first. This is the reverse of the insert order.
func (g *Graph) DeleteOrder() ([]dump.Entity, error) {
	insertOrder, err := g.TopologicalSort()
	if err != nil {
		return nil, err
	}

	deleteOrder := make([]dump.Entity, len(insertOrder))
	for i, e := range insertOrder {
		deleteOrder[len(insertOrder)-1-i] = e
	}
	return deleteOrder, nil
}

// Validate checks the graph for cycles.
func (g *Graph) Validate() error {
	_, err := g.TopologicalSort()
	return err
}
