// Package schema declares the entity kinds of the store and the foreign-key
// edges between them. Insert and delete orders for bulk restore are derived
// from these edges instead of being maintained by hand.
package schema

import (
	"fmt"
	"slices"
)

// Kind names an entity collection. The value doubles as the JSON key of the
// collection inside a snapshot.
type Kind string

const (
	Branches          Kind = "branches"
	Countries         Kind = "countries"
	ShipmentStatuses  Kind = "shipmentStatuses"
	Users             Kind = "users"
	Shipments         Kind = "shipments"
	ShipmentHistories Kind = "shipmentHistories"
	TrackingEvents    Kind = "trackingEvents"
	Invoices          Kind = "invoices"
	Waybills          Kind = "waybills"
	LogEntries        Kind = "logEntries"
)

// ForeignKey is one child column pointing at a parent kind.
type ForeignKey struct {
	Column   string
	Parent   Kind
	Nullable bool
}

// Entity describes a kind: its table and outgoing foreign keys.
type Entity struct {
	Kind        Kind
	Table       string
	ForeignKeys []ForeignKey
}

// DependsOn returns the distinct parent kinds of e in declaration order.
func (e Entity) DependsOn() []Kind {
	var out []Kind
	for _, fk := range e.ForeignKeys {
		if !slices.Contains(out, fk.Parent) {
			out = append(out, fk.Parent)
		}
	}
	return out
}

// Graph is an ordered set of entities. Declaration order breaks ties in the
// derived orders, which keeps them stable across runs.
type Graph struct {
	entities []Entity
	byKind   map[Kind]int
}

// NewGraph validates the declarations and returns a Graph. Every parent must
// be declared and the edges must be acyclic.
func NewGraph(entities []Entity) (*Graph, error) {
	g := &Graph{entities: entities, byKind: make(map[Kind]int, len(entities))}
	for i, e := range entities {
		if _, dup := g.byKind[e.Kind]; dup {
			return nil, fmt.Errorf("kind %q declared twice", e.Kind)
		}
		g.byKind[e.Kind] = i
	}
	for _, e := range entities {
		for _, fk := range e.ForeignKeys {
			if _, ok := g.byKind[fk.Parent]; !ok {
				return nil, fmt.Errorf("%s.%s references undeclared kind %q", e.Kind, fk.Column, fk.Parent)
			}
		}
	}
	if _, err := g.topological(); err != nil {
		return nil, err
	}
	return g, nil
}

// MustGraph is NewGraph that panics on invalid declarations.
func MustGraph(entities []Entity) *Graph {
	g, err := NewGraph(entities)
	if err != nil {
		panic(err)
	}
	return g
}

// Entity returns the declaration of k.
func (g *Graph) Entity(k Kind) (Entity, bool) {
	i, ok := g.byKind[k]
	if !ok {
		return Entity{}, false
	}
	return g.entities[i], true
}

// Kinds returns all kinds in declaration order.
func (g *Graph) Kinds() []Kind {
	out := make([]Kind, len(g.entities))
	for i, e := range g.entities {
		out[i] = e.Kind
	}
	return out
}

// InsertOrder lists kinds so that every parent precedes its children.
func (g *Graph) InsertOrder() []Kind {
	order, _ := g.topological()
	return order
}

// DeleteOrder is the reverse of InsertOrder: children before parents.
func (g *Graph) DeleteOrder() []Kind {
	order := g.InsertOrder()
	slices.Reverse(order)
	return order
}

// topological runs Kahn's algorithm, always picking the earliest declared
// ready kind. Self references are ignored.
func (g *Graph) topological() ([]Kind, error) {
	n := len(g.entities)
	indegree := make([]int, n)
	children := make([][]int, n)

	for i, e := range g.entities {
		for _, p := range e.DependsOn() {
			pi := g.byKind[p]
			if pi == i {
				continue
			}
			indegree[i]++
			children[pi] = append(children[pi], i)
		}
	}

	done := make([]bool, n)
	order := make([]Kind, 0, n)
	for len(order) < n {
		next := -1
		for i := 0; i < n; i++ {
			if !done[i] && indegree[i] == 0 {
				next = i
				break
			}
		}
		if next < 0 {
			return nil, fmt.Errorf("foreign key cycle among kinds")
		}
		done[next] = true
		order = append(order, g.entities[next].Kind)
		for _, c := range children[next] {
			indegree[c]--
		}
	}
	return order, nil
}
