// Package graph defines the ownership-graph contract consumed by risk
// propagation and entity resolution.  The store is external: nodes are keyed
// by entity name, edges are typed and carry an extraction confidence.
package graph

import "context"

// Direction selects which end of an edge the queried entity occupies.
type Direction string

const (
	// DirectionOut follows edges leaving the entity (entity → other).
	DirectionOut Direction = "out"
	// DirectionIn follows edges arriving at the entity (other → entity),
	// e.g. parents in an ownership edge.
	DirectionIn Direction = "in"
)

// MaxTraversalHops bounds every traversal issued against the store.
const MaxTraversalHops = 3

// Relationship is a directed typed edge between two named nodes.
type Relationship struct {
	From       string  `json:"from"`
	Type       string  `json:"type"`
	To         string  `json:"to"`
	Confidence float64 `json:"confidence"`
}

// Subgraph is the bounded neighborhood of one entity, for display.
type Subgraph struct {
	Root  string         `json:"root"`
	Nodes []string       `json:"nodes"`
	Edges []Relationship `json:"edges"`
}

// Store is the graph capability.  Implementations must bound every traversal
// by MaxTraversalHops and reject anything deeper.
type Store interface {
	// NeighborsWithin returns the count of distinct relationship edges
	// reachable from the named entity within maxHops.  An entity absent
	// from the graph yields 0, not an error.
	NeighborsWithin(ctx context.Context, entityName string, maxHops int) (int64, error)

	// RelatedByType returns the names of entities joined to the named
	// entity by edges of the given type in the given direction.
	RelatedByType(ctx context.Context, entityName, relationType string, dir Direction) ([]string, error)

	// MergeEntityNode upserts a node, keyed by name.
	MergeEntityNode(ctx context.Context, name string) error

	// MergeRelationship upserts an edge between two nodes, creating the
	// endpoints as needed.  Re-merging refreshes the confidence.
	MergeRelationship(ctx context.Context, rel Relationship) error

	// Neighborhood returns the bounded subgraph around the named entity.
	Neighborhood(ctx context.Context, entityName string, maxHops int) (*Subgraph, error)
}
