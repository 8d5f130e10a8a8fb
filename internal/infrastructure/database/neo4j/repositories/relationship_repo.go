// Package repositories contains the Neo4j implementation of the
// ownership-graph store.
package repositories

import (
	"context"
	"fmt"

	neo4jdriver "github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/turtacn/SupplyGuard-Compliance/internal/domain/graph"
	"github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/database/neo4j"
	"github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SupplyGuard-Compliance/pkg/errors"
)

type neo4jRelationshipRepo struct {
	driver *neo4j.Driver
	log    logging.Logger
}

// NewNeo4jRelationshipRepo returns the graph store backed by Neo4j.  Nodes
// carry the Entity label keyed by name; edges carry the RELATION type with
// the extracted relation verb and confidence as properties.
func NewNeo4jRelationshipRepo(driver *neo4j.Driver, log logging.Logger) graph.Store {
	return &neo4jRelationshipRepo{driver: driver, log: log}
}

// validHops guards the inlined traversal bound: Cypher cannot parameterize
// variable-length bounds, so the hop count is formatted into the query and
// must be validated first.
func validHops(maxHops int) (int, error) {
	if maxHops < 1 || maxHops > graph.MaxTraversalHops {
		return 0, errors.New(errors.ErrCodeGraphDepthInvalid,
			fmt.Sprintf("traversal depth must be in [1,%d], got %d", graph.MaxTraversalHops, maxHops))
	}
	return maxHops, nil
}

func (r *neo4jRelationshipRepo) NeighborsWithin(ctx context.Context, entityName string, maxHops int) (int64, error) {
	hops, err := validHops(maxHops)
	if err != nil {
		return 0, err
	}

	cypher := fmt.Sprintf(`
		MATCH (e:Entity {name: $name})-[rels:RELATION*1..%d]->()
		UNWIND rels AS rel
		RETURN count(DISTINCT rel) AS cnt
	`, hops)

	result, err := r.driver.ExecuteRead(ctx, func(tx neo4j.Transaction) (any, error) {
		res, err := tx.Run(ctx, cypher, map[string]any{"name": entityName})
		if err != nil {
			return nil, err
		}
		return neo4j.ExtractSingleRecord(ctx, res, func(rec *neo4jdriver.Record) (int64, error) {
			cnt, ok := rec.Values[0].(int64)
			if !ok {
				return 0, errors.New(errors.ErrCodeGraphQueryFailed, "unexpected count type")
			}
			return cnt, nil
		})
	})
	if err != nil {
		if errors.IsNotFound(err) {
			// No aggregate row means no matching entity.
			return 0, nil
		}
		return 0, err
	}
	return result.(int64), nil
}

func (r *neo4jRelationshipRepo) RelatedByType(ctx context.Context, entityName, relationType string, dir graph.Direction) ([]string, error) {
	var cypher string
	switch dir {
	case graph.DirectionIn:
		cypher = `
			MATCH (other:Entity)-[r:RELATION {type: $type}]->(e:Entity {name: $name})
			RETURN DISTINCT other.name AS name
		`
	case graph.DirectionOut:
		cypher = `
			MATCH (e:Entity {name: $name})-[r:RELATION {type: $type}]->(other:Entity)
			RETURN DISTINCT other.name AS name
		`
	default:
		return nil, errors.InvalidParam("unsupported traversal direction").WithDetail(string(dir))
	}

	result, err := r.driver.ExecuteRead(ctx, func(tx neo4j.Transaction) (any, error) {
		res, err := tx.Run(ctx, cypher, map[string]any{"name": entityName, "type": relationType})
		if err != nil {
			return nil, err
		}
		return neo4j.CollectRecords(ctx, res, func(rec *neo4jdriver.Record) (string, error) {
			name, ok := rec.Values[0].(string)
			if !ok {
				return "", errors.New(errors.ErrCodeGraphQueryFailed, "unexpected name type")
			}
			return name, nil
		})
	})
	if err != nil {
		return nil, err
	}
	names, _ := result.([]string)
	return names, nil
}

func (r *neo4jRelationshipRepo) MergeEntityNode(ctx context.Context, name string) error {
	if name == "" {
		return errors.InvalidParam("entity node name is empty")
	}
	_, err := r.driver.ExecuteWrite(ctx, func(tx neo4j.Transaction) (any, error) {
		return tx.Run(ctx, `MERGE (e:Entity {name: $name})`, map[string]any{"name": name})
	})
	return err
}

func (r *neo4jRelationshipRepo) MergeRelationship(ctx context.Context, rel graph.Relationship) error {
	if rel.From == "" || rel.To == "" || rel.Type == "" {
		return errors.InvalidParam("relationship endpoints and type are required")
	}
	cypher := `
		MERGE (a:Entity {name: $from})
		MERGE (b:Entity {name: $to})
		MERGE (a)-[r:RELATION {type: $type}]->(b)
		SET r.confidence = $confidence
	`
	_, err := r.driver.ExecuteWrite(ctx, func(tx neo4j.Transaction) (any, error) {
		return tx.Run(ctx, cypher, map[string]any{
			"from":       rel.From,
			"to":         rel.To,
			"type":       rel.Type,
			"confidence": rel.Confidence,
		})
	})
	return err
}

func (r *neo4jRelationshipRepo) Neighborhood(ctx context.Context, entityName string, maxHops int) (*graph.Subgraph, error) {
	hops, err := validHops(maxHops)
	if err != nil {
		return nil, err
	}

	cypher := fmt.Sprintf(`
		MATCH (e:Entity {name: $name})-[rels:RELATION*1..%d]-()
		UNWIND rels AS rel
		RETURN DISTINCT
			startNode(rel).name AS from,
			rel.type            AS type,
			endNode(rel).name   AS to,
			rel.confidence      AS confidence
	`, hops)

	result, err := r.driver.ExecuteRead(ctx, func(tx neo4j.Transaction) (any, error) {
		res, err := tx.Run(ctx, cypher, map[string]any{"name": entityName})
		if err != nil {
			return nil, err
		}
		return neo4j.CollectRecords(ctx, res, func(rec *neo4jdriver.Record) (graph.Relationship, error) {
			edge := graph.Relationship{}
			if v, ok := rec.Values[0].(string); ok {
				edge.From = v
			}
			if v, ok := rec.Values[1].(string); ok {
				edge.Type = v
			}
			if v, ok := rec.Values[2].(string); ok {
				edge.To = v
			}
			if v, ok := rec.Values[3].(float64); ok {
				edge.Confidence = v
			}
			return edge, nil
		})
	})
	if err != nil {
		return nil, err
	}

	edges, _ := result.([]graph.Relationship)
	sub := &graph.Subgraph{Root: entityName, Edges: edges}
	seen := map[string]bool{entityName: true}
	sub.Nodes = append(sub.Nodes, entityName)
	for _, e := range edges {
		for _, n := range []string{e.From, e.To} {
			if n != "" && !seen[n] {
				seen[n] = true
				sub.Nodes = append(sub.Nodes, n)
			}
		}
	}
	return sub, nil
}
