// Package graphrisk converts ownership-graph topology into a bounded risk
// contribution and maintains the graph from extracted relationship triples.
package graphrisk

import (
	"context"
	"fmt"
	"time"

	"github.com/turtacn/SupplyGuard-Compliance/internal/domain/entity"
	"github.com/turtacn/SupplyGuard-Compliance/internal/domain/graph"
	"github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/database/redis"
	"github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/SupplyGuard-Compliance/internal/intelligence/extraction"
	"github.com/turtacn/SupplyGuard-Compliance/pkg/errors"
)

const (
	// ContributionPerEdge converts an edge count into risk points.
	ContributionPerEdge = 10.0
	// MaxContribution caps the graph signal so relationship density alone
	// cannot dominate the aggregate score.
	MaxContribution = 50.0

	subgraphCacheTTL = 5 * time.Minute
)

// IngestResult summarizes a triple ingestion batch.
type IngestResult struct {
	Merged  int `json:"merged"`
	Skipped int `json:"skipped"`
}

// Service is the graph-risk capability consumed by the scoring engine and
// the graph HTTP endpoints.
type Service interface {
	// Propagate returns the graph risk contribution in [0,50] for the named
	// entity.  The name is normalized to the graph's node key first, so
	// display names and normalized keys resolve to the same node.  Any
	// traversal failure degrades to 0: graph exposure is an additive signal
	// and its absence must never block an assessment.
	Propagate(ctx context.Context, entityName string) float64

	// IngestTriples admits extracted relationship candidates into the graph,
	// scoring each with the extraction confidence heuristic.
	IngestTriples(ctx context.Context, triples []extraction.Triple) (*IngestResult, error)

	// Neighborhood returns the bounded subgraph around an entity, cached.
	Neighborhood(ctx context.Context, entityName string, maxHops int) (*graph.Subgraph, error)
}

type serviceImpl struct {
	store   graph.Store
	cache   redis.Cache
	logger  logging.Logger
	metrics *prometheus.AppMetrics
}

// NewService creates the graph-risk service.  cache may be nil.
func NewService(store graph.Store, cache redis.Cache, logger logging.Logger, metrics *prometheus.AppMetrics) Service {
	if metrics == nil {
		metrics = prometheus.NewNopAppMetrics()
	}
	return &serviceImpl{store: store, cache: cache, logger: logger, metrics: metrics}
}

func (s *serviceImpl) Propagate(ctx context.Context, entityName string) float64 {
	normalized := entity.Normalize(entityName)
	if normalized == "" {
		return 0
	}

	start := time.Now()
	count, err := s.store.NeighborsWithin(ctx, normalized, graph.MaxTraversalHops)
	s.metrics.GraphQueryDuration.WithLabelValues("propagate").Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.SignalFailuresTotal.WithLabelValues("graph").Inc()
		s.logger.Warn("graph propagation degraded to zero",
			logging.String("entity", normalized), logging.Err(err))
		return 0
	}

	contribution := float64(count) * ContributionPerEdge
	if contribution > MaxContribution {
		contribution = MaxContribution
	}
	s.metrics.GraphContribution.WithLabelValues().Observe(contribution)
	return contribution
}

func (s *serviceImpl) IngestTriples(ctx context.Context, triples []extraction.Triple) (*IngestResult, error) {
	if len(triples) == 0 {
		return nil, errors.InvalidParam("no triples to ingest")
	}

	result := &IngestResult{}
	for _, t := range triples {
		from := entity.Normalize(t.Subject)
		to := entity.Normalize(t.Object)
		if from == "" || to == "" || t.Relation == "" || from == to {
			result.Skipped++
			continue
		}

		rel := graph.Relationship{
			From:       from,
			Type:       t.Relation,
			To:         to,
			Confidence: extraction.Confidence(t),
		}
		if err := s.store.MergeRelationship(ctx, rel); err != nil {
			s.metrics.GraphWriteFailuresTotal.WithLabelValues().Inc()
			return result, errors.Wrap(err, errors.ErrCodeGraphWriteFailed, "failed to merge relationship")
		}
		result.Merged++
	}

	// Fresh edges invalidate cached neighborhoods.
	if result.Merged > 0 && s.cache != nil {
		if _, err := s.cache.DeleteByPrefix(ctx, "graph:sub:"); err != nil {
			s.logger.Warn("failed to invalidate subgraph cache", logging.Err(err))
		}
	}
	return result, nil
}

func (s *serviceImpl) Neighborhood(ctx context.Context, entityName string, maxHops int) (*graph.Subgraph, error) {
	normalized := entity.Normalize(entityName)
	if normalized == "" {
		return nil, errors.InvalidParam("entity name is empty after normalization")
	}
	if maxHops <= 0 {
		maxHops = graph.MaxTraversalHops
	}

	if s.cache == nil {
		return s.fetchNeighborhood(ctx, normalized, maxHops)
	}

	var sub graph.Subgraph
	key := fmt.Sprintf("graph:sub:%s:%d", normalized, maxHops)
	err := s.cache.GetOrSet(ctx, key, &sub, subgraphCacheTTL,
		func(ctx context.Context) (interface{}, error) {
			return s.fetchNeighborhood(ctx, normalized, maxHops)
		})
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (s *serviceImpl) fetchNeighborhood(ctx context.Context, normalized string, maxHops int) (*graph.Subgraph, error) {
	start := time.Now()
	sub, err := s.store.Neighborhood(ctx, normalized, maxHops)
	s.metrics.GraphQueryDuration.WithLabelValues("neighborhood").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}
	return sub, nil
}
