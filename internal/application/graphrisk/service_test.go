package graphrisk

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/SupplyGuard-Compliance/internal/domain/graph"
	"github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SupplyGuard-Compliance/internal/intelligence/extraction"
	"github.com/turtacn/SupplyGuard-Compliance/pkg/errors"
)

type fakeStore struct {
	count    int64
	countErr error
	queried  string
	merged   []graph.Relationship
	mergeErr error
	sub      *graph.Subgraph
}

func (f *fakeStore) NeighborsWithin(_ context.Context, name string, _ int) (int64, error) {
	f.queried = name
	return f.count, f.countErr
}

func (f *fakeStore) RelatedByType(context.Context, string, string, graph.Direction) ([]string, error) {
	return nil, nil
}

func (f *fakeStore) MergeEntityNode(context.Context, string) error { return nil }

func (f *fakeStore) MergeRelationship(_ context.Context, rel graph.Relationship) error {
	if f.mergeErr != nil {
		return f.mergeErr
	}
	f.merged = append(f.merged, rel)
	return nil
}

func (f *fakeStore) Neighborhood(context.Context, string, int) (*graph.Subgraph, error) {
	return f.sub, nil
}

func newTestService(store *fakeStore) Service {
	return NewService(store, nil, logging.NewNopLogger(), nil)
}

func TestPropagate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		count int64
		want  float64
	}{
		{"no edges", 0, 0},
		{"two edges", 2, 20},
		{"cap boundary", 5, 50},
		{"capped above", 6, 50},
		{"dense graph stays capped", 40, 50},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := newTestService(&fakeStore{count: tt.count})
			assert.Equal(t, tt.want, svc.Propagate(context.Background(), "acme"))
		})
	}
}

func TestPropagate_NormalizesNameBeforeLookup(t *testing.T) {
	t.Parallel()

	store := &fakeStore{count: 2}
	svc := newTestService(store)

	// Graph nodes are keyed by normalized names; a display name must hit
	// the same node as its normalized form.
	assert.Equal(t, 20.0, svc.Propagate(context.Background(), "Acme Co., Ltd."))
	assert.Equal(t, "acme", store.queried)
}

func TestPropagate_UnresolvableNameScoresZero(t *testing.T) {
	t.Parallel()

	store := &fakeStore{count: 3}
	svc := newTestService(store)

	assert.Equal(t, 0.0, svc.Propagate(context.Background(), "  ,,  "))
	assert.Empty(t, store.queried)
}

func TestPropagate_FailsOpen(t *testing.T) {
	t.Parallel()

	svc := newTestService(&fakeStore{
		countErr: errors.New(errors.ErrCodeGraphUnavailable, "graph down"),
	})
	assert.Equal(t, 0.0, svc.Propagate(context.Background(), "acme"))
}

func TestIngestTriples(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	svc := newTestService(store)

	res, err := svc.IngestTriples(context.Background(), []extraction.Triple{
		{Subject: "Globex Corp", Relation: "owns", Object: "Acme Inc."},
		{Subject: "", Relation: "owns", Object: "Acme Inc."},
		{Subject: "Acme Inc.", Relation: "supplies", Object: "Acme, Inc."}, // self edge after normalization
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Merged)
	assert.Equal(t, 2, res.Skipped)

	require.Len(t, store.merged, 1)
	rel := store.merged[0]
	assert.Equal(t, "globex", rel.From)
	assert.Equal(t, "acme", rel.To)
	assert.Equal(t, "owns", rel.Type)
	assert.InDelta(t, 0.95, rel.Confidence, 0.001)
}

func TestIngestTriples_Empty(t *testing.T) {
	t.Parallel()

	svc := newTestService(&fakeStore{})
	_, err := svc.IngestTriples(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestIngestTriples_WriteFailure(t *testing.T) {
	t.Parallel()

	svc := newTestService(&fakeStore{
		mergeErr: errors.New(errors.ErrCodeGraphWriteFailed, "write refused"),
	})
	_, err := svc.IngestTriples(context.Background(), []extraction.Triple{
		{Subject: "Globex", Relation: "owns", Object: "Acme"},
	})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeGraphWriteFailed, errors.GetCode(err))
}

func TestNeighborhood(t *testing.T) {
	t.Parallel()

	want := &graph.Subgraph{Root: "acme", Nodes: []string{"acme", "globex"}}
	svc := newTestService(&fakeStore{sub: want})

	got, err := svc.Neighborhood(context.Background(), "Acme Inc.", 0)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = svc.Neighborhood(context.Background(), "  ,,  ", 2)
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}
