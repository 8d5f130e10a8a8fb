package neo4j

import (
	"context"
	"testing"

	neo4jdriver "github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/SupplyGuard-Compliance/pkg/errors"
)

// fakeResult feeds canned records through the Result interface.
type fakeResult struct {
	records []*neo4jdriver.Record
	pos     int
	err     error
}

func (f *fakeResult) Next(_ context.Context) bool {
	if f.pos < len(f.records) {
		f.pos++
		return true
	}
	return false
}

func (f *fakeResult) Record() *neo4jdriver.Record { return f.records[f.pos-1] }
func (f *fakeResult) Err() error                  { return f.err }
func (f *fakeResult) Consume(_ context.Context) (neo4jdriver.ResultSummary, error) {
	return nil, nil
}

func record(values ...any) *neo4jdriver.Record {
	return &neo4jdriver.Record{Values: values}
}

func TestExtractSingleRecord(t *testing.T) {
	t.Parallel()

	res := &fakeResult{records: []*neo4jdriver.Record{record(int64(6))}}
	got, err := ExtractSingleRecord(context.Background(), res, func(r *neo4jdriver.Record) (int64, error) {
		return r.Values[0].(int64), nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(6), got)
}

func TestExtractSingleRecord_Empty(t *testing.T) {
	t.Parallel()

	res := &fakeResult{}
	_, err := ExtractSingleRecord(context.Background(), res, func(r *neo4jdriver.Record) (int64, error) {
		return 0, nil
	})
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestCollectRecords(t *testing.T) {
	t.Parallel()

	res := &fakeResult{records: []*neo4jdriver.Record{record("acme"), record("globex")}}
	got, err := CollectRecords(context.Background(), res, func(r *neo4jdriver.Record) (string, error) {
		return r.Values[0].(string), nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"acme", "globex"}, got)
}
