package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orneryd/vordr/pkg/eval"
	"github.com/orneryd/vordr/pkg/schema"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})
	return s
}

func sampleSchema() *schema.Schema {
	return &schema.Schema{
		NodeProps: map[string][]schema.Property{
			"Person": {{Name: "name", Type: schema.TypeString}},
		},
		RelProps: map[string][]schema.Property{},
		Relationships: []schema.Triple{
			{Start: "Person", Type: "KNOWS", End: "Person"},
		},
	}
}

func TestSchemaRoundTrip(t *testing.T) {
	s := testStore(t)

	require.NoError(t, s.PutSchema("movies", sampleSchema()))

	snap, err := s.GetSchema("movies")
	require.NoError(t, err)
	assert.Equal(t, "movies", snap.Name)
	assert.False(t, snap.SavedAt.IsZero())
	require.NotNil(t, snap.Schema)
	assert.Equal(t, sampleSchema().Relationships, snap.Schema.Relationships)
	assert.Equal(t, sampleSchema().NodeProps, snap.Schema.NodeProps)
}

func TestGetSchemaNotFound(t *testing.T) {
	s := testStore(t)

	_, err := s.GetSchema("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPutSchemaOverwrites(t *testing.T) {
	s := testStore(t)

	require.NoError(t, s.PutSchema("movies", sampleSchema()))

	updated := sampleSchema()
	updated.Relationships = append(updated.Relationships,
		schema.Triple{Start: "Person", Type: "ACTED_IN", End: "Movie"})
	require.NoError(t, s.PutSchema("movies", updated))

	snap, err := s.GetSchema("movies")
	require.NoError(t, err)
	assert.Len(t, snap.Schema.Relationships, 2)
}

func TestPutSchemaEmptyName(t *testing.T) {
	s := testStore(t)
	assert.Error(t, s.PutSchema("", sampleSchema()))
}

func TestListSchemasSorted(t *testing.T) {
	s := testStore(t)

	for _, name := range []string{"zebra", "movies", "airports"} {
		require.NoError(t, s.PutSchema(name, sampleSchema()))
	}

	snaps, err := s.ListSchemas()
	require.NoError(t, err)
	require.Len(t, snaps, 3)
	assert.Equal(t, "airports", snaps[0].Name)
	assert.Equal(t, "movies", snaps[1].Name)
	assert.Equal(t, "zebra", snaps[2].Name)
}

func TestListSchemasEmpty(t *testing.T) {
	s := testStore(t)

	snaps, err := s.ListSchemas()
	require.NoError(t, err)
	assert.Empty(t, snaps)
}

func TestDeleteSchema(t *testing.T) {
	s := testStore(t)

	require.NoError(t, s.PutSchema("movies", sampleSchema()))
	require.NoError(t, s.DeleteSchema("movies"))

	_, err := s.GetSchema("movies")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.DeleteSchema("movies"), ErrNotFound)
}

func TestReportRoundTrip(t *testing.T) {
	s := testStore(t)

	report := eval.Run(&eval.Suite{
		Name:   "sample",
		Schema: sampleSchema(),
		Cases: []eval.Case{
			{ID: "c1", Query: "MATCH (a:Person)-[:KNOWS]->(b:Person) RETURN a"},
		},
	})
	require.NoError(t, s.PutReport(report))

	got, err := s.GetReport(report.ID)
	require.NoError(t, err)
	assert.Equal(t, report.ID, got.ID)
	assert.Equal(t, report.Metrics, got.Metrics)
	assert.Equal(t, report.Results, got.Results)
}

func TestGetReportNotFound(t *testing.T) {
	s := testStore(t)

	_, err := s.GetReport("00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPutReportRequiresID(t *testing.T) {
	s := testStore(t)

	assert.Error(t, s.PutReport(nil))
	assert.Error(t, s.PutReport(&eval.Report{}))
}

func TestListReportsOldestFirst(t *testing.T) {
	s := testStore(t)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"bbb", "aaa", "ccc"} {
		require.NoError(t, s.PutReport(&eval.Report{
			ID:    id,
			Suite: "sample",
			RanAt: base.Add(time.Duration(2-i) * time.Hour),
		}))
	}

	reports, err := s.ListReports()
	require.NoError(t, err)
	require.Len(t, reports, 3)
	assert.Equal(t, "ccc", reports[0].ID)
	assert.Equal(t, "aaa", reports[1].ID)
	assert.Equal(t, "bbb", reports[2].ID)
}

func TestReportsAndSchemasDoNotCollide(t *testing.T) {
	s := testStore(t)

	require.NoError(t, s.PutSchema("shared", sampleSchema()))
	require.NoError(t, s.PutReport(&eval.Report{ID: "shared", RanAt: time.Now()}))

	snaps, err := s.ListSchemas()
	require.NoError(t, err)
	assert.Len(t, snaps, 1)

	reports, err := s.ListReports()
	require.NoError(t, err)
	assert.Len(t, reports, 1)
}

func TestOpenOnDisk(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.PutSchema("movies", sampleSchema()))
	require.NoError(t, s.Close())

	reopened, err := Open(dir)
	require.NoError(t, err)
	defer reopened.Close()

	snap, err := reopened.GetSchema("movies")
	require.NoError(t, err)
	assert.Equal(t, "movies", snap.Name)
}
