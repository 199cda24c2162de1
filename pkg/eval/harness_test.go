package eval

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orneryd/vordr/pkg/schema"
)

func movieSuite() *Suite {
	return &Suite{
		Name: "movies",
		Schema: &schema.Schema{
			Relationships: []schema.Triple{
				{Start: "Person", Type: "ACTED_IN", End: "Movie"},
			},
		},
		Cases: []Case{
			{
				ID:    "valid-unchanged",
				Query: "MATCH (p:Person)-[:ACTED_IN]->(m:Movie) RETURN m.title",
			},
			{
				ID:       "reversed-corrected",
				Query:    "MATCH (m:Movie)-[:ACTED_IN]->(p:Person) RETURN p.name",
				Expected: "MATCH (m:Movie)<-[:ACTED_IN]-(p:Person) RETURN p.name",
			},
			{
				ID:      "impossible-discarded",
				Query:   "MATCH (p:Person)-[:DIRECTED]->(m:Movie) RETURN m",
				Discard: true,
			},
		},
	}
}

func TestRunAllPass(t *testing.T) {
	report := Run(movieSuite())

	assert.Equal(t, "movies", report.Suite)
	assert.Equal(t, 3, report.Metrics.Total)
	assert.Equal(t, 3, report.Metrics.Passed)
	assert.Equal(t, 0, report.Metrics.Failed)
	assert.Equal(t, 1, report.Metrics.Corrected)
	assert.Equal(t, 1, report.Metrics.Discarded)
	assert.Equal(t, 1.0, report.Metrics.Accuracy)

	_, err := uuid.Parse(report.ID)
	assert.NoError(t, err, "report ID must be a valid UUID")

	require.Len(t, report.Results, 3)
	assert.Equal(t, OutcomeUnchanged, report.Results[0].Outcome)
	assert.Equal(t, OutcomeCorrected, report.Results[1].Outcome)
	assert.Equal(t, OutcomeDiscarded, report.Results[2].Outcome)
}

func TestRunResultOrderFollowsSuite(t *testing.T) {
	report := Run(movieSuite())

	ids := make([]string, len(report.Results))
	for i, r := range report.Results {
		ids[i] = r.CaseID
	}
	assert.Equal(t, []string{"valid-unchanged", "reversed-corrected", "impossible-discarded"}, ids)
}

func TestRunFailures(t *testing.T) {
	suite := movieSuite()
	suite.Cases = []Case{
		{
			ID:       "wrong-expectation",
			Query:    "MATCH (m:Movie)-[:ACTED_IN]->(p:Person) RETURN p",
			Expected: "MATCH (m:Movie)-[:ACTED_IN]->(p:Person) RETURN p",
		},
		{
			ID:      "expected-discard-but-valid",
			Query:   "MATCH (p:Person)-[:ACTED_IN]->(m:Movie) RETURN m",
			Discard: true,
		},
		{
			ID:    "expected-pass-but-discarded",
			Query: "MATCH (p:Person)-[:DIRECTED]->(m:Movie) RETURN m",
		},
	}

	report := Run(suite)
	assert.Equal(t, 3, report.Metrics.Total)
	assert.Equal(t, 0, report.Metrics.Passed)
	assert.Equal(t, 3, report.Metrics.Failed)
	assert.Equal(t, 0.0, report.Metrics.Accuracy)

	for _, res := range report.Results {
		assert.False(t, res.Passed, "case %s", res.CaseID)
	}
}

func TestRunEmptySuite(t *testing.T) {
	report := Run(&Suite{Name: "empty"})

	assert.Equal(t, 0, report.Metrics.Total)
	assert.Equal(t, 0.0, report.Metrics.Accuracy)
	assert.Empty(t, report.Results)
}

func TestRunNilSchemaAcceptsEverything(t *testing.T) {
	suite := &Suite{
		Name: "no-schema",
		Cases: []Case{
			{ID: "anything", Query: "MATCH (a:X)-[:Y]->(b:Z) RETURN a"},
		},
	}

	report := Run(suite)
	assert.Equal(t, 1, report.Metrics.Passed)
	assert.Equal(t, OutcomeUnchanged, report.Results[0].Outcome)
}

func TestRunReportIDsAreUnique(t *testing.T) {
	suite := movieSuite()
	first := Run(suite)
	second := Run(suite)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, first.Metrics, second.Metrics)
}

func TestLoadSuiteJSON(t *testing.T) {
	doc := `{
  "name": "sample",
  "description": "direction fixes",
  "schema": {
    "node_props": {
      "Person": [{"property": "name", "type": "STRING"}]
    },
    "rel_props": {},
    "relationships": [
      {"start": "Person", "type": "KNOWS", "end": "Person"}
    ]
  },
  "cases": [
    {"id": "c1", "query": "MATCH (a:Person)-[:KNOWS]->(b:Person) RETURN a"},
    {"id": "c2", "query": "MATCH (a:Movie)-[:KNOWS]->(b:Person) RETURN a", "discard": true}
  ]
}`
	path := filepath.Join(t.TempDir(), "suite.json")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	suite, err := LoadSuite(path)
	require.NoError(t, err)

	assert.Equal(t, "sample", suite.Name)
	require.NotNil(t, suite.Schema)
	require.Len(t, suite.Schema.Relationships, 1)
	assert.Equal(t, schema.Triple{Start: "Person", Type: "KNOWS", End: "Person"}, suite.Schema.Relationships[0])
	require.Len(t, suite.Cases, 2)
	assert.True(t, suite.Cases[1].Discard)

	report := Run(suite)
	assert.Equal(t, 2, report.Metrics.Passed)
}

func TestLoadSuiteMissingFile(t *testing.T) {
	_, err := LoadSuite(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read suite file")
}

func TestLoadSuiteBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := LoadSuite(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse suite JSON")
}

func TestReporterPrintCompact(t *testing.T) {
	var buf bytes.Buffer
	report := Run(movieSuite())

	NewReporter(&buf).PrintCompact(report)

	out := buf.String()
	assert.Contains(t, out, "[PASS]")
	assert.Contains(t, out, "3/3 cases")
	assert.Contains(t, out, "corrected=1")
	assert.Contains(t, out, "discarded=1")
}

func TestReporterPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	report := Run(movieSuite())

	NewReporter(&buf).PrintSummary(report)

	out := buf.String()
	assert.Contains(t, out, "Vordr Query Correction Evaluation")
	assert.Contains(t, out, "Suite: movies")
	assert.Contains(t, out, "3/3 passed")
	assert.Contains(t, out, "Accuracy")
}

func TestReporterPrintDetailsShowsFailures(t *testing.T) {
	suite := movieSuite()
	suite.Cases = append(suite.Cases, Case{
		ID:       "broken",
		Query:    "MATCH (m:Movie)-[:ACTED_IN]->(p:Person) RETURN p",
		Expected: "this will not match",
	})

	var buf bytes.Buffer
	report := Run(suite)
	NewReporter(&buf).PrintDetails(report)

	out := buf.String()
	assert.Contains(t, out, "❌")
	assert.Contains(t, out, "broken")
	assert.Equal(t, 3, strings.Count(out, "✅"))
}

func TestReporterSaveJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	report := Run(movieSuite())

	require.NoError(t, NewReporter(nil).SaveJSON(report, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"suite": "movies"`)
	assert.Contains(t, string(data), `"accuracy": 1`)
}
