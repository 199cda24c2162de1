// Package eval provides an evaluation harness for the query review pipeline.
//
// A suite pairs a schema with queries whose corrected form is known. The
// harness runs every query through the direction corrector built from that
// schema and scores the outcomes:
//   - unchanged: the query already agreed with the schema
//   - corrected: one or more relationship arrows were flipped
//   - discarded: no orientation of some relationship exists in the schema
//
// Example usage:
//
//	suite, err := eval.LoadSuite("testdata/movies.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	report := eval.Run(suite)
//	fmt.Printf("accuracy: %.2f\n", report.Metrics.Accuracy)
//
// ELI12 (Explain Like I'm 12):
//
// It's a spelling test for the arrow-fixer. You give it sentences with the
// arrows drawn wrong on purpose, plus the answer key, and the report tells
// you how many it fixed correctly.
package eval

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/orneryd/vordr/pkg/cypher"
	"github.com/orneryd/vordr/pkg/schema"
)

// Case outcomes.
const (
	OutcomeUnchanged = "unchanged"
	OutcomeCorrected = "corrected"
	OutcomeDiscarded = "discarded"
)

// Case defines a single evaluation case.
type Case struct {
	// ID is a human-readable identifier for this case
	ID string `json:"id"`

	// Description says what the case exercises
	Description string `json:"description,omitempty"`

	// Query is the input query, exactly as a model might produce it
	Query string `json:"query"`

	// Expected is the query after correction. Empty means the query is
	// expected to come back unchanged.
	Expected string `json:"expected,omitempty"`

	// Discard marks cases whose query must be rejected outright
	Discard bool `json:"discard,omitempty"`
}

// Suite is a collection of cases evaluated against one schema.
type Suite struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Schema      *schema.Schema `json:"schema"`
	Cases       []Case         `json:"cases"`
}

// Result contains the outcome of a single case.
type Result struct {
	CaseID  string `json:"case_id"`
	Query   string `json:"query"`
	Outcome string `json:"outcome"`
	Got     string `json:"got,omitempty"`
	Want    string `json:"want,omitempty"`
	Passed  bool   `json:"passed"`
}

// Metrics summarizes a run.
type Metrics struct {
	Total     int `json:"total"`
	Passed    int `json:"passed"`
	Failed    int `json:"failed"`
	Corrected int `json:"corrected"`
	Discarded int `json:"discarded"`

	// Accuracy is Passed over Total, 0 for an empty suite
	Accuracy float64 `json:"accuracy"`
}

// Report contains the complete results of one run.
type Report struct {
	ID       string        `json:"id"`
	Suite    string        `json:"suite"`
	RanAt    time.Time     `json:"ran_at"`
	Duration time.Duration `json:"duration"`
	Metrics  Metrics       `json:"metrics"`
	Results  []Result      `json:"results"`
}

// LoadSuite loads a suite from a JSON file.
func LoadSuite(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read suite file: %w", err)
	}

	var suite Suite
	if err := json.Unmarshal(data, &suite); err != nil {
		return nil, fmt.Errorf("failed to parse suite JSON: %w", err)
	}
	return &suite, nil
}

// Run evaluates every case in the suite against a corrector built from the
// suite's schema. Results keep the suite's case order; runs are
// deterministic for a given suite.
func Run(suite *Suite) *Report {
	start := time.Now()

	var triples []schema.Triple
	if suite.Schema != nil {
		triples = suite.Schema.Relationships
	}
	corrector := cypher.NewCorrector(triples)

	results := make([]Result, 0, len(suite.Cases))
	var m Metrics
	for _, c := range suite.Cases {
		res := runCase(corrector, c)
		switch res.Outcome {
		case OutcomeCorrected:
			m.Corrected++
		case OutcomeDiscarded:
			m.Discarded++
		}
		if res.Passed {
			m.Passed++
		} else {
			m.Failed++
		}
		results = append(results, res)
	}
	m.Total = len(results)
	if m.Total > 0 {
		m.Accuracy = float64(m.Passed) / float64(m.Total)
	}

	return &Report{
		ID:       uuid.NewString(),
		Suite:    suite.Name,
		RanAt:    start.UTC(),
		Duration: time.Since(start),
		Metrics:  m,
		Results:  results,
	}
}

func runCase(corrector *cypher.Corrector, c Case) Result {
	got, ok := corrector.Correct(c.Query)

	outcome := OutcomeUnchanged
	switch {
	case !ok:
		outcome = OutcomeDiscarded
	case got != c.Query:
		outcome = OutcomeCorrected
	}

	res := Result{
		CaseID:  c.ID,
		Query:   c.Query,
		Outcome: outcome,
		Got:     got,
	}
	if c.Discard {
		res.Passed = !ok
		return res
	}

	want := c.Expected
	if want == "" {
		want = c.Query
	}
	res.Want = want
	res.Passed = ok && got == want
	return res
}
