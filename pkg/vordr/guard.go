// Package vordr provides the main API for guarding LLM-generated Cypher.
//
// Vordr sits between a text-to-Cypher model and a graph database. It renders
// the graph schema into prompt text, and it reviews every generated query
// before the database sees it: relationship directions that contradict the
// schema are flipped in place, and queries whose relationships cannot exist
// in any direction are rejected outright.
//
// Key features:
//   - Schema rendering in two layouts: compact and statistics-enhanced
//   - Label and relationship type filtering for smaller prompts
//   - Relationship direction correction against the schema whitelist
//   - Fenced-block extraction from raw model output
//   - Result sanitization that strips embedding-sized lists
//
// Pipeline:
//  1. SchemaText goes into the generation prompt.
//  2. The model's raw output goes through Review: fence extraction, then
//     direction correction.
//  3. Accepted queries run against the database; rejected ones never do.
//  4. Returned rows pass through SanitizeRows before any further prompting.
//
// The model call and the database call stay behind the Generator and Runner
// interfaces; this package never opens a connection of its own.
//
// ELI12 (Explain Like I'm 12):
//
// Imagine a friend writes down directions for you, but sometimes draws the
// arrows backwards: "the ball threw Sam" instead of "Sam threw the ball".
// Vordr knows which way every arrow is allowed to point, fixes the ones
// drawn backwards, and throws away directions that make no sense no matter
// which way you turn the arrow.
package vordr

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/orneryd/vordr/pkg/cypher"
	"github.com/orneryd/vordr/pkg/schema"
)

// ErrQueryRejected is returned when a generated query names a relationship
// the schema whitelist cannot satisfy in any direction.
var ErrQueryRejected = errors.New("vordr: query rejected by relationship whitelist")

// Guard reviews generated Cypher against a graph schema. Construct with New;
// a Guard is immutable afterwards and safe for concurrent use.
type Guard struct {
	model      *schema.Schema
	schemaText string
	corrector  *cypher.Corrector
	validate   bool
	logger     *zap.Logger

	include  []string
	exclude  []string
	enhanced bool
}

// Option configures a Guard.
type Option func(*Guard)

// WithIncludeTypes restricts the rendered schema to the named labels and
// relationship types.
func WithIncludeTypes(types ...string) Option {
	return func(g *Guard) {
		g.include = types
	}
}

// WithExcludeTypes drops the named labels and relationship types from the
// rendered schema. Mutually exclusive with WithIncludeTypes.
func WithExcludeTypes(types ...string) Option {
	return func(g *Guard) {
		g.exclude = types
	}
}

// WithEnhancedSchema selects the statistics-rich schema layout.
func WithEnhancedSchema() Option {
	return func(g *Guard) {
		g.enhanced = true
	}
}

// WithoutValidation disables direction correction; Correct and Review pass
// queries through untouched.
func WithoutValidation() Option {
	return func(g *Guard) {
		g.validate = false
	}
}

// WithLogger sets the logger for review diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(g *Guard) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// New builds a Guard over the given schema. The schema text is rendered once
// here; conflicting include and exclude filters surface
// schema.ErrConflictingTypeFilters immediately rather than at first use.
//
// Direction correction always consults the full relationship whitelist, even
// when type filters trim the rendered text. Filters shape the prompt, not
// what is true of the graph.
func New(model *schema.Schema, opts ...Option) (*Guard, error) {
	if model == nil {
		model = &schema.Schema{}
	}
	g := &Guard{
		model:    model.Clone(),
		validate: true,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}

	text, err := schema.Format(g.model, schema.FormatOptions{
		IncludeTypes: g.include,
		ExcludeTypes: g.exclude,
		Enhanced:     g.enhanced,
	})
	if err != nil {
		return nil, err
	}
	g.schemaText = text
	g.corrector = cypher.NewCorrector(g.model.Relationships, cypher.WithLogger(g.logger))
	return g, nil
}

// SchemaText returns the rendered schema for inclusion in a generation
// prompt.
func (g *Guard) SchemaText() string {
	return g.schemaText
}

// Correct returns the query with relationship directions agreeing with the
// schema. The second return is false when the query must be discarded.
func (g *Guard) Correct(query string) (string, bool) {
	if !g.validate {
		return query, true
	}
	return g.corrector.Correct(query)
}

// Review turns raw model output into a runnable query: the first fenced
// block (or the whole text) is extracted, then corrected. False means the
// output asked for a relationship the graph cannot have.
func (g *Guard) Review(output string) (string, bool) {
	query, ok := g.Correct(cypher.ExtractCypher(output))
	if !ok {
		g.logger.Debug("query rejected", zap.String("output", output))
		return "", false
	}
	return query, true
}

// Query runs the full question-to-rows pipeline: generate, review, run,
// sanitize. It returns the reviewed query alongside the sanitized rows so
// callers can log or display what actually ran. A rejected generation
// returns ErrQueryRejected.
func (g *Guard) Query(ctx context.Context, gen Generator, runner Runner, question string) (string, []map[string]interface{}, error) {
	raw, err := gen.GenerateCypher(ctx, question, g.schemaText)
	if err != nil {
		return "", nil, fmt.Errorf("generate cypher: %w", err)
	}
	query, ok := g.Review(raw)
	if !ok {
		return "", nil, ErrQueryRejected
	}
	g.logger.Debug("running reviewed query", zap.String("query", query))

	rows, err := runner.Run(ctx, query)
	if err != nil {
		return query, nil, fmt.Errorf("run cypher: %w", err)
	}
	return query, SanitizeRows(rows), nil
}
