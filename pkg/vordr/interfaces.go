package vordr

import "context"

// Generator produces Cypher for a natural-language question. Implementations
// wrap whatever model endpoint the application uses; schemaText is the
// Guard's rendered schema, ready for the prompt.
type Generator interface {
	GenerateCypher(ctx context.Context, question, schemaText string) (string, error)
}

// Runner executes a Cypher query and returns its rows. Implementations wrap
// the application's database session; Vordr itself never connects.
type Runner interface {
	Run(ctx context.Context, query string) ([]map[string]interface{}, error)
}
