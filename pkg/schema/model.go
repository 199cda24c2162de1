// Package schema models a property-graph schema: which node labels exist,
// what properties they carry, and which relationship triples are permitted
// between them.
//
// The wire shape mirrors what graph introspection tooling emits
// (node_props/rel_props/relationships/metadata documents), so schemas
// round-trip through JSON and YAML untouched. Prompt-text rendering lives in
// format.go and the enrichment query builder in stats.go; both consume this
// model without mutating it.
package schema

// PropertyType is the storage type of a property as reported by
// introspection. Unknown values pass through untouched.
type PropertyType string

// Property types seen in introspection output.
const (
	TypeString        PropertyType = "STRING"
	TypeInteger       PropertyType = "INTEGER"
	TypeFloat         PropertyType = "FLOAT"
	TypeBoolean       PropertyType = "BOOLEAN"
	TypeDate          PropertyType = "DATE"
	TypeDateTime      PropertyType = "DATE_TIME"
	TypeLocalDateTime PropertyType = "LOCAL_DATE_TIME"
	TypeDuration      PropertyType = "DURATION"
	TypePoint         PropertyType = "POINT"
	TypeList          PropertyType = "LIST"
)

// Property describes a single property on a node label or relationship type.
//
// The statistics fields (Values, DistinctCount, Min, Max, MinSize, MaxSize)
// are filled by an enrichment pass and are optional. Absent and zero mean
// different things to the formatter, hence the pointer fields.
type Property struct {
	Name          string        `json:"property" yaml:"property"`
	Type          PropertyType  `json:"type" yaml:"type"`
	Values        []interface{} `json:"values,omitempty" yaml:"values,omitempty"`
	DistinctCount *int64        `json:"distinct_count,omitempty" yaml:"distinct_count,omitempty"`
	Min           interface{}   `json:"min,omitempty" yaml:"min,omitempty"`
	Max           interface{}   `json:"max,omitempty" yaml:"max,omitempty"`
	MinSize       *int64        `json:"min_size,omitempty" yaml:"min_size,omitempty"`
	MaxSize       *int64        `json:"max_size,omitempty" yaml:"max_size,omitempty"`
}

// Triple is one permitted relationship: start label, relationship type, end
// label. Direction is always Start to End.
type Triple struct {
	Start string `json:"start" yaml:"start"`
	Type  string `json:"type" yaml:"type"`
	End   string `json:"end" yaml:"end"`
}

// Index describes a database index from introspection metadata.
type Index struct {
	Label          string   `json:"label" yaml:"label"`
	Properties     []string `json:"properties" yaml:"properties"`
	Type           string   `json:"type" yaml:"type"`
	EntityType     string   `json:"entityType,omitempty" yaml:"entityType,omitempty"`
	Size           int64    `json:"size,omitempty" yaml:"size,omitempty"`
	DistinctValues int64    `json:"distinctValues,omitempty" yaml:"distinctValues,omitempty"`
}

// Metadata carries constraint and index listings alongside the schema.
type Metadata struct {
	Constraints []map[string]interface{} `json:"constraint,omitempty" yaml:"constraint,omitempty"`
	Indexes     []Index                  `json:"index,omitempty" yaml:"index,omitempty"`
}

// Schema is the full picture of a property graph: properties per node
// label, properties per relationship type, permitted relationship triples,
// and introspection metadata.
type Schema struct {
	NodeProps     map[string][]Property `json:"node_props" yaml:"node_props"`
	RelProps      map[string][]Property `json:"rel_props" yaml:"rel_props"`
	Relationships []Triple              `json:"relationships" yaml:"relationships"`
	Metadata      Metadata              `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Clone returns a copy with its own maps and slices. Leaf values (property
// statistics) are shared; they are treated as immutable.
func (s *Schema) Clone() *Schema {
	out := &Schema{
		NodeProps: make(map[string][]Property, len(s.NodeProps)),
		RelProps:  make(map[string][]Property, len(s.RelProps)),
		Metadata:  s.Metadata,
	}
	for label, props := range s.NodeProps {
		out.NodeProps[label] = append([]Property(nil), props...)
	}
	for relType, props := range s.RelProps {
		out.RelProps[relType] = append([]Property(nil), props...)
	}
	out.Relationships = append([]Triple(nil), s.Relationships...)
	return out
}

// rangeIndex reports the RANGE index covering (label, prop), if any.
func (s *Schema) rangeIndex(label, prop string) (Index, bool) {
	for _, idx := range s.Metadata.Indexes {
		if idx.Label != label || idx.Type != "RANGE" {
			continue
		}
		for _, p := range idx.Properties {
			if p == prop {
				return idx, true
			}
		}
	}
	return Index{}, false
}
