// Schema filtering and prompt-text rendering.
//
// # Output Layout
//
// Two layouts are produced for LLM consumption. The basic layout is compact,
// one section per line:
//
//	Node properties are the following:
//	Movie {title: STRING},Person {name: STRING, age: INTEGER}
//	Relationship properties are the following:
//	ACTED_IN {role: STRING}
//	The relationships are the following:
//	(:Person)-[:ACTED_IN]->(:Movie)
//
// The enhanced layout adds per-property statistics gathered by an
// enrichment pass (value samples, ranges, distinct counts):
//
//	Node properties:
//	- **Person**
//	  - `name`: STRING Example: "Alice"
//	  - `age`: INTEGER Min: 20, Max: 70
//	Relationship properties:
//	...
//
// Both layouts are byte-stable: prompt caching and downstream tests depend
// on the exact bytes, including the trailing space a statistics-less
// property line carries in the enhanced layout.
package schema

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

const (
	// DistinctValueLimit caps how many distinct values are listed as
	// explicit options for a string property.
	DistinctValueLimit = 10

	// ListSizeLimit is the largest list property rendered in enhanced
	// output. Bigger lists are almost always embeddings and only waste
	// prompt tokens.
	ListSizeLimit = 128
)

// ErrConflictingTypeFilters is returned when both an include and an exclude
// list are provided. The two are mutually exclusive.
var ErrConflictingTypeFilters = errors.New("schema: include and exclude type filters are mutually exclusive")

// FormatOptions controls Format.
type FormatOptions struct {
	// IncludeTypes keeps only the named labels and relationship types.
	IncludeTypes []string
	// ExcludeTypes drops the named labels and relationship types.
	// Mutually exclusive with IncludeTypes.
	ExcludeTypes []string
	// Enhanced selects the statistics-rich layout.
	Enhanced bool
}

// Filter returns a copy of s restricted by the include or exclude list. A
// triple survives only when its start label, end label, and type all pass.
//
// Passing both lists non-empty returns ErrConflictingTypeFilters.
func Filter(s *Schema, include, exclude []string) (*Schema, error) {
	if len(include) > 0 && len(exclude) > 0 {
		return nil, ErrConflictingTypeFilters
	}
	keep := func(name string) bool {
		if len(include) > 0 {
			return containsString(include, name)
		}
		return !containsString(exclude, name)
	}

	out := &Schema{
		NodeProps: make(map[string][]Property),
		RelProps:  make(map[string][]Property),
		Metadata:  s.Metadata,
	}
	for label, props := range s.NodeProps {
		if keep(label) {
			out.NodeProps[label] = props
		}
	}
	for relType, props := range s.RelProps {
		if keep(relType) {
			out.RelProps[relType] = props
		}
	}
	for _, t := range s.Relationships {
		if keep(t.Start) && keep(t.End) && keep(t.Type) {
			out.Relationships = append(out.Relationships, t)
		}
	}
	return out, nil
}

// Format filters s and renders it in the requested layout. Labels and types
// render in sorted order so output is deterministic.
func Format(s *Schema, opts FormatOptions) (string, error) {
	filtered, err := Filter(s, opts.IncludeTypes, opts.ExcludeTypes)
	if err != nil {
		return "", err
	}
	if opts.Enhanced {
		return formatEnhanced(filtered), nil
	}
	return formatBasic(filtered), nil
}

func formatBasic(s *Schema) string {
	nodeProps := make([]string, 0, len(s.NodeProps))
	for _, label := range sortedKeys(s.NodeProps) {
		nodeProps = append(nodeProps, label+" {"+propSignature(s.NodeProps[label])+"}")
	}
	relProps := make([]string, 0, len(s.RelProps))
	for _, relType := range sortedKeys(s.RelProps) {
		relProps = append(relProps, relType+" {"+propSignature(s.RelProps[relType])+"}")
	}
	rels := make([]string, 0, len(s.Relationships))
	for _, t := range s.Relationships {
		rels = append(rels, triplePattern(t))
	}
	return strings.Join([]string{
		"Node properties are the following:",
		strings.Join(nodeProps, ","),
		"Relationship properties are the following:",
		strings.Join(relProps, ","),
		"The relationships are the following:",
		strings.Join(rels, ","),
	}, "\n")
}

func formatEnhanced(s *Schema) string {
	rels := make([]string, 0, len(s.Relationships))
	for _, t := range s.Relationships {
		rels = append(rels, triplePattern(t))
	}

	var b strings.Builder
	b.WriteString("Node properties:\n")
	b.WriteString(strings.Join(enhancedLines(s.NodeProps), "\n"))
	b.WriteString("\n")
	b.WriteString("Relationship properties:\n")
	b.WriteString(strings.Join(enhancedLines(s.RelProps), "\n"))
	b.WriteString("\n")
	b.WriteString("The relationships:\n")
	b.WriteString(strings.Join(rels, "\n"))
	return b.String()
}

// enhancedLines renders one group heading per label/type followed by one
// line per property. Properties whose statistics disqualify them (oversized
// lists, statistics-free types) are omitted entirely.
func enhancedLines(groups map[string][]Property) []string {
	var lines []string
	for _, name := range sortedKeys(groups) {
		lines = append(lines, "- **"+name+"**")
		for _, p := range groups[name] {
			detail, ok := propDetail(p)
			if !ok {
				continue
			}
			lines = append(lines, "  - `"+p.Name+"`: "+string(p.Type)+" "+detail)
		}
	}
	return lines
}

// propDetail renders the statistics tail of a property line. The second
// return is false when the line must be skipped. An empty detail is legal
// and leaves the line's trailing space in place.
func propDetail(p Property) (string, bool) {
	switch p.Type {
	case TypeString:
		if len(p.Values) == 0 {
			return "", true
		}
		if p.DistinctCount != nil && *p.DistinctCount > DistinctValueLimit {
			return `Example: "` + cleanString(stringify(p.Values[0])) + `"`, true
		}
		return "Available options: " + quotedList(p.Values), true
	case TypeInteger, TypeFloat, TypeDate, TypeDateTime, TypeLocalDateTime:
		if p.Min != nil {
			return fmt.Sprintf("Min: %v, Max: %v", p.Min, p.Max), true
		}
		if len(p.Values) > 0 {
			return `Example: "` + stringify(p.Values[0]) + `"`, true
		}
		return "", true
	case TypeList:
		if p.MinSize == nil || p.MaxSize == nil || *p.MaxSize > ListSizeLimit {
			return "", false
		}
		return fmt.Sprintf("Min Size: %d, Max Size: %d", *p.MinSize, *p.MaxSize), true
	case TypeBoolean, TypePoint, TypeDuration:
		// No useful statistics exist for these; the line is dropped
		// rather than rendered bare.
		return "", false
	default:
		return "", true
	}
}

func triplePattern(t Triple) string {
	return "(:" + t.Start + ")-[:" + t.Type + "]->(:" + t.End + ")"
}

func propSignature(props []Property) string {
	parts := make([]string, 0, len(props))
	for _, p := range props {
		parts = append(parts, p.Name+": "+string(p.Type))
	}
	return strings.Join(parts, ", ")
}

// quotedList renders values as a bracketed single-quoted list, the shape
// models reliably echo back: ['Cat', 'Dog']. String values are flattened
// with cleanString first.
func quotedList(values []interface{}) string {
	parts := make([]string, len(values))
	for i, v := range values {
		if s, ok := v.(string); ok {
			parts[i] = "'" + escapeSingle(cleanString(s)) + "'"
			continue
		}
		parts[i] = stringify(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func escapeSingle(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, "'", `\'`)
}

// cleanString flattens line breaks so a sampled value cannot break the
// one-line-per-property layout.
func cleanString(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "\r", " ")
}

func stringify(v interface{}) string {
	return fmt.Sprintf("%v", v)
}

func sortedKeys(m map[string][]Property) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func containsString(list []string, s string) bool {
	for _, el := range list {
		if el == s {
			return true
		}
	}
	return false
}
