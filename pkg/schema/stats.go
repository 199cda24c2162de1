// Statistics query generation for schema enrichment.
//
// An enrichment pass runs one generated query per label or relationship
// type and folds the returned map back into the Property statistics fields.
// The builder itself never touches a database: the only escape hatch is the
// optional ValueFetcher, used to inline the known option set of an indexed
// low-cardinality string property.
package schema

import (
	"fmt"
	"strings"
)

// defaultSampleSize bounds the rows scanned when a full pass is too
// expensive.
const defaultSampleSize = 5

// ValueFetcher runs a read-only query and returns the single collected
// column. Callers with a live database wire one in; nil keeps query
// generation fully offline.
type ValueFetcher func(query string) ([]interface{}, error)

// StatsOptions controls StatsQuery.
type StatsOptions struct {
	// Exhaustive scans every entity instead of a bounded sample.
	Exhaustive bool
	// SampleSize bounds the non-exhaustive scan; values <= 0 mean the
	// default of 5.
	SampleSize int
	// Relationship switches the match clause to relationship form.
	Relationship bool
	// Fetch, when set, lets the builder look up the distinct values of an
	// indexed low-cardinality string property and inline them.
	Fetch ValueFetcher
}

// StatsQuery builds the Cypher that collects statistics for the given label
// or relationship type. A nil props slice means all modeled properties of
// that label/type. BOOLEAN, POINT, and DURATION properties carry no useful
// statistics and are skipped.
func (s *Schema) StatsQuery(labelOrType string, props []Property, opts StatsOptions) string {
	if props == nil {
		if opts.Relationship {
			props = s.RelProps[labelOrType]
		} else {
			props = s.NodeProps[labelOrType]
		}
	}
	sample := opts.SampleSize
	if sample <= 0 {
		sample = defaultSampleSize
	}

	var b strings.Builder
	if opts.Relationship {
		b.WriteString("MATCH ()-[n:`" + labelOrType + "`]->()")
	} else {
		b.WriteString("MATCH (n:`" + labelOrType + "`)")
	}
	if !opts.Exhaustive {
		fmt.Fprintf(&b, "\nWITH n LIMIT %d", sample)
	}

	var withParts, returnParts []string
	for _, p := range props {
		withFragments, returnFragment := s.statsFragments(labelOrType, p, opts)
		if returnFragment == "" {
			continue
		}
		withParts = append(withParts, withFragments...)
		returnParts = append(returnParts, "`"+p.Name+"`: {"+returnFragment+"}")
	}
	if len(withParts) > 0 {
		b.WriteString("\nWITH " + strings.Join(withParts, ", "))
	}
	b.WriteString("\nRETURN {" + strings.Join(returnParts, ", ") + "} AS output")
	return b.String()
}

// statsFragments returns the WITH aggregations and the RETURN map body for
// one property. An empty RETURN fragment drops the property.
func (s *Schema) statsFragments(label string, p Property, opts StatsOptions) ([]string, string) {
	name := p.Name
	switch p.Type {
	case TypeBoolean, TypePoint, TypeDuration:
		return nil, ""

	case TypeInteger, TypeFloat, TypeDate, TypeDateTime, TypeLocalDateTime:
		if opts.Exhaustive || (!opts.Relationship && s.hasRangeIndex(label, name)) {
			return minMaxDistinct(name)
		}
		return []string{
				fmt.Sprintf("collect(distinct toString(n.`%s`)) AS `%s_values`", name, name),
			},
			fmt.Sprintf("values: `%s_values`", name)

	case TypeString:
		if opts.Exhaustive {
			return []string{substringCollect(name)},
				fmt.Sprintf("values: `%s_values`[..%d], distinct_count: size(`%s_values`)",
					name, DistinctValueLimit, name)
		}
		if !opts.Relationship && opts.Fetch != nil {
			if idx, ok := s.rangeIndex(label, name); ok && idx.Size > 0 && idx.DistinctValues <= DistinctValueLimit {
				q := fmt.Sprintf(
					"MATCH (n:`%s`) WHERE n.`%s` IS NOT NULL "+
						"RETURN collect(distinct substring(toString(n.`%s`), 0, 50)) AS value",
					label, name, name)
				if values, err := opts.Fetch(q); err == nil {
					return nil, fmt.Sprintf("values: %s, distinct_count: %d", quotedList(values), len(values))
				}
			}
		}
		return []string{substringCollect(name)}, fmt.Sprintf("values: `%s_values`", name)

	case TypeList:
		return []string{
				fmt.Sprintf("min(size(n.`%s`)) AS `%s_size_min`", name, name),
				fmt.Sprintf("max(size(n.`%s`)) AS `%s_size_max`", name, name),
			},
			fmt.Sprintf("min_size: `%s_size_min`, max_size: `%s_size_max`", name, name)

	default:
		return nil, ""
	}
}

func minMaxDistinct(name string) ([]string, string) {
	return []string{
			fmt.Sprintf("min(n.`%s`) AS `%s_min`", name, name),
			fmt.Sprintf("max(n.`%s`) AS `%s_max`", name, name),
			fmt.Sprintf("count(distinct n.`%s`) AS `%s_distinct`", name, name),
		},
		fmt.Sprintf("min: toString(`%s_min`), max: toString(`%s_max`), distinct_count: `%s_distinct`",
			name, name, name)
}

// substringCollect truncates sampled strings to 50 chars so a single huge
// value cannot blow up the result row.
func substringCollect(name string) string {
	return fmt.Sprintf("collect(distinct substring(toString(n.`%s`), 0, 50)) AS `%s_values`", name, name)
}

func (s *Schema) hasRangeIndex(label, prop string) bool {
	_, ok := s.rangeIndex(label, prop)
	return ok
}
