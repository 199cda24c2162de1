package cypher

import (
	"strings"

	"go.uber.org/zap"

	"github.com/orneryd/vordr/pkg/schema"
)

// Corrector rewrites relationship directions in a query so that every
// segment agrees with a whitelist of (start, type, end) triples, or rejects
// the query when no agreeing orientation exists.
type Corrector struct {
	triples []schema.Triple
	logger  *zap.Logger
}

// CorrectorOption configures a Corrector.
type CorrectorOption func(*Corrector)

// WithLogger sets the logger used for discard diagnostics.
func WithLogger(logger *zap.Logger) CorrectorOption {
	return func(c *Corrector) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCorrector builds a Corrector over the given whitelist. Backticks and
// surrounding whitespace in triple fields are stripped so whitelist entries
// compare equal to scanned labels and types.
func NewCorrector(triples []schema.Triple, opts ...CorrectorOption) *Corrector {
	c := &Corrector{
		triples: make([]schema.Triple, 0, len(triples)),
		logger:  zap.NewNop(),
	}
	for _, t := range triples {
		c.triples = append(c.triples, schema.Triple{
			Start: cleanName(t.Start),
			Type:  cleanName(t.Type),
			End:   cleanName(t.End),
		})
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func cleanName(s string) string {
	return stripBackticks(strings.TrimSpace(s))
}

// Correct returns the query with every relationship segment oriented per
// the whitelist. The second return is false when some segment matches the
// whitelist in no orientation at all; such a query asks for a relationship
// that cannot exist and is discarded rather than repaired.
//
// # Correction Rules
//
// Per segment, the whitelist is consulted twice: once reading the segment
// left to right (forward) and once right to left (backward).
//
//	directed, written orientation matches  - left unchanged
//	directed, only the reverse matches     - arrow flipped
//	undirected, both orientations match    - left undirected
//	undirected, exactly one matches        - arrow added for that one
//	no orientation matches                 - query discarded
//
// Variable-length segments are never rewritten. An empty whitelist accepts
// every query byte-for-byte. Unlabeled nodes and untyped relationships act
// as wildcards, as does a node whose variable is labeled elsewhere in the
// query only through its accumulated bindings.
//
// Rewrites touch only the connector bytes between the two node patterns,
// and only to add or remove the '<' and '>' arrow heads. Whitespace,
// bracket contents, and both node patterns survive untouched.
func (c *Corrector) Correct(query string) (string, bool) {
	if len(c.triples) == 0 {
		return query, true
	}

	segments, bindings := scan(query)

	type edit struct {
		start, end int
		text       string
	}
	var edits []edit

	for _, seg := range segments {
		if seg.Rel.VarLength {
			continue
		}
		left := effectiveLabels(seg.Left, bindings)
		right := effectiveLabels(seg.Right, bindings)
		forward := c.matches(left, seg.Rel.Types, right)
		backward := c.matches(right, seg.Rel.Types, left)

		target := seg.Direction
		switch seg.Direction {
		case DirectionOutgoing:
			if forward {
				continue
			}
			if !backward {
				c.discard(seg, left, right)
				return "", false
			}
			target = DirectionIncoming
		case DirectionIncoming:
			if backward {
				continue
			}
			if !forward {
				c.discard(seg, left, right)
				return "", false
			}
			target = DirectionOutgoing
		default:
			if forward && backward {
				continue
			}
			if forward {
				target = DirectionOutgoing
			} else if backward {
				target = DirectionIncoming
			} else {
				c.discard(seg, left, right)
				return "", false
			}
		}

		conn := query[seg.ConnStart:seg.ConnEnd]
		edits = append(edits, edit{
			start: seg.ConnStart,
			end:   seg.ConnEnd,
			text:  rewriteConnector(conn, target),
		})
	}

	if len(edits) == 0 {
		return query, true
	}

	// Segments arrive in scan order, so edit spans ascend and never overlap.
	var b strings.Builder
	b.Grow(len(query) + len(edits))
	last := 0
	for _, e := range edits {
		b.WriteString(query[last:e.start])
		b.WriteString(e.text)
		last = e.end
	}
	b.WriteString(query[last:])
	return b.String(), true
}

func (c *Corrector) discard(seg Segment, left, right []string) {
	c.logger.Debug("relationship not in whitelist",
		zap.Strings("left", left),
		zap.Strings("types", seg.Rel.Types),
		zap.Strings("right", right),
		zap.String("direction", seg.Direction.String()),
	)
}

// effectiveLabels resolves the labels a node pattern stands for: its own
// labels when written inline, otherwise whatever labels its variable
// accumulated elsewhere in the query. An empty result is a wildcard.
func effectiveLabels(n Node, bindings map[string][]string) []string {
	if len(n.Labels) > 0 {
		return n.Labels
	}
	if n.Variable != "" {
		return bindings[n.Variable]
	}
	return nil
}

// matches reports whether any whitelist triple is consistent with the given
// start labels, relationship types, and end labels. An empty list on either
// side, or no relationship types, matches every triple field.
func (c *Corrector) matches(starts, types, ends []string) bool {
	for _, t := range c.triples {
		if len(starts) > 0 && !containsStr(starts, t.Start) {
			continue
		}
		if len(types) > 0 && !containsStr(types, t.Type) {
			continue
		}
		if len(ends) > 0 && !containsStr(ends, t.End) {
			continue
		}
		return true
	}
	return false
}

// rewriteConnector re-arrows the connector text for the target direction.
// Only the '<' and '>' at the edges of the trimmed connector change; inner
// whitespace and the bracket detail pass through verbatim.
func rewriteConnector(conn string, dir Direction) string {
	a := 0
	for a < len(conn) && isSpaceByte(conn[a]) {
		a++
	}
	b := len(conn)
	for b > a && isSpaceByte(conn[b-1]) {
		b--
	}
	core := conn[a:b]
	core = strings.TrimPrefix(core, "<")
	core = strings.TrimSuffix(core, ">")
	switch dir {
	case DirectionOutgoing:
		core += ">"
	case DirectionIncoming:
		core = "<" + core
	}
	return conn[:a] + core + conn[b:]
}
