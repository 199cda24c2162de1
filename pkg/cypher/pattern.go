// Path-pattern scanning for Cypher text.
//
// # Pattern Syntax
//
// Relationship segments connect two node patterns:
//
//	(a:Person)-[r:KNOWS]->(b:Person)   - Directed, left to right
//	(a:Person)<-[r:KNOWS]-(b:Person)   - Directed, right to left
//	(a)-[r:KNOWS]-(b)                  - Undirected
//	(a)-->(b), (a)<--(b), (a)--(b)     - Bare arrows, no bracket
//	(a)-[:KNOWS|LIKES]->(b)            - Type alternation
//	(a)-[r:KNOWS*1..3]->(b)            - Variable length
//	(a)-[:X]->(b)<-[:Y]-(c)            - Chain sharing node b
//
// # Scanning Process
//
//  1. Walk the query bytes, skipping string literals via stringLiteralMask.
//  2. At each '(' that is not a function call, try to read a node pattern.
//  3. After a node, try to read a connector and the next node; repeat while
//     the chain continues.
//  4. Fold every named, labeled node into the variable binding map.
//
// Every node and connector records its half-open byte span in the source
// text. Direction correction rewrites connector spans only, so shared
// nodes in a chain and all surrounding text survive byte-for-byte.
//
// # ELI12
//
// A query like "(alice)-[:KNOWS]->(bob)" is a little picture: two circles
// and an arrow. The scanner finds every circle-arrow-circle in the text and
// writes down exactly which bytes the arrow occupies, so that later we can
// turn just the arrow around without redrawing the circles.
package cypher

import "strings"

// Direction of a relationship segment as written in the query text.
type Direction int

const (
	DirectionUndirected Direction = iota
	DirectionOutgoing
	DirectionIncoming
)

func (d Direction) String() string {
	switch d {
	case DirectionOutgoing:
		return "outgoing"
	case DirectionIncoming:
		return "incoming"
	default:
		return "undirected"
	}
}

// Node is one parenthesized node pattern. Start and End are byte offsets
// into the scanned query spanning '(' up to just past ')'. Labels carry no
// backticks.
type Node struct {
	Raw      string
	Variable string
	Labels   []string
	Start    int
	End      int
}

// Relationship is the bracket detail of a segment. Raw includes the
// brackets and is empty for bare arrows like -->. Types carry no backticks
// and no leading colon.
type Relationship struct {
	Raw       string
	Variable  string
	Types     []string
	VarLength bool
}

// Segment is one relationship between two adjacent node patterns. ConnStart
// and ConnEnd delimit the connector text between the nodes, the only region
// direction correction may rewrite.
type Segment struct {
	Left      Node
	Right     Node
	Rel       Relationship
	Direction Direction
	ConnStart int
	ConnEnd   int
}

// Parse returns every relationship segment in query, in scan order. Text
// inside string literals is ignored, and parentheses that do not contain a
// node pattern (function calls, arithmetic, subquery grouping) are skipped.
func Parse(query string) []Segment {
	segments, _ := scan(query)
	return segments
}

// scan walks the query once, returning segments plus the variable-to-labels
// binding map accumulated from every node pattern, segment member or not.
func scan(query string) ([]Segment, map[string][]string) {
	mask := stringLiteralMask(query)
	bindings := make(map[string][]string)
	var segments []Segment

	pos := 0
	for pos < len(query) {
		if query[pos] != '(' || mask[pos] || callToken(query, pos) {
			pos++
			continue
		}
		node, ok := parseNodeAt(query, pos)
		if !ok {
			pos++
			continue
		}
		bind(bindings, node)

		left := node
		for {
			seg, ok := connectFrom(query, mask, left)
			if !ok {
				break
			}
			bind(bindings, seg.Right)
			segments = append(segments, seg)
			left = seg.Right
		}
		pos = left.End
	}
	return segments, bindings
}

// callToken reports whether the '(' at i belongs to a function call or
// keyword, i.e. is directly preceded by an identifier byte: count(, exists(.
func callToken(s string, i int) bool {
	return i > 0 && isWordByte(s[i-1])
}

func parseNodeAt(s string, open int) (Node, bool) {
	end, ok := matchingParen(s, open)
	if !ok {
		return Node{}, false
	}
	content := s[open+1 : end-1]
	variable, labels, ok := parseNodeContent(content)
	if !ok {
		return Node{}, false
	}
	return Node{
		Raw:      content,
		Variable: variable,
		Labels:   labels,
		Start:    open,
		End:      end,
	}, true
}

// parseNodeContent splits "variable:Label1:Label2 {props}" into its parts.
// Empty content is an anonymous node. Content that cannot be a node pattern
// (arithmetic, expressions, nested patterns) reports false.
func parseNodeContent(content string) (string, []string, bool) {
	head := content
	if i := strings.IndexByte(content, '{'); i >= 0 {
		head = content[:i]
	}
	head = strings.TrimSpace(head)
	if head == "" {
		return "", nil, true
	}

	parts := splitOutsideBackticks(head, ':')
	variable := strings.TrimSpace(parts[0])
	if variable != "" && !isNameToken(variable) {
		return "", nil, false
	}
	var labels []string
	for _, part := range parts[1:] {
		label := strings.TrimSpace(part)
		if !isNameToken(label) {
			return "", nil, false
		}
		labels = append(labels, stripBackticks(label))
	}
	return stripBackticks(variable), labels, true
}

// connectFrom reads the connector and right-hand node that follow left.
// Connector grammar, whitespace tolerated between tokens:
//
//	'<'? '-' '[' detail ']'? '-' '>'?
//
// A lone dash is not a connector; that keeps "(a) - (b)" arithmetic.
func connectFrom(s string, mask []bool, left Node) (Segment, bool) {
	i := skipSpace(s, left.End)
	if i >= len(s) || mask[i] {
		return Segment{}, false
	}

	incoming := false
	switch s[i] {
	case '<':
		if i+1 >= len(s) || s[i+1] != '-' {
			return Segment{}, false
		}
		incoming = true
		i += 2
	case '-':
		i++
	default:
		return Segment{}, false
	}

	i = skipSpace(s, i)
	var rel Relationship
	if i < len(s) && s[i] == '[' {
		end, ok := closingBracket(s, i)
		if !ok {
			return Segment{}, false
		}
		rel, ok = parseRelDetail(s[i:end])
		if !ok {
			return Segment{}, false
		}
		i = skipSpace(s, end)
	}

	if i >= len(s) || s[i] != '-' {
		return Segment{}, false
	}
	i++
	outgoing := false
	if i < len(s) && s[i] == '>' {
		outgoing = true
		i++
	}

	j := skipSpace(s, i)
	if j >= len(s) || s[j] != '(' || mask[j] {
		return Segment{}, false
	}
	right, ok := parseNodeAt(s, j)
	if !ok {
		return Segment{}, false
	}

	// A '<' head wins over a '>' tail, mirroring how the arrow reads.
	direction := DirectionUndirected
	if incoming {
		direction = DirectionIncoming
	} else if outgoing {
		direction = DirectionOutgoing
	}

	return Segment{
		Left:      left,
		Right:     right,
		Rel:       rel,
		Direction: direction,
		ConnStart: left.End,
		ConnEnd:   right.Start,
	}, true
}

// parseRelDetail parses the bracket body: "[variable:TYPE|TYPE2*1..3
// {props}]". Properties and hop ranges are recognized but not modeled; the
// hop marker only flags the segment variable-length.
func parseRelDetail(raw string) (Relationship, bool) {
	rel := Relationship{Raw: raw}
	inner := raw[1 : len(raw)-1]

	if i := strings.IndexByte(inner, '{'); i >= 0 {
		inner = inner[:i]
	}
	if i := strings.IndexByte(inner, '*'); i >= 0 {
		rel.VarLength = true
		inner = inner[:i]
	}
	inner = strings.TrimSpace(inner)
	if inner == "" {
		return rel, true
	}

	head := inner
	typesPart := ""
	hasTypes := false
	if i := indexOutsideBackticks(inner, ':'); i >= 0 {
		head = inner[:i]
		typesPart = inner[i+1:]
		hasTypes = true
	}
	head = strings.TrimSpace(head)
	if head != "" && !isNameToken(head) {
		return Relationship{}, false
	}
	rel.Variable = stripBackticks(head)

	if hasTypes {
		for _, t := range splitOutsideBackticks(typesPart, '|') {
			t = strings.TrimSpace(t)
			t = strings.TrimPrefix(t, ":")
			t = stripBackticks(strings.TrimSpace(t))
			if t == "" {
				continue
			}
			rel.Types = append(rel.Types, t)
		}
	}
	return rel, true
}

// bind folds a node's labels into the variable binding map. Labels
// accumulate across the whole query; a later (n:Other) adds to, never
// replaces, an earlier (n:Person).
func bind(bindings map[string][]string, n Node) {
	if n.Variable == "" || len(n.Labels) == 0 {
		return
	}
	known := bindings[n.Variable]
	for _, label := range n.Labels {
		if !containsStr(known, label) {
			known = append(known, label)
		}
	}
	bindings[n.Variable] = known
}
