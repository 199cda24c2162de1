// Low-level byte scanning for Cypher text.
//
// Everything here operates on raw bytes with explicit quote and escape
// tracking. Regexes are deliberately avoided: the pattern scanner needs
// exact byte offsets for splicing, and a mask plus hand-rolled scanners
// keeps offsets honest in the presence of quotes, backticks, and nesting.

package cypher

import "strings"

// stringLiteralMask reports, per byte, whether the byte sits inside a
// single- or double-quoted string literal (quotes included). Escaped quotes
// do not terminate the literal.
func stringLiteralMask(s string) []bool {
	mask := make([]bool, len(s))
	inString := false
	stringChar := byte(0)

	for i := 0; i < len(s); i++ {
		c := s[i]

		if c == '\\' && i+1 < len(s) {
			if inString {
				mask[i] = true
				mask[i+1] = true
			}
			i++
			continue
		}

		if c == '\'' || c == '"' {
			if !inString {
				inString = true
				stringChar = c
				mask[i] = true
			} else if c == stringChar {
				mask[i] = true
				inString = false
				stringChar = 0
			} else {
				// Different quote type inside the string.
				mask[i] = true
			}
			continue
		}

		if inString {
			mask[i] = true
		}
	}
	return mask
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// skipSpace returns the index of the first non-whitespace byte at or after i.
func skipSpace(s string, i int) int {
	for i < len(s) && isSpaceByte(s[i]) {
		i++
	}
	return i
}

func isWordByte(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

// isNameToken reports whether s can name a variable, label, or relationship
// type: a plain identifier (letter or underscore first) or a backtick-quoted
// run.
func isNameToken(s string) bool {
	if len(s) >= 2 && s[0] == '`' && s[len(s)-1] == '`' {
		return !strings.Contains(s[1:len(s)-1], "`")
	}
	if s == "" {
		return false
	}
	c := s[0]
	if c != '_' && (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isWordByte(s[i]) {
			return false
		}
	}
	return true
}

func stripBackticks(s string) string {
	return strings.ReplaceAll(s, "`", "")
}

// matchingParen returns the index just past the ')' closing the '(' at
// open. Nested parens and quoted stretches (property values) are walked,
// not counted.
func matchingParen(s string, open int) (int, bool) {
	depth := 0
	inString := false
	quote := byte(0)
	for i := open; i < len(s); i++ {
		c := s[i]
		if inString {
			if c == '\\' {
				i++
				continue
			}
			if c == quote {
				inString = false
			}
			continue
		}
		switch c {
		case '\'', '"':
			inString = true
			quote = c
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i + 1, true
			}
		}
	}
	return 0, false
}

// closingBracket returns the index just past the ']' closing the '[' at
// open. Array literals inside relationship properties nest.
func closingBracket(s string, open int) (int, bool) {
	depth := 0
	inString := false
	quote := byte(0)
	for i := open; i < len(s); i++ {
		c := s[i]
		if inString {
			if c == '\\' {
				i++
				continue
			}
			if c == quote {
				inString = false
			}
			continue
		}
		switch c {
		case '\'', '"':
			inString = true
			quote = c
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i + 1, true
			}
		}
	}
	return 0, false
}

// splitOutsideBackticks splits s on sep, ignoring separators inside
// backtick-quoted runs.
func splitOutsideBackticks(s string, sep byte) []string {
	var parts []string
	start := 0
	inTick := false
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '`':
			inTick = !inTick
		case s[i] == sep && !inTick:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

// indexOutsideBackticks returns the index of the first sep outside
// backtick-quoted runs, or -1.
func indexOutsideBackticks(s string, sep byte) int {
	inTick := false
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '`':
			inTick = !inTick
		case s[i] == sep && !inTick:
			return i
		}
	}
	return -1
}

func containsStr(list []string, s string) bool {
	for _, el := range list {
		if el == s {
			return true
		}
	}
	return false
}
