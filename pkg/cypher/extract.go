package cypher

import "regexp"

var fencedBlockRe = regexp.MustCompile("(?s)```(.*?)```")

// ExtractCypher pulls the query out of model output. Text wrapped in the
// first triple-backtick fence is returned as-is, language tag and all;
// text without a fence is assumed to be the bare query and returned
// unchanged.
func ExtractCypher(text string) string {
	if m := fencedBlockRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return text
}
