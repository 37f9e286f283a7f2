package service

import "strings"

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// containsPattern lowercases term and escapes LIKE wildcards so it matches
// literally. Pair it with `LIKE ? ESCAPE '!'`.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(term))) + "%"
}
