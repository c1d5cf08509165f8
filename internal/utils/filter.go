package utils

import (
	"strings"
	"unicode"
)

// IsCommandName reports whether s can be stored as a command: non-empty,
// no whitespace, no control characters and no '#', which starts a comment
// in text vocabularies.
func IsCommandName(s string) bool {
	if s == "" {
		return false
	}
	return !strings.ContainsFunc(s, func(r rune) bool {
		return r == '#' || unicode.IsSpace(r) || unicode.IsControl(r)
	})
}

// FilterCommandNames keeps the entries accepted by IsCommandName and
// returns them with the rejected ones.
func FilterCommandNames(words []string) (valid, rejected []string) {
	for _, w := range words {
		if IsCommandName(w) {
			valid = append(valid, w)
		} else {
			rejected = append(rejected, w)
		}
	}
	return valid, rejected
}

// RankList returns 1..count, the ranks of an already sorted result list.
func RankList(count int) []uint16 {
	if count <= 0 {
		return []uint16{}
	}
	ranks := make([]uint16, count)
	for i := range ranks {
		ranks[i] = uint16(i + 1)
	}
	return ranks
}
