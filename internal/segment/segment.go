// Package segment splits text into user-perceived characters (grapheme
// clusters) and fixed-size groups of them for the reveal animation.
package segment

import (
	"strings"

	"github.com/rivo/uniseg"
)

// VisibleCharacters returns the grapheme clusters of text in order.
// Emoji sequences and combining marks stay intact.
func VisibleCharacters(text string) []string {
	if text == "" {
		return nil
	}
	chars := make([]string, 0, len(text))
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		chars = append(chars, g.Str())
	}
	return chars
}

// SplitIntoVisibleGroups batches consecutive visible characters into groups
// of groupSize; the last group may be shorter. Concatenating the result
// reproduces text exactly. A groupSize below 1 is treated as 1.
func SplitIntoVisibleGroups(text string, groupSize int) []string {
	if groupSize < 1 {
		groupSize = 1
	}
	chars := VisibleCharacters(text)
	if len(chars) == 0 {
		return nil
	}

	groups := make([]string, 0, (len(chars)+groupSize-1)/groupSize)
	for i := 0; i < len(chars); i += groupSize {
		end := min(i+groupSize, len(chars))
		groups = append(groups, strings.Join(chars[i:end], ""))
	}
	return groups
}

// GroupCount returns len(SplitIntoVisibleGroups(text, groupSize)) without
// building the groups.
func GroupCount(text string, groupSize int) int {
	if groupSize < 1 {
		groupSize = 1
	}
	n := uniseg.GraphemeClusterCount(text)
	return (n + groupSize - 1) / groupSize
}
