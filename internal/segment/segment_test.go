package segment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitIntoVisibleGroups(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		groupSize int
		want      []string
	}{
		{"empty", "", 3, nil},
		{"exact", "abcdef", 3, []string{"abc", "def"}},
		{"short tail", "abcdefg", 3, []string{"abc", "def", "g"}},
		{"group larger than text", "ab", 8, []string{"ab"}},
		{"zero group size treated as one", "ab", 0, []string{"a", "b"}},
		{"flag emoji stays whole", "a🇯🇵b", 2, []string{"a🇯🇵", "b"}},
		{"family emoji stays whole", "👨‍👩‍👧x", 1, []string{"👨‍👩‍👧", "x"}},
		{"combining mark stays whole", "e\u0301a", 1, []string{"e\u0301", "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitIntoVisibleGroups(tt.text, tt.groupSize))
		})
	}
}

func TestSplitRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"plain ascii text",
		"日本語のテキストとEnglishの混在",
		"emoji 🎸🎤 and skin tones 👍🏽 with ZWJ 👩‍💻",
		"line one\nline two\r\nline three",
		"cafe\u0301 na\u0308ive",
	}

	for _, in := range inputs {
		for size := 1; size <= 9; size++ {
			groups := SplitIntoVisibleGroups(in, size)
			require.Equal(t, in, strings.Join(groups, ""), "size %d", size)
			assert.Equal(t, len(groups), GroupCount(in, size), "size %d", size)

			for i, g := range groups {
				n := len(VisibleCharacters(g))
				if i < len(groups)-1 {
					assert.Equal(t, size, n, "group %d of %q", i, in)
				} else {
					assert.LessOrEqual(t, n, size)
				}
			}
		}
	}
}

func TestVisibleCharactersEmpty(t *testing.T) {
	if got := VisibleCharacters(""); got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}
	if got := GroupCount("", 4); got != 0 {
		t.Errorf("expected 0 groups, got %d", got)
	}
}
