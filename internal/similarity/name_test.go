package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFoldName(t *testing.T) {
	tests := map[string]string{
		"For_Loop":     "for loop",
		"my--snippet":  "my snippet",
		"  df.head  ":  "df head",
		"lib!":         "lib",
		"already fine": "already fine",
		"_leading":     "leading",
	}
	for input, want := range tests {
		t.Run(input, func(t *testing.T) {
			assert.Equal(t, want, foldName(input))
		})
	}
}

func TestEditDistance(t *testing.T) {
	assert.Equal(t, 3, editDistance([]rune("kitten"), []rune("sitting")))
	assert.Equal(t, 3, editDistance(nil, []rune("abc")))
	assert.Equal(t, 0, editDistance([]rune("same"), []rune("same")))
	assert.Equal(t, 1, editDistance([]rune("données"), []rune("donnees")))
}

func TestJaroWinkler(t *testing.T) {
	assert.InDelta(t, 0.961, jaroWinkler([]rune("MARTHA"), []rune("MARHTA")), 0.001)
	assert.InDelta(t, 0.0, jaroWinkler([]rune("abc"), []rune("xyz")), 0.001)
	assert.InDelta(t, 0.971, jaroWinkler([]rune("forloop"), []rune("for loop")), 0.001)
}

func TestNameScore(t *testing.T) {
	tests := map[string]struct {
		a, b string
		want float64
	}{
		"separators folded": {a: "for_loop", b: "For-Loop", want: 1},
		"case folded":       {a: "Lib", b: "lib", want: 1},
		"missing separator": {a: "forloop", b: "for loop", want: 0.971},
		"empty":             {a: "", b: "lib", want: 0},
		"punctuation only":  {a: "!!", b: "lib", want: 0},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.InDelta(t, tt.want, NameScore(tt.a, tt.b), 0.001)
		})
	}
}

func TestFindSimilarNames(t *testing.T) {
	entries := []Entry{
		{Language: "r.snippets", Section: "loops", Name: "for_loop", Body: "a"},
		{Language: "r.snippets", Section: "loops", Name: "forloop", Body: "b"},
		{Language: "r.snippets", Section: "loops", Name: "whileloop", Body: "c"},
		{Language: "r.snippets", Section: "misc", Name: "whileloop", Body: "d"},
		{Language: "tex.snippets", Section: "", Name: "for-loop", Body: "e"},
	}

	matches := FindSimilarNames(entries, DefaultNameThreshold)
	if assert.Len(t, matches, 1) {
		assert.Equal(t, "for_loop", matches[0].First.Name)
		assert.Equal(t, "forloop", matches[0].Second.Name)
		assert.Equal(t, KindName, matches[0].Kind)
	}
}
