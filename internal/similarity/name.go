package similarity

import (
	"log/slog"
	"strings"
	"unicode"

	"github.com/klauern/snipsync/internal/logging"
)

// DefaultNameThreshold is the name score at which two snippets are reported.
const DefaultNameThreshold = 0.9

// FindSimilarNames returns every pair of entries in the same language whose
// names score at least threshold under NameScore. A name repeated in two
// sections is left to the validator.
func FindSimilarNames(entries []Entry, threshold float64) []Match {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultNameThreshold
	}
	matches := pairs(entries, KindName, threshold, func(a, b Entry) float64 {
		if a.Name == b.Name {
			return 0
		}
		return NameScore(a.Name, b.Name)
	})
	logging.Debug("compared snippet names",
		logging.Operation("name_similarity"),
		logging.Count(len(entries)),
		slog.Float64("threshold", threshold),
		slog.Int("matches_found", len(matches)),
	)
	return matches
}

// NameScore compares two trigger names after folding case and separators,
// so "for_loop", "For-Loop" and "for loop" are equal. The score is the
// better of the edit-distance ratio and Jaro-Winkler.
func NameScore(a, b string) float64 {
	a, b = foldName(a), foldName(b)
	if a == b {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	ra, rb := []rune(a), []rune(b)
	edits := 1 - float64(editDistance(ra, rb))/float64(max(len(ra), len(rb)))
	return max(edits, jaroWinkler(ra, rb))
}

// foldName lower-cases s, drops punctuation and turns each run of "-", "_",
// "." or spaces into one space.
func foldName(s string) string {
	var b strings.Builder
	gap := false
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if gap && b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteRune(r)
			gap = false
		case r == '-' || r == '_' || r == '.' || unicode.IsSpace(r):
			gap = true
		}
	}
	return b.String()
}

// editDistance is the Levenshtein distance between a and b.
func editDistance(a, b []rune) int {
	row := make([]int, len(b)+1)
	for j := range row {
		row[j] = j
	}
	for i, x := range a {
		diag := row[0]
		row[0] = i + 1
		for j, y := range b {
			up := row[j+1]
			cost := 1
			if x == y {
				cost = 0
			}
			row[j+1] = min(up+1, row[j]+1, diag+cost)
			diag = up
		}
	}
	return row[len(b)]
}

// jaroWinkler scores a and b with the Jaro similarity, boosted by 0.1 per
// shared leading rune up to four.
func jaroWinkler(a, b []rune) float64 {
	window := max(0, max(len(a), len(b))/2-1)
	usedA := make([]bool, len(a))
	usedB := make([]bool, len(b))

	matched := 0
	for i, x := range a {
		for j := max(0, i-window); j < min(len(b), i+window+1); j++ {
			if !usedB[j] && b[j] == x {
				usedA[i], usedB[j] = true, true
				matched++
				break
			}
		}
	}
	if matched == 0 {
		return 0
	}

	outOfOrder, k := 0, 0
	for i, x := range a {
		if !usedA[i] {
			continue
		}
		for !usedB[k] {
			k++
		}
		if x != b[k] {
			outOfOrder++
		}
		k++
	}

	m := float64(matched)
	jaro := (m/float64(len(a)) + m/float64(len(b)) + (m-float64(outOfOrder/2))/m) / 3

	prefix := 0
	for prefix < min(4, len(a), len(b)) && a[prefix] == b[prefix] {
		prefix++
	}
	return jaro + float64(prefix)*0.1*(1-jaro)
}
