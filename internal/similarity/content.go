package similarity

import (
	"log/slog"
	"strings"

	"github.com/klauern/snipsync/internal/logging"
)

// DefaultBodyThreshold is the body score at which two snippets are reported.
const DefaultBodyThreshold = 0.9

// FindSimilarBodies returns every pair of entries in the same language whose
// bodies score at least threshold under BodyScore.
func FindSimilarBodies(entries []Entry, threshold float64) []Match {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultBodyThreshold
	}
	matches := pairs(entries, KindContent, threshold, func(a, b Entry) float64 {
		return BodyScore(a.Body, b.Body)
	})
	logging.Debug("compared snippet bodies",
		logging.Operation("content_similarity"),
		logging.Count(len(entries)),
		slog.Float64("threshold", threshold),
		slog.Int("matches_found", len(matches)),
	)
	return matches
}

// BodyScore compares two snippet bodies line by line and returns a score in
// [0, 1]: the better of the in-order overlap (longest common subsequence of
// lines over the longer body) and the overlap of the sets of distinct
// non-blank lines. Indentation is ignored by the set comparison only.
func BodyScore(a, b string) float64 {
	if a == b {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	la, lb := strings.Split(a, "\n"), strings.Split(b, "\n")
	ordered := float64(commonLines(la, lb)) / float64(max(len(la), len(lb)))
	return max(ordered, lineSetOverlap(la, lb))
}

// commonLines is the length of the longest common subsequence of a and b.
func commonLines(a, b []string) int {
	if len(b) > len(a) {
		a, b = b, a
	}
	row := make([]int, len(b)+1)
	for _, x := range a {
		diag := 0
		for j, y := range b {
			up := row[j+1]
			if x == y {
				row[j+1] = diag + 1
			} else if row[j] > row[j+1] {
				row[j+1] = row[j]
			}
			diag = up
		}
	}
	return row[len(b)]
}

// lineSetOverlap is |A ∩ B| / |A ∪ B| over the trimmed non-blank lines.
func lineSetOverlap(a, b []string) float64 {
	sa, sb := lineSet(a), lineSet(b)
	if len(sa) == 0 || len(sb) == 0 {
		return 0
	}
	shared := 0
	for line := range sa {
		if _, ok := sb[line]; ok {
			shared++
		}
	}
	return float64(shared) / float64(len(sa)+len(sb)-shared)
}

func lineSet(lines []string) map[string]struct{} {
	set := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			set[line] = struct{}{}
		}
	}
	return set
}
