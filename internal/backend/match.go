package backend

import (
	"regexp"
	"strings"
	"time"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/pders01/mpsh/internal/storage"
)

var (
	// noiseWords are dropped from candidate titles unless the wanted title
	// has them too.
	noiseWords = []string{"official", "original", "vevo", "music", "video", "lyrics", "new", "audio"}

	titlePunct  = regexp.MustCompile(`[\]\[\)\(\-]`)
	titleSpaces = regexp.MustCompile(`\s+`)
)

// BestMatch picks the candidate whose title and duration come closest to
// the wanted track. The score is a percentage, half title similarity and
// half duration agreement.
func BestMatch(candidates []storage.Entry, title string, length time.Duration) (storage.Entry, int) {
	want := strings.ToLower(title)
	var (
		best      storage.Entry
		bestScore = -1.0
	)
	for _, c := range candidates {
		got := cleanTitle(strings.ToLower(c.Title), want)
		score := similarity(want, got)*0.5 + durationScore(length, c.Duration)*0.5
		if score > bestScore {
			best, bestScore = c, score
		}
	}
	if bestScore < 0 {
		return storage.Entry{}, 0
	}
	return best, int(100 * bestScore)
}

func cleanTitle(got, want string) string {
	for _, w := range noiseWords {
		if strings.Contains(got, w) && !strings.Contains(want, w) {
			got = strings.ReplaceAll(got, w, "")
		}
	}
	got = titlePunct.ReplaceAllString(got, " ")
	return titleSpaces.ReplaceAllString(got, " ")
}

func similarity(a, b string) float64 {
	m := difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, ""))
	return m.Ratio()
}

func durationScore(want, got time.Duration) float64 {
	hi := max(want, got)
	if hi <= 0 {
		return 0
	}
	diff := want - got
	if diff < 0 {
		diff = -diff
	}
	return 1 - float64(diff)/float64(hi)
}
