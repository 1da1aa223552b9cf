package picker

import (
	"cmp"
	"container/heap"
	"slices"
	"strings"
)

// Ranked is one surviving candidate: its position in the item store and score.
type Ranked struct {
	Index int
	Score int
}

// Matcher selects the best K candidates for a query.
type Matcher struct {
	scorer Scorer
	limit  int
}

// NewMatcher returns a matcher keeping at most limit results.
func NewMatcher(scorer Scorer, limit int) *Matcher {
	if limit < 1 {
		limit = 1
	}
	return &Matcher{scorer: scorer, limit: limit}
}

// Limit is the maximum number of results Rank returns.
func (m *Matcher) Limit() int {
	return m.limit
}

// Rank scores every text against query and returns the top results sorted by
// descending score, earlier store positions first on ties. An empty query
// gives every text the neutral score 0, so the first K texts are returned.
func (m *Matcher) Rank(texts []string, query string) []Ranked {
	pattern := []rune(strings.ToLower(query))
	h := make(rankHeap, 0, m.limit)
	for i, text := range texts {
		score := 0
		if len(pattern) > 0 {
			var ok bool
			score, ok = m.scorer.Score(text, pattern)
			if !ok {
				continue
			}
		}
		if len(h) < m.limit {
			heap.Push(&h, Ranked{Index: i, Score: score})
			continue
		}
		if score > h[0].Score {
			h[0] = Ranked{Index: i, Score: score}
			heap.Fix(&h, 0)
		}
	}
	out := []Ranked(h)
	slices.SortFunc(out, func(a, b Ranked) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Index, b.Index)
	})
	return out
}

// rankHeap is a min-heap whose root is the weakest survivor: lowest score,
// and among equal scores the latest store position.
type rankHeap []Ranked

func (h rankHeap) Len() int { return len(h) }

func (h rankHeap) Less(i, j int) bool {
	if h[i].Score != h[j].Score {
		return h[i].Score < h[j].Score
	}
	return h[i].Index > h[j].Index
}

func (h rankHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *rankHeap) Push(x any) { *h = append(*h, x.(Ranked)) }

func (h *rankHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
