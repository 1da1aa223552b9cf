package picker

import (
	"fmt"
	"sync"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Scorer assigns a fuzzy score to text for a lowercased, non-empty pattern.
// ok is false when pattern is not a subsequence of text.
type Scorer interface {
	Score(text string, pattern []rune) (score int, ok bool)
}

// Algorithm names a Scorer implementation.
type Algorithm string

const (
	AlgorithmFzf         Algorithm = "fzf"
	AlgorithmLevenshtein Algorithm = "levenshtein"
)

// NewScorer returns the scorer registered under name.
func NewScorer(name Algorithm) (Scorer, error) {
	switch name {
	case "", AlgorithmFzf:
		return NewFzfScorer(), nil
	case AlgorithmLevenshtein:
		return LevenshteinScorer{}, nil
	default:
		return nil, fmt.Errorf("unknown match algorithm %q", name)
	}
}

const (
	slab16Size = 100 * 1024
	slab32Size = 2048
)

var initAlgo sync.Once

// FzfScorer ranks with fzf's optimal subsequence algorithm using its path
// scoring scheme. It reuses one slab between calls and is not safe for
// concurrent use.
type FzfScorer struct {
	slab *util.Slab
}

func NewFzfScorer() *FzfScorer {
	initAlgo.Do(func() {
		algo.Init("path")
	})
	return &FzfScorer{slab: util.MakeSlab(slab16Size, slab32Size)}
}

func (s *FzfScorer) Score(text string, pattern []rune) (int, bool) {
	chars := util.ToChars([]byte(text))
	res, _ := algo.FuzzyMatchV2(false, false, true, &chars, pattern, false, s.slab)
	if res.Start < 0 {
		return 0, false
	}
	return res.Score, true
}

// LevenshteinScorer keeps subsequence matches and prefers the ones with the
// smallest edit distance.
type LevenshteinScorer struct{}

func (LevenshteinScorer) Score(text string, pattern []rune) (int, bool) {
	distance := fuzzy.RankMatchFold(string(pattern), text)
	if distance < 0 {
		return 0, false
	}
	return -distance, true
}
