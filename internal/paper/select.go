package paper

import (
	"github.com/bisugen/papergen/internal/bank"
	"github.com/bisugen/papergen/internal/seedrand"
)

// Record is the corpus record the pipeline operates on.
type Record = bank.Question

// Selection bounds. Over-requesting is clamped, never an error.
const (
	minCount = 1
	maxCount = 1000
)

// ExclusionSet tracks composite keys already present in a paper.
type ExclusionSet map[string]struct{}

func NewExclusionSet(keys ...string) ExclusionSet {
	set := make(ExclusionSet, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}

func (s ExclusionSet) Has(key string) bool { _, ok := s[key]; return ok }
func (s ExclusionSet) Add(key string)      { s[key] = struct{}{} }

// Select drops records whose composite key is excluded, shuffles the
// survivors deterministically with seed, and returns at most count records. The
// exclusion set is caller-owned and not modified; Select holds no state of
// its own, which is what makes replacement rounds testable.
func Select(pool []Record, excluded ExclusionSet, count int, seed string) []Record {
	if count < minCount {
		count = minCount
	}
	if count > maxCount {
		count = maxCount
	}

	candidates := make([]Record, 0, len(pool))
	for _, q := range pool {
		if !excluded.Has(q.CompositeKey()) {
			candidates = append(candidates, q)
		}
	}
	seedrand.Shuffle(candidates, seed)

	if count > len(candidates) {
		count = len(candidates)
	}
	return candidates[:count]
}

// ReplacementRequest asks for count fresh questions from one chapter.
type ReplacementRequest struct {
	Chapter string `json:"chapter"`
	Count   int    `json:"count"`
}

// ReplacementResult reports a whole replacement batch. Partial fulfillment
// is success: TotalFound may be less than TotalRequested.
type ReplacementResult struct {
	Questions      []Record `json:"replacementQuestions"`
	TotalRequested int      `json:"totalRequested"`
	TotalFound     int      `json:"totalFound"`
}

// Replace serves a batch of per-chapter replacement requests against the
// corpus. Each request is filtered to its chapter plus the shared
// exam/standard/subject context and drawn from a freshly seeded shuffle;
// selected keys join the exclusion set before the next request runs, so one
// batch never hands out duplicates across chapters. Requests with an empty
// chapter are skipped; requests with an empty pool contribute nothing.
func Replace(corpus []Record, ctx Criteria, used ExclusionSet, reqs []ReplacementRequest) ReplacementResult {
	res := ReplacementResult{Questions: []Record{}}
	for _, req := range reqs {
		count := req.Count
		if count <= 0 {
			count = 1
		}
		res.TotalRequested += count

		if req.Chapter == "" {
			continue
		}
		chapterCtx := ctx
		chapterCtx.Chapters = []string{req.Chapter}

		pool := Filter(corpus, chapterCtx)
		batch := Select(pool, used, count, seedrand.MakeSeed())
		for _, q := range batch {
			used.Add(q.CompositeKey())
			res.Questions = append(res.Questions, q)
		}
	}
	res.TotalFound = len(res.Questions)
	return res
}
