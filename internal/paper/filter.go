// Package paper implements the paper-generation pipeline: filtering the
// corpus, exclusion-aware seeded selection, assembly into printable
// question/answer artifacts, and the single-slot answer-key state consumed
// by answer-sheet comparison.
package paper

import (
	"strings"
	"unicode"
)

// Normalize lowercases s and collapses every run of non-alphanumeric
// characters to a single space. All text comparison in this package goes
// through it, so "Longitudinal  Wave" and "longitudinal-wave" compare equal.
func Normalize(s string) string {
	out := make([]rune, 0, len(s))
	space := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if space && len(out) > 0 {
				out = append(out, ' ')
			}
			space = false
			out = append(out, unicode.ToLower(r))
		} else {
			space = true
		}
	}
	return string(out)
}

// SplitList parses a comma-separated multi-value parameter into trimmed,
// non-empty tokens.
func SplitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Criteria narrows the corpus. Empty fields do not filter: an absent
// dimension must never exclude everything.
type Criteria struct {
	Exam       string
	Standards  []string // OR within the dimension
	Subjects   []string // OR within the dimension
	Chapters   []string // OR, substring match on normalized chapter
	Difficulty string
	Search     string
}

// Match reports whether q satisfies every provided dimension (AND across
// dimensions, OR within one).
func (c Criteria) Match(q Record) bool {
	if c.Exam != "" && Normalize(q.Exam) != Normalize(c.Exam) {
		return false
	}
	if !matchAnyExact(q.Standard, c.Standards) {
		return false
	}
	if !matchAnyExact(q.Subject, c.Subjects) {
		return false
	}
	if len(c.Chapters) > 0 {
		qChap := Normalize(q.Chapter)
		ok := false
		for _, want := range c.Chapters {
			if w := Normalize(want); w != "" && strings.Contains(qChap, w) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if c.Difficulty != "" && Normalize(q.Difficulty) != Normalize(c.Difficulty) {
		return false
	}
	if term := Normalize(c.Search); term != "" {
		blob := Normalize(strings.Join(append([]string{q.Question, q.Answer, q.Chapter}, q.Options...), " "))
		if !strings.Contains(blob, term) {
			return false
		}
	}
	return true
}

func matchAnyExact(have string, want []string) bool {
	if len(want) == 0 {
		return true
	}
	h := Normalize(have)
	for _, w := range want {
		if Normalize(w) == h {
			return true
		}
	}
	return false
}

// Filter returns the records matching c, preserving corpus order.
func Filter(corpus []Record, c Criteria) []Record {
	out := make([]Record, 0, len(corpus))
	for _, q := range corpus {
		if c.Match(q) {
			out = append(out, q)
		}
	}
	return out
}
