package paper

import (
	"fmt"
	"strings"
)

// Layout selects how assembled questions split into the two print columns.
type Layout string

const (
	// LayoutInterleaved alternates rows: Q1,Q3,Q5... left, Q2,Q4,Q6... right.
	LayoutInterleaved Layout = "interleaved"
	// LayoutHalves puts the first half left and the second half right.
	LayoutHalves Layout = "contiguous-halves"
)

// optionLetters caps how many options can appear on an OMR sheet.
var optionLetters = []string{"A", "B", "C", "D"}

// Numbered pairs a record with its display number: the 1-based position in
// the pre-split selection. Replacing a question in place keeps its number.
type Numbered struct {
	N int
	Record
}

// Artifact is the assembled paper content handed to persistence and the UI.
type Artifact struct {
	QuestionsText string `json:"paper_questions"`
	AnswersText   string `json:"paper_answers"`
	TotalMarks    int    `json:"marks"`
}

// Assemble renders the selected questions into plain-text question and
// answer artifacts and totals the marks (missing marks count as 1).
func Assemble(selected []Record) Artifact {
	var qb, ab strings.Builder
	total := 0
	for i, q := range selected {
		n := i + 1
		marks := q.Marks
		if marks <= 0 {
			marks = 1
		}
		total += marks

		fmt.Fprintf(&qb, "Q%d. %s (%d marks)\n", n, q.Question, marks)
		for j, opt := range q.Options {
			fmt.Fprintf(&qb, "   %s) %s\n", optionLetter(j), opt)
		}
		qb.WriteString("\n")

		fmt.Fprintf(&ab, "Q%d. %s\n", n, q.Answer)
		if q.Solution != "" {
			fmt.Fprintf(&ab, "     %s\n", q.Solution)
		}
	}
	return Artifact{
		QuestionsText: qb.String(),
		AnswersText:   ab.String(),
		TotalMarks:    total,
	}
}

// SplitColumns distributes the selection over two columns while keeping the
// original display numbers.
func SplitColumns(selected []Record, layout Layout) (left, right []Numbered) {
	switch layout {
	case LayoutHalves:
		mid := (len(selected) + 1) / 2
		for i, q := range selected {
			item := Numbered{N: i + 1, Record: q}
			if i < mid {
				left = append(left, item)
			} else {
				right = append(right, item)
			}
		}
	default: // LayoutInterleaved
		for i, q := range selected {
			item := Numbered{N: i + 1, Record: q}
			if i%2 == 0 {
				left = append(left, item)
			} else {
				right = append(right, item)
			}
		}
	}
	return left, right
}

// DeriveKey maps each gradeable question to its option letter. A question
// without options, or whose answer matches no option under Normalize, is
// omitted: it cannot be bubble-graded.
func DeriveKey(selected []Record) map[string]string {
	key := make(map[string]string)
	for i, q := range selected {
		if len(q.Options) == 0 || q.Answer == "" {
			continue
		}
		want := Normalize(q.Answer)
		for j, opt := range q.Options {
			if Normalize(opt) == want {
				if j < len(optionLetters) {
					key[questionLabel(i+1)] = optionLetters[j]
				}
				break
			}
		}
	}
	return key
}

func questionLabel(n int) string { return fmt.Sprintf("MainQuestions%d", n) }

func optionLetter(i int) string {
	if i < len(optionLetters) {
		return optionLetters[i]
	}
	return fmt.Sprintf("%d", i+1)
}
