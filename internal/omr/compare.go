package omr

import (
	"sort"
	"strconv"
	"strings"
)

// Result labels on a report row.
const (
	ResultCorrect    = "Correct"
	ResultWrong      = "Wrong"
	ResultUnanswered = "Unanswered"
	ResultInvalid    = "Invalid/Multiple"
)

// ReportRow is one graded question on the score report.
type ReportRow struct {
	Sr            int    `json:"sr"`
	QuestionNo    string `json:"question_no"`
	StudentAnswer string `json:"student_answer"`
	CorrectAnswer string `json:"correct_answer"`
	Result        string `json:"result"`
}

// Report is the outcome of grading one sheet against the official key.
type Report struct {
	StudentName    string      `json:"studentName,omitempty"`
	Rows           []ReportRow `json:"reportData"`
	TotalMarks     int         `json:"totalMarks"`
	TotalQuestions int         `json:"totalQuestions"`
}

// Compare grades studentAnswers against the official key: one mark per
// correct letter, zero otherwise. Every key entry produces a row, ordered
// by question number; answers to questions outside the key are ignored.
func Compare(officialKey, studentAnswers map[string]string) Report {
	keys := make([]string, 0, len(officialKey))
	for k := range officialKey {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ni, iok := questionNumber(keys[i])
		nj, jok := questionNumber(keys[j])
		if iok && jok && ni != nj {
			return ni < nj
		}
		return keys[i] < keys[j]
	})

	rep := Report{Rows: make([]ReportRow, 0, len(keys)), TotalQuestions: len(keys)}
	for i, qKey := range keys {
		correct := officialKey[qKey]
		student, ok := studentAnswers[qKey]
		if !ok {
			student = NotAnswered
		}

		result := ResultWrong
		switch {
		case student == correct:
			result = ResultCorrect
			rep.TotalMarks++
		case student == NotAnswered:
			result = ResultUnanswered
		case student == Multiple:
			result = ResultInvalid
		}

		rep.Rows = append(rep.Rows, ReportRow{
			Sr:            i + 1,
			QuestionNo:    qKey,
			StudentAnswer: student,
			CorrectAnswer: correct,
			Result:        result,
		})
	}
	return rep
}

// questionNumber pulls the trailing digits out of a label like
// "MainQuestions12".
func questionNumber(label string) (int, bool) {
	i := len(label)
	for i > 0 && label[i-1] >= '0' && label[i-1] <= '9' {
		i--
	}
	if i == len(label) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(label[i:]))
	if err != nil {
		return 0, false
	}
	return n, true
}
