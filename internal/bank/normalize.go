package bank

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// rawQuestion tolerates the loose shapes found in corpus files: ids that are
// numbers or strings, options that are strings or {latex,text} objects,
// alternate field names. None of this leaks past normalization.
type rawQuestion struct {
	ID          json.RawMessage   `json:"id"`
	Qno         json.RawMessage   `json:"qno"`
	Chapter     string            `json:"chapter"`
	ChapterName string            `json:"chapter_name"`
	Question    string            `json:"question"`
	Text        string            `json:"text"`
	Options     []json.RawMessage `json:"options"`
	Answer      json.RawMessage   `json:"answer"`
	Difficulty  string            `json:"difficulty"`
	Marks       json.Number       `json:"marks"`
	Solution    string            `json:"solution"`
}

// richText is the object form some files use for question/option/answer text.
type richText struct {
	Latex string `json:"latex"`
	Text  string `json:"text"`
}

// decodePayload accepts either a bare array of question objects or a
// {"questions": [...]} wrapper.
func decodePayload(data []byte) ([]rawQuestion, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var arr []rawQuestion
		if err := json.Unmarshal(trimmed, &arr); err != nil {
			return nil, err
		}
		return arr, nil
	}
	var wrapper struct {
		Questions []rawQuestion `json:"questions"`
	}
	if err := json.Unmarshal(trimmed, &wrapper); err != nil {
		return nil, err
	}
	return wrapper.Questions, nil
}

// normalize converts one file's raw records into canonical Questions.
// exam/standard/subject are supplied by the caller (ZIP path segments) and
// empty in directory mode.
func normalize(raw []rawQuestion, source, exam, standard, subject string) []Question {
	out := make([]Question, 0, len(raw))
	for i, r := range raw {
		q := Question{
			ID:         stringValue(r.ID),
			Exam:       exam,
			Standard:   standard,
			Subject:    subject,
			Chapter:    strings.TrimSpace(firstNonEmpty(r.Chapter, r.ChapterName)),
			Question:   firstNonEmpty(r.Question, r.Text),
			Answer:     textValue(r.Answer),
			Difficulty: strings.ToLower(strings.TrimSpace(r.Difficulty)),
			Marks:      marksValue(r.Marks),
			Solution:   r.Solution,
			Source:     source,
		}
		if q.ID == "" {
			q.ID = stringValue(r.Qno)
		}
		if q.ID == "" {
			q.ID = strconv.Itoa(i + 1) // 1-based position in file
		}
		if q.Chapter == "" {
			q.Chapter = "General"
		}
		for _, opt := range r.Options {
			if s := textRaw(opt); strings.TrimSpace(s) != "" {
				q.Options = append(q.Options, s)
			}
		}
		out = append(out, q)
	}
	return out
}

// stringValue renders a number-or-string JSON value as a plain string.
func stringValue(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

// textValue extracts display text from a string-or-object JSON value.
func textValue(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var rt richText
	if err := json.Unmarshal(raw, &rt); err == nil {
		return firstNonEmpty(rt.Latex, rt.Text)
	}
	return ""
}

func textRaw(raw json.RawMessage) string { return textValue(raw) }

func marksValue(n json.Number) int {
	if v, err := n.Int64(); err == nil && v > 0 {
		return int(v)
	}
	if f, err := n.Float64(); err == nil && f > 0 {
		return int(f)
	}
	return 1
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
