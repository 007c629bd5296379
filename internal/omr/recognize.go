// Package omr turns bubble-sheet recognition output into graded score
// reports. Recognition itself happens in the Aspose OMR cloud; this package
// parses its result payloads and compares extracted answers against the
// answer key recorded at paper generation.
package omr

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Sentinel values for sheets that cannot be graded as a single letter.
const (
	NotAnswered = "notAnswered"
	Multiple    = "multiple"
)

var validLetters = map[string]bool{"A": true, "B": true, "C": true, "D": true}

// NormalizeStudentValue maps a raw recognition cell to a grade token:
// a single letter A-D, NotAnswered, or Multiple.
func NormalizeStudentValue(raw string) string {
	v := strings.ToUpper(strings.TrimSpace(raw))
	if v == "" {
		return NotAnswered
	}
	if strings.ContainsAny(v, ",;/") {
		return Multiple
	}
	if validLetters[v] {
		return v
	}
	if strings.HasPrefix(v, "ERROR") {
		return NotAnswered
	}
	return Multiple
}

// Sheet is what recognition extracted from one answer sheet.
type Sheet struct {
	StudentName string            `json:"studentName"`
	Answers     map[string]string `json:"studentAnswers"`
}

// recognitionElement mirrors the Aspose result shape. Field names vary
// between API versions, so every alias is tried.
type recognitionElement struct {
	ElementName        string               `json:"ElementName"`
	Name               string               `json:"Name"`
	Key                string               `json:"Key"`
	Value              string               `json:"Value"`
	ValueText          string               `json:"ValueText"`
	Text               string               `json:"Text"`
	RecognitionResults []recognitionElement `json:"RecognitionResults"`
}

type recognitionPayload struct {
	RecognitionResults []recognitionElement `json:"RecognitionResults"`
	Results            []struct {
		Data struct {
			RecognitionResults []recognitionElement `json:"RecognitionResults"`
		} `json:"data"`
	} `json:"results"`
}

var (
	questionKeyRe = regexp.MustCompile(`(?i)mainquestions?`)
	nameKeyRe     = regexp.MustCompile(`(?i)candidate|student|full name`)
)

// ParseRecognition extracts the per-question answers and the candidate name
// from a recognition result document. Malformed payloads yield an empty
// sheet rather than an error: a bad scan still produces a report, just an
// all-unanswered one.
func ParseRecognition(text []byte) Sheet {
	sheet := Sheet{StudentName: "Unknown", Answers: map[string]string{}}

	var payload recognitionPayload
	if err := json.Unmarshal(text, &payload); err != nil {
		return sheet
	}

	elements := payload.RecognitionResults
	if elements == nil && len(payload.Results) > 0 {
		elements = payload.Results[0].Data.RecognitionResults
	}
	var name string
	walkElements(elements, sheet.Answers, &name)
	if name != "" {
		sheet.StudentName = name
	}
	return sheet
}

func walkElements(elements []recognitionElement, answers map[string]string, name *string) {
	for _, el := range elements {
		key := strings.TrimSpace(firstOf(el.ElementName, el.Name, el.Key))
		value := firstOf(el.Value, el.ValueText, el.Text)

		if key != "" {
			if questionKeyRe.MatchString(key) {
				answers[key] = NormalizeStudentValue(value)
			}
			if nameKeyRe.MatchString(key) && *name == "" {
				if cleaned := strings.TrimSpace(value); len(cleaned) >= 2 {
					*name = cleaned
				}
			}
		}
		if len(el.RecognitionResults) > 0 {
			walkElements(el.RecognitionResults, answers, name)
		}
	}
}

func firstOf(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
