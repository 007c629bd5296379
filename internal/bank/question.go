// Package bank loads and caches the question corpus that papers are
// generated from. Sources are either a directory of JSON files or a ZIP
// archive whose entry paths carry exam/standard/subject metadata. Whatever
// the on-disk shape, everything is normalized into Question before it
// leaves this package.
package bank

// Question is the canonical corpus record. Immutable once loaded.
type Question struct {
	ID         string   `json:"id"`
	Exam       string   `json:"exam,omitempty"`
	Standard   string   `json:"standard,omitempty"`
	Subject    string   `json:"subject,omitempty"`
	Chapter    string   `json:"chapter"`
	Question   string   `json:"question"`
	Options    []string `json:"options"`
	Answer     string   `json:"answer"`
	Difficulty string   `json:"difficulty"`
	Marks      int      `json:"marks"`
	Solution   string   `json:"solution,omitempty"`

	// Source is the originating file name, for diagnostics only.
	Source string `json:"_source,omitempty"`
}

// CompositeKey identifies a question across a whole paper-editing session.
// IDs are only unique within a source file, so dedup keys on chapter+id.
func (q Question) CompositeKey() string {
	return q.Chapter + "::" + q.ID
}
