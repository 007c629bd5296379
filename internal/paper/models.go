package paper

// Metadata is stored alongside a paper so it can be re-rendered or audited
// later. Questions carries the full selection in display order.
type Metadata struct {
	Seed          string   `json:"seed"`
	QuestionCount int      `json:"question_count"`
	ZipPath       string   `json:"zip_path,omitempty"`
	Questions     []Record `json:"original_questions_array,omitempty"`
}

// Paper is a stored question paper row.
type Paper struct {
	PaperID       string   `json:"paper_id"`
	Exam          string   `json:"exam"`
	Standard      string   `json:"standard"`
	Subject       string   `json:"subject"`
	Chapters      string   `json:"chapters"`
	ExamDate      string   `json:"exam_date,omitempty"`
	QuestionsText string   `json:"paper_questions"`
	AnswersText   string   `json:"paper_answers"`
	TotalMarks    int      `json:"marks"`
	Metadata      Metadata `json:"metadata"`
	CreatedAt     int64    `json:"created_at"`
}

// Summary is the paginated listing row: everything but the heavy content
// and metadata blobs.
type Summary struct {
	PaperID    string `json:"paper_id"`
	Exam       string `json:"exam"`
	Standard   string `json:"standard"`
	Subject    string `json:"subject"`
	Chapters   string `json:"chapters"`
	ExamDate   string `json:"exam_date,omitempty"`
	TotalMarks int    `json:"marks"`
	CreatedAt  int64  `json:"created_at"`
}

// SelectionRequest drives one paper generation.
type SelectionRequest struct {
	Exam       string   `json:"exam"`
	Standard   string   `json:"standard"`
	Subject    string   `json:"subject"`
	Chapters   string   `json:"chapter"`
	Difficulty string   `json:"difficulty"`
	Search     string   `json:"search"`
	Count      int      `json:"count"`
	Seed       string   `json:"seed,omitempty"`
	Layout     Layout   `json:"layout,omitempty"`
	Exclude    []string `json:"excludeKeys,omitempty"`
}

// GeneratedPaper is the generation response: the selection, the rendered
// artifacts and the answer key recorded for OMR grading.
type GeneratedPaper struct {
	Seed          string            `json:"seed"`
	Questions     []Record          `json:"questions"`
	QuestionsText string            `json:"paper_questions"`
	AnswersText   string            `json:"paper_answers"`
	TotalMarks    int               `json:"marks"`
	AnswerKey     map[string]string `json:"answer_key"`
	HTML          string            `json:"html,omitempty"`
}

// ReplaceInput is the replacement endpoint payload: which chapters need how
// many fresh questions, plus every composite key already on the paper.
type ReplaceInput struct {
	Exam       string               `json:"exam"`
	Standard   string               `json:"standard"`
	Subject    string               `json:"subject"`
	Difficulty string               `json:"difficulty"`
	Search     string               `json:"search"`
	Requests   []ReplacementRequest `json:"requests"`
	UsedKeys   []string             `json:"usedKeys"`
}
