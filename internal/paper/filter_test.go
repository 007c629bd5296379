package paper_test

import (
	"reflect"
	"testing"

	"github.com/bisugen/papergen/internal/paper"
)

func TestNormalize(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Longitudinal Wave", "longitudinal wave"},
		{"  What is   SHM?  ", "what is shm"},
		{"v = f*lambda", "v f lambda"},
		{"A.C. circuits (basics)", "a c circuits basics"},
		{"", ""},
		{"---", ""},
	}
	for _, c := range cases {
		if got := paper.Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSplitList(t *testing.T) {
	got := paper.SplitList(" Waves, Optics ,,Thermodynamics ")
	want := []string{"Waves", "Optics", "Thermodynamics"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SplitList = %v, want %v", got, want)
	}
	if got := paper.SplitList(""); len(got) != 0 {
		t.Fatalf("SplitList(\"\") = %v, want empty", got)
	}
}

func corpus() []paper.Record {
	return []paper.Record{
		{ID: "1", Exam: "JEE", Standard: "11", Subject: "Physics", Chapter: "Waves",
			Question: "A longitudinal wave travels through...", Options: []string{"Transverse", "Longitudinal"},
			Answer: "Longitudinal", Difficulty: "easy", Marks: 1},
		{ID: "2", Exam: "JEE", Standard: "11", Subject: "Physics", Chapter: "Wave Optics",
			Question: "Interference fringes form when...", Answer: "Coherent sources", Difficulty: "hard", Marks: 4},
		{ID: "3", Exam: "NEET", Standard: "12", Subject: "Biology", Chapter: "Cells",
			Question: "Mitochondria are the...", Answer: "Powerhouse", Difficulty: "easy", Marks: 1},
		{ID: "4", Exam: "JEE", Standard: "11", Subject: "Physics", Chapter: "Thermodynamics",
			Question: "An adiabatic process has...", Answer: "No heat exchange", Difficulty: "medium", Marks: 2},
	}
}

func ids(rs []paper.Record) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.ID
	}
	return out
}

func TestFilterEmptyCriteriaReturnsWholeCorpus(t *testing.T) {
	all := corpus()
	got := paper.Filter(all, paper.Criteria{})
	if !reflect.DeepEqual(ids(got), ids(all)) {
		t.Fatalf("empty criteria should keep corpus order, got %v", ids(got))
	}
}

func TestFilterChapterSubstringOr(t *testing.T) {
	got := paper.Filter(corpus(), paper.Criteria{Chapters: []string{"wave"}})
	if !reflect.DeepEqual(ids(got), []string{"1", "2"}) {
		t.Fatalf("chapter substring match got %v, want [1 2]", ids(got))
	}

	got = paper.Filter(corpus(), paper.Criteria{Chapters: []string{"Cells", "Thermodynamics"}})
	if !reflect.DeepEqual(ids(got), []string{"3", "4"}) {
		t.Fatalf("chapter OR match got %v, want [3 4]", ids(got))
	}
}

func TestFilterDifficultyExact(t *testing.T) {
	got := paper.Filter(corpus(), paper.Criteria{Difficulty: "EASY"})
	if !reflect.DeepEqual(ids(got), []string{"1", "3"}) {
		t.Fatalf("difficulty match got %v, want [1 3]", ids(got))
	}
	if got := paper.Filter(corpus(), paper.Criteria{Difficulty: "ha"}); len(got) != 0 {
		t.Fatalf("difficulty must match exactly, got %v", ids(got))
	}
}

func TestFilterSearchSpansQuestionOptionsAnswerChapter(t *testing.T) {
	// hits an option text, not the question stem
	got := paper.Filter(corpus(), paper.Criteria{Search: "transverse"})
	if !reflect.DeepEqual(ids(got), []string{"1"}) {
		t.Fatalf("search over options got %v, want [1]", ids(got))
	}
	// hits the answer with different casing and spacing
	got = paper.Filter(corpus(), paper.Criteria{Search: "  NO   heat "})
	if !reflect.DeepEqual(ids(got), []string{"4"}) {
		t.Fatalf("search over answers got %v, want [4]", ids(got))
	}
}

func TestFilterCombinesAllCriteria(t *testing.T) {
	c := paper.Criteria{
		Exam:       "jee",
		Standards:  []string{"11"},
		Subjects:   []string{"physics"},
		Chapters:   []string{"waves"},
		Difficulty: "easy",
	}
	got := paper.Filter(corpus(), c)
	if !reflect.DeepEqual(ids(got), []string{"1"}) {
		t.Fatalf("combined criteria got %v, want [1]", ids(got))
	}
}
