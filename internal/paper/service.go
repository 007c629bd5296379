package paper

import (
	"errors"
	"fmt"
	"time"

	"github.com/bisugen/papergen/internal/seedrand"
)

var (
	// ErrNoQuestions means the filters matched nothing in the corpus.
	ErrNoQuestions = errors.New("no questions match the given filters")
	// ErrNoReplacementRequests means the replacement payload listed no chapters.
	ErrNoReplacementRequests = errors.New("no replacement requests provided")
)

const defaultCount = 10

// Corpus is the question source the service selects from.
type Corpus interface {
	Questions() ([]Record, error)
	Refresh() ([]Record, error)
}

// Service runs the generation pipeline: filter, seeded selection, assembly
// and answer-key recording.
type Service struct {
	corpus Corpus
	keys   *KeyStore
}

func NewService(corpus Corpus, keys *KeyStore) *Service {
	return &Service{corpus: corpus, keys: keys}
}

func criteria(exam, standard, subject, chapters, difficulty, search string) Criteria {
	return Criteria{
		Exam:       exam,
		Standards:  SplitList(standard),
		Subjects:   SplitList(subject),
		Chapters:   SplitList(chapters),
		Difficulty: difficulty,
		Search:     search,
	}
}

// Generate selects questions for req and returns the assembled paper. The
// same seed with the same corpus and filters reproduces the paper exactly.
func (s *Service) Generate(req SelectionRequest) (GeneratedPaper, error) {
	all, err := s.corpus.Questions()
	if err != nil {
		return GeneratedPaper{}, fmt.Errorf("load corpus: %w", err)
	}

	c := criteria(req.Exam, req.Standard, req.Subject, req.Chapters, req.Difficulty, req.Search)
	pool := Filter(all, c)
	if len(pool) == 0 {
		return GeneratedPaper{}, ErrNoQuestions
	}

	count := req.Count
	if count <= 0 {
		count = defaultCount
	}
	seed := req.Seed
	if seed == "" {
		seed = seedrand.MakeSeed()
	}

	excluded := NewExclusionSet(req.Exclude...)
	selected := Select(pool, excluded, count, seed)
	if len(selected) == 0 {
		return GeneratedPaper{}, ErrNoQuestions
	}

	art := Assemble(selected)
	key := DeriveKey(selected)
	s.keys.Set(AnswerKeyState{
		Timestamp:  time.Now(),
		Chapter:    req.Chapters,
		Difficulty: req.Difficulty,
		Search:     req.Search,
		Limit:      count,
		AnswerKey:  key,
	})

	html, err := RenderHTML(RenderMeta{
		Title:      "Question Paper",
		Exam:       req.Exam,
		Standard:   req.Standard,
		Subject:    req.Subject,
		Seed:       seed,
		TotalMarks: art.TotalMarks,
		Watermark:  "Bisugen pvt.ltd.",
	}, selected, req.Layout)
	if err != nil {
		return GeneratedPaper{}, fmt.Errorf("render paper: %w", err)
	}

	return GeneratedPaper{
		Seed:          seed,
		Questions:     selected,
		QuestionsText: art.QuestionsText,
		AnswersText:   art.AnswersText,
		TotalMarks:    art.TotalMarks,
		AnswerKey:     key,
		HTML:          html,
	}, nil
}

// Replacements finds substitute questions per chapter, never repeating a key
// already on the paper or handed out earlier in the same call.
func (s *Service) Replacements(in ReplaceInput) (ReplacementResult, error) {
	if len(in.Requests) == 0 {
		return ReplacementResult{}, ErrNoReplacementRequests
	}
	all, err := s.corpus.Questions()
	if err != nil {
		return ReplacementResult{}, fmt.Errorf("load corpus: %w", err)
	}

	c := criteria(in.Exam, in.Standard, in.Subject, "", in.Difficulty, in.Search)
	used := NewExclusionSet(in.UsedKeys...)
	return Replace(all, c, used, in.Requests), nil
}

// RefreshCorpus drops the cached question set so the next request reloads
// from disk.
func (s *Service) RefreshCorpus() error {
	_, err := s.corpus.Refresh()
	return err
}

// LastAnswerKey exposes the single answer-key slot for OMR grading.
func (s *Service) LastAnswerKey() (AnswerKeyState, bool) {
	return s.keys.Get()
}
