package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	api "github.com/bisugen/papergen/internal/api/http"
	"github.com/bisugen/papergen/internal/omr"
	"github.com/bisugen/papergen/internal/paper"
)

type stubRecognizer struct {
	submitID string
	result   []byte
	err      error
}

func (s *stubRecognizer) Submit(ctx context.Context, imageBase64, templateBase64 string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.submitID, nil
}

func (s *stubRecognizer) FetchResult(ctx context.Context, recognizeID string) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

// With seed "seed-A" the two Waves questions come out in order 2, 1: the
// answer key reads MainQuestions1=C (Steel), MainQuestions2=B (Longitudinal).
func generateWavesPaper(t *testing.T, env *testEnv, tok string) {
	t.Helper()
	res, raw := env.do(t, "POST", "/api/v1/paper/generate", tok, map[string]any{
		"chapter": "Waves", "count": 2, "seed": "seed-A",
	})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("generate: %d %s", res.StatusCode, raw)
	}
}

func TestAnswerKeyEndpoint(t *testing.T) {
	env := newTestEnv(t)
	tok := env.registerAdmin(t, "admin@example.com", "s3cret")

	// before any generation there is nothing to grade against
	res, _ := env.do(t, "GET", "/api/v1/omr/answer-key", tok, nil)
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("answer-key before generate: %d", res.StatusCode)
	}

	generateWavesPaper(t, env, tok)

	res, raw := env.do(t, "GET", "/api/v1/omr/answer-key", tok, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("answer-key: %d %s", res.StatusCode, raw)
	}
	var state paper.AnswerKeyState
	if err := json.Unmarshal(raw, &state); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if state.Chapter != "Waves" || state.Limit != 2 {
		t.Fatalf("state = %+v", state)
	}
	if state.AnswerKey["MainQuestions1"] != "C" || state.AnswerKey["MainQuestions2"] != "B" {
		t.Fatalf("answer key = %v", state.AnswerKey)
	}
}

func TestCompareEndpoint(t *testing.T) {
	env := newTestEnv(t)
	tok := env.registerAdmin(t, "admin@example.com", "s3cret")
	generateWavesPaper(t, env, tok)

	res, raw := env.do(t, "POST", "/api/v1/omr/compare", tok, map[string]any{
		"studentAnswers": map[string]string{
			"MainQuestions1": "c",
			"MainQuestions2": "A,B",
		},
	})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("compare: %d %s", res.StatusCode, raw)
	}
	var rep omr.Report
	if err := json.Unmarshal(raw, &rep); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rep.TotalQuestions != 2 || rep.TotalMarks != 1 {
		t.Fatalf("report totals = %+v", rep)
	}
	if rep.Rows[0].Result != omr.ResultCorrect {
		t.Fatalf("row 1 = %+v", rep.Rows[0])
	}
	if rep.Rows[1].Result != omr.ResultInvalid {
		t.Fatalf("row 2 = %+v", rep.Rows[1])
	}
}

func TestRecognizeEndpointGradesSheet(t *testing.T) {
	env := newTestEnv(t)
	tok := env.registerAdmin(t, "admin@example.com", "s3cret")
	generateWavesPaper(t, env, tok)

	env.rec.result = []byte(`{
		"results": [{}],
		"RecognitionResults": [
			{"ElementName": "MainQuestions1", "Value": "C"},
			{"ElementName": "MainQuestions2", "Value": "A"},
			{"ElementName": "Student Name", "Value": "Ravi Patel"}
		]
	}`)

	res, raw := env.do(t, "POST", "/api/v1/omr/recognize", tok, map[string]string{
		"image": "aW1n", "template": "dG1wbA==",
	})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("recognize: %d %s", res.StatusCode, raw)
	}
	var out struct {
		StudentName string            `json:"studentName"`
		Answers     map[string]string `json:"answers"`
		Report      *omr.Report       `json:"report"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.StudentName != "Ravi Patel" {
		t.Fatalf("student name = %q", out.StudentName)
	}
	if out.Answers["MainQuestions1"] != "C" {
		t.Fatalf("answers = %v", out.Answers)
	}
	if out.Report == nil || out.Report.TotalMarks != 1 {
		t.Fatalf("report = %+v", out.Report)
	}
	if out.Report.Rows[1].Result != omr.ResultWrong {
		t.Fatalf("row 2 = %+v", out.Report.Rows[1])
	}
}

func TestRecognizeEndpointValidation(t *testing.T) {
	env := newTestEnv(t)
	tok := env.registerAdmin(t, "admin@example.com", "s3cret")

	res, _ := env.do(t, "POST", "/api/v1/omr/recognize", tok, map[string]string{"image": "aW1n"})
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing template: %d", res.StatusCode)
	}
}

func TestRecognizeEndpointUnconfigured(t *testing.T) {
	h := api.RecognizeHandler(nil, nil)
	req := httptest.NewRequest("POST", "/omr/recognize", strings.NewReader(`{}`))
	rr := httptest.NewRecorder()
	h(rr, req)
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestCompareAcceptsRecognitionPayload(t *testing.T) {
	env := newTestEnv(t)
	tok := env.registerAdmin(t, "admin@example.com", "s3cret")
	generateWavesPaper(t, env, tok)

	recognition := map[string]any{
		"RecognitionResults": []map[string]any{
			{"ElementName": "MainQuestions1", "Value": "C"},
			{"ElementName": "MainQuestions2", "Value": ""},
			{"ElementName": "Candidate Name", "Value": "Asha Rao"},
		},
	}
	res, raw := env.do(t, "POST", "/api/v1/omr/compare", tok, map[string]any{
		"recognition": recognition,
	})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("compare: %d %s", res.StatusCode, raw)
	}
	var rep omr.Report
	if err := json.Unmarshal(raw, &rep); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rep.StudentName != "Asha Rao" {
		t.Fatalf("student name = %q", rep.StudentName)
	}
	if rep.TotalMarks != 1 {
		t.Fatalf("marks = %d", rep.TotalMarks)
	}
	if rep.Rows[1].Result != omr.ResultUnanswered {
		t.Fatalf("row 2 = %+v", rep.Rows[1])
	}
}
