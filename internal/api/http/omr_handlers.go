package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/bisugen/papergen/internal/omr"
	"github.com/bisugen/papergen/internal/paper"
)

// AnswerKeyHandler returns the key recorded by the latest generation.
func AnswerKeyHandler(svc *paper.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, ok := svc.LastAnswerKey()
		if !ok {
			http.Error(w, "no paper has been generated yet", http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(state)
	}
}

// Recognizer submits scanned sheets for recognition. Satisfied by
// omr.Client; tests substitute a local fake.
type Recognizer interface {
	Submit(ctx context.Context, imageBase64, templateBase64 string) (string, error)
	FetchResult(ctx context.Context, recognizeID string) ([]byte, error)
}

type recognizeReq struct {
	Image    string `json:"image"`
	Template string `json:"template"`
}

type recognizeResp struct {
	StudentName string            `json:"studentName"`
	Answers     map[string]string `json:"answers"`
	Report      *omr.Report       `json:"report,omitempty"`
}

// RecognizeHandler sends a scanned answer sheet to the recognition service,
// extracts the marked answers and, when an answer key is available, grades
// them in the same pass.
func RecognizeHandler(svc *paper.Service, rec Recognizer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if rec == nil {
			http.Error(w, "recognition service not configured", http.StatusServiceUnavailable)
			return
		}
		var req recognizeReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.Image == "" || req.Template == "" {
			http.Error(w, "image and template are required", http.StatusBadRequest)
			return
		}

		id, err := rec.Submit(r.Context(), req.Image, req.Template)
		if err != nil {
			http.Error(w, "recognition submit failed", http.StatusBadGateway)
			return
		}
		raw, err := rec.FetchResult(r.Context(), id)
		if err != nil {
			http.Error(w, "recognition result unavailable", http.StatusBadGateway)
			return
		}

		sheet := omr.ParseRecognition(raw)
		resp := recognizeResp{StudentName: sheet.StudentName, Answers: sheet.Answers}
		if state, ok := svc.LastAnswerKey(); ok {
			rep := omr.Compare(state.AnswerKey, sheet.Answers)
			rep.StudentName = sheet.StudentName
			resp.Report = &rep
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

type compareReq struct {
	// Either pre-extracted answers or a raw recognition document.
	StudentAnswers map[string]string `json:"studentAnswers,omitempty"`
	Recognition    json.RawMessage   `json:"recognition,omitempty"`
}

// CompareHandler grades a sheet against the latest answer key.
func CompareHandler(svc *paper.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, ok := svc.LastAnswerKey()
		if !ok {
			http.Error(w, "no answer key available", http.StatusNotFound)
			return
		}

		var req compareReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}

		answers := req.StudentAnswers
		studentName := ""
		if answers == nil {
			if len(req.Recognition) == 0 {
				http.Error(w, "studentAnswers or recognition required", http.StatusBadRequest)
				return
			}
			sheet := omr.ParseRecognition(req.Recognition)
			answers = sheet.Answers
			studentName = sheet.StudentName
		} else {
			for k, v := range answers {
				answers[k] = omr.NormalizeStudentValue(v)
			}
		}

		rep := omr.Compare(state.AnswerKey, answers)
		rep.StudentName = studentName
		_ = json.NewEncoder(w).Encode(rep)
	}
}
