package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	auth "github.com/bisugen/papergen/internal/auth/middleware"
	"github.com/bisugen/papergen/internal/bank"
	"github.com/bisugen/papergen/internal/paper"
	"github.com/bisugen/papergen/internal/rbac"
)

// paperOwner resolves the account whose papers the caller may touch:
// admins own their papers, students reach their admin's papers.
func paperOwner(r *http.Request) string {
	if rbac.RoleFromContext(r.Context()) == rbac.RoleStudent {
		return auth.AdminIDFromContext(r.Context())
	}
	return auth.SubjectFromContext(r.Context())
}

// GeneratePaperHandler runs the selection pipeline and returns the
// assembled paper without persisting it.
func GeneratePaperHandler(svc *paper.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req paper.SelectionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		out, err := svc.Generate(req)
		if err != nil {
			switch {
			case errors.Is(err, paper.ErrNoQuestions):
				http.Error(w, "no questions found for the given filters", http.StatusNotFound)
			case errors.Is(err, bank.ErrSourceMissing):
				http.Error(w, "question corpus unavailable", http.StatusServiceUnavailable)
			default:
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
			return
		}
		_ = json.NewEncoder(w).Encode(out)
	}
}

// ReplaceQuestionsHandler swaps out questions the caller rejected.
func ReplaceQuestionsHandler(svc *paper.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req paper.ReplaceInput
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		res, err := svc.Replacements(req)
		if err != nil {
			switch {
			case errors.Is(err, paper.ErrNoReplacementRequests):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, bank.ErrSourceMissing):
				http.Error(w, "question corpus unavailable", http.StatusServiceUnavailable)
			default:
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
			return
		}
		_ = json.NewEncoder(w).Encode(res)
	}
}

// RefreshCacheHandler drops the corpus cache so edits on disk take effect.
func RefreshCacheHandler(svc *paper.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.RefreshCorpus(); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "refreshed"})
	}
}

// StorePaperHandler persists a generated paper. A missing paper_id gets one
// minted; a repeated paper_id is a conflict.
func StorePaperHandler(store paper.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := paperOwner(r)
		if owner == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		var p paper.Paper
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if p.QuestionsText == "" {
			http.Error(w, "paper_questions required", http.StatusBadRequest)
			return
		}
		if p.PaperID == "" {
			p.PaperID = uuid.NewString()
		}
		if err := store.Put(r.Context(), owner, p); err != nil {
			if errors.Is(err, paper.ErrDuplicatePaper) {
				http.Error(w, "paper already exists", http.StatusConflict)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"paper_id": p.PaperID})
	}
}

// ListPapersHandler returns one page of the caller's paper summaries,
// newest first, with pagination metadata.
func ListPapersHandler(store paper.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := paperOwner(r)
		if owner == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page < 1 {
			page = 1
		}
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		if limit <= 0 || limit > 100 {
			limit = 20
		}
		papers, total, err := store.List(r.Context(), owner, page, limit)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		totalPages := (total + limit - 1) / limit
		_ = json.NewEncoder(w).Encode(map[string]any{
			"papers": papers,
			"pagination": map[string]any{
				"page":        page,
				"limit":       limit,
				"total":       total,
				"totalPages":  totalPages,
				"hasNextPage": page*limit < total,
				"hasPrevPage": page > 1,
			},
		})
	}
}

func GetPaperHandler(store paper.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := paperOwner(r)
		if owner == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		id := chi.URLParam(r, "paperID")
		p, err := store.Get(r.Context(), owner, id)
		if err != nil {
			if errors.Is(err, paper.ErrPaperNotFound) {
				http.Error(w, "paper not found", http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(p)
	}
}

// DeletePapersHandler removes a batch of the caller's papers by id.
func DeletePapersHandler(store paper.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := paperOwner(r)
		if owner == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		var req struct {
			PaperIDs []string `json:"paperIds"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if len(req.PaperIDs) == 0 {
			http.Error(w, "paperIds required", http.StatusBadRequest)
			return
		}
		deleted, err := store.Delete(r.Context(), owner, req.PaperIDs)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if deleted == nil {
			deleted = []string{}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"deleted":    len(deleted),
			"deletedIds": deleted,
		})
	}
}
