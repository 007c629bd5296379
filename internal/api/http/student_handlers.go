package http

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	auth "github.com/bisugen/papergen/internal/auth/middleware"
)

type studentReq struct {
	UserName string `json:"user_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Std      string `json:"std"`
	Class    string `json:"class"`
}

type studentRow struct {
	ID       string `json:"id"`
	UserName string `json:"user_name"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Std      string `json:"std"`
	Class    string `json:"class"`
}

// CreateStudentHandler registers a student under the calling admin account.
func CreateStudentHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminID := auth.SubjectFromContext(r.Context())
		if adminID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req studentReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		req.Email = strings.ToLower(strings.TrimSpace(req.Email))
		if req.Email == "" || req.Password == "" {
			http.Error(w, "email and password required", http.StatusBadRequest)
			return
		}
		if req.UserName == "" {
			// default username: everything before the @
			req.UserName = strings.SplitN(req.Email, "@", 2)[0]
		}

		var exists int
		err := db.QueryRowContext(r.Context(),
			`SELECT 1 FROM students WHERE email=$1`, req.Email).Scan(&exists)
		if err == nil {
			http.Error(w, "student already exists", http.StatusConflict)
			return
		}
		if !errors.Is(err, sql.ErrNoRows) {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		id := uuid.NewString()
		_, err = db.ExecContext(r.Context(),
			`INSERT INTO students (id,user_id,user_name,email,password_hash,full_name,std,class,created_at)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			id, adminID, req.UserName, req.Email, string(hash),
			req.FullName, req.Std, req.Class, time.Now().Unix())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(studentRow{
			ID: id, UserName: req.UserName, Email: req.Email,
			FullName: req.FullName, Std: req.Std, Class: req.Class,
		})
	}
}

// ListStudentsHandler returns the calling admin's students.
func ListStudentsHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminID := auth.SubjectFromContext(r.Context())
		if adminID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		rows, err := db.QueryContext(r.Context(),
			`SELECT id,user_name,email,full_name,std,class FROM students
			 WHERE user_id=$1 ORDER BY full_name, email`, adminID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		defer rows.Close()

		out := []studentRow{}
		for rows.Next() {
			var s studentRow
			if err := rows.Scan(&s.ID, &s.UserName, &s.Email, &s.FullName, &s.Std, &s.Class); err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			out = append(out, s)
		}
		if err := rows.Err(); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(out)
	}
}
