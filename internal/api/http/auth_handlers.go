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
	"github.com/bisugen/papergen/internal/rbac"
)

const bcryptCost = 12

type registerReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// RegisterHandler creates an admin account.
func RegisterHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		req.Email = strings.ToLower(strings.TrimSpace(req.Email))
		if req.Email == "" || req.Password == "" {
			http.Error(w, "email and password required", http.StatusBadRequest)
			return
		}

		var exists int
		err := db.QueryRowContext(r.Context(),
			`SELECT 1 FROM users WHERE email=$1`, req.Email).Scan(&exists)
		if err == nil {
			http.Error(w, "email already registered", http.StatusConflict)
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
			`INSERT INTO users (id,email,full_name,password_hash,role,created_at)
			 VALUES ($1,$2,$3,$4,'admin',$5)`,
			id, req.Email, req.FullName, string(hash), time.Now().Unix())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"id": id, "email": req.Email})
	}
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginHandler authenticates an admin against the users table.
func LoginHandler(db *sql.DB, a *auth.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		req.Email = strings.ToLower(strings.TrimSpace(req.Email))

		var id, hash, role, fullName string
		err := db.QueryRowContext(r.Context(),
			`SELECT id,password_hash,role,full_name FROM users WHERE email=$1`,
			req.Email).Scan(&id, &hash, &role, &fullName)
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)) != nil {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}

		tok, err := a.IssueJWT(id, role, "")
		if err != nil {
			http.Error(w, "issue token", http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"access_token": tok,
			"role":         role,
			"full_name":    fullName,
		})
	}
}

// StudentLoginHandler authenticates a student; the issued token carries the
// owning admin account so org-scoped reads keep working.
func StudentLoginHandler(db *sql.DB, a *auth.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		req.Email = strings.ToLower(strings.TrimSpace(req.Email))

		var id, adminID, hash, fullName string
		err := db.QueryRowContext(r.Context(),
			`SELECT id,user_id,password_hash,full_name FROM students WHERE email=$1`,
			req.Email).Scan(&id, &adminID, &hash, &fullName)
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)) != nil {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}

		tok, err := a.IssueJWT(id, rbac.RoleStudent, adminID)
		if err != nil {
			http.Error(w, "issue token", http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"access_token": tok,
			"role":         rbac.RoleStudent,
			"full_name":    fullName,
		})
	}
}

// MeHandler echoes the identity baked into the verified token.
func MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := auth.SubjectFromContext(r.Context())
		if sub == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		out := map[string]string{
			"id":   sub,
			"role": rbac.RoleFromContext(r.Context()),
		}
		if adminID := auth.AdminIDFromContext(r.Context()); adminID != "" {
			out["admin_id"] = adminID
		}
		_ = json.NewEncoder(w).Encode(out)
	}
}
