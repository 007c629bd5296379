package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	api "github.com/bisugen/papergen/internal/api/http"
	auth "github.com/bisugen/papergen/internal/auth/middleware"
	"github.com/bisugen/papergen/internal/bank"
	"github.com/bisugen/papergen/internal/config"
	"github.com/bisugen/papergen/internal/db"
	"github.com/bisugen/papergen/internal/omr"
	"github.com/bisugen/papergen/internal/paper"
	"github.com/bisugen/papergen/internal/rbac"
	"github.com/bisugen/papergen/internal/storage"
)

func main() {
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	if err := seedAdmin(ctx, dbh, cfg); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	// --- Question corpus + generation service ---
	loader := bank.NewLoader(bank.Source{Dir: cfg.CorpusDir, Zip: cfg.CorpusZip})
	keys := paper.NewKeyStore()
	svc := paper.NewService(loader, keys)
	paperStore := paper.NewSQLStore(dbh)

	// --- Auth ---
	authSvc := auth.NewAuthService(cfg.JWTSecret)

	// --- Sheet recognition (optional, needs cloud credentials) ---
	var recognizer api.Recognizer
	if cfg.OMRClientID != "" && cfg.OMRClientSecret != "" {
		oc, err := omr.NewClient(omr.ClientConfig{
			ClientID:     cfg.OMRClientID,
			ClientSecret: cfg.OMRClientSecret,
			Timeout:      60 * time.Second,
		})
		if err != nil {
			log.Fatalf("recognition client: %v", err)
		}
		recognizer = oc
	}

	// --- Blob store (logos, question images) ---
	bs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api/v1", func(v1 chi.Router) {
		// Public auth surface
		v1.Post("/auth/register", api.RegisterHandler(dbh))
		v1.Post("/auth/login", api.LoginHandler(dbh, authSvc))
		v1.Post("/auth/student-login", api.StudentLoginHandler(dbh, authSvc))

		// Protected API (JWT -> role in context -> RBAC)
		v1.Group(func(pr chi.Router) {
			pr.Use(auth.JWTMiddleware(authSvc))
			pr.Use(auth.AttachRoleFromDB(dbh, true))

			pr.Get("/auth/me", api.MeHandler())
			pr.With(rbac.Require("user:change_password")).
				Post("/auth/change-password", api.ChangePasswordHandler(dbh))

			pr.Route("/paper", func(p chi.Router) {
				p.With(rbac.Require("paper:generate")).
					Post("/generate", api.GeneratePaperHandler(svc))
				p.With(rbac.Require("paper:generate")).
					Post("/replace-questions", api.ReplaceQuestionsHandler(svc))
				p.With(rbac.Require("paper:generate")).
					Post("/refresh-cache", api.RefreshCacheHandler(svc))
				p.With(rbac.Require("paper:store")).
					Post("/", api.StorePaperHandler(paperStore))
				p.With(rbac.Require("paper:view")).
					Get("/", api.ListPapersHandler(paperStore))
				p.With(rbac.Require("paper:view")).
					Get("/{paperID}", api.GetPaperHandler(paperStore))
				p.With(rbac.Require("paper:delete")).
					Delete("/", api.DeletePapersHandler(paperStore))
			})

			pr.Route("/omr", func(o chi.Router) {
				o.With(rbac.Require("omr:grade")).
					Get("/answer-key", api.AnswerKeyHandler(svc))
				o.With(rbac.Require("omr:grade")).
					Post("/recognize", api.RecognizeHandler(svc, recognizer))
				o.With(rbac.Require("omr:grade")).
					Post("/compare", api.CompareHandler(svc))
			})

			pr.With(rbac.Require("students:manage")).
				Post("/students", api.CreateStudentHandler(dbh))
			pr.With(rbac.Require("students:manage")).
				Get("/students", api.ListStudentsHandler(dbh))

			pr.With(rbac.Require("notification:create")).
				Post("/notification", api.CreateNotificationHandler(dbh))
			pr.With(rbac.Require("notification:view")).
				Get("/notification", api.ListNotificationsHandler(dbh))

			pr.Route("/assets", func(ar chi.Router) {
				api.MountAssets(ar, bs)
			})
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (db=%s, corpus=%s)", cfg.HTTPAddr, cfg.DBDriver, corpusDesc(cfg))
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}

// seedAdmin inserts the bootstrap admin account when ADMIN_PASS_HASH is
// configured and the account does not exist yet.
func seedAdmin(ctx context.Context, dbh *sql.DB, cfg config.Config) error {
	if cfg.AdminPassHash == "" {
		return nil
	}
	email := cfg.AdminUser
	var exists int
	err := dbh.QueryRowContext(ctx, `SELECT 1 FROM users WHERE email=$1`, email).Scan(&exists)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	_, err = dbh.ExecContext(ctx,
		`INSERT INTO users (id,email,full_name,password_hash,role,created_at)
		 VALUES ($1,$2,'Administrator',$3,'admin',$4)`,
		uuid.NewString(), email, cfg.AdminPassHash, time.Now().Unix())
	return err
}

func corpusDesc(cfg config.Config) string {
	if cfg.CorpusZip != "" {
		return "zip:" + cfg.CorpusZip
	}
	return "dir:" + cfg.CorpusDir
}
