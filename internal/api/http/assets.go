package http

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"

	auth "github.com/bisugen/papergen/internal/auth/middleware"
	"github.com/bisugen/papergen/internal/rbac"
	"github.com/bisugen/papergen/internal/storage"
)

// MountAssets serves institute logos and question images from the blob
// store. Uploads are scoped to the authenticated admin account; reads are
// open to any authenticated principal.
func MountAssets(r chi.Router, bs storage.BlobStore) {
	// POST /assets/logo
	r.With(rbac.Require("assets:upload")).Post("/logo", func(w http.ResponseWriter, r *http.Request) {
		f, hdr, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "file required", http.StatusBadRequest)
			return
		}
		defer f.Close()

		sub := auth.SubjectFromContext(r.Context())
		if sub == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		ext := strings.ToLower(path.Ext(hdr.Filename))
		if ext != ".png" && ext != ".jpg" && ext != ".jpeg" && ext != ".svg" {
			http.Error(w, "unsupported image type", http.StatusBadRequest)
			return
		}
		key := "logos/" + sub + "/logo" + ext
		if _, err := bs.Put(key, f); err != nil {
			http.Error(w, "store error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"key": key})
	})

	// GET /assets/*  -> returns the blob at whatever follows /assets/
	r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
		rc, err := bs.Get(key)
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		defer rc.Close()
		ct := mime.TypeByExtension(path.Ext(key))
		if ct == "" {
			ct = "application/octet-stream"
		}
		w.Header().Set("Content-Type", ct)
		_, _ = io.Copy(w, rc)
	})
}
