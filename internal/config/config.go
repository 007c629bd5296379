package config

import (
	"os"
	"strings"
)

type Config struct {
	HTTPAddr  string
	PublicURL string

	DBDriver string
	DBDSN    string

	// Question corpus: a directory of JSON files, or a ZIP archive laid out
	// as Data/<exam>/<standard>/<subject>/<chapter>.json. The ZIP wins when
	// both are set.
	CorpusDir string
	CorpusZip string

	JWTSecret string

	BlobDriver   string // fs
	BlobBasePath string

	AdminUser     string
	AdminPassHash string // bcrypt

	CORSOrigins []string

	// Aspose OMR cloud credentials. Grading works without them; sheet
	// recognition does not.
	OMRClientID     string
	OMRClientSecret string
}

func FromEnv() Config {
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	return Config{
		HTTPAddr:      addr,
		PublicURL:     os.Getenv("PUBLIC_URL"),
		DBDriver:      envOr("DB_DRIVER", "sqlite"),
		DBDSN:         envOr("DB_DSN", ""),
		CorpusDir:     envOr("CORPUS_DIR", "./Data"),
		CorpusZip:     envOr("CORPUS_ZIP", ""),
		JWTSecret:     envOr("JWT_SECRET", "dev-secret-change-me"),
		BlobDriver:    envOr("BLOB_DRIVER", "fs"),
		BlobBasePath:  envOr("BLOB_BASE_PATH", "./data"),
		AdminUser:     envOr("ADMIN_USER", "admin"),
		AdminPassHash: envOr("ADMIN_PASS_HASH", ""),
		CORSOrigins:   csvOr("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173"),

		OMRClientID:     os.Getenv("OMR_CLIENT_ID"),
		OMRClientSecret: os.Getenv("OMR_CLIENT_SECRET"),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
