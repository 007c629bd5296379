package bank

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ErrSourceMissing reports that the corpus root (directory or archive)
// could not be opened at all. Individual malformed files are skipped with a
// log line instead; a partial corpus is acceptable, a missing one is not.
var ErrSourceMissing = errors.New("corpus source missing or unreadable")

// ZIP entry paths look like Data/<exam>/<standard>/<subject>/<file>.json.
// The archive is rooted one level deep, hence the offsets below. Archives
// with a different depth are not auto-detected.
const (
	zipSegExam     = 1
	zipSegStandard = 2
	zipSegSubject  = 3
	zipMinSegments = 5
)

// Source describes where the corpus lives. Exactly one field should be set;
// Zip wins when both are.
type Source struct {
	Dir string
	Zip string
}

// Loader reads and caches the corpus. The cache is populated at most once
// per process (first caller loads, concurrent callers wait) and is
// read-only afterwards until Refresh.
type Loader struct {
	src Source

	mu     sync.Mutex
	loaded bool
	cache  []Question
}

func NewLoader(src Source) *Loader { return &Loader{src: src} }

// Questions returns the cached corpus, loading it on first use.
func (l *Loader) Questions() ([]Question, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.loaded {
		return l.cache, nil
	}
	qs, err := l.load()
	if err != nil {
		return nil, err
	}
	l.cache = qs
	l.loaded = true
	return l.cache, nil
}

// Refresh discards the cache and reloads from the source.
func (l *Loader) Refresh() ([]Question, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	qs, err := l.load()
	if err != nil {
		return nil, err
	}
	l.cache = qs
	l.loaded = true
	return l.cache, nil
}

func (l *Loader) load() ([]Question, error) {
	if l.src.Zip != "" {
		return loadZip(l.src.Zip)
	}
	if l.src.Dir != "" {
		return loadDir(l.src.Dir)
	}
	return nil, fmt.Errorf("%w: no source configured", ErrSourceMissing)
}

// loadDir reads every *.json file directly under dir. Exam/standard/subject
// come only from embedded fields in this mode.
func loadDir(dir string) ([]Question, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceMissing, err)
	}
	var all []Question
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			log.Printf("bank: skipping %s: %v", e.Name(), err)
			continue
		}
		raw, err := decodePayload(data)
		if err != nil {
			log.Printf("bank: skipping %s: %v", e.Name(), err)
			continue
		}
		all = append(all, normalize(raw, e.Name(), "", "", "")...)
	}
	return all, nil
}

// loadZip reads every *.json entry of the archive, deriving exam, standard
// and subject from the entry's path segments.
func loadZip(path string) ([]Question, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceMissing, err)
	}
	defer zr.Close()

	var all []Question
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || !strings.EqualFold(filepath.Ext(f.Name), ".json") {
			continue
		}
		exam, standard, subject := pathMeta(f.Name)
		rc, err := f.Open()
		if err != nil {
			log.Printf("bank: skipping %s: %v", f.Name, err)
			continue
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			log.Printf("bank: skipping %s: %v", f.Name, err)
			continue
		}
		raw, err := decodePayload(data)
		if err != nil {
			log.Printf("bank: skipping %s: %v", f.Name, err)
			continue
		}
		all = append(all, normalize(raw, filepath.Base(f.Name), exam, standard, subject)...)
	}
	return all, nil
}

func pathMeta(entry string) (exam, standard, subject string) {
	segs := strings.Split(strings.TrimPrefix(entry, "/"), "/")
	if len(segs) < zipMinSegments {
		return "", "", ""
	}
	return segs[zipSegExam], segs[zipSegStandard], segs[zipSegSubject]
}
