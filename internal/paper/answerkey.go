package paper

import (
	"sync"
	"time"
)

// AnswerKeyState is the most recent generation's answer key together with
// the filter parameters that produced it.
type AnswerKeyState struct {
	Timestamp  time.Time         `json:"timestamp"`
	Chapter    string            `json:"chapter"`
	Difficulty string            `json:"difficulty"`
	Search     string            `json:"search"`
	Limit      int               `json:"limit"`
	AnswerKey  map[string]string `json:"answer_key"`
}

// KeyStore keeps a single answer-key slot. Concurrent generations overwrite
// each other (last write wins); OMR comparison always grades against the
// latest generated paper.
type KeyStore struct {
	mu   sync.RWMutex
	last *AnswerKeyState
}

func NewKeyStore() *KeyStore { return &KeyStore{} }

// Set replaces the stored key with a copy of st.
func (s *KeyStore) Set(st AnswerKeyState) {
	key := make(map[string]string, len(st.AnswerKey))
	for k, v := range st.AnswerKey {
		key[k] = v
	}
	st.AnswerKey = key

	s.mu.Lock()
	s.last = &st
	s.mu.Unlock()
}

// Get returns the stored key, or ok=false when nothing has been generated yet.
func (s *KeyStore) Get() (AnswerKeyState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return AnswerKeyState{}, false
	}
	return *s.last, true
}
