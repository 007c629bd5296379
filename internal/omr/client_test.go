package omr_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bisugen/papergen/internal/omr"
)

func recognitionServer(t *testing.T, pendingPolls int32) *httptest.Server {
	t.Helper()
	var polls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/connect/token", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("token: %v", err)
		}
		if r.PostForm.Get("grant_type") != "client_credentials" {
			t.Fatalf("token: unexpected grant_type=%q", r.PostForm.Get("grant_type"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"tok","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/v5.0/omr/RecognizeTemplate/PostRecognizeTemplate", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Fatalf("submit: authorization = %q", got)
		}
		w.Write([]byte(`"job-1"`))
	})
	mux.HandleFunc("/v5.1/omr/RecognizeTemplate/GetRecognizeTemplate", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("id") != "job-1" {
			t.Fatalf("fetch: id = %q", r.URL.Query().Get("id"))
		}
		if atomic.AddInt32(&polls, 1) <= pendingPolls {
			w.Write([]byte(`{"results":[]}`))
			return
		}
		w.Write([]byte(`{"results":[{"data":{"RecognitionResults":[{"ElementName":"MainQuestions1","Value":"B"}]}}]}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClientSubmitAndFetch(t *testing.T) {
	srv := recognitionServer(t, 1)

	client, err := omr.NewClient(omr.ClientConfig{
		BaseURL:      srv.URL,
		ClientID:     "id",
		ClientSecret: "secret",
		PollInterval: 5 * time.Millisecond,
		PollRetries:  5,
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	ctx := context.Background()
	id, err := client.Submit(ctx, "img64", "tpl64")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if id != "job-1" {
		t.Fatalf("job id = %q", id)
	}

	raw, err := client.FetchResult(ctx, id)
	if err != nil {
		t.Fatalf("FetchResult: %v", err)
	}
	sheet := omr.ParseRecognition(raw)
	if sheet.Answers["MainQuestions1"] != "B" {
		t.Fatalf("parsed answers = %v", sheet.Answers)
	}
}

func TestClientFetchGivesUp(t *testing.T) {
	srv := recognitionServer(t, 100)

	client, err := omr.NewClient(omr.ClientConfig{
		BaseURL:      srv.URL,
		ClientID:     "id",
		ClientSecret: "secret",
		PollInterval: time.Millisecond,
		PollRetries:  3,
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := client.FetchResult(context.Background(), "job-1"); err == nil {
		t.Fatal("expected an error once retries are exhausted")
	}
}

func TestClientRequiresCredentials(t *testing.T) {
	if _, err := omr.NewClient(omr.ClientConfig{}); err == nil {
		t.Fatal("expected an error without credentials")
	}
}
