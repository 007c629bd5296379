package omr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2/clientcredentials"
)

// DefaultBaseURL is the Aspose OMR cloud endpoint.
const DefaultBaseURL = "https://api.aspose.cloud"

// ClientConfig configures the recognition client. BaseURL is overridable so
// tests can point at a local server.
type ClientConfig struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
	PollInterval time.Duration
	PollRetries  int
}

// Client submits scanned sheets to the recognition service and fetches the
// results. Token refresh is handled by the oauth2 transport.
type Client struct {
	http         *http.Client
	baseURL      string
	pollInterval time.Duration
	pollRetries  int
}

func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("missing recognition service credentials")
	}
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	cc := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     base + "/connect/token",
	}
	h := cc.Client(context.Background())
	if cfg.Timeout > 0 {
		h.Timeout = cfg.Timeout
	}
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = 3 * time.Second
	}
	retries := cfg.PollRetries
	if retries <= 0 {
		retries = 10
	}
	return &Client{http: h, baseURL: base, pollInterval: interval, pollRetries: retries}, nil
}

type recognizeRequest struct {
	Images               []string `json:"Images"`
	OmrFile              string   `json:"omrFile"`
	OutputFormat         string   `json:"outputFormat"`
	RecognitionThreshold int      `json:"recognitionThreshold"`
}

// Submit queues recognition of one sheet image against a template, both
// base64-encoded, and returns the recognition job id.
func (c *Client) Submit(ctx context.Context, imageBase64, templateBase64 string) (string, error) {
	body, err := json.Marshal(recognizeRequest{
		Images:               []string{imageBase64},
		OmrFile:              templateBase64,
		OutputFormat:         "json",
		RecognitionThreshold: 32,
	})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, "POST",
		c.baseURL+"/v5.0/omr/RecognizeTemplate/PostRecognizeTemplate", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()
	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}
	if res.StatusCode/100 != 2 {
		return "", fmt.Errorf("submit recognition: %s", res.Status)
	}

	// The id comes back either as a bare JSON string or wrapped in an object.
	var id string
	if err := json.Unmarshal(raw, &id); err == nil && id != "" {
		return id, nil
	}
	var wrapped struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.ID != "" {
		return wrapped.ID, nil
	}
	return "", fmt.Errorf("submit recognition: unrecognized response %q", raw)
}

// FetchResult polls for a finished recognition job and returns the raw
// result document for ParseRecognition.
func (c *Client) FetchResult(ctx context.Context, recognizeID string) ([]byte, error) {
	url := c.baseURL + "/v5.1/omr/RecognizeTemplate/GetRecognizeTemplate?id=" + recognizeID
	for i := 0; i < c.pollRetries; i++ {
		req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
		if err != nil {
			return nil, err
		}
		res, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		raw, err := io.ReadAll(res.Body)
		res.Body.Close()
		if err != nil {
			return nil, err
		}
		if res.StatusCode/100 != 2 {
			return nil, fmt.Errorf("fetch recognition result: %s", res.Status)
		}

		var probe struct {
			Results []json.RawMessage `json:"results"`
		}
		if err := json.Unmarshal(raw, &probe); err == nil && len(probe.Results) > 0 {
			return raw, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}
	return nil, fmt.Errorf("recognition result not available after %d attempts", c.pollRetries)
}
