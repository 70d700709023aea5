package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mirrorpersona/backend/internal/config"
	"github.com/mirrorpersona/backend/internal/model/voice"
)

// Client calls the Murf speech-generation API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a synthesis client with the configured bounded
// timeout. The timeout doubles as the cancellation policy: an expired
// synthesis call is abandoned, never retried.
func NewClient(cfg config.SpeechConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Synthesize turns text into speech with the given voice and returns
// the audio locator from the provider response.
func (c *Client) Synthesize(ctx context.Context, text string, v voice.Voice) (string, error) {
	body, err := json.Marshal(map[string]string{
		"text":    strings.TrimSpace(text),
		"voiceId": v.ID,
		"style":   v.Style,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode synthesis request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/speech/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build synthesis request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("synthesis request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("synthesis returned status %d", resp.StatusCode)
	}

	var payload struct {
		AudioFile string `json:"audioFile"`
		AudioURL  string `json:"audioUrl"`
		Audio     struct {
			File string `json:"file"`
		} `json:"audio"`
		File string `json:"file"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode synthesis payload: %w", err)
	}

	// The locator has moved between fields across API revisions; take
	// the first populated one.
	for _, locator := range []string{payload.AudioFile, payload.AudioURL, payload.Audio.File, payload.File} {
		if locator != "" {
			return locator, nil
		}
	}
	return "", fmt.Errorf("synthesis response carried no audio locator")
}
