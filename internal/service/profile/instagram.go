// Package profile looks up public Instagram profiles through the
// RapidAPI gateway. Lookup failures propagate: persona creation cannot
// proceed without a profile.
package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mirrorpersona/backend/internal/config"
)

// ErrUsernameRequired is returned for a blank lookup.
var ErrUsernameRequired = errors.New("username is required")

// Profile is the subset of the upstream payload the service uses.
type Profile struct {
	Username      string
	FullName      string
	Biography     string
	Gender        string
	AvatarURL     string
	FollowerCount int64
}

// DisplayName prefers the full name, falling back to the handle.
func (p *Profile) DisplayName() string {
	if p.FullName != "" {
		return p.FullName
	}
	return p.Username
}

// Client calls the profile-lookup provider.
type Client struct {
	apiKey     string
	host       string
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a lookup client from configuration.
func NewClient(cfg config.ProfileConfig) *Client {
	return &Client{
		apiKey:     cfg.APIKey,
		host:       cfg.Host,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: 20 * time.Second},
	}
}

// Lookup fetches the public profile for a username.
func (c *Client) Lookup(ctx context.Context, username string) (*Profile, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrUsernameRequired
	}

	endpoint := c.baseURL + "/v1/user/by/username?" + url.Values{"username": {username}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build profile request: %w", err)
	}
	req.Header.Set("x-rapidapi-key", c.apiKey)
	req.Header.Set("x-rapidapi-host", c.host)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("profile lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("profile lookup returned status %d for %q", resp.StatusCode, username)
	}

	var payload struct {
		Username        string `json:"username"`
		FullName        string `json:"full_name"`
		Biography       string `json:"biography"`
		Gender          string `json:"gender"`
		ProfilePicURLHD string `json:"profile_pic_url_hd"`
		ProfilePicURL   string `json:"profile_pic_url"`
		FollowerCount   int64  `json:"follower_count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode profile payload: %w", err)
	}

	avatar := payload.ProfilePicURLHD
	if avatar == "" {
		avatar = payload.ProfilePicURL
	}

	handle := payload.Username
	if handle == "" {
		handle = username
	}

	return &Profile{
		Username:      handle,
		FullName:      payload.FullName,
		Biography:     payload.Biography,
		Gender:        payload.Gender,
		AvatarURL:     avatar,
		FollowerCount: payload.FollowerCount,
	}, nil
}
