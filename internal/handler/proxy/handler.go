// Package proxy streams remote audio and images through the backend so
// the frontend never hits provider CDNs cross-origin.
package proxy

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mirrorpersona/backend/pkg/utils"
)

var audioHosts = []string{"murf.ai", ".amazonaws.com"}

var imageHosts = []string{
	"instagram.com",
	"cdninstagram.com",
	"instagramcdn.com",
	"scontent",
	"fbcdn.net",
	"akamaized.net",
	"akamaihd.net",
	"amazonaws.com",
	"s3.amazonaws.com",
	"murf.ai",
}

var (
	instagramPostPath = regexp.MustCompile(`^/p/|^/tv/|^/reel/`)
	ogImageMeta       = regexp.MustCompile(`(?i)<meta[^>]+property=["']og:image["'][^>]+content=["']([^"']+)["']`)
	displayURLField   = regexp.MustCompile(`"display_url":"(https:[^"]+)"`)
	ldJSONScript      = regexp.MustCompile(`(?i)<script type="application/ld\+json">([\s\S]*?)</script>`)
)

// Handler streams whitelisted remote content.
type Handler struct {
	httpClient *http.Client
}

// New creates the proxy handler.
func New() *Handler {
	return &Handler{
		httpClient: &http.Client{Timeout: 20 * time.Second},
	}
}

// RegisterRoutes mounts the proxy routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/audio-proxy", h.handleAudio)
	r.Get("/api/image-proxy", h.handleImage)
}

func (h *Handler) handleAudio(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("url")
	if raw == "" {
		utils.RespondError(w, http.StatusBadRequest, "Missing url parameter")
		return
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed.Hostname() == "" {
		utils.RespondError(w, http.StatusBadRequest, "Invalid url")
		return
	}
	if !hostAllowed(parsed.Hostname(), audioHosts) {
		utils.RespondError(w, http.StatusForbidden, "Host not allowed")
		return
	}

	h.stream(w, r, raw)
}

func (h *Handler) handleImage(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("url")
	if raw == "" {
		utils.RespondError(w, http.StatusBadRequest, "URL is required")
		return
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed.Hostname() == "" {
		utils.RespondError(w, http.StatusBadRequest, "Invalid URL")
		return
	}

	target := raw
	if strings.Contains(parsed.Hostname(), "instagram.com") && instagramPostPath.MatchString(parsed.Path) {
		target, err = h.extractPostImage(r, raw)
		if err != nil {
			log.Printf("[image-proxy] could not extract image from post page %s: %v", raw, err)
			utils.RespondError(w, http.StatusBadGateway, "Could not extract image from Instagram page")
			return
		}
	}

	final, err := url.Parse(target)
	if err != nil || !hostAllowed(final.Hostname(), imageHosts) {
		utils.RespondError(w, http.StatusForbidden, "Host not allowed for proxied images")
		return
	}

	h.stream(w, r, target)
}

// stream pipes the upstream body to the client, forwarding the content
// type.
func (h *Handler) stream(w http.ResponseWriter, r *http.Request, target string) {
	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, target, nil)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid url")
		return
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		log.Printf("[proxy] upstream error for %s: %v", target, err)
		utils.RespondError(w, http.StatusBadGateway, "Failed to proxy content")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden {
		utils.RespondError(w, http.StatusForbidden, "Forbidden by upstream host")
		return
	}
	if resp.StatusCode != http.StatusOK {
		utils.RespondError(w, http.StatusBadGateway, "Failed to proxy content")
		return
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	if cc := resp.Header.Get("Cache-Control"); cc != "" {
		w.Header().Set("Cache-Control", cc)
	}
	w.Header().Set("Access-Control-Allow-Origin", "*")

	if _, err := io.Copy(w, resp.Body); err != nil {
		log.Printf("[proxy] stream interrupted for %s: %v", target, err)
	}
}

// extractPostImage fetches an Instagram post page and digs out the
// underlying image URL: og:image first, then the embedded display_url,
// then the ld+json image field.
func (h *Handler) extractPostImage(r *http.Request, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64)")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", err
	}
	html := string(body)

	if m := ogImageMeta.FindStringSubmatch(html); m != nil {
		return m[1], nil
	}

	if m := displayURLField.FindStringSubmatch(html); m != nil {
		cleaned := strings.ReplaceAll(m[1], "&amp;", "&")
		return strings.ReplaceAll(cleaned, `\/`, "/"), nil
	}

	if m := ldJSONScript.FindStringSubmatch(html); m != nil {
		var ld struct {
			Image json.RawMessage `json:"image"`
		}
		if err := json.Unmarshal([]byte(m[1]), &ld); err == nil && len(ld.Image) > 0 {
			if u := decodeLDImage(ld.Image); u != "" {
				return u, nil
			}
		}
	}

	return "", errNoImage
}

var errNoImage = errors.New("no image found in post page")

// decodeLDImage handles the three shapes the ld+json image field takes:
// a string, an array of strings, or an object with a url field.
func decodeLDImage(raw json.RawMessage) string {
	var asString string
	if json.Unmarshal(raw, &asString) == nil {
		return asString
	}

	var asList []string
	if json.Unmarshal(raw, &asList) == nil && len(asList) > 0 {
		return asList[0]
	}

	var asObject struct {
		URL string `json:"url"`
	}
	if json.Unmarshal(raw, &asObject) == nil {
		return asObject.URL
	}
	return ""
}

func hostAllowed(hostname string, allowed []string) bool {
	for _, h := range allowed {
		if strings.HasSuffix(hostname, h) || strings.Contains(hostname, h) {
			return true
		}
	}
	return false
}
