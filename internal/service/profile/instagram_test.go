package profile

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mirrorpersona/backend/internal/config"
)

func newTestClient(serverURL string) *Client {
	return NewClient(config.ProfileConfig{
		APIKey:  "test-key",
		Host:    "example.test",
		BaseURL: serverURL,
	})
}

func TestLookupSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/user/by/username" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("username") != "nataliedoe" {
			t.Fatalf("unexpected username %q", r.URL.Query().Get("username"))
		}
		if r.Header.Get("x-rapidapi-key") != "test-key" {
			t.Fatal("missing api key header")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"username": "nataliedoe",
			"full_name": "Natalie Doe",
			"biography": "she is an actress and a mom",
			"profile_pic_url_hd": "https://cdn.example/hd.jpg",
			"profile_pic_url": "https://cdn.example/sd.jpg",
			"follower_count": 1234
		}`))
	}))
	defer srv.Close()

	prof, err := newTestClient(srv.URL).Lookup(context.Background(), "nataliedoe")
	if err != nil {
		t.Fatalf("Lookup err: %v", err)
	}
	if prof.FullName != "Natalie Doe" {
		t.Fatalf("unexpected full name %q", prof.FullName)
	}
	if prof.AvatarURL != "https://cdn.example/hd.jpg" {
		t.Fatalf("expected HD avatar preferred, got %q", prof.AvatarURL)
	}
	if prof.DisplayName() != "Natalie Doe" {
		t.Fatalf("unexpected display name %q", prof.DisplayName())
	}
}

func TestLookupFallsBackToStandardAvatar(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"username": "someone", "profile_pic_url": "https://cdn.example/sd.jpg"}`))
	}))
	defer srv.Close()

	prof, err := newTestClient(srv.URL).Lookup(context.Background(), "someone")
	if err != nil {
		t.Fatalf("Lookup err: %v", err)
	}
	if prof.AvatarURL != "https://cdn.example/sd.jpg" {
		t.Fatalf("unexpected avatar %q", prof.AvatarURL)
	}
	if prof.DisplayName() != "someone" {
		t.Fatalf("display name should fall back to handle, got %q", prof.DisplayName())
	}
}

func TestLookupUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	if _, err := newTestClient(srv.URL).Lookup(context.Background(), "ghost"); err == nil {
		t.Fatal("expected error for upstream failure")
	}
}

func TestLookupRequiresUsername(t *testing.T) {
	if _, err := newTestClient("http://unused").Lookup(context.Background(), "  "); !errors.Is(err, ErrUsernameRequired) {
		t.Fatalf("expected ErrUsernameRequired, got %v", err)
	}
}
