package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/johanforsgren/iconbridge/internal/domain"
	"github.com/johanforsgren/iconbridge/internal/provider/common"
)

const (
	svgBase64      = "PHN2ZyB2aWV3Qm94PSIwIDAgMjQgMjQiPjwvc3ZnPg=="
	svgText        = `<svg viewBox="0 0 24 24"></svg>`
	metadataBase64 = "eyJpY29ucyI6W3sibmFtZSI6ImhvbWUtZmlsbCIsInRpdGxlIjoiSG9tZSBGaWxsZWQiLCJ0YWciOiJuYXYifV19"
)

type fakeGitHub struct {
	tree     string
	contents map[string]string
	blobs    map[string]string

	mu       sync.Mutex
	authSeen []string
}

func (f *fakeGitHub) authHeaders() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.authSeen...)
}

func (f *fakeGitHub) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/icons/git/trees/main", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.authSeen = append(f.authSeen, r.Header.Get("Authorization"))
		f.mu.Unlock()
		if r.URL.Query().Get("recursive") != "1" {
			t.Errorf("tree request without recursive=1: %s", r.URL)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, f.tree)
	})
	mux.HandleFunc("/repos/acme/icons/contents/", func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/repos/acme/icons/contents/")
		if r.URL.Query().Get("ref") != "main" {
			t.Errorf("contents request without ref=main: %s", r.URL)
		}
		content, ok := f.contents[path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"message":"Not Found"}`)
			return
		}
		fmt.Fprintf(w, `{"type":"file","encoding":"base64","path":%q,"content":%q}`, path, content)
	})
	mux.HandleFunc("/repos/acme/icons/git/blobs/", func(w http.ResponseWriter, r *http.Request) {
		sha := strings.TrimPrefix(r.URL.Path, "/repos/acme/icons/git/blobs/")
		content, ok := f.blobs[sha]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"message":"Not Found"}`)
			return
		}
		fmt.Fprintf(w, `{"sha":%q,"encoding":"base64","content":%q}`, sha, content)
	})
	return mux
}

func newTestProvider(t *testing.T, fake *fakeGitHub) *Provider {
	t.Helper()
	server := httptest.NewServer(fake.handler(t))
	t.Cleanup(server.Close)
	return NewProvider(server.URL)
}

func testConfig() domain.ProviderConfig {
	return domain.ProviderConfig{
		Connected:  true,
		PAT:        "ghp_test",
		Repository: "https://github.com/acme/icons.git",
	}
}

func TestFetchIndexWithoutSidecar(t *testing.T) {
	fake := &fakeGitHub{
		tree: `{"sha":"root","truncated":false,"tree":[
			{"path":"Icons","type":"tree","sha":"d0"},
			{"path":"Icons/home-outline.svg","type":"blob","sha":"a1"},
			{"path":"Icons/home-fill.svg","type":"blob","sha":"b2"},
			{"path":"README.md","type":"blob","sha":"c3"}
		]}`,
	}
	provider := newTestProvider(t, fake)

	index, err := provider.FetchIndex(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("FetchIndex() error = %v", err)
	}

	if len(index.Icons) != 2 {
		t.Fatalf("FetchIndex() returned %d icons, want 2", len(index.Icons))
	}
	wantIDs := []string{"github:Icons/home-outline.svg", "github:Icons/home-fill.svg"}
	for i, want := range wantIDs {
		if index.Icons[i].ID != want {
			t.Errorf("icon %d id = %q, want %q", i, index.Icons[i].ID, want)
		}
	}

	descriptor := index.Descriptors["github:Icons/home-fill.svg"]
	if descriptor.Owner != "acme" || descriptor.Repo != "icons" || descriptor.Branch != "main" || descriptor.SHA != "b2" {
		t.Errorf("descriptor = %+v", descriptor)
	}
	if index.NormalizedConfig.Repository != "acme/icons" || index.NormalizedConfig.Branch != "main" {
		t.Errorf("normalized config = %+v", index.NormalizedConfig)
	}
	if auth := fake.authHeaders(); len(auth) == 0 || auth[0] != "Bearer ghp_test" {
		t.Errorf("Authorization headers = %v", auth)
	}
}

func TestFetchIndexAppliesSidecar(t *testing.T) {
	fake := &fakeGitHub{
		tree: `{"sha":"root","truncated":false,"tree":[
			{"path":"Icons/home-outline.svg","type":"blob","sha":"a1"},
			{"path":"Icons/home-fill.svg","type":"blob","sha":"b2"},
			{"path":"Icons/Icons.json","type":"blob","sha":"m1"}
		]}`,
		contents: map[string]string{"Icons/Icons.json": metadataBase64},
	}
	provider := newTestProvider(t, fake)

	index, err := provider.FetchIndex(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("FetchIndex() error = %v", err)
	}

	filled := index.Icons[1]
	if filled.ID != "github:Icons/home-fill.svg" || filled.Title != "Home Filled" || filled.Tag != "nav" {
		t.Errorf("sidecar not applied: %+v", filled)
	}
	if index.Icons[0].Title != "home" {
		t.Errorf("outline title = %q, want humanized %q", index.Icons[0].Title, "home")
	}
}

func TestFetchIndexTruncatedTree(t *testing.T) {
	fake := &fakeGitHub{
		tree: `{"sha":"root","truncated":true,"tree":[{"path":"Icons/a.svg","type":"blob","sha":"a1"}]}`,
	}
	provider := newTestProvider(t, fake)

	_, err := provider.FetchIndex(context.Background(), testConfig())
	if !errors.Is(err, common.ErrTruncatedListing) {
		t.Fatalf("FetchIndex() error = %v, want ErrTruncatedListing", err)
	}
}

func TestFetchIndexValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     domain.ProviderConfig
		tree    string
		wantErr error
	}{
		{
			name:    "missing token",
			cfg:     domain.ProviderConfig{Repository: "acme/icons"},
			wantErr: common.ErrAuthRequired,
		},
		{
			name:    "bad repository",
			cfg:     domain.ProviderConfig{PAT: "ghp_test", Repository: "icons"},
			wantErr: common.ErrInvalidInput,
		},
		{
			name:    "no svg files",
			cfg:     domain.ProviderConfig{PAT: "ghp_test", Repository: "acme/icons"},
			tree:    `{"sha":"root","truncated":false,"tree":[{"path":"README.md","type":"blob","sha":"c3"}]}`,
			wantErr: common.ErrNoIconsFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeGitHub{tree: tt.tree}
			provider := newTestProvider(t, fake)

			_, err := provider.FetchIndex(context.Background(), tt.cfg)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("FetchIndex() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestFetchIndexHTTPErrorMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"message":"Bad credentials"}`)
	}))
	defer server.Close()

	_, err := NewProvider(server.URL).FetchIndex(context.Background(), testConfig())
	if err == nil {
		t.Fatal("FetchIndex() expected an error")
	}
	message := common.ExtractErrorMessage(err)
	if !strings.Contains(message, "401") || !strings.Contains(message, "Bad credentials") {
		t.Errorf("ExtractErrorMessage() = %q", message)
	}
}

func TestFetchFileText(t *testing.T) {
	fake := &fakeGitHub{
		blobs:    map[string]string{"a1": svgBase64},
		contents: map[string]string{"Icons/home-fill.svg": svgBase64},
	}
	provider := newTestProvider(t, fake)

	tests := []struct {
		name       string
		descriptor domain.IconDescriptor
	}{
		{
			name:       "blob by sha",
			descriptor: domain.IconDescriptor{Provider: domain.ProviderGitHub, Owner: "acme", Repo: "icons", Branch: "main", Path: "Icons/home-outline.svg", SHA: "a1"},
		},
		{
			name:       "unknown sha falls back to contents",
			descriptor: domain.IconDescriptor{Provider: domain.ProviderGitHub, Owner: "acme", Repo: "icons", Branch: "main", Path: "Icons/home-fill.svg", SHA: "zz"},
		},
		{
			name:       "no sha uses contents",
			descriptor: domain.IconDescriptor{Provider: domain.ProviderGitHub, Owner: "acme", Repo: "icons", Path: "Icons/home-fill.svg"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := provider.FetchFileText(context.Background(), testConfig(), tt.descriptor)
			if err != nil {
				t.Fatalf("FetchFileText() error = %v", err)
			}
			if text != svgText {
				t.Errorf("FetchFileText() = %q, want %q", text, svgText)
			}
		})
	}
}

func TestClientsAreReusedPerToken(t *testing.T) {
	provider := NewProvider("")

	first, err := provider.clientFor("ghp_one")
	if err != nil {
		t.Fatalf("clientFor() error = %v", err)
	}
	again, _ := provider.clientFor(" ghp_one ")
	other, _ := provider.clientFor("ghp_two")

	if first != again {
		t.Error("expected the same client for the same token")
	}
	if first == other {
		t.Error("expected a different client for a different token")
	}
}
