package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/johanforsgren/iconbridge/internal/domain"
	"github.com/johanforsgren/iconbridge/internal/provider/common"
)

func githubDescriptor(path string) domain.IconDescriptor {
	return domain.IconDescriptor{Provider: domain.ProviderGitHub, Owner: "acme", Repo: "icons", Branch: "main", Path: path}
}

func TestNormalizeSVGMarkup(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "trimmed", input: "  <svg viewBox=\"0 0 24 24\"></svg>\n", want: "<svg viewBox=\"0 0 24 24\"></svg>"},
		{name: "xml prolog", input: "<?xml version=\"1.0\"?>\n<SVG>\n</SVG>", want: "<?xml version=\"1.0\"?>\n<SVG>\n</SVG>"},
		{name: "not svg", input: "<html></html>", wantErr: true},
		{name: "svg prefix only", input: "<svgfoo></svgfoo>", wantErr: true},
		{name: "empty", input: "   ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeSVGMarkup(tt.input)
			if tt.wantErr {
				if !errors.Is(err, common.ErrInvalidSVG) {
					t.Fatalf("NormalizeSVGMarkup() error = %v, want ErrInvalidSVG", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeSVGMarkup() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("NormalizeSVGMarkup() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetOrFetchCachesValidMarkup(t *testing.T) {
	c := New()
	var calls int32
	fetch := func(ctx context.Context, d domain.IconDescriptor) (string, error) {
		atomic.AddInt32(&calls, 1)
		return " <svg></svg> ", nil
	}

	for i := 0; i < 3; i++ {
		markup, err := c.GetOrFetch(context.Background(), "github:Icons/home.svg", githubDescriptor("Icons/home.svg"), fetch)
		if err != nil {
			t.Fatalf("GetOrFetch() error = %v", err)
		}
		if markup != "<svg></svg>" {
			t.Errorf("GetOrFetch() = %q", markup)
		}
	}
	if calls != 1 {
		t.Errorf("fetch called %d times, want 1", calls)
	}
}

func TestGetOrFetchRejectsInvalidMarkup(t *testing.T) {
	c := New()
	fetch := func(ctx context.Context, d domain.IconDescriptor) (string, error) {
		return "not an svg", nil
	}

	_, err := c.GetOrFetch(context.Background(), "github:Icons/bad.svg", githubDescriptor("Icons/bad.svg"), fetch)
	if !errors.Is(err, common.ErrInvalidSVG) {
		t.Fatalf("GetOrFetch() error = %v, want ErrInvalidSVG", err)
	}
	if c.Len() != 0 {
		t.Errorf("invalid markup was cached")
	}
}

func TestGetOrFetchPropagatesFetchErrors(t *testing.T) {
	c := New()
	boom := errors.New("boom")
	fetch := func(ctx context.Context, d domain.IconDescriptor) (string, error) {
		return "", boom
	}

	if _, err := c.GetOrFetch(context.Background(), "github:x.svg", githubDescriptor("x.svg"), fetch); !errors.Is(err, boom) {
		t.Fatalf("GetOrFetch() error = %v, want %v", err, boom)
	}
}

func TestInvalidateProvider(t *testing.T) {
	c := New()
	c.Put("github:Icons/a.svg", "<svg/>")
	c.Put("github:Icons/b.svg", "<svg/>")
	c.Put("azure:/Icons/a.svg", "<svg/>")

	if removed := c.InvalidateProvider(domain.ProviderGitHub); removed != 2 {
		t.Errorf("InvalidateProvider() removed %d, want 2", removed)
	}
	if _, ok := c.Get("github:Icons/a.svg"); ok {
		t.Error("github entry survived invalidation")
	}
	if _, ok := c.Get("azure:/Icons/a.svg"); !ok {
		t.Error("azure entry should not be invalidated")
	}
}

func TestFetchFinishingAfterInvalidationIsNotStored(t *testing.T) {
	c := New()
	started := make(chan struct{})
	release := make(chan struct{})
	fetch := func(ctx context.Context, d domain.IconDescriptor) (string, error) {
		close(started)
		<-release
		return "<svg>old</svg>", nil
	}

	var wg sync.WaitGroup
	wg.Add(1)
	var markup string
	var err error
	go func() {
		defer wg.Done()
		markup, err = c.GetOrFetch(context.Background(), "github:Icons/a.svg", githubDescriptor("Icons/a.svg"), fetch)
	}()

	<-started
	c.InvalidateProvider(domain.ProviderGitHub)
	close(release)
	wg.Wait()

	if err != nil || markup != "<svg>old</svg>" {
		t.Fatalf("GetOrFetch() = %q, %v", markup, err)
	}
	if _, ok := c.Get("github:Icons/a.svg"); ok {
		t.Error("markup fetched before invalidation was stored")
	}
}

func TestConcurrentRequestsShareOneFetch(t *testing.T) {
	c := New()
	var calls int32
	release := make(chan struct{})
	fetch := func(ctx context.Context, d domain.IconDescriptor) (string, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return "<svg></svg>", nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.GetOrFetch(context.Background(), "github:Icons/a.svg", githubDescriptor("Icons/a.svg"), fetch); err != nil {
				t.Errorf("GetOrFetch() error = %v", err)
			}
		}()
	}
	close(release)
	wg.Wait()

	if got := atomic.LoadInt32(&calls); got < 1 || got > 5 {
		t.Errorf("fetch called %d times", got)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestSharedFetchOutlivesCallerCancellation(t *testing.T) {
	c := New()
	started := make(chan struct{})
	release := make(chan struct{})
	fetch := func(ctx context.Context, descriptor domain.IconDescriptor) (string, error) {
		close(started)
		<-release
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return "<svg></svg>", nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := c.GetOrFetch(ctx, "github:Icons/a.svg", githubDescriptor("Icons/a.svg"), fetch)
		done <- err
	}()

	<-started
	cancel()
	close(release)

	if err := <-done; err != nil {
		t.Fatalf("GetOrFetch() error = %v", err)
	}
	if markup, ok := c.Get("github:Icons/a.svg"); !ok || markup != "<svg></svg>" {
		t.Errorf("Get() = %q, %v", markup, ok)
	}
}
