package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestPoliteness_Allowed(t *testing.T) {
	robotsHits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			robotsHits++
			fmt.Fprint(w, "User-agent: *\nDisallow: /favoritos/\nDisallow: /conta/\n")
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := NewPoliteness(0, "")
	ctx := context.Background()

	if !p.Allowed(ctx, srv.URL+"/imovel/123456") {
		t.Error("Expected /imovel/123456 to be allowed")
	}
	if p.Allowed(ctx, srv.URL+"/favoritos/") {
		t.Error("Expected /favoritos/ to be disallowed")
	}
	if p.Allowed(ctx, srv.URL+"/conta/") {
		t.Error("Expected /conta/ to be disallowed")
	}
	if robotsHits != 1 {
		t.Errorf("Expected robots.txt to be fetched once, got %d", robotsHits)
	}
}

func TestPoliteness_MissingRobotsAllowsAll(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	p := NewPoliteness(0, "")
	if !p.Allowed(context.Background(), srv.URL+"/anything") {
		t.Error("Expected missing robots.txt to allow everything")
	}
}

func TestPoliteness_UnreachableRobotsCached(t *testing.T) {
	var robotsHits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/robots.txt" {
			w.WriteHeader(http.StatusOK)
			return
		}
		robotsHits.Add(1)
		// drop the connection without a response
		conn, _, err := w.(http.Hijacker).Hijack()
		if err == nil {
			conn.Close()
		}
	}))
	defer srv.Close()

	p := NewPoliteness(0, "")
	ctx := context.Background()

	if !p.Allowed(ctx, srv.URL+"/imovel/1") {
		t.Error("Expected unreachable robots.txt to allow everything")
	}
	hits := robotsHits.Load()
	if hits == 0 {
		t.Fatal("Expected robots.txt to be requested")
	}

	if !p.Allowed(ctx, srv.URL+"/imovel/2") {
		t.Error("Expected unreachable robots.txt to allow everything")
	}
	if got := robotsHits.Load(); got != hits {
		t.Errorf("Expected failed robots.txt fetch to be cached, got %d requests after %d", got, hits)
	}
}

func TestPoliteness_WaitDisabled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// With no ceiling configured Wait never blocks, even on a dead context.
	if err := NewPoliteness(0, "").Wait(ctx, "https://www.wimoveis.com.br/x"); err != nil {
		t.Errorf("Expected nil, got %v", err)
	}
}

func TestPoliteness_WaitLimited(t *testing.T) {
	p := NewPoliteness(1000, "")
	for i := 0; i < 3; i++ {
		if err := p.Wait(context.Background(), "https://www.wimoveis.com.br/x"); err != nil {
			t.Fatalf("wait %d: %v", i, err)
		}
	}
	if len(p.limiters) != 1 {
		t.Errorf("Expected one limiter per host, got %d", len(p.limiters))
	}
}
