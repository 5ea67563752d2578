package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFetcher_Fetch(t *testing.T) {
	var gotUA, gotLang string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotLang = r.Header.Get("Accept-Language")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, `<html><body><h1 class="title-property">Apartamento na Asa Sul</h1></body></html>`)
	}))
	defer srv.Close()

	f := New(Options{UserAgent: "house-crawler-test/1.0"})
	doc, err := f.Fetch(context.Background(), srv.URL+"/imovel/1")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if got := doc.Find("h1.title-property").Text(); got != "Apartamento na Asa Sul" {
		t.Errorf("Title mismatch.\nExpected: %q\nGot: %q", "Apartamento na Asa Sul", got)
	}
	if gotUA != "house-crawler-test/1.0" {
		t.Errorf("User-Agent mismatch. Got %q", gotUA)
	}
	if gotLang != DefaultAcceptLanguage {
		t.Errorf("Accept-Language mismatch. Got %q", gotLang)
	}
}

func TestFetcher_FetchSameURLTwice(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, `<html><body><p>ok</p></body></html>`)
	}))
	defer srv.Close()

	f := New(Options{})
	for i := 0; i < 2; i++ {
		if _, err := f.Fetch(context.Background(), srv.URL); err != nil {
			t.Fatalf("fetch %d: %v", i, err)
		}
	}
	if hits != 2 {
		t.Errorf("Expected 2 requests, got %d", hits)
	}
}

func TestFetcher_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := New(Options{}).Fetch(context.Background(), srv.URL)

	var statusErr *HTTPStatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("Expected *HTTPStatusError, got %T (%v)", err, err)
	}
	if statusErr.StatusCode != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", statusErr.StatusCode)
	}
}

func TestFetcher_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()

	_, err := New(Options{Timeout: 2 * time.Second}).Fetch(context.Background(), addr)

	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("Expected *TransportError, got %T (%v)", err, err)
	}
}

func TestFetcher_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(Options{}).Fetch(ctx, "https://www.dfimoveis.com.br/")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestOptions_Defaults(t *testing.T) {
	opts := Options{}.withDefaults()
	if opts.Timeout != 30*time.Second {
		t.Errorf("Expected 30s timeout, got %v", opts.Timeout)
	}
	if opts.UserAgent != DefaultUserAgent || opts.AcceptLanguage != DefaultAcceptLanguage {
		t.Errorf("Unexpected defaults: %+v", opts)
	}

	opts = Options{UserAgent: "custom", Timeout: time.Second}.withDefaults()
	if opts.UserAgent != "custom" || opts.Timeout != time.Second {
		t.Errorf("Expected explicit values to be kept, got %+v", opts)
	}
}

func TestFetcher_DefaultUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		fmt.Fprint(w, `<html><body></body></html>`)
	}))
	defer srv.Close()

	if _, err := New(Options{}).Fetch(context.Background(), srv.URL); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if gotUA != DefaultUserAgent {
		t.Errorf("User-Agent mismatch.\nExpected: %q\nGot: %q", DefaultUserAgent, gotUA)
	}
}
