package search

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSearch_NotConfigured(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		engineID string
	}{
		{"no key", "", "cx"},
		{"no engine id", "key", ""},
		{"neither", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient(tt.key, tt.engineID)
			_, err := c.Search(context.Background(), "q", 3)
			if !errors.Is(err, ErrNotConfigured) {
				t.Errorf("want ErrNotConfigured, got %v", err)
			}
		})
	}
}

func TestSearch_ParsesResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("q") != "photosynthesis" {
			t.Errorf("query = %q", q.Get("q"))
		}
		if q.Get("key") != "k" || q.Get("cx") != "cx" {
			t.Errorf("credentials not forwarded: key=%q cx=%q", q.Get("key"), q.Get("cx"))
		}
		if q.Get("num") != "3" {
			t.Errorf("num = %q", q.Get("num"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[
			{"title":"First","link":"https://a.example","snippet":"plain text"},
			{"title":"Second","link":"https://b.example","snippet":"<b>bold</b> &amp; more"}
		]}`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("k", "cx", srv.URL)
	results, err := c.Search(context.Background(), "photosynthesis", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Title != "First" || results[1].Title != "Second" {
		t.Errorf("provider order not preserved: %+v", results)
	}
	if results[1].Snippet != "bold & more" {
		t.Errorf("snippet not stripped: %q", results[1].Snippet)
	}
}

func TestSearch_EmptyItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("k", "cx", srv.URL)
	results, err := c.Search(context.Background(), "q", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results, want 0", len(results))
	}
}

func TestSearch_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("k", "cx", srv.URL)
	if _, err := c.Search(context.Background(), "q", 3); err == nil {
		t.Error("expected error on non-200 status")
	}
}

func TestStripTags(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"<b>hi</b>", "hi"},
		{"a &amp; b", "a & b"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := stripTags(tt.in); got != tt.want {
			t.Errorf("stripTags(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
