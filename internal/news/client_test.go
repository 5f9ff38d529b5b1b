package news

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func articlesJSON(titles ...string) string {
	var items []string
	for _, t := range titles {
		items = append(items, fmt.Sprintf(`{"title":%q,"source":{"name":"Wire"}}`, t))
	}
	return `{"status":"ok","articles":[` + strings.Join(items, ",") + `]}`
}

func TestHeadlines_NoKey(t *testing.T) {
	c := NewClient("", "in")
	got := c.Headlines(context.Background(), "hi", "general")
	if got != msgNoKey {
		t.Errorf("got %q", got)
	}
}

func TestHeadlines_FormatsTopFive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Api-Key") != "k" {
			t.Errorf("missing api key header")
		}
		q := r.URL.Query()
		if q.Get("country") != "in" || q.Get("category") != "technology" || q.Get("language") != "hi" {
			t.Errorf("unexpected params: %v", q)
		}
		w.Write([]byte(articlesJSON("One", "Two", "Three", "Four", "Five", "Six")))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("k", "in", srv.URL)
	got := c.Headlines(context.Background(), "hi", "technology")

	if !strings.HasPrefix(got, "Top Headlines:") {
		t.Errorf("missing header: %q", got)
	}
	if !strings.Contains(got, "**1. One** (Source: Wire)") {
		t.Errorf("first headline malformed: %q", got)
	}
	if !strings.Contains(got, "**5. Five**") {
		t.Errorf("fifth headline missing: %q", got)
	}
	if strings.Contains(got, "Six") {
		t.Errorf("list should cap at five articles: %q", got)
	}
}

func TestHeadlines_EnglishFallback(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		q := r.URL.Query()
		if q.Get("language") == "hi" {
			w.Write([]byte(`{"status":"ok","articles":[]}`))
			return
		}
		if q.Get("country") != "us" || q.Get("category") != "general" || q.Get("language") != "en" {
			t.Errorf("fallback params wrong: %v", q)
		}
		w.Write([]byte(articlesJSON("Fallback Story")))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("k", "in", srv.URL)
	got := c.Headlines(context.Background(), "hi", "general")

	if calls != 2 {
		t.Errorf("expected one retry, got %d calls", calls)
	}
	if !strings.Contains(got, "Fallback Story") {
		t.Errorf("fallback not used: %q", got)
	}
}

func TestHeadlines_NothingFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok","articles":[]}`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("k", "in", srv.URL)
	got := c.Headlines(context.Background(), "hi", "general")
	if got != msgNoArticles {
		t.Errorf("got %q", got)
	}
}

func TestHeadlines_ProviderErrorDegradesToString(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("k", "in", srv.URL)
	got := c.Headlines(context.Background(), "en", "general")
	if !strings.HasPrefix(got, "An error occurred while fetching news:") {
		t.Errorf("got %q", got)
	}
}

func TestFormatHeadlines_MissingFields(t *testing.T) {
	articles := []Article{{}}
	got := FormatHeadlines(articles)
	if !strings.Contains(got, "**1. No Title** (Source: Unknown Source)") {
		t.Errorf("got %q", got)
	}
}
