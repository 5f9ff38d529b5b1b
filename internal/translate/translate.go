// Package translate rewrites English replies into the student's language
// using the public Google Translate endpoint. Translation is best-effort:
// a failed call returns the original text with a fixed fallback note, and
// English/empty targets are identity operations.
package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultBaseURL   = "https://translate.googleapis.com/translate_a/single"
	translateTimeout = 10 * time.Second
)

// Translator calls the unauthenticated gtx translation endpoint with
// automatic source-language detection.
type Translator struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Translator.
func New() *Translator {
	return &Translator{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: translateTimeout,
		},
	}
}

// NewWithBaseURL creates a Translator pointing at a custom endpoint (for testing).
func NewWithBaseURL(baseURL string) *Translator {
	t := New()
	t.baseURL = strings.TrimRight(baseURL, "/")
	return t
}

// Translate returns text in targetLang. Empty and "en" targets return the
// text unchanged. Any provider failure returns the text with an appended
// unavailability note; Translate never fails the request.
func (t *Translator) Translate(ctx context.Context, text, targetLang string) string {
	if targetLang == "" || targetLang == "en" {
		return text
	}

	out, err := t.request(ctx, text, targetLang)
	if err != nil {
		slog.Warn("translation failed", "target", targetLang, "error", err)
		return text + fmt.Sprintf("\n\n(Translation to %s not available.)", targetLang)
	}
	return out
}

func (t *Translator) request(ctx context.Context, text, targetLang string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, translateTimeout)
	defer cancel()

	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", "auto")
	params.Set("tl", targetLang)
	params.Set("dt", "t")
	params.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("creating translate request: %w", err)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("translate request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translate: unexpected status %d", resp.StatusCode)
	}

	// The gtx endpoint returns nested arrays; the first element is a list
	// of [translatedSegment, originalSegment, ...] entries.
	var payload []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decoding translate response: %w", err)
	}
	if len(payload) == 0 {
		return "", fmt.Errorf("translate: empty response")
	}

	var segments [][]json.RawMessage
	if err := json.Unmarshal(payload[0], &segments); err != nil {
		return "", fmt.Errorf("parsing translate segments: %w", err)
	}

	var sb strings.Builder
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		var part string
		if err := json.Unmarshal(seg[0], &part); err != nil {
			continue
		}
		sb.WriteString(part)
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("translate: no segments in response")
	}
	return sb.String(), nil
}
