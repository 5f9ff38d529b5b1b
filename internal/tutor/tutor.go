// Package tutor orchestrates a single chat turn: profile lookup, intent
// routing, source retrieval, prompt composition, generation and translation.
package tutor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/zyvora/zyvora/internal/composer"
	"github.com/zyvora/zyvora/internal/intent"
	"github.com/zyvora/zyvora/internal/search"
	"github.com/zyvora/zyvora/internal/store"
	"github.com/zyvora/zyvora/internal/student"
)

const maxSearchResults = 3

// Generator produces a reply for a composed prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Searcher retrieves web results to ground a reply.
type Searcher interface {
	Search(ctx context.Context, query string, num int) ([]search.Result, error)
}

// Headliner returns formatted news headlines, degrading to explanatory
// text rather than failing.
type Headliner interface {
	Headlines(ctx context.Context, lang, category string) string
}

// Translator rewrites text into a target language, best-effort.
type Translator interface {
	Translate(ctx context.Context, text, targetLang string) string
}

// Clock supplies the current time; injected so time replies are testable.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Reply is the full result of one chat turn.
type Reply struct {
	Reply   string          `json:"reply"`
	ReplyEN string          `json:"reply_en"`
	Sources []search.Result `json:"sources"`
	Profile student.Profile `json:"profile"`
}

// Tutor wires the adapters behind a single Reply entry point.
type Tutor struct {
	store      store.Store
	generator  Generator
	searcher   Searcher
	headliner  Headliner
	translator Translator
	clock      Clock
}

// New creates a Tutor. All dependencies are required except clock, which
// defaults to SystemClock when nil.
func New(st store.Store, gen Generator, srch Searcher, news Headliner, tr Translator, clock Clock) *Tutor {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Tutor{
		store:      st,
		generator:  gen,
		searcher:   srch,
		headliner:  news,
		translator: tr,
		clock:      clock,
	}
}

// Reply answers one student message. A missing profile falls back to a
// transient default scoped to this turn; it is never written back. The
// only terminal failure is the generation call itself.
func (t *Tutor) Reply(ctx context.Context, userID, message, lang string) (Reply, error) {
	profile, err := t.store.Get(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		profile = student.DefaultProfile(userID, lang)
	} else if err != nil {
		return Reply{}, fmt.Errorf("loading profile for %s: %w", userID, err)
	}
	if lang != "" {
		profile.Language = lang
	}

	in := intent.Classify(message)

	switch in.Kind {
	case intent.Time:
		return t.timeReply(ctx, profile), nil
	case intent.News:
		return t.newsReply(ctx, profile, in.Category), nil
	default:
		return t.generalReply(ctx, profile, message, in)
	}
}

func (t *Tutor) timeReply(ctx context.Context, profile student.Profile) Reply {
	replyEN := "Current date and time is: " + t.clock.Now().Format("2006-01-02 15:04:05")
	return Reply{
		Reply:   t.translator.Translate(ctx, replyEN, profile.Language),
		ReplyEN: replyEN,
		Sources: []search.Result{},
		Profile: profile,
	}
}

func (t *Tutor) newsReply(ctx context.Context, profile student.Profile, category string) Reply {
	// Headlines come back pre-formatted in the requested language, or as
	// explanatory text when the provider degrades; no second translation.
	text := t.headliner.Headlines(ctx, profile.Language, category)
	return Reply{
		Reply:   text,
		ReplyEN: text,
		Sources: []search.Result{},
		Profile: profile,
	}
}

func (t *Tutor) generalReply(ctx context.Context, profile student.Profile, message string, in intent.Intent) (Reply, error) {
	sources := []search.Result{}
	if in.SearchWorthy {
		results, err := t.searcher.Search(ctx, message, maxSearchResults)
		if err != nil {
			// Search is an enrichment; the reply proceeds without it.
			slog.Warn("web search failed", "user_id", profile.UserID, "error", err)
		} else {
			sources = results
		}
	}

	prompt := composer.Build(profile, message, sources)

	answer, err := t.generator.Generate(ctx, prompt)
	if err != nil {
		return Reply{}, fmt.Errorf("generating reply: %w", err)
	}

	replyEN := strings.TrimSpace(answer)
	if len(sources) > 0 {
		var sb strings.Builder
		sb.WriteString(replyEN)
		sb.WriteString("\n\n**Sources:**")
		for _, s := range sources {
			fmt.Fprintf(&sb, "\n- **[%s](%s)**", s.Title, s.Link)
		}
		replyEN = sb.String()
	}

	return Reply{
		Reply:   t.translator.Translate(ctx, replyEN, profile.Language),
		ReplyEN: replyEN,
		Sources: sources,
		Profile: profile,
	}, nil
}
