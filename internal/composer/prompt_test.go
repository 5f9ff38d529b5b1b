package composer

import (
	"strings"
	"testing"

	"github.com/zyvora/zyvora/internal/search"
	"github.com/zyvora/zyvora/internal/student"
)

func TestBuild_Deterministic(t *testing.T) {
	profile := student.NewProfile("u1", 0.5, "en")
	sources := []search.Result{
		{Title: "Photosynthesis", Link: "https://example.org/p", Snippet: "plants"},
	}

	first := Build(profile, "explain photosynthesis", sources)
	second := Build(profile, "explain photosynthesis", sources)
	if first != second {
		t.Error("identical inputs produced different prompts")
	}
}

func TestBuild_ProfileSummary(t *testing.T) {
	profile := student.NewProfile("u1", 0.94, "hi")
	got := Build(profile, "what is gravity", nil)

	if !strings.Contains(got, "Zyvora") {
		t.Error("prompt missing persona preamble")
	}
	if !strings.Contains(got, "proficiency=0.94") {
		t.Errorf("proficiency not formatted to 2 decimals:\n%s", got)
	}
	if !strings.Contains(got, "style=concise") {
		t.Errorf("style missing:\n%s", got)
	}
	if !strings.Contains(got, "language=hi") {
		t.Errorf("language missing:\n%s", got)
	}
	if !strings.Contains(got, "answer in English first") {
		t.Error("non-English profile should carry the English-first note")
	}
	if !strings.Contains(got, "what is gravity") {
		t.Error("question missing from prompt")
	}
}

func TestBuild_EnglishProfileHasNoTranslationNote(t *testing.T) {
	got := Build(student.NewProfile("u1", 0.5, "en"), "hello", nil)
	if strings.Contains(got, "answer in English first") {
		t.Error("English profile should not carry the English-first note")
	}
}

func TestBuild_StyleBlocks(t *testing.T) {
	tests := []struct {
		proficiency float64
		wantRule    string
	}{
		{0.1, "numbered steps"},
		{0.5, "worked example"},
		{0.9, "concise sentences"},
	}

	for _, tt := range tests {
		got := Build(student.NewProfile("u1", tt.proficiency, "en"), "q", nil)
		if !strings.Contains(got, tt.wantRule) {
			t.Errorf("proficiency %v: prompt missing %q:\n%s", tt.proficiency, tt.wantRule, got)
		}
	}

	// Only one instruction block is rendered.
	got := Build(student.NewProfile("u1", 0.9, "en"), "q", nil)
	if strings.Contains(got, "numbered steps") || strings.Contains(got, "worked example") {
		t.Errorf("concise prompt leaked other style blocks:\n%s", got)
	}
}

func TestBuild_StoryFramingOnlyForLowTier(t *testing.T) {
	low := Build(student.NewProfile("u1", 0.1, "en"), "q", nil)
	if !strings.Contains(low, "story") {
		t.Error("low tier should add narrative framing")
	}

	mid := Build(student.NewProfile("u1", 0.5, "en"), "q", nil)
	if strings.Contains(mid, "story") {
		t.Error("mid tier should not add narrative framing")
	}
}

func TestBuild_UnknownStyleFallsBackToConcise(t *testing.T) {
	profile := student.NewProfile("u1", 0.5, "en")
	profile.Policy.Style = "freestyle"
	profile.Policy.LearningStyle = ""

	got := Build(profile, "q", nil)
	if !strings.Contains(got, "concise sentences") {
		t.Errorf("unknown style should use the concise block:\n%s", got)
	}
}

func TestBuild_SourcesBlock(t *testing.T) {
	profile := student.NewProfile("u1", 0.5, "en")

	// Empty sources: no block at all.
	got := Build(profile, "q", nil)
	if strings.Contains(got, "Sources:") {
		t.Errorf("empty sources should omit the block:\n%s", got)
	}

	sources := []search.Result{
		{Title: "First", Link: "https://a.example"},
		{Title: "Second", Link: "https://b.example"},
	}
	got = Build(profile, "q", sources)
	if !strings.Contains(got, "Sources:") {
		t.Fatalf("sources block missing:\n%s", got)
	}
	if !strings.Contains(got, "- First: https://a.example") {
		t.Errorf("source line malformed:\n%s", got)
	}
	// Provider order preserved.
	if strings.Index(got, "First") > strings.Index(got, "Second") {
		t.Error("source ordering not preserved")
	}
}

func TestBuild_Trimmed(t *testing.T) {
	got := Build(student.NewProfile("u1", 0.5, "en"), "q", nil)
	if got != strings.TrimSpace(got) {
		t.Error("prompt not trimmed")
	}
}
