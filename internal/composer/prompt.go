// Package composer renders the tutoring prompt sent to the generation
// model. Building is pure string construction: identical inputs produce
// byte-identical output.
package composer

import (
	"fmt"
	"strings"

	"github.com/zyvora/zyvora/internal/search"
	"github.com/zyvora/zyvora/internal/student"
)

// Instruction blocks selected by the profile's style tag. Unknown styles
// fall through to the concise block.
const (
	stepByStepRules = "Give numbered steps, a short example after each step, and ask a one-line check question at the end."
	balancedRules   = "Give a clear explanation, one worked example, and a one-sentence recap."
	conciseRules    = "Give 2-3 concise sentences and a short takeaway."

	storyFraming = "Frame the explanation as a short, relatable story before the takeaway."
)

// Build renders the instruction prompt for one question. The sources block
// is omitted entirely when sources is empty.
func Build(profile student.Profile, question string, sources []search.Result) string {
	var sb strings.Builder

	sb.WriteString("You are Zyvora, a friendly human-like tutor.\n\n")

	fmt.Fprintf(&sb, "StudentProfile: proficiency=%.2f, style=%s, learning_style=%s, language=%s.\n",
		profile.Proficiency, profile.Policy.Style, profile.Policy.LearningStyle, profile.Language)
	sb.WriteString("Be warm, encouraging, and adapt explanations to the student's learning rate.\n\n")

	sb.WriteString("Instructions: ")
	sb.WriteString(rulesFor(profile.Policy.Style))
	if profile.Policy.LearningStyle == student.LearnStory {
		sb.WriteString(" ")
		sb.WriteString(storyFraming)
	}
	sb.WriteString("\n\n")

	sb.WriteString("Student asked: ")
	sb.WriteString(question)

	if len(sources) > 0 {
		sb.WriteString("\n\nSources:\n")
		for _, s := range sources {
			fmt.Fprintf(&sb, "- %s: %s\n", s.Title, s.Link)
		}
	}

	sb.WriteString("\n\nAnswer in a clear, friendly human tone.")
	if profile.Language != "" && profile.Language != student.DefaultLanguage {
		sb.WriteString(" The student's language is not English: answer in English first, translation is handled separately.")
	}

	return strings.TrimSpace(sb.String())
}

func rulesFor(style string) string {
	switch style {
	case student.StyleStepByStep:
		return stepByStepRules
	case student.StyleBalanced:
		return balancedRules
	default:
		return conciseRules
	}
}
