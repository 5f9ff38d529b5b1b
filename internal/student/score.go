package student

import (
	"math"
	"strconv"
	"strings"
)

// Keyword sets that mark a correct-enough diagnostic answer.
var (
	q1Keywords = []string{"energy", "sun", "food", "glucose", "convert"}
	q2Keywords = []string{"acceleration", "increases", "increase", "more"}
)

// Score maps the fixed 3-question diagnostic answer set to a proficiency
// in [0,1]. Missing keys and malformed confidence values are absorbed into
// defaults; the function never fails.
func Score(answers map[string]string) float64 {
	score := 0.0

	a1 := strings.ToLower(answers["q1"])
	switch {
	case containsAny(a1, q1Keywords):
		score += 0.35
	case len(strings.Fields(a1)) >= 3:
		score += 0.15
	}

	a2 := strings.ToLower(answers["q2"])
	switch {
	case containsAny(a2, q2Keywords):
		score += 0.35
	case len(strings.Fields(a2)) >= 2:
		score += 0.1
	}

	score += 0.3 * confidence(answers["q3"])

	return math.Min(1.0, round2(score))
}

// confidence normalizes the q3 self-rating to [0,1]. Unparsable input
// defaults to 0.6, matching a missing rating of 3 out of 5.
func confidence(raw string) float64 {
	conf, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0.6
	}
	if conf < 0 {
		conf = 0
	}
	if conf > 5 {
		conf = 5
	}
	return float64(conf) / 5.0
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
