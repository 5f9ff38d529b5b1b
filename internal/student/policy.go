package student

// PolicyFor maps a proficiency value to its teaching policy tier. The
// function is total: values outside [0,1] are not clamped and simply fall
// into whichever threshold bucket they land in.
func PolicyFor(proficiency float64) TeachingPolicy {
	if proficiency < 0.33 {
		return TeachingPolicy{
			Style:         StyleStepByStep,
			Depth:         "deep",
			Examples:      2,
			Checks:        true,
			LearningStyle: LearnStory,
		}
	}
	if proficiency < 0.7 {
		return TeachingPolicy{
			Style:         StyleBalanced,
			Depth:         "medium",
			Examples:      1,
			Checks:        true,
			LearningStyle: LearnStepByStep,
		}
	}
	return TeachingPolicy{
		Style:         StyleConcise,
		Depth:         "shallow",
		Examples:      1,
		Checks:        false,
		LearningStyle: LearnConcise,
	}
}
