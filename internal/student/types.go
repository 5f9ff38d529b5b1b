package student

// Profile is the per-student record the tutor adapts to: a proficiency
// estimate in [0,1], the teaching policy derived from it, and the
// language replies should be translated into.
type Profile struct {
	UserID      string         `json:"user_id"`
	Proficiency float64        `json:"proficiency"`
	Policy      TeachingPolicy `json:"policy"`
	Language    string         `json:"language"`
}

// TeachingPolicy bundles the presentation parameters for one proficiency
// tier. Style selects the instruction block in the prompt; LearningStyle
// is a narrative-framing tag from the same tier.
type TeachingPolicy struct {
	Style         string `json:"style"`
	Depth         string `json:"depth"`
	Examples      int    `json:"examples"`
	Checks        bool   `json:"checks"`
	LearningStyle string `json:"learning_style"`
}

// Style tags. PolicyFor returns exactly one of these per tier.
const (
	StyleStepByStep = "step_by_step"
	StyleBalanced   = "balanced"
	StyleConcise    = "concise"

	LearnStory      = "story"
	LearnStepByStep = "step_by_step"
	LearnConcise    = "concise"
)

// DefaultProficiency is assumed for students who have not taken the
// diagnostic yet.
const DefaultProficiency = 0.5

// DefaultLanguage is the language used when a request does not name one.
const DefaultLanguage = "en"

// NewProfile builds a profile whose policy is derived from the given
// proficiency. All profile construction goes through here so proficiency
// and policy can never drift apart.
func NewProfile(userID string, proficiency float64, language string) Profile {
	if language == "" {
		language = DefaultLanguage
	}
	return Profile{
		UserID:      userID,
		Proficiency: proficiency,
		Policy:      PolicyFor(proficiency),
		Language:    language,
	}
}

// DefaultProfile is the transient profile used for a chat message from an
// unseen user. Callers must not store it.
func DefaultProfile(userID, language string) Profile {
	return NewProfile(userID, DefaultProficiency, language)
}
