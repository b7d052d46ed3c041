package analysis

// Result is the normalized output of one analysis run. Every slice is non-nil and every
// score lies in [0,100], whichever path produced it.
type Result struct {
	Score          int             `json:"score"`
	Strengths      []string        `json:"strengths"`
	Improvements   []string        `json:"improvements"`
	KeywordMatch   int             `json:"keywordMatch"`
	Formatting     int             `json:"formatting"`
	Content        int             `json:"content"`
	EmploymentGaps []EmploymentGap `json:"employmentGaps"`
	Suggestions    []Suggestion    `json:"suggestions"`
	SkillsGap      []SkillGap      `json:"skillsGap"`
}

type SuggestionType string

const (
	SuggestionKeywords      SuggestionType = "keywords"
	SuggestionQuantify      SuggestionType = "quantify"
	SuggestionSection       SuggestionType = "section"
	SuggestionFormatting    SuggestionType = "formatting"
	SuggestionEmploymentGap SuggestionType = "employment_gap"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

type Severity string

const (
	SeverityMinor       Severity = "minor"
	SeverityModerate    Severity = "moderate"
	SeveritySignificant Severity = "significant"
)

// Suggestion is one prioritized improvement. Keywords is set only for keyword suggestions.
type Suggestion struct {
	ID          int            `json:"id"`
	Type        SuggestionType `json:"type"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Keywords    []string       `json:"keywords,omitempty"`
	Priority    Priority       `json:"priority"`
}

type SkillGap struct {
	Skill        string `json:"skill"`
	CurrentLevel int    `json:"currentLevel"`
	TargetLevel  int    `json:"targetLevel"`
	Importance   int    `json:"importance"`
}

// EmploymentGap describes a period between roles. Dates are "YYYY-MM"; Duration is in months.
type EmploymentGap struct {
	StartDate       string   `json:"startDate"`
	EndDate         string   `json:"endDate"`
	Duration        int      `json:"duration"`
	Severity        Severity `json:"severity"`
	Recommendations []string `json:"recommendations"`
}

var validSuggestionTypes = map[SuggestionType]struct{}{
	SuggestionKeywords:      {},
	SuggestionQuantify:      {},
	SuggestionSection:       {},
	SuggestionFormatting:    {},
	SuggestionEmploymentGap: {},
}

var validPriorities = map[Priority]struct{}{
	PriorityHigh:   {},
	PriorityMedium: {},
	PriorityLow:    {},
}

var validSeverities = map[Severity]struct{}{
	SeverityMinor:       {},
	SeverityModerate:    {},
	SeveritySignificant: {},
}

// SeverityForDuration grades a gap by its length in months.
func SeverityForDuration(months int) Severity {
	switch {
	case months < 6:
		return SeverityMinor
	case months < 12:
		return SeverityModerate
	default:
		return SeveritySignificant
	}
}

// Clamp bounds a score to [0,100].
func Clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// Sanitize enforces the Result shape: scores clamped, slices non-nil, suggestion ids 1..N.
func (r Result) Sanitize() Result {
	r.Score = Clamp(r.Score)
	r.KeywordMatch = Clamp(r.KeywordMatch)
	r.Formatting = Clamp(r.Formatting)
	r.Content = Clamp(r.Content)
	r.Strengths = nonNil(r.Strengths)
	r.Improvements = nonNil(r.Improvements)
	if r.EmploymentGaps == nil {
		r.EmploymentGaps = []EmploymentGap{}
	}
	for i := range r.EmploymentGaps {
		r.EmploymentGaps[i].Recommendations = nonNil(r.EmploymentGaps[i].Recommendations)
	}
	if r.Suggestions == nil {
		r.Suggestions = []Suggestion{}
	}
	for i := range r.Suggestions {
		r.Suggestions[i].ID = i + 1
	}
	if r.SkillsGap == nil {
		r.SkillsGap = []SkillGap{}
	}
	for i := range r.SkillsGap {
		g := &r.SkillsGap[i]
		g.CurrentLevel = Clamp(g.CurrentLevel)
		g.TargetLevel = Clamp(g.TargetLevel)
		g.Importance = Clamp(g.Importance)
	}
	return r
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
