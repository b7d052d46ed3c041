package analysis

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHeuristic(seed uint64) *Heuristic {
	h := NewHeuristic(nil, NewSeededRand(seed))
	h.now = func() time.Time { return time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC) }
	return h
}

func TestHeuristicScoreAllSignals(t *testing.T) {
	text := "email: jane@example.com experience degree skills " + strings.Repeat("lorem ", 210)

	got := newTestHeuristic(1).Analyze(text, "technology")

	assert.Equal(t, 100, got.Score)
	assert.Equal(t, 75, got.Formatting)
	assert.Equal(t, 70, got.Content)
}

func TestHeuristicScoreNoSignals(t *testing.T) {
	got := newTestHeuristic(1).Analyze("Jane Roe\nHobbies: chess and hiking", "technology")

	assert.Equal(t, 50, got.Score)
	assert.Equal(t, 60, got.Formatting)
	assert.Equal(t, 55, got.Content)
	assert.Equal(t, []string{"Basic structure detected", "Content organized", "Readable format"}, got.Strengths)
	assert.Equal(t, []string{
		"Add complete contact information",
		"Include detailed work experience",
		"Add technical skills section",
		"Add quantified achievements",
		"Include industry-specific keywords",
		"Improve ATS formatting",
	}, got.Improvements)
}

func TestHeuristicScenarioTechnology(t *testing.T) {
	text := "John Doe, email: j@x.com, 5 years experience as a developer, skills: JavaScript, React"

	got := newTestHeuristic(3).Analyze(text, "technology")

	// contact, experience and skills match; education does not.
	assert.Equal(t, 85, got.Score)
	assert.Equal(t, 75, got.Formatting)
	assert.Equal(t, 70, got.Content)
	assert.GreaterOrEqual(t, got.KeywordMatch, 40)
	assert.Less(t, got.KeywordMatch, 70)
	assert.Equal(t, []string{"Contact information present", "Work experience included", "Skills section identified"}, got.Strengths)

	require.Len(t, got.Suggestions, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{got.Suggestions[0].ID, got.Suggestions[1].ID, got.Suggestions[2].ID})
	assert.Equal(t, SuggestionKeywords, got.Suggestions[0].Type)
	assert.Equal(t, []string{"JavaScript", "Python", "React", "Node.js", "AWS"}, got.Suggestions[0].Keywords)
	assert.Equal(t, "Include relevant technology keywords to improve ATS matching.", got.Suggestions[0].Description)
	assert.Equal(t, SuggestionQuantify, got.Suggestions[1].Type)
	assert.Equal(t, SuggestionFormatting, got.Suggestions[2].Type)
	assert.Equal(t, PriorityMedium, got.Suggestions[2].Priority)

	require.Len(t, got.SkillsGap, 6)
	present := map[string]bool{"JavaScript": true, "React": true}
	for _, g := range got.SkillsGap {
		if present[g.Skill] {
			assert.GreaterOrEqual(t, g.CurrentLevel, 60, g.Skill)
			assert.Less(t, g.CurrentLevel, 90, g.Skill)
		} else {
			assert.Less(t, g.CurrentLevel, 40, g.Skill)
		}
		assert.Equal(t, 85, g.TargetLevel)
	}
	assert.Empty(t, got.EmploymentGaps)
}

func TestHeuristicCaseInsensitive(t *testing.T) {
	got := newTestHeuristic(1).Analyze("EMAIL EXPERIENCE UNIVERSITY TOOLS", "finance")
	assert.Equal(t, 95, got.Score)
}

func TestHeuristicUnknownIndustry(t *testing.T) {
	got := newTestHeuristic(1).Analyze("email experience", "astronautics")

	assert.NotNil(t, got.SkillsGap)
	assert.Empty(t, got.SkillsGap)
	require.NotEmpty(t, got.Suggestions)
	assert.Nil(t, got.Suggestions[0].Keywords)
	assertWellFormed(t, got)
}

func TestHeuristicSeededIsReproducible(t *testing.T) {
	text := "email experience skills JavaScript"
	a := newTestHeuristic(42).Analyze(text, "technology")
	b := newTestHeuristic(42).Analyze(text, "technology")
	assert.Equal(t, a, b)
}

func TestHeuristicRangesHoldAcrossDraws(t *testing.T) {
	h := NewHeuristic(nil, nil)
	for i := 0; i < 200; i++ {
		got := h.Analyze("Kubernetes", "technology")
		assert.GreaterOrEqual(t, got.KeywordMatch, 40)
		assert.Less(t, got.KeywordMatch, 70)
		for _, g := range got.SkillsGap {
			assert.GreaterOrEqual(t, g.Importance, 70)
			assert.Less(t, g.Importance, 100)
		}
	}
}

func TestSeededRandConcurrentUse(t *testing.T) {
	r := NewSeededRand(9)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if v := r.IntN(10); v < 0 || v >= 10 {
					t.Errorf("out of range: %d", v)
				}
			}
		}()
	}
	wg.Wait()
}

func TestHeuristicReportsEmploymentGaps(t *testing.T) {
	text := "Experience\nEngineer, Acme, Jan 2015 - Mar 2017\nDeveloper, Beta, Jan 2018 - Present"

	got := newTestHeuristic(1).Analyze(text, "technology")

	require.Len(t, got.EmploymentGaps, 1)
	assert.Equal(t, "2017-04", got.EmploymentGaps[0].StartDate)
	require.Len(t, got.Suggestions, 4)
	assert.Equal(t, SuggestionEmploymentGap, got.Suggestions[3].Type)
	assert.Equal(t, 4, got.Suggestions[3].ID)
	assert.Equal(t, PriorityMedium, got.Suggestions[3].Priority)
}
