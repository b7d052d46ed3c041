package analysis

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"
	"sync"
	"time"

	"resume-optimizer/internal/catalog"
)

// RandSource supplies the pseudo-random parts of a heuristic result.
type RandSource interface {
	// IntN returns a value in [0,n).
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// lockedRand guards a seeded generator; rand.Rand is not safe for concurrent use.
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.IntN(n)
}

// NewSeededRand returns a reproducible RandSource.
func NewSeededRand(seed uint64) RandSource {
	return &lockedRand{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

var (
	contactPattern    = regexp.MustCompile(`(?i)email|phone|linkedin`)
	experiencePattern = regexp.MustCompile(`(?i)experience|work|job|position`)
	educationPattern  = regexp.MustCompile(`(?i)education|degree|university|college`)
	skillsPattern     = regexp.MustCompile(`(?i)skills|technologies|tools`)
)

const (
	heuristicBaseScore  = 50
	skillsGapSampleSize = 6
	keywordHintCount    = 5
	skillTargetLevel    = 85
)

// Heuristic scores a resume with simple text rules. It is used whenever the model call
// fails, and supplies the default skills breakdown for model output lacking one.
type Heuristic struct {
	catalog *catalog.Catalog
	rand    RandSource
	now     func() time.Time
}

// NewHeuristic builds a Heuristic. A nil RandSource uses the process-wide generator.
func NewHeuristic(c *catalog.Catalog, r RandSource) *Heuristic {
	if c == nil {
		c = catalog.Default()
	}
	if r == nil {
		r = globalRand{}
	}
	return &Heuristic{catalog: c, rand: r, now: time.Now}
}

// Analyze produces a complete Result from text alone.
func (h *Heuristic) Analyze(text, industry string) Result {
	hasContact := contactPattern.MatchString(text)
	hasExperience := experiencePattern.MatchString(text)
	hasEducation := educationPattern.MatchString(text)
	hasSkills := skillsPattern.MatchString(text)
	wordCount := len(strings.Fields(text))

	score := heuristicBaseScore
	if hasContact {
		score += 10
	}
	if hasExperience {
		score += 15
	}
	if hasEducation {
		score += 10
	}
	if hasSkills {
		score += 10
	}
	if wordCount > 200 {
		score += 5
	}

	formatting := 60
	if hasContact && hasExperience {
		formatting = 75
	}
	content := 55
	if hasExperience && hasSkills {
		content = 70
	}

	keywords := h.catalog.Keywords(industry)
	hints := keywords
	if len(hints) > keywordHintCount {
		hints = hints[:keywordHintCount]
	}

	result := Result{
		Score:          min(score, 100),
		Strengths:      strengths(hasContact, hasExperience, hasSkills),
		Improvements:   improvements(hasContact, hasExperience, hasSkills),
		KeywordMatch:   40 + h.rand.IntN(30),
		Formatting:     formatting,
		Content:        content,
		EmploymentGaps: []EmploymentGap{},
		Suggestions: []Suggestion{
			{
				Type:        SuggestionKeywords,
				Title:       "Add Industry Keywords",
				Description: fmt.Sprintf("Include relevant %s keywords to improve ATS matching.", industry),
				Keywords:    keywordsOrNil(hints),
				Priority:    PriorityHigh,
			},
			{
				Type:        SuggestionQuantify,
				Title:       "Quantify Achievements",
				Description: "Add specific numbers, percentages, and metrics to demonstrate impact.",
				Priority:    PriorityHigh,
			},
			{
				Type:        SuggestionFormatting,
				Title:       "Improve ATS Formatting",
				Description: "Use standard section headings and bullet points for better ATS parsing.",
				Priority:    PriorityMedium,
			},
		},
		SkillsGap: h.DefaultSkillsGap(text, industry),
	}
	if gaps := DetectEmploymentGaps(text, h.now()); len(gaps) > 0 {
		result.EmploymentGaps = gaps
		result.Suggestions = append(result.Suggestions, gapSuggestion(gaps))
	}
	return result.Sanitize()
}

// DefaultSkillsGap rates the first catalog keywords of industry against text. Unknown
// industries yield an empty slice.
func (h *Heuristic) DefaultSkillsGap(text, industry string) []SkillGap {
	keywords := h.catalog.Keywords(industry)
	if len(keywords) > skillsGapSampleSize {
		keywords = keywords[:skillsGapSampleSize]
	}
	lower := strings.ToLower(text)
	out := make([]SkillGap, 0, len(keywords))
	for _, skill := range keywords {
		var current int
		if strings.Contains(lower, strings.ToLower(skill)) {
			current = 60 + h.rand.IntN(30)
		} else {
			current = h.rand.IntN(40)
		}
		out = append(out, SkillGap{
			Skill:        skill,
			CurrentLevel: current,
			TargetLevel:  skillTargetLevel,
			Importance:   70 + h.rand.IntN(30),
		})
	}
	return out
}

func strengths(hasContact, hasExperience, hasSkills bool) []string {
	out := make([]string, 0, 3)
	if hasContact {
		out = append(out, "Contact information present")
	} else {
		out = append(out, "Basic structure detected")
	}
	if hasExperience {
		out = append(out, "Work experience included")
	} else {
		out = append(out, "Content organized")
	}
	if hasSkills {
		out = append(out, "Skills section identified")
	} else {
		out = append(out, "Readable format")
	}
	return out
}

func improvements(hasContact, hasExperience, hasSkills bool) []string {
	out := make([]string, 0, 6)
	if !hasContact {
		out = append(out, "Add complete contact information")
	}
	if !hasExperience {
		out = append(out, "Include detailed work experience")
	}
	if !hasSkills {
		out = append(out, "Add technical skills section")
	}
	return append(out,
		"Add quantified achievements",
		"Include industry-specific keywords",
		"Improve ATS formatting",
	)
}

func keywordsOrNil(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	return append([]string(nil), in...)
}
