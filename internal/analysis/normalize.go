package analysis

import (
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

const (
	defaultSuggestionTitle       = "Improvement Needed"
	defaultSuggestionDescription = "No description provided"
	defaultSkillName             = "Unknown Skill"
	defaultTargetLevel           = 100
	defaultImportance            = 50
)

// Normalizer coerces loosely typed model output into a Result. It never fails: each
// field that is missing, mistyped or out of range is replaced by its default.
type Normalizer struct {
	heuristic *Heuristic
}

// NewNormalizer returns a Normalizer that fills a missing skills breakdown from h.
func NewNormalizer(h *Heuristic) *Normalizer {
	if h == nil {
		h = NewHeuristic(nil, nil)
	}
	return &Normalizer{heuristic: h}
}

// Normalize maps raw onto a Result. industry and text feed the default skills breakdown.
func (n *Normalizer) Normalize(raw []byte, industry, text string) Result {
	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() {
		doc = gjson.Result{}
	}

	score := doc.Get("atsScore")
	if !score.Exists() || score.Type == gjson.Null {
		score = doc.Get("score")
	}

	result := Result{
		Score:          intField(score, 0),
		Strengths:      stringList(doc.Get("strengths")),
		Improvements:   stringList(doc.Get("improvements")),
		KeywordMatch:   intField(doc.Get("keywordMatch"), 0),
		Formatting:     intField(doc.Get("formatting"), 0),
		Content:        intField(doc.Get("content"), 0),
		EmploymentGaps: normalizeGaps(doc.Get("employmentGaps")),
		Suggestions:    normalizeSuggestions(doc.Get("suggestions")),
	}

	if skills := doc.Get("skillsGap"); skills.IsArray() {
		result.SkillsGap = normalizeSkills(skills)
	} else {
		result.SkillsGap = n.heuristic.DefaultSkillsGap(text, industry)
	}
	return result.Sanitize()
}

func normalizeSuggestions(v gjson.Result) []Suggestion {
	out := []Suggestion{}
	if !v.IsArray() {
		return out
	}
	for _, item := range v.Array() {
		s := Suggestion{
			Type:        SuggestionType(enumField(item.Get("type"))),
			Title:       textField(item.Get("title"), defaultSuggestionTitle),
			Description: textField(item.Get("description"), defaultSuggestionDescription),
			Priority:    Priority(enumField(item.Get("priority"))),
		}
		if _, ok := validSuggestionTypes[s.Type]; !ok {
			s.Type = SuggestionSection
		}
		if _, ok := validPriorities[s.Priority]; !ok {
			s.Priority = PriorityMedium
		}
		if s.Type == SuggestionKeywords {
			if keywords := stringList(item.Get("keywords")); len(keywords) > 0 {
				s.Keywords = keywords
			}
		}
		out = append(out, s)
	}
	return out
}

func normalizeSkills(v gjson.Result) []SkillGap {
	out := []SkillGap{}
	for _, item := range v.Array() {
		out = append(out, SkillGap{
			Skill:        textField(item.Get("skill"), defaultSkillName),
			CurrentLevel: intField(item.Get("currentLevel"), 0),
			TargetLevel:  intField(item.Get("targetLevel"), defaultTargetLevel),
			Importance:   intField(item.Get("importance"), defaultImportance),
		})
	}
	return out
}

func normalizeGaps(v gjson.Result) []EmploymentGap {
	out := []EmploymentGap{}
	if !v.IsArray() {
		return out
	}
	for _, item := range v.Array() {
		duration := intField(item.Get("duration"), 0)
		severity := Severity(enumField(item.Get("severity")))
		if _, ok := validSeverities[severity]; !ok {
			severity = SeverityForDuration(duration)
		}
		out = append(out, EmploymentGap{
			StartDate:       textField(item.Get("startDate"), ""),
			EndDate:         textField(item.Get("endDate"), ""),
			Duration:        duration,
			Severity:        severity,
			Recommendations: stringList(item.Get("recommendations")),
		})
	}
	return out
}

// intField reads a number or numeric string, rounds it and clamps it to [0,100].
// Anything else yields def.
func intField(v gjson.Result, def int) int {
	var f float64
	switch v.Type {
	case gjson.Number:
		f = v.Float()
	case gjson.String:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil {
			return Clamp(def)
		}
		f = parsed
	default:
		return Clamp(def)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Clamp(def)
	}
	f = math.Max(0, math.Min(100, f))
	return int(math.Round(f))
}

func textField(v gjson.Result, def string) string {
	if v.Type != gjson.String {
		return def
	}
	if s := strings.TrimSpace(v.Str); s != "" {
		return s
	}
	return def
}

func enumField(v gjson.Result) string {
	if v.Type != gjson.String {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(v.Str))
}

func stringList(v gjson.Result) []string {
	out := []string{}
	if !v.IsArray() {
		return out
	}
	for _, item := range v.Array() {
		if item.Type != gjson.String {
			continue
		}
		if s := strings.TrimSpace(item.Str); s != "" {
			out = append(out, s)
		}
	}
	return out
}
