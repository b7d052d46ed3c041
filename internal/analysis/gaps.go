package analysis

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	monthName = `(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)`
	year      = `(?:19|20)\d{2}`
	dateToken = monthName + `\.?\s+` + year + `|` + year + `-\d{2}|\d{1,2}/` + year + `|` + year
	// minGapMonths is the shortest gap worth reporting.
	minGapMonths = 3
)

var (
	dateRangePattern = regexp.MustCompile(`(?i)\b(` + dateToken + `)\s*(?:-|–|—|to|until)\s*(` + dateToken + `|present|current|now)\b`)
	monthPrefix      = regexp.MustCompile(`(?i)^` + monthName)
	yearOnly         = regexp.MustCompile(`^` + year + `$`)
	isoMonth         = regexp.MustCompile(`^(` + year + `)-(\d{2})$`)
	slashMonth       = regexp.MustCompile(`^(\d{1,2})/(` + year + `)$`)
	trailingYear     = regexp.MustCompile(year + `$`)
)

var monthIndex = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

// span is an inclusive range of months counted as year*12 + month-1.
type span struct {
	start int
	end   int
}

// DetectEmploymentGaps finds date ranges in text and reports the gaps between them that
// last at least three months. Open-ended ranges ("present") end at now.
func DetectEmploymentGaps(text string, now time.Time) []EmploymentGap {
	current := now.Year()*12 + int(now.Month()) - 1
	var spans []span
	for _, m := range dateRangePattern.FindAllStringSubmatch(text, -1) {
		start, ok := parseMonth(m[1], false, current)
		if !ok {
			continue
		}
		end, ok := parseMonth(m[2], true, current)
		if !ok || end < start {
			continue
		}
		spans = append(spans, span{start: start, end: end})
	}
	if len(spans) < 2 {
		return []EmploymentGap{}
	}

	sort.Slice(spans, func(i, j int) bool {
		if spans[i].start == spans[j].start {
			return spans[i].end < spans[j].end
		}
		return spans[i].start < spans[j].start
	})

	gaps := []EmploymentGap{}
	coveredUntil := spans[0].end
	for _, s := range spans[1:] {
		if missing := s.start - coveredUntil - 1; missing >= minGapMonths {
			gaps = append(gaps, newGap(coveredUntil+1, s.start-1, missing))
		}
		if s.end > coveredUntil {
			coveredUntil = s.end
		}
	}
	return gaps
}

func newGap(from, to, months int) EmploymentGap {
	severity := SeverityForDuration(months)
	return EmploymentGap{
		StartDate:       formatMonth(from),
		EndDate:         formatMonth(to),
		Duration:        min(months, 100),
		Severity:        severity,
		Recommendations: gapRecommendations(severity),
	}
}

func gapRecommendations(severity Severity) []string {
	out := []string{"Briefly explain the gap in your summary or cover letter"}
	if severity != SeverityMinor {
		out = append(out, "List freelance, volunteer, or training activities from this period")
	}
	if severity == SeveritySignificant {
		out = append(out, "Consider a hybrid resume format that leads with skills")
	}
	return out
}

// gapSuggestion summarizes detected gaps as a single suggestion.
func gapSuggestion(gaps []EmploymentGap) Suggestion {
	priority := PriorityLow
	for _, g := range gaps {
		switch g.Severity {
		case SeveritySignificant:
			priority = PriorityHigh
		case SeverityModerate:
			if priority == PriorityLow {
				priority = PriorityMedium
			}
		}
	}
	periods := make([]string, 0, len(gaps))
	for _, g := range gaps {
		periods = append(periods, fmt.Sprintf("%s to %s", g.StartDate, g.EndDate))
	}
	return Suggestion{
		Type:        SuggestionEmploymentGap,
		Title:       "Address Employment Gaps",
		Description: "Explain the periods without listed roles: " + strings.Join(periods, ", ") + ".",
		Priority:    priority,
	}
}

func parseMonth(token string, isEnd bool, current int) (int, bool) {
	token = strings.TrimSpace(token)
	lower := strings.ToLower(token)
	switch lower {
	case "present", "current", "now":
		return current, true
	}

	if m := isoMonth.FindStringSubmatch(token); m != nil {
		return monthValue(m[1], m[2])
	}
	if m := slashMonth.FindStringSubmatch(token); m != nil {
		return monthValue(m[2], m[1])
	}
	if yearOnly.MatchString(token) {
		y, _ := strconv.Atoi(token)
		if isEnd {
			return y*12 + 11, true
		}
		return y * 12, true
	}
	if name := monthPrefix.FindString(lower); name != "" {
		y, err := strconv.Atoi(trailingYear.FindString(token))
		if err != nil {
			return 0, false
		}
		return y*12 + monthIndex[name[:3]] - 1, true
	}
	return 0, false
}

func monthValue(yearText, monthText string) (int, bool) {
	y, err := strconv.Atoi(yearText)
	if err != nil {
		return 0, false
	}
	m, err := strconv.Atoi(monthText)
	if err != nil || m < 1 || m > 12 {
		return 0, false
	}
	return y*12 + m - 1, true
}

func formatMonth(v int) string {
	return fmt.Sprintf("%04d-%02d", v/12, v%12+1)
}
