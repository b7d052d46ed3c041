package llm

import (
	_ "embed"
	"strings"
	"text/template"
)

const (
	analysisSystemPrompt = "You are an expert ATS analyzer and career consultant. Always respond with valid JSON that matches the requested format exactly."
	optimizeSystemPrompt = "You are a professional resume writer. Provide only the optimized resume content with no additional commentary or explanations."

	AnalysisTemperature = 0.3
	OptimizeTemperature = 0.4
)

var (
	//go:embed prompts/analysis.tmpl
	analysisTemplateText string
	//go:embed prompts/optimize.tmpl
	optimizeTemplateText string

	analysisTemplate = template.Must(template.New("analysis").Parse(analysisTemplateText))
	optimizeTemplate = template.Must(template.New("optimize").Parse(optimizeTemplateText))
)

// SuggestionLine is the part of a suggestion the rewrite prompt needs.
type SuggestionLine struct {
	Title       string
	Description string
}

// BuildAnalysisPrompt assembles the analysis request for text in industry. keywords may be
// empty for industries the catalog does not know.
func BuildAnalysisPrompt(text, industry string, keywords []string) PromptSpec {
	data := struct {
		Industry string
		Keywords string
		Resume   string
	}{
		Industry: industry,
		Keywords: strings.Join(keywords, ", "),
		Resume:   text,
	}
	return PromptSpec{
		System:      analysisSystemPrompt,
		User:        render(analysisTemplate, data),
		Temperature: AnalysisTemperature,
		JSON:        true,
		Industry:    industry,
		Keywords:    append([]string(nil), keywords...),
	}
}

// BuildOptimizePrompt assembles the rewrite request for a resume and its suggestions.
func BuildOptimizePrompt(content, industry string, suggestions []SuggestionLine) PromptSpec {
	data := struct {
		Resume      string
		Industry    string
		Suggestions []SuggestionLine
	}{
		Resume:      content,
		Industry:    industry,
		Suggestions: suggestions,
	}
	return PromptSpec{
		System:      optimizeSystemPrompt,
		User:        render(optimizeTemplate, data),
		Temperature: OptimizeTemperature,
		Industry:    industry,
	}
}

func render(tmpl *template.Template, data any) string {
	var b strings.Builder
	// Templates are compiled-in and only reference fields present in data.
	if err := tmpl.Execute(&b, data); err != nil {
		return ""
	}
	return b.String()
}
