package catalog

// ResumeTemplate is an industry-specific outline users can start a resume from.
type ResumeTemplate struct {
	ID          string             `json:"id"`
	Industry    string             `json:"industry"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Sections    []TemplateSection  `json:"sections"`
	Keywords    []string           `json:"keywords"`
	Formatting  TemplateFormatting `json:"formatting"`
}

type TemplateSection struct {
	Name     string   `json:"name"`
	Required bool     `json:"required"`
	Order    int      `json:"order"`
	Content  string   `json:"content"`
	Tips     []string `json:"tips"`
}

type TemplateFormatting struct {
	Font        string `json:"font"`
	FontSize    string `json:"fontSize"`
	Margins     string `json:"margins"`
	Spacing     string `json:"spacing"`
	BulletStyle string `json:"bulletStyle"`
}

var atsFormatting = TemplateFormatting{
	Font:        "Calibri",
	FontSize:    "11pt",
	Margins:     "1in",
	Spacing:     "single",
	BulletStyle: "round",
}

var sectionEmphasis = map[string]string{
	"technology": "Technical Skills",
	"healthcare": "Licenses & Certifications",
	"finance":    "Certifications",
	"marketing":  "Campaign Highlights",
	"education":  "Teaching Philosophy",
	"consulting": "Selected Engagements",
	"sales":      "Sales Achievements",
	"operations": "Process Improvements",
}

// Template returns the template for industry. Unknown industries get the generic template
// and ok=false.
func (c *Catalog) Template(industry string) (ResumeTemplate, bool) {
	key := Normalize(industry)
	emphasis, ok := sectionEmphasis[key]
	if !ok || !c.Has(key) {
		return genericTemplate(), false
	}

	sections := baseSections()
	sections = append(sections, TemplateSection{
		Name:     emphasis,
		Required: false,
		Order:    len(sections) + 1,
		Tips: []string{
			"Use the exact wording employers use in " + key + " job postings",
			"Lead each line with a measurable outcome",
		},
	})

	return ResumeTemplate{
		ID:          key + "-standard",
		Industry:    key,
		Name:        "ATS-friendly " + key + " resume",
		Description: "Single-column layout with standard headings that parse cleanly in applicant tracking systems.",
		Sections:    sections,
		Keywords:    c.Keywords(key),
		Formatting:  atsFormatting,
	}, true
}

func genericTemplate() ResumeTemplate {
	return ResumeTemplate{
		ID:          "generic-standard",
		Industry:    "",
		Name:        "ATS-friendly resume",
		Description: "Single-column layout with standard headings that parse cleanly in applicant tracking systems.",
		Sections:    baseSections(),
		Keywords:    []string{},
		Formatting:  atsFormatting,
	}
}

func baseSections() []TemplateSection {
	return []TemplateSection{
		{Name: "Contact Information", Required: true, Order: 1, Tips: []string{"Include email, phone and LinkedIn URL", "Avoid headers and footers for contact details"}},
		{Name: "Professional Summary", Required: true, Order: 2, Tips: []string{"Two to three lines tailored to the target role"}},
		{Name: "Experience", Required: true, Order: 3, Tips: []string{"Reverse chronological order", "Use month and year for every position", "Quantify impact with numbers"}},
		{Name: "Education", Required: true, Order: 4, Tips: []string{"Degree, institution and graduation year"}},
		{Name: "Skills", Required: true, Order: 5, Tips: []string{"Group related skills", "Mirror keywords from the job description"}},
	}
}
