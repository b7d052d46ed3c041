// Package catalog holds the compiled-in industry keyword lists and resume templates.
package catalog

import (
	"sort"
	"strings"
)

var industryKeywords = map[string][]string{
	"technology": {
		"JavaScript", "Python", "React", "Node.js", "AWS", "Docker", "Kubernetes",
		"API", "Database", "Git", "Agile", "CI/CD", "Machine Learning", "Data Analysis",
		"Software Development", "Full Stack", "Frontend", "Backend", "DevOps",
	},
	"healthcare": {
		"Patient Care", "Medical Records", "HIPAA", "Clinical", "Healthcare",
		"Medical", "Nursing", "Pharmacy", "Laboratory", "Diagnostic", "Treatment",
		"EMR", "EHR", "Healthcare Administration", "Medical Device", "FDA",
	},
	"finance": {
		"Financial Analysis", "Risk Management", "Investment", "Portfolio",
		"Banking", "Accounting", "Budgeting", "Forecasting", "Compliance",
		"Audit", "Financial Reporting", "Excel", "Bloomberg", "Trading", "Securities",
	},
	"marketing": {
		"Digital Marketing", "SEO", "SEM", "Social Media", "Content Marketing",
		"Brand Management", "Campaign", "Analytics", "Lead Generation", "CRM",
		"Email Marketing", "Conversion", "ROI", "Market Research", "Advertising",
	},
	"education": {
		"Curriculum", "Teaching", "Learning", "Assessment", "Education",
		"Instruction", "Classroom Management", "Pedagogy", "Student Development",
		"Academic", "Training", "Workshop", "Professional Development", "Research",
	},
	"consulting": {
		"Strategy", "Analysis", "Problem Solving", "Client Management", "Project Management",
		"Business Development", "Process Improvement", "Change Management",
		"Stakeholder", "Presentation", "Consulting", "Advisory", "Implementation",
	},
	"sales": {
		"Sales", "Revenue", "Pipeline", "Prospecting", "Lead Generation", "CRM",
		"Account Management", "Customer Relationship", "Negotiation", "Closing",
		"Territory", "Quota", "B2B", "B2C", "Sales Process", "Customer Success",
	},
	"operations": {
		"Operations", "Process Improvement", "Supply Chain", "Logistics",
		"Quality Control", "Inventory Management", "Procurement", "Vendor Management",
		"Efficiency", "Cost Reduction", "Lean", "Six Sigma", "Project Management",
	},
}

// Catalog maps an industry identifier to its ordered keyword list.
// The zero value is not usable; call Default.
type Catalog struct {
	entries map[string][]string
}

var defaultCatalog = &Catalog{entries: industryKeywords}

// Default returns the built-in catalog. It is read-only and safe for concurrent use.
func Default() *Catalog {
	return defaultCatalog
}

// Keywords returns a copy of the industry's keywords. Unknown industries yield an empty slice.
func (c *Catalog) Keywords(industry string) []string {
	list := c.entries[Normalize(industry)]
	out := make([]string, len(list))
	copy(out, list)
	return out
}

// Has reports whether the industry has a catalog entry.
func (c *Catalog) Has(industry string) bool {
	_, ok := c.entries[Normalize(industry)]
	return ok
}

// Industries lists the known industry identifiers in sorted order.
func (c *Catalog) Industries() []string {
	out := make([]string, 0, len(c.entries))
	for k := range c.entries {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Normalize lower-cases and trims an industry identifier.
func Normalize(industry string) string {
	return strings.ToLower(strings.TrimSpace(industry))
}
