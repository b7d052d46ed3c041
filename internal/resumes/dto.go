package resumes

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"resume-optimizer/internal/analysis"
)

var validate = validator.New()

type composeRequest struct {
	Filename string `json:"filename" validate:"omitempty,max=255"`
	Content  string `json:"content" validate:"required"`
	Industry string `json:"industry" validate:"required,max=64"`
}

type patchRequest struct {
	Filename        *string `json:"filename" validate:"omitempty,min=1,max=255"`
	Industry        *string `json:"industry" validate:"omitempty,min=1,max=64"`
	OriginalContent *string `json:"originalContent"`
}

// reanalyze reports whether the patch carries a full content + industry pair.
func (p patchRequest) reanalyze() bool {
	return p.OriginalContent != nil && p.Industry != nil
}

// ResumeResponse is the outward-facing representation of a resume: the
// analysis fields flattened next to the record fields.
type ResumeResponse struct {
	ID              string `json:"id"`
	Filename        string `json:"filename"`
	Industry        string `json:"industry"`
	OriginalContent string `json:"originalContent"`
	MimeType        string `json:"mimeType,omitempty"`
	analysis.Result
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toResponse(res Resume) ResumeResponse {
	return ResumeResponse{
		ID:              res.ID,
		Filename:        res.Filename,
		Industry:        res.Industry,
		OriginalContent: res.OriginalContent,
		MimeType:        res.MimeType,
		Result:          res.Analysis.Sanitize(),
		CreatedAt:       res.CreatedAt,
		UpdatedAt:       res.UpdatedAt,
	}
}

func validationMessage(err error) string {
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		ve := verrs[0]
		return fmt.Sprintf("%s failed %s validation", ve.Field(), ve.Tag())
	}
	return "invalid request body"
}
