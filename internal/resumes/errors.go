package resumes

import "errors"

var (
	// ErrNotFound is returned when a resume does not exist or belongs to another user.
	ErrNotFound = errors.New("resume not found")
	// ErrInvalidInput indicates a missing or malformed field.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnsupportedType indicates an upload that is not PDF, DOC or DOCX.
	ErrUnsupportedType = errors.New("unsupported file type")
	// ErrTooLarge indicates an upload above the configured size limit.
	ErrTooLarge = errors.New("file too large")
)
