package resumes

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"resume-optimizer/internal/analysis"
	"resume-optimizer/internal/events"
	"resume-optimizer/internal/extract"
	"resume-optimizer/internal/shared/metrics"
	"resume-optimizer/internal/shared/storage/object"
	"resume-optimizer/internal/shared/telemetry"
	"resume-optimizer/internal/shared/util"
	"resume-optimizer/internal/stats"
)

const (
	DefaultMaxUploadBytes = 10 << 20 // 10MB
	defaultComposeName    = "resume.txt"
)

// Analyzer runs the analysis pipeline and reports the text it analyzed.
type Analyzer interface {
	AnalyzeWithText(ctx context.Context, doc analysis.Document, industry string) (analysis.Result, string)
}

// Optimizer rewrites resume content from a set of suggestions.
type Optimizer interface {
	Optimize(ctx context.Context, content, industry string, suggestions []analysis.Suggestion) string
}

// Service contains business logic for resumes.
type Service struct {
	Store          object.ObjectStore // optional; originals are not kept when nil
	Repo           Repo
	Analyzer       Analyzer
	Optimizer      Optimizer
	Stats          stats.Store
	Events         events.Publisher
	MaxUploadBytes int64
	Now            func() time.Time
}

// UploadInput is a resume file received from a client.
type UploadInput struct {
	UserID   string
	FileName string
	MimeType string
	Industry string
	Data     []byte
}

// ComposeInput is a resume written in the builder.
type ComposeInput struct {
	UserID   string
	Filename string
	Content  string
	Industry string
}

// PatchInput carries the fields a client may change without re-analysis.
type PatchInput struct {
	Filename        *string
	Industry        *string
	OriginalContent *string
}

var uploadTypes = map[string]struct{}{
	extract.MimePDF:  {},
	extract.MimeDOC:  {},
	extract.MimeDOCX: {},
}

// Upload validates the file, stores the original, analyzes it and persists the record.
func (s *Service) Upload(ctx context.Context, in UploadInput) (Resume, error) {
	industry := strings.TrimSpace(in.Industry)
	if industry == "" {
		return Resume{}, fmt.Errorf("%w: industry is required", ErrInvalidInput)
	}
	if len(in.Data) == 0 {
		return Resume{}, fmt.Errorf("%w: file is required", ErrInvalidInput)
	}
	if int64(len(in.Data)) > s.maxUploadBytes() {
		return Resume{}, ErrTooLarge
	}
	mimeType := extract.Sniff(in.Data, in.MimeType, in.FileName)
	if _, ok := uploadTypes[mimeType]; !ok {
		return Resume{}, fmt.Errorf("%w: %s", ErrUnsupportedType, mimeType)
	}
	fileName, err := cleanName(in.FileName, "resume")
	if err != nil {
		return Resume{}, err
	}

	var (
		stored object.Object
		result analysis.Result
		text   string
	)
	g, gctx := errgroup.WithContext(ctx)
	if s.Store != nil {
		g.Go(func() error {
			obj, err := s.Store.Put(gctx, in.UserID, fileName, mimeType, bytes.NewReader(in.Data))
			if err != nil {
				return fmt.Errorf("store original: %w", err)
			}
			stored = obj
			return nil
		})
	}
	g.Go(func() error {
		result, text = s.Analyzer.AnalyzeWithText(gctx, analysis.Document{
			Data:     in.Data,
			MimeType: mimeType,
			FileName: fileName,
		}, industry)
		return nil
	})
	if err := g.Wait(); err != nil {
		return Resume{}, err
	}

	now := s.now()
	res := Resume{
		ID:              uuid.NewString(),
		UserID:          in.UserID,
		Filename:        fileName,
		Industry:        industry,
		OriginalContent: text,
		MimeType:        mimeType,
		StorageKey:      stored.Key,
		ContentHash:     util.HashContent(text),
		Analysis:        result,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	return s.persistNew(ctx, res)
}

// Compose analyzes a resume written as text and persists it.
func (s *Service) Compose(ctx context.Context, in ComposeInput) (Resume, error) {
	industry := strings.TrimSpace(in.Industry)
	if industry == "" {
		return Resume{}, fmt.Errorf("%w: industry is required", ErrInvalidInput)
	}
	if strings.TrimSpace(in.Content) == "" {
		return Resume{}, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}
	fileName, err := cleanName(in.Filename, defaultComposeName)
	if err != nil {
		return Resume{}, err
	}

	result, _ := s.Analyzer.AnalyzeWithText(ctx, analysis.Document{Text: in.Content}, industry)

	now := s.now()
	res := Resume{
		ID:              uuid.NewString(),
		UserID:          in.UserID,
		Filename:        fileName,
		Industry:        industry,
		OriginalContent: in.Content,
		MimeType:        extract.MimeText,
		ContentHash:     util.HashContent(in.Content),
		Analysis:        result,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	return s.persistNew(ctx, res)
}

func (s *Service) persistNew(ctx context.Context, res Resume) (Resume, error) {
	if err := s.Repo.Create(ctx, res); err != nil {
		return Resume{}, fmt.Errorf("create resume: %w", err)
	}
	if s.Stats != nil {
		if _, err := s.Stats.RecordAnalysis(ctx, res.UserID, res.Analysis.Score); err != nil {
			telemetry.Warn("stats.record_failed", map[string]any{
				"user_id":   res.UserID,
				"resume_id": res.ID,
				"error":     err,
			})
		}
	}
	s.publish(ctx, events.TypeResumeAnalyzed, res)
	return res, nil
}

// Reanalyze runs the pipeline on edited content and replaces the stored analysis.
// Stats are not touched.
func (s *Service) Reanalyze(ctx context.Context, userID, id, content, industry string) (Resume, error) {
	industry = strings.TrimSpace(industry)
	if industry == "" {
		return Resume{}, fmt.Errorf("%w: industry is required", ErrInvalidInput)
	}
	if strings.TrimSpace(content) == "" {
		return Resume{}, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}
	res, err := s.Repo.GetByID(ctx, userID, id)
	if err != nil {
		return Resume{}, err
	}

	result, _ := s.Analyzer.AnalyzeWithText(ctx, analysis.Document{Text: content}, industry)

	res.OriginalContent = content
	res.ContentHash = util.HashContent(content)
	res.Industry = industry
	res.Analysis = result
	res.UpdatedAt = s.now()
	if err := s.Repo.ReplaceAnalysis(ctx, res); err != nil {
		return Resume{}, err
	}
	s.publish(ctx, events.TypeResumeReanalyzed, res)
	return res, nil
}

// Update changes filename, industry or content without re-analysis.
func (s *Service) Update(ctx context.Context, userID, id string, in PatchInput) (Resume, error) {
	res, err := s.Repo.GetByID(ctx, userID, id)
	if err != nil {
		return Resume{}, err
	}
	if in.Filename != nil {
		if strings.TrimSpace(*in.Filename) == "" {
			return Resume{}, fmt.Errorf("%w: filename must not be empty", ErrInvalidInput)
		}
		name, err := cleanName(*in.Filename, "")
		if err != nil {
			return Resume{}, err
		}
		res.Filename = name
	}
	if in.Industry != nil {
		industry := strings.TrimSpace(*in.Industry)
		if industry == "" {
			return Resume{}, fmt.Errorf("%w: industry must not be empty", ErrInvalidInput)
		}
		res.Industry = industry
	}
	if in.OriginalContent != nil {
		if strings.TrimSpace(*in.OriginalContent) == "" {
			return Resume{}, fmt.Errorf("%w: content must not be empty", ErrInvalidInput)
		}
		res.OriginalContent = *in.OriginalContent
		res.ContentHash = util.HashContent(res.OriginalContent)
	}
	res.UpdatedAt = s.now()
	if err := s.Repo.UpdateMeta(ctx, res); err != nil {
		return Resume{}, err
	}
	return res, nil
}

// Optimize returns a rewritten version of the stored content. It falls back to
// the stored content when no optimizer is configured or the rewrite fails.
func (s *Service) Optimize(ctx context.Context, userID, id string) (string, error) {
	res, err := s.Repo.GetByID(ctx, userID, id)
	if err != nil {
		return "", err
	}
	if s.Optimizer == nil {
		return res.OriginalContent, nil
	}
	return s.Optimizer.Optimize(ctx, res.OriginalContent, res.Industry, res.Analysis.Suggestions), nil
}

// Get returns one of the user's resumes.
func (s *Service) Get(ctx context.Context, userID, id string) (Resume, error) {
	if strings.TrimSpace(id) == "" {
		return Resume{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, userID, id)
}

// List returns the user's resumes newest first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Resume, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: user id required", ErrInvalidInput)
	}
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

func (s *Service) publish(ctx context.Context, eventType string, res Resume) {
	if s.Events == nil {
		return
	}
	evt := events.Event{
		Type:       eventType,
		ResumeID:   res.ID,
		UserID:     res.UserID,
		Industry:   res.Industry,
		Score:      res.Analysis.Score,
		OccurredAt: res.UpdatedAt,
	}
	if err := s.Events.Publish(ctx, evt); err != nil {
		metrics.IncEventPublishFailed()
		telemetry.Warn("events.publish_failed", map[string]any{
			"type":      eventType,
			"resume_id": res.ID,
			"error":     err,
		})
	}
}

func (s *Service) maxUploadBytes() int64 {
	if s.MaxUploadBytes > 0 {
		return s.MaxUploadBytes
	}
	return DefaultMaxUploadBytes
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// cleanName applies the stored-name rules, substituting fallback for a blank name.
func cleanName(name, fallback string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return fallback, nil
	}
	cleaned, err := util.CleanFileName(name)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return cleaned, nil
}
