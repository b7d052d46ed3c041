package resumes

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-optimizer/internal/shared/server/middleware"
	"resume-optimizer/internal/shared/server/respond"
)

// multipart framing allowance on top of the file limit
const formOverheadBytes = 1 << 20

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches resume routes to the router group. The analysis
// middleware (typically a rate limiter) runs only on routes that invoke the
// analysis pipeline.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, analysisMW ...gin.HandlerFunc) {
	analyze := func(handler gin.HandlerFunc) []gin.HandlerFunc {
		chain := make([]gin.HandlerFunc, 0, len(analysisMW)+1)
		chain = append(chain, analysisMW...)
		return append(chain, handler)
	}
	rg.POST("/resumes/upload", analyze(h.upload)...)
	rg.POST("/resumes", analyze(h.compose)...)
	rg.PATCH("/resumes/:id", analyze(h.patch)...)
	rg.GET("/resumes", h.list)
	rg.GET("/resumes/:id", h.get)
	rg.POST("/resumes/:id/optimize", analyze(h.optimize)...)
}

func (h *Handler) upload(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	limit := h.Svc.maxUploadBytes()
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+formOverheadBytes)

	fileHeader, err := c.FormFile("resume")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "file exceeds upload limit", gin.H{"maxBytes": limit})
			return
		}
		respond.Error(c, http.StatusBadRequest, "invalid_request", "No file uploaded", nil)
		return
	}
	industry := strings.TrimSpace(c.PostForm("industry"))
	if industry == "" {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "Industry is required", nil)
		return
	}
	if fileHeader.Size > limit {
		respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "file exceeds upload limit", gin.H{"maxBytes": limit})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "unable to read file", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "unable to read file", nil)
		return
	}

	res, err := h.Svc.Upload(c.Request.Context(), UploadInput{
		UserID:   userID,
		FileName: fileHeader.Filename,
		MimeType: fileHeader.Header.Get("Content-Type"),
		Industry: industry,
		Data:     data,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	middleware.SetResumeID(c, res.ID)
	respond.Created(c, toResponse(res))
}

func (h *Handler) compose(c *gin.Context) {
	var req composeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid request body", nil)
		return
	}
	if err := validate.Struct(req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", validationMessage(err), nil)
		return
	}

	res, err := h.Svc.Compose(c.Request.Context(), ComposeInput{
		UserID:   middleware.UserIDFromContext(c),
		Filename: req.Filename,
		Content:  req.Content,
		Industry: req.Industry,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	middleware.SetResumeID(c, res.ID)
	respond.Created(c, toResponse(res))
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	limit := 20
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if limit < 0 {
		limit = 0
	}
	if limit > 50 {
		limit = 50
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}
	if offset < 0 {
		offset = 0
	}

	items, err := h.Svc.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]ResumeResponse, 0, len(items))
	for _, res := range items {
		resp = append(resp, toResponse(res))
	}
	respond.OK(c, resp)
}

func (h *Handler) get(c *gin.Context) {
	id := c.Param("id")
	middleware.SetResumeID(c, id)
	res, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toResponse(res))
}

func (h *Handler) patch(c *gin.Context) {
	id := c.Param("id")
	middleware.SetResumeID(c, id)
	userID := middleware.UserIDFromContext(c)

	var req patchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid request body", nil)
		return
	}
	if err := validate.Struct(req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", validationMessage(err), nil)
		return
	}

	var (
		res Resume
		err error
	)
	if req.reanalyze() {
		res, err = h.Svc.Reanalyze(c.Request.Context(), userID, id, *req.OriginalContent, *req.Industry)
	} else {
		res, err = h.Svc.Update(c.Request.Context(), userID, id, PatchInput{
			Filename:        req.Filename,
			Industry:        req.Industry,
			OriginalContent: req.OriginalContent,
		})
	}
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toResponse(res))
}

func (h *Handler) optimize(c *gin.Context) {
	id := c.Param("id")
	middleware.SetResumeID(c, id)
	content, err := h.Svc.Optimize(c.Request.Context(), middleware.UserIDFromContext(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, gin.H{"optimizedContent": content})
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "invalid_request", strings.TrimPrefix(err.Error(), ErrInvalidInput.Error()+": "), nil)
	case errors.Is(err, ErrTooLarge):
		respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "file exceeds upload limit", nil)
	case errors.Is(err, ErrUnsupportedType):
		respond.Error(c, http.StatusUnsupportedMediaType, "unsupported_media_type", "Only PDF, DOC, and DOCX files are allowed", nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "Resume not found", nil)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respond.Error(c, http.StatusRequestTimeout, "request_cancelled", "request cancelled", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to process resume", nil)
	}
}
