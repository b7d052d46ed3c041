package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func TestRequestIDPropagatesOrMints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, RequestIDFromContext(c))
	})

	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{name: "caller id kept", incoming: "req-123_abc.1", keep: true},
		{name: "missing", incoming: ""},
		{name: "header injection", incoming: "abc\r\nSet-Cookie: x"},
		{name: "too long", incoming: strings.Repeat("a", 65)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			if tt.incoming != "" {
				req.Header.Set("X-Request-Id", tt.incoming)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			got := rec.Header().Get("X-Request-Id")
			if got != rec.Body.String() {
				t.Fatalf("header %q and context %q differ", got, rec.Body.String())
			}
			if tt.keep {
				if got != tt.incoming {
					t.Fatalf("expected %q, got %q", tt.incoming, got)
				}
				return
			}
			if _, err := uuid.Parse(got); err != nil {
				t.Fatalf("expected minted uuid, got %q", got)
			}
		})
	}
}

func TestSetResumeID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api/v1/resumes/:id", func(c *gin.Context) {
		SetResumeID(c, c.Param("id"))
		c.String(http.StatusOK, ResumeIDFromContext(c))
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/resumes/r-42", nil))

	if rec.Header().Get("X-Resume-Id") != "r-42" || rec.Body.String() != "r-42" {
		t.Fatalf("unexpected resume id header=%q body=%q", rec.Header().Get("X-Resume-Id"), rec.Body.String())
	}
}
