package object

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"resume-optimizer/internal/shared/util"
)

// Object describes a stored blob.
type Object struct {
	Key         string
	Size        int64
	ContentType string
}

// ObjectStore defines the contract for saving and retrieving uploaded originals.
type ObjectStore interface {
	Put(ctx context.Context, userID string, fileName string, contentType string, r io.Reader) (Object, error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
}

// ObjectName builds "<unix-ms>-<uuid>-<cleaned name>" for a new upload.
func ObjectName(fileName string, now time.Time) (string, error) {
	cleaned, err := util.CleanFileName(fileName)
	if err != nil {
		return "", fmt.Errorf("resume file name: %w", err)
	}
	return fmt.Sprintf("%d-%s-%s", now.UnixMilli(), uuid.NewString(), cleaned), nil
}

// ResolveContentType keeps a declared type, sniffing only when none was given.
func ResolveContentType(declared string, head []byte) string {
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	return http.DetectContentType(head)
}
