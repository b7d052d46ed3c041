package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"resume-optimizer/internal/shared/metrics"
	"resume-optimizer/internal/shared/telemetry"
)

const (
	MimePDF  = "application/pdf"
	MimeDOC  = "application/msword"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeText = "text/plain"
)

var errLegacyDoc = errors.New("legacy .doc has no decoder")

// Extractor turns uploaded documents into plain text.
// Libraries used: github.com/ledongthuc/pdf (PDF) and github.com/nguyenthenguyen/docx (DOCX).
type Extractor struct{}

// New returns an Extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract returns the normalized text of data. Decoder failures and panics are logged
// and yield an empty string; the caller always gets a usable value.
func (e *Extractor) Extract(ctx context.Context, data []byte, mimeType string, fileName string) (text string) {
	if len(data) == 0 {
		return ""
	}
	if err := ctx.Err(); err != nil {
		return ""
	}

	kind := Sniff(data, mimeType, fileName)
	defer func() {
		if rec := recover(); rec != nil {
			fail(kind, fileName, fmt.Errorf("decoder panic: %v", rec))
			text = ""
		}
	}()

	raw, err := decode(data, kind)
	if err != nil {
		fail(kind, fileName, err)
		return ""
	}
	return Normalize(raw)
}

func decode(data []byte, kind string) (string, error) {
	switch kind {
	case MimePDF:
		return extractPDF(data)
	case MimeDOCX:
		return extractDOCX(data)
	case MimeText:
		return strings.ToValidUTF8(string(data), ""), nil
	case MimeDOC:
		return "", errLegacyDoc
	default:
		return "", fmt.Errorf("unsupported mime type: %s", kind)
	}
}

func fail(kind, fileName string, err error) {
	metrics.IncExtractionFailed()
	telemetry.Warn("extract.failed", map[string]any{
		"mime":     kind,
		"filename": fileName,
		"error":    err,
	})
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		fonts := make(map[string]*pdf.Font)
		for _, name := range page.Fonts() {
			font := page.Font(name)
			fonts[name] = &font
		}
		text, err := page.GetPlainText(fonts)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		buf.WriteString(text)
		buf.WriteString("\n")
	}
	return buf.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	defer doc.Close()

	return stripDocxXML(doc.Editable().GetContent()), nil
}

func stripDocxXML(raw string) string {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	inText := false
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return raw
		}
		switch t := tok.(type) {
		case xml.CharData:
			if inText {
				buf.WriteString(string(t))
			}
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				buf.WriteString("\t")
			}
		case xml.EndElement:
			if t.Name.Local == "t" {
				inText = false
			}
			if t.Name.Local == "p" || t.Name.Local == "br" {
				if buf.Len() > 0 {
					buf.WriteString("\n")
				}
			}
		}
	}
	return buf.String()
}

var blankRuns = regexp.MustCompile(`\n[ \t]*(\n[ \t]*)+`)

// Normalize strips NUL bytes, folds CRLF to LF, collapses blank line runs and trims.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\x00", "")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = blankRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// Sniff resolves the effective mime type from the declared type, the file extension and
// the payload itself.
func Sniff(data []byte, declared string, fileName string) string {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(declared, ";")[0]))
	ext := strings.ToLower(filepath.Ext(fileName))

	switch clean {
	case MimePDF, MimeDOC, MimeDOCX:
		return clean
	case MimeText, "text/markdown":
		return MimeText
	case "application/zip", "application/x-zip-compressed":
		if isDocxZip(data) || ext == ".docx" {
			return MimeDOCX
		}
		return clean
	}

	switch ext {
	case ".pdf":
		return MimePDF
	case ".docx":
		return MimeDOCX
	case ".doc":
		return MimeDOC
	case ".txt", ".md":
		return MimeText
	}

	if bytes.HasPrefix(data, []byte("%PDF-")) {
		return MimePDF
	}
	if isDocxZip(data) {
		return MimeDOCX
	}
	if clean == "" {
		return "application/octet-stream"
	}
	return clean
}

func isDocxZip(data []byte) bool {
	if !bytes.HasPrefix(data, []byte("PK")) {
		return false
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return false
	}
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == "word/document.xml" {
			return true
		}
	}
	return false
}
