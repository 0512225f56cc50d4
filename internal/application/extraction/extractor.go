// Package extraction turns uploaded reference files into plain text.
package extraction

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	docx "github.com/fumiama/go-docx"
	"github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"

	"professor-ai-api/pkg/errors"
	"professor-ai-api/pkg/logger"
	"professor-ai-api/pkg/metrics"
)

// SupportedExtensions lists the accepted upload formats.
var SupportedExtensions = []string{".docx", ".txt", ".pdf", ".csv", ".xlsx"}

// Extractor converts one uploaded file into the plain text used as prompt
// context. Routing is by file extension only; content sniffing is not
// attempted, a mislabeled file surfaces as an extraction error.
type Extractor struct {
	maxFileBytes int64
}

func NewExtractor(maxFileBytes int64) *Extractor {
	return &Extractor{maxFileBytes: maxFileBytes}
}

// Extract reads the whole file and dispatches on its extension. The match
// is case sensitive: ".PDF" is rejected, only the lowercase forms count.
func (e *Extractor) Extract(ctx context.Context, fileName string, r io.Reader) (string, error) {
	ext := filepath.Ext(fileName)

	format := strings.TrimPrefix(ext, ".")
	if !isSupported(ext) {
		metrics.ExtractionTotal.WithLabelValues(format, "unsupported").Inc()
		return "", errors.New(errors.CodeUnsupportedFormat,
			"unsupported file format").
			WithDetail(fmt.Sprintf("%s is not supported; send .docx, .txt, .pdf, .csv or .xlsx", ext))
	}

	data, err := e.readAll(r)
	if err != nil {
		metrics.ExtractionTotal.WithLabelValues(format, "error").Inc()
		return "", err
	}

	var text string
	switch ext {
	case ".txt":
		text, err = extractTxt(data)
	case ".docx":
		text, err = extractDocx(data)
	case ".pdf":
		text, err = extractPDF(data)
	case ".csv":
		text, err = extractCSV(data)
	case ".xlsx":
		text, err = extractXLSX(data)
	}
	if err != nil {
		metrics.ExtractionTotal.WithLabelValues(format, "error").Inc()
		logger.Warn(ctx, "file extraction failed", "file", fileName, "error", err.Error())
		if errors.IsAppError(err) {
			return "", err
		}
		return "", errors.Wrap(err, errors.CodeExtractionFailed, "file extraction failed")
	}

	metrics.ExtractionTotal.WithLabelValues(format, "success").Inc()
	metrics.ExtractedBytes.WithLabelValues(format).Observe(float64(len(text)))
	return text, nil
}

func isSupported(ext string) bool {
	for _, s := range SupportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

func (e *Extractor) readAll(r io.Reader) ([]byte, error) {
	limit := e.maxFileBytes
	if limit <= 0 {
		limit = 10 << 20
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeExtractionFailed, "failed to read upload")
	}
	if int64(len(data)) > limit {
		return nil, errors.New(errors.CodeExtractionFailed, "file too large").
			WithDetail(fmt.Sprintf("uploads are limited to %d bytes", limit))
	}
	return data, nil
}

func extractTxt(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("file is not valid UTF-8 text")
	}
	return string(data), nil
}

// extractDocx joins the document's paragraph texts with newlines, the same
// shape a plain-text reading of the document would have.
func extractDocx(data []byte) (string, error) {
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse docx: %w", err)
	}

	var paragraphs []string
	for _, item := range doc.Document.Body.Items {
		if p, ok := item.(*docx.Paragraph); ok {
			paragraphs = append(paragraphs, p.String())
		}
	}
	return strings.Join(paragraphs, "\n"), nil
}

func extractPDF(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse pdf: %w", err)
	}

	// A page with no extractable text still contributes its (empty) segment
	// so page order and count stay stable.
	pages := make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, text)
	}
	return strings.Join(pages, "\n"), nil
}

func extractCSV(data []byte) (string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return "", fmt.Errorf("parse csv: %w", err)
	}
	return renderTable(rows), nil
}

func extractXLSX(data []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("parse xlsx: %w", err)
	}
	defer f.Close()

	var sections []string
	sheets := f.GetSheetList()
	for _, sheet := range sheets {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return "", fmt.Errorf("read sheet %s: %w", sheet, err)
		}
		table := renderTable(rows)
		if len(sheets) > 1 {
			table = sheet + "\n" + table
		}
		sections = append(sections, table)
	}
	return strings.Join(sections, "\n\n"), nil
}

// renderTable produces a deterministic column-aligned dump of tabular data.
// Every cell value appears verbatim, padded to its column's width.
func renderTable(rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	widths := make([]int, 0)
	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			if n := len([]rune(cell)); n > widths[i] {
				widths[i] = n
			}
		}
	}

	var b strings.Builder
	for ri, row := range rows {
		if ri > 0 {
			b.WriteByte('\n')
		}
		for i, cell := range row {
			if i > 0 {
				b.WriteString("  ")
			}
			b.WriteString(cell)
			if i < len(row)-1 {
				for pad := len([]rune(cell)); pad < widths[i]; pad++ {
					b.WriteByte(' ')
				}
			}
		}
	}
	return b.String()
}
