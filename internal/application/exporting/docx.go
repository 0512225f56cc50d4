// Package exporting renders committed content as a downloadable document.
package exporting

import (
	"bytes"
	"context"

	docx "github.com/fumiama/go-docx"

	"professor-ai-api/internal/domain/entity"
	"professor-ai-api/pkg/errors"
	"professor-ai-api/pkg/metrics"
)

// ContentTypeDocx is the MIME type served with exported documents.
const ContentTypeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Exporter writes a DOCX with the task's heading followed by one paragraph
// holding the full generated text.
type Exporter struct{}

func NewExporter() *Exporter {
	return &Exporter{}
}

// Export renders content into a DOCX and returns the bytes plus the
// download filename for the task.
func (e *Exporter) Export(ctx context.Context, task entity.TaskKind, content string) ([]byte, string, error) {
	w := docx.New().WithDefaultTheme()

	// Heading, sized up to read as a title.
	w.AddParagraph().AddText(task.Title()).Size("28").Bold()

	w.AddParagraph().AddText(content)

	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		metrics.ExportTotal.WithLabelValues(string(task), "error").Inc()
		return nil, "", errors.Wrap(err, errors.CodeExportFailed, "document export failed")
	}

	metrics.ExportTotal.WithLabelValues(string(task), "success").Inc()
	return buf.Bytes(), task.ExportFileName(), nil
}
