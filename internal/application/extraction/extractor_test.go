package extraction

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"professor-ai-api/pkg/errors"
)

func newTestExtractor() *Extractor {
	return NewExtractor(1 << 20)
}

func TestExtractTxtVerbatim(t *testing.T) {
	text, err := newTestExtractor().Extract(context.Background(), "notas.txt", strings.NewReader("abc"))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if text != "abc" {
		t.Fatalf("text = %q, want abc", text)
	}
}

func TestExtractUnsupportedExtension(t *testing.T) {
	cases := []string{"foto.png", "planilha", "notas.TXT", "slides.PDF"}
	for _, name := range cases {
		_, err := newTestExtractor().Extract(context.Background(), name, strings.NewReader("x"))
		if !errors.IsCode(err, errors.CodeUnsupportedFormat) {
			t.Fatalf("%s: expected unsupported format, got %v", name, err)
		}
	}
}

func TestExtractCSVTable(t *testing.T) {
	csvData := "nome,nota\nAna,9.5\nJoão,7\n"
	text, err := newTestExtractor().Extract(context.Background(), "notas.csv", strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	want := "nome  nota\nAna   9.5\nJoão  7"
	if text != want {
		t.Fatalf("table = %q, want %q", text, want)
	}

	// Same input always yields the same dump.
	again, err := newTestExtractor().Extract(context.Background(), "notas.csv", strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if again != text {
		t.Fatalf("extraction is not deterministic")
	}
}

func TestExtractCSVRaggedRows(t *testing.T) {
	csvData := "a,b,c\nd\ne,f\n"
	text, err := newTestExtractor().Extract(context.Background(), "dados.csv", strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	for _, cell := range []string{"a", "b", "c", "d", "e", "f"} {
		if !strings.Contains(text, cell) {
			t.Fatalf("cell %q missing from %q", cell, text)
		}
	}
}

func TestExtractXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	cells := map[string]string{"A1": "aluno", "B1": "nota", "A2": "Maria", "B2": "8"}
	for ref, value := range cells {
		if err := f.SetCellValue(sheet, ref, value); err != nil {
			t.Fatalf("SetCellValue(%s): %v", ref, err)
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	text, err := newTestExtractor().Extract(context.Background(), "notas.xlsx", bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	for _, value := range cells {
		if !strings.Contains(text, value) {
			t.Fatalf("value %q missing from %q", value, text)
		}
	}
}

func TestExtractTxtInvalidUTF8(t *testing.T) {
	_, err := newTestExtractor().Extract(context.Background(), "notas.txt", bytes.NewReader([]byte{0xff, 0xfe, 0x00}))
	if !errors.IsCode(err, errors.CodeExtractionFailed) {
		t.Fatalf("expected extraction failure, got %v", err)
	}
}

func TestExtractMalformedDocx(t *testing.T) {
	_, err := newTestExtractor().Extract(context.Background(), "plano.docx", strings.NewReader("not a zip"))
	if !errors.IsCode(err, errors.CodeExtractionFailed) {
		t.Fatalf("expected extraction failure, got %v", err)
	}
}

// buildMinimalPDF assembles a one-page PDF with a correct xref table.
func buildMinimalPDF() []byte {
	content := "BT /F1 12 Tf 72 720 Td (abc) Tj ET"
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content)+1, content),
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, body := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func TestExtractWellFormedPDF(t *testing.T) {
	data := buildMinimalPDF()
	if _, err := newTestExtractor().Extract(context.Background(), "apostila.pdf", bytes.NewReader(data)); err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
}

func TestExtractMalformedPDF(t *testing.T) {
	_, err := newTestExtractor().Extract(context.Background(), "slides.pdf", strings.NewReader("%PDF-1.4 truncated"))
	if !errors.IsCode(err, errors.CodeExtractionFailed) {
		t.Fatalf("expected extraction failure, got %v", err)
	}
}

func TestExtractFileTooLarge(t *testing.T) {
	extractor := NewExtractor(8)
	_, err := extractor.Extract(context.Background(), "grande.txt", strings.NewReader("123456789"))
	if !errors.IsCode(err, errors.CodeExtractionFailed) {
		t.Fatalf("expected extraction failure, got %v", err)
	}
	if !strings.Contains(err.Error(), "file too large") {
		t.Fatalf("unexpected error: %v", err)
	}

	// Exactly at the limit is fine.
	text, err := extractor.Extract(context.Background(), "ok.txt", strings.NewReader("12345678"))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if text != "12345678" {
		t.Fatalf("text = %q", text)
	}
}

func TestRenderTableEmpty(t *testing.T) {
	if got := renderTable(nil); got != "" {
		t.Fatalf("renderTable(nil) = %q", got)
	}
}
