package formatter

import (
	"bytes"
	"fmt"
	"os"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfContentType   = "application/pdf"
	pdfFileExtension = ".pdf"

	pdfFontName = "NanumGothic"

	// Fallback locations: next to the binary in the container image,
	// and the source tree for local runs.
	pdfFontRuntimePath = "ttf/NanumGothic.ttf"
	pdfFontSourcePath  = "internal/pkg/formatter/ttf/NanumGothic.ttf"
)

type PDFFormatter struct {
	fontPath string
}

func NewPDFFormatter(fontPath string) *PDFFormatter {
	return &PDFFormatter{fontPath: fontPath}
}

func (pf *PDFFormatter) resolveFontPath() string {
	for _, p := range []string{pf.fontPath, pdfFontRuntimePath, pdfFontSourcePath} {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Format lays the document out on A4 pages. The core PDF fonts carry no
// Hangul glyphs, so a TTF font is required.
func (pf *PDFFormatter) Format(markdown string) ([]byte, error) {
	fontPath := pf.resolveFontPath()
	if fontPath == "" {
		return nil, ErrFontUnavailable
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddUTF8Font(pdfFontName, "", fontPath)
	pdf.AddUTF8Font(pdfFontName, "B", fontPath)
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("load pdf font: %w", err)
	}
	pdf.AddPage()

	for _, b := range parseBlocks(markdown) {
		switch b.kind {
		case blockTitle:
			pdf.SetFont(pdfFontName, "B", 20)
			pdf.MultiCell(0, 10, b.text, "", "", false)
			pdf.Ln(4)
		case blockSection:
			pdf.Ln(4)
			pdf.SetFont(pdfFontName, "B", 16)
			pdf.MultiCell(0, 8, b.text, "", "", false)
			pdf.Ln(2)
		case blockHeading:
			pdf.Ln(2)
			pdf.SetFont(pdfFontName, "B", 13)
			pdf.MultiCell(0, 7, b.text, "", "", false)
		case blockBullet:
			pdf.SetFont(pdfFontName, "", 12)
			pdf.MultiCell(0, 6.5, "• "+b.text, "", "", false)
		default:
			pdf.SetFont(pdfFontName, "", 12)
			pdf.MultiCell(0, 6.5, b.text, "", "", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (pf *PDFFormatter) ContentType() string {
	return pdfContentType
}

func (pf *PDFFormatter) FileExtension() string {
	return pdfFileExtension
}
