package formatter

import (
	"bytes"

	"github.com/unidoc/unioffice/document"
)

const (
	docxContentType   = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	docxFileExtension = ".docx"
)

type DOCXFormatter struct{}

func NewDOCXFormatter() *DOCXFormatter {
	return &DOCXFormatter{}
}

func (df *DOCXFormatter) Format(markdown string) ([]byte, error) {
	doc := document.New()
	defer doc.Close()

	for _, b := range parseBlocks(markdown) {
		par := doc.AddParagraph()
		switch b.kind {
		case blockTitle:
			par.SetStyle("Title")
		case blockSection:
			par.SetStyle("Heading1")
		case blockHeading:
			par.SetStyle("Heading2")
		case blockBullet:
			par.SetStyle("ListParagraph")
			par.AddRun().AddText("• " + b.text)
			continue
		}
		par.AddRun().AddText(b.text)
	}

	var buf bytes.Buffer
	if err := doc.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (df *DOCXFormatter) ContentType() string {
	return docxContentType
}

func (df *DOCXFormatter) FileExtension() string {
	return docxFileExtension
}
