// Package extract pulls plain text out of uploaded documents so it can be
// scored like any other message.
package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

const (
	MimePDF   = "application/pdf"
	MimeDOCX  = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimePlain = "text/plain"
)

var (
	// ErrUnsupportedType is returned for content that is not PDF, DOCX or plain text
	ErrUnsupportedType = errors.New("unsupported document type")
	// ErrNoText is returned when a document parses but carries no text
	ErrNoText = errors.New("document contains no extractable text")
)

// Text extracts the text of an in-memory document. The content type wins
// when it is specific; otherwise the file extension and then the payload
// itself decide.
func Text(ctx context.Context, data []byte, contentType, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	mime := DetectType(contentType, fileName, data)

	var (
		text string
		err  error
	)
	switch mime {
	case MimePDF:
		text, err = extractPDF(data)
	case MimeDOCX:
		text, err = extractDOCX(data)
	case MimePlain:
		if !utf8.Valid(data) {
			return "", fmt.Errorf("%w: text is not valid utf-8", ErrUnsupportedType)
		}
		text = string(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, mime)
	}
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", mime, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}

// DetectType normalizes a declared content type into one of the supported
// mime types, falling back to the extension and content sniffing.
func DetectType(contentType, fileName string, data []byte) string {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	switch clean {
	case MimePDF, MimeDOCX, MimePlain:
		return clean
	case "", "application/octet-stream", "application/zip":
	default:
		return clean
	}

	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return MimePDF
	case ".docx":
		return MimeDOCX
	case ".txt", ".eml":
		return MimePlain
	}

	if isDOCX(data) {
		return MimeDOCX
	}
	sniffed := strings.Split(http.DetectContentType(data), ";")[0]
	if sniffed == MimePDF || sniffed == MimePlain {
		return sniffed
	}
	if clean == "" {
		return sniffed
	}
	return clean
}

func extractPDF(data []byte) (text string, err error) {
	// the pdf reader panics on some malformed cross-reference tables
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	doc := findZipEntry(zr, "word/document.xml")
	if doc == nil {
		return "", errors.New("word/document.xml not found")
	}

	rc, err := doc.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	return docxText(rc)
}

func docxText(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)
	var b strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.CharData:
			b.Write(t)
		case xml.EndElement:
			if (t.Name.Local == "p" || t.Name.Local == "br") && b.Len() > 0 {
				b.WriteString("\n")
			}
		}
	}
	return b.String(), nil
}

func isDOCX(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return false
	}
	return findZipEntry(zr, "word/document.xml") != nil
}

func findZipEntry(zr *zip.Reader, name string) *zip.File {
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == name {
			return f
		}
	}
	return nil
}
