package document

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	pdflib "github.com/ledongthuc/pdf"

	"intelliagent-terminal/internal/logging"
)

// PDFMimeType is the only MIME type the backend accepts
const PDFMimeType = "application/pdf"

var (
	// ErrNotAFile is returned when the path points to a directory or device
	ErrNotAFile = errors.New("not a regular file")
)

// FileInfo describes a local file picked for upload
type FileInfo struct {
	Path     string
	Name     string
	Size     int64
	MIMEType string
	Pages    int // 0 when the page count could not be read
}

// IsPDF reports whether the file content was detected as a PDF
func (f FileInfo) IsPDF() bool {
	return f.MIMEType == PDFMimeType
}

// SizeMB returns the size in megabytes
func (f FileInfo) SizeMB() float64 {
	return float64(f.Size) / 1024 / 1024
}

// Inspect stats the file at path and sniffs its MIME type from content.
// For PDFs the page count is read as well; a PDF the parser can't handle is
// still a PDF, so that failure is only logged.
func Inspect(path string) (FileInfo, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return FileInfo{}, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	stat, err := os.Stat(absPath)
	if err != nil {
		return FileInfo{}, err
	}
	if !stat.Mode().IsRegular() {
		return FileInfo{}, fmt.Errorf("%s: %w", absPath, ErrNotAFile)
	}

	mtype, err := mimetype.DetectFile(absPath)
	if err != nil {
		return FileInfo{}, fmt.Errorf("failed to detect file type: %w", err)
	}

	info := FileInfo{
		Path:     absPath,
		Name:     filepath.Base(absPath),
		Size:     stat.Size(),
		MIMEType: mtype.String(),
	}

	// Strip parameters such as "; charset=utf-8" so IsPDF can compare exactly
	if mtype.Is(PDFMimeType) {
		info.MIMEType = PDFMimeType
		pages, err := countPages(absPath)
		if err != nil {
			logging.Debug("Could not read page count of %s: %v", info.Name, err)
		}
		info.Pages = pages
	}

	return info, nil
}

func countPages(path string) (pages int, err error) {
	// The parser panics on some malformed xref tables
	defer func() {
		if r := recover(); r != nil {
			pages, err = 0, fmt.Errorf("pdf parser panic: %v", r)
		}
	}()

	f, reader, err := pdflib.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	return reader.NumPage(), nil
}
