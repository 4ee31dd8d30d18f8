package document

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalPDF = "%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n"

func TestInspect(t *testing.T) {
	dir := t.TempDir()

	pdfPath := filepath.Join(dir, "invoice.pdf")
	require.NoError(t, os.WriteFile(pdfPath, []byte(minimalPDF), 0644))

	txtPath := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte("total: $42\n"), 0644))

	// A text file renamed to .pdf is still text
	fakePath := filepath.Join(dir, "fake.pdf")
	require.NoError(t, os.WriteFile(fakePath, []byte("just some words\n"), 0644))

	tests := []struct {
		name    string
		path    string
		wantPDF bool
		wantErr error
	}{
		{name: "pdf", path: pdfPath, wantPDF: true},
		{name: "text", path: txtPath, wantPDF: false},
		{name: "renamed text", path: fakePath, wantPDF: false},
		{name: "directory", path: dir, wantErr: ErrNotAFile},
		{name: "missing", path: filepath.Join(dir, "missing.pdf"), wantErr: os.ErrNotExist},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := Inspect(tt.path)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantPDF, info.IsPDF())
			assert.Equal(t, filepath.Base(tt.path), info.Name)
			assert.True(t, filepath.IsAbs(info.Path))
		})
	}
}

func TestInspectReportsSizeAndType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invoice.pdf")
	require.NoError(t, os.WriteFile(path, []byte(minimalPDF), 0644))

	info, err := Inspect(path)
	require.NoError(t, err)
	assert.Equal(t, PDFMimeType, info.MIMEType)
	assert.Equal(t, int64(len(minimalPDF)), info.Size)
	assert.GreaterOrEqual(t, info.Pages, 0)
}

func TestFileInfoSizeMB(t *testing.T) {
	info := FileInfo{Size: 3 * 1024 * 1024 / 2}
	assert.InDelta(t, 1.5, info.SizeMB(), 0.0001)
}

func TestParseDroppedPaths(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "plain unix path",
			input: "/home/me/invoice.pdf",
			want:  []string{"/home/me/invoice.pdf"},
		},
		{
			name:  "escaped spaces with trailing space",
			input: `/Users/me/My\ Files/invoice.pdf `,
			want:  []string{"/Users/me/My Files/invoice.pdf"},
		},
		{
			name:  "single quoted",
			input: `'/home/me/My Files/invoice.pdf' `,
			want:  []string{"/home/me/My Files/invoice.pdf"},
		},
		{
			name:  "double quoted windows path",
			input: `"C:\Users\me\My Files\invoice.pdf"`,
			want:  []string{`C:\Users\me\My Files\invoice.pdf`},
		},
		{
			name:  "unquoted windows path",
			input: `D:\docs\invoice.pdf`,
			want:  []string{`D:\docs\invoice.pdf`},
		},
		{
			name:  "file uri",
			input: "file:///home/me/My%20Files/invoice.pdf",
			want:  []string{"/home/me/My Files/invoice.pdf"},
		},
		{
			name:  "windows file uri",
			input: "file:///C:/Users/me/invoice.pdf",
			want:  []string{"C:/Users/me/invoice.pdf"},
		},
		{
			name:  "several files",
			input: `/tmp/a.pdf /tmp/b\ c.pdf`,
			want:  []string{"/tmp/a.pdf", "/tmp/b c.pdf"},
		},
		{
			name:  "empty",
			input: "   ",
			want:  nil,
		},
		{
			name:  "empty quotes",
			input: `''`,
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDroppedPaths(tt.input)
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFirstDroppedPath(t *testing.T) {
	path, ok := FirstDroppedPath(`'/tmp/first.pdf' '/tmp/second.pdf'`)
	require.True(t, ok)
	assert.Equal(t, "/tmp/first.pdf", path)

	_, ok = FirstDroppedPath("")
	assert.False(t, ok)
}
