package extract

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	cases := map[string]Kind{
		"report.pdf":    KindPDF,
		"REPORT.PDF":    KindPDF,
		"notes.txt":     KindText,
		"deck.pptx":     KindPptx,
		"letter.docx":   KindDocx,
		"data.csv":      KindCSV,
		"sheet.xlsx":    KindXLSX,
		"scan.png":      KindImage,
		"photo.JPG":     KindImage,
		"photo.jpeg":    KindImage,
		"scan.tiff":     KindImage,
		"scan.bmp":      KindImage,
		"archive.zip":   KindUnsupported,
		"binary.exe":    KindUnsupported,
		"noextension":   KindUnsupported,
		"weird.pdf.bak": KindUnsupported,
	}
	for filename, want := range cases {
		require.Equal(t, want, KindOf(filename), "filename %q", filename)
	}
}

func TestExtractUnsupported(t *testing.T) {
	_, err := Extract("/tmp/whatever.xyz", "whatever.xyz")
	require.ErrorIs(t, err, ErrUnsupportedFileType)
}

func TestExtractPlainText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello world"), 0o644))

	text, err := Extract(path, "notes.txt")
	require.NoError(t, err)
	require.Equal(t, "hello world", text)
}

func TestExtractPlainTextDropsInvalidBytes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("he\xffllo"), 0o644))

	text, err := Extract(path, "notes.txt")
	require.NoError(t, err)
	require.Equal(t, "hello", text)
}

func TestExtractCSVFlattensRowMajor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte("name,age\nalice,30\nbob,41\n"), 0o644))

	text, err := Extract(path, "data.csv")
	require.NoError(t, err)
	require.Equal(t, "name age alice 30 bob 41", text)
}

func TestExtractCSVMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,\"unterminated\n"), 0o644))

	_, err := Extract(path, "data.csv")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrUnsupportedFileType)
}

func TestExtractDocxParagraphs(t *testing.T) {
	document := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First paragraph.</w:t></w:r></w:p>
    <w:p><w:r><w:t>Second </w:t></w:r><w:r><w:t>paragraph.</w:t></w:r></w:p>
    <w:p></w:p>
  </w:body>
</w:document>`
	path := writeZip(t, "letter.docx", map[string]string{"word/document.xml": document})

	text, err := Extract(path, "letter.docx")
	require.NoError(t, err)
	require.Equal(t, "First paragraph. Second paragraph.", text)
}

func TestExtractDocxMissingDocumentPart(t *testing.T) {
	path := writeZip(t, "letter.docx", map[string]string{"word/other.xml": "<x/>"})

	_, err := Extract(path, "letter.docx")
	require.Error(t, err)
}

func TestExtractPptxShapesAcrossSlides(t *testing.T) {
	slide1 := `<?xml version="1.0"?>
<p:sld xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main" xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
  <p:cSld><p:spTree>
    <p:sp><p:txBody><a:p><a:r><a:t>Title</a:t></a:r></a:p></p:txBody></p:sp>
    <p:sp><p:txBody><a:p><a:r><a:t>Body one</a:t></a:r></a:p></p:txBody></p:sp>
  </p:spTree></p:cSld>
</p:sld>`
	slide2 := `<?xml version="1.0"?>
<p:sld xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main" xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
  <p:cSld><p:spTree>
    <p:sp><p:txBody><a:p><a:r><a:t>Body two</a:t></a:r></a:p></p:txBody></p:sp>
  </p:spTree></p:cSld>
</p:sld>`
	path := writeZip(t, "deck.pptx", map[string]string{
		"ppt/slides/slide2.xml": slide2,
		"ppt/slides/slide1.xml": slide1,
	})

	text, err := Extract(path, "deck.pptx")
	require.NoError(t, err)
	require.Equal(t, "Title Body one Body two", text)
}

func TestExtractCorruptArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "letter.docx")
	require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0o644))

	_, err := Extract(path, "letter.docx")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrUnsupportedFileType)
}

func writeZip(t *testing.T, name string, parts map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	for partName, content := range parts {
		pw, err := w.Create(partName)
		require.NoError(t, err)
		_, err = pw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return path
}
