package extract

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextPlain(t *testing.T) {
	text, err := Text("notes.txt", []byte("hello world"))
	require.NoError(t, err)
	assert.Equal(t, "hello world", text)
}

func TestTextMarkdownVerbatim(t *testing.T) {
	content := "# Title\n\nSome **bold** text."
	text, err := Text("README.md", []byte(content))
	require.NoError(t, err)
	assert.Equal(t, content, text)
}

func TestTextUnsupportedExtension(t *testing.T) {
	_, err := Text("archive.zip", []byte("whatever"))
	require.ErrorIs(t, err, ErrUnsupportedFormat)
	// error names the allowed set
	assert.Contains(t, err.Error(), ".pdf")
	assert.Contains(t, err.Error(), ".docx")
	assert.Contains(t, err.Error(), ".txt")
	assert.Contains(t, err.Error(), ".md")
}

func TestTextCaseInsensitiveExtension(t *testing.T) {
	text, err := Text("NOTES.TXT", []byte("upper case name"))
	require.NoError(t, err)
	assert.Equal(t, "upper case name", text)
}

func TestTextEmptyDocument(t *testing.T) {
	_, err := Text("blank.txt", []byte("   \n\t  "))
	assert.ErrorIs(t, err, ErrEmptyDocument)
}

func TestTextDocx(t *testing.T) {
	data := buildDocx(t, `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First paragraph.</w:t></w:r></w:p>
    <w:p><w:r><w:t>Second </w:t></w:r><w:r><w:t>paragraph.</w:t></w:r></w:p>
  </w:body>
</w:document>`)

	text, err := Text("report.docx", data)
	require.NoError(t, err)
	assert.Equal(t, "First paragraph.\nSecond paragraph.\n", text)
}

func TestTextDocxNoParagraphs(t *testing.T) {
	data := buildDocx(t, `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body></w:body>
</w:document>`)

	_, err := Text("empty.docx", data)
	assert.ErrorIs(t, err, ErrEmptyDocument)
}

func TestTextDocxCorrupt(t *testing.T) {
	_, err := Text("broken.docx", []byte("not a zip archive"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmptyDocument)
}

func TestTextPdfCorrupt(t *testing.T) {
	_, err := Text("broken.pdf", []byte("not a pdf"))
	require.Error(t, err)
}

func TestIsAllowed(t *testing.T) {
	assert.True(t, IsAllowed("a.pdf"))
	assert.True(t, IsAllowed("a.docx"))
	assert.True(t, IsAllowed("a.txt"))
	assert.True(t, IsAllowed("a.md"))
	assert.True(t, IsAllowed("A.PDF"))
	assert.False(t, IsAllowed("a.zip"))
	assert.False(t, IsAllowed("no-extension"))
}

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}
