package publisher

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCopy = `## Last chance: **60% off** ends tonight

Hi Sarah,

Thousands of investors already rely on our picks & research.

- Two stock picks a month
- Best buys now list

### Call‑to‑Action
**Join now for $119**

*Past performance is not a reliable indicator of future results.*`

func TestNewDocument_TitleFromHeading(t *testing.T) {
	d := NewDocument(sampleCopy, "fallback")
	assert.Equal(t, "Last chance: 60% off ends tonight", d.Title)
	assert.Equal(t, "last-chance-60-off-ends-tonight.docx", d.Filename(FormatDOCX))
	assert.Equal(t, "last-chance-60-off-ends-tonight.html", d.Filename(FormatEmailHTML))

	plain := NewDocument("no headings here", "")
	assert.Equal(t, "Marketing Copy", plain.Title)
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{
		".md": FormatMarkdown, "": FormatMarkdown, "HTML": FormatHTML, ".htm": FormatHTML,
		"email": FormatEmailHTML, ".docx": FormatDOCX,
	} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormat(".pdf")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestRender_HTML(t *testing.T) {
	out, err := Render(NewDocument(sampleCopy, ""), FormatHTML)
	require.NoError(t, err)
	s := string(out)
	assert.Contains(t, s, "<title>Last chance: 60% off ends tonight</title>")
	assert.Contains(t, s, "<h2>Last chance: <strong>60% off</strong> ends tonight</h2>")
	assert.Contains(t, s, "<li>Two stock picks a month</li>")
	assert.Contains(t, s, "picks &amp; research")
}

func TestRender_EmailHTMLInlinesStyles(t *testing.T) {
	out, err := Render(NewDocument(sampleCopy, ""), FormatEmailHTML)
	require.NoError(t, err)
	s := string(out)
	assert.NotContains(t, s, "<h2>")
	assert.NotContains(t, s, "<ul>")
	assert.Contains(t, s, `<p style="font-size:22px;font-weight:700;margin:1em 0 0.6em;">`)
	assert.Contains(t, s, "• Two stock picks a month</p>")
}

func TestRender_DOCX(t *testing.T) {
	out, err := Render(NewDocument(sampleCopy, ""), FormatDOCX)
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(out), int64(len(out)))
	require.NoError(t, err)
	parts := map[string]string{}
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		parts[f.Name] = string(data)
	}
	require.Contains(t, parts, "[Content_Types].xml")
	require.Contains(t, parts, "_rels/.rels")
	doc := parts["word/document.xml"]
	assert.Contains(t, doc, "Last chance: 60% off ends tonight")
	assert.Contains(t, doc, "picks &amp; research")
	assert.Contains(t, doc, "• Two stock picks a month")
	assert.Contains(t, doc, "Join now for $119")
	assert.NotContains(t, doc, "**")
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "email.md")

	f, err := WriteFile(path, NewDocument(sampleCopy, ""))
	require.NoError(t, err)
	assert.Equal(t, FormatMarkdown, f)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, strings.TrimSpace(sampleCopy)+"\n", string(data))

	_, err = WriteFile(filepath.Join(dir, "copy.pdf"), NewDocument(sampleCopy, ""))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestDigest(t *testing.T) {
	assert.Equal(t, "Headline Body text here", digest("## Headline\n\nBody   text **here**", 100))
	assert.Equal(t, "one two", digest("one two three", 9))
	assert.Equal(t, "€€", digest("€€€", 7))
}

func TestRender_HTMLMultibyteDescription(t *testing.T) {
	out, err := Render(NewDocument(strings.Repeat("€", 100), ""), FormatHTML)
	require.NoError(t, err)
	assert.True(t, utf8.Valid(out))
}
