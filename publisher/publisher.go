package publisher

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// ErrUnknownFormat is returned for an export format or file extension that is not supported.
var ErrUnknownFormat = errors.New("unknown export format")

// Format is an export target.
type Format string

const (
	FormatMarkdown Format = "md"
	FormatHTML     Format = "html"
	// FormatEmailHTML is HTML with inline styles and flattened lists, for pasting into email tools.
	FormatEmailHTML Format = "email"
	FormatDOCX      Format = "docx"
)

// Formats lists the supported formats.
var Formats = []Format{FormatMarkdown, FormatHTML, FormatEmailHTML, FormatDOCX}

// ParseFormat accepts a format name or a file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "md", "markdown", "":
		return FormatMarkdown, nil
	case "html", "htm":
		return FormatHTML, nil
	case "email", "email_html":
		return FormatEmailHTML, nil
	case "docx", "word":
		return FormatDOCX, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// ContentType is the MIME type served for f.
func (f Format) ContentType() string {
	switch f {
	case FormatHTML, FormatEmailHTML:
		return "text/html; charset=utf-8"
	case FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "text/markdown; charset=utf-8"
	}
}

// Ext is the file extension, without the dot.
func (f Format) Ext() string {
	if f == FormatEmailHTML {
		return "html"
	}
	return string(f)
}

// Document is a finished piece of copy ready for export.
type Document struct {
	Title    string
	Markdown string
}

// NewDocument titles the copy after its first heading, falling back to the given title.
func NewDocument(markdown, fallbackTitle string) Document {
	title := fallbackTitle
	if h := firstHeading(markdown); h != "" {
		title = h
	}
	if title == "" {
		title = "Marketing Copy"
	}
	return Document{Title: title, Markdown: strings.TrimSpace(markdown)}
}

// Filename is a safe file name for the document in format f.
func (d Document) Filename(f Format) string {
	slug := slugRe.ReplaceAllString(strings.ToLower(d.Title), "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "copy"
	}
	if len(slug) > 60 {
		slug = strings.TrimRight(slug[:60], "-")
	}
	return slug + "." + f.Ext()
}

// Render converts the document to f.
func Render(d Document, f Format) ([]byte, error) {
	switch f {
	case FormatMarkdown:
		return []byte(d.Markdown + "\n"), nil
	case FormatHTML:
		body, err := mdToHTML(d.Markdown)
		if err != nil {
			return nil, err
		}
		return []byte(htmlPage(d, body)), nil
	case FormatEmailHTML:
		body, err := mdToHTML(d.Markdown)
		if err != nil {
			return nil, err
		}
		return []byte(htmlPage(d, normalizeForEmail(body))), nil
	case FormatDOCX:
		return renderDOCX(d)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// WriteFile renders d in the format implied by the path extension and writes it.
func WriteFile(path string, d Document) (Format, error) {
	f, err := ParseFormat(filepath.Ext(path))
	if err != nil {
		return "", err
	}
	data, err := Render(d, f)
	if err != nil {
		return "", err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", err
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return f, nil
}

var (
	slugRe    = regexp.MustCompile(`[^a-z0-9]+`)
	headingRe = regexp.MustCompile(`(?m)^#{1,6}\s+(.+?)\s*#*\s*$`)
	emphRe    = regexp.MustCompile(`\*\*(.+?)\*\*|__(.+?)__|\*(.+?)\*`)
)

func firstHeading(md string) string {
	if m := headingRe.FindStringSubmatch(md); len(m) == 2 {
		return stripInline(m[1])
	}
	return ""
}

func stripInline(s string) string {
	return strings.TrimSpace(emphRe.ReplaceAllStringFunc(s, func(m string) string {
		return strings.Trim(m, "*_")
	}))
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

func mdToHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(md), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func htmlPage(d Document, body string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="description" content="%s">
<title>%s</title>
</head>
<body>
%s</body>
</html>
`, html.EscapeString(digest(d.Markdown, 160)), html.EscapeString(d.Title), body)
}

// Many email clients drop <style> blocks and restyle lists; headings become inline-styled
// paragraphs and list items become plain paragraphs.
func flattenLists(html string) string {
	olRe := regexp.MustCompile(`(?s)<ol[^>]*>(.*?)</ol>`)
	liRe := regexp.MustCompile(`(?s)<li[^>]*>(.*?)</li>`)

	html = olRe.ReplaceAllStringFunc(html, func(block string) string {
		items := liRe.FindAllStringSubmatch(block, -1)
		if len(items) == 0 {
			return block
		}
		var b strings.Builder
		for i, item := range items {
			fmt.Fprintf(&b, "<p style=\"margin:0 0 0.4em;\">%d. %s</p>\n", i+1, strings.TrimSpace(item[1]))
		}
		return b.String()
	})

	ulRe := regexp.MustCompile(`(?s)<ul[^>]*>(.*?)</ul>`)
	return ulRe.ReplaceAllStringFunc(html, func(block string) string {
		items := liRe.FindAllStringSubmatch(block, -1)
		if len(items) == 0 {
			return block
		}
		var b strings.Builder
		for _, item := range items {
			fmt.Fprintf(&b, "<p style=\"margin:0 0 0.4em;\">• %s</p>\n", strings.TrimSpace(item[1]))
		}
		return b.String()
	})
}

func inlineHeadings(html string) string {
	hRe := regexp.MustCompile(`(?s)<h([1-6])[^>]*>(.*?)</h[1-6]>`)
	sizes := map[string]string{
		"1": "26px",
		"2": "22px",
		"3": "19px",
		"4": "17px",
		"5": "16px",
		"6": "15px",
	}
	return hRe.ReplaceAllStringFunc(html, func(block string) string {
		parts := hRe.FindStringSubmatch(block)
		if len(parts) != 3 {
			return block
		}
		text := strings.TrimSpace(parts[2])
		return fmt.Sprintf(`<p style="font-size:%s;font-weight:700;margin:1em 0 0.6em;">%s</p>`, sizes[parts[1]], text)
	})
}

func normalizeForEmail(html string) string {
	return flattenLists(inlineHeadings(html))
}

// digest is the first limit bytes of the copy with markup and whitespace collapsed.
func digest(md string, limit int) string {
	md = headingRe.ReplaceAllString(md, "$1")
	joined := stripInline(strings.Join(strings.Fields(md), " "))
	if len(joined) <= limit {
		return joined
	}
	cut := strings.LastIndex(joined[:limit], " ")
	if cut <= 0 {
		cut = limit
		for cut > 0 && !utf8.RuneStart(joined[cut]) {
			cut--
		}
	}
	return joined[:cut]
}

const (
	docxContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`
	docxRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`
	docxHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`
	docxFooter = `<w:sectPr/></w:body></w:document>`
)

// renderDOCX writes a minimal WordprocessingML package: one paragraph per markdown block,
// headings bold and enlarged, bullets prefixed.
func renderDOCX(d Document) ([]byte, error) {
	var body strings.Builder
	body.WriteString(docxHeader)
	for _, line := range strings.Split(d.Markdown, "\n") {
		line = strings.TrimRight(line, " ")
		if strings.TrimSpace(line) == "" {
			continue
		}
		size, bold := 22, false
		if m := headingRe.FindStringSubmatch(line); len(m) == 2 {
			level := len(line) - len(strings.TrimLeft(line, "#"))
			size, bold, line = 36-level*3, true, m[1]
		} else if strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* ") {
			line = "• " + line[2:]
		}
		body.WriteString(docxParagraph(stripInline(line), size, bold))
	}
	body.WriteString(docxFooter)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, part := range []struct{ name, content string }{
		{"[Content_Types].xml", docxContentTypes},
		{"_rels/.rels", docxRels},
		{"word/document.xml", body.String()},
	} {
		w, err := zw.Create(part.name)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write([]byte(part.content)); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func docxParagraph(text string, size int, bold bool) string {
	var props strings.Builder
	if bold {
		props.WriteString("<w:b/>")
	}
	fmt.Fprintf(&props, `<w:sz w:val="%d"/>`, size)
	return fmt.Sprintf(`<w:p><w:r><w:rPr>%s</w:rPr><w:t xml:space="preserve">%s</w:t></w:r></w:p>`,
		props.String(), html.EscapeString(text))
}
