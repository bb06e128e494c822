package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown manuscripts using goldmark. Headings
// become outline entries (h1 = level 0); everything else flows into the
// flat text in document order.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	reader := text.NewReader(src)
	doc := md.Parser().Parse(reader)

	b := &builder{}
	var pending bytes.Buffer

	flush := func() {
		t := strings.TrimSpace(pending.String())
		pending.Reset()
		if t != "" {
			b.paragraph(t)
		}
	}

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			flush()
			b.heading(string(node.Text(src)), node.Level-1)
		default:
			t := extractText(n, src)
			if t != "" {
				if pending.Len() > 0 {
					pending.WriteString("\n\n")
				}
				pending.WriteString(t)
			}
		}
	}
	flush()

	title := strings.TrimSuffix(strings.TrimSuffix(filename, ".md"), ".markdown")
	return b.finish(title), nil
}

// extractText gets the text content of a goldmark AST node.
func extractText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
	}
	// Also handle inline children.
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		} else {
			buf.WriteString(extractText(c, src))
		}
	}
	return strings.TrimSpace(buf.String())
}
