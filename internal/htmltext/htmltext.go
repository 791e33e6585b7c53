// Package htmltext turns a help page's HTML into plain text for the
// terminal front-end: the document title plus block-structured body text.
package htmltext

import (
	"io"
	"os"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// Document is the extracted form of one help page.
type Document struct {
	Title string
	Text  string
}

// blockTags get a paragraph break around their content.
var blockTags = map[string]bool{
	"p": true, "div": true, "section": true, "article": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"ul": true, "ol": true, "li": true, "dt": true, "dd": true,
	"table": true, "tr": true, "blockquote": true, "pre": true,
}

// skipTags contribute no visible text.
var skipTags = map[string]bool{
	"script": true, "style": true, "noscript": true, "head": true,
}

// Parse extracts a Document from HTML. The reader is sniffed for its
// charset (meta tags, BOM) before parsing, so legacy Windows-1252 pages
// come out as clean UTF-8.
func Parse(r io.Reader) (*Document, error) {
	cr, err := charset.NewReader(r, "text/html")
	if err != nil {
		return nil, err
	}
	root, err := html.Parse(cr)
	if err != nil {
		return nil, err
	}

	doc := &Document{Title: findTitle(root)}

	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if skipTags[n.Data] {
				return
			}
			if n.Data == "br" {
				b.WriteString("\n")
				return
			}
		}
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
					b.WriteString(" ")
				}
				b.WriteString(t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && blockTags[n.Data] {
			b.WriteString("\n\n")
		}
	}
	if body := findElement(root, "body"); body != nil {
		walk(body)
	} else {
		walk(root)
	}

	doc.Text = tidy(b.String())
	return doc, nil
}

// ParseFile extracts a Document from an on-disk page.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

func findTitle(root *html.Node) string {
	t := findElement(root, "title")
	if t == nil {
		return ""
	}
	var b strings.Builder
	for c := t.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return strings.TrimSpace(b.String())
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// tidy collapses runs of blank lines left over from nested block tags.
func tidy(s string) string {
	lines := strings.Split(s, "\n")
	var out []string
	blank := true
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			if blank {
				continue
			}
			blank = true
		} else {
			blank = false
		}
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
