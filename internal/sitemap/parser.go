package sitemap

import (
	"io"
	"os"
	"strings"

	"golang.org/x/net/html"
)

// sitemapType marks an <object> tag as a sitemap entry.
const sitemapType = "text/sitemap"

// parser carries the container stack and the per-entry accumulator while
// the token stream is consumed. It exists only for the duration of one
// Parse call; nothing outlives it except the tree it built.
type parser struct {
	root  *Node
	stack []*Node

	inObject bool
	name     string
	local    string

	// lastClosed is the most recently completed entry; pendingPush is
	// consumed by the next <ul>, which makes that entry the current
	// container. A <ul> with no pending entry changes nothing.
	lastClosed  *Node
	pendingPush bool
}

// Parse consumes one sitemap file and returns a synthetic root whose
// children are the top-level entries. Malformed markup degrades by
// omission and never produces an error; the only errors returned are
// those of the underlying reader.
func Parse(r io.Reader) (*Node, error) {
	p := &parser{root: &Node{}}
	p.stack = []*Node{p.root}

	z := html.NewTokenizer(r)
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return p.root, err
			}
			return p.root, nil
		case html.StartTagToken:
			t := z.Token()
			p.startTag(t)
		case html.SelfClosingTagToken:
			t := z.Token()
			p.startTag(t)
		case html.EndTagToken:
			t := z.Token()
			p.endTag(t.Data)
		}
		// Text, comments and doctype declarations carry nothing here.
	}
}

// ParseString parses sitemap markup held in memory.
func ParseString(s string) *Node {
	root, _ := Parse(strings.NewReader(s))
	return root
}

// ParseFile reads path through the encoding fallback chain and parses it.
func ParseFile(path string) (*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseString(DecodeText(data)), nil
}

func (p *parser) startTag(t html.Token) {
	switch t.Data {
	case "object":
		if strings.Contains(strings.ToLower(attr(t, "type")), sitemapType) {
			p.inObject = true
			p.name = ""
			p.local = ""
		}
	case "param":
		if !p.inObject {
			return
		}
		value := strings.TrimSpace(attr(t, "value"))
		switch strings.ToLower(attr(t, "name")) {
		case "name":
			p.name = value
		case "local":
			p.local = value
		}
	case "ul":
		if p.pendingPush && p.lastClosed != nil {
			p.stack = append(p.stack, p.lastClosed)
			p.pendingPush = false
		}
	}
}

func (p *parser) endTag(tag string) {
	switch tag {
	case "object":
		if !p.inObject {
			return
		}
		p.inObject = false

		title := p.name
		if title == "" {
			title = UntitledLabel
		}
		node := &Node{Title: title, Target: p.local}

		top := p.stack[len(p.stack)-1]
		top.Children = append(top.Children, node)

		p.lastClosed = node
		p.pendingPush = true
	case "ul":
		if len(p.stack) > 1 {
			p.stack = p.stack[:len(p.stack)-1]
		}
	}
}

// attr returns the value of the named attribute, or "". The tokenizer has
// already lowercased attribute keys and decoded entities in values.
func attr(t html.Token, key string) string {
	for _, a := range t.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
