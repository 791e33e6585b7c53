package htmltext

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	const page = `<html>
<head><title>Getting Started</title><style>body{color:red}</style></head>
<body>
<h1>Getting Started</h1>
<p>First paragraph with <b>bold</b> text.</p>
<p>Second paragraph.</p>
<script>console.log("hidden")</script>
<ul><li>one</li><li>two</li></ul>
</body></html>`

	doc, err := Parse(strings.NewReader(page))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if doc.Title != "Getting Started" {
		t.Errorf("Title = %q", doc.Title)
	}
	for _, want := range []string{"First paragraph with bold text.", "Second paragraph.", "one", "two"} {
		if !strings.Contains(doc.Text, want) {
			t.Errorf("Text missing %q:\n%s", want, doc.Text)
		}
	}
	for _, banned := range []string{"console.log", "color:red"} {
		if strings.Contains(doc.Text, banned) {
			t.Errorf("Text leaked %q", banned)
		}
	}
	if strings.Contains(doc.Text, "\n\n\n") {
		t.Errorf("Text has unconsolidated blank lines:\n%q", doc.Text)
	}
}

func TestParseNoTitle(t *testing.T) {
	doc, err := Parse(strings.NewReader("<p>bare fragment</p>"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if doc.Title != "" {
		t.Errorf("Title = %q, want empty", doc.Title)
	}
	if !strings.Contains(doc.Text, "bare fragment") {
		t.Errorf("Text = %q", doc.Text)
	}
}

func TestParseFileLegacyCharset(t *testing.T) {
	// windows-1252 page declaring its charset via meta tag
	raw := append([]byte(`<html><head><meta http-equiv="Content-Type" content="text/html; charset=windows-1252"><title>Caf`),
		0xE9)
	raw = append(raw, []byte(`</title></head><body><p>ok</p></body></html>`)...)

	path := filepath.Join(t.TempDir(), "page.html")
	if err := os.WriteFile(path, raw, 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	doc, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if doc.Title != "Café" {
		t.Errorf("Title = %q, want Café", doc.Title)
	}
}

func TestParseFileMissing(t *testing.T) {
	if _, err := ParseFile(filepath.Join(t.TempDir(), "nope.html")); err == nil {
		t.Error("expected error")
	}
}
