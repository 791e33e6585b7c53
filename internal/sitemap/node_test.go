package sitemap

import (
	"reflect"
	"testing"
)

func sampleTree() *Node {
	return &Node{
		Children: []*Node{
			{
				Title:  "Banana",
				Target: "banana.html",
				Children: []*Node{
					{Title: "Cherry", Target: "cherry.html"},
				},
			},
			{
				Title: "Grouping", // no target of its own
				Children: []*Node{
					{Title: "apple", Target: "apple.html"},
				},
			},
		},
	}
}

func TestOutline(t *testing.T) {
	items := sampleTree().Outline()

	want := []Item{
		{Title: "Banana", Target: "banana.html", Breadcrumb: "Banana", Depth: 0, HasChildren: true},
		{Title: "Cherry", Target: "cherry.html", Breadcrumb: "Banana › Cherry", Depth: 1},
		{Title: "Grouping", Breadcrumb: "Grouping", Depth: 0, HasChildren: true},
		{Title: "apple", Target: "apple.html", Breadcrumb: "Grouping › apple", Depth: 1},
	}
	if !reflect.DeepEqual(items, want) {
		t.Errorf("Outline() = %+v, want %+v", items, want)
	}
}

func TestFirstTarget(t *testing.T) {
	t.Run("skips grouping nodes", func(t *testing.T) {
		root := &Node{Children: []*Node{
			{Title: "Empty group"},
			{Title: "Deep", Children: []*Node{
				{Title: "Leaf", Target: "first.html"},
			}},
		}}
		if got := root.FirstTarget(); got != "first.html" {
			t.Errorf("FirstTarget() = %q, want first.html", got)
		}
	})

	t.Run("no navigable node", func(t *testing.T) {
		root := &Node{Children: []*Node{{Title: "Only a label"}}}
		if got := root.FirstTarget(); got != "" {
			t.Errorf("FirstTarget() = %q, want empty", got)
		}
	})
}

func TestBuildIndex(t *testing.T) {
	entries := BuildIndex(sampleTree())

	labels := make([]string, len(entries))
	for i, e := range entries {
		labels[i] = e.Label
	}
	// Case-insensitive order; the grouping node contributes nothing of its
	// own but all of its descendants.
	want := []string{"apple", "Banana", "Cherry"}
	if !reflect.DeepEqual(labels, want) {
		t.Errorf("index labels = %v, want %v", labels, want)
	}
}

func TestBuildIndexDuplicates(t *testing.T) {
	root := &Node{Children: []*Node{
		{Title: "Widget", Target: "widget-a.html"},
		{Title: "Widget", Target: "widget-b.html"},
	}}
	entries := BuildIndex(root)
	if len(entries) != 2 {
		t.Fatalf("duplicates were merged: %+v", entries)
	}
	// Stable sort keeps encounter order for equal labels.
	if entries[0].Target != "widget-a.html" || entries[1].Target != "widget-b.html" {
		t.Errorf("duplicate order not preserved: %+v", entries)
	}
}

func TestBuildIndexEmpty(t *testing.T) {
	if entries := BuildIndex(&Node{}); len(entries) != 0 {
		t.Errorf("expected no entries, got %+v", entries)
	}
}
