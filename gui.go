//go:build gui

package main

import (
	"errors"
	"flag"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/chmtools/chmview/internal/config"
	"github.com/chmtools/chmview/internal/htmltext"
	"github.com/chmtools/chmview/internal/resolve"
	"github.com/chmtools/chmview/internal/sitemap"
)

// variantTheme pins the default theme to one variant, so the configured
// light/dark choice flows in as a value rather than ambient desktop or
// environment state.
type variantTheme struct {
	fyne.Theme
	variant fyne.ThemeVariant
}

func (t *variantTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	return t.Theme.Color(name, t.variant)
}

func configTheme(t config.Theme) fyne.Theme {
	variant := theme.VariantDark
	if t == config.ThemeLight {
		variant = theme.VariantLight
	}
	return &variantTheme{Theme: theme.DefaultTheme(), variant: variant}
}

// treeData adapts the contents tree to fyne's id-based tree widget.
type treeData struct {
	children map[widget.TreeNodeID][]widget.TreeNodeID
	nodes    map[widget.TreeNodeID]*sitemap.Node
	crumbs   map[widget.TreeNodeID]string
}

func buildTreeData(root *sitemap.Node) *treeData {
	td := &treeData{
		children: make(map[widget.TreeNodeID][]widget.TreeNodeID),
		nodes:    make(map[widget.TreeNodeID]*sitemap.Node),
		crumbs:   make(map[widget.TreeNodeID]string),
	}
	var walk func(n *sitemap.Node, id widget.TreeNodeID, trail []string)
	walk = func(n *sitemap.Node, id widget.TreeNodeID, trail []string) {
		for i, c := range n.Children {
			cid := id + "/" + strconv.Itoa(i)
			chain := append(trail, c.Title)
			td.children[id] = append(td.children[id], cid)
			td.nodes[cid] = c
			td.crumbs[cid] = strings.Join(chain, " › ")
			walk(c, cid, chain)
		}
	}
	walk(root, "", nil)
	return td
}

// guiViewer holds the window-level widgets the handlers update.
type guiViewer struct {
	v      *viewerSetup
	win    fyne.Window
	doc    *widget.Label
	scroll *container.Scroll
	crumb  *widget.Label
	status *widget.Label
}

// openTarget resolves a stored target and shows the page, mirroring the
// terminal front-end's error mapping but with dialogs for the fail-closed
// cases, since a GUI user has no status line in view.
func (g *guiViewer) openTarget(target, crumb string) {
	loc, err := g.v.session.Resolve(target)
	switch {
	case errors.Is(err, resolve.ErrEscapesBase):
		dialog.ShowError(fmt.Errorf("target escapes the documentation directory:\n%s", target), g.win)
		return
	case errors.Is(err, resolve.ErrNotFound):
		dialog.ShowError(fmt.Errorf("page not found:\n%s", target), g.win)
		return
	case err != nil:
		dialog.ShowError(err, g.win)
		return
	case loc == nil:
		return
	case loc.External:
		g.status.SetText("External link (not followed): " + loc.URL)
		return
	}
	if crumb != "" {
		g.crumb.SetText(crumb)
	}
	g.showPage(loc)
	g.v.rememberTarget(target)
}

func (g *guiViewer) showPage(loc *resolve.Location) {
	page, err := htmltext.ParseFile(loc.Path)
	if err != nil {
		g.status.SetText("Cannot read page: " + err.Error())
		return
	}
	text := page.Text
	if page.Title != "" {
		text = page.Title + "\n\n" + text
		g.win.SetTitle("chmview — " + page.Title)
	}
	g.doc.SetText(text)
	g.scroll.ScrollToTop()
	if loc.Fragment != "" {
		g.status.SetText("Opened at #" + loc.Fragment)
	} else {
		g.status.SetText("Ready")
	}
}

func (g *guiViewer) openStartPage() {
	if loc, ok := g.v.session.StartPage(); ok {
		g.showPage(loc)
	} else {
		g.status.SetText("This documentation set has no start page")
	}
}

func (g *guiViewer) runSearch(query string) {
	path, rawQuery, ok := g.v.session.SearchPage(query)
	if !ok {
		g.status.SetText("This documentation set has no search.html")
		return
	}
	g.showPage(&resolve.Location{Path: path})
	g.status.SetText("Search page opened with " + rawQuery)
}

func main() {
	configPath := flag.String("config", config.DefaultPath(), "Path to config file")
	themeFlag := flag.String("theme", "", "Theme override: light or dark")
	page := flag.String("page", "", `Open a specific page, e.g. "guide/intro.html#setup"`)
	fresh := flag.Bool("fresh", false, "Ignore the saved last-viewed page")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "chmview (GUI) - Viewer for CHM help archives\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  chmview [options] <file.chm | file.hhc | directory>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Printf("chmview %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	v, err := setup(*configPath, flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer v.session.Close()

	if *themeFlag != "" {
		v.cfg.Theme = config.Theme(*themeFlag)
		if err := v.cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
	}
	if *fresh {
		v.cfg.RememberPage = false
	}

	a := app.New()
	a.Settings().SetTheme(configTheme(v.cfg.Theme))
	win := a.NewWindow("chmview")
	win.Resize(fyne.NewSize(1000, 700))

	g := &guiViewer{
		v:      v,
		win:    win,
		doc:    widget.NewLabel(""),
		crumb:  widget.NewLabel("—"),
		status: widget.NewLabel("Ready"),
	}
	g.doc.Wrapping = fyne.TextWrapWord
	g.scroll = container.NewVScroll(g.doc)

	// Contents tree
	td := buildTreeData(v.session.Contents)
	tree := widget.NewTree(
		func(id widget.TreeNodeID) []widget.TreeNodeID { return td.children[id] },
		func(id widget.TreeNodeID) bool { return len(td.children[id]) > 0 },
		func(branch bool) fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.TreeNodeID, branch bool, o fyne.CanvasObject) {
			o.(*widget.Label).SetText(td.nodes[id].Title)
		},
	)
	tree.OnSelected = func(id widget.TreeNodeID) {
		n := td.nodes[id]
		g.crumb.SetText(td.crumbs[id])
		if n.Target != "" {
			g.openTarget(n.Target, td.crumbs[id])
		}
	}

	// Keyword index
	index := v.session.Index
	list := widget.NewList(
		func() int { return len(index) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			o.(*widget.Label).SetText(index[i].Label)
		},
	)
	list.OnSelected = func(i widget.ListItemID) {
		g.openTarget(index[i].Target, index[i].Label)
	}

	// Search
	searchEntry := widget.NewEntry()
	searchEntry.SetPlaceHolder("Search…")
	searchEntry.OnSubmitted = g.runSearch
	searchTab := container.NewVBox(
		searchEntry,
		widget.NewLabel("Searches via the set's search.html;\nresults render in the document pane."),
	)

	tabs := container.NewAppTabs(
		container.NewTabItem("Contents", tree),
		container.NewTabItem("Index", list),
		container.NewTabItem("Search", searchTab),
	)

	toolbar := widget.NewToolbar(
		widget.NewToolbarAction(theme.HomeIcon(), g.openStartPage),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ViewRefreshIcon(), func() {
			g.status.SetText("Reloaded")
			tree.Refresh()
			list.Refresh()
		}),
	)

	split := container.NewHSplit(tabs, g.scroll)
	split.SetOffset(0.3)

	statusBar := container.NewHBox(g.crumb, widget.NewSeparator(), g.status)
	win.SetContent(container.NewBorder(toolbar, statusBar, nil, nil, split))

	// Saved position, explicit page, then the start-page conventions.
	switch {
	case *page != "":
		g.openTarget(*page, "")
	case v.savedTarget() != "":
		g.openTarget(v.savedTarget(), "")
	default:
		g.openStartPage()
	}

	win.ShowAndRun()
}
