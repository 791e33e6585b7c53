//go:build !gui

package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/chmtools/chmview/internal/config"
	"github.com/chmtools/chmview/internal/htmltext"
	"github.com/chmtools/chmview/internal/resolve"
	"github.com/chmtools/chmview/internal/sitemap"
)

const (
	tabContents = iota
	tabIndex
	tabSearch
	tabCount
)

var tabNames = [tabCount]string{"Contents", "Index", "Search"}

// palette holds the lipgloss colors for one theme variant.
type palette struct {
	accent   lipgloss.Color
	dim      lipgloss.Color
	selected lipgloss.Color
	text     lipgloss.Color
}

func themePalette(t config.Theme) palette {
	if t == config.ThemeLight {
		return palette{
			accent:   lipgloss.Color("#1e3a8a"),
			dim:      lipgloss.Color("#6b7280"),
			selected: lipgloss.Color("#cfe3ff"),
			text:     lipgloss.Color("#000000"),
		}
	}
	return palette{
		accent:   lipgloss.Color("#ffd866"),
		dim:      lipgloss.Color("#888888"),
		selected: lipgloss.Color("#2b4c7e"),
		text:     lipgloss.Color("#eaeaea"),
	}
}

type model struct {
	v   *viewerSetup
	pal palette

	outline []sitemap.Item

	tab     int
	cursors [tabCount]int

	filter textinput.Model
	search textinput.Model
	typing bool // filter or search input has focus

	vp       viewport.Model
	docTitle string
	docText  string
	crumb    string
	status   string

	width  int
	height int
	ready  bool

	quitting bool
}

func newModel(v *viewerSetup) *model {
	filter := textinput.New()
	filter.Placeholder = "Filter…"
	filter.Prompt = "/ "

	search := textinput.New()
	search.Placeholder = "Search…"
	search.Prompt = "? "

	return &model{
		v:       v,
		pal:     themePalette(v.cfg.Theme),
		outline: v.session.Outline(),
		filter:  filter,
		search:  search,
		status:  "Ready",
	}
}

func (m *model) Init() tea.Cmd {
	// Saved position wins over the start-page conventions.
	if target := m.v.savedTarget(); target != "" {
		if m.openTarget(target, "") {
			return nil
		}
	}
	if loc, ok := m.v.session.StartPage(); ok {
		m.showPage(loc)
	}
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		w, h := m.docPaneSize()
		if !m.ready {
			m.vp = viewport.New(w, h)
			m.ready = true
		} else {
			m.vp.Width = w
			m.vp.Height = h
		}
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		if m.typing {
			return m.updateTyping(msg)
		}
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "tab":
			m.tab = (m.tab + 1) % tabCount
			m.status = "Ready"
			return m, nil

		case "shift+tab":
			m.tab = (m.tab + tabCount - 1) % tabCount
			return m, nil

		case "up", "k":
			if m.cursors[m.tab] > 0 {
				m.cursors[m.tab]--
			}
			return m, nil

		case "down", "j":
			if m.cursors[m.tab] < len(m.rows())-1 {
				m.cursors[m.tab]++
			}
			return m, nil

		case "enter":
			m.openSelection()
			return m, nil

		case "/":
			if m.tab != tabSearch {
				m.typing = true
				return m, m.filter.Focus()
			}
			return m, nil

		case "?":
			m.tab = tabSearch
			m.typing = true
			return m, m.search.Focus()

		case "g", "home":
			if loc, ok := m.v.session.StartPage(); ok {
				m.showPage(loc)
			} else {
				m.status = "This documentation set has no start page"
			}
			return m, nil

		case "pgup", "b":
			m.vp.ViewUp()
			return m, nil

		case "pgdown", "f", " ":
			m.vp.ViewDown()
			return m, nil
		}

		var cmd tea.Cmd
		m.vp, cmd = m.vp.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

// updateTyping routes keys to whichever text input has focus.
func (m *model) updateTyping(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.typing = false
		m.filter.Blur()
		m.search.Blur()
		return m, nil
	case "enter":
		m.typing = false
		if m.tab == tabSearch {
			m.search.Blur()
			m.runSearch(m.search.Value())
		} else {
			m.filter.Blur()
			m.cursors[m.tab] = 0
		}
		return m, nil
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	if m.tab == tabSearch {
		m.search, cmd = m.search.Update(msg)
	} else {
		m.filter, cmd = m.filter.Update(msg)
		m.cursors[m.tab] = 0
	}
	return m, cmd
}

// row is one selectable line in the sidebar.
type row struct {
	label  string
	target string
	crumb  string
}

// rows returns the sidebar rows for the active tab, filtered.
func (m *model) rows() []row {
	needle := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	var out []row
	switch m.tab {
	case tabContents:
		for _, it := range m.outline {
			if needle != "" && !strings.Contains(strings.ToLower(it.Title), needle) {
				continue
			}
			icon := "·"
			if it.HasChildren {
				icon = "▸"
			}
			label := strings.Repeat("  ", it.Depth) + icon + " " + it.Title
			out = append(out, row{label: label, target: it.Target, crumb: it.Breadcrumb})
		}
	case tabIndex:
		for _, e := range m.v.session.Index {
			if needle != "" && !strings.Contains(strings.ToLower(e.Label), needle) {
				continue
			}
			out = append(out, row{label: e.Label, target: e.Target, crumb: e.Label})
		}
	}
	return out
}

func (m *model) openSelection() {
	rows := m.rows()
	cur := m.cursors[m.tab]
	if cur < 0 || cur >= len(rows) {
		return
	}
	sel := rows[cur]
	m.crumb = sel.crumb
	if sel.target == "" {
		m.status = "Nothing to open"
		return
	}
	m.openTarget(sel.target, sel.crumb)
}

// openTarget resolves and displays a stored navigation target. It
// reports whether a local page was shown.
func (m *model) openTarget(target, crumb string) bool {
	loc, err := m.v.session.Resolve(target)
	switch {
	case errors.Is(err, resolve.ErrEscapesBase):
		m.status = "Blocked: target escapes the documentation directory"
		return false
	case errors.Is(err, resolve.ErrNotFound):
		m.status = "Not found: " + target
		return false
	case err != nil:
		m.status = err.Error()
		return false
	case loc == nil:
		return false
	case loc.External:
		m.status = "External link (not followed): " + loc.URL
		return false
	}
	if crumb != "" {
		m.crumb = crumb
	}
	m.showPage(loc)
	m.v.rememberTarget(target)
	return true
}

// showPage loads a resolved local page into the document pane.
func (m *model) showPage(loc *resolve.Location) {
	doc, err := htmltext.ParseFile(loc.Path)
	if err != nil {
		m.status = "Cannot read page: " + err.Error()
		return
	}
	m.docTitle = doc.Title
	m.docText = doc.Text
	if loc.Fragment != "" {
		m.status = "Opened at #" + loc.Fragment
	} else {
		m.status = "Ready"
	}
	m.refreshViewport()
	m.vp.GotoTop()
}

// refreshViewport rewraps the current document for the pane width.
func (m *model) refreshViewport() {
	wrap := m.vp.Width
	if wrap <= 0 || wrap > m.v.cfg.WrapWidth {
		wrap = m.v.cfg.WrapWidth
	}
	m.vp.SetContent(lipgloss.NewStyle().Width(wrap).Render(m.docText))
}

func (m *model) runSearch(query string) {
	path, rawQuery, ok := m.v.session.SearchPage(query)
	if !ok {
		if strings.TrimSpace(query) == "" {
			m.status = "Type a search query first"
		} else {
			m.status = "This documentation set has no search.html"
		}
		return
	}
	m.showPage(&resolve.Location{Path: path})
	m.status = "Search page opened with " + rawQuery
}

func (m *model) sidebarWidth() int {
	w := m.v.cfg.SidebarWidth
	if m.width > 0 && w > m.width/2 {
		w = m.width / 2
	}
	return w
}

func (m *model) docPaneSize() (w, h int) {
	w = m.width - m.sidebarWidth() - 3
	if w < 20 {
		w = 20
	}
	h = m.height - 4 // header, tabs, input line, status
	if h < 3 {
		h = 3
	}
	return w, h
}

func (m *model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading…"
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(m.pal.accent)
	dimStyle := lipgloss.NewStyle().Foreground(m.pal.dim)
	selectedStyle := lipgloss.NewStyle().Background(m.pal.selected).Foreground(m.pal.text)

	title := "chmview"
	if m.docTitle != "" {
		title += " — " + m.docTitle
	}
	header := headerStyle.Render(title)

	var tabs []string
	for i, name := range tabNames {
		if i == m.tab {
			tabs = append(tabs, headerStyle.Render("["+name+"]"))
		} else {
			tabs = append(tabs, dimStyle.Render(" "+name+" "))
		}
	}
	tabLine := strings.Join(tabs, " ")

	var inputLine string
	if m.tab == tabSearch {
		inputLine = m.search.View()
	} else {
		inputLine = m.filter.View()
	}

	sidebar := m.renderSidebar(selectedStyle, dimStyle)
	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " │ ", m.vp.View())

	statusLeft := m.status
	if m.crumb != "" {
		statusLeft = m.crumb + "  —  " + m.status
	}
	status := dimStyle.Render(statusLeft)

	return lipgloss.JoinVertical(lipgloss.Left, header, tabLine, inputLine, body, status)
}

func (m *model) renderSidebar(selected, dim lipgloss.Style) string {
	w := m.sidebarWidth()
	_, h := m.docPaneSize()

	if m.tab == tabSearch {
		hint := "Searches via the set's search.html.\nPress ? to edit the query,\nenter to run it."
		return lipgloss.NewStyle().Width(w).Render(dim.Render(hint))
	}

	rows := m.rows()
	cur := m.cursors[m.tab]
	if cur >= len(rows) {
		cur = len(rows) - 1
		if cur < 0 {
			cur = 0
		}
		m.cursors[m.tab] = cur
	}

	start := 0
	if cur >= h {
		start = cur - h + 1
	}
	end := start + h
	if end > len(rows) {
		end = len(rows)
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		label := lipgloss.NewStyle().MaxWidth(w).Render(rows[i].label)
		if i == cur {
			b.WriteString(selected.Width(w).Render(label))
		} else {
			b.WriteString(lipgloss.NewStyle().Width(w).Render(label))
		}
		b.WriteString("\n")
	}
	if len(rows) == 0 {
		b.WriteString(dim.Render("(empty)"))
	}
	return lipgloss.NewStyle().Width(w).Height(h).Render(b.String())
}

func main() {
	configPath := flag.String("config", config.DefaultPath(), "Path to config file")
	themeFlag := flag.String("theme", "", "Theme override: light or dark")
	page := flag.String("page", "", `Open a specific page, e.g. "guide/intro.html#setup"`)
	fresh := flag.Bool("fresh", false, "Ignore the saved last-viewed page")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "chmview - Terminal viewer for CHM help archives\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  chmview [options] <file.chm | file.hhc | directory>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  chmview manual.chm                 Open an archive (side-car or decompiled)\n")
		fmt.Fprintf(os.Stderr, "  chmview ./docs/                    Open an extracted documentation directory\n")
		fmt.Fprintf(os.Stderr, "  chmview -page api/mod.html m.chm   Jump straight to a page\n")
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

	m := newModel(v)
	if *page != "" {
		m.openTarget(*page, "")
	}

	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
