package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/vitaminmoo/hexpeek/internal/config"
	"github.com/vitaminmoo/hexpeek/internal/preview"
	"github.com/vitaminmoo/hexpeek/internal/store"
	"github.com/vitaminmoo/hexpeek/internal/util"
)

// View represents different screens in the TUI.
type View int

const (
	ViewMain View = iota
	ViewBrowse
	ViewFile
	ViewBinaryPrompt // Ask before dumping binary content
	ViewHistory
)

// MenuItem represents a menu option.
type MenuItem struct {
	Title       string
	Description string
	View        View
}

// chrome is the number of lines around the viewport: title bar, file
// summary, gauge, blank lines and help.
const chrome = 9

// Model is the main Bubbletea model for the TUI.
type Model struct {
	// State
	view          View
	returnView    View // where Back goes from the file view
	cursor        int
	cursorHistory map[View]int // Remember cursor position per view
	menuItems     []MenuItem
	width         int
	height        int

	// Settings
	cfg    config.Config
	dumper *util.Dumper
	store  *store.Store // nil when the history directory is unusable

	// File data
	preview     *preview.Preview
	mode        preview.Mode
	loading     bool
	loadingPath string
	errorMsg    string
	statusMsg   string

	// History data
	history        []store.Entry
	historyCount   int
	historyLoading bool

	// Components
	filepicker filepicker.Model
	viewport   viewport.Model
	gauge      Gauge
	keys       KeyMap
	help       help.Model
	spinner    spinner.Model
	styles     Styles
}

// --- Custom messages for async operations ---

// fileLoadedMsg delivers a loaded and classified file.
type fileLoadedMsg struct {
	path    string
	preview *preview.Preview
	err     error
}

// historyMsg delivers the inspection history.
type historyMsg struct {
	entries []store.Entry
	err     error
}

// recordedMsg reports the result of adding a file to the history.
type recordedMsg struct {
	path  string
	isNew bool
	err   error
}

// NewModel creates a new TUI model browsing dir.
func NewModel(cfg config.Config, dir string) (Model, error) {
	d, err := cfg.Dumper()
	if err != nil {
		return Model{}, err
	}

	h := help.New()
	h.ShowAll = false // Use ShortHelp for horizontal layout

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))

	m := Model{
		view:          ViewMain,
		cursorHistory: make(map[View]int),
		cfg:           cfg,
		dumper:        d,
		keys:          DefaultKeyMap(),
		help:          h,
		spinner:       s,
		styles:        DefaultStyles(),
		gauge:         NewGauge(),
		viewport:      viewport.New(80, 20),
	}

	m.menuItems = []MenuItem{
		{
			Title:       "Browse",
			Description: "Pick a file and view it as text or hex",
			View:        ViewBrowse,
		},
		{
			Title:       "History",
			Description: "Reopen previously inspected files",
			View:        ViewHistory,
		},
	}

	fp := filepicker.New()
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.ShowHidden = cfg.ShowHidden
	fp.ShowSize = true
	fp.ShowPermissions = false
	fp.SetHeight(15)
	fp.CurrentDirectory = dir
	m.filepicker = fp

	if st, err := store.Open(cfg.HistoryDir); err == nil {
		m.store = st
		m.historyCount, _ = st.Count()
	} else {
		config.Log.Warnf("history disabled: %v", err)
	}

	return m, nil
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.viewport.Width = max(msg.Width-4, 10)
		m.viewport.Height = max(msg.Height-chrome, 3)
		m.filepicker.SetHeight(max(msg.Height-chrome, 3))
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case fileLoadedMsg:
		return m.handleFileLoaded(msg)

	case historyMsg:
		m.historyLoading = false
		if msg.err != nil {
			m.errorMsg = fmt.Sprintf("Failed to load history: %v", msg.err)
			return m, nil
		}
		m.history = msg.entries
		m.historyCount = len(msg.entries)
		if m.cursor >= len(m.history) {
			m.cursor = max(len(m.history)-1, 0)
		}
		return m, nil

	case recordedMsg:
		if msg.err != nil {
			config.Log.Warnf("failed to record %s in history: %v", msg.path, msg.err)
		} else {
			config.Debugf("recorded %s in history (new=%v)", msg.path, msg.isNew)
			if msg.isNew {
				m.historyCount++
			}
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.view == ViewBrowse {
			return m.updateBrowse(msg)
		}
		return m.handleKey(msg)
	}

	// Directory listings and other picker messages
	if m.view == ViewBrowse {
		var cmd tea.Cmd
		m.filepicker, cmd = m.filepicker.Update(msg)
		return m, cmd
	}
	return m, nil
}

// updateBrowse forwards keys to the file picker. q leaves the picker; every
// other key, including esc, is navigation inside it.
func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m.goBack()
	}
	if m.loading {
		return m, nil
	}

	var cmd tea.Cmd
	m.filepicker, cmd = m.filepicker.Update(msg)

	if didSelect, path := m.filepicker.DidSelectFile(msg); didSelect {
		m.returnView = ViewBrowse
		return m.startLoad(path)
	}

	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.view {
	case ViewBinaryPrompt:
		switch {
		case key.Matches(msg, m.keys.Yes):
			m.mode = preview.ModeHex
			return m.showFile()
		case key.Matches(msg, m.keys.No), key.Matches(msg, m.keys.Quit):
			m.preview = nil
			m.gauge.Clear()
			return m.goBack()
		}
		return m, nil

	case ViewFile:
		return m.handleFileKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.view == ViewMain {
			return m, tea.Quit
		}
		return m.goBack()

	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Left):
		return m.goBack()

	case key.Matches(msg, m.keys.Up):
		m.cursor--
		if m.cursor < 0 {
			m.cursor = m.maxCursor()
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.cursor++
		if m.cursor > m.maxCursor() {
			m.cursor = 0
		}
		return m, nil

	case key.Matches(msg, m.keys.Select), key.Matches(msg, m.keys.Right):
		return m.handleSelect()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.History):
		return m.enterView(ViewHistory)

	case key.Matches(msg, m.keys.Refresh):
		if m.view == ViewHistory {
			return m.enterView(ViewHistory)
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleFileKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Left):
		m.preview = nil
		m.gauge.Clear()
		return m.goBack()

	case key.Matches(msg, m.keys.Toggle):
		if m.mode == preview.ModeHex {
			if m.preview.Binary() {
				m.statusMsg = ""
				m.errorMsg = "Binary content has no text view"
				return m, nil
			}
			m.mode = preview.ModeText
		} else {
			m.mode = preview.ModeHex
		}
		return m.showFile()

	case key.Matches(msg, m.keys.Refresh):
		return m.startLoad(m.preview.Path)

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) goBack() (tea.Model, tea.Cmd) {
	// Save current cursor position before leaving
	m.cursorHistory[m.view] = m.cursor
	m.errorMsg = ""
	m.statusMsg = ""

	switch m.view {
	case ViewMain:
		return m, tea.Quit
	case ViewFile, ViewBinaryPrompt:
		m.view = m.returnView
	default:
		m.view = ViewMain
	}

	// Restore cursor position for the target view
	m.cursor = m.cursorHistory[m.view]
	if m.view == ViewHistory {
		return m, loadHistoryCmd(m.store)
	}
	return m, nil
}

// enterView switches to a top-level view and starts whatever it needs.
func (m Model) enterView(v View) (tea.Model, tea.Cmd) {
	m.cursorHistory[m.view] = m.cursor
	m.view = v
	m.cursor = m.cursorHistory[v] // Restore saved position or 0
	m.errorMsg = ""
	m.statusMsg = ""

	switch v {
	case ViewBrowse:
		return m, m.filepicker.Init()
	case ViewHistory:
		m.historyLoading = true
		return m, tea.Batch(loadHistoryCmd(m.store), m.spinner.Tick)
	}
	return m, nil
}

func (m Model) handleSelect() (tea.Model, tea.Cmd) {
	switch m.view {
	case ViewMain:
		if m.cursor < len(m.menuItems) {
			return m.enterView(m.menuItems[m.cursor].View)
		}
	case ViewHistory:
		if m.cursor < len(m.history) {
			m.cursorHistory[m.view] = m.cursor
			m.returnView = ViewHistory
			return m.startLoad(m.history[m.cursor].Path)
		}
	}
	return m, nil
}

// startLoad reads path in the background.
func (m Model) startLoad(path string) (tea.Model, tea.Cmd) {
	m.loading = true
	m.loadingPath = path
	m.errorMsg = ""
	m.statusMsg = ""
	return m, tea.Batch(loadFileCmd(path, m.cfg.MaxPreviewBytes), m.spinner.Tick)
}

func (m Model) handleFileLoaded(msg fileLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.path != m.loadingPath {
		// A newer load superseded this one
		return m, nil
	}
	m.loading = false
	m.loadingPath = ""

	if msg.err != nil {
		m.errorMsg = fmt.Sprintf("Failed to open %s: %v", util.ShortenPath(msg.path, 50), msg.err)
		return m, nil
	}

	m.preview = msg.preview
	m.gauge.Set(msg.preview.Class)
	record := recordCmd(m.store, msg.preview, m.cfg.Charset)

	if msg.preview.Binary() {
		m.view = ViewBinaryPrompt
		return m, record
	}
	m.mode = preview.ModeText
	next, cmd := m.showFile()
	return next, tea.Batch(cmd, record)
}

// showFile renders the current preview into the viewport.
func (m Model) showFile() (tea.Model, tea.Cmd) {
	out, err := m.preview.Render(m.dumper, m.mode)
	if err != nil {
		if errors.Is(err, preview.ErrBinary) {
			m.mode = preview.ModeHex
			out, err = m.preview.Render(m.dumper, m.mode)
		}
		if err != nil {
			m.errorMsg = err.Error()
			return m, nil
		}
	}
	if m.mode == preview.ModeText {
		out = displayText(out)
	}

	m.view = ViewFile
	m.errorMsg = ""
	m.statusMsg = fmt.Sprintf("%s view", m.mode)
	m.viewport.SetContent(out)
	m.viewport.GotoTop()
	return m, nil
}

// displayText makes text content safe to draw: tabs become spaces and
// characters without a visual representation become the dump placeholder.
func displayText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\t", "    ")
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n':
			return r
		case r == '\r':
			return -1
		case !util.IsPrintable(r):
			return []rune(util.Placeholder)[0]
		}
		return r
	}, s)
}

func (m Model) maxCursor() int {
	switch m.view {
	case ViewMain:
		return len(m.menuItems) - 1
	case ViewHistory:
		return max(len(m.history)-1, 0)
	default:
		return 0
	}
}

// View renders the model.
func (m Model) View() string {
	var content string

	switch m.view {
	case ViewMain:
		content = m.viewMain()
	case ViewBrowse:
		content = m.viewBrowse()
	case ViewFile:
		content = m.viewFile()
	case ViewBinaryPrompt:
		content = m.viewBinaryPrompt()
	case ViewHistory:
		content = m.viewHistory()
	default:
		content = "Unknown view"
	}

	// Help
	helpView := m.styles.Help.Render(m.help.View(m.keys))

	return m.styles.App.Render(
		content + "\n" + helpView,
	)
}

func (m Model) viewMain() string {
	var b strings.Builder

	b.WriteString(m.renderTitleBar("hexpeek"))
	b.WriteString("\n\n")

	for i, item := range m.menuItems {
		title := item.Title
		desc := item.Description

		if item.View == ViewHistory && m.store != nil {
			desc = fmt.Sprintf("%s (%d files)", item.Description, m.historyCount)
		}

		if i == m.cursor {
			b.WriteString(m.styles.MenuItemSelected.Render("> " + title))
		} else {
			b.WriteString(m.styles.MenuItem.Render("  " + title))
		}
		b.WriteString("\n")
		b.WriteString(m.styles.MenuItemDim.Render(desc))
		b.WriteString("\n\n")
	}

	return b.String()
}

// renderTitleBar renders a consistent title bar with load status.
func (m Model) renderTitleBar(title string) string {
	parts := []string{m.styles.Title.Render(title)}

	switch {
	case m.loading:
		parts = append(parts, m.spinner.View()+" "+m.styles.Warning.Render("Loading "+util.ShortenPath(m.loadingPath, 40)))
	case m.errorMsg != "":
		parts = append(parts, m.styles.Error.Render(m.errorMsg))
	case m.statusMsg != "":
		parts = append(parts, m.styles.Muted.Render(m.statusMsg))
	}

	return strings.Join(parts, "  ")
}

func (m Model) viewBrowse() string {
	var b strings.Builder

	b.WriteString(m.renderTitleBar("Browse"))
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render("Directory: " + util.ShortenPath(m.filepicker.CurrentDirectory, max(m.width-15, 20))))
	b.WriteString("\n\n")
	b.WriteString(m.filepicker.View())
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render("↑/↓ navigate • enter/→ open • ←/esc parent dir • q menu"))

	return b.String()
}

func (m Model) viewFile() string {
	var b strings.Builder

	b.WriteString(m.renderTitleBar(m.preview.Name()))
	b.WriteString("\n")
	b.WriteString(m.styles.Badge(m.preview.Binary()))
	b.WriteString(" ")
	b.WriteString(m.styles.Muted.Render(m.preview.Summary()))
	b.WriteString("\n")
	b.WriteString(m.gauge.View())
	b.WriteString("\n")
	b.WriteString(m.styles.Viewer.Render(m.viewport.View()))
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render(fmt.Sprintf("%3.f%%  %s", m.viewport.ScrollPercent()*100, m.dumper.Charset())))

	return b.String()
}

func (m Model) viewBinaryPrompt() string {
	var b strings.Builder

	b.WriteString(m.renderTitleBar(m.preview.Name()))
	b.WriteString("\n\n")

	var p strings.Builder
	p.WriteString(m.styles.Badge(true))
	p.WriteString(" ")
	p.WriteString(m.styles.Highlight.Render(util.ShortenPath(m.preview.Path, 50)))
	p.WriteString("\n\n")
	p.WriteString(m.renderField("Size", humanize.Bytes(uint64(m.preview.Size))))
	p.WriteString(m.renderField("Non-text", fmt.Sprintf("%d of %d sampled bytes", m.preview.Class.NonText, m.preview.Class.SampleLen)))
	p.WriteString(m.renderField("Threshold", fmt.Sprintf("%d", m.preview.Class.Threshold)))
	p.WriteString("\n")
	p.WriteString(m.gauge.View())
	p.WriteString("\n\n")
	p.WriteString("This file looks like binary data. Show a hex dump? ")
	p.WriteString(m.styles.Muted.Render("[y/n]"))

	b.WriteString(m.styles.Prompt.Render(p.String()))
	return b.String()
}

func (m Model) viewHistory() string {
	var b strings.Builder

	b.WriteString(m.renderTitleBar("History"))
	b.WriteString("\n\n")

	switch {
	case m.store == nil:
		b.WriteString(m.styles.Error.Render("History is unavailable: " + m.cfg.HistoryDir))
	case m.historyLoading:
		b.WriteString(m.spinner.View() + " Loading...")
	case len(m.history) == 0:
		b.WriteString(m.styles.Muted.Render("No files in history."))
		b.WriteString("\n\n")
		b.WriteString(m.styles.Muted.Render("Files you open are remembered here."))
	default:
		b.WriteString(fmt.Sprintf("%d file(s)\n\n", len(m.history)))

		pathWidth := max(m.width-50, 20)
		for i, e := range m.history {
			line := fmt.Sprintf("%-12s  %-6s  %9s  %-14s  %s",
				store.ShortHash(e.ContentHash),
				e.Kind(),
				humanize.Bytes(uint64(e.Size)),
				humanize.Time(e.UpdatedAt),
				util.ShortenPath(e.Path, pathWidth))

			if i == m.cursor {
				b.WriteString(m.styles.MenuItemSelected.Render("> " + line))
			} else {
				b.WriteString(m.styles.MenuItem.Render("  " + line))
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}

func (m Model) renderField(label, value string) string {
	return m.styles.Label.Render(label+":") + " " + m.styles.Value.Render(value) + "\n"
}

// --- Async commands ---

// loadFileCmd reads and classifies a file prefix.
func loadFileCmd(path string, limit int64) tea.Cmd {
	return func() tea.Msg {
		p, err := preview.Load(path, limit)
		return fileLoadedMsg{path: path, preview: p, err: err}
	}
}

// loadHistoryCmd lists the inspection history.
func loadHistoryCmd(s *store.Store) tea.Cmd {
	return func() tea.Msg {
		if s == nil {
			return historyMsg{}
		}
		entries, err := s.List()
		return historyMsg{entries: entries, err: err}
	}
}

// recordCmd adds an opened file to the history.
func recordCmd(s *store.Store, p *preview.Preview, charset string) tea.Cmd {
	if s == nil {
		return nil
	}
	return func() tea.Msg {
		isNew, err := s.Record(store.NewEntry(p, charset, time.Now()))
		return recordedMsg{path: p.Path, isNew: isNew, err: err}
	}
}
