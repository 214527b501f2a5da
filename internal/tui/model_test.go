package tui

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vitaminmoo/hexpeek/internal/config"
	"github.com/vitaminmoo/hexpeek/internal/preview"
	"github.com/vitaminmoo/hexpeek/internal/util"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	cfg := config.Default()
	cfg.HistoryDir = filepath.Join(t.TempDir(), "history")
	m, err := NewModel(cfg, t.TempDir())
	if err != nil {
		t.Fatalf("NewModel() error = %v", err)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// open simulates a file picker selection completing with data.
func open(t *testing.T, m Model, name string, data []byte) Model {
	t.Helper()
	next, _ := m.startLoad(name)
	m = next.(Model)
	next, _ = m.Update(fileLoadedMsg{path: name, preview: preview.FromBytes(name, data)})
	return next.(Model)
}

func TestOpenTextFile(t *testing.T) {
	m := newTestModel(t)
	m.returnView = ViewBrowse
	m = open(t, m, "notes.txt", []byte("hello\tworld\n"))

	if m.view != ViewFile {
		t.Fatalf("view = %v, want ViewFile", m.view)
	}
	if m.mode != preview.ModeText {
		t.Errorf("mode = %v, want text", m.mode)
	}
	if m.loading {
		t.Error("still loading after fileLoadedMsg")
	}

	next, _ := m.Update(runes("x"))
	m = next.(Model)
	if m.mode != preview.ModeHex {
		t.Errorf("mode after toggle = %v, want hex", m.mode)
	}
	if !strings.Contains(m.viewport.View(), "00000000 68656C6C6F") {
		t.Errorf("hex view missing dump line:\n%s", m.viewport.View())
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)
	if m.view != ViewBrowse {
		t.Errorf("view after back = %v, want ViewBrowse", m.view)
	}
	if m.preview != nil {
		t.Error("preview kept after leaving the file view")
	}
}

func TestOpenBinaryFilePrompts(t *testing.T) {
	m := newTestModel(t)
	m.returnView = ViewBrowse
	m = open(t, m, "blob.bin", bytes.Repeat([]byte{0x00, 0x01, 0x02}, 100))

	if m.view != ViewBinaryPrompt {
		t.Fatalf("view = %v, want ViewBinaryPrompt", m.view)
	}
	if !m.gauge.IsActive() {
		t.Error("gauge not set for loaded file")
	}

	next, _ := m.Update(runes("y"))
	m = next.(Model)
	if m.view != ViewFile || m.mode != preview.ModeHex {
		t.Fatalf("after y: view = %v, mode = %v", m.view, m.mode)
	}

	next, _ = m.Update(runes("x"))
	m = next.(Model)
	if m.mode != preview.ModeHex {
		t.Errorf("binary file switched to %v", m.mode)
	}
	if m.errorMsg == "" {
		t.Error("expected an error message when toggling binary content to text")
	}
}

func TestBinaryPromptDecline(t *testing.T) {
	m := newTestModel(t)
	m.returnView = ViewHistory
	m = open(t, m, "blob.bin", make([]byte, 64))

	next, _ := m.Update(runes("n"))
	m = next.(Model)
	if m.view != ViewHistory {
		t.Errorf("view = %v, want ViewHistory", m.view)
	}
	if m.gauge.IsActive() {
		t.Error("gauge still active after declining")
	}
}

func TestStaleLoadIgnored(t *testing.T) {
	m := newTestModel(t)
	next, _ := m.startLoad("new.txt")
	m = next.(Model)

	next, _ = m.Update(fileLoadedMsg{path: "old.txt", preview: preview.FromBytes("old.txt", []byte("x"))})
	m = next.(Model)
	if !m.loading || m.preview != nil {
		t.Errorf("stale result applied: loading=%v preview=%v", m.loading, m.preview)
	}
}

func TestMainMenuNavigation(t *testing.T) {
	m := newTestModel(t)

	next, _ := m.Update(runes("j"))
	m = next.(Model)
	if m.cursor != 1 {
		t.Fatalf("cursor = %d, want 1", m.cursor)
	}
	next, _ = m.Update(runes("j"))
	m = next.(Model)
	if m.cursor != 0 {
		t.Errorf("cursor did not wrap: %d", m.cursor)
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	if m.view != ViewBrowse {
		t.Errorf("view = %v, want ViewBrowse", m.view)
	}
	if cmd == nil {
		t.Error("entering the browser should read the directory")
	}

	next, _ = m.Update(runes("q"))
	m = next.(Model)
	if m.view != ViewMain {
		t.Errorf("q in browser: view = %v, want ViewMain", m.view)
	}
}

func TestHistoryMsg(t *testing.T) {
	m := newTestModel(t)
	next, _ := m.enterView(ViewHistory)
	m = next.(Model)
	if !m.historyLoading {
		t.Fatal("history not loading after entering the view")
	}

	next, _ = m.Update(historyMsg{})
	m = next.(Model)
	if m.historyLoading || m.historyCount != 0 {
		t.Errorf("historyLoading=%v historyCount=%d", m.historyLoading, m.historyCount)
	}
	if !strings.Contains(m.viewHistory(), "No files in history.") {
		t.Errorf("empty history view = %q", m.viewHistory())
	}
}

func TestDisplayText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"a\tb", "a    b"},
		{"line\r\nnext", "line\nnext"},
		{"bell\x07", "bell."},
		{"esc\x1b[31m", "esc.[31m"},
		{"café", "café"},
	}

	for _, tt := range tests {
		if got := displayText(tt.in); got != tt.want {
			t.Errorf("displayText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGaugePercent(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want float64
	}{
		{"empty", nil, 0},
		{"text", []byte(strings.Repeat("a", 100)), 0},
		{"at threshold", append(make([]byte, 5), bytes.Repeat([]byte("a"), 95)...), 0.5},
		{"saturated", make([]byte, 100), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var g Gauge
			g.Set(util.Classify(tt.data))
			if got := g.Percent(); got != tt.want {
				t.Errorf("Percent() = %v, want %v", got, tt.want)
			}
		})
	}
}
