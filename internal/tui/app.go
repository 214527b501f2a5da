package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vitaminmoo/hexpeek/internal/config"
)

// DebugLogName is the file the logger writes to while the TUI owns the terminal.
const DebugLogName = "hexpeek-debug.log"

// Run starts the TUI application in dir, or in the working directory when
// dir is empty.
func Run(cfg config.Config, dir string) error {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		dir = cwd
	}

	restore, err := redirectLog()
	if err != nil {
		return err
	}
	defer restore()

	m, err := NewModel(cfg, dir)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		return err
	}

	return nil
}

// redirectLog keeps log output off the alternate screen. With --verbose it
// goes to DebugLogName under the hexpeek directory, otherwise nowhere.
func redirectLog() (func(), error) {
	prev := config.Log.Out
	restore := func() { config.Log.SetOutput(prev) }

	if !config.Verbose {
		config.Log.SetOutput(io.Discard)
		return restore, nil
	}

	base, err := config.BaseDir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", base, err)
	}
	f, err := os.OpenFile(filepath.Join(base, DebugLogName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open debug log: %w", err)
	}
	config.Log.SetOutput(f)
	return func() {
		restore()
		f.Close()
	}, nil
}
