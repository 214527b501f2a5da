package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/vitaminmoo/hexpeek/internal/config"
	"github.com/vitaminmoo/hexpeek/internal/preview"
	"github.com/vitaminmoo/hexpeek/internal/store"
)

// PrintJSON pretty-prints v.
func PrintJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// StdoutIsTerminal reports whether stdout is attached to a terminal.
func StdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// loadPreview reads the configured prefix of path.
func loadPreview(cfg config.Config, path string) (*preview.Preview, error) {
	return preview.Load(path, cfg.MaxPreviewBytes)
}

// recordView adds p to the history. Failures are logged, not returned.
func recordView(cfg config.Config, p *preview.Preview) {
	s, err := store.Open(cfg.HistoryDir)
	if err != nil {
		config.Debugf("history unavailable: %v", err)
		return
	}
	isNew, err := s.Record(store.NewEntry(p, cfg.Charset, time.Now()))
	if err != nil {
		config.Log.Warnf("failed to record %s in history: %v", p.Path, err)
		return
	}
	config.Debugf("recorded %s in history (new=%v)", p.Path, isNew)
}
