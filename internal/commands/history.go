package commands

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/vitaminmoo/hexpeek/internal/config"
	"github.com/vitaminmoo/hexpeek/internal/store"
	"github.com/vitaminmoo/hexpeek/internal/util"
)

// HistoryList prints every inspected file, most recent first.
func HistoryList(w io.Writer, cfg config.Config) error {
	s, err := store.Open(cfg.HistoryDir)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}

	entries, err := s.List()
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	if len(entries) == 0 {
		fmt.Fprintln(w, "No files in history.")
		fmt.Fprintln(w, "Inspect files with: hexpeek view <file>")
		return nil
	}

	fmt.Fprintf(w, "Found %d file(s) in %s:\n\n", len(entries), s.Dir())
	for _, e := range entries {
		fmt.Fprintf(w, "  %s  %-6s  %9s  %-14s  %s\n",
			store.ShortHash(e.ContentHash),
			e.Kind(),
			humanize.Bytes(uint64(e.Size)),
			humanize.Time(e.UpdatedAt),
			util.ShortenPath(e.Path, 60))
	}
	return nil
}

// HistoryShow prints one history entry as JSON.
func HistoryShow(w io.Writer, cfg config.Config, ref string) error {
	s, err := store.Open(cfg.HistoryDir)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}

	hash, err := s.Resolve(ref)
	if err != nil {
		return err
	}
	e, err := s.Get(hash)
	if err != nil {
		return err
	}
	return PrintJSON(w, e)
}

// HistoryClear forgets every inspected file.
func HistoryClear(w io.Writer, cfg config.Config) error {
	s, err := store.Open(cfg.HistoryDir)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	n, err := s.Count()
	if err != nil {
		return err
	}
	if err := s.Clear(); err != nil {
		return err
	}
	fmt.Fprintf(w, "Removed %d entr%s.\n", n, pluralY(n))
	return nil
}

// ConfigShow prints the effective configuration as TOML.
func ConfigShow(w io.Writer, cfg config.Config) error {
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func pluralY(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
