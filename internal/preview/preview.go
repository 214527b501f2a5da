// Package preview loads a bounded prefix of a file and decides whether it is
// shown as text or as a hex dump.
package preview

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/vitaminmoo/hexpeek/internal/config"
	"github.com/vitaminmoo/hexpeek/internal/util"
)

var (
	// ErrBinary is returned when text rendering is requested for binary content.
	ErrBinary = errors.New("binary content")

	// ErrIsDirectory is returned when the path is a directory.
	ErrIsDirectory = errors.New("path is a directory")
)

// Mode selects how a preview is rendered.
type Mode int

const (
	// ModeAuto shows text as-is and binary as a printable hex dump.
	ModeAuto Mode = iota
	// ModeText shows the content as-is and refuses binary content.
	ModeText
	// ModeHex always shows the printable hex dump.
	ModeHex
)

func (m Mode) String() string {
	switch m {
	case ModeAuto:
		return "auto"
	case ModeText:
		return "text"
	case ModeHex:
		return "hex"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Preview is the inspected prefix of a file.
type Preview struct {
	Path      string
	Size      int64 // size of the whole file
	Data      []byte
	Truncated bool
	Class     util.Classification
}

// Load reads at most limit bytes of path and classifies them.
func Load(path string, limit int64) (*Preview, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s: %w", path, ErrIsDirectory)
	}

	data, err := io.ReadAll(io.LimitReader(f, limit))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	p := FromBytes(path, data)
	p.Size = max(info.Size(), int64(len(data)))
	p.Truncated = p.Size > int64(len(data))

	config.Debugf("loaded %s: %d of %d bytes, non-text %d/%d (threshold %d)",
		path, len(data), p.Size, p.Class.NonText, p.Class.SampleLen, p.Class.Threshold)
	return p, nil
}

// FromBytes wraps an in-memory buffer.
func FromBytes(name string, data []byte) *Preview {
	return &Preview{
		Path:  name,
		Size:  int64(len(data)),
		Data:  data,
		Class: util.Classify(data),
	}
}

// Name returns the base name of the previewed file.
func (p *Preview) Name() string {
	return filepath.Base(p.Path)
}

// Binary reports whether the content was classified as binary.
func (p *Preview) Binary() bool {
	return p.Class.Binary
}

// Kind returns "binary" or "text".
func (p *Preview) Kind() string {
	if p.Binary() {
		return "binary"
	}
	return "text"
}

// Summary is a one-line description such as "text, 12 kB (0.0% non-text of 10240 sampled)".
func (p *Preview) Summary() string {
	s := fmt.Sprintf("%s, %s (%.1f%% non-text of %d sampled)",
		p.Kind(), humanize.Bytes(uint64(p.Size)), p.Class.Ratio()*100, p.Class.SampleLen)
	if p.Truncated {
		s += fmt.Sprintf(", showing first %s", humanize.Bytes(uint64(len(p.Data))))
	}
	return s
}

// Render returns the display string for the preview.
func (p *Preview) Render(d *util.Dumper, mode Mode) (string, error) {
	switch mode {
	case ModeHex:
		return d.PrintableHexDump(p.Data), nil
	case ModeText:
		if p.Binary() {
			return "", fmt.Errorf("%s: %w", p.Path, ErrBinary)
		}
		return string(p.Data), nil
	case ModeAuto:
		if p.Binary() {
			return d.PrintableHexDump(p.Data), nil
		}
		return string(p.Data), nil
	}
	return "", fmt.Errorf("unknown render mode %v", mode)
}
