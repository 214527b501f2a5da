package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"

	"github.com/vitaminmoo/hexpeek/internal/util"
)

// Verbose enables debug output when true
var Verbose bool

// Log is the process-wide logger. It writes to stderr until redirected.
var Log = logrus.New()

// SetVerbose toggles debug logging.
func SetVerbose(v bool) {
	Verbose = v
	if v {
		Log.SetLevel(logrus.DebugLevel)
	} else {
		Log.SetLevel(logrus.InfoLevel)
	}
}

// Debugf prints debug messages when Verbose is true
func Debugf(format string, args ...any) {
	if Verbose {
		Log.Debugf(format, args...)
	}
}

// DefaultMaxPreviewBytes bounds how much of a file is loaded for inspection.
const DefaultMaxPreviewBytes = 1 << 20

// Config holds user settings read from config.toml.
type Config struct {
	// Charset used for the raw column of hex dumps (WHATWG label).
	Charset string `toml:"charset"`
	// Scrub is "unicode" or "ascii".
	Scrub string `toml:"scrub"`
	// Lowercase selects the lowercase alphabet for hex and checksum output.
	Lowercase bool `toml:"lowercase"`
	// MaxPreviewBytes is the largest file prefix loaded for viewing.
	MaxPreviewBytes int64 `toml:"max_preview_bytes"`
	// HistoryDir is where the inspection history lives.
	HistoryDir string `toml:"history_dir"`
	// ShowHidden shows dotfiles in the browser.
	ShowHidden bool `toml:"show_hidden"`
}

// BaseDir returns ~/.hexpeek.
func BaseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".hexpeek"), nil
}

// DefaultPath returns the default config file path (~/.hexpeek/config.toml).
func DefaultPath() (string, error) {
	base, err := BaseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "config.toml"), nil
}

// Default returns the built-in settings.
func Default() Config {
	c := Config{
		Charset:         util.DefaultCharset,
		Scrub:           util.ScrubUnicode.String(),
		MaxPreviewBytes: DefaultMaxPreviewBytes,
	}
	if base, err := BaseDir(); err == nil {
		c.HistoryDir = filepath.Join(base, "history")
	}
	return c
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	c := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		Debugf("no config at %s, using defaults", path)
		return c, nil
	}
	if err != nil {
		return c, fmt.Errorf("reading config file %s: %w", path, err)
	}

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		return c, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("config file %s: %w", path, err)
	}
	Debugf("loaded config from %s", path)
	return c, nil
}

// LoadDefault loads the config at DefaultPath.
func LoadDefault() (Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks field values.
func (c Config) Validate() error {
	if _, err := c.Dumper(); err != nil {
		return err
	}
	if c.MaxPreviewBytes <= 0 {
		return fmt.Errorf("max_preview_bytes must be positive, got %d", c.MaxPreviewBytes)
	}
	if strings.TrimSpace(c.HistoryDir) == "" {
		return errors.New("history_dir must not be empty")
	}
	return nil
}

// Dumper builds the hex dumper described by the charset and scrub settings.
func (c Config) Dumper() (*util.Dumper, error) {
	mode, err := util.ParseScrubMode(c.Scrub)
	if err != nil {
		return nil, fmt.Errorf("scrub: %w", err)
	}
	d, err := util.NewDumper(c.Charset, mode)
	if err != nil {
		return nil, fmt.Errorf("charset: %w", err)
	}
	return d, nil
}

// Marshal renders c as TOML.
func (c Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}
