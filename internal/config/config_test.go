package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"

	"github.com/vitaminmoo/hexpeek/internal/util"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadMissingFile(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.Charset != util.DefaultCharset {
		t.Errorf("Charset = %q, want %q", c.Charset, util.DefaultCharset)
	}
	if c.Scrub != "unicode" {
		t.Errorf("Scrub = %q, want unicode", c.Scrub)
	}
	if c.MaxPreviewBytes != DefaultMaxPreviewBytes {
		t.Errorf("MaxPreviewBytes = %d, want %d", c.MaxPreviewBytes, DefaultMaxPreviewBytes)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
charset = "windows-1252"
scrub = "ascii"
lowercase = true
max_preview_bytes = 4096
history_dir = "/tmp/hexpeek-history"
show_hidden = true
`)

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := Config{
		Charset:         "windows-1252",
		Scrub:           "ascii",
		Lowercase:       true,
		MaxPreviewBytes: 4096,
		HistoryDir:      "/tmp/hexpeek-history",
		ShowHidden:      true,
	}
	if c != want {
		t.Errorf("Load() = %+v, want %+v", c, want)
	}

	d, err := c.Dumper()
	if err != nil {
		t.Fatalf("Dumper() error = %v", err)
	}
	if d.ScrubMode() != util.ScrubASCII {
		t.Errorf("ScrubMode() = %v, want ascii", d.ScrubMode())
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	c, err := Load(writeConfig(t, `lowercase = true`))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !c.Lowercase {
		t.Error("Lowercase not applied")
	}
	if c.Charset != util.DefaultCharset || c.MaxPreviewBytes != DefaultMaxPreviewBytes {
		t.Errorf("defaults lost: %+v", c)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errText string
	}{
		{"bad charset", `charset = "klingon"`, "charset"},
		{"bad scrub", `scrub = "posix"`, "scrub"},
		{"zero preview", `max_preview_bytes = 0`, "max_preview_bytes"},
		{"unknown key", `colour = "red"`, "parsing"},
		{"syntax", `charset = `, "parsing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("Load() expected error")
			}
			if !strings.Contains(err.Error(), tt.errText) {
				t.Errorf("Load() error = %q, want mention of %q", err, tt.errText)
			}
		})
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	c := Default()
	c.Lowercase = true

	data, err := c.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var back Config
	if err := toml.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if back != c {
		t.Errorf("round trip = %+v, want %+v", back, c)
	}
}

func TestSetVerbose(t *testing.T) {
	defer SetVerbose(false)

	SetVerbose(true)
	if !Verbose || Log.GetLevel() != logrus.DebugLevel {
		t.Errorf("SetVerbose(true): Verbose=%v level=%v", Verbose, Log.GetLevel())
	}
	SetVerbose(false)
	if Verbose || Log.GetLevel() != logrus.InfoLevel {
		t.Errorf("SetVerbose(false): Verbose=%v level=%v", Verbose, Log.GetLevel())
	}
}
