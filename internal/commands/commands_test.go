package commands

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vitaminmoo/hexpeek/internal/config"
	"github.com/vitaminmoo/hexpeek/internal/preview"
	"github.com/vitaminmoo/hexpeek/internal/util"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.HistoryDir = filepath.Join(t.TempDir(), "history")
	return cfg
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestClassify(t *testing.T) {
	cfg := testConfig(t)
	text := writeFile(t, "a.txt", []byte("Hello, world!\n"))
	bin := writeFile(t, "b.bin", make([]byte, 10000))

	var out bytes.Buffer
	if err := Classify(&out, cfg, []string{text, bin}, false); err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	want := text + ": text (non-text 0/14, threshold 0)\n" +
		bin + ": binary (non-text 10000/10000, threshold 500)\n"
	if out.String() != want {
		t.Errorf("Classify() output =\n%s\nwant\n%s", out.String(), want)
	}

	out.Reset()
	if err := Classify(&out, cfg, []string{bin, text}, true); err != nil {
		t.Fatalf("Classify(quiet) error = %v", err)
	}
	if out.String() != "binary\ntext\n" {
		t.Errorf("Classify(quiet) output = %q", out.String())
	}

	out.Reset()
	err := Classify(&out, cfg, []string{text, filepath.Join(t.TempDir(), "missing")}, true)
	if err == nil || !strings.Contains(err.Error(), "1 of 2") {
		t.Errorf("Classify(missing) error = %v", err)
	}
}

func TestHex(t *testing.T) {
	cfg := testConfig(t)
	path := writeFile(t, "h.bin", []byte{0x0A, 0xFF, 0x10, 0x20})

	tests := []struct {
		name    string
		offset  int
		length  int
		upper   bool
		want    string
		wantErr bool
	}{
		{"whole upper", 0, -1, true, "0AFF1020\n", false},
		{"whole lower", 0, -1, false, "0aff1020\n", false},
		{"window", 1, 2, true, "FF10\n", false},
		{"past end", 2, 5, true, "", true},
		{"negative offset", -1, 1, true, "", true},
		{"offset past end", 9, -1, true, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := Hex(&out, cfg, path, tt.offset, tt.length, tt.upper)
			if tt.wantErr {
				if !errors.Is(err, util.ErrOutOfRange) {
					t.Fatalf("Hex() error = %v, want ErrOutOfRange", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Hex() error = %v", err)
			}
			if out.String() != tt.want {
				t.Errorf("Hex() = %q, want %q", out.String(), tt.want)
			}
		})
	}
}

func TestHexReadsPastPreviewLimit(t *testing.T) {
	cfg := testConfig(t)
	cfg.MaxPreviewBytes = 2
	path := writeFile(t, "h.bin", []byte{1, 2, 3, 4, 5})

	var out bytes.Buffer
	if err := Hex(&out, cfg, path, 3, 2, true); err != nil {
		t.Fatalf("Hex() error = %v", err)
	}
	if out.String() != "0405\n" {
		t.Errorf("Hex() = %q", out.String())
	}
}

func TestDump(t *testing.T) {
	cfg := testConfig(t)
	data := []byte("Hi\x00\n")
	path := writeFile(t, "d.bin", data)

	var out bytes.Buffer
	if err := Dump(&out, cfg, path, false); err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	if out.String() != util.PrintableHexDump(data) {
		t.Errorf("Dump() = %q", out.String())
	}

	out.Reset()
	if err := Dump(&out, cfg, path, true); err != nil {
		t.Fatalf("Dump(raw) error = %v", err)
	}
	if out.String() != util.HexDump(data) {
		t.Errorf("Dump(raw) = %q", out.String())
	}
}

func TestView(t *testing.T) {
	cfg := testConfig(t)
	text := writeFile(t, "a.txt", []byte("just text\n"))
	bin := writeFile(t, "b.bin", bytes.Repeat([]byte{0x00, 0x01}, 32))

	tests := []struct {
		name    string
		path    string
		mode    preview.Mode
		tty     bool
		wantErr error
		want    func(string) bool
	}{
		{"text auto", text, preview.ModeAuto, false, nil, func(s string) bool { return s == "just text\n" }},
		{"text forced hex", text, preview.ModeHex, false, nil, func(s string) bool { return strings.HasPrefix(s, "00000000 6A75") }},
		{"binary auto terminal", bin, preview.ModeAuto, true, nil, func(s string) bool { return strings.HasPrefix(s, "00000000 0001") }},
		{"binary auto pipe", bin, preview.ModeAuto, false, preview.ErrBinary, nil},
		{"binary text", bin, preview.ModeText, true, preview.ErrBinary, nil},
		{"binary hex pipe", bin, preview.ModeHex, false, nil, func(s string) bool { return strings.Count(s, util.LineSeparator) == 4 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := View(&out, cfg, tt.path, tt.mode, tt.tty)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("View() error = %v, want %v", err, tt.wantErr)
				}
				if out.Len() != 0 {
					t.Errorf("View() wrote %q on refusal", out.String())
				}
				return
			}
			if err != nil {
				t.Fatalf("View() error = %v", err)
			}
			if !tt.want(out.String()) {
				t.Errorf("View() = %q", out.String())
			}
		})
	}
}

func TestSum(t *testing.T) {
	path := writeFile(t, "s.txt", []byte("abc"))

	tests := []struct {
		algo  string
		upper bool
		want  string
	}{
		{"sha256", false, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
		{"sha1", false, "a9993e364706816aba3e25717850c26c9cd0d89d"},
		{"md5", true, "900150983CD24FB0D6963F7D28E17F72"},
	}

	for _, tt := range tests {
		t.Run(tt.algo, func(t *testing.T) {
			var out bytes.Buffer
			if err := Sum(&out, path, tt.algo, tt.upper); err != nil {
				t.Fatalf("Sum() error = %v", err)
			}
			if want := tt.want + "  " + path + "\n"; out.String() != want {
				t.Errorf("Sum() = %q, want %q", out.String(), want)
			}
		})
	}

	if err := Sum(&bytes.Buffer{}, path, "crc32", false); err == nil {
		t.Error("Sum(crc32) expected error")
	}
}

func TestHistoryCommands(t *testing.T) {
	cfg := testConfig(t)
	path := writeFile(t, "seen.txt", []byte("remember me\n"))

	var out bytes.Buffer
	if err := HistoryList(&out, cfg); err != nil {
		t.Fatalf("HistoryList() error = %v", err)
	}
	if !strings.Contains(out.String(), "No files in history.") {
		t.Errorf("HistoryList(empty) = %q", out.String())
	}

	if err := View(&bytes.Buffer{}, cfg, path, preview.ModeAuto, false); err != nil {
		t.Fatalf("View() error = %v", err)
	}
	if err := View(&bytes.Buffer{}, cfg, path, preview.ModeAuto, false); err != nil {
		t.Fatalf("View() error = %v", err)
	}

	out.Reset()
	if err := HistoryList(&out, cfg); err != nil {
		t.Fatalf("HistoryList() error = %v", err)
	}
	if !strings.Contains(out.String(), "Found 1 file(s)") || !strings.Contains(out.String(), "seen.txt") {
		t.Errorf("HistoryList() = %q", out.String())
	}

	hash := strings.Fields(strings.Split(out.String(), "\n")[2])[0]
	out.Reset()
	if err := HistoryShow(&out, cfg, hash); err != nil {
		t.Fatalf("HistoryShow(%q) error = %v", hash, err)
	}
	if !strings.Contains(out.String(), `"views": 2`) {
		t.Errorf("HistoryShow() = %s", out.String())
	}

	out.Reset()
	if err := HistoryClear(&out, cfg); err != nil {
		t.Fatalf("HistoryClear() error = %v", err)
	}
	if out.String() != "Removed 1 entry.\n" {
		t.Errorf("HistoryClear() = %q", out.String())
	}
}

func TestConfigShow(t *testing.T) {
	var out bytes.Buffer
	if err := ConfigShow(&out, testConfig(t)); err != nil {
		t.Fatalf("ConfigShow() error = %v", err)
	}
	for _, key := range []string{"charset = ", "utf-8", "scrub = ", "unicode", "max_preview_bytes = 1048576"} {
		if !strings.Contains(out.String(), key) {
			t.Errorf("ConfigShow() missing %q in\n%s", key, out.String())
		}
	}
}
