package commands

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"errors"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"

	"github.com/vitaminmoo/hexpeek/internal/config"
	"github.com/vitaminmoo/hexpeek/internal/preview"
	"github.com/vitaminmoo/hexpeek/internal/util"
)

// Classify prints whether each file looks like binary or text.
func Classify(w io.Writer, cfg config.Config, paths []string, quiet bool) error {
	var failed int
	for _, path := range paths {
		p, err := loadPreview(cfg, path)
		if err != nil {
			config.Log.Errorf("%v", err)
			failed++
			continue
		}

		if quiet {
			fmt.Fprintln(w, p.Kind())
			continue
		}
		fmt.Fprintf(w, "%s: %s (non-text %d/%d, threshold %d)\n",
			path, p.Kind(), p.Class.NonText, p.Class.SampleLen, p.Class.Threshold)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files could not be read", failed, len(paths))
	}
	return nil
}

// Hex prints length bytes of path starting at offset as a hex string.
// A negative length means up to the end of the loaded prefix.
func Hex(w io.Writer, cfg config.Config, path string, offset, length int, upper bool) error {
	limit := cfg.MaxPreviewBytes
	if length >= 0 && offset >= 0 {
		limit = max(limit, int64(offset)+int64(length))
	}

	p, err := preview.Load(path, limit)
	if err != nil {
		return err
	}
	if length < 0 {
		length = max(len(p.Data)-offset, 0)
	}

	s, err := util.ToHexRange(p.Data, offset, length, upper)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	_, err = fmt.Fprintln(w, s)
	return err
}

// Dump prints a hex dump of path. Unless raw is set, characters without a
// visual representation are replaced.
func Dump(w io.Writer, cfg config.Config, path string, raw bool) error {
	d, err := cfg.Dumper()
	if err != nil {
		return err
	}
	p, err := loadPreview(cfg, path)
	if err != nil {
		return err
	}
	recordView(cfg, p)

	out := d.PrintableHexDump(p.Data)
	if raw {
		out = d.HexDump(p.Data)
	}
	if _, err := io.WriteString(w, out); err != nil {
		return err
	}
	if p.Truncated {
		config.Log.Warnf("%s: dumped first %d of %d bytes", path, len(p.Data), p.Size)
	}
	return nil
}

// View prints path the way the browser would show it. In auto mode binary
// content is only dumped when tty is set; otherwise it is refused.
func View(w io.Writer, cfg config.Config, path string, mode preview.Mode, tty bool) error {
	d, err := cfg.Dumper()
	if err != nil {
		return err
	}
	p, err := loadPreview(cfg, path)
	if err != nil {
		return err
	}

	if mode == preview.ModeAuto && p.Binary() && !tty {
		return fmt.Errorf("%s: %w (use --hex to dump it)", path, preview.ErrBinary)
	}

	out, err := p.Render(d, mode)
	if err != nil {
		if errors.Is(err, preview.ErrBinary) {
			return fmt.Errorf("%w (use --hex to dump it)", err)
		}
		return err
	}
	recordView(cfg, p)

	if _, err := io.WriteString(w, out); err != nil {
		return err
	}
	if p.Truncated {
		config.Log.Warnf("%s: showing first %d of %d bytes", path, len(p.Data), p.Size)
	}
	return nil
}

// Algorithms lists the checksums supported by Sum.
var Algorithms = []string{"sha256", "sha1", "md5"}

func newHash(algo string) (hash.Hash, error) {
	switch strings.ToLower(algo) {
	case "sha256":
		return sha256.New(), nil
	case "sha1":
		return sha1.New(), nil
	case "md5":
		return md5.New(), nil
	}
	return nil, fmt.Errorf("unknown checksum algorithm %q (want one of %s)", algo, strings.Join(Algorithms, ", "))
}

// Sum prints the checksum of the whole file in the style of sha256sum.
func Sum(w io.Writer, path, algo string, upper bool) error {
	h, err := newHash(algo)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	n, err := io.Copy(h, f)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	config.Debugf("hashed %d bytes of %s with %s", n, path, algo)

	_, err = fmt.Fprintf(w, "%s  %s\n", util.ToHexCase(h.Sum(nil), upper), path)
	return err
}
