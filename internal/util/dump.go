package util

import (
	"fmt"
	"regexp"
	"runtime"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// DumpLineSize is the number of bytes rendered per hex dump line.
const DumpLineSize = 16

// DefaultCharset is used to interpret the raw column of a dump.
const DefaultCharset = "utf-8"

// Placeholder replaces characters without a visual representation.
const Placeholder = "."

// LineSeparator is the platform line break.
var LineSeparator = func() string {
	if runtime.GOOS == "windows" {
		return "\r\n"
	}
	return "\n"
}()

// ScrubMode selects the character classes removed by PrintableHexDump.
type ScrubMode int

const (
	// ScrubUnicode keeps any graphic Unicode character.
	ScrubUnicode ScrubMode = iota
	// ScrubASCII keeps only printable ASCII.
	ScrubASCII
)

func (m ScrubMode) String() string {
	switch m {
	case ScrubUnicode:
		return "unicode"
	case ScrubASCII:
		return "ascii"
	}
	return fmt.Sprintf("ScrubMode(%d)", int(m))
}

// ParseScrubMode parses "unicode" or "ascii".
func ParseScrubMode(s string) (ScrubMode, error) {
	switch strings.ToLower(s) {
	case "", "unicode":
		return ScrubUnicode, nil
	case "ascii":
		return ScrubASCII, nil
	}
	return 0, fmt.Errorf("unknown scrub mode %q", s)
}

// scrubPasses are applied in order: control characters, then anything not
// printable, then any leftover "other" category character.
var scrubPasses = map[ScrubMode][3]*regexp.Regexp{
	ScrubUnicode: {
		regexp.MustCompile(`\p{Cc}`),
		regexp.MustCompile(`[^\p{L}\p{M}\p{N}\p{P}\p{S} ]`),
		regexp.MustCompile(`\p{C}`),
	},
	ScrubASCII: {
		regexp.MustCompile(`[\x00-\x1F\x7F]`),
		regexp.MustCompile(`[^\x20-\x7E]`),
		regexp.MustCompile(`\p{C}`),
	},
}

// Dumper renders hex dumps. It is immutable and safe for concurrent use.
type Dumper struct {
	charset string
	enc     encoding.Encoding
	scrub   ScrubMode
	sep     string
}

// NewDumper returns a Dumper that decodes the raw column with the named
// charset (any WHATWG encoding label) and scrubs with mode.
func NewDumper(charset string, mode ScrubMode) (*Dumper, error) {
	if charset == "" {
		charset = DefaultCharset
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset %q: %w", charset, err)
	}
	if _, ok := scrubPasses[mode]; !ok {
		return nil, fmt.Errorf("unknown scrub mode %v", mode)
	}
	return &Dumper{
		charset: charset,
		enc:     enc,
		scrub:   mode,
		sep:     LineSeparator,
	}, nil
}

var defaultDumper = func() *Dumper {
	d, err := NewDumper(DefaultCharset, ScrubUnicode)
	if err != nil {
		panic(err)
	}
	return d
}()

// Charset returns the charset label the dumper was created with.
func (d *Dumper) Charset() string { return d.charset }

// ScrubMode returns the dumper's scrub mode.
func (d *Dumper) ScrubMode() ScrubMode { return d.scrub }

// HexDump renders data as offset, hex and raw columns, 16 bytes per line.
// The raw column is not scrubbed.
func (d *Dumper) HexDump(data []byte) string {
	return d.dump(data, d.sep)
}

// PrintableHexDump renders data like HexDump and replaces every character
// without a visual representation with Placeholder.
func (d *Dumper) PrintableHexDump(data []byte) string {
	// Real line breaks would be eaten by the control pass, so lines are
	// joined with an improbable token that is swapped back at the end.
	token := uuid.NewString() + uuid.NewString()

	out := d.dump(data, token)
	for _, re := range scrubPasses[d.scrub] {
		out = re.ReplaceAllLiteralString(out, Placeholder)
	}
	return strings.ReplaceAll(out, token, d.sep)
}

func (d *Dumper) dump(data []byte, sep string) string {
	dec := d.enc.NewDecoder()
	pad := strings.Repeat(" ", DumpLineSize*2)

	var b strings.Builder
	for offset := 0; offset < len(data); offset += DumpLineSize {
		line := data[offset:min(offset+DumpLineSize, len(data))]

		b.WriteString(Int32ToHex(int32(offset)))
		b.WriteByte(' ')
		hexLine := ToHex(line)
		b.WriteString(hexLine)
		b.WriteString(pad[len(hexLine):])
		b.WriteByte(' ')
		b.WriteString(d.decode(dec, line))
		b.WriteString(sep)
	}
	return b.String()
}

func (d *Dumper) decode(dec *encoding.Decoder, line []byte) string {
	text, err := dec.Bytes(line)
	if err != nil {
		return strings.ToValidUTF8(string(line), "\uFFFD")
	}
	return string(text)
}

// HexDump renders data with the default UTF-8 dumper.
func HexDump(data []byte) string {
	return defaultDumper.HexDump(data)
}

// PrintableHexDump renders data with the default UTF-8 dumper and Unicode scrubbing.
func PrintableHexDump(data []byte) string {
	return defaultDumper.PrintableHexDump(data)
}
