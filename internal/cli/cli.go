package cli

import (
	"fmt"
	"os"

	"github.com/vitaminmoo/hexpeek/internal/commands"
	"github.com/vitaminmoo/hexpeek/internal/config"
	"github.com/vitaminmoo/hexpeek/internal/preview"
	"github.com/vitaminmoo/hexpeek/internal/tui"
)

// CLI is the root command structure for hexpeek.
type CLI struct {
	Verbose bool   `short:"v" help:"Enable verbose debug output"`
	Config  string `type:"path" placeholder:"PATH" help:"Config file (default ~/.hexpeek/config.toml)"`

	// Default command - TUI
	Browse BrowseCmd `cmd:"" default:"withargs" help:"Browse files interactively (default)"`

	Classify ClassifyCmd `cmd:"" help:"Report whether files look like binary or text"`
	Hex      HexCmd      `cmd:"" help:"Print a range of a file as a hex string"`
	Dump     DumpCmd     `cmd:"" help:"Print a hex dump of a file"`
	View     ViewCmd     `cmd:"" help:"Print a file as text, or as a hex dump if it is binary"`
	Sum      SumCmd      `cmd:"" help:"Print a checksum of a file"`
	History  HistoryCmd  `cmd:"" help:"Inspection history"`
	Settings SettingsCmd `cmd:"" name:"config" help:"Configuration"`
}

// load applies the global flags and reads the configuration.
func (c *CLI) load() (config.Config, error) {
	config.SetVerbose(c.Verbose)

	if c.Config == "" {
		return config.LoadDefault()
	}
	return config.Load(c.Config)
}

// CaseFlags selects the hex alphabet for a single command.
type CaseFlags struct {
	Upper bool `xor:"case" help:"Use uppercase hex digits"`
	Lower bool `xor:"case" help:"Use lowercase hex digits"`
}

func (f CaseFlags) upper(cfg config.Config) bool {
	switch {
	case f.Upper:
		return true
	case f.Lower:
		return false
	}
	return !cfg.Lowercase
}

// --- TUI Command ---

type BrowseCmd struct {
	Dir string `arg:"" optional:"" type:"existingdir" help:"Directory to start in (default: current directory)"`
}

func (c *BrowseCmd) Run(globals *CLI) error {
	cfg, err := globals.load()
	if err != nil {
		return err
	}
	return tui.Run(cfg, c.Dir)
}

// --- Inspection Commands ---

type ClassifyCmd struct {
	Files []string `arg:"" type:"existingfile" help:"Files to classify"`
	Quiet bool     `short:"q" help:"Print only binary or text"`
}

func (c *ClassifyCmd) Run(globals *CLI) error {
	cfg, err := globals.load()
	if err != nil {
		return err
	}
	return commands.Classify(os.Stdout, cfg, c.Files, c.Quiet)
}

type HexCmd struct {
	File   string `arg:"" type:"existingfile" help:"File to read"`
	Offset int    `short:"o" default:"0" help:"First byte to print"`
	Length int    `short:"n" default:"-1" help:"Number of bytes to print (default: to the end of the preview)"`
	CaseFlags `embed:""`
}

func (c *HexCmd) Run(globals *CLI) error {
	cfg, err := globals.load()
	if err != nil {
		return err
	}
	return commands.Hex(os.Stdout, cfg, c.File, c.Offset, c.Length, c.upper(cfg))
}

type DumpCmd struct {
	File string `arg:"" type:"existingfile" help:"File to dump"`
	Raw  bool   `help:"Do not replace non-printable characters"`
}

func (c *DumpCmd) Run(globals *CLI) error {
	cfg, err := globals.load()
	if err != nil {
		return err
	}
	return commands.Dump(os.Stdout, cfg, c.File, c.Raw)
}

type ViewCmd struct {
	File string `arg:"" type:"existingfile" help:"File to view"`
	Hex  bool   `xor:"mode" help:"Always show a hex dump"`
	Text bool   `xor:"mode" help:"Always show text; binary files are refused"`
}

func (c *ViewCmd) Run(globals *CLI) error {
	cfg, err := globals.load()
	if err != nil {
		return err
	}

	mode := preview.ModeAuto
	switch {
	case c.Hex:
		mode = preview.ModeHex
	case c.Text:
		mode = preview.ModeText
	}
	return commands.View(os.Stdout, cfg, c.File, mode, commands.StdoutIsTerminal())
}

type SumCmd struct {
	File  string `arg:"" type:"existingfile" help:"File to hash"`
	Algo  string `short:"a" default:"sha256" enum:"sha256,sha1,md5" help:"Checksum algorithm (${enum})"`
	Upper bool   `help:"Use uppercase hex digits"`
}

func (c *SumCmd) Run(globals *CLI) error {
	if _, err := globals.load(); err != nil {
		return err
	}
	// Checksums are lowercase unless asked otherwise, like sha256sum.
	return commands.Sum(os.Stdout, c.File, c.Algo, c.Upper)
}

// --- History Commands ---

type HistoryCmd struct {
	List  HistoryListCmd  `cmd:"" default:"1" help:"List inspected files"`
	Show  HistoryShowCmd  `cmd:"" help:"Show details of an inspected file"`
	Clear HistoryClearCmd `cmd:"" help:"Forget all inspected files"`
}

type HistoryListCmd struct{}

func (c *HistoryListCmd) Run(globals *CLI) error {
	cfg, err := globals.load()
	if err != nil {
		return err
	}
	return commands.HistoryList(os.Stdout, cfg)
}

type HistoryShowCmd struct {
	Hash string `arg:"" help:"Content hash (full or short)"`
}

func (c *HistoryShowCmd) Run(globals *CLI) error {
	cfg, err := globals.load()
	if err != nil {
		return err
	}
	return commands.HistoryShow(os.Stdout, cfg, c.Hash)
}

type HistoryClearCmd struct{}

func (c *HistoryClearCmd) Run(globals *CLI) error {
	cfg, err := globals.load()
	if err != nil {
		return err
	}
	return commands.HistoryClear(os.Stdout, cfg)
}

// --- Config Commands ---

type SettingsCmd struct {
	Show SettingsShowCmd `cmd:"" default:"1" help:"Print the effective configuration"`
	Path SettingsPathCmd `cmd:"" help:"Print the config file path"`
}

type SettingsShowCmd struct{}

func (c *SettingsShowCmd) Run(globals *CLI) error {
	cfg, err := globals.load()
	if err != nil {
		return err
	}
	return commands.ConfigShow(os.Stdout, cfg)
}

type SettingsPathCmd struct{}

func (c *SettingsPathCmd) Run(globals *CLI) error {
	path := globals.Config
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return err
		}
	}
	fmt.Println(path)
	return nil
}
