// Package ansi provides the ANSI escape sequences and palettes the render
// package uses when it prints decoded records to a terminal. The package
// level variables hold the active palette; SetPalette swaps them and
// Snapshot captures them so tests can restore the previous state.
package ansi

import "sync"

// Reset clears all terminal styling; the other constants are the basic
// 16-colour sequences most palettes are built from.
const (
	Reset         = "\x1b[0m"
	Bold          = "\x1b[1m"
	Faint         = "\x1b[90m"
	Red           = "\x1b[31m"
	Green         = "\x1b[32m"
	Yellow        = "\x1b[33m"
	Blue          = "\x1b[34m"
	Magenta       = "\x1b[35m"
	Cyan          = "\x1b[36m"
	Gray          = "\x1b[37m"
	BrightRed     = "\x1b[1;31m"
	BrightGreen   = "\x1b[1;32m"
	BrightYellow  = "\x1b[1;33m"
	BrightBlue    = "\x1b[1;34m"
	BrightMagenta = "\x1b[1;35m"
	BrightCyan    = "\x1b[1;36m"
	BrightWhite   = "\x1b[1;37m"
)

// Active colours by role.
var (
	Key       = Cyan
	String    = BrightBlue
	Num       = Magenta
	Bool      = Yellow
	Nil       = Faint
	Trace     = Blue
	Debug     = Green
	Info      = BrightGreen
	Warn      = BrightYellow
	Error     = BrightRed
	Timestamp = Faint
	Target    = BrightMagenta
	Source    = Faint
	Message   = Bold
)

var paletteMu sync.RWMutex

// Palette assigns an escape sequence to every role. Empty entries keep the
// current value when passed to SetPalette.
type Palette struct {
	Key       string
	String    string
	Num       string
	Bool      string
	Nil       string
	Trace     string
	Debug     string
	Info      string
	Warn      string
	Error     string
	Timestamp string
	Target    string
	Source    string
	Message   string
}

// SetPalette replaces the active colours.
//
//	snap := ansi.Snapshot()
//	defer ansi.SetPalette(snap)
//	ansi.SetPalette(ansi.PaletteNord)
func SetPalette(palette Palette) {
	paletteMu.Lock()
	defer paletteMu.Unlock()

	current := snapshotLocked()
	Key = pick(palette.Key, current.Key)
	String = pick(palette.String, current.String)
	Num = pick(palette.Num, current.Num)
	Bool = pick(palette.Bool, current.Bool)
	Nil = pick(palette.Nil, current.Nil)
	Trace = pick(palette.Trace, current.Trace)
	Debug = pick(palette.Debug, current.Debug)
	Info = pick(palette.Info, current.Info)
	Warn = pick(palette.Warn, current.Warn)
	Error = pick(palette.Error, current.Error)
	Timestamp = pick(palette.Timestamp, current.Timestamp)
	Target = pick(palette.Target, current.Target)
	Source = pick(palette.Source, current.Source)
	Message = pick(palette.Message, current.Message)
}

// Snapshot returns the active colours.
func Snapshot() Palette {
	paletteMu.RLock()
	defer paletteMu.RUnlock()
	return snapshotLocked()
}

func snapshotLocked() Palette {
	return Palette{
		Key:       Key,
		String:    String,
		Num:       Num,
		Bool:      Bool,
		Nil:       Nil,
		Trace:     Trace,
		Debug:     Debug,
		Info:      Info,
		Warn:      Warn,
		Error:     Error,
		Timestamp: Timestamp,
		Target:    Target,
		Source:    Source,
		Message:   Message,
	}
}

// Merge returns p with its empty entries filled from base.
func (p Palette) Merge(base Palette) Palette {
	return Palette{
		Key:       pick(p.Key, base.Key),
		String:    pick(p.String, base.String),
		Num:       pick(p.Num, base.Num),
		Bool:      pick(p.Bool, base.Bool),
		Nil:       pick(p.Nil, base.Nil),
		Trace:     pick(p.Trace, base.Trace),
		Debug:     pick(p.Debug, base.Debug),
		Info:      pick(p.Info, base.Info),
		Warn:      pick(p.Warn, base.Warn),
		Error:     pick(p.Error, base.Error),
		Timestamp: pick(p.Timestamp, base.Timestamp),
		Target:    pick(p.Target, base.Target),
		Source:    pick(p.Source, base.Source),
		Message:   pick(p.Message, base.Message),
	}
}

func pick(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
