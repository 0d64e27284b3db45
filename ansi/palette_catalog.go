package ansi

import (
	"sort"
	"strings"
)

func fg(code string) string {
	return "\x1b[38;5;" + code + "m"
}

func boldFg(code string) string {
	return "\x1b[1;38;5;" + code + "m"
}

// PaletteDefault is the 16-colour palette the package starts with.
var PaletteDefault = Palette{
	Key:       Cyan,
	String:    BrightBlue,
	Num:       Magenta,
	Bool:      Yellow,
	Nil:       Faint,
	Trace:     Blue,
	Debug:     Green,
	Info:      BrightGreen,
	Warn:      BrightYellow,
	Error:     BrightRed,
	Timestamp: Faint,
	Target:    BrightMagenta,
	Source:    Faint,
	Message:   Bold,
}

// PaletteMonochrome keeps emphasis but drops hue.
var PaletteMonochrome = Palette{
	Key:       Gray,
	String:    Gray,
	Num:       Gray,
	Bool:      Gray,
	Nil:       Faint,
	Trace:     Faint,
	Debug:     Gray,
	Info:      BrightWhite,
	Warn:      Bold,
	Error:     "\x1b[1;4;37m",
	Timestamp: Faint,
	Target:    BrightWhite,
	Source:    Faint,
	Message:   Bold,
}

// PaletteDracula follows the Dracula theme.
var PaletteDracula = Palette{
	Key:       fg("117"),
	String:    fg("228"),
	Num:       fg("141"),
	Bool:      fg("212"),
	Nil:       fg("61"),
	Trace:     fg("61"),
	Debug:     fg("84"),
	Info:      boldFg("84"),
	Warn:      boldFg("215"),
	Error:     boldFg("203"),
	Timestamp: fg("61"),
	Target:    boldFg("212"),
	Source:    fg("103"),
	Message:   boldFg("231"),
}

// PaletteNord follows the Nord theme.
var PaletteNord = Palette{
	Key:       fg("110"),
	String:    fg("150"),
	Num:       fg("139"),
	Bool:      fg("179"),
	Nil:       fg("60"),
	Trace:     fg("60"),
	Debug:     fg("109"),
	Info:      boldFg("110"),
	Warn:      boldFg("222"),
	Error:     boldFg("167"),
	Timestamp: fg("60"),
	Target:    boldFg("139"),
	Source:    fg("67"),
	Message:   boldFg("255"),
}

// PaletteGruvbox follows the dark Gruvbox theme.
var PaletteGruvbox = Palette{
	Key:       fg("108"),
	String:    fg("142"),
	Num:       fg("175"),
	Bool:      fg("214"),
	Nil:       fg("245"),
	Trace:     fg("245"),
	Debug:     fg("109"),
	Info:      boldFg("142"),
	Warn:      boldFg("214"),
	Error:     boldFg("167"),
	Timestamp: fg("243"),
	Target:    boldFg("208"),
	Source:    fg("246"),
	Message:   boldFg("223"),
}

// PaletteTokyoNight follows the Tokyo Night theme.
var PaletteTokyoNight = Palette{
	Key:       fg("111"),
	String:    fg("149"),
	Num:       fg("215"),
	Bool:      fg("141"),
	Nil:       fg("59"),
	Trace:     fg("60"),
	Debug:     fg("116"),
	Info:      boldFg("149"),
	Warn:      boldFg("221"),
	Error:     boldFg("204"),
	Timestamp: fg("60"),
	Target:    boldFg("177"),
	Source:    fg("103"),
	Message:   boldFg("189"),
}

// PaletteSolarizedDark follows the dark Solarized theme.
var PaletteSolarizedDark = Palette{
	Key:       fg("37"),
	String:    fg("64"),
	Num:       fg("125"),
	Bool:      fg("136"),
	Nil:       fg("240"),
	Trace:     fg("240"),
	Debug:     fg("33"),
	Info:      boldFg("64"),
	Warn:      boldFg("136"),
	Error:     boldFg("160"),
	Timestamp: fg("241"),
	Target:    boldFg("61"),
	Source:    fg("245"),
	Message:   boldFg("254"),
}

// PaletteSynthwave84 follows the Synthwave '84 theme.
var PaletteSynthwave84 = Palette{
	Key:       fg("51"),
	String:    fg("213"),
	Num:       fg("221"),
	Bool:      fg("207"),
	Nil:       fg("97"),
	Trace:     fg("97"),
	Debug:     fg("45"),
	Info:      boldFg("87"),
	Warn:      boldFg("220"),
	Error:     boldFg("197"),
	Timestamp: fg("98"),
	Target:    boldFg("201"),
	Source:    fg("140"),
	Message:   boldFg("231"),
}

var namedPalettes = map[string]*Palette{
	"default":        &PaletteDefault,
	"monochrome":     &PaletteMonochrome,
	"dracula":        &PaletteDracula,
	"nord":           &PaletteNord,
	"gruvbox":        &PaletteGruvbox,
	"tokyo-night":    &PaletteTokyoNight,
	"solarized-dark": &PaletteSolarizedDark,
	"synthwave-84":   &PaletteSynthwave84,
}

var paletteAliases = map[string]string{
	"mono":          "monochrome",
	"tokyonight":    "tokyo-night",
	"solarizeddark": "solarized-dark",
	"solarized":     "solarized-dark",
	"synthwave84":   "synthwave-84",
	"synthwave":     "synthwave-84",
}

// PaletteByName resolves a built-in palette. Names are case-insensitive,
// accept underscores or spaces for dashes and an optional "palette" prefix.
// Unknown names resolve to PaletteDefault.
func PaletteByName(name string) *Palette {
	normalized := normalizePaletteName(name)
	if canonical, ok := paletteAliases[normalized]; ok {
		normalized = canonical
	}
	if palette, ok := namedPalettes[normalized]; ok {
		return palette
	}
	return &PaletteDefault
}

// AvailablePaletteNames returns the canonical palette names in sorted order.
func AvailablePaletteNames() []string {
	names := make([]string, 0, len(namedPalettes))
	for name := range namedPalettes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalizePaletteName(name string) string {
	s := strings.TrimSpace(strings.ToLower(name))
	s = strings.ReplaceAll(s, "_", "-")
	s = strings.ReplaceAll(s, " ", "-")
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	s = strings.TrimPrefix(s, "palette")
	return strings.Trim(s, "-")
}
