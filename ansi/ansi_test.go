package ansi

import "testing"

func TestSetPaletteOverridesValues(t *testing.T) {
	original := Snapshot()
	t.Cleanup(func() {
		SetPalette(original)
	})

	SetPalette(Palette{
		Key:     "KEY",
		String:  "STR",
		Num:     "NUM",
		Target:  "TGT",
		Message: "MSG",
	})

	if Key != "KEY" || String != "STR" || Num != "NUM" {
		t.Fatalf("palette not applied: %q %q %q", Key, String, Num)
	}
	if Target != "TGT" || Message != "MSG" {
		t.Fatalf("record roles not applied")
	}
	if Info != original.Info || Timestamp != original.Timestamp {
		t.Fatalf("empty entries must keep the current value")
	}
}

func TestPaletteMerge(t *testing.T) {
	merged := Palette{Info: "X"}.Merge(PaletteDefault)
	if merged.Info != "X" {
		t.Fatalf("explicit entry lost")
	}
	if merged.Error != PaletteDefault.Error || merged.Source != PaletteDefault.Source {
		t.Fatalf("empty entries not filled from base")
	}
}

func TestPaletteByName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		want *Palette
	}{
		{"default", &PaletteDefault},
		{"", &PaletteDefault},
		{"nord", &PaletteNord},
		{"Tokyo Night", &PaletteTokyoNight},
		{"tokyonight", &PaletteTokyoNight},
		{"PaletteDracula", &PaletteDracula},
		{"palette-gruvbox", &PaletteGruvbox},
		{"solarized_dark", &PaletteSolarizedDark},
		{"synthwave", &PaletteSynthwave84},
		{"mono", &PaletteMonochrome},
		{"does-not-exist", &PaletteDefault},
	}
	for _, tc := range cases {
		if got := PaletteByName(tc.name); got != tc.want {
			t.Fatalf("PaletteByName(%q) resolved to the wrong palette", tc.name)
		}
	}
}

func TestAvailablePaletteNames(t *testing.T) {
	t.Parallel()

	names := AvailablePaletteNames()
	if len(names) != len(namedPalettes) {
		t.Fatalf("got %d names, want %d", len(names), len(namedPalettes))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Fatalf("names not sorted: %v", names)
		}
	}
	for _, name := range names {
		if PaletteByName(name) != namedPalettes[name] {
			t.Fatalf("canonical name %q does not resolve to itself", name)
		}
	}
}

func TestPalettesDefineEveryRole(t *testing.T) {
	t.Parallel()

	fill := Palette{
		Key: "?", String: "?", Num: "?", Bool: "?", Nil: "?",
		Trace: "?", Debug: "?", Info: "?", Warn: "?", Error: "?",
		Timestamp: "?", Target: "?", Source: "?", Message: "?",
	}
	for _, name := range AvailablePaletteNames() {
		p := *PaletteByName(name)
		if p.Merge(fill) != p {
			t.Fatalf("palette %q leaves a role empty", name)
		}
	}
}
