package theme

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseOverridesDefaults(t *testing.T) {
	input := `
# comment
Name: Paper
GridLine: #C8C8C8
CanvasBackground: #FFFDF0
Unknown: #000000
`
	th, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if th.Name != "Paper" {
		t.Errorf("Name = %q, want Paper", th.Name)
	}
	if want := (color.RGBA{0xC8, 0xC8, 0xC8, 0xFF}); th.GridLine != want {
		t.Errorf("GridLine = %+v, want %+v", th.GridLine, want)
	}
	if want := (color.RGBA{0xFF, 0xFD, 0xF0, 0xFF}); th.CanvasBackground != want {
		t.Errorf("CanvasBackground = %+v, want %+v", th.CanvasBackground, want)
	}
	if th.ButtonText != Default().ButtonText {
		t.Errorf("unset field should keep default")
	}
}

func TestParseRejectsBadColor(t *testing.T) {
	if _, err := Parse(strings.NewReader("GridLine: F0F0F0")); err == nil {
		t.Fatal("expected error for colour without #")
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.RGBA
		wantErr bool
	}{
		{"#102030", color.RGBA{0x10, 0x20, 0x30, 0xFF}, false},
		{"#10203040", color.RGBA{0x10, 0x20, 0x30, 0x40}, false},
		{"#123", color.RGBA{}, true},
		{"#GGGGGG", color.RGBA{}, true},
	}
	for _, tc := range tests {
		got, err := ParseColor(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseColor(%q) err = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseColor(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
}

func TestHexRoundTrip(t *testing.T) {
	for _, c := range []color.RGBA{{1, 2, 3, 255}, {0xAA, 0xBB, 0xCC, 0x80}} {
		got, err := ParseColor(Hex(c))
		if err != nil || got != c {
			t.Errorf("round trip of %+v: got %+v, err %v", c, got, err)
		}
	}
}

func TestLoaderEmbedded(t *testing.T) {
	l := &Loader{}
	th, err := l.Load("dark")
	if err != nil {
		t.Fatalf("Load(dark): %v", err)
	}
	if th.Name != "Dark" {
		t.Errorf("Name = %q, want Dark", th.Name)
	}
}

func TestLoaderConfigDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "sepia.theme"), []byte("Name: Sepia\nCanvasBackground: #F4ECD8\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	l := &Loader{ConfigDir: dir}
	th, err := l.Load("sepia")
	if err != nil {
		t.Fatalf("Load(sepia): %v", err)
	}
	if th.CanvasBackground != (color.RGBA{0xF4, 0xEC, 0xD8, 0xFF}) {
		t.Errorf("unexpected CanvasBackground %+v", th.CanvasBackground)
	}
	if _, err := l.Load("missing"); err == nil {
		t.Error("expected error for unknown theme")
	}
}
