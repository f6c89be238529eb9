package config

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/example/sketchboard/internal/brush"
)

func TestParse(t *testing.T) {
	input := `
theme = my_custom_theme
save_dir = /tmp/sketches

[canvas]
width = 640
height = 480
grid = false
grid_pitch = 25
history_limit = 50

[brush]
size = 12
color = navy
opacity = 70
tip = charcoal

[generator]
backend = lightx
api_key = "secret"
timeout = 45s

[notify]
generate = true
save = false
copy = true

[theme.my_custom_theme]
Background = #111111
GridLine = #222222
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Theme != "my_custom_theme" {
		t.Errorf("Expected theme 'my_custom_theme', got '%s'", cfg.Theme)
	}
	if cfg.SaveDir != "/tmp/sketches" {
		t.Errorf("Expected save_dir '/tmp/sketches', got '%s'", cfg.SaveDir)
	}
	if cfg.Canvas.Width != 640 || cfg.Canvas.Height != 480 || cfg.Canvas.Grid || cfg.Canvas.GridPitch != 25 {
		t.Errorf("unexpected canvas %+v", cfg.Canvas)
	}
	if cfg.Canvas.HistoryLimit != 50 {
		t.Errorf("history_limit = %d", cfg.Canvas.HistoryLimit)
	}
	if cfg.Brush.Size != 12 || cfg.Brush.Opacity != 70 || cfg.Brush.Tip != brush.Charcoal {
		t.Errorf("unexpected brush %+v", cfg.Brush)
	}
	if cfg.Brush.Color != (color.RGBA{0, 0, 128, 255}) {
		t.Errorf("brush colour = %+v", cfg.Brush.Color)
	}
	if cfg.Generator.Backend != BackendLightX || cfg.Generator.APIKey != "secret" || cfg.Generator.Timeout != 45*time.Second {
		t.Errorf("unexpected generator %+v", cfg.Generator)
	}
	if !cfg.Notify.Generate || cfg.Notify.Save || !cfg.Notify.Copy {
		t.Errorf("unexpected notify %+v", cfg.Notify)
	}

	th, ok := cfg.Themes["my_custom_theme"]
	if !ok {
		t.Fatal("Expected theme 'my_custom_theme' to be loaded")
	}
	if th.Background.R != 0x11 || th.GridLine.R != 0x22 {
		t.Errorf("Unexpected theme colours: %+v %+v", th.Background, th.GridLine)
	}
}

func TestParseErrors(t *testing.T) {
	tests := map[string]string{
		"bad bool":     "[notify]\nsave = maybe\n",
		"bad width":    "[canvas]\nwidth = -4\n",
		"bad tip":      "[brush]\ntip = airbrush\n",
		"bad size":     "[brush]\nsize = 0\n",
		"bad backend":  "[generator]\nbackend = dalle\n",
		"bad strength": "[generator]\nstrength = 3\n",
		"bad colour":   "[theme.x]\nGridLine = 123456\n",
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(input)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestCircular(t *testing.T) {
	input := `theme = dark
save_dir = /home/user/sketches

[canvas]
width = 1024
grid = false

[brush]
size = 3.5
color = #ff000080
tip = watercolor
pressure = 1.2

[generator]
endpoint = http://example.test/generate
strength = 0.7

[notify]
generate = true
save = true
copy = false

[theme.custom]
Name = custom
Background = #000000
Foreground = #FFFFFF
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Initial parse failed: %v", err)
	}

	generated := cfg.String()

	cfg2, err := Parse(strings.NewReader(generated))
	if err != nil {
		t.Fatalf("Circular parse failed: %v\n%s", err, generated)
	}

	if cfg.Theme != cfg2.Theme {
		t.Errorf("Theme mismatch: %q vs %q", cfg.Theme, cfg2.Theme)
	}
	if cfg.SaveDir != cfg2.SaveDir {
		t.Errorf("SaveDir mismatch: %q vs %q", cfg.SaveDir, cfg2.SaveDir)
	}
	if cfg.Canvas != cfg2.Canvas {
		t.Errorf("Canvas mismatch: %+v vs %+v", cfg.Canvas, cfg2.Canvas)
	}
	if cfg.Brush != cfg2.Brush {
		t.Errorf("Brush mismatch: %+v vs %+v", cfg.Brush, cfg2.Brush)
	}
	if cfg.Generator != cfg2.Generator {
		t.Errorf("Generator mismatch: %+v vs %+v", cfg.Generator, cfg2.Generator)
	}
	if cfg.Notify != cfg2.Notify {
		t.Errorf("Notify mismatch: %+v vs %+v", cfg.Notify, cfg2.Notify)
	}

	t1 := cfg.Themes["custom"]
	t2 := cfg2.Themes["custom"]
	if t1 == nil || t2 == nil {
		t.Fatalf("Custom theme missing in one config")
	}
	if *t1 != *t2 {
		t.Errorf("Theme mismatch: %+v vs %+v", t1, t2)
	}
}

func TestLoaderOverridePath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.rc")
	if err := os.WriteFile(path, []byte("theme = dark\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	l := NewLoader("1.0.0", path)
	if got := l.GetConfigPath(); got != path {
		t.Fatalf("GetConfigPath = %q, want %q", got, path)
	}
	cfg, err := l.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Theme != "dark" {
		t.Errorf("Theme = %q", cfg.Theme)
	}
}
