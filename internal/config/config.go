package config

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/example/sketchboard/internal/brush"
	"github.com/example/sketchboard/internal/theme"
)

// Canvas holds the drawing surface settings. Colours come from the theme.
type Canvas struct {
	Width        int
	Height       int
	Grid         bool
	GridPitch    int
	HistoryLimit int // 0 keeps every undo step
}

// Generator selects and configures the image generation backend.
type Generator struct {
	Backend  string // "remote" or "lightx"
	Endpoint string // remote /generate URL
	APIKey   string // LightX key; LIGHTX_API_KEY overrides
	Strength float64
	Timeout  time.Duration
}

// Notify holds notification settings.
type Notify struct {
	Generate bool
	Save     bool
	Copy     bool
}

// Config holds the application configuration.
type Config struct {
	Theme     string
	SaveDir   string
	Canvas    Canvas
	Brush     brush.Config
	Generator Generator
	Notify    Notify
	Themes    map[string]*theme.Theme
}

// Backends understood by the generator section.
const (
	BackendRemote = "remote"
	BackendLightX = "lightx"
)

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Theme: "", // empty lets the env var or the built-in default apply
		Canvas: Canvas{
			Width:     800,
			Height:    600,
			Grid:      true,
			GridPitch: 20,
		},
		Brush: brush.DefaultConfig(),
		Generator: Generator{
			Backend:  BackendRemote,
			Endpoint: "http://127.0.0.1:5000/generate",
			Strength: 0.5,
			Timeout:  2 * time.Minute,
		},
		Themes: make(map[string]*theme.Theme),
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	sb.WriteString("\n")

	sb.WriteString("[canvas]\n")
	fmt.Fprintf(&sb, "width = %d\n", c.Canvas.Width)
	fmt.Fprintf(&sb, "height = %d\n", c.Canvas.Height)
	fmt.Fprintf(&sb, "grid = %v\n", c.Canvas.Grid)
	fmt.Fprintf(&sb, "grid_pitch = %d\n", c.Canvas.GridPitch)
	fmt.Fprintf(&sb, "history_limit = %d\n", c.Canvas.HistoryLimit)
	sb.WriteString("\n")

	sb.WriteString("[brush]\n")
	fmt.Fprintf(&sb, "size = %v\n", c.Brush.Size)
	fmt.Fprintf(&sb, "color = %s\n", brush.FormatColor(c.Brush.Color))
	fmt.Fprintf(&sb, "opacity = %d\n", c.Brush.Opacity)
	fmt.Fprintf(&sb, "tip = %s\n", c.Brush.Tip)
	fmt.Fprintf(&sb, "pressure = %v\n", c.Brush.Pressure)
	sb.WriteString("\n")

	sb.WriteString("[generator]\n")
	fmt.Fprintf(&sb, "backend = %s\n", c.Generator.Backend)
	if c.Generator.Endpoint != "" {
		fmt.Fprintf(&sb, "endpoint = %s\n", c.Generator.Endpoint)
	}
	if c.Generator.APIKey != "" {
		fmt.Fprintf(&sb, "api_key = %s\n", c.Generator.APIKey)
	}
	fmt.Fprintf(&sb, "strength = %v\n", c.Generator.Strength)
	fmt.Fprintf(&sb, "timeout = %s\n", c.Generator.Timeout)
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "generate = %v\n", c.Notify.Generate)
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		t := c.Themes[name]
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		fmt.Fprintf(&sb, "Name: %s\n", t.Name)
		for _, f := range theme.Fields(t) {
			fmt.Fprintf(&sb, "%s: %s\n", f.Name, theme.Hex(f.Color))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
