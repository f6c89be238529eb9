package main

import (
	"flag"
	"fmt"

	"github.com/example/sketchboard/internal/brush"
	"github.com/example/sketchboard/internal/export"
	"github.com/example/sketchboard/internal/history"
	"github.com/example/sketchboard/internal/session"
	"github.com/example/sketchboard/internal/stroke"
	"github.com/example/sketchboard/internal/surface"
	"github.com/example/sketchboard/internal/ui"
)

// drawCmd opens the drawing window.
type drawCmd struct {
	*root
	fs *flag.FlagSet

	width, height int
	grid          bool
	gridPitch     int
	historyLimit  int
	size          float64
	colorSpec     string
	tipName       string
	opacity       int
	saveDir       string
	offline       bool
	backendFlags
}

func (d *drawCmd) Program() string        { return d.root.subcommand("draw") }
func (d *drawCmd) FlagSet() *flag.FlagSet { return d.fs }

func parseDrawCmd(args []string, r *root) (*drawCmd, error) {
	cfg := r.config
	d := &drawCmd{root: r, fs: flag.NewFlagSet("draw", flag.ContinueOnError)}
	d.fs.IntVar(&d.width, "width", cfg.Canvas.Width, "canvas width in pixels")
	d.fs.IntVar(&d.height, "height", cfg.Canvas.Height, "canvas height in pixels")
	d.fs.BoolVar(&d.grid, "grid", cfg.Canvas.Grid, "start with the grid visible")
	d.fs.IntVar(&d.gridPitch, "grid-pitch", cfg.Canvas.GridPitch, "grid spacing in pixels")
	d.fs.IntVar(&d.historyLimit, "history", cfg.Canvas.HistoryLimit, "maximum undo steps (0 keeps all)")
	d.fs.Float64Var(&d.size, "size", cfg.Brush.Size, "brush size in pixels")
	d.fs.StringVar(&d.colorSpec, "color", brush.FormatColor(cfg.Brush.Color), "brush color (name or #RRGGBB)")
	d.fs.StringVar(&d.tipName, "tip", cfg.Brush.Tip.String(), "brush tip: round, square, texture, charcoal or watercolor")
	d.fs.IntVar(&d.opacity, "opacity", cfg.Brush.Opacity, "brush opacity 0-100")
	d.fs.StringVar(&d.saveDir, "save-dir", cfg.SaveDir, "directory for saved images (default ~/Pictures, else home)")
	d.fs.BoolVar(&d.offline, "offline", false, "disable image generation")
	d.backendFlags.register(d.fs, cfg.Generator)
	if err := parseFlags(d.fs, args, d); err != nil {
		return nil, err
	}
	if d.fs.NArg() > 0 {
		return nil, &UsageError{of: d}
	}
	return d, nil
}

func (d *drawCmd) brush() (brush.Config, error) {
	col, err := brush.ParseColor(d.colorSpec)
	if err != nil {
		return brush.Config{}, err
	}
	tip, err := brush.ParseTip(d.tipName)
	if err != nil {
		return brush.Config{}, err
	}
	cfg := d.config.Brush
	cfg.Size = d.size
	cfg.Color = col
	cfg.Tip = tip
	cfg.Opacity = d.opacity
	if err := cfg.Validate(); err != nil {
		return brush.Config{}, err
	}
	return cfg, nil
}

// newSession wires the drawing core for the window.
func (d *drawCmd) newSession() (*session.Session, error) {
	cfg, err := d.brush()
	if err != nil {
		return nil, err
	}
	th := d.activeTheme
	surf, err := surface.New(d.width, d.height,
		surface.WithBackground(th.CanvasBackground),
		surface.WithGridColor(th.GridLine),
		surface.WithGridPitch(d.gridPitch),
		surface.WithGrid(d.grid),
	)
	if err != nil {
		return nil, err
	}
	opts := []session.Option{session.WithBrush(cfg)}
	if !d.offline {
		gen, err := d.backendFlags.generator(d.config.Generator)
		if err != nil {
			return nil, fmt.Errorf("%w (use -offline to draw without generation)", err)
		}
		opts = append(opts, session.WithGenerator(gen))
	}
	return session.New(surf, brush.NewEngine(surf.Image()), stroke.NewRecorder(), history.New(d.historyLimit), opts...)
}

func (d *drawCmd) Run() error {
	sess, err := d.newSession()
	if err != nil {
		return err
	}
	saveDir := d.saveDir
	if saveDir == "" {
		saveDir = export.DefaultDir()
	}
	ui.New(sess,
		ui.WithTheme(d.activeTheme),
		ui.WithNotifier(d.notifier),
		ui.WithSaveDir(saveDir),
		ui.WithGenerateTimeout(d.timeout),
	).Run()
	return nil
}
