package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/example/sketchboard/internal/clipboard"
	"github.com/example/sketchboard/internal/export"
	"github.com/example/sketchboard/internal/generate"
	"github.com/example/sketchboard/internal/logging"
)

// generateCmd sends a saved sketch and a prompt to the generator without
// opening a window.
type generateCmd struct {
	*root
	fs *flag.FlagSet

	file   string
	prompt string
	output string
	copy   bool
	backendFlags

	gen generate.Generator
}

func (g *generateCmd) Program() string        { return g.root.subcommand("generate") }
func (g *generateCmd) FlagSet() *flag.FlagSet { return g.fs }

func parseGenerateCmd(args []string, r *root) (*generateCmd, error) {
	g := &generateCmd{root: r, fs: flag.NewFlagSet("generate", flag.ContinueOnError)}
	g.fs.StringVar(&g.file, "file", "", "PNG sketch to send")
	g.fs.StringVar(&g.prompt, "prompt", "", "description of the image to generate")
	g.fs.StringVar(&g.output, "output", "", "where to write the result (default "+export.GeneratedName+", - for stdout, .pdf for a PDF)")
	g.fs.BoolVar(&g.copy, "copy", false, "also copy the result to the clipboard")
	g.backendFlags.register(g.fs, r.config.Generator)
	if err := parseFlags(g.fs, args, g); err != nil {
		return nil, err
	}
	if g.prompt == "" && g.fs.NArg() > 0 {
		g.prompt = strings.Join(g.fs.Args(), " ")
	}
	if g.file == "" {
		return nil, errors.New("generate: -file is required")
	}
	if strings.TrimSpace(g.prompt) == "" {
		return nil, errors.New("generate: please enter a description with -prompt")
	}
	return g, nil
}

func (g *generateCmd) Run() error {
	data, err := os.ReadFile(g.file)
	if err != nil {
		return fmt.Errorf("read sketch: %w", err)
	}
	req, err := generate.Request{Prompt: g.prompt, Sketch: data}.Validate()
	if err != nil {
		return err
	}
	gen := g.gen
	if gen == nil {
		if gen, err = g.backendFlags.generator(g.config.Generator); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	res, err := gen.Generate(ctx, req)
	if err != nil {
		g.notifier.GenerateFailed(err.Error())
		return errors.New(generate.UserMessage(err))
	}
	g.notifier.Generated(req.Prompt, res.Image)

	path, err := g.write(res)
	if err != nil {
		return err
	}
	if path != "" {
		logging.Logger().Info("saved generated image", "path", path)
		g.notifier.Save(path)
		fmt.Fprintln(g.stderr, path)
	}
	if g.copy {
		if err := clipboard.WriteImage(res.Image); err != nil {
			return fmt.Errorf("copy: %w", err)
		}
		g.notifier.Copy("generated image")
	}
	return nil
}

// write stores res according to -output and returns the path written, or ""
// for stdout.
func (g *generateCmd) write(res *generate.Result) (string, error) {
	switch {
	case g.output == "-":
		if strings.Contains(res.ContentType, "png") && len(res.Data) > 0 {
			_, err := g.stdout.Write(res.Data)
			return "", err
		}
		return "", export.WritePNG(g.stdout, res.Image)
	case g.output == "":
		return export.DownloadGenerated(".", res)
	case strings.EqualFold(filepath.Ext(g.output), ".pdf"):
		return g.output, export.SavePDF(g.output, res.Image)
	default:
		return g.output, export.SavePNG(g.output, res.Image)
	}
}
