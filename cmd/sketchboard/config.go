package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/example/sketchboard/internal/config"
)

type configCmd struct {
	*root
	fs *flag.FlagSet
}

func (c *configCmd) Program() string        { return c.root.subcommand("config") }
func (c *configCmd) FlagSet() *flag.FlagSet { return c.fs }

// parseFlags parses args into fs, turning -h into a rendered usage error.
func parseFlags(fs *flag.FlagSet, args []string, h HelpData) error {
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return &UsageError{of: h}
		}
		return fmt.Errorf("%s: %w", h.Program(), err)
	}
	return nil
}

func parseConfigCmd(args []string, r *root) (*configCmd, error) {
	c := &configCmd{root: r, fs: flag.NewFlagSet("config", flag.ContinueOnError)}
	if err := parseFlags(c.fs, args, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *configCmd) Run() error {
	args := c.fs.Args()
	if len(args) < 1 {
		return &UsageError{of: c}
	}
	switch args[0] {
	case "print":
		return c.runPrint()
	case "save":
		return c.runSave()
	case "path":
		return c.runPath()
	default:
		return fmt.Errorf("unknown config command: %s", args[0])
	}
}

func (c *configCmd) runPrint() error {
	_, err := io.WriteString(c.stdout, c.config.String())
	return err
}

func (c *configCmd) configPath() string {
	if path := config.NewLoader(version, configPathOverride).GetConfigPath(); path != "" {
		return path
	}
	if configPathOverride != "" {
		return configPathOverride
	}
	return config.DefaultPath()
}

func (c *configCmd) runPath() error {
	fmt.Fprintln(c.stdout, c.configPath())
	return nil
}

func (c *configCmd) runSave() error {
	path := c.configPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file %s: %w", path, err)
	}
	if _, err := f.WriteString(c.config.String()); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	fmt.Fprintf(c.stderr, "Configuration saved to %s\n", path)
	return nil
}
