package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/example/sketchboard/internal/brush"
	"github.com/example/sketchboard/internal/theme"
)

// Parse reads configuration from an io.Reader.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	var currentSection string
	var currentTheme *theme.Theme

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			currentSection = strings.TrimSuffix(strings.TrimPrefix(line, "["), "]")
			currentTheme = nil

			if strings.HasPrefix(currentSection, "theme.") {
				themeName := strings.TrimPrefix(currentSection, "theme.")
				// Start with defaults so missing keys are fine
				currentTheme = theme.Default()
				currentTheme.Name = themeName
				cfg.Themes[themeName] = currentTheme
			}
			continue
		}

		// Key = Value or Key: Value. Colour values contain neither.
		var parts []string
		if strings.Contains(line, "=") {
			parts = strings.SplitN(line, "=", 2)
		} else if strings.Contains(line, ":") {
			parts = strings.SplitN(line, ":", 2)
		} else {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") && len(value) >= 2 {
			value = value[1 : len(value)-1]
		}

		var err error
		switch {
		case currentTheme != nil:
			err = theme.SetField(currentTheme, key, value)
		case currentSection == "canvas":
			err = setCanvasField(&cfg.Canvas, key, value)
		case currentSection == "brush":
			err = setBrushField(&cfg.Brush, key, value)
		case currentSection == "generator":
			err = setGeneratorField(&cfg.Generator, key, value)
		case currentSection == "notify":
			err = setNotifyField(&cfg.Notify, key, value)
		case currentSection == "":
			err = setRootField(cfg, key, value)
		}
		if err != nil {
			if currentSection == "" {
				return nil, fmt.Errorf("error in root section: %w", err)
			}
			return nil, fmt.Errorf("error in section [%s]: %w", currentSection, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if err := cfg.Brush.Validate(); err != nil {
		return nil, fmt.Errorf("error in section [brush]: %w", err)
	}
	return cfg, nil
}

func setRootField(cfg *Config, key, value string) error {
	switch strings.ToLower(key) {
	case "theme":
		cfg.Theme = value
	case "save_dir":
		cfg.SaveDir = value
	}
	return nil
}

func setCanvasField(c *Canvas, key, value string) error {
	var err error
	switch strings.ToLower(key) {
	case "width":
		c.Width, err = parsePositive(key, value)
	case "height":
		c.Height, err = parsePositive(key, value)
	case "grid_pitch":
		c.GridPitch, err = parsePositive(key, value)
	case "history_limit":
		c.HistoryLimit, err = strconv.Atoi(value)
		if err != nil {
			err = fmt.Errorf("invalid integer for key %s: %w", key, err)
		}
	case "grid":
		c.Grid, err = parseBool(key, value)
	}
	return err
}

func setBrushField(b *brush.Config, key, value string) error {
	var err error
	switch strings.ToLower(key) {
	case "size":
		b.Size, err = parseFloat(key, value)
	case "pressure":
		b.Pressure, err = parseFloat(key, value)
	case "opacity":
		b.Opacity, err = strconv.Atoi(value)
		if err != nil {
			err = fmt.Errorf("invalid integer for key %s: %w", key, err)
		}
	case "color":
		b.Color, err = brush.ParseColor(value)
	case "tip", "type":
		b.Tip, err = brush.ParseTip(value)
	}
	return err
}

func setGeneratorField(g *Generator, key, value string) error {
	var err error
	switch strings.ToLower(key) {
	case "backend":
		v := strings.ToLower(value)
		if v != BackendRemote && v != BackendLightX {
			return fmt.Errorf("unknown generator backend %q", value)
		}
		g.Backend = v
	case "endpoint":
		g.Endpoint = value
	case "api_key":
		g.APIKey = value
	case "strength":
		g.Strength, err = parseFloat(key, value)
		if err == nil && (g.Strength < 0 || g.Strength > 1) {
			err = fmt.Errorf("strength must be between 0 and 1")
		}
	case "timeout":
		g.Timeout, err = time.ParseDuration(value)
		if err != nil {
			err = fmt.Errorf("invalid duration for key %s: %w", key, err)
		}
	}
	return err
}

func setNotifyField(n *Notify, key, value string) error {
	b, err := parseBool(key, value)
	if err != nil {
		return err
	}
	switch strings.ToLower(key) {
	case "generate":
		n.Generate = b
	case "save":
		n.Save = b
	case "copy":
		n.Copy = b
	}
	return nil
}

func parseBool(key, value string) (bool, error) {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	return b, nil
}

func parseFloat(key, value string) (float64, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number for key %s: %w", key, err)
	}
	return f, nil
}

func parsePositive(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid integer for key %s: %w", key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return n, nil
}
