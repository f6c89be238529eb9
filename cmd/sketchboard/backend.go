package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/example/sketchboard/internal/config"
	"github.com/example/sketchboard/internal/generate"
)

// backendFlags are shared by every command that talks to a generator.
type backendFlags struct {
	backend  string
	endpoint string
	apiKey   string
	strength float64
	timeout  time.Duration
}

func (b *backendFlags) register(fs *flag.FlagSet, cfg config.Generator) {
	fs.StringVar(&b.backend, "backend", cfg.Backend, "image generator: remote or lightx")
	fs.StringVar(&b.endpoint, "endpoint", cfg.Endpoint, "URL of a /generate endpoint (remote backend)")
	fs.StringVar(&b.apiKey, "api-key", "", "LightX API key (default $LIGHTX_API_KEY or the config value)")
	fs.Float64Var(&b.strength, "strength", cfg.Strength, "LightX strength between 0 and 1")
	fs.DurationVar(&b.timeout, "timeout", cfg.Timeout, "limit for a single generation")
}

// key resolves the LightX key: flag, then environment, then config.
func (b *backendFlags) key(cfg config.Generator) string {
	if b.apiKey != "" {
		return b.apiKey
	}
	if v := strings.TrimSpace(os.Getenv("LIGHTX_API_KEY")); v != "" {
		return v
	}
	return cfg.APIKey
}

func (b *backendFlags) generator(cfg config.Generator) (generate.Generator, error) {
	switch strings.ToLower(b.backend) {
	case config.BackendLightX:
		key := b.key(cfg)
		if key == "" {
			return nil, fmt.Errorf("the lightx backend needs an API key: set LIGHTX_API_KEY or use -api-key")
		}
		if b.strength < 0 || b.strength > 1 {
			return nil, fmt.Errorf("strength %v out of range [0,1]", b.strength)
		}
		return generate.NewLightX(key, generate.WithStrength(b.strength)), nil
	case config.BackendRemote, "":
		if b.endpoint == "" {
			return nil, fmt.Errorf("the remote backend needs -endpoint")
		}
		return generate.NewRemote(b.endpoint, nil, b.timeout), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", b.backend)
	}
}
