package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/safetable/safetable/internal/logger"
	"github.com/safetable/safetable/internal/service"
	"github.com/safetable/safetable/internal/wiring"
	"github.com/safetable/safetable/pkg/config"
	"github.com/safetable/safetable/pkg/surface"
)

// app carries the state shared by every subcommand.
type app struct {
	configPath string
	logLevel   string
	output     string

	cfg *config.Config
	env *config.Env
	log zerolog.Logger
}

func (a *app) init() error {
	env, err := config.LoadEnv()
	if err != nil {
		return err
	}
	a.env = env
	a.log = logger.NewConsole("safetable", firstNonEmpty(a.logLevel, env.LogLevel, "warn"))

	path := firstNonEmpty(a.configPath, env.ConfigPath)
	if path == "" {
		if wd, err := os.Getwd(); err == nil {
			path = config.FindConfigFile(wd)
		}
	}
	if path == "" {
		a.cfg = config.DefaultConfig()
		return nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	a.log.Debug().Str("path", path).Msg("config loaded")
	a.cfg = cfg
	return nil
}

// service builds the service; the returned func releases its resources.
func (a *app) service(ctx context.Context) (*service.Service, func(), error) {
	built, err := wiring.Build(ctx, a.cfg, a.env, a.log)
	if err != nil {
		return nil, nil, err
	}
	return built.Service, func() {
		if err := built.Close(); err != nil {
			a.log.Warn().Err(err).Msg("close")
		}
	}, nil
}

func (a *app) renderer() (surface.Renderer, error) {
	return surface.New(a.output)
}

// reportError prints err for a person. Candidates of an ambiguous lookup are
// listed so the user can retry with a full name.
func reportError(w io.Writer, err error) {
	var se *service.Error
	if !errors.As(err, &se) {
		fmt.Fprintln(w, "error:", err)
		return
	}
	fmt.Fprintln(w, se.Message)
	for _, c := range se.Candidates {
		fmt.Fprintf(w, "  - %s (%s)\n", c.Name, c.Address)
	}
	if se.TotalCount > len(se.Candidates) {
		fmt.Fprintf(w, "  ... 외 %d곳\n", se.TotalCount-len(se.Candidates))
	}
}

// exitCode maps error kinds onto process exit codes.
func exitCode(err error) int {
	switch service.KindOf(err) {
	case service.KindNotFound, service.KindMultipleResults:
		return 2
	case service.KindInvalidQuery:
		return 64
	case service.KindAPI:
		return 69
	default:
		return 1
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
