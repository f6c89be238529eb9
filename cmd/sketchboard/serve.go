package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/sketchboard/internal/config"
	"github.com/example/sketchboard/internal/generate"
	"github.com/example/sketchboard/internal/logging"
)

// serveCmd runs the /generate endpoint that the remote backend talks to.
type serveCmd struct {
	*root
	fs   *flag.FlagSet
	addr string
	backendFlags

	gen generate.Generator
}

func (s *serveCmd) Program() string        { return s.root.subcommand("serve") }
func (s *serveCmd) FlagSet() *flag.FlagSet { return s.fs }

func parseServeCmd(args []string, r *root) (*serveCmd, error) {
	s := &serveCmd{root: r, fs: flag.NewFlagSet("serve", flag.ContinueOnError)}
	s.fs.StringVar(&s.addr, "addr", "127.0.0.1:5000", "listen address")
	// the server is the end of the chain, so it defaults to LightX
	gcfg := r.config.Generator
	gcfg.Backend = config.BackendLightX
	s.backendFlags.register(s.fs, gcfg)
	if err := parseFlags(s.fs, args, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *serveCmd) handler() (http.Handler, error) {
	gen := s.gen
	if gen == nil {
		var err error
		if gen, err = s.backendFlags.generator(s.config.Generator); err != nil {
			return nil, err
		}
	}
	mux := http.NewServeMux()
	mux.Handle("/generate", generate.NewHandler(gen))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "ok\n")
	})
	return logRequests(mux), nil
}

func (s *serveCmd) Run() error {
	h, err := s.handler()
	if err != nil {
		return err
	}
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.serve(ctx, srv, ln)
}

// serve runs srv on ln until ctx is done, then shuts it down gracefully.
func (s *serveCmd) serve(ctx context.Context, srv *http.Server, ln net.Listener) error {
	log := logging.Logger()
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	log.Info("listening", "addr", ln.Addr().String(), "backend", s.backend)
	fmt.Fprintf(s.stderr, "serving on http://%s/generate\n", ln.Addr())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	log.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logging.Logger().Info("request", "method", r.Method, "path", r.URL.Path, "status", rec.status, "duration", time.Since(start))
	})
}
