package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	httpadapter "svw.info/blockpuzzle/internal/adapters/http"
	"svw.info/blockpuzzle/internal/config"
	"svw.info/blockpuzzle/internal/generator"
	"svw.info/blockpuzzle/internal/hint"
	"svw.info/blockpuzzle/internal/infrastructure/storage"
	"svw.info/blockpuzzle/internal/session"
	"svw.info/blockpuzzle/internal/solver"
	"svw.info/blockpuzzle/internal/usecase"
	"svw.info/blockpuzzle/internal/validator"
)

// statusWriter captures HTTP status and bytes written.
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// Hijack lets the live session endpoint upgrade through the logger.
func (w *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	w.status = http.StatusSwitchingProtocols
	return hj.Hijack()
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(sw, r)
		log.Info().
			Str("req", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", sw.status).
			Int("bytes", sw.bytes).
			Dur("dur", time.Since(start).Round(time.Millisecond)).
			Msg("http")
	})
}

func main() {
	cfg := config.Default()
	if err := cfg.ApplyEnv(); err != nil {
		log.Fatal().Err(err).Msg("environment")
	}
	cfg.RegisterFlags(flag.CommandLine)
	flag.Parse()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	if err := cfg.SetupLogging(os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("logging")
	}
	if err := os.MkdirAll(cfg.PersistPath, 0o755); err != nil {
		log.Fatal().Err(err).Str("path", cfg.PersistPath).Msg("persist-dir")
	}

	// Wire providers → use cases → HTTP adapter
	rules := cfg.Rules()
	eng := solver.NewEngine(cfg.SearchOptions())
	uc := usecase.NewService(
		eng,
		generator.NewRandomGenerator(),
		validator.New(rules),
		hint.NewNextPlacement(eng),
		storage.NewFS(cfg.PersistPath),
		rules,
		cfg.Weights,
	)
	h := httpadapter.New(uc, func() *session.Session { return session.New(eng, rules) }, cfg.SearchTimeout)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	h.Register(r)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	log.Info().
		Str("addr", cfg.Addr).
		Str("persist", cfg.PersistPath).
		Str("eval", cfg.Mode().String()).
		Int("workers", cfg.Workers).
		Msg("listening")

	var runErr error
	select {
	case <-sigCtx.Done():
		log.Info().Msg("shutdown signal received")
	case err, ok := <-serverErrCh:
		if ok {
			runErr = err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("graceful shutdown failed")
		_ = srv.Close()
	}
	if runErr != nil {
		log.Error().Err(runErr).Msg("server error")
		os.Exit(1)
	}
}
