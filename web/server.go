// ABOUTME: HTTP server exposing an archive root over GET and HEAD behind a chi router.
// ABOUTME: Handles middleware wiring, not-found responses, and graceful shutdown.
package web

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/2389-research/archivist/archive"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// notFoundBody is identical for every miss so responses reveal nothing about
// the layout of the root.
const notFoundBody = "Not Found"

// Server serves a single archive root. It holds no per-request state.
type Server struct {
	root            *archive.Root
	router          chi.Router
	addr            string
	requestTimeout  time.Duration
	shutdownTimeout time.Duration
	cacheMaxAge     time.Duration
	logger          *logrus.Logger
}

// ServerConfig holds the configuration for the archive server.
type ServerConfig struct {
	Root            *archive.Root // required
	Addr            string        // listen address (default: ":8080")
	RequestTimeout  time.Duration // zero disables the per-request deadline
	ShutdownTimeout time.Duration // grace period for in-flight requests (default: 10s)
	CacheMaxAge     time.Duration // zero omits Cache-Control
	Logger          *logrus.Logger
}

// NewServer creates a Server for cfg.Root and builds its router.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Root == nil {
		return nil, errors.New("Root must not be nil")
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}

	s := &Server{
		root:            cfg.Root,
		addr:            cfg.Addr,
		requestTimeout:  cfg.RequestTimeout,
		shutdownTimeout: cfg.ShutdownTimeout,
		cacheMaxAge:     cfg.CacheMaxAge,
		logger:          cfg.Logger,
	}
	s.router = s.buildRouter()
	return s, nil
}

// ServeHTTP delegates to the chi router, satisfying http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.addr
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	if s.requestTimeout > 0 {
		r.Use(middleware.Timeout(s.requestTimeout))
	}

	r.MethodNotAllowed(handleMethodNotAllowed)
	r.Get("/*", s.handleArchive)
	r.Head("/*", s.handleArchive)

	return r
}

// handleArchive resolves the request path under the root and streams the file.
func (s *Server) handleArchive(w http.ResponseWriter, r *http.Request) {
	asset, err := s.root.Resolve(r.URL.Path)
	if err != nil {
		s.notFound(w, r, err)
		return
	}

	f, err := asset.Open()
	if err != nil {
		s.notFound(w, r, err)
		return
	}
	defer f.Close()

	h := w.Header()
	h.Set("Content-Type", asset.ContentType)
	h.Set("X-Content-Type-Options", "nosniff")
	if s.cacheMaxAge > 0 {
		h.Set("Cache-Control", "public, max-age="+strconv.Itoa(int(s.cacheMaxAge.Seconds())))
	}

	// ServeContent keeps the preset Content-Type and adds conditional and
	// range handling without altering the bytes.
	http.ServeContent(w, r, asset.Name, asset.ModTime, f)
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request, err error) {
	entry := s.logger.WithFields(logrus.Fields{
		"component":  "web",
		"path":       r.URL.Path,
		"request_id": RequestIDFromContext(r.Context()),
	})
	switch {
	case errors.Is(err, archive.ErrEscapesRoot), errors.Is(err, archive.ErrInvalidPath):
		entry.WithField("action", "rejected").WithError(err).Warn("rejected request path")
	case errors.Is(err, fs.ErrNotExist):
		entry.WithField("action", "miss").Debug("no file for request path")
	default:
		entry.WithField("action", "io_error").WithError(err).Warn("unexpected error resolving request path")
	}
	http.Error(w, notFoundBody, http.StatusNotFound)
}

func handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Allow", "GET, HEAD")
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}

// ListenAndServe listens on the configured address and serves until ctx is
// cancelled. A clean shutdown returns nil.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then drains
// in-flight requests for up to the shutdown timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errorLog := s.logger.WriterLevel(logrus.WarnLevel)
	defer errorLog.Close()

	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       2 * time.Minute,
		ErrorLog:          log.New(errorLog, "", 0),
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(ln)
	}()

	s.logger.WithFields(logrus.Fields{
		"component": "web",
		"action":    "serving",
		"addr":      ln.Addr().String(),
		"root":      s.root.Dir(),
	}).Info("archive server listening")

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving http: %w", err)
	case <-ctx.Done():
	}

	s.logger.WithFields(logrus.Fields{"component": "web", "action": "shutdown"}).Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		srv.Close()
		return fmt.Errorf("shutting down http server: %w", err)
	}
	<-serveErr
	return nil
}
