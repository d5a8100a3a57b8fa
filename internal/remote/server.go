// Package remote exposes a running player over local HTTP for inspection
// and scripting. The API is not stable.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/mitchellh/hashstructure/v2"
	"go.uber.org/zap"

	"github.com/tessro/tapedeck/internal/core"
	tderrors "github.com/tessro/tapedeck/internal/errors"
)

const (
	defaultPollInterval = 250 * time.Millisecond
	requestTimeout      = 5 * time.Second
	writeTimeout        = 5 * time.Second
)

// SeekRequest is the body of POST /api/seek.
type SeekRequest struct {
	Ratio float64 `json:"ratio"`
}

// VolumeRequest is the body of POST /api/volume.
type VolumeRequest struct {
	Percent int `json:"percent"`
}

// ErrorResponse is returned with every non-2xx status.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Server serves the inspection API for one player.
type Server struct {
	transport core.Transport
	session   string
	poll      time.Duration
	log       *zap.Logger
	router    *mux.Router
	upgrader  websocket.Upgrader
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Server) { s.log = log }
}

// WithPollInterval sets how often the event stream checks for changes.
func WithPollInterval(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.poll = d
		}
	}
}

// NewServer creates a server for t. Each server gets a fresh session id.
func NewServer(t core.Transport, opts ...Option) *Server {
	s := &Server{
		transport: t,
		session:   uuid.NewString(),
		poll:      defaultPollInterval,
		log:       zap.NewNop(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.Named("remote")

	r := mux.NewRouter()
	r.HandleFunc("/api/state", s.handleState).Methods(http.MethodGet)
	r.HandleFunc("/api/playlist", s.handlePlaylist).Methods(http.MethodGet)
	r.HandleFunc("/api/toggle", s.command(core.Transport.Toggle)).Methods(http.MethodPost)
	r.HandleFunc("/api/next", s.command(core.Transport.Next)).Methods(http.MethodPost)
	r.HandleFunc("/api/previous", s.command(core.Transport.Previous)).Methods(http.MethodPost)
	r.HandleFunc("/api/load/{index:[0-9]+}", s.handleLoad).Methods(http.MethodPost)
	r.HandleFunc("/api/seek", s.handleSeek).Methods(http.MethodPost)
	r.HandleFunc("/api/volume", s.handleVolume).Methods(http.MethodPost)
	r.HandleFunc("/api/events", s.handleEvents).Methods(http.MethodGet)
	r.Use(s.logRequests)
	s.router = r

	return s
}

// Session returns the server's session id.
func (s *Server) Session() string {
	return s.session
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.log.Info("listening", zap.String("addr", ln.Addr().String()), zap.String("session", s.session))
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("took", time.Since(start)),
		)
	})
}

func (s *Server) snapshot(ctx context.Context) (*core.Snapshot, error) {
	snap, err := s.transport.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	snap.Session = s.session
	return snap, nil
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	snap, err := s.snapshot(ctx)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handlePlaylist(w http.ResponseWriter, r *http.Request) {
	tracks, err := s.transport.Tracks(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tracks)
}

// command adapts a transport method into a handler that replies with the
// resulting snapshot.
func (s *Server) command(fn func(core.Transport, context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.run(w, r, func(ctx context.Context) error { return fn(s.transport, ctx) })
	}
}

func (s *Server) run(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context) error) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := fn(ctx); err != nil {
		s.writeError(w, err)
		return
	}
	snap, err := s.snapshot(ctx)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid index"})
		return
	}

	autoplay := true
	if v := r.URL.Query().Get("autoplay"); v != "" {
		autoplay, err = strconv.ParseBool(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid autoplay value"})
			return
		}
	}

	s.run(w, r, func(ctx context.Context) error {
		return s.transport.Select(ctx, index, autoplay)
	})
}

func (s *Server) handleSeek(w http.ResponseWriter, r *http.Request) {
	var req SeekRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid body: " + err.Error()})
		return
	}
	s.run(w, r, func(ctx context.Context) error {
		return s.transport.Seek(ctx, req.Ratio)
	})
}

func (s *Server) handleVolume(w http.ResponseWriter, r *http.Request) {
	var req VolumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid body: " + err.Error()})
		return
	}
	s.run(w, r, func(ctx context.Context) error {
		return s.transport.Volume(ctx, req.Percent)
	})
}

// handleEvents streams snapshots over a websocket, sending one whenever
// the player's observable state changes.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	// Reads only to notice the client going away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(s.poll)
	defer ticker.Stop()

	var last uint64
	first := true
	for {
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		snap, err := s.snapshot(ctx)
		cancel()
		if err != nil {
			s.log.Debug("event stream ended", zap.Error(err))
			return
		}

		hash, err := hashstructure.Hash(snap, hashstructure.FormatV2, nil)
		if err != nil {
			s.log.Warn("hash snapshot", zap.Error(err))
		}
		if first || err != nil || hash != last {
			first = false
			last = hash
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(snap); err != nil {
				s.log.Debug("websocket write", zap.Error(err))
				return
			}
		}

		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, tderrors.ErrIndexOutOfRange):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		status = http.StatusServiceUnavailable
	}
	if status >= http.StatusInternalServerError {
		s.log.Warn("request failed", zap.Error(err))
	}
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
