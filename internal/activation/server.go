package activation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"localnotifier/internal/notify"
)

type activateRequest struct {
	URI string `json:"uri"`
}

type activateResponse struct {
	Delivered bool   `json:"delivered"`
	Error     string `json:"error,omitempty"`
}

// Server 只监听回环地址，接收 activate 命令转发的 URI
type Server struct {
	scheme  string
	session string
	target  notify.Deliverer
	log     zerolog.Logger

	ln  net.Listener
	srv *http.Server
}

// Listen 在 addr 上监听，addr 端口为 0 时由系统分配；只投递 session 匹配的 URI
func Listen(addr, scheme, session string, target notify.Deliverer, logger zerolog.Logger) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}

	s := &Server{
		scheme:  scheme,
		session: session,
		target:  target,
		log:     logger.With().Str("component", "activation").Logger(),
		ln:      ln,
	}
	s.srv = &http.Server{
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s, nil
}

// Addr 实际监听地址
func (s *Server) Addr() string {
	return s.ln.Addr().String()
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Post("/v1/activations", s.handleActivate)
	return r
}

func (s *Server) handleActivate(w http.ResponseWriter, r *http.Request) {
	var req activateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64*1024)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, activateResponse{Error: err.Error()})
		return
	}

	ev, err := ParseURI(s.scheme, s.session, strings.TrimSpace(req.URI))
	if errors.Is(err, ErrStaleSession) {
		// 旧进程留在操作中心里的通知，句柄在本进程中可能已属于别的通知
		s.log.Info().Str("uri", req.URI).Msg("dropped activation from a previous session")
		writeJSON(w, http.StatusOK, activateResponse{Delivered: false})
		return
	}
	if err != nil {
		s.log.Warn().Err(err).Str("uri", req.URI).Msg("rejected activation")
		writeJSON(w, http.StatusBadRequest, activateResponse{Error: err.Error()})
		return
	}

	delivered := s.target.Deliver(ev)
	s.log.Debug().Int64("handle", int64(ev.Handle)).Bool("delivered", delivered).Msg("activation")
	writeJSON(w, http.StatusOK, activateResponse{Delivered: delivered})
}

// Serve 阻塞直到 ctx 取消
func (s *Server) Serve(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() { errc <- s.srv.Serve(s.ln) }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return s.srv.Shutdown(shutdownCtx)
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// WriteAddrFile 写入监听地址，供 activate 命令查找
func (s *Server) WriteAddrFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create addr dir: %w", err)
	}
	return os.WriteFile(path, []byte(s.Addr()+"\n"), 0o600)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
