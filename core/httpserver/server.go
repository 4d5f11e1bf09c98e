// Package httpserver exposes the stored bets as a downloadable CSV.
package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/m3rciful/dezbot/core/logger"
	"github.com/m3rciful/dezbot/core/sink"
)

// Server serves the record table over HTTP.
type Server struct {
	store sink.Sink
	srv   *http.Server
}

// New builds a Server listening on addr over the given sink.
func New(addr string, store sink.Sink) *Server {
	s := &Server{store: store}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.home)
	mux.HandleFunc("/dados.csv", s.download)

	s.srv = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	logger.Info(ctx, "http", "listening",
		slog.String("event", "http.listen"),
		slog.String("addr", s.srv.Addr),
	)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte("<h3>✅ Servidor rodando. Acesse /dados.csv para visualizar o arquivo.</h3>"))
}

func (s *Server) download(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	if err := s.store.ExportCSV(r.Context(), w); err != nil {
		if errors.Is(err, sink.ErrNoRecords) {
			w.Header().Del("Content-Type")
			http.Error(w, "Arquivo não encontrado.", http.StatusNotFound)
			return
		}
		logger.Error(r.Context(), "http", "export failed",
			slog.String("event", "http.export"),
			slog.String("err", err.Error()),
		)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
