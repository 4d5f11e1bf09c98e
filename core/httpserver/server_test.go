package httpserver

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/m3rciful/dezbot/core/sink"
)

type stubSink struct {
	csv string
}

func (s *stubSink) Append(context.Context, sink.Record) error { return nil }
func (s *stubSink) Close() error                              { return nil }

func (s *stubSink) ExportCSV(_ context.Context, w io.Writer) error {
	if s.csv == "" {
		return sink.ErrNoRecords
	}
	_, err := io.WriteString(w, s.csv)
	return err
}

func TestDownloadServesCSV(t *testing.T) {
	content := "timestamp,user_id,username,bettor_name,numbers\n2025-03-14T15:09:26Z,1,maria_a,Maria,\"01, 06\"\n"
	srv := New("127.0.0.1:0", &stubSink{csv: content})

	req := httptest.NewRequest(http.MethodGet, "/dados.csv", nil)
	rr := httptest.NewRecorder()
	srv.srv.Handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if got := rr.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/csv") {
		t.Fatalf("content type = %q", got)
	}
	if rr.Body.String() != content {
		t.Fatalf("body = %q", rr.Body.String())
	}
}

func TestDownloadNotFoundWhenEmpty(t *testing.T) {
	srv := New("127.0.0.1:0", &stubSink{})

	req := httptest.NewRequest(http.MethodGet, "/dados.csv", nil)
	rr := httptest.NewRecorder()
	srv.srv.Handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}

func TestHomePage(t *testing.T) {
	srv := New("127.0.0.1:0", &stubSink{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	srv.srv.Handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "/dados.csv") {
		t.Fatalf("body = %q", rr.Body.String())
	}
}
