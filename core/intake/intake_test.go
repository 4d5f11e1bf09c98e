package intake

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/m3rciful/dezbot/core/session"
	"github.com/m3rciful/dezbot/core/sink"
)

type fakeSink struct {
	records []sink.Record
	fail    error
}

func (f *fakeSink) Append(_ context.Context, r sink.Record) error {
	if f.fail != nil {
		return f.fail
	}
	f.records = append(f.records, r)
	return nil
}

func (f *fakeSink) ExportCSV(context.Context, io.Writer) error { return sink.ErrNoRecords }
func (f *fakeSink) Close() error                               { return nil }

func newTestIntake() (*Intake, session.Manager, *fakeSink) {
	sessions := session.NewMemoryManager()
	store := &fakeSink{}
	return New(sessions, store), sessions, store
}

func ev(text string) Event {
	return Event{UserID: 1, Username: "maria_a", Text: text}
}

func TestFirstMessageIsNeverValidated(t *testing.T) {
	it, sessions, store := newTestIntake()

	// Even a perfectly valid wager only triggers the welcome.
	reply := it.Handle(context.Background(), ev("1 6 12 23 30 34 41 45 52 60"))
	if !strings.Contains(reply, "10 dezenas") {
		t.Fatalf("reply = %q, want welcome", reply)
	}
	if got := sessions.Get(1).Phase; got != session.PhaseAwaitingNumbers {
		t.Fatalf("phase = %q", got)
	}
	if len(store.records) != 0 {
		t.Fatalf("records = %d, want 0", len(store.records))
	}
}

func TestFullFlowCollectsNameAndPersists(t *testing.T) {
	it, sessions, store := newTestIntake()
	ctx := context.Background()

	it.Handle(ctx, ev("oi"))
	reply := it.Handle(ctx, ev("1 6 12 23 30 34 41 45 52 60"))
	if !strings.Contains(reply, "01, 06, 12, 23, 30, 34, 41, 45, 52, 60") {
		t.Fatalf("reply = %q, want formatted dezenas", reply)
	}
	if !strings.Contains(reply, "nome do apostador") {
		t.Fatalf("reply = %q, want name prompt", reply)
	}
	if got := sessions.Get(1); got.Phase != session.PhaseAwaitingName || len(got.PendingNumbers) != 10 {
		t.Fatalf("session = %+v", got)
	}

	reply = it.Handle(ctx, ev("maria"))
	if !strings.Contains(reply, "Maria") {
		t.Fatalf("reply = %q, want title-cased name", reply)
	}
	if got := sessions.Get(1); got.Phase != session.PhaseCompleted || len(got.PendingNumbers) != 0 {
		t.Fatalf("session after finalize = %+v", got)
	}

	if len(store.records) != 1 {
		t.Fatalf("records = %d, want 1", len(store.records))
	}
	rec := store.records[0]
	if rec.BettorName != "Maria" || rec.Username != "maria_a" || rec.UserID != 1 {
		t.Fatalf("record = %+v", rec)
	}
	if rec.Numbers[0] != 1 || rec.Numbers[9] != 60 {
		t.Fatalf("record numbers = %v", rec.Numbers)
	}
}

func TestRejectionKeepsPhaseForRetry(t *testing.T) {
	it, sessions, _ := newTestIntake()
	ctx := context.Background()

	it.Handle(ctx, ev("oi"))
	cases := []struct {
		text string
		want string
	}{
		{"5 5 12 23 30 34 41 45 52 60", "Não repita dezenas."},
		{"1 6 12 23 30 34 41 45 52 99", "As dezenas devem estar entre 1 e 60."},
		{"1 6 12 23 30", "Você deve informar exatamente 10 dezenas."},
	}
	for _, tc := range cases {
		reply := it.Handle(ctx, ev(tc.text))
		if !strings.Contains(reply, tc.want) {
			t.Fatalf("Handle(%q) = %q, want %q", tc.text, reply, tc.want)
		}
		if got := sessions.Get(1).Phase; got != session.PhaseAwaitingNumbers {
			t.Fatalf("phase after %q = %q", tc.text, got)
		}
	}
}

func TestReEntryAfterCompletion(t *testing.T) {
	it, sessions, store := newTestIntake()
	ctx := context.Background()

	it.Handle(ctx, ev("oi"))
	it.Handle(ctx, ev("1 6 12 23 30 34 41 45 52 60"))
	it.Handle(ctx, ev("maria"))

	// Any text after completion re-arms; its content is not validated.
	reply := it.Handle(ctx, ev("2 3 4 5 6 7 8 9 10 11"))
	if !strings.Contains(reply, "10 dezenas") {
		t.Fatalf("reply = %q, want welcome", reply)
	}
	if got := sessions.Get(1).Phase; got != session.PhaseAwaitingNumbers {
		t.Fatalf("phase = %q", got)
	}
	if len(store.records) != 1 {
		t.Fatalf("records = %d, want still 1", len(store.records))
	}
}

func TestTriggerWordRestartsMidFlow(t *testing.T) {
	it, sessions, _ := newTestIntake()
	ctx := context.Background()

	it.Handle(ctx, ev("oi"))
	it.Handle(ctx, ev("1 6 12 23 30 34 41 45 52 60"))
	reply := it.Handle(ctx, ev("Quero Apostar"))
	if !strings.Contains(reply, "10 dezenas") {
		t.Fatalf("reply = %q, want welcome", reply)
	}
	got := sessions.Get(1)
	if got.Phase != session.PhaseAwaitingNumbers || len(got.PendingNumbers) != 0 {
		t.Fatalf("session = %+v, want re-armed", got)
	}
}

func TestSinkFailureKeepsPendingNumbers(t *testing.T) {
	it, sessions, store := newTestIntake()
	ctx := context.Background()

	it.Handle(ctx, ev("oi"))
	it.Handle(ctx, ev("1 6 12 23 30 34 41 45 52 60"))

	store.fail = errors.New("disk full")
	reply := it.Handle(ctx, ev("maria"))
	if !strings.Contains(reply, "Tente") && !strings.Contains(reply, "tentar") {
		t.Fatalf("reply = %q, want transient failure message", reply)
	}
	got := sessions.Get(1)
	if got.Phase != session.PhaseAwaitingName || len(got.PendingNumbers) != 10 {
		t.Fatalf("session = %+v, want retryable name phase", got)
	}

	// Retry succeeds once the sink recovers.
	store.fail = nil
	reply = it.Handle(ctx, ev("maria"))
	if !strings.Contains(reply, "Maria") {
		t.Fatalf("reply = %q, want finalization", reply)
	}
	if len(store.records) != 1 {
		t.Fatalf("records = %d, want 1", len(store.records))
	}
}

func TestDeterministicReplies(t *testing.T) {
	ctx := context.Background()
	run := func() []string {
		it, _, _ := newTestIntake()
		var replies []string
		for _, text := range []string{"oi", "1 2 3", "1 6 12 23 30 34 41 45 52 60", "maria"} {
			replies = append(replies, it.Handle(ctx, ev(text)))
		}
		return replies
	}
	first, second := run(), run()
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("reply %d differs: %q vs %q", i, first[i], second[i])
		}
	}
}

func TestDisplayNameFallbacks(t *testing.T) {
	if got := (Event{UserID: 7, Username: "u", FirstName: "F"}).DisplayName(); got != "u" {
		t.Fatalf("got %q", got)
	}
	if got := (Event{UserID: 7, FirstName: "F"}).DisplayName(); got != "F" {
		t.Fatalf("got %q", got)
	}
	if got := (Event{UserID: 7}).DisplayName(); got != "7" {
		t.Fatalf("got %q", got)
	}
}

func TestTitleCase(t *testing.T) {
	cases := map[string]string{
		"maria":          "Maria",
		"  joão  silva ": "João Silva",
		"ANA CLARA":      "Ana Clara",
	}
	for in, want := range cases {
		if got := titleCase(in); got != want {
			t.Fatalf("titleCase(%q) = %q, want %q", in, got, want)
		}
	}
}
