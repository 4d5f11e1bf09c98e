// Package intake drives the wager conversation: it dispatches each inbound
// message on the user's current phase, validates dezenas, collects the
// bettor's name, and hands accepted wagers to the record sink.
package intake

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/m3rciful/dezbot/core/bet"
	"github.com/m3rciful/dezbot/core/logger"
	"github.com/m3rciful/dezbot/core/session"
	"github.com/m3rciful/dezbot/core/sink"
)

const (
	replyWelcome    = "🎟️ Obrigado pela aposta!\nPor favor, envie 10 dezenas de 01 a 60 separadas por espaço."
	replyAskName    = "Suas dezenas em ordem crescente: %s\nAgora envie o nome do apostador."
	replyDone       = "Aposta registrada com sucesso! ✅\nApostador: %s\nDezenas: %s"
	replySinkRetry  = "⚠️ Não foi possível registrar sua aposta agora. Envie o nome novamente para tentar outra vez."
	replyRejectMark = "⚠️ "
)

// triggerWords explicitly restart the flow from any phase.
var triggerWords = map[string]struct{}{
	"aposta":        {},
	"jogar":         {},
	"apostar":       {},
	"quero apostar": {},
	"start":         {},
	"/start":        {},
	"begin":         {},
}

// Event is one inbound text message from the messaging gateway.
type Event struct {
	UserID    int64
	Username  string
	FirstName string
	Text      string
}

// DisplayName resolves the identity stored with a wager: username, falling
// back to the first name, falling back to the numeric id.
func (e Event) DisplayName() string {
	if e.Username != "" {
		return e.Username
	}
	if e.FirstName != "" {
		return e.FirstName
	}
	return strconv.FormatInt(e.UserID, 10)
}

// Intake is the conversation state machine. One instance serves all users;
// per-user serialization comes from the session manager's turn lock.
type Intake struct {
	sessions session.Manager
	store    sink.Sink
	now      func() time.Time
}

// New builds an Intake over the given session manager and record sink.
func New(sessions session.Manager, store sink.Sink) *Intake {
	return &Intake{
		sessions: sessions,
		store:    store,
		now:      time.Now,
	}
}

// Handle consumes one inbound event and returns the single reply to send.
// Every event yields exactly one reply and one phase update; no input is
// silently dropped.
func (i *Intake) Handle(ctx context.Context, ev Event) string {
	release := i.sessions.Turn(ev.UserID)
	defer release()

	s := i.sessions.Get(ev.UserID)
	text := strings.TrimSpace(ev.Text)

	if _, ok := triggerWords[strings.ToLower(text)]; ok {
		return i.welcome(ctx, ev)
	}

	switch s.Phase {
	case session.PhaseNoSession, session.PhaseCompleted:
		// Entry and re-entry behave identically: the triggering message is
		// consumed by the welcome, never validated.
		return i.welcome(ctx, ev)
	case session.PhaseAwaitingNumbers:
		return i.collectNumbers(ctx, ev, text)
	case session.PhaseAwaitingName:
		return i.collectName(ctx, ev, s, text)
	default:
		// Unknown phase value from a previous build; re-arm rather than wedge.
		logger.Warn(ctx, "intake", "unknown phase",
			slog.String("event", "intake.reset"),
			slog.Int64("user_id", ev.UserID),
			slog.String("phase", string(s.Phase)),
		)
		return i.welcome(ctx, ev)
	}
}

// Reset re-arms the flow for the user and returns the welcome reply.
// Used by the explicit /start command.
func (i *Intake) Reset(ctx context.Context, ev Event) string {
	release := i.sessions.Turn(ev.UserID)
	defer release()
	return i.welcome(ctx, ev)
}

func (i *Intake) welcome(ctx context.Context, ev Event) string {
	i.sessions.Set(ev.UserID, session.Session{Phase: session.PhaseAwaitingNumbers})
	logger.Debug(ctx, "intake", "flow armed",
		slog.String("event", "intake.armed"),
		slog.Int64("user_id", ev.UserID),
	)
	return replyWelcome
}

func (i *Intake) collectNumbers(ctx context.Context, ev Event, text string) string {
	nums, err := bet.Validate(text)
	if err != nil {
		logger.Debug(ctx, "intake", "dezenas rejected",
			slog.String("event", "intake.rejected"),
			slog.Int64("user_id", ev.UserID),
			slog.String("cause", err.Error()),
		)
		// Phase unchanged; the user retries in place.
		return replyRejectMark + err.Error()
	}

	i.sessions.Set(ev.UserID, session.Session{
		Phase:          session.PhaseAwaitingName,
		PendingNumbers: nums,
	})
	return fmt.Sprintf(replyAskName, bet.Format(nums))
}

func (i *Intake) collectName(ctx context.Context, ev Event, s session.Session, text string) string {
	if text == "" {
		return replyRejectMark + bet.ErrUnparsable.Message
	}
	name := titleCase(text)

	rec := sink.Record{
		Timestamp:  i.now(),
		UserID:     ev.UserID,
		Username:   ev.DisplayName(),
		BettorName: name,
		Numbers:    s.PendingNumbers,
	}
	if err := i.store.Append(ctx, rec); err != nil {
		logger.Error(ctx, "intake", "persist failed",
			slog.String("event", "intake.persist"),
			slog.Int64("user_id", ev.UserID),
			slog.String("err", err.Error()),
		)
		// Keep the phase and pending dezenas so the user can resubmit.
		return replySinkRetry
	}

	i.sessions.Set(ev.UserID, session.Session{Phase: session.PhaseCompleted})
	logger.Info(ctx, "intake", "wager accepted",
		slog.String("event", "intake.accepted"),
		slog.Int64("user_id", ev.UserID),
		slog.String("bettor", name),
	)
	return fmt.Sprintf(replyDone, name, bet.Format(s.PendingNumbers))
}

// titleCase upper-cases the first rune of each space-separated word and
// lower-cases the rest, trimming repeated whitespace.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
