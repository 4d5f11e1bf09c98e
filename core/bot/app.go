// Package bot wires the intake flow, record sink, and Telegram transport
// into a runnable application.
package bot

import (
	"bytes"
	"errors"

	tele "gopkg.in/telebot.v4"

	coreconfig "github.com/m3rciful/dezbot/core/config"
	"github.com/m3rciful/dezbot/core/intake"
	"github.com/m3rciful/dezbot/core/session"
	"github.com/m3rciful/dezbot/core/sink"
	tg "github.com/m3rciful/dezbot/core/telegram"
	tghelpers "github.com/m3rciful/dezbot/core/telegram/helpers"
)

const (
	helpText = "Envie \"aposta\" para começar.\n" +
		"Depois mande 10 dezenas de 01 a 60 separadas por espaço ou vírgula\n" +
		"e, por fim, o nome do apostador."
	noBetsText = "Nenhuma aposta registrada ainda."
)

// App aggregates the application dependencies behind the Telegram transport.
type App struct {
	cfg   *coreconfig.Config
	store sink.Sink
	flow  *intake.Intake
	reg   *tg.Registry
}

// New builds the application over the given config and record sink.
func New(cfg *coreconfig.Config, store sink.Sink) *App {
	a := &App{
		cfg:   cfg,
		store: store,
		flow:  intake.New(session.NewMemoryManager(), store),
	}
	a.reg = a.buildRegistry()
	return a
}

func (a *App) buildRegistry() *tg.Registry {
	reg := tg.NewRegistry()

	reg.RegisterCommand("/start", tg.Command{
		Description: "Começar uma nova aposta",
		Handler:     a.handleStart,
	})
	reg.RegisterCommand("/ajuda", tg.Command{
		Description: "Como apostar",
		Aliases:     []string{"help"},
		Handler:     a.handleHelp,
	})
	reg.RegisterCommand("/apostas", tg.Command{
		Description: "Baixar o arquivo de apostas",
		AdminOnly:   true,
		Hidden:      true,
		Handler:     a.handleExport,
	})

	reg.SetTextFallback(a.handleText)
	return reg
}

func (a *App) handleStart(c tele.Context) error {
	reply := a.flow.Reset(tghelpers.BuildContext(c), eventFrom(c))
	return tghelpers.SendText(c, reply)
}

func (a *App) handleHelp(c tele.Context) error {
	return tghelpers.SendText(c, helpText)
}

func (a *App) handleExport(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)

	var buf bytes.Buffer
	if err := a.store.ExportCSV(ctx, &buf); err != nil {
		if errors.Is(err, sink.ErrNoRecords) {
			return tghelpers.SendText(c, noBetsText)
		}
		return err
	}

	doc := &tele.Document{
		File:     tele.FromReader(&buf),
		FileName: "dados.csv",
		MIME:     "text/csv",
	}
	return tghelpers.SendDocument(c, doc)
}

func (a *App) handleText(c tele.Context) error {
	reply := a.flow.Handle(tghelpers.BuildContext(c), eventFrom(c))
	return tghelpers.SendText(c, reply)
}

func eventFrom(c tele.Context) intake.Event {
	ev := intake.Event{Text: c.Text()}
	if user := c.Sender(); user != nil {
		ev.UserID = user.ID
		ev.Username = user.Username
		ev.FirstName = user.FirstName
	}
	return ev
}

// RunOptions assembles the transport configuration for tg.RunTelegram.
// Dispatcher options are zeroed on purpose; NewDispatcher applies defaults.
func (a *App) RunOptions() tg.RunOptions {
	return tg.RunOptions{
		Config:      a.cfg,
		Registry:    a.reg,
		Middlewares: a.middlewares(),
		Routes:      a.routes(),
	}
}
