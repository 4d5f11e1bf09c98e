package bot

import (
	"log/slog"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/dezbot/core/logger"
	tg "github.com/m3rciful/dezbot/core/telegram"
	"github.com/m3rciful/dezbot/core/telegram/middleware"
)

// middlewares builds the global middleware chain: recover first, then the
// optional per-user rate limit, then update logging.
func (a *App) middlewares() []tg.Middleware {
	mws := []tg.Middleware{
		{Name: "recover", Use: middleware.RecoverMiddleware},
	}

	interval := time.Duration(a.cfg.RateLimit.IntervalMS) * time.Millisecond
	if interval > 0 {
		ex := make(map[string]struct{}, len(a.cfg.RateLimit.ExcludeUpdates))
		for _, t := range a.cfg.RateLimit.ExcludeUpdates {
			ex[strings.ToLower(t)] = struct{}{}
		}
		mws = append(mws, tg.Middleware{
			Name: "rate_limit",
			Use: middleware.RateLimitMiddleware(middleware.RateLimitOptions{
				Interval: interval,
				Exclude:  ex,
			}),
		})
	}

	mws = append(mws, tg.Middleware{Name: "logger", Use: middleware.LoggerMiddleware})
	return mws
}

// routes binds every registered command plus the free-text handler that
// feeds the intake flow.
func (a *App) routes() []tg.Route {
	adminOpts := middleware.AdminOptions{
		AdminID: a.cfg.Telegram.AdminID,
	}

	routes := make([]tg.Route, 0, len(a.reg.Commands())+1)
	for cmd, def := range a.reg.Commands() {
		h := def.Handler
		if def.AdminOnly {
			h = middleware.AdminOnlyMiddleware(adminOpts)(h)
		}
		routes = append(routes, tg.Route{
			Endpoint: cmd,
			Handler:  h,
		})
	}

	routes = append(routes, tg.Route{
		Endpoint: tele.OnText,
		Handler:  a.textRoute(),
	})

	logger.TWire.Info("tg.wire",
		slog.String("event", "complete"),
		slog.Int("commands", len(a.reg.Commands())),
	)

	return routes
}

// textRoute resolves command aliases typed without a slash before falling
// back to the intake flow.
func (a *App) textRoute() tele.HandlerFunc {
	return func(c tele.Context) error {
		if _, cmd, ok := a.reg.LookupCommand(c.Text()); ok && cmd.Handler != nil && !cmd.AdminOnly {
			return cmd.Handler(c)
		}
		if fb := a.reg.TextFallback(); fb != nil {
			return fb(c)
		}
		return nil
	}
}
