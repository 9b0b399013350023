package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/proelectricos/charlie-bot/internal/bot"
	"github.com/proelectricos/charlie-bot/internal/calendar"
	"github.com/proelectricos/charlie-bot/internal/config"
	"github.com/proelectricos/charlie-bot/internal/dateparse"
	"github.com/proelectricos/charlie-bot/internal/email"
	"github.com/proelectricos/charlie-bot/internal/genai"
	"github.com/proelectricos/charlie-bot/internal/googleauth"
	"github.com/proelectricos/charlie-bot/internal/messaging"
	"github.com/proelectricos/charlie-bot/internal/orders"
	"github.com/proelectricos/charlie-bot/internal/session"
	"github.com/proelectricos/charlie-bot/internal/twiliowhatsapp"
	"github.com/proelectricos/charlie-bot/internal/whatsapp"
)

// shutdownTimeout bounds the graceful HTTP shutdown on exit.
const shutdownTimeout = 10 * time.Second

// Server holds the HTTP surface and its collaborators.
type Server struct {
	auth     *googleauth.Manager
	sessions *session.InMemoryStore
}

// Run is the composition root: it wires the transport, the collaborators and
// the bot together, starts the message loop and serves the operational HTTP
// surface until the process receives an interrupt.
func Run(cfg config.Config, waOpts []whatsapp.Option, genaiOpts []genai.Option) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	msgService, err := buildMessagingService(cfg, waOpts)
	if err != nil {
		return fmt.Errorf("building messaging service: %w", err)
	}

	sessions := session.NewInMemoryStore()
	if cfg.SessionTTL > 0 {
		sweeper, err := session.StartSweeper(sessions, cfg.SessionTTL)
		if err != nil {
			return fmt.Errorf("starting session sweeper: %w", err)
		}
		defer sweeper.Stop()
	}

	botOpts := []bot.Option{
		bot.WithOrderFetcher(orders.NewClient(orders.WithBaseURL(cfg.OrderBaseURL))),
		bot.WithDateParser(dateparse.NewNaturalParser()),
		bot.WithEmailSender(buildEmailSender(cfg)),
	}
	if cfg.DisplayName != "" {
		botOpts = append(botOpts, bot.WithDisplayName(cfg.DisplayName))
	}
	if cfg.BusinessName != "" {
		botOpts = append(botOpts, bot.WithBusinessName(cfg.BusinessName))
	}
	if cfg.PacingDelay > 0 {
		botOpts = append(botOpts, bot.WithPacingDelay(cfg.PacingDelay))
	}

	auth, err := googleauth.NewManager(
		googleauth.WithRedirectURL(cfg.RedirectURL),
		googleauth.WithTokenPath(cfg.TokenPath),
	)
	if err != nil {
		// Scheduling degrades to its failure replies; order lookup and the AI
		// fallback keep working.
		slog.Warn("Google OAuth not configured, scheduling disabled", "error", err)
	} else {
		var calOpts []calendar.Option
		if cfg.CalendarID != "" {
			calOpts = append(calOpts, calendar.WithCalendarID(cfg.CalendarID))
		}
		botOpts = append(botOpts,
			bot.WithCalendar(calendar.NewGoogleCalendar(auth, calOpts...)),
			bot.WithLoginURL(loginURLFor(cfg)),
		)
	}

	if ai, err := genai.NewClient(genaiOpts...); err != nil {
		slog.Warn("GenAI not configured, free-form menu messages get the apology reply", "error", err)
	} else {
		botOpts = append(botOpts, bot.WithCompleter(ai))
	}

	b := bot.New(msgService, sessions, botOpts...)
	srv := &Server{auth: auth, sessions: sessions}

	if err := msgService.Start(ctx); err != nil {
		return fmt.Errorf("starting messaging service: %w", err)
	}
	defer func() {
		if err := msgService.Stop(); err != nil {
			slog.Error("Messaging service stop failed", "error", err)
		}
	}()

	go messageLoop(ctx, b, msgService)
	go receiptLoop(ctx, msgService)

	httpSrv := &http.Server{Addr: cfg.APIAddr, Handler: srv.router()}
	serveErr := make(chan error, 1)
	go func() {
		slog.Info("API server listening", "addr", cfg.APIAddr)
		serveErr <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		slog.Info("Shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			slog.Error("HTTP shutdown failed", "error", err)
		}
	}
	return nil
}

// router assembles the operational HTTP surface.
func (s *Server) router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.healthHandler)
	r.Get("/auth/login", s.authLoginHandler)
	r.Get("/auth/callback", s.authCallbackHandler)
	r.Get("/auth/status", s.authStatusHandler)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

// buildMessagingService selects the configured transport.
func buildMessagingService(cfg config.Config, waOpts []whatsapp.Option) (messaging.Service, error) {
	switch cfg.Transport {
	case config.TransportTwilio:
		client, err := twiliowhatsapp.NewClient()
		if err != nil {
			return nil, err
		}
		slog.Info("Using Twilio WhatsApp transport")
		return messaging.NewTwilioService(client), nil
	default:
		if cfg.DBDSN != "" {
			waOpts = append(waOpts, whatsapp.WithDBDSN(cfg.DBDSN))
		}
		client, err := whatsapp.NewClient(waOpts...)
		if err != nil {
			return nil, err
		}
		slog.Info("Using Whatsmeow WhatsApp transport")
		return messaging.NewWhatsAppService(client), nil
	}
}

// buildEmailSender applies the SMTP configuration; credentials come from the
// environment inside the sender itself.
func buildEmailSender(cfg config.Config) email.Sender {
	var opts []email.Option
	if cfg.SMTPHost != "" {
		opts = append(opts, email.WithSMTPHost(cfg.SMTPHost))
	}
	if cfg.SMTPPort > 0 {
		opts = append(opts, email.WithSMTPPort(cfg.SMTPPort))
	}
	return email.NewGomailSender(opts...)
}

// loginURLFor derives the human-facing login URL from the OAuth redirect URL,
// which by convention lives under the same prefix.
func loginURLFor(cfg config.Config) string {
	redirect := cfg.RedirectURL
	if redirect == "" {
		redirect = googleauth.DefaultRedirectURL
	}
	return strings.Replace(redirect, "/auth/callback", "/auth/login", 1)
}

// messageLoop feeds inbound counterpart messages into the bot. Each message
// gets its own goroutine; the session store serializes turns per counterpart.
func messageLoop(ctx context.Context, b *bot.Bot, svc messaging.Service) {
	for {
		select {
		case resp, ok := <-svc.Responses():
			if !ok {
				slog.Debug("Message loop: responses channel closed")
				return
			}
			go b.HandleMessage(ctx, resp.From, resp.Body)
		case <-ctx.Done():
			slog.Debug("Message loop stopping")
			return
		}
	}
}

// receiptLoop drains delivery receipts so the transport channel never blocks.
func receiptLoop(ctx context.Context, svc messaging.Service) {
	for {
		select {
		case receipt, ok := <-svc.Receipts():
			if !ok {
				return
			}
			slog.Debug("Receipt received", "to", receipt.To, "status", receipt.Status)
		case <-ctx.Done():
			return
		}
	}
}
