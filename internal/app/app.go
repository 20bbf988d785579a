package app

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ashwindharne/hbd-bot/internal/config"
	"github.com/ashwindharne/hbd-bot/internal/digest"
	"github.com/ashwindharne/hbd-bot/internal/scheduler"
	"github.com/ashwindharne/hbd-bot/internal/sms"
	"github.com/ashwindharne/hbd-bot/internal/store"
)

type App struct {
	cfg     config.Config
	log     *zap.Logger
	httpSrv *http.Server
	repo    store.Repo
	sender  sms.Sender
	sweeper *scheduler.Sweeper
}

func New(cfg config.Config, log *zap.Logger) (*App, error) {
	sender, err := newSender(cfg)
	if err != nil {
		return nil, err
	}

	a := &App{cfg: cfg, log: log}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.HandleFunc("/v1/sweep", a.handleSweep)
	a.httpSrv = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	a.sender = sender
	return a, nil
}

func newSender(cfg config.Config) (sms.Sender, error) {
	switch cfg.SMSProvider {
	case "surge":
		return sms.NewSurgeClient(cfg.SurgeAPIKey, cfg.SurgeAccountID), nil
	case "twilio":
		return sms.NewTwilioClient(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber), nil
	case "messagecentral":
		return sms.NewMessageCentralClient(
			cfg.MessageCentralCustomerID, cfg.MessageCentralEmail, cfg.MessageCentralPasswordB64), nil
	}
	return nil, fmt.Errorf("unknown sms provider %q", cfg.SMSProvider)
}

func (a *App) Run(ctx context.Context) error {
	a.log.Info("starting hbd sweeper",
		zap.String("mode", a.cfg.RunMode),
		zap.String("provider", a.cfg.SMSProvider),
		zap.String("http", a.cfg.HTTPAddr),
	)

	repo, err := store.OpenSQLite(ctx, a.cfg.DBPath)
	if err != nil {
		a.log.Error("open sqlite failed", zap.Error(err))
		return err
	}
	a.repo = repo
	defer func() { _ = a.repo.Close() }()
	a.log.Info("sqlite ready", zap.String("path", a.cfg.DBPath))

	compiler := digest.NewCompiler(repo, a.log)
	a.sweeper = scheduler.New(compiler, repo, a.sender, a.log, a.cfg.SendPacing)

	if a.cfg.RunMode == "once" {
		a.sweeper.Sweep(ctx)
		return nil
	}

	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("http server error", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = a.sweeper.Run(ctx)

	shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if shErr := a.httpSrv.Shutdown(shCtx); shErr != nil {
		a.log.Warn("http server shutdown error", zap.Error(shErr))
	}
	return err
}

// handleSweep triggers one sweep on demand. It mirrors the scheduled run and
// needs the admin bearer token.
func (a *App) handleSweep(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	token, ok := bearerToken(r)
	if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(a.cfg.AdminToken)) != 1 {
		a.log.Error("unauthorized sweep attempt", zap.String("remote", r.RemoteAddr))
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	if a.sweeper == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	a.log.Info("sweep triggered via API")
	a.sweeper.Sweep(r.Context())
	w.WriteHeader(http.StatusOK)
}

func bearerToken(r *http.Request) (string, bool) {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return "", false
	}
	return strings.TrimPrefix(auth, prefix), true
}
