package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/balkashynov/feelog/internal/api"
	"github.com/balkashynov/feelog/internal/config"
	"github.com/balkashynov/feelog/internal/db"
	"github.com/balkashynov/feelog/internal/logging"
	"github.com/balkashynov/feelog/internal/records"
	"github.com/balkashynov/feelog/internal/session"
)

// app is everything a command needs, built once per invocation
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	db      *gorm.DB
	session *session.Store
	client  *api.Client
	cache   *records.Cache
	drafts  *db.Drafts
}

// newApp loads config, opens the local database and wires the client
func newApp(cmd *cobra.Command) (*app, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	logger, syncLog, err := logging.New(cfg.Log, logging.Options{Verbose: verbose, Console: cmd.ErrOrStderr()})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	database, err := db.Open(cfg.DatabasePath())
	if err != nil {
		_ = syncLog()
		return nil, nil, err
	}

	store := session.NewStore(db.NewKVStore(database), logger.Named("session"))
	client, err := api.NewClient(store, api.Options{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout.Duration(),
		RateLimit: cfg.API.RateLimit,
		Burst:     cfg.API.Burst,
		Logger:    logger.Named("api"),
	})
	if err != nil {
		_ = db.Close(database)
		_ = syncLog()
		return nil, nil, err
	}

	a := &app{
		cfg:     cfg,
		logger:  logger,
		db:      database,
		session: store,
		client:  client,
		cache:   records.NewCache(client, store, logger.Named("records")),
		drafts:  db.NewDrafts(database),
	}

	closeFn := func() {
		if err := db.Close(database); err != nil {
			logger.Warn("failed to close database", zap.Error(err))
		}
		_ = syncLog()
	}
	return a, closeFn, nil
}

// withApp wraps a command body so it runs with a wired app and a context
// cancelled on interrupt
func withApp(fn func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, closeFn, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer closeFn()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		err = fn(ctx, cmd, a, args)
		if err != nil && !errors.Is(err, context.Canceled) {
			a.logger.Debug("command failed", zap.String("command", cmd.Name()), zap.Error(err))
		}
		return err
	}
}

// requireLogin fails early with a friendly error when there is no session
func (a *app) requireLogin() error {
	if !a.session.IsAuthenticated() {
		return records.ErrNotAuthenticated
	}
	return nil
}
