package main

import (
	"context"
	"fmt"
	"io"

	"github.com/VictoriaMetrics/metrics"

	"github.com/haukened/rr-screen/internal/screen/common/clock"
	"github.com/haukened/rr-screen/internal/screen/common/log"
	"github.com/haukened/rr-screen/internal/screen/config"
	"github.com/haukened/rr-screen/internal/screen/gateways/notify"
	"github.com/haukened/rr-screen/internal/screen/gateways/transport"
	"github.com/haukened/rr-screen/internal/screen/repos/contacts"
	"github.com/haukened/rr-screen/internal/screen/repos/history"
	historybolt "github.com/haukened/rr-screen/internal/screen/repos/history/bolt"
	"github.com/haukened/rr-screen/internal/screen/repos/numberfeed"
	"github.com/haukened/rr-screen/internal/screen/repos/numberfeed/bloom"
	feedbolt "github.com/haukened/rr-screen/internal/screen/repos/numberfeed/bolt"
	"github.com/haukened/rr-screen/internal/screen/repos/numberfeed/lru"
	"github.com/haukened/rr-screen/internal/screen/repos/numberfeed/parsers"
	"github.com/haukened/rr-screen/internal/screen/repos/rulestore"
	"github.com/haukened/rr-screen/internal/screen/services/screening"
)

// Application holds the wired screening engine.
type Application struct {
	config    *config.AppConfig
	call      *screening.CallScreener
	sms       *screening.SMSScreener
	metrics   *metrics.Set
	transport *transport.HTTPTransport
	closers   []io.Closer
}

// repositories holds the persistence-side collaborators.
type repositories struct {
	callRules *rulestore.CallFile
	smsRules  *rulestore.SMSFile
	history   history.Store
	feed      numberfeed.Repository
	contacts  screening.ContactResolver
	closers   []io.Closer
}

// buildApplication constructs all components and wires them together.
func buildApplication(cfg *config.AppConfig) (*Application, error) {
	clk := clock.RealClock{}
	logger := log.GetLogger()

	repos, err := buildRepositories(cfg, clk, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build repositories: %w", err)
	}

	set := metrics.NewSet()
	notifier := notify.Fanout{notify.NewLogNotifier(logger)}

	call := screening.NewCallScreener(screening.CallOptions{
		Repository: repos.callRules,
		Contacts:   repos.contacts,
		Feed:       repos.feed,
		Notifier:   notifier,
		Clock:      clk,
		Logger:     logger,
		Metrics:    set,
	})
	sms := screening.NewSMSScreener(screening.SMSOptions{
		Repository: repos.smsRules,
		History:    repos.history,
		Contacts:   repos.contacts,
		Feed:       repos.feed,
		Notifier:   notifier,
		Clock:      clk,
		Logger:     logger,
		Metrics:    set,
	})

	router := transport.NewRouter(call, sms, set, logger)

	return &Application{
		config:    cfg,
		call:      call,
		sms:       sms,
		metrics:   set,
		transport: transport.NewHTTPTransport(cfg.HTTP.Listen, router, logger),
		closers:   repos.closers,
	}, nil
}

// buildRepositories opens the rule files, history store, number feeds and
// contact resolver. Stores opened before a failure are closed again.
func buildRepositories(cfg *config.AppConfig, clk clock.Clock, logger log.Logger) (_ *repositories, err error) {
	repos := &repositories{
		callRules: rulestore.NewCallFile(cfg.Rules.CallFile),
		smsRules:  rulestore.NewSMSFile(cfg.Rules.SMSFile),
		feed:      numberfeed.NoopRepository{},
		contacts:  contacts.Permissive{},
	}
	defer func() {
		if err != nil {
			closeAll(repos.closers, logger)
		}
	}()

	if cfg.History.DB == "" {
		repos.history = history.NewMemoryStore()
	} else {
		store, err := historybolt.New(cfg.History.DB)
		if err != nil {
			return nil, fmt.Errorf("failed to open history db: %w", err)
		}
		repos.history = store
		repos.closers = append(repos.closers, store)
	}
	logger.Info(map[string]any{"db": cfg.History.DB}, "Frequency history configured")

	if cfg.Feed.Dir != "" {
		feed, store, err := buildFeed(cfg.Feed, clk, logger)
		if err != nil {
			return nil, err
		}
		repos.feed = feed
		repos.closers = append(repos.closers, store)
	}

	if cfg.Contacts.File != "" {
		book, err := contacts.LoadAddressBook(cfg.Contacts.File)
		if err != nil {
			return nil, fmt.Errorf("failed to load contacts: %w", err)
		}
		cached, err := contacts.NewCached(book, cfg.Contacts.CacheSize, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create contacts cache: %w", err)
		}
		repos.contacts = cached
		logger.Info(map[string]any{"file": cfg.Contacts.File, "contacts": book.Len()}, "Address book loaded")
	}
	return repos, nil
}

// buildFeed indexes the feed directory into bbolt and fronts it with a bloom
// filter and decision cache.
func buildFeed(cfg config.FeedConfig, clk clock.Clock, logger log.Logger) (numberfeed.Repository, numberfeed.Store, error) {
	store, err := feedbolt.New(cfg.DB)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open feed db: %w", err)
	}
	cache, err := lru.New(cfg.CacheSize)
	if err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("failed to create feed cache: %w", err)
	}
	repo := numberfeed.NewRepository(store, cache, bloom.NewFactory(), cfg.FPRate)

	now := clk.Now()
	entries, err := parsers.LoadDir(cfg.Dir, logger, now)
	if err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("failed to load feeds: %w", err)
	}
	version := store.Stats().Version + 1
	if err := repo.UpdateAll(entries, version, now.Unix()); err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("failed to index feeds: %w", err)
	}
	st := repo.Stats().Store
	logger.Info(map[string]any{
		"dir":     cfg.Dir,
		"version": st.Version,
		"exact":   st.ExactKeys,
		"prefix":  st.PrefixKeys,
	}, "Number feeds indexed")
	return repo, store, nil
}

func closeAll(closers []io.Closer, logger log.Logger) {
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil {
			logger.Warn(map[string]any{"error": err}, "Error closing store")
		}
	}
}

// Close releases the stores opened by buildApplication.
func (app *Application) Close() {
	closeAll(app.closers, log.GetLogger())
	app.closers = nil
}

// Run serves HTTP intake and blocks until ctx is cancelled.
func (app *Application) Run(ctx context.Context) error {
	if err := app.transport.Start(ctx); err != nil {
		return fmt.Errorf("failed to start HTTP transport: %w", err)
	}
	log.Info(map[string]any{"address": app.transport.Address()}, "Screening server started")

	<-ctx.Done()
	log.Info(nil, "Shutdown initiated")

	if err := app.transport.Stop(); err != nil {
		log.Warn(map[string]any{"error": err}, "Error during transport shutdown")
	}
	return nil
}
