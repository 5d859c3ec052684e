package main

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/jonboulle/clockwork"

	"github.com/ewilliams-labs/trackmap/internal/adapters/spotify"
	"github.com/ewilliams-labs/trackmap/internal/adapters/sqlite"
	"github.com/ewilliams-labs/trackmap/internal/config"
	"github.com/ewilliams-labs/trackmap/internal/core/matching"
	"github.com/ewilliams-labs/trackmap/internal/core/services"
	"github.com/ewilliams-labs/trackmap/internal/logging"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := logging.Setup(cfg.Logging); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// withStore opens the database for the duration of fn.
func (c *commandContext) withStore(fn func(*config.Config, *sqlite.Adapter) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := sqlite.NewAdapter(cfg.Storage.Path)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(cfg, store)
}

// withLockedStore is withStore holding the run lock, so only one writer
// process touches the database at a time.
func (c *commandContext) withLockedStore(fn func(*config.Config, *sqlite.Adapter) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	lock := flock.New(cfg.Storage.LockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another trackmap run is already in progress")
	}
	defer func() { _ = lock.Unlock() }()
	return c.withStore(fn)
}

func newCatalogClient(cfg *config.Config) (*spotify.Client, error) {
	if err := cfg.RequireCatalogCredentials(); err != nil {
		return nil, err
	}
	c := cfg.Catalog
	return spotify.NewClient(spotify.Config{
		ClientID:          c.ClientID,
		ClientSecret:      c.ClientSecret,
		TokenURL:          c.TokenURL,
		BaseURL:           c.BaseURL,
		TokenExpirySkew:   time.Duration(c.TokenExpirySkewSeconds) * time.Second,
		RequestsPerSecond: c.RequestsPerSecond,
		MaxRetries:        c.MaxRetries,
		RetryBackoff:      time.Duration(c.RetryBackoffMs) * time.Millisecond,
		Timeout:           time.Duration(c.TimeoutSeconds) * time.Second,
		Clock:             clockwork.NewRealClock(),
	}), nil
}

func newScorer(cfg *config.Config) matching.Scorer {
	return matching.Scorer{
		Scale:           cfg.Scoring.Scale,
		ThePrefixCredit: cfg.Scoring.ThePrefixCredit,
		PartialCredit:   cfg.Scoring.PartialCredit,
	}
}

func newRunner(cfg *config.Config, store *sqlite.Adapter, client *spotify.Client) *services.Runner {
	engine := services.NewMatchEngine(client, matching.DefaultArtistMapper(), newScorer(cfg),
		cfg.Catalog.PageSize, cfg.Catalog.MaxItems)
	return services.NewRunner(engine, services.NewAvailabilityPersister(store), store, clockwork.NewRealClock())
}
