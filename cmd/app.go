// Package cmd implements the yna command line: fetch Amazon transactions
// joined with their orders, and write them as memos into YNAB.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"
	"github.com/rs/zerolog"
	"github.com/ynamazon/ynamazon"
	"github.com/ynamazon/ynamazon/amazon"
	"github.com/ynamazon/ynamazon/cache"
	"github.com/ynamazon/ynamazon/logger"
	"github.com/ynamazon/ynamazon/metrics"
	"github.com/ynamazon/ynamazon/settings"
)

// Commands lists the yna subcommands.
var Commands = []subcommands.Command{
	&amazonCmd{},
	&ynabCmd{},
	&processCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "", "Path to a .toml or .yaml configuration file")
var verbose = flag.Bool("v", false, "Enable debug logging")
var metricsFile = flag.String("metrics-file", "", "Write Prometheus metrics to this textfile when the command ends")

// runTimeout bounds a whole command run.
const runTimeout = 5 * time.Minute

// app holds what every command needs once the settings are loaded.
type app struct {
	settings *settings.Settings
	log      zerolog.Logger
	metrics  *metrics.Metrics
	cache    *cache.Cache
	closers  []func() error
}

// newApp loads and validates the settings, then builds the logger, the
// metrics and the cache. The returned context carries the logger and the run
// timeout. Callers must call close.
func newApp(ctx context.Context) (context.Context, *app, error) {
	s, err := settings.Load(*configFile)
	if err != nil {
		return ctx, nil, err
	}
	if err := s.Validate(); err != nil {
		return ctx, nil, err
	}

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log := logger.WithRunID(logger.New(level))
	log.Debug().Interface("settings", s.Redacted()).Msg("settings loaded")

	ctx, cancel := context.WithTimeout(ctx, runTimeout)
	ctx = logger.WithContext(ctx, log)
	a := &app{
		settings: s,
		log:      log,
		metrics:  metrics.New(),
		closers:  []func() error{func() error { cancel(); return nil }},
	}

	store, err := a.store(ctx)
	if err != nil {
		a.close()
		return ctx, nil, err
	}
	a.cache = cache.New(store, cache.WithLogger(log), cache.WithObserver(a.metrics))
	return ctx, a, nil
}

// store returns the redis store when an address is configured, the file
// store otherwise.
func (a *app) store(ctx context.Context) (cache.Store, error) {
	if a.settings.RedisAddr == "" {
		return cache.NewFileStore(a.settings.CacheDir), nil
	}
	rs, err := cache.NewRedisStore(ctx, a.settings.RedisAddr, cache.DefaultValidity)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, rs.Close)
	a.log.Debug().Str("addr", a.settings.RedisAddr).Msg("using redis cache")
	return rs, nil
}

// amazonTransactions returns the memoized Amazon pipeline for the configured account.
func (a *app) amazonTransactions() (ynamazon.AmazonTransactionsFunc, error) {
	p, err := amazon.NewProvider(a.settings.AmazonBaseURL, a.settings.AmazonUser, a.settings.AmazonPassword.Reveal())
	if err != nil {
		return nil, err
	}
	return ynamazon.NewAmazonTransactions(a.cache, p, a.metrics), nil
}

// close releases the app resources and writes the metrics file if requested.
func (a *app) close() {
	if *metricsFile != "" {
		if err := a.metrics.WriteTextfile(*metricsFile); err != nil {
			a.log.Warn().Err(err).Str("path", *metricsFile).Msg("cannot write metrics")
		}
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Warn().Err(err).Msg("close failed")
		}
	}
}

// fail prints err on stderr, naming the failing step, and returns the exit status.
func fail(step string, err error) subcommands.ExitStatus {
	switch {
	case errors.Is(err, settings.ErrInvalidSetting), errors.Is(err, settings.ErrMissingOptionalSetting):
		fmt.Fprintf(os.Stderr, "Error: invalid configuration: %v\n", err)
	case errors.Is(err, ynamazon.ErrAuthentication):
		fmt.Fprintf(os.Stderr, "Error: Amazon authentication failed: %v\n", err)
	default:
		fmt.Fprintf(os.Stderr, "Error %s: %v\n", step, err)
	}
	return subcommands.ExitFailure
}
