// Package cmd implements the CLI application reporting on personal finance
// journals.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/finrep"
	"github.com/etnz/finrep/config"
	"github.com/etnz/finrep/eodhd"
	"github.com/etnz/finrep/logger"
	"github.com/etnz/finrep/moex"
	"github.com/etnz/finrep/ratecache"
	"github.com/etnz/finrep/yahoo"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	recordsFile = flag.String("records", "records.jsonl", "Path to the valued records journal (JSONL format)")
	tradesFile  = flag.String("trades", "trades.jsonl", "Path to the trades journal (JSONL format)")
	assetsFile  = flag.String("assets", "assets.jsonl", "Path to the asset snapshots journal (JSONL format)")
)

// app holds everything a command needs, built from the configuration.
type app struct {
	cfg        *config.Config
	log        zerolog.Logger
	currencies finrep.Currencies
	system     *finrep.AccountingSystem
	eodhd      *eodhd.Client // nil unless it is the rate backend

	closers []io.Closer
}

// newApp loads the configuration and wires the accounting system.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
	currencies, err := cfg.CurrencySet()
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, log: log, currencies: currencies}

	cache, err := a.rateCache()
	if err != nil {
		return nil, err
	}

	var upstream interface {
		finrep.RateSource
		finrep.PriceSource
	}
	switch cfg.RateBackend {
	case "eodhd":
		a.eodhd = eodhd.New(cfg.EODHDAPIKey, cfg.HTTPCacheDir(), log)
		upstream = a.eodhd
	default:
		upstream = yahoo.New(log)
	}

	provider := finrep.NewRateProvider(upstream, cache, log)
	provider.BufferDays = cfg.RateBufferDays

	var sources []finrep.PriceSource
	if cfg.MOEXEnabled {
		sources = append(sources, moex.New(log))
	}
	sources = append(sources, upstream, finrep.RatePrices{Provider: provider})

	a.system = finrep.NewAccountingSystem(provider, finrep.NewValuator(log, sources...), currencies, cfg.Taxonomy(), log)
	return a, nil
}

func (a *app) rateCache() (finrep.RateCache, error) {
	switch a.cfg.CacheBackend {
	case "sqlite":
		store, err := ratecache.OpenSQL(a.cfg.DatabasePath(), a.log)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, store)
		return store, nil
	default:
		return ratecache.NewFileStore(a.cfg.RatesDir(), a.log)
	}
}

// Close releases the resources held by the app.
func (a *app) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// target returns the currency flag value, or the configured target currency.
func (a *app) target(flagValue string) (string, error) {
	if flagValue == "" {
		return a.cfg.TargetCurrency, nil
	}
	code := strings.ToUpper(flagValue)
	return code, a.currencies.Validate(code, "-c flag")
}

// records decodes the records journal.
func (a *app) records() ([]finrep.ValuedRecord, error) {
	return finrep.LoadFile(*recordsFile, a.currencies, finrep.DecodeRecords)
}

// trades decodes the trades journal.
func (a *app) trades() ([]finrep.Trade, error) {
	return finrep.LoadFile(*tradesFile, a.currencies, finrep.DecodeTrades)
}

// assets decodes the asset snapshots journal.
func (a *app) assets() ([]finrep.AssetSnapshot, error) {
	return finrep.LoadFile(*assetsFile, a.currencies, finrep.DecodeAssets)
}

// withApp runs f with a new app, reporting errors on stderr.
func withApp(ctx context.Context, f func(ctx context.Context, a *app) error) subcommands.ExitStatus {
	a, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()
	if err := f(ctx, a); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// printMarkdown renders md for the terminal, or prints it raw if it cannot.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
