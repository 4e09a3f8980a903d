// Package config reads the static configuration from the environment and an
// optional .env file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/etnz/finrep"
	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir        string
	Currencies     []string
	TargetCurrency string
	RateBackend    string // yahoo or eodhd
	CacheBackend   string // file or sqlite
	RateBufferDays int
	MOEXEnabled    bool
	EODHDAPIKey    string

	IncomeCategories  []string
	SavingsCategories []string
	InvestCategories  []string
	Receivable        string
	ReceivableRepaid  string
	Payable           string
	PayableRepaid     string

	LogLevel  string
	LogPretty bool
}

// Load reads configuration from environment variables, after loading .env if
// it exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	tax := finrep.DefaultTaxonomy()
	cfg := &Config{
		DataDir:        getEnv("FINREP_DATA_DIR", defaultDataDir()),
		Currencies:     getEnvAsList("FINREP_CURRENCIES", finrep.DefaultCurrencies),
		TargetCurrency: strings.ToUpper(getEnv("FINREP_TARGET_CURRENCY", "RUB")),
		RateBackend:    getEnv("FINREP_RATE_BACKEND", "yahoo"),
		CacheBackend:   getEnv("FINREP_CACHE_BACKEND", "file"),
		RateBufferDays: getEnvAsInt("FINREP_RATE_BUFFER_DAYS", finrep.DefaultBufferDays),
		MOEXEnabled:    getEnvAsBool("FINREP_MOEX_ENABLED", true),
		EODHDAPIKey:    getEnv("EODHD_API_KEY", ""),

		IncomeCategories:  getEnvAsList("FINREP_INCOME_CATEGORIES", tax.Income),
		SavingsCategories: getEnvAsList("FINREP_SAVINGS_CATEGORIES", tax.Savings),
		InvestCategories:  getEnvAsList("FINREP_INVESTMENT_CATEGORIES", tax.Investments),
		Receivable:        getEnv("FINREP_RECEIVABLE_CATEGORY", tax.Receivable),
		ReceivableRepaid:  getEnv("FINREP_RECEIVABLE_REPAID_CATEGORY", tax.ReceivableRepaid),
		Payable:           getEnv("FINREP_PAYABLE_CATEGORY", tax.Payable),
		PayableRepaid:     getEnv("FINREP_PAYABLE_REPAID_CATEGORY", tax.PayableRepaid),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogPretty: getEnvAsBool("LOG_PRETTY", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is consistent.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("FINREP_DATA_DIR is required")
	}
	switch c.RateBackend {
	case "yahoo":
	case "eodhd":
		if c.EODHDAPIKey == "" {
			return fmt.Errorf("EODHD_API_KEY is required with the eodhd rate backend")
		}
	default:
		return fmt.Errorf("unknown FINREP_RATE_BACKEND %q, want yahoo or eodhd", c.RateBackend)
	}
	switch c.CacheBackend {
	case "file", "sqlite":
	default:
		return fmt.Errorf("unknown FINREP_CACHE_BACKEND %q, want file or sqlite", c.CacheBackend)
	}
	if c.RateBufferDays < 0 {
		return fmt.Errorf("FINREP_RATE_BUFFER_DAYS must not be negative: %d", c.RateBufferDays)
	}
	currencies, err := c.CurrencySet()
	if err != nil {
		return err
	}
	return currencies.Validate(c.TargetCurrency, "FINREP_TARGET_CURRENCY")
}

// CurrencySet returns the recognized currencies.
func (c *Config) CurrencySet() (finrep.Currencies, error) {
	return finrep.NewCurrencies(c.Currencies...)
}

// Taxonomy returns the configured record categories.
func (c *Config) Taxonomy() finrep.Taxonomy {
	return finrep.Taxonomy{
		Income:           c.IncomeCategories,
		Savings:          c.SavingsCategories,
		Investments:      c.InvestCategories,
		Receivable:       c.Receivable,
		ReceivableRepaid: c.ReceivableRepaid,
		Payable:          c.Payable,
		PayableRepaid:    c.PayableRepaid,
	}
}

// RatesDir is where the file cache backend stores rate series.
func (c *Config) RatesDir() string { return filepath.Join(c.DataDir, "rates") }

// DatabasePath is the sqlite cache backend database.
func (c *Config) DatabasePath() string { return filepath.Join(c.DataDir, "rates.db") }

// HTTPCacheDir is where HTTP responses are cached.
func (c *Config) HTTPCacheDir() string { return filepath.Join(c.DataDir, "http") }

func defaultDataDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "finrep")
	}
	return ".finrep"
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// getEnvAsList splits a comma separated value, blanks are dropped.
func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var list []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			list = append(list, v)
		}
	}
	return list
}
