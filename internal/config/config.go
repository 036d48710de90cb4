package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// FileName is the config file at the root of a review repo.
const FileName = "recon.yaml"

// Config represents the top-level recon.yaml configuration.
type Config struct {
	Company  CompanyConfig `yaml:"company"`
	Review   ReviewConfig  `yaml:"review"`
	Journals []Journal     `yaml:"journals,omitempty"`
	Rates    Rates         `yaml:"rates,omitempty"`
	Logging  LoggingConfig `yaml:"logging"`
	Git      GitConfig     `yaml:"git"`
}

// CompanyConfig identifies the company whose books are reviewed.
type CompanyConfig struct {
	Name     string `yaml:"name"`
	Currency string `yaml:"currency"`
}

// ReviewConfig holds the bank review filters applied to batch payment suggestions.
type ReviewConfig struct {
	AmountFilter          bool `yaml:"amount_filter"`
	TransactionTypeFilter bool `yaml:"transaction_type_filter"`
}

// Journal maps a bank feed to a bank journal.
type Journal struct {
	ID         int    `yaml:"id"`
	Name       string `yaml:"name"`
	Format     string `yaml:"format"`      // importer format, e.g. "chase"
	FilePrefix string `yaml:"file_prefix"` // import/<prefix>*.csv belongs to this journal
	Currency   string `yaml:"currency,omitempty"`
}

// LoggingConfig controls the CLI logger.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// ErrNoRate is returned when no exchange rate is configured for a currency pair.
var ErrNoRate = errors.New("no exchange rate")

// Rates maps "FROM/TO" to a decimal rate string, e.g. "EUR/USD": "1.08".
type Rates map[string]string

// Convert converts amount from one currency to another. An empty currency or
// the same currency on both sides is an identity conversion.
func (r Rates) Convert(amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	from, to = strings.ToUpper(from), strings.ToUpper(to)
	if from == "" || to == "" || from == to {
		return amount, nil
	}

	if s, ok := r[from+"/"+to]; ok {
		rate, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, fmt.Errorf("parsing rate %s/%s %q: %w", from, to, s, err)
		}
		return amount.Mul(rate), nil
	}

	if s, ok := r[to+"/"+from]; ok {
		rate, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, fmt.Errorf("parsing rate %s/%s %q: %w", to, from, s, err)
		}
		if rate.IsZero() {
			return decimal.Zero, fmt.Errorf("rate %s/%s is zero", to, from)
		}
		return amount.DivRound(rate, 8), nil
	}

	return decimal.Zero, fmt.Errorf("%w for %s/%s", ErrNoRate, from, to)
}

// JournalForFile returns the journal whose file prefix matches name.
func (c *Config) JournalForFile(name string) (Journal, bool) {
	lower := strings.ToLower(name)
	for _, j := range c.Journals {
		if j.FilePrefix != "" && strings.HasPrefix(lower, strings.ToLower(j.FilePrefix)) {
			return j, true
		}
	}
	return Journal{}, false
}

// JournalCurrency returns the journal's currency, falling back to the company's.
func (c *Config) JournalCurrency(journalID int) string {
	for _, j := range c.Journals {
		if j.ID == journalID && j.Currency != "" {
			return j.Currency
		}
	}
	return c.Company.Currency
}

// Load reads a recon.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	// Keys missing from the file keep their defaults; journals do not.
	cfg := Default("", "")
	cfg.Journals = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new review repo.
func Default(companyName, currency string) *Config {
	if currency == "" {
		currency = "USD"
	}
	return &Config{
		Company: CompanyConfig{
			Name:     companyName,
			Currency: currency,
		},
		Review: ReviewConfig{
			AmountFilter:          true,
			TransactionTypeFilter: true,
		},
		Journals: []Journal{
			{
				ID:         1,
				Name:       "Bank",
				Format:     "chase",
				FilePrefix: "chase",
			},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "Recon",
			AuthorEmail: "recon@cleared.dev",
		},
	}
}
