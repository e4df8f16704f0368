// Package config loads runtime settings for the quoting engine.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"asphaltscope/services"
)

// EnvPrefix is prepended to every environment variable, e.g. ASPHALT_DENSITY.
const EnvPrefix = "ASPHALT"

// Keys, in viper's naming. Flags use the same names with hyphens.
const (
	KeyDensity            = "density"
	KeyDefaultWasteFactor = "default_waste_factor"
	KeyMaxWasteFactor     = "max_waste_factor"
	KeyQuoteValidityDays  = "quote_validity_days"
	KeyTrialDays          = "trial_days"
	KeySeed               = "seed"
)

// Config holds the settings the handlers and startup hooks read.
type Config struct {
	Density            decimal.Decimal
	DefaultWasteFactor decimal.Decimal
	MaxWasteFactor     decimal.Decimal
	QuoteValidityDays  int
	TrialDays          int
	Seed               bool
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Density:            services.DefaultDensity,
		DefaultWasteFactor: services.DefaultWasteFactor,
		MaxWasteFactor:     services.MaxWasteFactorForm,
		QuoteValidityDays:  30,
		TrialDays:          14,
		Seed:               true,
	}
}

// New returns a viper instance with defaults and environment lookup wired.
func New() *viper.Viper {
	def := Default()
	v := viper.New()
	v.SetDefault(KeyDensity, def.Density.String())
	v.SetDefault(KeyDefaultWasteFactor, def.DefaultWasteFactor.String())
	v.SetDefault(KeyMaxWasteFactor, def.MaxWasteFactor.String())
	v.SetDefault(KeyQuoteValidityDays, def.QuoteValidityDays)
	v.SetDefault(KeyTrialDays, def.TrialDays)
	v.SetDefault(KeySeed, def.Seed)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// BindFlags registers the settings as persistent flags on cmd (normally the
// PocketBase root command) and binds them to v. Flags only override the
// other sources when set explicitly.
func BindFlags(cmd *cobra.Command, v *viper.Viper) error {
	fs := cmd.PersistentFlags()
	registerFlags(fs)

	for _, key := range []string{
		KeyDensity, KeyDefaultWasteFactor, KeyMaxWasteFactor,
		KeyQuoteValidityDays, KeyTrialDays, KeySeed,
	} {
		if err := v.BindPFlag(key, fs.Lookup(flagName(key))); err != nil {
			return fmt.Errorf("bind flag %s: %w", key, err)
		}
	}
	return nil
}

func registerFlags(fs *pflag.FlagSet) {
	def := Default()
	fs.String(flagName(KeyDensity), def.Density.String(), "asphalt density in t/m³ used for tonnage")
	fs.String(flagName(KeyDefaultWasteFactor), def.DefaultWasteFactor.String(), "waste factor % applied to new jobs")
	fs.String(flagName(KeyMaxWasteFactor), def.MaxWasteFactor.String(), "highest waste factor % accepted on job forms")
	fs.Int(flagName(KeyQuoteValidityDays), def.QuoteValidityDays, "days a quote stays valid")
	fs.Int(flagName(KeyTrialDays), def.TrialDays, "trial length in days for new tenants")
	fs.Bool(flagName(KeySeed), def.Seed, "seed demo data on first start")
}

func flagName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

// LoadEnvFiles loads variables from the given .env files (".env" when none
// are named) into the process environment. Variables already set win.
// A missing file is not an error.
func LoadEnvFiles(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			log.Printf("config: could not read %s: %v", f, err)
		}
	}
}

// Load resolves the settings from v and validates them.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	var err error

	if cfg.Density, err = decimal.NewFromString(v.GetString(KeyDensity)); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", KeyDensity, err)
	}
	if cfg.DefaultWasteFactor, err = decimal.NewFromString(v.GetString(KeyDefaultWasteFactor)); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", KeyDefaultWasteFactor, err)
	}
	if cfg.MaxWasteFactor, err = decimal.NewFromString(v.GetString(KeyMaxWasteFactor)); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", KeyMaxWasteFactor, err)
	}
	cfg.QuoteValidityDays = v.GetInt(KeyQuoteValidityDays)
	cfg.TrialDays = v.GetInt(KeyTrialDays)
	cfg.Seed = v.GetBool(KeySeed)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings are usable by the calculator and forms.
func (c Config) Validate() error {
	var errs []error
	if c.Density.Sign() <= 0 {
		errs = append(errs, fmt.Errorf("%s must be greater than 0", KeyDensity))
	}
	if c.MaxWasteFactor.IsNegative() || c.MaxWasteFactor.GreaterThan(services.MaxCalcWasteFactor) {
		errs = append(errs, fmt.Errorf("%s must be between 0 and %s", KeyMaxWasteFactor, services.MaxCalcWasteFactor))
	}
	if c.DefaultWasteFactor.IsNegative() || c.DefaultWasteFactor.GreaterThan(c.MaxWasteFactor) {
		errs = append(errs, fmt.Errorf("%s must be between 0 and %s", KeyDefaultWasteFactor, KeyMaxWasteFactor))
	}
	if c.QuoteValidityDays < 1 {
		errs = append(errs, fmt.Errorf("%s must be at least 1", KeyQuoteValidityDays))
	}
	if c.TrialDays < 0 {
		errs = append(errs, fmt.Errorf("%s must not be negative", KeyTrialDays))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// Calculator returns a calculator using the configured density.
func (c Config) Calculator() services.Calculator {
	return services.NewCalculator(c.Density)
}

// JobRules returns the limits applied to job forms.
func (c Config) JobRules() services.JobRules {
	return services.JobRules{
		MaxWasteFactor:    c.MaxWasteFactor,
		QuoteValidityDays: c.QuoteValidityDays,
	}
}
