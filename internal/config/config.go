package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"site-cost-bot/internal/money"
)

type Config struct {
	TelegramToken   string
	BaseAdminChatID int64
	DatabaseURL     string
	Debug           bool
	LogLevel        logrus.Level

	BaseCurrency   string
	AltCurrency    string
	CASRate        decimal.Decimal
	CASSRate       decimal.Decimal
	IncomeTaxRate  decimal.Decimal
	VATRates       []decimal.Decimal
	DefaultVATRate decimal.Decimal

	FXAPIKey        string
	FXAPIURL        string
	FXFetchInterval time.Duration

	problems []string
}

var instance *Config
var once sync.Once

// GetConfig читает окружение один раз. Отсутствие .env не ошибка:
// переменные могут прийти из окружения контейнера.
func GetConfig() *Config {
	once.Do(func() {
		if err := godotenv.Load(); err != nil {
			logrus.WithError(err).Warn("No .env file loaded, using process environment")
		}
		instance = Load()
	})

	return instance
}

// Load собирает конфигурацию из текущего окружения
func Load() *Config {
	defaults := money.DefaultConfig()
	cfg := &Config{}

	cfg.TelegramToken = getEnv("TELEGRAM_BOT_TOKEN", "")
	cfg.BaseAdminChatID = getEnvAsInt("BASE_ADMIN_CHAT_ID", 0)
	cfg.DatabaseURL = getEnv("DATABASE_URL", "site_cost.db")
	cfg.Debug = getEnvAsBool("BOT_DEBUG", false)

	cfg.LogLevel = logrus.InfoLevel
	if raw := getEnv("LOG_LEVEL", ""); raw != "" {
		level, err := logrus.ParseLevel(raw)
		if err != nil {
			cfg.problems = append(cfg.problems, fmt.Sprintf("LOG_LEVEL: %q", raw))
		} else {
			cfg.LogLevel = level
		}
	}

	cfg.BaseCurrency = strings.ToUpper(getEnv("BASE_CURRENCY", defaults.BaseCurrency))
	cfg.AltCurrency = strings.ToUpper(getEnv("ALT_CURRENCY", defaults.AltCurrency))
	cfg.CASRate = cfg.getEnvAsDecimal("CAS_RATE", defaults.SocialRate)
	cfg.CASSRate = cfg.getEnvAsDecimal("CASS_RATE", defaults.HealthRate)
	cfg.IncomeTaxRate = cfg.getEnvAsDecimal("INCOME_TAX_RATE", defaults.IncomeTaxRate)
	cfg.DefaultVATRate = cfg.getEnvAsDecimal("DEFAULT_VAT_RATE", defaults.DefaultVATRate)

	cfg.VATRates = defaults.VATRates
	if raw := getEnv("VAT_RATES", ""); raw != "" {
		rates, err := parseRateList(raw)
		if err != nil {
			cfg.problems = append(cfg.problems, fmt.Sprintf("VAT_RATES: %v", err))
		} else {
			cfg.VATRates = rates
		}
	}

	cfg.FXAPIKey = getEnv("EXCHANGERATE_API_KEY", "")
	cfg.FXAPIURL = getEnv("FX_API_URL", "")
	cfg.FXFetchInterval = cfg.getEnvAsDuration("FX_FETCH_INTERVAL", 24*time.Hour)

	return cfg
}

// MoneyConfig - налоговые ставки и валюты для денежных расчетов
func (c *Config) MoneyConfig() money.Config {
	return money.Config{
		SocialRate:     c.CASRate,
		HealthRate:     c.CASSRate,
		IncomeTaxRate:  c.IncomeTaxRate,
		VATRates:       c.VATRates,
		DefaultVATRate: c.DefaultVATRate,
		BaseCurrency:   c.BaseCurrency,
		AltCurrency:    c.AltCurrency,
	}
}

// Validate возвращает все найденные проблемы разом
func (c *Config) Validate() error {
	var result *multierror.Error

	for _, problem := range c.problems {
		result = multierror.Append(result, fmt.Errorf("invalid value %s", problem))
	}
	if c.TelegramToken == "" {
		result = multierror.Append(result, fmt.Errorf("TELEGRAM_BOT_TOKEN is required"))
	}
	if c.BaseAdminChatID == 0 {
		result = multierror.Append(result, fmt.Errorf("BASE_ADMIN_CHAT_ID is required"))
	}
	if c.DatabaseURL == "" {
		result = multierror.Append(result, fmt.Errorf("DATABASE_URL is required"))
	}
	if len(c.BaseCurrency) != 3 || len(c.AltCurrency) != 3 || c.BaseCurrency == c.AltCurrency {
		result = multierror.Append(result, fmt.Errorf("currencies %q/%q must be two distinct ISO codes", c.BaseCurrency, c.AltCurrency))
	}

	for name, rate := range map[string]decimal.Decimal{
		"CAS_RATE":         c.CASRate,
		"CASS_RATE":        c.CASSRate,
		"INCOME_TAX_RATE":  c.IncomeTaxRate,
		"DEFAULT_VAT_RATE": c.DefaultVATRate,
	} {
		if rate.IsNegative() || rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			result = multierror.Append(result, fmt.Errorf("%s must be in [0, 1), got %s", name, rate))
		}
	}
	if !c.MoneyConfig().ValidVATRate(c.DefaultVATRate) {
		result = multierror.Append(result, fmt.Errorf("DEFAULT_VAT_RATE %s is not in VAT_RATES", c.DefaultVATRate))
	}
	if c.FXFetchInterval <= 0 {
		result = multierror.Append(result, fmt.Errorf("FX_FETCH_INTERVAL must be positive"))
	}

	return result.ErrorOrNil()
}

func getEnv(key string, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return strings.TrimSpace(value)
	}

	return defaultVal
}

func getEnvAsBool(name string, defaultVal bool) bool {
	valStr := getEnv(name, "")
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}

	return defaultVal
}

func getEnvAsInt(name string, defaultVal int64) int64 {
	valStr := getEnv(name, "")
	if val, err := strconv.ParseInt(valStr, 10, 64); err == nil {
		return val
	}

	return defaultVal
}

func (c *Config) getEnvAsDuration(name string, defaultVal time.Duration) time.Duration {
	valStr := getEnv(name, "")
	if valStr == "" {
		return defaultVal
	}
	val, err := time.ParseDuration(valStr)
	if err != nil {
		c.problems = append(c.problems, fmt.Sprintf("%s: %q", name, valStr))
		return defaultVal
	}

	return val
}

func (c *Config) getEnvAsDecimal(name string, defaultVal decimal.Decimal) decimal.Decimal {
	valStr := getEnv(name, "")
	if valStr == "" {
		return defaultVal
	}
	val, err := decimal.NewFromString(valStr)
	if err != nil {
		c.problems = append(c.problems, fmt.Sprintf("%s: %q", name, valStr))
		return defaultVal
	}

	return val
}

func parseRateList(raw string) ([]decimal.Decimal, error) {
	var rates []decimal.Decimal
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		rate, err := decimal.NewFromString(part)
		if err != nil {
			return nil, fmt.Errorf("bad rate %q", part)
		}
		rates = append(rates, rate)
	}
	if len(rates) == 0 {
		return nil, fmt.Errorf("empty list")
	}
	return rates, nil
}
