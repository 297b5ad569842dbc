package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"site-cost-bot/internal/models"
	"site-cost-bot/internal/money"
	"site-cost-bot/internal/repository"
)

var ErrUnknownSetting = errors.New("неизвестная настройка")

type SettingService struct {
	repo   repository.SettingRepository
	logger *logrus.Logger
}

func NewSettingService(repo repository.SettingRepository) *SettingService {
	return &SettingService{repo: repo, logger: newLogger()}
}

// MoneyConfig накладывает сохраненные настройки на значения из окружения.
// Читается один раз при старте, дальше конфигурация передается явно.
func (s *SettingService) MoneyConfig(base money.Config) (money.Config, error) {
	values, err := s.repo.All()
	if err != nil {
		return base, fmt.Errorf("load settings: %w", err)
	}

	cfg := base
	rates := map[string]*decimal.Decimal{
		models.SettingCASRate:        &cfg.SocialRate,
		models.SettingCASSRate:       &cfg.HealthRate,
		models.SettingIncomeTaxRate:  &cfg.IncomeTaxRate,
		models.SettingDefaultVATRate: &cfg.DefaultVATRate,
	}
	for key, target := range rates {
		raw, ok := values[key]
		if !ok {
			continue
		}
		value, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			s.logger.WithFields(logrus.Fields{"key": key, "value": raw}).Warn("Ignoring invalid rate setting")
			continue
		}
		*target = value
	}

	if raw, ok := values[models.SettingVATRates]; ok {
		parsed, err := ParseRates(raw)
		if err != nil {
			s.logger.WithField("value", raw).Warn("Ignoring invalid VAT rate list")
		} else {
			cfg.VATRates = parsed
		}
	}

	if !cfg.ValidVATRate(cfg.DefaultVATRate) {
		return base, fmt.Errorf("%w: default %s not in %v", money.ErrUnsupportedVATRate, cfg.DefaultVATRate, cfg.VATRates)
	}
	return cfg, nil
}

// Set сохраняет настройку, значение проверяется
func (s *SettingService) Set(key, value string) error {
	switch key {
	case models.SettingCASRate, models.SettingCASSRate, models.SettingIncomeTaxRate, models.SettingDefaultVATRate:
		rate, err := decimal.NewFromString(strings.TrimSpace(value))
		if err != nil || rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("некорректная ставка %q", value)
		}
	case models.SettingVATRates:
		if _, err := ParseRates(value); err != nil {
			return err
		}
	case models.SettingFXProvider:
	default:
		return ErrUnknownSetting
	}
	return s.repo.Set(key, strings.TrimSpace(value))
}

// ParseRates разбирает список ставок через запятую
func ParseRates(raw string) ([]decimal.Decimal, error) {
	var rates []decimal.Decimal
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		rate, err := decimal.NewFromString(part)
		if err != nil {
			return nil, fmt.Errorf("некорректная ставка %q", part)
		}
		rates = append(rates, rate)
	}
	if len(rates) == 0 {
		return nil, errors.New("пустой список ставок")
	}
	return rates, nil
}
