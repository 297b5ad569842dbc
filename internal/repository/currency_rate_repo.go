package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"site-cost-bot/internal/models"
)

var ErrInvalidCurrencyRate = errors.New("invalid currency rate")

type CurrencyRateRepository interface {
	Upsert(rate *models.CurrencyRate) error
	Latest(base, quote string) (*models.CurrencyRate, error)
	LatestRate(base, quote string) (*decimal.Decimal, error)
}

type GormCurrencyRateRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormCurrencyRateRepository(db *gorm.DB) (*GormCurrencyRateRepository, error) {
	logger := newLogger()

	// Автомиграция
	if err := db.AutoMigrate(&models.CurrencyRate{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate currency_rates table")
		return nil, err
	}

	logger.Info("Currency rate repository initialized")

	return &GormCurrencyRateRepository{
		db:     db,
		logger: logger,
	}, nil
}

// Upsert создает курс или обновляет существующий на ту же дату и пару
func (r *GormCurrencyRateRepository) Upsert(rate *models.CurrencyRate) error {
	rate.BaseCurrency = strings.ToUpper(rate.BaseCurrency)
	rate.QuoteCurrency = strings.ToUpper(rate.QuoteCurrency)

	fields := logrus.Fields{
		"date":   rate.Date.Format(dateFormat),
		"pair":   rate.BaseCurrency + "/" + rate.QuoteCurrency,
		"rate":   rate.Rate.String(),
		"source": rate.Source,
	}

	if !rate.IsValid() {
		r.logger.WithFields(fields).Warn("Invalid currency rate")
		return ErrInvalidCurrencyRate
	}

	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "base_currency"}, {Name: "quote_currency"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"rate", "source", "updated_at"}),
	}).Create(rate)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to upsert currency rate")
		return fmt.Errorf("upsert currency rate: %w", result.Error)
	}

	r.logger.WithFields(fields).Info("Currency rate stored")
	return nil
}

// Latest - самый свежий курс пары, независимо от периода отчета
func (r *GormCurrencyRateRepository) Latest(base, quote string) (*models.CurrencyRate, error) {
	var rate models.CurrencyRate
	result := r.db.
		Where("base_currency = ? AND quote_currency = ?", strings.ToUpper(base), strings.ToUpper(quote)).
		Order("date DESC").
		First(&rate)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		r.logger.WithFields(logrus.Fields{
			"base":  base,
			"quote": quote,
		}).Debug("No currency rate found")
		return nil, nil
	}
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get latest currency rate")
		return nil, result.Error
	}
	return &rate, nil
}

// LatestRate реализует money.RateSource
func (r *GormCurrencyRateRepository) LatestRate(base, quote string) (*decimal.Decimal, error) {
	rate, err := r.Latest(base, quote)
	if err != nil || rate == nil {
		return nil, err
	}
	value := rate.Rate
	return &value, nil
}
