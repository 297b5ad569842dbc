package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"site-cost-bot/internal/models"
	"site-cost-bot/internal/money"
	"site-cost-bot/internal/repository"
	"site-cost-bot/pkg/effective"
	"site-cost-bot/pkg/fx"
)

const (
	fxMaxAttempts    = 3
	fxInitialBackoff = time.Second
)

// RateFetcher - источник курса пары на дату
type RateFetcher interface {
	Rate(ctx context.Context, base, quote string, date time.Time) (decimal.Decimal, error)
}

// FXService получает курс base->alt и сохраняет его. Единственный писатель
// таблицы курсов; отчеты только читают ее.
type FXService struct {
	fetcher RateFetcher
	repo    repository.CurrencyRateRepository
	cfg     money.Config
	source  string
	group   singleflight.Group
	sleep   func(ctx context.Context, d time.Duration) error
	logger  *logrus.Logger
}

func NewFXService(fetcher RateFetcher, repo repository.CurrencyRateRepository, cfg money.Config) *FXService {
	return &FXService{
		fetcher: fetcher,
		repo:    repo,
		cfg:     cfg,
		source:  fx.ProviderName,
		sleep:   sleepContext,
		logger:  newLogger(),
	}
}

// FetchAndStore получает курс на дату (до трех попыток с экспоненциальной
// паузой 1s, 2s) и сохраняет его. Повторный запрос за ту же дату обновляет запись.
// Одновременные запросы за одну дату выполняются один раз.
func (s *FXService) FetchAndStore(ctx context.Context, date time.Time) (decimal.Decimal, error) {
	day := effective.Day(date)
	result, err, _ := s.group.Do(day.Format("2006-01-02"), func() (interface{}, error) {
		return s.fetchAndStore(ctx, day)
	})
	if err != nil {
		return decimal.Zero, err
	}
	return result.(decimal.Decimal), nil
}

func (s *FXService) fetchAndStore(ctx context.Context, day time.Time) (decimal.Decimal, error) {
	fields := logrus.Fields{
		"date": day.Format("2006-01-02"),
		"pair": s.cfg.BaseCurrency + "/" + s.cfg.AltCurrency,
	}

	rate, err := s.fetchWithRetry(ctx, day)
	if err != nil {
		s.logger.WithFields(fields).WithError(err).Error("Failed to fetch currency rate")
		return decimal.Zero, err
	}

	record := &models.CurrencyRate{
		Date:          day,
		BaseCurrency:  s.cfg.BaseCurrency,
		QuoteCurrency: s.cfg.AltCurrency,
		Rate:          rate,
		Source:        s.source,
	}
	if err := s.repo.Upsert(record); err != nil {
		return decimal.Zero, fmt.Errorf("failed to save rate: %w", err)
	}

	fields["rate"] = rate.String()
	s.logger.WithFields(fields).Info("Currency rate stored")
	return rate, nil
}

func (s *FXService) fetchWithRetry(ctx context.Context, day time.Time) (decimal.Decimal, error) {
	backoff := fxInitialBackoff
	for attempt := 1; ; attempt++ {
		rate, err := s.fetcher.Rate(ctx, s.cfg.BaseCurrency, s.cfg.AltCurrency, day)
		if err == nil {
			return rate, nil
		}
		// ошибки конфигурации не повторяем
		if !errors.Is(err, fx.ErrFetch) || attempt >= fxMaxAttempts {
			return decimal.Zero, err
		}

		s.logger.WithFields(logrus.Fields{
			"attempt": attempt,
			"wait":    backoff.String(),
		}).WithError(err).Warn("Currency rate fetch failed, retrying")

		if err := s.sleep(ctx, backoff); err != nil {
			return decimal.Zero, err
		}
		backoff *= 2
	}
}

// Latest - последний сохраненный курс base->alt или nil
func (s *FXService) Latest() (*models.CurrencyRate, error) {
	return s.repo.Latest(s.cfg.BaseCurrency, s.cfg.AltCurrency)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
