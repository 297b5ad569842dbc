package main

import (
	"context"
	"flag"
	"time"

	"github.com/sirupsen/logrus"

	"site-cost-bot/internal/config"
	"site-cost-bot/internal/repository"
	"site-cost-bot/internal/service"
	"site-cost-bot/pkg/fx"
)

// fxfetch загружает курс base->alt один раз, для запуска из cron
func main() {
	dateFlag := flag.String("date", "", "rate date YYYY-MM-DD, today by default")
	timeout := flag.Duration("timeout", time.Minute, "overall timeout")
	flag.Parse()

	cfg := config.GetConfig()
	logrus.SetLevel(cfg.LogLevel)

	date := time.Now()
	if *dateFlag != "" {
		parsed, err := time.Parse("2006-01-02", *dateFlag)
		if err != nil {
			logrus.Fatalf("Invalid -date %q: %v", *dateFlag, err)
		}
		date = parsed
	}

	db, err := repository.OpenDatabase(cfg.DatabaseURL)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to open database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to get database instance")
	}
	defer sqlDB.Close()

	rateRepo, err := repository.NewGormCurrencyRateRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create currency rate repository")
	}
	settingRepo, err := repository.NewGormSettingRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create setting repository")
	}

	moneyCfg, err := service.NewSettingService(settingRepo).MoneyConfig(cfg.MoneyConfig())
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load money settings")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	fxService := service.NewFXService(fx.NewClient(cfg.FXAPIURL, cfg.FXAPIKey), rateRepo, moneyCfg)
	rate, err := fxService.FetchAndStore(ctx, date)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to fetch currency rate")
	}

	logrus.WithFields(logrus.Fields{
		"date": date.Format("2006-01-02"),
		"pair": moneyCfg.BaseCurrency + "/" + moneyCfg.AltCurrency,
		"rate": rate.String(),
	}).Info("Currency rate updated")
}
