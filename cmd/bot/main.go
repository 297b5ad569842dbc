package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"site-cost-bot/internal/config"
	"site-cost-bot/internal/handler"
	"site-cost-bot/internal/repository"
	"site-cost-bot/internal/service"
	"site-cost-bot/pkg/fx"
	"site-cost-bot/pkg/telegram"
)

func main() {
	logrus.Info("Initializing config...")
	cfg := config.GetConfig()
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("Invalid configuration: %v", err)
	}
	logrus.SetLevel(cfg.LogLevel)
	logrus.Info("Config initialized...")

	db, err := repository.OpenDatabase(cfg.DatabaseURL)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to open database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to get database instance")
	}

	workerRepo, err := repository.NewGormWorkerRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create worker repository")
	}
	salaryRepo, err := repository.NewGormSalaryRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create salary repository")
	}
	projectRepo, err := repository.NewGormProjectRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create project repository")
	}
	logRepo, err := repository.NewGormDailyLogRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create daily log repository")
	}
	materialRepo, err := repository.NewGormMaterialEntryRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create material entry repository")
	}
	rateRepo, err := repository.NewGormCurrencyRateRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create currency rate repository")
	}
	settingRepo, err := repository.NewGormSettingRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create setting repository")
	}

	// Настройки из БД перекрывают значения из окружения
	moneyCfg, err := service.NewSettingService(settingRepo).MoneyConfig(cfg.MoneyConfig())
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load money settings")
	}

	reportService := service.NewReportService(
		repository.NewGormReportRepository(db),
		logRepo,
		salaryRepo,
		workerRepo,
		rateRepo,
		moneyCfg,
	)
	fxService := service.NewFXService(fx.NewClient(cfg.FXAPIURL, cfg.FXAPIKey), rateRepo, moneyCfg)
	workerService := service.NewWorkerService(workerRepo)
	projectService := service.NewProjectService(projectRepo)
	salaryService := service.NewSalaryService(salaryRepo, workerRepo, moneyCfg)
	logService := service.NewDailyLogService(logRepo, projectRepo, workerRepo)
	materialService := service.NewMaterialService(materialRepo, projectRepo, moneyCfg)

	client, err := telegram.NewClient(cfg.TelegramToken, cfg.Debug)
	if err != nil {
		logrus.Fatal("Failed to create Telegram client:", err)
	}

	logrus.Infof("Authorized on account %s", client.Bot.Self.UserName)

	botHandler := handler.NewHandler(
		client,
		reportService,
		fxService,
		workerService,
		projectService,
		salaryService,
		logService,
		materialService,
		cfg,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.FXAPIKey != "" {
		go runFXTicker(ctx, fxService, cfg.FXFetchInterval)
	} else {
		logrus.Warn("EXCHANGERATE_API_KEY is not set, periodic rate fetch disabled")
	}

	updates := client.Bot.GetUpdatesChan(client.UpdateConfig)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go botHandler.HandleUpdates(updates)

	logrus.Info("Bot started. Press Ctrl+C to stop.")
	<-stop

	cancel()
	client.Stop()

	if err := sqlDB.Close(); err != nil {
		logrus.Infof("Error closing database: %v", err)
	}

	logrus.Info("Bot stopped gracefully")
}

// runFXTicker загружает курс при старте и далее раз в interval
func runFXTicker(ctx context.Context, fxService *service.FXService, interval time.Duration) {
	logrus.WithField("interval", interval.String()).Info("Currency rate fetch scheduled")

	fetch := func(now time.Time) {
		if _, err := fxService.FetchAndStore(ctx, now); err != nil && ctx.Err() == nil {
			logrus.WithError(err).Error("Periodic rate fetch failed")
		}
	}

	fetch(time.Now())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			fetch(now)
		}
	}
}
