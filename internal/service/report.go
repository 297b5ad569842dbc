package service

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"site-cost-bot/internal/models"
	"site-cost-bot/internal/money"
	"site-cost-bot/internal/report"
	"site-cost-bot/internal/repository"
	"site-cost-bot/internal/salary"
)

// WorkerTimeline - хронология работника для вывода
type WorkerTimeline struct {
	Worker  *models.Worker
	Entries []report.TimelineEntry
}

type ReportService struct {
	source     report.Source
	logRepo    repository.DailyLogRepository
	salaryRepo repository.SalaryRepository
	workerRepo repository.WorkerRepository
	rates      money.RateSource
	cfg        money.Config
	now        func() time.Time
	logger     *logrus.Logger
}

func NewReportService(
	source report.Source,
	logRepo repository.DailyLogRepository,
	salaryRepo repository.SalaryRepository,
	workerRepo repository.WorkerRepository,
	rates money.RateSource,
	cfg money.Config,
) *ReportService {
	return &ReportService{
		source:     source,
		logRepo:    logRepo,
		salaryRepo: salaryRepo,
		workerRepo: workerRepo,
		rates:      rates,
		cfg:        cfg,
		now:        time.Now,
		logger:     newLogger(),
	}
}

// Generator собирает новый генератор отчета на один запрос.
// Некорректные параметры фильтра не дают ошибки.
func (s *ReportService) Generator(raw report.RawFilter) *report.Generator {
	filter := report.ParseFilter(raw, s.cfg, s.now())
	s.logger.WithFields(logrus.Fields{
		"from":     filter.From.Format("2006-01-02"),
		"to":       filter.To.Format("2006-01-02"),
		"projects": filter.ProjectIDs,
		"phases":   filter.PhaseIDs,
		"tasks":    filter.TaskIDs,
		"workers":  filter.WorkerIDs,
	}).Debug("Building report")
	return report.NewGenerator(filter, s.source)
}

// Converter - конвертер с курсом, прочитанным один раз на отчет
func (s *ReportService) Converter() *money.Converter {
	return money.NewConverter(s.cfg, s.rates).Pinned()
}

// Config возвращает денежную конфигурацию отчетов
func (s *ReportService) Config() money.Config {
	return s.cfg
}

// Timeline - все записи работника по дате, стоимость по желанию
func (s *ReportService) Timeline(workerID uint, withCost bool) (*WorkerTimeline, error) {
	worker, err := s.workerRepo.GetByID(workerID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения работника: %w", err)
	}
	if worker == nil {
		return nil, repository.ErrWorkerNotFound
	}

	logs, err := s.logRepo.GetByWorkerID(workerID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения записей: %w", err)
	}

	var rates *salary.Preloaded
	if withCost {
		records, err := s.salaryRepo.GetKeptByWorkerID(workerID)
		if err != nil {
			return nil, fmt.Errorf("ошибка получения зарплат: %w", err)
		}
		rates = salary.NewPreloaded(records)
	}

	return &WorkerTimeline{
		Worker:  worker,
		Entries: report.WorkerTimeline(workerID, logs, rates, withCost),
	}, nil
}
