package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"site-cost-bot/internal/models"
	"site-cost-bot/internal/money"
	"site-cost-bot/internal/repository"
	"site-cost-bot/internal/salary"
	"site-cost-bot/pkg/effective"
)

var ErrGrossNotPositive = errors.New("брутто должно быть больше нуля")

type SalaryService struct {
	salaryRepo repository.SalaryRepository
	workerRepo repository.WorkerRepository
	resolver   *salary.Resolver
	cfg        money.Config
	logger     *logrus.Logger
}

func NewSalaryService(
	salaryRepo repository.SalaryRepository,
	workerRepo repository.WorkerRepository,
	cfg money.Config,
) *SalaryService {
	return &SalaryService{
		salaryRepo: salaryRepo,
		workerRepo: workerRepo,
		resolver:   salary.NewResolver(salaryRepo),
		cfg:        cfg,
		logger:     newLogger(),
	}
}

// AddSalary добавляет запись зарплаты с датой начала действия
func (s *SalaryService) AddSalary(workerID uint, effectiveFrom time.Time, gross decimal.Decimal) (*models.WorkerSalary, error) {
	s.logger.WithFields(logrus.Fields{
		"worker_id":      workerID,
		"effective_from": effectiveFrom.Format("2006-01-02"),
	}).Info("Adding worker salary")

	if !gross.IsPositive() {
		return nil, ErrGrossNotPositive
	}

	worker, err := s.workerRepo.GetByID(workerID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения работника: %w", err)
	}
	if worker == nil {
		return nil, repository.ErrWorkerNotFound
	}

	record := &models.WorkerSalary{
		WorkerID:      workerID,
		EffectiveFrom: effective.Day(effectiveFrom),
		GrossMonthly:  gross,
	}
	record.ComputeDerivedFields(s.cfg)

	if err := s.salaryRepo.Create(record); err != nil {
		return nil, err
	}
	return record, nil
}

// UpdateGross меняет брутто и пересчитывает дневную ставку и нетто
func (s *SalaryService) UpdateGross(id uint, gross decimal.Decimal) (*models.WorkerSalary, error) {
	if !gross.IsPositive() {
		return nil, ErrGrossNotPositive
	}

	record, err := s.salaryRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения зарплаты: %w", err)
	}
	if record == nil {
		return nil, repository.ErrSalaryNotFound
	}

	record.GrossMonthly = gross
	record.ComputeDerivedFields(s.cfg)

	if err := s.salaryRepo.Update(record); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"id":         id,
		"daily_rate": record.DailyRate.String(),
		"net":        record.NetMonthly.String(),
	}).Info("Worker salary recalculated")
	return record, nil
}

// Retire помечает запись удаленной. Физически записи не удаляются.
func (s *SalaryService) Retire(id uint) error {
	return s.salaryRepo.Discard(id)
}

// History - вся история зарплат работника, включая удаленные записи
func (s *SalaryService) History(workerID uint) ([]*models.WorkerSalary, error) {
	return s.salaryRepo.GetHistoryByWorkerID(workerID)
}

// RateFor - запись зарплаты, действующая на дату, или nil
func (s *SalaryService) RateFor(workerID uint, date time.Time) (*models.WorkerSalary, error) {
	return s.resolver.RateFor(workerID, date)
}
