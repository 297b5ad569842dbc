package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"site-cost-bot/internal/models"
	"site-cost-bot/internal/repository"
	"site-cost-bot/pkg/effective"
)

// DailyLogInput - данные записи о работе. Hours == nil означает значение по умолчанию.
type DailyLogInput struct {
	ProjectID uint
	TaskID    uint
	WorkerID  uint
	Date      time.Time
	Hours     *decimal.Decimal
	Scope     string
}

type DailyLogService struct {
	logRepo     repository.DailyLogRepository
	projectRepo repository.ProjectRepository
	workerRepo  repository.WorkerRepository
	logger      *logrus.Logger
}

func NewDailyLogService(
	logRepo repository.DailyLogRepository,
	projectRepo repository.ProjectRepository,
	workerRepo repository.WorkerRepository,
) *DailyLogService {
	return &DailyLogService{
		logRepo:     logRepo,
		projectRepo: projectRepo,
		workerRepo:  workerRepo,
		logger:      newLogger(),
	}
}

// LogWork записывает работу работника над задачей за день.
// Несколько записей за один день допустимы.
func (s *DailyLogService) LogWork(input DailyLogInput) (*models.DailyLog, error) {
	hours := models.DefaultHoursWorked
	if input.Hours != nil {
		hours = *input.Hours
	}

	task, err := s.projectRepo.GetTaskByID(input.TaskID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения задачи: %w", err)
	}
	if task == nil || task.ProjectID != input.ProjectID {
		return nil, ErrTaskOutsideProject
	}

	worker, err := s.workerRepo.GetByID(input.WorkerID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения работника: %w", err)
	}
	if worker == nil {
		return nil, repository.ErrWorkerNotFound
	}

	log := &models.DailyLog{
		ProjectID:   input.ProjectID,
		TaskID:      input.TaskID,
		WorkerID:    input.WorkerID,
		LogDate:     effective.Day(input.Date),
		HoursWorked: hours,
		Scope:       strings.TrimSpace(input.Scope),
	}
	if err := s.logRepo.Create(log); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"id":        log.ID,
		"worker_id": log.WorkerID,
		"hours":     log.HoursWorked.String(),
	}).Info("Work logged")
	return log, nil
}

// Discard помечает запись удаленной
func (s *DailyLogService) Discard(id uint) error {
	return s.logRepo.Discard(id)
}
