package repository

import (
	"errors"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"site-cost-bot/internal/models"
)

var (
	ErrInvalidDailyLog  = errors.New("некорректные данные записи о работе")
	ErrDailyLogNotFound = errors.New("запись о работе не найдена")
)

type DailyLogRepository interface {
	Create(log *models.DailyLog) error
	GetByID(id uint) (*models.DailyLog, error)
	GetByWorkerID(workerID uint) ([]*models.DailyLog, error)
	Discard(id uint) error
}

type GormDailyLogRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormDailyLogRepository(db *gorm.DB) (*GormDailyLogRepository, error) {
	logger := newLogger()

	// Автомиграция
	if err := db.AutoMigrate(&models.DailyLog{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate daily_logs table")
		return nil, err
	}

	logger.Info("Daily log repository initialized")

	return &GormDailyLogRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *GormDailyLogRepository) Create(log *models.DailyLog) error {
	fields := logrus.Fields{
		"worker_id": log.WorkerID,
		"task_id":   log.TaskID,
		"log_date":  log.LogDate.Format(dateFormat),
	}
	r.logger.WithFields(fields).Info("Creating daily log")

	if !log.IsValid() {
		r.logger.WithFields(fields).Warn("Invalid daily log data")
		return ErrInvalidDailyLog
	}

	if result := r.db.Create(log); result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to create daily log")
		return result.Error
	}

	r.logger.WithField("id", log.ID).Info("Daily log created successfully")
	return nil
}

func (r *GormDailyLogRepository) GetByID(id uint) (*models.DailyLog, error) {
	var log models.DailyLog
	result := r.db.Preload("Project", unscoped).Preload("Task", unscoped).Preload("Worker", unscoped).First(&log, id)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get daily log by ID")
		return nil, result.Error
	}
	return &log, nil
}

// GetByWorkerID - все записи работника по дате, для хронологии
func (r *GormDailyLogRepository) GetByWorkerID(workerID uint) ([]*models.DailyLog, error) {
	var logs []*models.DailyLog
	result := r.db.Preload("Project", unscoped).Preload("Task", unscoped).
		Where("worker_id = ?", workerID).
		Order("log_date, id").
		Find(&logs)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get daily logs by worker")
		return nil, result.Error
	}

	r.logger.WithFields(logrus.Fields{
		"worker_id": workerID,
		"count":     len(logs),
	}).Debug("Retrieved daily logs by worker")
	return logs, nil
}

func (r *GormDailyLogRepository) Discard(id uint) error {
	result := r.db.Delete(&models.DailyLog{}, id)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to discard daily log")
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrDailyLogNotFound
	}
	r.logger.WithField("id", id).Info("Daily log discarded")
	return nil
}
