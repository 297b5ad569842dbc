package repository

import (
	"errors"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"site-cost-bot/internal/models"
)

var ErrWorkerNotFound = errors.New("работник не найден")

type WorkerRepository interface {
	Create(worker *models.Worker) error
	Update(worker *models.Worker) error
	GetByID(id uint) (*models.Worker, error)
	GetActive() ([]*models.Worker, error)
	GetAll() ([]*models.Worker, error)
	Discard(id uint) error
}

type GormWorkerRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormWorkerRepository(db *gorm.DB) (*GormWorkerRepository, error) {
	logger := newLogger()

	// Автомиграция
	if err := db.AutoMigrate(&models.Worker{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate workers table")
		return nil, err
	}

	logger.Info("Worker repository initialized")

	return &GormWorkerRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *GormWorkerRepository) Create(worker *models.Worker) error {
	r.logger.WithField("full_name", worker.FullName).Info("Creating worker")

	if !worker.IsValid() {
		r.logger.WithField("full_name", worker.FullName).Warn("Invalid worker data")
		return errors.New("некорректные данные работника")
	}

	if result := r.db.Create(worker); result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to create worker")
		return result.Error
	}

	r.logger.WithField("id", worker.ID).Info("Worker created successfully")
	return nil
}

func (r *GormWorkerRepository) Update(worker *models.Worker) error {
	if !worker.IsValid() {
		r.logger.WithField("id", worker.ID).Warn("Invalid worker data for update")
		return errors.New("некорректные данные работника")
	}

	existing, err := r.GetByID(worker.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrWorkerNotFound
	}

	if result := r.db.Save(worker); result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to update worker")
		return result.Error
	}
	return nil
}

func (r *GormWorkerRepository) GetByID(id uint) (*models.Worker, error) {
	var worker models.Worker
	result := r.db.First(&worker, id)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		r.logger.WithField("id", id).Debug("Worker not found")
		return nil, nil
	}

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get worker by ID")
		return nil, result.Error
	}

	return &worker, nil
}

func (r *GormWorkerRepository) GetActive() ([]*models.Worker, error) {
	var workers []*models.Worker
	result := r.db.Where("active = ?", true).Order("full_name").Find(&workers)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get active workers")
		return nil, result.Error
	}
	return workers, nil
}

func (r *GormWorkerRepository) GetAll() ([]*models.Worker, error) {
	var workers []*models.Worker
	result := r.db.Order("full_name").Find(&workers)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get workers")
		return nil, result.Error
	}
	return workers, nil
}

// Discard помечает работника удаленным, история сохраняется
func (r *GormWorkerRepository) Discard(id uint) error {
	r.logger.WithField("id", id).Info("Discarding worker")

	result := r.db.Delete(&models.Worker{}, id)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to discard worker")
		return result.Error
	}
	if result.RowsAffected == 0 {
		r.logger.WithField("id", id).Warn("Worker not found for discard")
		return ErrWorkerNotFound
	}
	return nil
}
