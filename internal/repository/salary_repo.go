package repository

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"site-cost-bot/internal/models"
)

var (
	ErrSalaryExists   = errors.New("зарплата с этой датой начала уже есть")
	ErrSalaryNotFound = errors.New("запись зарплаты не найдена")
	ErrInvalidSalary  = errors.New("некорректные данные зарплаты")
)

type SalaryRepository interface {
	Create(salary *models.WorkerSalary) error
	Update(salary *models.WorkerSalary) error
	GetByID(id uint) (*models.WorkerSalary, error)
	GetKeptByWorkerID(workerID uint) ([]*models.WorkerSalary, error)
	GetKeptByWorkerIDs(workerIDs []uint) ([]*models.WorkerSalary, error)
	GetHistoryByWorkerID(workerID uint) ([]*models.WorkerSalary, error)
	Discard(id uint) error
}

type GormSalaryRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormSalaryRepository(db *gorm.DB) (*GormSalaryRepository, error) {
	logger := newLogger()

	// Автомиграция
	if err := db.AutoMigrate(&models.WorkerSalary{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate worker_salaries table")
		return nil, err
	}

	logger.Info("Salary repository initialized")

	return &GormSalaryRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *GormSalaryRepository) Create(salary *models.WorkerSalary) error {
	fields := logrus.Fields{
		"worker_id":      salary.WorkerID,
		"effective_from": salary.EffectiveFrom.Format(dateFormat),
	}
	r.logger.WithFields(fields).Info("Creating worker salary")

	if !salary.IsValid() {
		r.logger.WithFields(fields).Warn("Invalid worker salary data")
		return ErrInvalidSalary
	}

	exists, err := r.keptExists(salary.WorkerID, salary.EffectiveFrom, 0)
	if err != nil {
		return err
	}
	if exists {
		r.logger.WithFields(fields).Warn("Salary already exists for this effective date")
		return ErrSalaryExists
	}

	if result := r.db.Create(salary); result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to create worker salary")
		return result.Error
	}

	r.logger.WithFields(logrus.Fields{
		"id":         salary.ID,
		"worker_id":  salary.WorkerID,
		"daily_rate": salary.DailyRate.String(),
	}).Info("Worker salary created successfully")
	return nil
}

func (r *GormSalaryRepository) Update(salary *models.WorkerSalary) error {
	if !salary.IsValid() {
		r.logger.WithField("id", salary.ID).Warn("Invalid worker salary data for update")
		return ErrInvalidSalary
	}

	existing, err := r.GetByID(salary.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrSalaryNotFound
	}

	exists, err := r.keptExists(salary.WorkerID, salary.EffectiveFrom, salary.ID)
	if err != nil {
		return err
	}
	if exists {
		return ErrSalaryExists
	}

	if result := r.db.Save(salary); result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to update worker salary")
		return result.Error
	}

	r.logger.WithFields(logrus.Fields{
		"id":         salary.ID,
		"daily_rate": salary.DailyRate.String(),
	}).Info("Worker salary updated successfully")
	return nil
}

func (r *GormSalaryRepository) GetByID(id uint) (*models.WorkerSalary, error) {
	var salary models.WorkerSalary
	result := r.db.First(&salary, id)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		r.logger.WithField("id", id).Debug("Worker salary not found")
		return nil, nil
	}

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get worker salary by ID")
		return nil, result.Error
	}

	return &salary, nil
}

func (r *GormSalaryRepository) GetKeptByWorkerID(workerID uint) ([]*models.WorkerSalary, error) {
	var salaries []*models.WorkerSalary
	result := r.db.Where("worker_id = ?", workerID).Order("effective_from").Find(&salaries)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get worker salaries")
		return nil, result.Error
	}
	return salaries, nil
}

func (r *GormSalaryRepository) GetKeptByWorkerIDs(workerIDs []uint) ([]*models.WorkerSalary, error) {
	if len(workerIDs) == 0 {
		return nil, nil
	}

	var salaries []*models.WorkerSalary
	result := r.db.Where("worker_id IN ?", workerIDs).Order("worker_id, effective_from").Find(&salaries)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get salaries for workers")
		return nil, result.Error
	}

	r.logger.WithFields(logrus.Fields{
		"workers": len(workerIDs),
		"count":   len(salaries),
	}).Debug("Retrieved salaries for workers")
	return salaries, nil
}

// GetHistoryByWorkerID - вся история, включая удаленные записи
func (r *GormSalaryRepository) GetHistoryByWorkerID(workerID uint) ([]*models.WorkerSalary, error) {
	var salaries []*models.WorkerSalary
	result := r.db.Unscoped().Where("worker_id = ?", workerID).Order("effective_from, id").Find(&salaries)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get worker salary history")
		return nil, result.Error
	}
	return salaries, nil
}

// Discard помечает запись удаленной; физически записи зарплаты не удаляются
func (r *GormSalaryRepository) Discard(id uint) error {
	r.logger.WithField("id", id).Info("Discarding worker salary")

	result := r.db.Delete(&models.WorkerSalary{}, id)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to discard worker salary")
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSalaryNotFound
	}
	return nil
}

func (r *GormSalaryRepository) keptExists(workerID uint, effectiveFrom time.Time, excludeID uint) (bool, error) {
	var count int64
	query := r.db.Model(&models.WorkerSalary{}).
		Where("worker_id = ? AND effective_from = ?", workerID, effectiveFrom)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if result := query.Count(&count); result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to check existing salary")
		return false, result.Error
	}
	return count > 0, nil
}
