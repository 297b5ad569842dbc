package repository

import (
	"errors"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"site-cost-bot/internal/models"
)

var (
	ErrInvalidMaterialEntry  = errors.New("некорректные данные материала")
	ErrMaterialEntryNotFound = errors.New("запись о материале не найдена")
)

type MaterialEntryRepository interface {
	Create(entry *models.MaterialEntry) error
	GetByID(id uint) (*models.MaterialEntry, error)
	GetByProjectID(projectID uint) ([]*models.MaterialEntry, error)
	Discard(id uint) error
}

type GormMaterialEntryRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormMaterialEntryRepository(db *gorm.DB) (*GormMaterialEntryRepository, error) {
	logger := newLogger()

	// Автомиграция
	if err := db.AutoMigrate(&models.MaterialEntry{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate material_entries table")
		return nil, err
	}

	logger.Info("Material entry repository initialized")

	return &GormMaterialEntryRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *GormMaterialEntryRepository) Create(entry *models.MaterialEntry) error {
	fields := logrus.Fields{
		"project_id": entry.ProjectID,
		"date":       entry.Date.Format(dateFormat),
	}
	r.logger.WithFields(fields).Info("Creating material entry")

	if !entry.IsValid() {
		r.logger.WithFields(fields).Warn("Invalid material entry data")
		return ErrInvalidMaterialEntry
	}

	if result := r.db.Create(entry); result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to create material entry")
		return result.Error
	}

	r.logger.WithFields(logrus.Fields{
		"id":            entry.ID,
		"total_inc_vat": entry.TotalIncVAT.String(),
	}).Info("Material entry created successfully")
	return nil
}

func (r *GormMaterialEntryRepository) GetByID(id uint) (*models.MaterialEntry, error) {
	var entry models.MaterialEntry
	result := r.db.Preload("Project", unscoped).Preload("Task", unscoped).Preload("Task.Phase", unscoped).First(&entry, id)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get material entry by ID")
		return nil, result.Error
	}
	return &entry, nil
}

func (r *GormMaterialEntryRepository) GetByProjectID(projectID uint) ([]*models.MaterialEntry, error) {
	var entries []*models.MaterialEntry
	result := r.db.Where("project_id = ?", projectID).Order("date, id").Find(&entries)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get material entries by project")
		return nil, result.Error
	}
	return entries, nil
}

func (r *GormMaterialEntryRepository) Discard(id uint) error {
	result := r.db.Delete(&models.MaterialEntry{}, id)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to discard material entry")
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMaterialEntryNotFound
	}
	r.logger.WithField("id", id).Info("Material entry discarded")
	return nil
}
