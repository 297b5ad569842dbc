package repository

import (
	"errors"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"site-cost-bot/internal/models"
)

type SettingRepository interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	All() (map[string]string, error)
}

type GormSettingRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormSettingRepository(db *gorm.DB) (*GormSettingRepository, error) {
	logger := newLogger()

	// Автомиграция
	if err := db.AutoMigrate(&models.Setting{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate settings table")
		return nil, err
	}

	return &GormSettingRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *GormSettingRepository) Get(key string) (string, bool, error) {
	var setting models.Setting
	result := r.db.Where("key = ?", key).First(&setting)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if result.Error != nil {
		r.logger.WithError(result.Error).WithField("key", key).Error("Failed to get setting")
		return "", false, result.Error
	}
	return setting.Value, true, nil
}

func (r *GormSettingRepository) Set(key, value string) error {
	setting := &models.Setting{Key: key, Value: value}
	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(setting)
	if result.Error != nil {
		r.logger.WithError(result.Error).WithField("key", key).Error("Failed to save setting")
		return result.Error
	}

	r.logger.WithFields(logrus.Fields{
		"key":   key,
		"value": value,
	}).Info("Setting saved")
	return nil
}

func (r *GormSettingRepository) All() (map[string]string, error) {
	var settings []models.Setting
	if result := r.db.Find(&settings); result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get settings")
		return nil, result.Error
	}

	values := make(map[string]string, len(settings))
	for _, setting := range settings {
		values[setting.Key] = setting.Value
	}
	return values, nil
}
