package repository

import (
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"site-cost-bot/internal/models"
	"site-cost-bot/pkg/effective"
)

// TaskQuery - выборка задач по проектам, этапам и id (пустой список = без условия)
type TaskQuery struct {
	ProjectIDs []uint
	PhaseIDs   []uint
	TaskIDs    []uint
}

// EntryQuery - выборка записей за период (включительно)
type EntryQuery struct {
	From       time.Time
	To         time.Time
	ProjectIDs []uint
	TaskIDs    []uint
	WorkerIDs  []uint
}

// GormReportRepository читает данные для отчетов. Только не удаленные записи,
// но связи (проект, задача, этап, работник) подгружаются и для удаленных.
type GormReportRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{
		db:     db,
		logger: newLogger(),
	}
}

// unscoped - условие Preload: удаленный проект или работник не отрывает от
// отчета их записи, иначе итоги по проектам расходятся с общими
func unscoped(db *gorm.DB) *gorm.DB {
	return db.Unscoped()
}

func (r *GormReportRepository) TaskIDs(query TaskQuery) ([]uint, error) {
	scope := r.db.Model(&models.Task{})
	if len(query.ProjectIDs) > 0 {
		scope = scope.Where("project_id IN ?", query.ProjectIDs)
	}
	if len(query.PhaseIDs) > 0 {
		scope = scope.Where("phase_id IN ?", query.PhaseIDs)
	}
	if len(query.TaskIDs) > 0 {
		scope = scope.Where("id IN ?", query.TaskIDs)
	}

	var ids []uint
	if err := scope.Order("id").Pluck("id", &ids).Error; err != nil {
		r.logger.WithError(err).Error("Failed to resolve task filter")
		return nil, err
	}
	return ids, nil
}

func (r *GormReportRepository) DailyLogs(query EntryQuery) ([]*models.DailyLog, error) {
	scope := r.db.
		Preload("Project", unscoped).
		Preload("Task", unscoped).
		Preload("Task.Phase", unscoped).
		Preload("Worker", unscoped).
		Where("log_date >= ? AND log_date <= ?", effective.Day(query.From), effective.Day(query.To))
	if len(query.ProjectIDs) > 0 {
		scope = scope.Where("project_id IN ?", query.ProjectIDs)
	}
	if len(query.TaskIDs) > 0 {
		scope = scope.Where("task_id IN ?", query.TaskIDs)
	}
	if len(query.WorkerIDs) > 0 {
		scope = scope.Where("worker_id IN ?", query.WorkerIDs)
	}

	var logs []*models.DailyLog
	if err := scope.Order("log_date, id").Find(&logs).Error; err != nil {
		r.logger.WithError(err).Error("Failed to load daily logs for report")
		return nil, err
	}

	r.logger.WithFields(logrus.Fields{
		"from":  query.From.Format(dateFormat),
		"to":    query.To.Format(dateFormat),
		"count": len(logs),
	}).Debug("Loaded daily logs for report")
	return logs, nil
}

func (r *GormReportRepository) MaterialEntries(query EntryQuery) ([]*models.MaterialEntry, error) {
	scope := r.db.
		Preload("Project", unscoped).
		Preload("Task", unscoped).
		Preload("Task.Phase", unscoped).
		Where("date >= ? AND date <= ?", effective.Day(query.From), effective.Day(query.To))
	if len(query.ProjectIDs) > 0 {
		scope = scope.Where("project_id IN ?", query.ProjectIDs)
	}
	if len(query.TaskIDs) > 0 {
		scope = scope.Where("task_id IN ?", query.TaskIDs)
	}

	var entries []*models.MaterialEntry
	if err := scope.Order("date, id").Find(&entries).Error; err != nil {
		r.logger.WithError(err).Error("Failed to load material entries for report")
		return nil, err
	}
	return entries, nil
}

func (r *GormReportRepository) Salaries(workerIDs []uint) ([]*models.WorkerSalary, error) {
	if len(workerIDs) == 0 {
		return nil, nil
	}

	var salaries []*models.WorkerSalary
	if err := r.db.Where("worker_id IN ?", workerIDs).Order("worker_id, effective_from").Find(&salaries).Error; err != nil {
		r.logger.WithError(err).Error("Failed to load salaries for report")
		return nil, err
	}
	return salaries, nil
}
