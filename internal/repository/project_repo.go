package repository

import (
	"errors"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"site-cost-bot/internal/models"
)

var ErrProjectNotFound = errors.New("проект не найден")

type ProjectRepository interface {
	CreateProject(project *models.Project) error
	CreatePhase(phase *models.Phase) error
	CreateTask(task *models.Task) error
	GetProjectByID(id uint) (*models.Project, error)
	GetPhaseByID(id uint) (*models.Phase, error)
	GetTaskByID(id uint) (*models.Task, error)
	GetProjects() ([]*models.Project, error)
	GetTasksByProjectID(projectID uint) ([]*models.Task, error)
	DiscardProject(id uint) error
}

type GormProjectRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormProjectRepository(db *gorm.DB) (*GormProjectRepository, error) {
	logger := newLogger()

	// Автомиграция
	if err := db.AutoMigrate(&models.Project{}, &models.Phase{}, &models.Task{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate project tables")
		return nil, err
	}

	logger.Info("Project repository initialized")

	return &GormProjectRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *GormProjectRepository) CreateProject(project *models.Project) error {
	if project.Status == "" {
		project.Status = models.ProjectStatusPlanned
	}
	if result := r.db.Create(project); result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to create project")
		return result.Error
	}
	r.logger.WithFields(logrus.Fields{
		"id":   project.ID,
		"name": project.Name,
	}).Info("Project created successfully")
	return nil
}

func (r *GormProjectRepository) CreatePhase(phase *models.Phase) error {
	if result := r.db.Create(phase); result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to create phase")
		return result.Error
	}
	r.logger.WithFields(logrus.Fields{
		"id":         phase.ID,
		"project_id": phase.ProjectID,
	}).Info("Phase created successfully")
	return nil
}

func (r *GormProjectRepository) CreateTask(task *models.Task) error {
	if result := r.db.Create(task); result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to create task")
		return result.Error
	}
	r.logger.WithFields(logrus.Fields{
		"id":         task.ID,
		"project_id": task.ProjectID,
	}).Info("Task created successfully")
	return nil
}

func (r *GormProjectRepository) GetProjectByID(id uint) (*models.Project, error) {
	var project models.Project
	result := r.db.First(&project, id)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get project by ID")
		return nil, result.Error
	}
	return &project, nil
}

func (r *GormProjectRepository) GetPhaseByID(id uint) (*models.Phase, error) {
	var phase models.Phase
	result := r.db.First(&phase, id)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get phase by ID")
		return nil, result.Error
	}
	return &phase, nil
}

func (r *GormProjectRepository) GetTaskByID(id uint) (*models.Task, error) {
	var task models.Task
	result := r.db.Preload("Phase").First(&task, id)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get task by ID")
		return nil, result.Error
	}
	return &task, nil
}

func (r *GormProjectRepository) GetProjects() ([]*models.Project, error) {
	var projects []*models.Project
	if result := r.db.Order("name").Find(&projects); result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get projects")
		return nil, result.Error
	}
	return projects, nil
}

func (r *GormProjectRepository) GetTasksByProjectID(projectID uint) ([]*models.Task, error) {
	var tasks []*models.Task
	result := r.db.Preload("Phase").Where("project_id = ?", projectID).Order("name").Find(&tasks)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get tasks by project")
		return nil, result.Error
	}
	return tasks, nil
}

func (r *GormProjectRepository) DiscardProject(id uint) error {
	r.logger.WithField("id", id).Info("Discarding project")

	result := r.db.Delete(&models.Project{}, id)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to discard project")
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProjectNotFound
	}
	return nil
}
