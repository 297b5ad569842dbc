package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"site-cost-bot/internal/models"
	"site-cost-bot/internal/repository"
)

var (
	ErrEmptyName           = errors.New("название не может быть пустым")
	ErrPhaseOutsideProject = errors.New("этап не относится к проекту")
)

type WorkerService struct {
	repo   repository.WorkerRepository
	logger *logrus.Logger
}

func NewWorkerService(repo repository.WorkerRepository) *WorkerService {
	return &WorkerService{repo: repo, logger: newLogger()}
}

// CreateWorker создает активного работника
func (s *WorkerService) CreateWorker(fullName, trade string) (*models.Worker, error) {
	worker := &models.Worker{
		FullName: strings.TrimSpace(fullName),
		Trade:    strings.TrimSpace(trade),
		Active:   true,
	}
	if worker.FullName == "" {
		return nil, ErrEmptyName
	}
	if err := s.repo.Create(worker); err != nil {
		return nil, err
	}
	return worker, nil
}

// ActiveWorkers - активные работники по имени
func (s *WorkerService) ActiveWorkers() ([]*models.Worker, error) {
	return s.repo.GetActive()
}

// GetWorker возвращает работника или ошибку, если его нет
func (s *WorkerService) GetWorker(id uint) (*models.Worker, error) {
	worker, err := s.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения работника: %w", err)
	}
	if worker == nil {
		return nil, repository.ErrWorkerNotFound
	}
	return worker, nil
}

// Discard помечает работника удаленным
func (s *WorkerService) Discard(id uint) error {
	return s.repo.Discard(id)
}

type ProjectService struct {
	repo   repository.ProjectRepository
	logger *logrus.Logger
}

func NewProjectService(repo repository.ProjectRepository) *ProjectService {
	return &ProjectService{repo: repo, logger: newLogger()}
}

func (s *ProjectService) CreateProject(name, clientName string) (*models.Project, error) {
	project := &models.Project{
		Name:       strings.TrimSpace(name),
		ClientName: strings.TrimSpace(clientName),
		Status:     models.ProjectStatusPlanned,
	}
	if project.Name == "" {
		return nil, ErrEmptyName
	}
	if err := s.repo.CreateProject(project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) CreatePhase(projectID uint, name string) (*models.Phase, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyName
	}
	if err := s.requireProject(projectID); err != nil {
		return nil, err
	}

	phase := &models.Phase{ProjectID: projectID, Name: strings.TrimSpace(name)}
	if err := s.repo.CreatePhase(phase); err != nil {
		return nil, err
	}
	return phase, nil
}

// CreateTask создает задачу; этап, если указан, должен быть из того же проекта
func (s *ProjectService) CreateTask(projectID uint, phaseID *uint, name string) (*models.Task, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyName
	}
	if err := s.requireProject(projectID); err != nil {
		return nil, err
	}

	if phaseID != nil {
		phase, err := s.repo.GetPhaseByID(*phaseID)
		if err != nil {
			return nil, fmt.Errorf("ошибка получения этапа: %w", err)
		}
		if phase == nil || phase.ProjectID != projectID {
			s.logger.WithFields(logrus.Fields{
				"project_id": projectID,
				"phase_id":   *phaseID,
			}).Warn("Phase does not belong to project")
			return nil, ErrPhaseOutsideProject
		}
	}

	task := &models.Task{ProjectID: projectID, PhaseID: phaseID, Name: strings.TrimSpace(name)}
	if err := s.repo.CreateTask(task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *ProjectService) Projects() ([]*models.Project, error) {
	return s.repo.GetProjects()
}

func (s *ProjectService) requireProject(id uint) error {
	project, err := s.repo.GetProjectByID(id)
	if err != nil {
		return fmt.Errorf("ошибка получения проекта: %w", err)
	}
	if project == nil {
		return repository.ErrProjectNotFound
	}
	return nil
}
