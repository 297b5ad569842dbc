package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"site-cost-bot/internal/models"
	"site-cost-bot/internal/money"
	"site-cost-bot/internal/repository"
	"site-cost-bot/pkg/effective"
)

var ErrTaskOutsideProject = errors.New("задача не относится к проекту")

type MaterialService struct {
	materialRepo repository.MaterialEntryRepository
	projectRepo  repository.ProjectRepository
	cfg          money.Config
	logger       *logrus.Logger
}

func NewMaterialService(
	materialRepo repository.MaterialEntryRepository,
	projectRepo repository.ProjectRepository,
	cfg money.Config,
) *MaterialService {
	return &MaterialService{
		materialRepo: materialRepo,
		projectRepo:  projectRepo,
		cfg:          cfg,
		logger:       newLogger(),
	}
}

// AddEntry создает запись о материале: выводит цену за единицу в зависимости
// от режима НДС, затем итоги строки
func (s *MaterialService) AddEntry(input models.MaterialInput) (*models.MaterialEntry, error) {
	s.logger.WithFields(logrus.Fields{
		"project_id": input.ProjectID,
		"mode":       input.InputMode,
	}).Info("Adding material entry")

	rate := s.cfg.DefaultVATRate
	if input.VATRate != nil {
		rate = *input.VATRate
	}
	if !s.cfg.ValidVATRate(rate) {
		s.logger.WithField("vat_rate", rate.String()).Warn("Unsupported VAT rate")
		return nil, money.ErrUnsupportedVATRate
	}

	if err := s.checkTask(input.ProjectID, input.TaskID); err != nil {
		return nil, err
	}

	entry := &models.MaterialEntry{
		ProjectID:    input.ProjectID,
		TaskID:       input.TaskID,
		Date:         effective.Day(input.Date),
		Description:  strings.TrimSpace(input.Description),
		Quantity:     input.Quantity,
		Unit:         strings.TrimSpace(input.Unit),
		SupplierName: strings.TrimSpace(input.SupplierName),
		VATRate:      rate,
	}

	if err := entry.Derive(input.InputMode, input.UnitCostIncVAT, input.UnitCostExVAT); err != nil {
		s.logger.WithError(err).Warn("Failed to derive material costs")
		return nil, err
	}

	if err := s.materialRepo.Create(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Discard помечает запись удаленной
func (s *MaterialService) Discard(id uint) error {
	return s.materialRepo.Discard(id)
}

func (s *MaterialService) checkTask(projectID uint, taskID *uint) error {
	project, err := s.projectRepo.GetProjectByID(projectID)
	if err != nil {
		return fmt.Errorf("ошибка получения проекта: %w", err)
	}
	if project == nil {
		return repository.ErrProjectNotFound
	}
	if taskID == nil {
		return nil
	}

	task, err := s.projectRepo.GetTaskByID(*taskID)
	if err != nil {
		return fmt.Errorf("ошибка получения задачи: %w", err)
	}
	if task == nil || task.ProjectID != projectID {
		return ErrTaskOutsideProject
	}
	return nil
}
