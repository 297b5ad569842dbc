package report

import (
	"fmt"

	"site-cost-bot/internal/allocation"
	"site-cost-bot/internal/models"
	"site-cost-bot/internal/repository"
	"site-cost-bot/internal/salary"
)

// Source - доступ к отфильтрованным записям. Возвращает только не удаленные.
type Source interface {
	TaskIDs(query repository.TaskQuery) ([]uint, error)
	DailyLogs(query repository.EntryQuery) ([]*models.DailyLog, error)
	MaterialEntries(query repository.EntryQuery) ([]*models.MaterialEntry, error)
	Salaries(workerIDs []uint) ([]*models.WorkerSalary, error)
}

// Generator собирается на один запрос отчета: данные читаются один раз
// и живут только внутри генератора
type Generator struct {
	filter  Filter
	source  Source
	dataset *Dataset
}

func NewGenerator(filter Filter, source Source) *Generator {
	return &Generator{filter: filter, source: source}
}

// Filter возвращает фильтр генератора
func (g *Generator) Filter() Filter {
	return g.filter
}

// Load читает записи по фильтру и строит распределение затрат
func (g *Generator) Load() (*Dataset, error) {
	if g.dataset != nil {
		return g.dataset, nil
	}

	query := repository.EntryQuery{
		From:       g.filter.From,
		To:         g.filter.To,
		ProjectIDs: g.filter.ProjectIDs,
		WorkerIDs:  g.filter.WorkerIDs,
	}

	if g.filter.TaskFiltering() {
		taskIDs, err := g.source.TaskIDs(repository.TaskQuery{
			ProjectIDs: g.filter.ProjectIDs,
			PhaseIDs:   g.filter.PhaseIDs,
			TaskIDs:    g.filter.TaskIDs,
		})
		if err != nil {
			return nil, fmt.Errorf("resolve task filter: %w", err)
		}
		// фильтр не выбрал ни одной задачи - отчеты пустые, а не "без фильтра"
		if len(taskIDs) == 0 {
			g.dataset = NewDataset(nil, nil, salary.NewPreloaded(nil))
			return g.dataset, nil
		}
		query.TaskIDs = taskIDs
	}

	logs, err := g.source.DailyLogs(query)
	if err != nil {
		return nil, fmt.Errorf("load daily logs: %w", err)
	}

	// материалы не привязаны к работникам
	materialQuery := query
	materialQuery.WorkerIDs = nil
	materials, err := g.source.MaterialEntries(materialQuery)
	if err != nil {
		return nil, fmt.Errorf("load material entries: %w", err)
	}

	records, err := g.source.Salaries(workerIDs(logs))
	if err != nil {
		return nil, fmt.Errorf("load salaries: %w", err)
	}

	g.dataset = NewDataset(logs, materials, salary.NewPreloaded(records))
	return g.dataset, nil
}

// Dataset - загруженные записи и единственный проход распределения затрат.
// Все отчеты строятся из него.
type Dataset struct {
	Logs        []*models.DailyLog
	Materials   []*models.MaterialEntry
	Allocations []allocation.Allocation
}

func NewDataset(logs []*models.DailyLog, materials []*models.MaterialEntry, rates allocation.RateLookup) *Dataset {
	return &Dataset{
		Logs:        logs,
		Materials:   materials,
		Allocations: allocation.Allocate(logs, rates),
	}
}

func workerIDs(logs []*models.DailyLog) []uint {
	var ids []uint
	seen := make(map[uint]bool)
	for _, log := range logs {
		if seen[log.WorkerID] {
			continue
		}
		seen[log.WorkerID] = true
		ids = append(ids, log.WorkerID)
	}
	return ids
}
