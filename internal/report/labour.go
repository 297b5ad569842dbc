package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"site-cost-bot/internal/allocation"
	"site-cost-bot/internal/models"
)

const unknownName = "Unknown"

// WorkerLabour - затраты одного работника внутри проекта
type WorkerLabour struct {
	Worker *models.Worker
	Days   int
	Cost   decimal.Decimal
}

// ProjectLabour - затраты на труд по проекту. TotalDays считает
// уникальные пары (работник, день), а не записи.
type ProjectLabour struct {
	Project   *models.Project
	TotalDays int
	TotalCost decimal.Decimal
	Workers   []WorkerLabour
}

// LabourRow - строка детального отчета по труду
type LabourRow struct {
	LogDate     time.Time
	ProjectName string
	PhaseName   string
	TaskName    string
	WorkerName  string
	HoursWorked decimal.Decimal
	Scope       string
	DailyRate   decimal.Decimal
	Cost        decimal.Decimal
}

type projectGroup struct {
	project     *models.Project
	allocations []allocation.Allocation
}

// groupByProject - группы в порядке первого появления, записи без проекта пропускаются
func groupByProject(allocations []allocation.Allocation) []projectGroup {
	var groups []projectGroup
	index := make(map[uint]int)
	for _, a := range allocations {
		if a.Log.Project == nil {
			continue
		}
		i, ok := index[a.ProjectID]
		if !ok {
			i = len(groups)
			index[a.ProjectID] = i
			groups = append(groups, projectGroup{project: a.Log.Project})
		}
		groups[i].allocations = append(groups[i].allocations, a)
	}
	return groups
}

func summarize(allocations []allocation.Allocation) (int, decimal.Decimal) {
	days := make(map[allocation.WorkerDay]bool)
	total := decimal.Zero
	for _, a := range allocations {
		days[allocation.WorkerDay{WorkerID: a.WorkerID, Date: a.LogDate}] = true
		total = total.Add(a.Cost)
	}
	return len(days), total
}

// LabourByProject - затраты на труд по проектам с разбивкой по работникам
func (d *Dataset) LabourByProject() []ProjectLabour {
	groups := groupByProject(d.Allocations)
	result := make([]ProjectLabour, 0, len(groups))
	for _, group := range groups {
		days, total := summarize(group.allocations)
		result = append(result, ProjectLabour{
			Project:   group.project,
			TotalDays: days,
			TotalCost: total,
			Workers:   workersOf(group.allocations),
		})
	}
	return result
}

// LabourSummary - те же итоги, одна строка на проект
func (d *Dataset) LabourSummary() []ProjectLabour {
	groups := groupByProject(d.Allocations)
	result := make([]ProjectLabour, 0, len(groups))
	for _, group := range groups {
		days, total := summarize(group.allocations)
		result = append(result, ProjectLabour{
			Project:   group.project,
			TotalDays: days,
			TotalCost: total,
		})
	}
	return result
}

func workersOf(allocations []allocation.Allocation) []WorkerLabour {
	var (
		workers []WorkerLabour
		ids     []uint
	)
	index := make(map[uint]int)
	days := make(map[uint]map[time.Time]bool)
	for _, a := range allocations {
		if a.Log.Worker == nil {
			continue
		}
		i, ok := index[a.WorkerID]
		if !ok {
			i = len(workers)
			index[a.WorkerID] = i
			workers = append(workers, WorkerLabour{Worker: a.Log.Worker, Cost: decimal.Zero})
			ids = append(ids, a.WorkerID)
			days[a.WorkerID] = make(map[time.Time]bool)
		}
		workers[i].Cost = workers[i].Cost.Add(a.Cost)
		days[a.WorkerID][a.LogDate] = true
	}
	for i := range workers {
		workers[i].Days = len(days[ids[i]])
	}
	return workers
}

// LabourDetail - строка на каждую запись, сортировка по (дата, проект, работник).
// Стоимость берется из того же распределения, что и в сводных отчетах.
func (d *Dataset) LabourDetail() []LabourRow {
	rows := make([]LabourRow, 0, len(d.Allocations))
	for _, a := range d.Allocations {
		log := a.Log
		projectName := log.ProjectName()
		if projectName == "" {
			projectName = unknownName
		}
		rows = append(rows, LabourRow{
			LogDate:     a.LogDate,
			ProjectName: projectName,
			PhaseName:   log.Task.PhaseName(),
			TaskName:    log.TaskName(),
			WorkerName:  log.WorkerName(),
			HoursWorked: log.HoursWorked,
			Scope:       log.Scope,
			DailyRate:   a.DailyRate,
			Cost:        a.Cost,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].LogDate.Equal(rows[j].LogDate) {
			return rows[i].LogDate.Before(rows[j].LogDate)
		}
		if rows[i].ProjectName != rows[j].ProjectName {
			return rows[i].ProjectName < rows[j].ProjectName
		}
		return rows[i].WorkerName < rows[j].WorkerName
	})
	return rows
}

// TotalLabour - общая стоимость труда
func (d *Dataset) TotalLabour() decimal.Decimal {
	return allocation.Total(d.Allocations)
}

// TotalHours - сумма отработанных часов
func (d *Dataset) TotalHours() decimal.Decimal {
	total := decimal.Zero
	for _, log := range d.Logs {
		total = total.Add(log.HoursWorked)
	}
	return total
}
