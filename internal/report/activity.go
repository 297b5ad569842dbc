package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"site-cost-bot/internal/allocation"
	"site-cost-bot/internal/models"
	"site-cost-bot/pkg/effective"
)

// ActivityEntry - запись активности без стоимости
type ActivityEntry struct {
	Worker      *models.Worker
	Task        *models.Task
	WorkerName  string
	TaskName    string
	HoursWorked decimal.Decimal
	Scope       string
}

// ActivityProject - записи одного проекта за день
type ActivityProject struct {
	Project *models.Project
	Entries []ActivityEntry
}

// ActivityDay - активность за день
type ActivityDay struct {
	Date     time.Time
	Projects []ActivityProject
}

// ActivityReport группирует записи по дате (сначала новые), внутри дня по
// проекту (по имени), записи по (работник, задача). Стоимость не выводится.
func (d *Dataset) ActivityReport() []ActivityDay {
	logs := make([]*models.DailyLog, len(d.Logs))
	copy(logs, d.Logs)
	sort.SliceStable(logs, func(i, j int) bool {
		return effective.Day(logs[i].LogDate).After(effective.Day(logs[j].LogDate))
	})

	var days []ActivityDay
	for start := 0; start < len(logs); {
		date := effective.Day(logs[start].LogDate)
		end := start
		for end < len(logs) && effective.Day(logs[end].LogDate).Equal(date) {
			end++
		}
		days = append(days, ActivityDay{Date: date, Projects: activityProjects(logs[start:end])})
		start = end
	}
	return days
}

func activityProjects(logs []*models.DailyLog) []ActivityProject {
	var projects []ActivityProject
	index := make(map[uint]int)
	for _, log := range logs {
		if log.Project == nil {
			continue
		}
		i, ok := index[log.ProjectID]
		if !ok {
			i = len(projects)
			index[log.ProjectID] = i
			projects = append(projects, ActivityProject{Project: log.Project})
		}
		projects[i].Entries = append(projects[i].Entries, ActivityEntry{
			Worker:      log.Worker,
			Task:        log.Task,
			WorkerName:  log.WorkerName(),
			TaskName:    log.TaskName(),
			HoursWorked: log.HoursWorked,
			Scope:       log.Scope,
		})
	}

	sort.SliceStable(projects, func(i, j int) bool {
		return projects[i].Project.Name < projects[j].Project.Name
	})
	for _, project := range projects {
		entries := project.Entries
		sort.SliceStable(entries, func(i, j int) bool {
			if entries[i].WorkerName != entries[j].WorkerName {
				return entries[i].WorkerName < entries[j].WorkerName
			}
			return entries[i].TaskName < entries[j].TaskName
		})
	}
	return projects
}

// TimelineEntry - запись в хронологии работника
type TimelineEntry struct {
	ProjectID   uint
	ProjectName string
	TaskID      uint
	TaskName    string
	Date        time.Time
	HoursWorked decimal.Decimal
	// Cost заполняется, только если запрошены затраты
	Cost *decimal.Decimal
}

// WorkerTimeline - все записи работника по дате. Стоимость считается тем же
// распределением, что и в отчетах, и округляется до копеек.
func WorkerTimeline(workerID uint, logs []*models.DailyLog, rates allocation.RateLookup, withCost bool) []TimelineEntry {
	var own []*models.DailyLog
	for _, log := range logs {
		if log.WorkerID == workerID {
			own = append(own, log)
		}
	}
	sort.SliceStable(own, func(i, j int) bool {
		return effective.Day(own[i].LogDate).Before(effective.Day(own[j].LogDate))
	})

	var costs map[uint]allocation.Allocation
	if withCost {
		costs = allocation.ByLogID(allocation.Allocate(own, rates))
	}

	entries := make([]TimelineEntry, 0, len(own))
	for _, log := range own {
		entry := TimelineEntry{
			ProjectID:   log.ProjectID,
			ProjectName: log.ProjectName(),
			TaskID:      log.TaskID,
			TaskName:    log.TaskName(),
			Date:        effective.Day(log.LogDate),
			HoursWorked: log.HoursWorked,
		}
		if withCost {
			cost := costs[log.ID].Cost.Round(2)
			entry.Cost = &cost
		}
		entries = append(entries, entry)
	}
	return entries
}
