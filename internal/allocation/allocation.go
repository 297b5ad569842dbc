// Package allocation распределяет дневную ставку работника по его записям
// за день. Один рабочий день оплачивается ровно одной дневной ставкой,
// сколько бы задач и проектов в нем ни было.
package allocation

import (
	"time"

	"github.com/shopspring/decimal"

	"site-cost-bot/internal/models"
	"site-cost-bot/pkg/effective"
)

// RateLookup возвращает дневную ставку работника на дату (ноль, если ставки нет)
type RateLookup interface {
	DailyRate(workerID uint, date time.Time) decimal.Decimal
}

// Allocation - доля дневной ставки, приходящаяся на одну запись
type Allocation struct {
	Log       *models.DailyLog
	ProjectID uint
	WorkerID  uint
	LogDate   time.Time
	DailyRate decimal.Decimal
	Cost      decimal.Decimal
}

// WorkerDay - пара работник + календарный день
type WorkerDay struct {
	WorkerID uint
	Date     time.Time
}

// Key возвращает пару работник/день для записи
func Key(log *models.DailyLog) WorkerDay {
	return WorkerDay{WorkerID: log.WorkerID, Date: effective.Day(log.LogDate)}
}

// Allocate группирует записи по (работник, день) и делит ставку поровну
// между записями группы. Группы идут в порядке первого появления, внутри
// группы сохраняется порядок входа.
func Allocate(logs []*models.DailyLog, rates RateLookup) []Allocation {
	var order []WorkerDay
	groups := make(map[WorkerDay][]*models.DailyLog)
	for _, log := range logs {
		if log == nil {
			continue
		}
		key := Key(log)
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], log)
	}

	allocations := make([]Allocation, 0, len(logs))
	for _, key := range order {
		entries := groups[key]
		rate := decimal.Zero
		if rates != nil {
			rate = rates.DailyRate(key.WorkerID, key.Date)
		}
		// делим поровну по количеству записей, часы не учитываются
		share := rate.Div(decimal.NewFromInt(int64(len(entries))))
		for _, log := range entries {
			allocations = append(allocations, Allocation{
				Log:       log,
				ProjectID: log.ProjectID,
				WorkerID:  key.WorkerID,
				LogDate:   key.Date,
				DailyRate: rate,
				Cost:      share,
			})
		}
	}
	return allocations
}

// Total суммирует стоимость распределений
func Total(allocations []Allocation) decimal.Decimal {
	total := decimal.Zero
	for _, a := range allocations {
		total = total.Add(a.Cost)
	}
	return total
}

// ByLogID индексирует распределения по ID записи
func ByLogID(allocations []Allocation) map[uint]Allocation {
	index := make(map[uint]Allocation, len(allocations))
	for _, a := range allocations {
		index[a.Log.ID] = a
	}
	return index
}
