// Package salary выбирает ставку работника, действующую на дату.
package salary

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"site-cost-bot/internal/models"
	"site-cost-bot/pkg/effective"
)

// History - доступ к истории зарплат работника (только не удаленные записи)
type History interface {
	GetKeptByWorkerID(workerID uint) ([]*models.WorkerSalary, error)
}

// Resolver - одиночный запрос ставки через хранилище
type Resolver struct {
	history History
}

func NewResolver(history History) *Resolver {
	return &Resolver{history: history}
}

// RateFor возвращает запись зарплаты, действующую на date, или nil, если
// такой нет (например, дата раньше начала работы)
func (r *Resolver) RateFor(workerID uint, date time.Time) (*models.WorkerSalary, error) {
	records, err := r.history.GetKeptByWorkerID(workerID)
	if err != nil {
		return nil, fmt.Errorf("load salary history: %w", err)
	}
	record, ok := effective.AsOf(keptOnly(records), date)
	if !ok {
		return nil, nil
	}
	return record, nil
}

// DailyRate - дневная ставка на дату, ноль если ставки нет
func (r *Resolver) DailyRate(workerID uint, date time.Time) (decimal.Decimal, error) {
	record, err := r.RateFor(workerID, date)
	if err != nil || record == nil {
		return decimal.Zero, err
	}
	return record.DailyRate, nil
}

// Preloaded - пакетный вариант: история нескольких работников в памяти,
// без обращения к хранилищу на каждую дату
type Preloaded struct {
	timelines map[uint]*effective.Timeline[*models.WorkerSalary]
}

func NewPreloaded(records []*models.WorkerSalary) *Preloaded {
	byWorker := make(map[uint][]*models.WorkerSalary)
	for _, record := range keptOnly(records) {
		byWorker[record.WorkerID] = append(byWorker[record.WorkerID], record)
	}

	timelines := make(map[uint]*effective.Timeline[*models.WorkerSalary], len(byWorker))
	for workerID, history := range byWorker {
		timelines[workerID] = effective.NewTimeline(history)
	}
	return &Preloaded{timelines: timelines}
}

// RateFor возвращает запись зарплаты на дату или nil
func (p *Preloaded) RateFor(workerID uint, date time.Time) *models.WorkerSalary {
	if p == nil {
		return nil
	}
	record, ok := p.timelines[workerID].At(date)
	if !ok {
		return nil
	}
	return record
}

// DailyRate - дневная ставка на дату, ноль если ставки нет
func (p *Preloaded) DailyRate(workerID uint, date time.Time) decimal.Decimal {
	record := p.RateFor(workerID, date)
	if record == nil {
		return decimal.Zero
	}
	return record.DailyRate
}

// Workers возвращает количество работников с историей
func (p *Preloaded) Workers() int {
	if p == nil {
		return 0
	}
	return len(p.timelines)
}

func keptOnly(records []*models.WorkerSalary) []*models.WorkerSalary {
	kept := make([]*models.WorkerSalary, 0, len(records))
	for _, record := range records {
		if record != nil && record.Kept() {
			kept = append(kept, record)
		}
	}
	return kept
}
