// Package report фильтрует записи о работе и материалах и сводит их в
// отчеты по труду, материалам, общим затратам и активности.
package report

import (
	"strconv"
	"strings"
	"time"

	"site-cost-bot/internal/money"
	"site-cost-bot/pkg/effective"
)

const dateLayout = "2006-01-02"

// RawFilter - параметры фильтра в том виде, в каком они пришли от пользователя
type RawFilter struct {
	From       string
	To         string
	ProjectIDs []string
	PhaseIDs   []string
	TaskIDs    []string
	WorkerIDs  []string
	Currency   string
}

// Filter - разобранный фильтр отчета. Даты включительно.
type Filter struct {
	From       time.Time
	To         time.Time
	ProjectIDs []uint
	PhaseIDs   []uint
	TaskIDs    []uint
	WorkerIDs  []uint
	Currency   string
}

// ParseFilter никогда не возвращает ошибку: некорректные даты дают текущий
// месяц, пустые и нечисловые id отбрасываются, неизвестная валюта - базовая
func ParseFilter(raw RawFilter, cfg money.Config, now time.Time) Filter {
	from, to := parseDateRange(raw.From, raw.To, now)
	return Filter{
		From:       from,
		To:         to,
		ProjectIDs: parseIDs(raw.ProjectIDs),
		PhaseIDs:   parseIDs(raw.PhaseIDs),
		TaskIDs:    parseIDs(raw.TaskIDs),
		WorkerIDs:  parseIDs(raw.WorkerIDs),
		Currency:   cfg.NormalizeCurrency(raw.Currency),
	}
}

// CurrentMonth возвращает первый и последний день месяца
func CurrentMonth(now time.Time) (time.Time, time.Time) {
	today := effective.Day(now)
	first := today.AddDate(0, 0, 1-today.Day())
	last := first.AddDate(0, 1, -1)
	return first, last
}

// TaskFiltering - задан фильтр по этапам или задачам
func (f Filter) TaskFiltering() bool {
	return len(f.PhaseIDs) > 0 || len(f.TaskIDs) > 0
}

// Contains проверяет, попадает ли дата в период
func (f Filter) Contains(date time.Time) bool {
	day := effective.Day(date)
	return !day.Before(f.From) && !day.After(f.To)
}

func parseDateRange(rawFrom, rawTo string, now time.Time) (time.Time, time.Time) {
	defaultFrom, defaultTo := CurrentMonth(now)
	from, to := defaultFrom, defaultTo

	if s := strings.TrimSpace(rawFrom); s != "" {
		parsed, err := time.Parse(dateLayout, s)
		if err != nil {
			return defaultFrom, defaultTo
		}
		from = parsed
	}
	if s := strings.TrimSpace(rawTo); s != "" {
		parsed, err := time.Parse(dateLayout, s)
		if err != nil {
			return defaultFrom, defaultTo
		}
		to = parsed
	}
	return from, to
}

func parseIDs(values []string) []uint {
	var ids []uint
	seen := make(map[uint]bool)
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseUint(part, 10, 64)
			if err != nil || id == 0 {
				continue
			}
			if seen[uint(id)] {
				continue
			}
			seen[uint(id)] = true
			ids = append(ids, uint(id))
		}
	}
	return ids
}
