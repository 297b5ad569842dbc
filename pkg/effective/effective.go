// Package effective реализует выборку "на дату" по записям с датой начала действия
// (ставки зарплаты, налоговые ставки и т.п.).
package effective

import (
	"sort"
	"time"
)

// Dated - запись, действующая начиная с EffectiveDate
type Dated interface {
	EffectiveDate() time.Time
}

// Day обрезает время до календарного дня
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AsOf возвращает запись с наибольшей датой начала действия, не превышающей date.
// Порядок items не важен. При равных датах побеждает первая встреченная запись.
func AsOf[T Dated](items []T, date time.Time) (T, bool) {
	var (
		best  T
		found bool
	)
	day := Day(date)
	for _, item := range items {
		from := Day(item.EffectiveDate())
		if from.After(day) {
			continue
		}
		if !found || from.After(Day(best.EffectiveDate())) {
			best = item
			found = true
		}
	}
	return best, found
}

// Timeline - отсортированная по дате история записей для многократных запросов
type Timeline[T Dated] struct {
	items []T
}

// NewTimeline копирует items и сортирует их по дате начала действия
func NewTimeline[T Dated](items []T) *Timeline[T] {
	sorted := make([]T, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return Day(sorted[i].EffectiveDate()).Before(Day(sorted[j].EffectiveDate()))
	})
	return &Timeline[T]{items: sorted}
}

// At - то же, что AsOf, но бинарным поиском по отсортированной истории
func (t *Timeline[T]) At(date time.Time) (T, bool) {
	var zero T
	if t == nil || len(t.items) == 0 {
		return zero, false
	}
	day := Day(date)
	// первый индекс, у которого дата строго позже day
	idx := sort.Search(len(t.items), func(i int) bool {
		return Day(t.items[i].EffectiveDate()).After(day)
	})
	if idx == 0 {
		return zero, false
	}
	// среди записей с одинаковой датой берем первую, как и AsOf
	last := Day(t.items[idx-1].EffectiveDate())
	for idx-1 > 0 && Day(t.items[idx-2].EffectiveDate()).Equal(last) {
		idx--
	}
	return t.items[idx-1], true
}

// Len возвращает количество записей в истории
func (t *Timeline[T]) Len() int {
	if t == nil {
		return 0
	}
	return len(t.items)
}
