package allocation

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"site-cost-bot/internal/models"
	"site-cost-bot/internal/money"
)

type fixedRates map[uint]decimal.Decimal

func (f fixedRates) DailyRate(workerID uint, _ time.Time) decimal.Decimal {
	return f[workerID]
}

func day(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

func entry(id, projectID, taskID, workerID uint, date string, hours int64) *models.DailyLog {
	return &models.DailyLog{
		ID:          id,
		ProjectID:   projectID,
		TaskID:      taskID,
		WorkerID:    workerID,
		LogDate:     day(date),
		HoursWorked: decimal.NewFromInt(hours),
	}
}

func TestAllocateSplitsDailyRateEvenly(t *testing.T) {
	rate := money.DailyRate(decimal.NewFromInt(6000))
	logs := []*models.DailyLog{
		entry(1, 10, 1, 1, "2024-03-04", 2),
		entry(2, 10, 2, 1, "2024-03-04", 6),
	}

	allocations := Allocate(logs, fixedRates{1: rate})
	if len(allocations) != 2 {
		t.Fatalf("expected 2 allocations, got %d", len(allocations))
	}

	want := decimal.RequireFromString("138.46155")
	for _, a := range allocations {
		if !a.Cost.Equal(want) {
			t.Fatalf("log %d cost = %s, want %s (hours must not weight the split)", a.Log.ID, a.Cost, want)
		}
		if !a.DailyRate.Equal(rate) {
			t.Fatalf("daily rate = %s, want %s", a.DailyRate, rate)
		}
	}
	if got := money.Round2(allocations[0].Cost); !got.Equal(decimal.RequireFromString("138.46")) {
		t.Fatalf("rounded share = %s, want 138.46", got)
	}
	if got := Total(allocations); !got.Equal(rate) {
		t.Fatalf("total = %s, want %s", got, rate)
	}
}

func TestAllocateSumMatchesRateWithinTolerance(t *testing.T) {
	rate := decimal.NewFromInt(100)
	logs := []*models.DailyLog{
		entry(1, 1, 1, 1, "2024-03-04", 3),
		entry(2, 1, 2, 1, "2024-03-04", 3),
		entry(3, 2, 3, 1, "2024-03-04", 2),
	}

	total := Total(Allocate(logs, fixedRates{1: rate}))
	tolerance := decimal.RequireFromString("0.01").Mul(decimal.NewFromInt(3))
	if total.Sub(rate).Abs().GreaterThan(tolerance) {
		t.Fatalf("total = %s, want %s within %s", total, rate, tolerance)
	}
}

func TestAllocateGroupsByWorkerAndDay(t *testing.T) {
	rates := fixedRates{1: decimal.NewFromInt(200), 2: decimal.NewFromInt(300)}
	logs := []*models.DailyLog{
		entry(1, 1, 1, 1, "2024-03-04", 8),
		entry(2, 1, 1, 2, "2024-03-04", 8),
		entry(3, 2, 2, 1, "2024-03-05", 4),
		entry(4, 2, 3, 1, "2024-03-04", 4),
	}
	// одно и то же время суток не должно влиять на группировку
	logs[3].LogDate = logs[3].LogDate.Add(15 * time.Hour)

	allocations := Allocate(logs, rates)
	gotOrder := make([]uint, 0, len(allocations))
	costs := make(map[uint]decimal.Decimal)
	for _, a := range allocations {
		gotOrder = append(gotOrder, a.Log.ID)
		costs[a.Log.ID] = a.Cost
	}

	wantOrder := []uint{1, 4, 2, 3}
	for i := range wantOrder {
		if gotOrder[i] != wantOrder[i] {
			t.Fatalf("order = %v, want %v", gotOrder, wantOrder)
		}
	}

	want := map[uint]string{1: "100", 4: "100", 2: "300", 3: "200"}
	for id, cost := range want {
		if !costs[id].Equal(decimal.RequireFromString(cost)) {
			t.Fatalf("log %d cost = %s, want %s", id, costs[id], cost)
		}
	}
}

func TestAllocateWithoutRateCostsZero(t *testing.T) {
	allocations := Allocate([]*models.DailyLog{entry(1, 1, 1, 9, "2024-03-04", 8)}, fixedRates{})
	if len(allocations) != 1 || !allocations[0].Cost.IsZero() {
		t.Fatalf("expected one zero-cost allocation, got %+v", allocations)
	}
}

func TestAllocateEmptyInput(t *testing.T) {
	if got := Allocate(nil, fixedRates{}); len(got) != 0 {
		t.Fatalf("expected no allocations, got %d", len(got))
	}
}

func TestAllocateIsDeterministic(t *testing.T) {
	logs := []*models.DailyLog{
		entry(1, 1, 1, 1, "2024-03-04", 8),
		entry(2, 2, 2, 1, "2024-03-04", 8),
		entry(3, 2, 2, 1, "2024-03-04", 8),
	}
	rates := fixedRates{1: decimal.RequireFromString("276.9231")}

	first := Allocate(logs, rates)
	second := Allocate(logs, rates)
	for i := range first {
		if !first[i].Cost.Equal(second[i].Cost) || first[i].Log != second[i].Log {
			t.Fatalf("allocation %d differs between runs", i)
		}
	}
	if !Total(first).Equal(Total(second)) {
		t.Fatal("totals differ between runs")
	}

	index := ByLogID(first)
	if _, ok := index[3]; !ok || len(index) != 3 {
		t.Fatalf("ByLogID = %v", index)
	}
}
