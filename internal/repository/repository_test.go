package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"site-cost-bot/internal/models"
	"site-cost-bot/internal/money"
)

type repos struct {
	workers   *GormWorkerRepository
	salaries  *GormSalaryRepository
	projects  *GormProjectRepository
	logs      *GormDailyLogRepository
	materials *GormMaterialEntryRepository
	rates     *GormCurrencyRateRepository
	settings  *GormSettingRepository
	report    *GormReportRepository
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// у каждого соединения своя база :memory:
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func newRepos(t *testing.T) repos {
	t.Helper()
	db := openTestDB(t)

	var r repos
	var err error
	if r.workers, err = NewGormWorkerRepository(db); err != nil {
		t.Fatalf("worker repo: %v", err)
	}
	if r.salaries, err = NewGormSalaryRepository(db); err != nil {
		t.Fatalf("salary repo: %v", err)
	}
	if r.projects, err = NewGormProjectRepository(db); err != nil {
		t.Fatalf("project repo: %v", err)
	}
	if r.logs, err = NewGormDailyLogRepository(db); err != nil {
		t.Fatalf("daily log repo: %v", err)
	}
	if r.materials, err = NewGormMaterialEntryRepository(db); err != nil {
		t.Fatalf("material repo: %v", err)
	}
	if r.rates, err = NewGormCurrencyRateRepository(db); err != nil {
		t.Fatalf("currency repo: %v", err)
	}
	if r.settings, err = NewGormSettingRepository(db); err != nil {
		t.Fatalf("setting repo: %v", err)
	}
	r.report = NewGormReportRepository(db)
	return r
}

func day(s string) time.Time {
	d, err := time.Parse(dateFormat, s)
	if err != nil {
		panic(err)
	}
	return d
}

func salary(workerID uint, from string, gross int64) *models.WorkerSalary {
	s := &models.WorkerSalary{WorkerID: workerID, EffectiveFrom: day(from), GrossMonthly: decimal.NewFromInt(gross)}
	s.ComputeDerivedFields(money.DefaultConfig())
	return s
}

func TestSalaryUniquePerEffectiveDate(t *testing.T) {
	r := newRepos(t)
	worker := &models.Worker{FullName: "Ion Popescu", Active: true}
	if err := r.workers.Create(worker); err != nil {
		t.Fatalf("create worker: %v", err)
	}

	first := salary(worker.ID, "2024-01-01", 6000)
	if err := r.salaries.Create(first); err != nil {
		t.Fatalf("create salary: %v", err)
	}
	if err := r.salaries.Create(salary(worker.ID, "2024-01-01", 7000)); !errors.Is(err, ErrSalaryExists) {
		t.Fatalf("duplicate effective date: got %v, want ErrSalaryExists", err)
	}

	// после удаления дата снова свободна, история сохраняется
	if err := r.salaries.Discard(first.ID); err != nil {
		t.Fatalf("discard: %v", err)
	}
	if err := r.salaries.Create(salary(worker.ID, "2024-01-01", 7000)); err != nil {
		t.Fatalf("create after discard: %v", err)
	}

	kept, err := r.salaries.GetKeptByWorkerID(worker.ID)
	if err != nil || len(kept) != 1 || !kept[0].GrossMonthly.Equal(decimal.NewFromInt(7000)) {
		t.Fatalf("kept = %v, %v", kept, err)
	}
	history, err := r.salaries.GetHistoryByWorkerID(worker.ID)
	if err != nil || len(history) != 2 || history[0].Kept() {
		t.Fatalf("history = %v, %v; want discarded record first", history, err)
	}
}

func TestSalaryDerivedFieldsRoundTrip(t *testing.T) {
	r := newRepos(t)
	record := salary(1, "2024-01-01", 6000)
	if err := r.salaries.Create(record); err != nil {
		t.Fatalf("create: %v", err)
	}

	stored, err := r.salaries.GetByID(record.ID)
	if err != nil || stored == nil {
		t.Fatalf("get: %v, %v", stored, err)
	}
	if !stored.DailyRate.Equal(decimal.RequireFromString("276.9231")) {
		t.Fatalf("daily rate = %s, want 276.9231", stored.DailyRate)
	}
	if !stored.NetMonthly.Equal(decimal.NewFromInt(3510)) {
		t.Fatalf("net = %s, want 3510", stored.NetMonthly)
	}
	if !stored.EffectiveFrom.Equal(day("2024-01-01")) {
		t.Fatalf("effective from = %v", stored.EffectiveFrom)
	}
}

func TestGetByIDNotFoundReturnsNil(t *testing.T) {
	r := newRepos(t)
	worker, err := r.workers.GetByID(404)
	if err != nil || worker != nil {
		t.Fatalf("GetByID(404) = %v, %v; want nil, nil", worker, err)
	}
	if err := r.workers.Discard(404); !errors.Is(err, ErrWorkerNotFound) {
		t.Fatalf("Discard(404) = %v, want ErrWorkerNotFound", err)
	}
}

func TestCurrencyRateUpsertAndLatest(t *testing.T) {
	r := newRepos(t)

	rate, err := r.rates.LatestRate("RON", "GBP")
	if err != nil || rate != nil {
		t.Fatalf("empty table: %v, %v; want nil, nil", rate, err)
	}

	for _, cr := range []*models.CurrencyRate{
		{Date: day("2024-03-01"), BaseCurrency: "RON", QuoteCurrency: "GBP", Rate: decimal.RequireFromString("0.1720"), Source: "test"},
		{Date: day("2024-03-02"), BaseCurrency: "ron", QuoteCurrency: "gbp", Rate: decimal.RequireFromString("0.1730"), Source: "test"},
		{Date: day("2024-03-02"), BaseCurrency: "RON", QuoteCurrency: "GBP", Rate: decimal.RequireFromString("0.1724"), Source: "retry"},
	} {
		if err := r.rates.Upsert(cr); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}

	var count int64
	r.rates.db.Model(&models.CurrencyRate{}).Count(&count)
	if count != 2 {
		t.Fatalf("rows = %d, want 2 (same date/pair updates)", count)
	}

	latest, err := r.rates.Latest("RON", "GBP")
	if err != nil || latest == nil {
		t.Fatalf("latest: %v, %v", latest, err)
	}
	if !latest.Rate.Equal(decimal.RequireFromString("0.1724")) || latest.Source != "retry" {
		t.Fatalf("latest = %s (%s), want 0.1724 (retry)", latest.Rate, latest.Source)
	}

	if err := r.rates.Upsert(&models.CurrencyRate{Date: day("2024-03-03"), BaseCurrency: "RON", QuoteCurrency: "GBP"}); !errors.Is(err, ErrInvalidCurrencyRate) {
		t.Fatalf("zero rate: got %v, want ErrInvalidCurrencyRate", err)
	}
}

func TestSettings(t *testing.T) {
	r := newRepos(t)
	if _, ok, err := r.settings.Get(models.SettingCASRate); err != nil || ok {
		t.Fatalf("missing setting: ok=%v err=%v", ok, err)
	}
	if err := r.settings.Set(models.SettingCASRate, "0.25"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := r.settings.Set(models.SettingCASRate, "0.3"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	value, ok, err := r.settings.Get(models.SettingCASRate)
	if err != nil || !ok || value != "0.3" {
		t.Fatalf("get = %q, %v, %v", value, ok, err)
	}
	all, err := r.settings.All()
	if err != nil || len(all) != 1 {
		t.Fatalf("all = %v, %v", all, err)
	}
}

func TestReportQueries(t *testing.T) {
	r := newRepos(t)

	project := &models.Project{Name: "Casa Verde"}
	other := &models.Project{Name: "Bloc A"}
	for _, p := range []*models.Project{project, other} {
		if err := r.projects.CreateProject(p); err != nil {
			t.Fatalf("create project: %v", err)
		}
	}
	phase := &models.Phase{ProjectID: project.ID, Name: "Fundatie"}
	if err := r.projects.CreatePhase(phase); err != nil {
		t.Fatalf("create phase: %v", err)
	}
	dig := &models.Task{ProjectID: project.ID, PhaseID: &phase.ID, Name: "Sapatura"}
	paint := &models.Task{ProjectID: project.ID, Name: "Zugravit"}
	frame := &models.Task{ProjectID: other.ID, Name: "Structura"}
	for _, task := range []*models.Task{dig, paint, frame} {
		if err := r.projects.CreateTask(task); err != nil {
			t.Fatalf("create task: %v", err)
		}
	}
	worker := &models.Worker{FullName: "Ana", Active: true}
	if err := r.workers.Create(worker); err != nil {
		t.Fatalf("create worker: %v", err)
	}

	logs := []*models.DailyLog{
		{ProjectID: project.ID, TaskID: dig.ID, WorkerID: worker.ID, LogDate: day("2024-03-04"), HoursWorked: decimal.NewFromInt(4)},
		{ProjectID: project.ID, TaskID: paint.ID, WorkerID: worker.ID, LogDate: day("2024-03-04"), HoursWorked: decimal.NewFromInt(4)},
		{ProjectID: other.ID, TaskID: frame.ID, WorkerID: worker.ID, LogDate: day("2024-03-31"), HoursWorked: decimal.NewFromInt(8)},
		{ProjectID: other.ID, TaskID: frame.ID, WorkerID: worker.ID, LogDate: day("2024-04-01"), HoursWorked: decimal.NewFromInt(8)},
	}
	for _, log := range logs {
		if err := r.logs.Create(log); err != nil {
			t.Fatalf("create log: %v", err)
		}
	}
	if err := r.logs.Discard(logs[1].ID); err != nil {
		t.Fatalf("discard log: %v", err)
	}

	march := EntryQuery{From: day("2024-03-01"), To: day("2024-03-31")}
	got, err := r.report.DailyLogs(march)
	if err != nil {
		t.Fatalf("daily logs: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("march logs = %d, want 2 (discarded and April excluded, last day included)", len(got))
	}
	if got[0].Project == nil || got[0].Task == nil || got[0].Task.Phase == nil || got[0].Worker == nil {
		t.Fatalf("associations not preloaded: %+v", got[0])
	}

	taskIDs, err := r.report.TaskIDs(TaskQuery{PhaseIDs: []uint{phase.ID}})
	if err != nil || len(taskIDs) != 1 || taskIDs[0] != dig.ID {
		t.Fatalf("phase tasks = %v, %v", taskIDs, err)
	}
	taskIDs, err = r.report.TaskIDs(TaskQuery{ProjectIDs: []uint{other.ID}, PhaseIDs: []uint{phase.ID}})
	if err != nil || len(taskIDs) != 0 {
		t.Fatalf("cross-project phase tasks = %v, %v; want none", taskIDs, err)
	}

	byTask := march
	byTask.TaskIDs = []uint{frame.ID}
	got, err = r.report.DailyLogs(byTask)
	if err != nil || len(got) != 1 || got[0].TaskID != frame.ID {
		t.Fatalf("task filter = %v, %v", got, err)
	}

	salaries, err := r.report.Salaries(nil)
	if err != nil || salaries != nil {
		t.Fatalf("salaries for no workers = %v, %v", salaries, err)
	}
}

func TestMaterialEntriesQuery(t *testing.T) {
	r := newRepos(t)
	project := &models.Project{Name: "Casa Verde"}
	if err := r.projects.CreateProject(project); err != nil {
		t.Fatalf("create project: %v", err)
	}
	task := &models.Task{ProjectID: project.ID, Name: "Zidarie"}
	if err := r.projects.CreateTask(task); err != nil {
		t.Fatalf("create task: %v", err)
	}

	inc := decimal.RequireFromString("121.00")
	withTask := &models.MaterialEntry{
		ProjectID: project.ID, TaskID: &task.ID, Date: day("2024-03-04"), Description: "Ciment",
		Quantity: decimal.NewFromInt(10), Unit: "sac", VATRate: decimal.RequireFromString("0.21"),
	}
	if err := withTask.Derive(money.VATInclusive, &inc, nil); err != nil {
		t.Fatalf("derive: %v", err)
	}
	withoutTask := &models.MaterialEntry{
		ProjectID: project.ID, Date: day("2024-03-05"), Description: "Transport",
		Quantity: decimal.NewFromInt(1), Unit: "cursa", VATRate: decimal.Zero,
	}
	if err := withoutTask.Derive(money.VATExclusive, nil, &inc); err != nil {
		t.Fatalf("derive: %v", err)
	}
	for _, entry := range []*models.MaterialEntry{withTask, withoutTask} {
		if err := r.materials.Create(entry); err != nil {
			t.Fatalf("create material: %v", err)
		}
	}

	all, err := r.report.MaterialEntries(EntryQuery{From: day("2024-03-01"), To: day("2024-03-31")})
	if err != nil || len(all) != 2 {
		t.Fatalf("materials = %v, %v", all, err)
	}
	if !all[0].TotalIncVAT.Equal(decimal.NewFromInt(1210)) || !all[0].UnitCostExVAT.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("stored totals = %s / unit %s", all[0].TotalIncVAT, all[0].UnitCostExVAT)
	}

	filtered, err := r.report.MaterialEntries(EntryQuery{From: day("2024-03-01"), To: day("2024-03-31"), TaskIDs: []uint{task.ID}})
	if err != nil || len(filtered) != 1 || filtered[0].ID != withTask.ID {
		t.Fatalf("task-filtered materials = %v, %v", filtered, err)
	}

	if err := r.materials.Create(&models.MaterialEntry{ProjectID: project.ID, Date: day("2024-03-05")}); !errors.Is(err, ErrInvalidMaterialEntry) {
		t.Fatalf("invalid entry: got %v", err)
	}
}

func TestReportLoadsDiscardedAssociations(t *testing.T) {
	r := newRepos(t)

	project := &models.Project{Name: "Bloc B"}
	if err := r.projects.CreateProject(project); err != nil {
		t.Fatalf("create project: %v", err)
	}
	phase := &models.Phase{ProjectID: project.ID, Name: "Structura"}
	if err := r.projects.CreatePhase(phase); err != nil {
		t.Fatalf("create phase: %v", err)
	}
	task := &models.Task{ProjectID: project.ID, PhaseID: &phase.ID, Name: "Cofraj"}
	if err := r.projects.CreateTask(task); err != nil {
		t.Fatalf("create task: %v", err)
	}
	worker := &models.Worker{FullName: "Vasile", Active: true}
	if err := r.workers.Create(worker); err != nil {
		t.Fatalf("create worker: %v", err)
	}
	log := &models.DailyLog{ProjectID: project.ID, TaskID: task.ID, WorkerID: worker.ID, LogDate: day("2024-03-05"), HoursWorked: decimal.NewFromInt(8)}
	if err := r.logs.Create(log); err != nil {
		t.Fatalf("create log: %v", err)
	}
	inc := decimal.RequireFromString("12.10")
	entry := &models.MaterialEntry{ProjectID: project.ID, TaskID: &task.ID, Date: day("2024-03-05"), Description: "Scandura",
		Quantity: decimal.NewFromInt(1), Unit: "buc", VATRate: decimal.RequireFromString("0.21")}
	if err := entry.Derive(money.VATInclusive, &inc, nil); err != nil {
		t.Fatalf("derive: %v", err)
	}
	if err := r.materials.Create(entry); err != nil {
		t.Fatalf("create material: %v", err)
	}

	if err := r.workers.Discard(worker.ID); err != nil {
		t.Fatalf("discard worker: %v", err)
	}
	if err := r.projects.DiscardProject(project.ID); err != nil {
		t.Fatalf("discard project: %v", err)
	}
	if err := r.report.db.Delete(&models.Phase{}, phase.ID).Error; err != nil {
		t.Fatalf("discard phase: %v", err)
	}

	march := EntryQuery{From: day("2024-03-01"), To: day("2024-03-31")}
	logs, err := r.report.DailyLogs(march)
	if err != nil || len(logs) != 1 {
		t.Fatalf("daily logs = %v, %v", logs, err)
	}
	got := logs[0]
	if got.Project == nil || got.Project.Name != "Bloc B" || got.Worker == nil || got.Worker.FullName != "Vasile" {
		t.Fatalf("discarded project or worker not loaded: %+v", got)
	}
	if got.Task == nil || got.Task.Phase == nil || got.Task.Phase.Name != "Structura" {
		t.Fatalf("discarded phase not loaded: %+v", got.Task)
	}

	entries, err := r.report.MaterialEntries(march)
	if err != nil || len(entries) != 1 || entries[0].Project == nil || entries[0].Task == nil || entries[0].Task.Phase == nil {
		t.Fatalf("material entries = %v, %v", entries, err)
	}

	byWorker, err := r.logs.GetByWorkerID(worker.ID)
	if err != nil || len(byWorker) != 1 || byWorker[0].Project == nil {
		t.Fatalf("logs by worker = %v, %v", byWorker, err)
	}
}
