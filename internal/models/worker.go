package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"site-cost-bot/internal/money"
)

type Worker struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	FullName  string         `gorm:"type:varchar(150);not null;index" json:"full_name"`
	Trade     string         `gorm:"type:varchar(100)" json:"trade"`
	Active    bool           `gorm:"not null;default:true" json:"active"`
	Notes     string         `json:"notes"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"` // discarded

	Salaries []WorkerSalary `gorm:"foreignKey:WorkerID" json:"salaries,omitempty"`
}

func (Worker) TableName() string {
	return "workers"
}

// IsValid проверяет валидность данных
func (w *Worker) IsValid() bool {
	name := strings.TrimSpace(w.FullName)
	return name != "" && len(name) <= 150 && len(w.Trade) <= 100
}

// WorkerSalary - запись истории зарплаты, действующая с EffectiveFrom.
// Не удаляется физически, только помечается удаленной (discarded).
type WorkerSalary struct {
	ID            uint            `gorm:"primarykey" json:"id"`
	WorkerID      uint            `gorm:"not null;uniqueIndex:idx_worker_salary_effective,where:deleted_at IS NULL" json:"worker_id"`
	EffectiveFrom time.Time       `gorm:"type:date;not null;uniqueIndex:idx_worker_salary_effective,where:deleted_at IS NULL" json:"effective_from"`
	GrossMonthly  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"gross_monthly"`
	DailyRate     decimal.Decimal `gorm:"type:decimal(10,4);not null" json:"daily_rate"`
	NetMonthly    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"net_monthly"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`

	Worker *Worker `gorm:"foreignKey:WorkerID" json:"-"`
}

func (WorkerSalary) TableName() string {
	return "worker_salaries"
}

// EffectiveDate нужен для выборки "на дату"
func (s WorkerSalary) EffectiveDate() time.Time {
	return s.EffectiveFrom
}

// Kept - запись не помечена удаленной
func (s WorkerSalary) Kept() bool {
	return !s.DeletedAt.Valid
}

// ComputeDerivedFields пересчитывает дневную ставку и нетто из брутто
func (s *WorkerSalary) ComputeDerivedFields(cfg money.Config) {
	if !s.GrossMonthly.IsPositive() {
		return
	}
	s.DailyRate = money.DailyRate(s.GrossMonthly)
	s.NetMonthly = money.NetMonthly(s.GrossMonthly, cfg).Net
}

// IsValid проверяет валидность данных
func (s *WorkerSalary) IsValid() bool {
	return s.WorkerID != 0 && s.GrossMonthly.IsPositive() && !s.EffectiveFrom.IsZero()
}
