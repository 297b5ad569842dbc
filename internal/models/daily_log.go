package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DefaultHoursWorked - часы по умолчанию, если не указаны
var DefaultHoursWorked = decimal.NewFromInt(8)

var maxHoursWorked = decimal.NewFromInt(24)

// DailyLog - запись о работе работника над задачей в конкретный день.
// У одного работника может быть несколько записей на одну дату.
type DailyLog struct {
	ID          uint            `gorm:"primarykey" json:"id"`
	ProjectID   uint            `gorm:"not null;index" json:"project_id"`
	TaskID      uint            `gorm:"not null;index" json:"task_id"`
	WorkerID    uint            `gorm:"not null;index:idx_daily_logs_worker_date,priority:1" json:"worker_id"`
	LogDate     time.Time       `gorm:"type:date;not null;index;index:idx_daily_logs_worker_date,priority:2" json:"log_date"`
	HoursWorked decimal.Decimal `gorm:"type:decimal(5,2);not null;default:8" json:"hours_worked"`
	Scope       string          `json:"scope"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`

	Project *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Task    *Task    `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	Worker  *Worker  `gorm:"foreignKey:WorkerID" json:"worker,omitempty"`
}

func (DailyLog) TableName() string {
	return "daily_logs"
}

// IsValid проверяет валидность данных
func (l *DailyLog) IsValid() bool {
	if l.ProjectID == 0 || l.TaskID == 0 || l.WorkerID == 0 {
		return false
	}
	if l.LogDate.IsZero() {
		return false
	}
	if l.HoursWorked.IsNegative() || l.HoursWorked.GreaterThan(maxHoursWorked) {
		return false
	}
	if len(l.Scope) > 5000 {
		return false
	}
	return true
}

// ProjectName возвращает имя проекта или пустую строку
func (l *DailyLog) ProjectName() string {
	if l.Project == nil {
		return ""
	}
	return l.Project.Name
}

// TaskName возвращает имя задачи или пустую строку
func (l *DailyLog) TaskName() string {
	if l.Task == nil {
		return ""
	}
	return l.Task.Name
}

// WorkerName возвращает имя работника или пустую строку
func (l *DailyLog) WorkerName() string {
	if l.Worker == nil {
		return ""
	}
	return l.Worker.FullName
}
