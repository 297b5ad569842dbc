package models

import (
	"time"

	"gorm.io/gorm"
)

// Статусы проекта
const (
	ProjectStatusPlanned   = "planned"
	ProjectStatusActive    = "active"
	ProjectStatusCompleted = "completed"
	ProjectStatusOnHold    = "on_hold"
	ProjectStatusCancelled = "cancelled"
)

type Project struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	Name       string         `gorm:"type:varchar(255);not null;index" json:"name"`
	ClientName string         `gorm:"type:varchar(255)" json:"client_name"`
	Status     string         `gorm:"type:varchar(20);not null;default:'planned'" json:"status"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Project) TableName() string {
	return "projects"
}

type Phase struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	ProjectID uint           `gorm:"not null;index" json:"project_id"`
	Name      string         `gorm:"type:varchar(255);not null" json:"name"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Project *Project `gorm:"foreignKey:ProjectID" json:"-"`
}

func (Phase) TableName() string {
	return "phases"
}

type Task struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	ProjectID uint           `gorm:"not null;index" json:"project_id"`
	PhaseID   *uint          `gorm:"index" json:"phase_id"`
	Name      string         `gorm:"type:varchar(255);not null" json:"name"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Project *Project `gorm:"foreignKey:ProjectID" json:"-"`
	Phase   *Phase   `gorm:"foreignKey:PhaseID" json:"phase,omitempty"`
}

func (Task) TableName() string {
	return "tasks"
}

// PhaseName возвращает имя этапа или пустую строку
func (t *Task) PhaseName() string {
	if t == nil || t.Phase == nil {
		return ""
	}
	return t.Phase.Name
}
