package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"site-cost-bot/internal/money"
)

// MaterialEntry - разовая закупка материала по проекту (опционально по задаче)
type MaterialEntry struct {
	ID             uint            `gorm:"primarykey" json:"id"`
	ProjectID      uint            `gorm:"not null;index" json:"project_id"`
	TaskID         *uint           `gorm:"index" json:"task_id"`
	Date           time.Time       `gorm:"type:date;not null;index" json:"date"`
	Description    string          `gorm:"type:varchar(500);not null" json:"description"`
	Quantity       decimal.Decimal `gorm:"type:decimal(12,4);not null" json:"quantity"`
	Unit           string          `gorm:"type:varchar(50);not null" json:"unit"`
	SupplierName   string          `gorm:"type:varchar(255)" json:"supplier_name"`
	UnitCostExVAT  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_cost_ex_vat"`
	UnitCostIncVAT decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_cost_inc_vat"`
	VATRate        decimal.Decimal `gorm:"type:decimal(5,4);not null;default:0.21" json:"vat_rate"`
	TotalExVAT     decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"total_ex_vat"`
	TotalVAT       decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"total_vat"`
	TotalIncVAT    decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"total_inc_vat"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"-"`

	Project *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Task    *Task    `gorm:"foreignKey:TaskID" json:"task,omitempty"`
}

func (MaterialEntry) TableName() string {
	return "material_entries"
}

// MaterialInput - данные для создания записи о материале.
// Передается ровно одна из цен за единицу, режим указывает какая.
type MaterialInput struct {
	ProjectID      uint
	TaskID         *uint
	Date           time.Time
	Description    string
	Quantity       decimal.Decimal
	Unit           string
	SupplierName   string
	InputMode      money.VATInputMode
	UnitCostIncVAT *decimal.Decimal
	UnitCostExVAT  *decimal.Decimal
	VATRate        *decimal.Decimal
}

// Derive заполняет цены за единицу и итоги: сначала цена с округлением,
// затем итоги без промежуточного округления
func (e *MaterialEntry) Derive(mode money.VATInputMode, incVAT, exVAT *decimal.Decimal) error {
	if !e.Quantity.IsPositive() {
		return money.ErrInvalidQuantity
	}
	costs, err := money.ResolveUnitCosts(mode, incVAT, exVAT, e.VATRate)
	if err != nil {
		return err
	}
	e.UnitCostExVAT = costs.ExVAT
	e.UnitCostIncVAT = costs.IncVAT

	totals := money.ComputeLineTotals(e.Quantity, e.UnitCostExVAT, e.VATRate)
	e.TotalExVAT = totals.ExVAT
	e.TotalVAT = totals.VAT
	e.TotalIncVAT = totals.IncVAT
	return nil
}

// IsValid проверяет валидность данных
func (e *MaterialEntry) IsValid() bool {
	if e.ProjectID == 0 || e.Date.IsZero() {
		return false
	}
	description := strings.TrimSpace(e.Description)
	if description == "" || len(description) > 500 {
		return false
	}
	unit := strings.TrimSpace(e.Unit)
	if unit == "" || len(unit) > 50 || len(e.SupplierName) > 255 {
		return false
	}
	return e.Quantity.IsPositive()
}

// ProjectName возвращает имя проекта или пустую строку
func (e *MaterialEntry) ProjectName() string {
	if e.Project == nil {
		return ""
	}
	return e.Project.Name
}

// TaskName возвращает имя задачи или пустую строку
func (e *MaterialEntry) TaskName() string {
	if e.Task == nil {
		return ""
	}
	return e.Task.Name
}
