package report

import (
	"time"

	"github.com/shopspring/decimal"

	"site-cost-bot/internal/models"
)

// ProjectMaterials - итоги по материалам проекта и исходные записи
type ProjectMaterials struct {
	Project     *models.Project
	TotalExVAT  decimal.Decimal
	TotalVAT    decimal.Decimal
	TotalIncVAT decimal.Decimal
	Entries     []*models.MaterialEntry
}

// MaterialRow - строка детального отчета по материалам
type MaterialRow struct {
	Date          time.Time
	ProjectName   string
	PhaseName     string
	TaskName      string
	Description   string
	Quantity      decimal.Decimal
	Unit          string
	UnitCostExVAT decimal.Decimal
	TotalExVAT    decimal.Decimal
	VATRate       decimal.Decimal
	TotalVAT      decimal.Decimal
	TotalIncVAT   decimal.Decimal
	SupplierName  string
}

// MaterialsByProject группирует материалы по проекту в порядке появления
func (d *Dataset) MaterialsByProject() []ProjectMaterials {
	var result []ProjectMaterials
	index := make(map[uint]int)
	for _, entry := range d.Materials {
		if entry.Project == nil {
			continue
		}
		i, ok := index[entry.ProjectID]
		if !ok {
			i = len(result)
			index[entry.ProjectID] = i
			result = append(result, ProjectMaterials{
				Project:     entry.Project,
				TotalExVAT:  decimal.Zero,
				TotalVAT:    decimal.Zero,
				TotalIncVAT: decimal.Zero,
			})
		}
		row := &result[i]
		row.TotalExVAT = row.TotalExVAT.Add(entry.TotalExVAT)
		row.TotalVAT = row.TotalVAT.Add(entry.TotalVAT)
		row.TotalIncVAT = row.TotalIncVAT.Add(entry.TotalIncVAT)
		row.Entries = append(row.Entries, entry)
	}
	return result
}

// MaterialsDetail - строка на каждую запись, в порядке MaterialsByProject
func (d *Dataset) MaterialsDetail() []MaterialRow {
	var rows []MaterialRow
	for _, group := range d.MaterialsByProject() {
		for _, entry := range group.Entries {
			var phaseName string
			if entry.Task != nil {
				phaseName = entry.Task.PhaseName()
			}
			rows = append(rows, MaterialRow{
				Date:          entry.Date,
				ProjectName:   group.Project.Name,
				PhaseName:     phaseName,
				TaskName:      entry.TaskName(),
				Description:   entry.Description,
				Quantity:      entry.Quantity,
				Unit:          entry.Unit,
				UnitCostExVAT: entry.UnitCostExVAT,
				TotalExVAT:    entry.TotalExVAT,
				VATRate:       entry.VATRate,
				TotalVAT:      entry.TotalVAT,
				TotalIncVAT:   entry.TotalIncVAT,
				SupplierName:  entry.SupplierName,
			})
		}
	}
	return rows
}

// TotalMaterials - сумма материалов с НДС
func (d *Dataset) TotalMaterials() decimal.Decimal {
	total := decimal.Zero
	for _, entry := range d.Materials {
		total = total.Add(entry.TotalIncVAT)
	}
	return total
}
