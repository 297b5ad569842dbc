package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"site-cost-bot/internal/models"
)

// TopProjectsLimit - сколько проектов показывает дашборд
const TopProjectsLimit = 5

// ProjectCost - труд и материалы по проекту. Total = Labour + MaterialsIncVAT.
type ProjectCost struct {
	Project         *models.Project
	Labour          decimal.Decimal
	MaterialsExVAT  decimal.Decimal
	MaterialsVAT    decimal.Decimal
	MaterialsIncVAT decimal.Decimal
	Total           decimal.Decimal
}

// KPIs - показатели дашборда
type KPIs struct {
	TotalLabour    decimal.Decimal
	TotalMaterials decimal.Decimal
	TotalCombined  decimal.Decimal
	TotalHours     decimal.Decimal
	TopProjects    []ProjectCost
}

// CombinedCost объединяет труд и материалы по проекту. Проект, у которого
// есть только труд или только материалы, тоже попадает в результат.
func (d *Dataset) CombinedCost() []ProjectCost {
	var order []uint
	projects := make(map[uint]*models.Project)
	labour := make(map[uint]ProjectLabour)
	materials := make(map[uint]ProjectMaterials)

	for _, row := range d.LabourSummary() {
		labour[row.Project.ID] = row
		if projects[row.Project.ID] == nil {
			projects[row.Project.ID] = row.Project
			order = append(order, row.Project.ID)
		}
	}
	for _, row := range d.MaterialsByProject() {
		materials[row.Project.ID] = row
		if projects[row.Project.ID] == nil {
			projects[row.Project.ID] = row.Project
			order = append(order, row.Project.ID)
		}
	}

	result := make([]ProjectCost, 0, len(order))
	for _, id := range order {
		cost := ProjectCost{
			Project:         projects[id],
			Labour:          decimal.Zero,
			MaterialsExVAT:  decimal.Zero,
			MaterialsVAT:    decimal.Zero,
			MaterialsIncVAT: decimal.Zero,
		}
		if row, ok := labour[id]; ok {
			cost.Labour = row.TotalCost
		}
		if row, ok := materials[id]; ok {
			cost.MaterialsExVAT = row.TotalExVAT
			cost.MaterialsVAT = row.TotalVAT
			cost.MaterialsIncVAT = row.TotalIncVAT
		}
		cost.Total = cost.Labour.Add(cost.MaterialsIncVAT)
		result = append(result, cost)
	}
	return result
}

// DashboardKPIs - общие итоги и топ проектов по общим затратам
func (d *Dataset) DashboardKPIs() KPIs {
	labour := d.TotalLabour()
	materials := d.TotalMaterials()

	top := d.CombinedCost()
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].Total.GreaterThan(top[j].Total)
	})
	if len(top) > TopProjectsLimit {
		top = top[:TopProjectsLimit]
	}

	return KPIs{
		TotalLabour:    labour,
		TotalMaterials: materials,
		TotalCombined:  labour.Add(materials),
		TotalHours:     d.TotalHours(),
		TopProjects:    top,
	}
}
