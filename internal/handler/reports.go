package handler

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"site-cost-bot/internal/money"
	"site-cost-bot/internal/report"
)

// reportView - все, что нужно для вывода одного отчета
type reportView struct {
	data      *report.Dataset
	filter    report.Filter
	converter *money.Converter
	currency  string
}

func (v reportView) amount(value decimal.Decimal) string {
	return formatAmount(v.converter.Convert(value, v.currency))
}

func (v reportView) header(title string) string {
	return fmt.Sprintf("%s\n📅 %s - %s (%s)\n",
		title, v.filter.From.Format(dateLayout), v.filter.To.Format(dateLayout), v.currency)
}

type renderFunc func(v reportView) string

func (h *Handler) showReport(message *tgbotapi.Message, args string, render renderFunc) {
	chatID := message.Chat.ID
	raw := parseFilterArgs(args)

	generator := h.reportService.Generator(raw)
	data, err := generator.Load()
	if err != nil {
		h.sendError(chatID, "Ошибка построения отчета", err)
		return
	}

	currency := h.currency(chatID)
	if raw.Currency != "" {
		currency = generator.Filter().Currency
	}

	logrus.WithFields(logrus.Fields{
		"command":   message.Command(),
		"logs":      len(data.Logs),
		"materials": len(data.Materials),
	}).Debug("Report loaded")

	h.send(chatID, render(reportView{
		data:      data,
		filter:    generator.Filter(),
		converter: h.reportService.Converter(),
		currency:  currency,
	}))
}

func renderDashboard(v reportView) string {
	kpis := v.data.DashboardKPIs()

	var b strings.Builder
	b.WriteString(v.header("📊 Сводка"))
	fmt.Fprintf(&b, "\n👷 Труд: %s\n", v.amount(kpis.TotalLabour))
	fmt.Fprintf(&b, "🧱 Материалы: %s\n", v.amount(kpis.TotalMaterials))
	fmt.Fprintf(&b, "💰 Всего: %s\n", v.amount(kpis.TotalCombined))
	fmt.Fprintf(&b, "⏱ Часов: %s\n", formatHours(kpis.TotalHours))

	if len(kpis.TopProjects) > 0 {
		b.WriteString("\n🏗 Топ проектов:\n")
		for i, project := range kpis.TopProjects {
			fmt.Fprintf(&b, "%d. %s - %s\n", i+1, project.Project.Name, v.amount(project.Total))
		}
	}
	return b.String()
}

// renderLabour: при выбранных проектах - разбивка по работникам, иначе сводка
func renderLabour(v reportView) string {
	var projects []report.ProjectLabour
	if len(v.filter.ProjectIDs) > 0 {
		projects = v.data.LabourByProject()
	} else {
		projects = v.data.LabourSummary()
	}

	var b strings.Builder
	b.WriteString(v.header("👷 Затраты на труд"))
	if len(projects) == 0 {
		b.WriteString("\nНет данных за период.")
		return b.String()
	}

	for _, project := range projects {
		fmt.Fprintf(&b, "\n🏗 %s: %d чел.-дн., %s\n", project.Project.Name, project.TotalDays, v.amount(project.TotalCost))
		for _, worker := range project.Workers {
			fmt.Fprintf(&b, "   • %s: %d дн., %s\n", worker.Worker.FullName, worker.Days, v.amount(worker.Cost))
		}
	}
	fmt.Fprintf(&b, "\nИтого: %s", v.amount(v.data.TotalLabour()))
	return b.String()
}

func renderMaterials(v reportView) string {
	projects := v.data.MaterialsByProject()

	var b strings.Builder
	b.WriteString(v.header("🧱 Материалы"))
	if len(projects) == 0 {
		b.WriteString("\nНет данных за период.")
		return b.String()
	}

	for _, project := range projects {
		fmt.Fprintf(&b, "\n🏗 %s (%d поз.)\n", project.Project.Name, len(project.Entries))
		fmt.Fprintf(&b, "   без НДС: %s\n", v.amount(project.TotalExVAT))
		fmt.Fprintf(&b, "   НДС: %s\n", v.amount(project.TotalVAT))
		fmt.Fprintf(&b, "   с НДС: %s\n", v.amount(project.TotalIncVAT))
	}
	fmt.Fprintf(&b, "\nИтого с НДС: %s", v.amount(v.data.TotalMaterials()))
	return b.String()
}

func renderCombined(v reportView) string {
	costs := v.data.CombinedCost()

	var b strings.Builder
	b.WriteString(v.header("💰 Труд и материалы"))
	if len(costs) == 0 {
		b.WriteString("\nНет данных за период.")
		return b.String()
	}

	total := decimal.Zero
	for _, cost := range costs {
		fmt.Fprintf(&b, "\n🏗 %s\n", cost.Project.Name)
		fmt.Fprintf(&b, "   труд: %s\n", v.amount(cost.Labour))
		fmt.Fprintf(&b, "   материалы: %s\n", v.amount(cost.MaterialsIncVAT))
		fmt.Fprintf(&b, "   всего: %s\n", v.amount(cost.Total))
		total = total.Add(cost.Total)
	}
	fmt.Fprintf(&b, "\nИтого: %s", v.amount(total))
	return b.String()
}

func renderActivity(v reportView) string {
	days := v.data.ActivityReport()

	var b strings.Builder
	b.WriteString(v.header("📝 Журнал работ"))
	if len(days) == 0 {
		b.WriteString("\nНет данных за период.")
		return b.String()
	}

	for _, day := range days {
		fmt.Fprintf(&b, "\n📅 %s\n", day.Date.Format(dateLayout))
		for _, project := range day.Projects {
			fmt.Fprintf(&b, "🏗 %s\n", project.Project.Name)
			for _, entry := range project.Entries {
				line := fmt.Sprintf("   • %s - %s, %s ч", entry.WorkerName, entry.TaskName, formatHours(entry.HoursWorked))
				if entry.Scope != "" {
					line += ": " + entry.Scope
				}
				b.WriteString(line + "\n")
			}
		}
	}
	return b.String()
}

func renderLabourDetail(v reportView) string {
	rows := v.data.LabourDetail()

	var b strings.Builder
	b.WriteString(v.header("👷 Труд по записям"))
	if len(rows) == 0 {
		b.WriteString("\nНет данных за период.")
		return b.String()
	}

	b.WriteString("\n")
	for _, row := range rows {
		task := row.TaskName
		if row.PhaseName != "" {
			task = row.PhaseName + " / " + task
		}
		fmt.Fprintf(&b, "%s | %s | %s | %s | %s ч | %s\n",
			row.LogDate.Format(dateLayout), row.ProjectName, task, row.WorkerName,
			formatHours(row.HoursWorked), v.amount(row.Cost))
	}
	fmt.Fprintf(&b, "\nИтого: %s", v.amount(v.data.TotalLabour()))
	return b.String()
}

func renderMaterialsDetail(v reportView) string {
	rows := v.data.MaterialsDetail()

	var b strings.Builder
	b.WriteString(v.header("🧱 Материалы по записям"))
	if len(rows) == 0 {
		b.WriteString("\nНет данных за период.")
		return b.String()
	}

	b.WriteString("\n")
	for _, row := range rows {
		fmt.Fprintf(&b, "%s | %s | %s | %s %s x %s | НДС %s | %s\n",
			row.Date.Format(dateLayout), row.ProjectName, row.Description,
			row.Quantity.String(), row.Unit, v.amount(row.UnitCostExVAT),
			formatRate(row.VATRate), v.amount(row.TotalIncVAT))
	}
	fmt.Fprintf(&b, "\nИтого с НДС: %s", v.amount(v.data.TotalMaterials()))
	return b.String()
}

// showTimeline: /timeline <worker_id> [cost]
func (h *Handler) showTimeline(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	fields := strings.Fields(args)
	if len(fields) == 0 {
		h.send(chatID, "❌ Укажите id работника: /timeline 12 [cost]")
		return
	}

	workerID, err := strconv.ParseUint(fields[0], 10, 64)
	if err != nil || workerID == 0 {
		h.send(chatID, "❌ Некорректный id работника: "+fields[0])
		return
	}
	withCost := len(fields) > 1 && strings.EqualFold(fields[1], "cost")

	timeline, err := h.reportService.Timeline(uint(workerID), withCost)
	if err != nil {
		h.sendError(chatID, "Ошибка получения хронологии", err)
		return
	}

	v := reportView{converter: h.reportService.Converter(), currency: h.currency(chatID)}
	var b strings.Builder
	fmt.Fprintf(&b, "🗓 %s\n", timeline.Worker.FullName)
	if len(timeline.Entries) == 0 {
		b.WriteString("\nЗаписей нет.")
	}
	for _, entry := range timeline.Entries {
		line := fmt.Sprintf("%s | %s | %s | %s ч",
			entry.Date.Format(dateLayout), entry.ProjectName, entry.TaskName, formatHours(entry.HoursWorked))
		if entry.Cost != nil {
			line += " | " + v.amount(*entry.Cost)
		}
		b.WriteString(line + "\n")
	}
	h.send(chatID, b.String())
}

func (h *Handler) showWorkers(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	workers, err := h.workerService.ActiveWorkers()
	if err != nil {
		h.sendError(chatID, "Ошибка получения работников", err)
		return
	}
	if len(workers) == 0 {
		h.send(chatID, "👷 Активных работников нет.")
		return
	}

	var b strings.Builder
	b.WriteString("👷 Активные работники:\n")
	for _, worker := range workers {
		line := fmt.Sprintf("%d. %s", worker.ID, worker.FullName)
		if worker.Trade != "" {
			line += " (" + worker.Trade + ")"
		}
		b.WriteString(line + "\n")
	}
	h.send(chatID, b.String())
}
