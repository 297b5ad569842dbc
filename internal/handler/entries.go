package handler

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"

	"site-cost-bot/internal/models"
	"site-cost-bot/internal/money"
	"site-cost-bot/internal/service"
)

// entryArgs - аргументы вида key=value плюс свободный текст
type entryArgs struct {
	values map[string]string
	text   string
}

func parseEntryArgs(args string) entryArgs {
	parsed := entryArgs{values: make(map[string]string)}
	var words []string
	for _, field := range strings.Fields(args) {
		key, value, ok := strings.Cut(field, "=")
		if ok && key != "" {
			parsed.values[strings.ToLower(key)] = value
			continue
		}
		words = append(words, field)
	}
	parsed.text = strings.Join(words, " ")
	return parsed
}

func (a entryArgs) id(key string) (uint, error) {
	raw, ok := a.values[key]
	if !ok {
		return 0, fmt.Errorf("не указан %s=", key)
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("некорректный %s=%s", key, raw)
	}
	return uint(id), nil
}

func (a entryArgs) optionalID(key string) (*uint, error) {
	if _, ok := a.values[key]; !ok {
		return nil, nil
	}
	id, err := a.id(key)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// date без значения - сегодня
func (a entryArgs) date(key string, now time.Time) (time.Time, error) {
	raw, ok := a.values[key]
	if !ok {
		return now, nil
	}
	date, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("некорректная дата %s=%s", key, raw)
	}
	return date, nil
}

func (a entryArgs) number(key string) (*decimal.Decimal, error) {
	raw, ok := a.values[key]
	if !ok {
		return nil, nil
	}
	value, err := decimal.NewFromString(strings.Replace(raw, ",", ".", 1))
	if err != nil {
		return nil, fmt.Errorf("некорректное число %s=%s", key, raw)
	}
	return &value, nil
}

// splitPair делит "имя | доп" на две части
func splitPair(text string) (string, string) {
	first, second, _ := strings.Cut(text, "|")
	return strings.TrimSpace(first), strings.TrimSpace(second)
}

// /addproject Casa Verde | SC Client SRL
func (h *Handler) addProject(message *tgbotapi.Message, args string) {
	name, client := splitPair(args)
	project, err := h.projectService.CreateProject(name, client)
	if err != nil {
		h.sendError(message.Chat.ID, "Ошибка создания проекта", err)
		return
	}
	h.send(message.Chat.ID, fmt.Sprintf("✅ Проект #%d %s создан", project.ID, project.Name))
}

// /addphase project=1 Fundatie
func (h *Handler) addPhase(message *tgbotapi.Message, args string) {
	parsed := parseEntryArgs(args)
	projectID, err := parsed.id("project")
	if err != nil {
		h.send(message.Chat.ID, "❌ "+err.Error())
		return
	}

	phase, err := h.projectService.CreatePhase(projectID, parsed.text)
	if err != nil {
		h.sendError(message.Chat.ID, "Ошибка создания этапа", err)
		return
	}
	h.send(message.Chat.ID, fmt.Sprintf("✅ Этап #%d %s создан", phase.ID, phase.Name))
}

// /addtask project=1 [phase=2] Sapatura
func (h *Handler) addTask(message *tgbotapi.Message, args string) {
	parsed := parseEntryArgs(args)
	projectID, err := parsed.id("project")
	if err != nil {
		h.send(message.Chat.ID, "❌ "+err.Error())
		return
	}
	phaseID, err := parsed.optionalID("phase")
	if err != nil {
		h.send(message.Chat.ID, "❌ "+err.Error())
		return
	}

	task, err := h.projectService.CreateTask(projectID, phaseID, parsed.text)
	if err != nil {
		h.sendError(message.Chat.ID, "Ошибка создания задачи", err)
		return
	}
	h.send(message.Chat.ID, fmt.Sprintf("✅ Задача #%d %s создана", task.ID, task.Name))
}

// /addworker Ion Popescu | zidar
func (h *Handler) addWorker(message *tgbotapi.Message, args string) {
	name, trade := splitPair(args)
	worker, err := h.workerService.CreateWorker(name, trade)
	if err != nil {
		h.sendError(message.Chat.ID, "Ошибка создания работника", err)
		return
	}
	h.send(message.Chat.ID, fmt.Sprintf("✅ Работник #%d %s добавлен", worker.ID, worker.FullName))
}

// /addsalary worker=1 from=2024-01-01 gross=6000
func (h *Handler) addSalary(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	parsed := parseEntryArgs(args)

	workerID, err := parsed.id("worker")
	if err != nil {
		h.send(chatID, "❌ "+err.Error())
		return
	}
	from, err := parsed.date("from", time.Now())
	if err != nil {
		h.send(chatID, "❌ "+err.Error())
		return
	}
	gross, err := parsed.number("gross")
	if err != nil || gross == nil {
		h.send(chatID, "❌ Укажите gross=<брутто в месяц>")
		return
	}

	record, err := h.salaryService.AddSalary(workerID, from, *gross)
	if err != nil {
		h.sendError(chatID, "Ошибка добавления зарплаты", err)
		return
	}

	base := h.reportService.Config().BaseCurrency
	h.send(chatID, fmt.Sprintf("✅ Зарплата с %s: брутто %s, нетто %s, в день %s %s",
		record.EffectiveFrom.Format(dateLayout),
		formatNumber(record.GrossMonthly), formatNumber(record.NetMonthly),
		record.DailyRate.String(), base))
}

// /log project=1 task=2 worker=3 [date=2024-03-04] [hours=8] описание работ
func (h *Handler) logWork(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	parsed := parseEntryArgs(args)

	var input service.DailyLogInput
	var err error
	if input.ProjectID, err = parsed.id("project"); err == nil {
		if input.TaskID, err = parsed.id("task"); err == nil {
			input.WorkerID, err = parsed.id("worker")
		}
	}
	if err == nil {
		input.Date, err = parsed.date("date", time.Now())
	}
	if err == nil {
		input.Hours, err = parsed.number("hours")
	}
	if err != nil {
		h.send(chatID, "❌ "+err.Error())
		return
	}
	input.Scope = parsed.text

	log, err := h.logService.LogWork(input)
	if err != nil {
		h.sendError(chatID, "Ошибка записи работы", err)
		return
	}
	h.send(chatID, fmt.Sprintf("✅ Записано #%d: %s, %s ч", log.ID, log.LogDate.Format(dateLayout), formatHours(log.HoursWorked)))
}

// /material project=1 [task=2] [date=] qty=10 unit=sac inc=121 [vat=0.21] [supplier=X] Ciment
func (h *Handler) addMaterial(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	parsed := parseEntryArgs(args)

	input := models.MaterialInput{
		Description:  parsed.text,
		Unit:         parsed.values["unit"],
		SupplierName: parsed.values["supplier"],
	}

	var err error
	if input.ProjectID, err = parsed.id("project"); err == nil {
		input.TaskID, err = parsed.optionalID("task")
	}
	if err == nil {
		input.Date, err = parsed.date("date", time.Now())
	}
	var quantity *decimal.Decimal
	if err == nil {
		quantity, err = parsed.number("qty")
	}
	if err == nil {
		input.UnitCostIncVAT, err = parsed.number("inc")
	}
	if err == nil {
		input.UnitCostExVAT, err = parsed.number("ex")
	}
	if err == nil {
		input.VATRate, err = parsed.number("vat")
	}
	if err != nil {
		h.send(chatID, "❌ "+err.Error())
		return
	}

	if quantity != nil {
		input.Quantity = *quantity
	}
	input.InputMode = money.VATExclusive
	if input.UnitCostIncVAT != nil {
		input.InputMode = money.VATInclusive
	}

	entry, err := h.materialService.AddEntry(input)
	if err != nil {
		h.sendError(chatID, "Ошибка добавления материала", err)
		return
	}

	base := h.reportService.Config().BaseCurrency
	h.send(chatID, fmt.Sprintf("✅ Материал #%d %s: без НДС %s, НДС %s, итого %s %s",
		entry.ID, entry.Description,
		formatNumber(entry.TotalExVAT), formatNumber(entry.TotalVAT), formatNumber(entry.TotalIncVAT), base))
}

// /discard log|material|salary|worker <id>
func (h *Handler) discard(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	fields := strings.Fields(args)
	if len(fields) != 2 {
		h.send(chatID, "❌ Формат: /discard log|material|salary|worker <id>")
		return
	}
	id, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil || id == 0 {
		h.send(chatID, "❌ Некорректный id: "+fields[1])
		return
	}

	switch strings.ToLower(fields[0]) {
	case "log":
		err = h.logService.Discard(uint(id))
	case "material":
		err = h.materialService.Discard(uint(id))
	case "salary":
		err = h.salaryService.Retire(uint(id))
	case "worker":
		err = h.workerService.Discard(uint(id))
	default:
		h.send(chatID, "❌ Неизвестный тип записи: "+fields[0])
		return
	}
	if err != nil {
		h.sendError(chatID, "Ошибка удаления", err)
		return
	}
	h.send(chatID, "✅ Запись помечена удаленной")
}

// /salaries <worker_id> - история, включая удаленные записи
func (h *Handler) showSalaries(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	id, err := strconv.ParseUint(strings.TrimSpace(args), 10, 64)
	if err != nil || id == 0 {
		h.send(chatID, "❌ Укажите id работника: /salaries 12")
		return
	}

	history, err := h.salaryService.History(uint(id))
	if err != nil {
		h.sendError(chatID, "Ошибка получения зарплат", err)
		return
	}
	if len(history) == 0 {
		h.send(chatID, "💼 Зарплат нет.")
		return
	}

	var b strings.Builder
	b.WriteString("💼 История зарплат:\n")
	for _, record := range history {
		line := fmt.Sprintf("#%d с %s: брутто %s, в день %s",
			record.ID, record.EffectiveFrom.Format(dateLayout),
			formatNumber(record.GrossMonthly), record.DailyRate.String())
		if !record.Kept() {
			line += " (удалена)"
		}
		b.WriteString(line + "\n")
	}
	h.send(chatID, b.String())
}

func (h *Handler) showProjects(message *tgbotapi.Message) {
	projects, err := h.projectService.Projects()
	if err != nil {
		h.sendError(message.Chat.ID, "Ошибка получения проектов", err)
		return
	}
	if len(projects) == 0 {
		h.send(message.Chat.ID, "🏗 Проектов нет.")
		return
	}

	var b strings.Builder
	b.WriteString("🏗 Проекты:\n")
	for _, project := range projects {
		fmt.Fprintf(&b, "%d. %s [%s]\n", project.ID, project.Name, project.Status)
	}
	h.send(message.Chat.ID, b.String())
}
