package handler

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (h *Handler) handleCommand(message *tgbotapi.Message) {
	command := message.Command()
	args := message.CommandArguments()

	switch command {
	case "start", "help":
		h.sendHelpMessage(message)

	// Отчеты
	case "dashboard":
		h.showReport(message, args, renderDashboard)
	case "labour", "labor":
		h.showReport(message, args, renderLabour)
	case "materials":
		h.showReport(message, args, renderMaterials)
	case "combined":
		h.showReport(message, args, renderCombined)
	case "activity":
		h.showReport(message, args, renderActivity)
	case "labourdetail":
		h.showReport(message, args, renderLabourDetail)
	case "materialsdetail":
		h.showReport(message, args, renderMaterialsDetail)
	case "timeline":
		h.showTimeline(message, args)
	case "workers":
		h.showWorkers(message)
	case "projects":
		h.showProjects(message)
	case "salaries":
		h.showSalaries(message, args)

	// Ввод данных
	case "addproject":
		h.addProject(message, args)
	case "addphase":
		h.addPhase(message, args)
	case "addtask":
		h.addTask(message, args)
	case "addworker":
		h.addWorker(message, args)
	case "addsalary":
		h.addSalary(message, args)
	case "log":
		h.logWork(message, args)
	case "material":
		h.addMaterial(message, args)
	case "discard":
		h.discard(message, args)

	// Валюта
	case "currency":
		h.switchCurrency(message, args)
	case "fxrate":
		h.showRate(message)
	case "fetchfx":
		h.fetchRate(message)

	default:
		h.send(message.Chat.ID, "❌ Неизвестная команда. Используйте /help для списка команд.")
	}
}

func (h *Handler) sendHelpMessage(message *tgbotapi.Message) {
	cfg := h.reportService.Config()
	text := `📋 Доступные команды:

📊 Отчеты (по умолчанию текущий месяц):
/dashboard - Итоги и топ проектов
/labour - Затраты на труд
/materials - Материалы
/combined - Труд и материалы по проектам
/activity - Журнал работ без стоимости
/labourdetail - Труд по записям
/materialsdetail - Материалы по записям
/timeline <id> [cost] - Хронология работника
/workers - Активные работники и их id
/projects - Проекты и их id
/salaries <id> - История зарплат работника

✏️ Ввод данных:
/addproject Название | Клиент
/addphase project=1 Название
/addtask project=1 [phase=2] Название
/addworker ФИО | Специальность
/addsalary worker=1 from=2024-01-01 gross=6000
/log project=1 task=2 worker=3 [date=] [hours=8] Описание
/material project=1 [task=2] qty=10 unit=sac inc=121 [vat=0.21] Описание
/discard log|material|salary|worker <id>

🔎 Фильтры (через пробел):
from=2024-03-01 to=2024-03-31
projects=1,2 phases=3 tasks=4,5 workers=6
currency=` + cfg.AltCurrency + `

💱 Валюта:
/currency ` + cfg.BaseCurrency + `|` + cfg.AltCurrency + ` - Валюта отчетов
/fxrate - Последний курс
/fetchfx - Обновить курс`

	h.send(message.Chat.ID, strings.TrimSpace(text))
}
