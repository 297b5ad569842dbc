package handler

import (
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"site-cost-bot/internal/config"
	"site-cost-bot/internal/service"
	"site-cost-bot/pkg/telegram"
)

type Handler struct {
	client          *telegram.Client
	reportService   *service.ReportService
	fxService       *service.FXService
	workerService   *service.WorkerService
	projectService  *service.ProjectService
	salaryService   *service.SalaryService
	logService      *service.DailyLogService
	materialService *service.MaterialService
	config          *config.Config

	mu         sync.Mutex
	currencies map[int64]string // выбранная валюта по чатам
}

func NewHandler(
	client *telegram.Client,
	reportService *service.ReportService,
	fxService *service.FXService,
	workerService *service.WorkerService,
	projectService *service.ProjectService,
	salaryService *service.SalaryService,
	logService *service.DailyLogService,
	materialService *service.MaterialService,
	cfg *config.Config,
) *Handler {
	return &Handler{
		client:          client,
		reportService:   reportService,
		fxService:       fxService,
		workerService:   workerService,
		projectService:  projectService,
		salaryService:   salaryService,
		logService:      logService,
		materialService: materialService,
		config:          cfg,
		currencies:      make(map[int64]string),
	}
}

func (h *Handler) HandleUpdates(updates tgbotapi.UpdatesChannel) {
	for update := range updates {
		if update.Message == nil {
			continue
		}

		h.handleMessage(update.Message)
	}
}

func (h *Handler) handleMessage(message *tgbotapi.Message) {
	var userName string
	if message.From != nil {
		userName = message.From.UserName
	}
	logrus.Infof("[%s] %s", userName, message.Text)

	if !message.IsCommand() {
		h.send(message.Chat.ID, "Используйте /help для списка команд.")
		return
	}

	// отчеты содержат зарплаты, доступ только из чата администратора
	if message.Chat.ID != h.config.BaseAdminChatID {
		logrus.WithFields(logrus.Fields{
			"chat_id": message.Chat.ID,
			"user":    userName,
		}).Warn("Rejected command from foreign chat")
		h.send(message.Chat.ID, "❌ Доступ запрещен.")
		return
	}

	h.handleCommand(message)
}

// currency - валюта чата, по умолчанию базовая
func (h *Handler) currency(chatID int64) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if currency, ok := h.currencies[chatID]; ok {
		return currency
	}
	return h.reportService.Config().BaseCurrency
}

func (h *Handler) setCurrency(chatID int64, currency string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.currencies[chatID] = currency
}

// send отправляет текст, длинные отчеты режутся по строкам
func (h *Handler) send(chatID int64, text string) {
	if err := h.client.SendLong(chatID, text); err != nil {
		logrus.WithError(err).WithField("chat_id", chatID).Error("Failed to send message")
	}
}

func (h *Handler) sendError(chatID int64, prefix string, err error) {
	logrus.WithError(err).Error(prefix)
	h.send(chatID, "❌ "+prefix+": "+err.Error())
}
