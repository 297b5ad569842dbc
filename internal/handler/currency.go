package handler

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const fetchTimeout = 30 * time.Second

func (h *Handler) switchCurrency(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	cfg := h.reportService.Config()

	requested := strings.ToUpper(strings.TrimSpace(args))
	if requested == "" {
		h.send(chatID, fmt.Sprintf("💱 Текущая валюта: %s", h.currency(chatID)))
		return
	}
	if !cfg.Supports(requested) {
		h.send(chatID, fmt.Sprintf("❌ Поддерживаются только %s и %s", cfg.BaseCurrency, cfg.AltCurrency))
		return
	}

	h.setCurrency(chatID, requested)
	h.send(chatID, fmt.Sprintf("✅ Отчеты будут в %s", requested))
}

func (h *Handler) showRate(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	rate, err := h.fxService.Latest()
	if err != nil {
		h.sendError(chatID, "Ошибка получения курса", err)
		return
	}
	if rate == nil {
		h.send(chatID, "💱 Курс еще не загружен. Используйте /fetchfx")
		return
	}

	h.send(chatID, fmt.Sprintf("💱 1 %s = %s %s\n📅 %s (%s)",
		rate.BaseCurrency, rate.Rate.String(), rate.QuoteCurrency,
		rate.Date.Format(dateLayout), rate.Source))
}

func (h *Handler) fetchRate(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	rate, err := h.fxService.FetchAndStore(ctx, time.Now())
	if err != nil {
		h.sendError(chatID, "Ошибка загрузки курса", err)
		return
	}

	cfg := h.reportService.Config()
	h.send(chatID, fmt.Sprintf("✅ Курс обновлен: 1 %s = %s %s", cfg.BaseCurrency, rate.String(), cfg.AltCurrency))
}
