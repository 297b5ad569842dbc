package handler

import (
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"site-cost-bot/internal/money"
)

const dateLayout = "2006-01-02"

// formatAmount печатает сумму с разделителями тысяч или заглушку, если курса нет
func formatAmount(amount money.Amount) string {
	if !amount.Available {
		return money.Unavailable
	}
	return formatNumber(money.Round2(amount.Value)) + " " + amount.Currency
}

// formatNumber - только для вывода: расчеты уже выполнены в decimal
func formatNumber(value decimal.Decimal) string {
	return humanize.FormatFloat("#,###.##", value.InexactFloat64())
}

func formatHours(value decimal.Decimal) string {
	return value.Round(2).String()
}

// formatRate печатает ставку в процентах: 0.21 -> "21%"
func formatRate(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).Round(2).String() + "%"
}
