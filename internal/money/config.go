// Package money содержит денежные примитивы: округление, расчет НДС в двух режимах,
// производные ставки зарплаты и конвертацию валют.
package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	CurrencyRON = "RON"
	CurrencyGBP = "GBP"
)

var (
	ErrMissingUnitCost    = errors.New("unit cost ex VAT or inc VAT is required")
	ErrUnsupportedVATRate = errors.New("unsupported VAT rate")
	ErrInvalidQuantity    = errors.New("quantity must be greater than zero")
	ErrNegativeUnitCost   = errors.New("unit cost cannot be negative")
)

// Config - налоговые ставки и валюты. Передается явно в конструкторы,
// глобального состояния нет.
type Config struct {
	SocialRate     decimal.Decimal // CAS
	HealthRate     decimal.Decimal // CASS
	IncomeTaxRate  decimal.Decimal
	VATRates       []decimal.Decimal
	DefaultVATRate decimal.Decimal
	BaseCurrency   string
	AltCurrency    string
}

// DefaultConfig возвращает значения по умолчанию (как в исходных настройках системы)
func DefaultConfig() Config {
	return Config{
		SocialRate:     decimal.RequireFromString("0.25"),
		HealthRate:     decimal.RequireFromString("0.10"),
		IncomeTaxRate:  decimal.RequireFromString("0.10"),
		VATRates:       []decimal.Decimal{decimal.Zero, decimal.RequireFromString("0.21")},
		DefaultVATRate: decimal.RequireFromString("0.21"),
		BaseCurrency:   CurrencyRON,
		AltCurrency:    CurrencyGBP,
	}
}

// ValidVATRate проверяет, входит ли ставка в разрешенный набор
func (c Config) ValidVATRate(rate decimal.Decimal) bool {
	for _, allowed := range c.VATRates {
		if allowed.Equal(rate) {
			return true
		}
	}
	return false
}

// Supports проверяет, поддерживается ли валюта для отображения
func (c Config) Supports(currency string) bool {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	return currency == c.BaseCurrency || currency == c.AltCurrency
}

// NormalizeCurrency приводит код валюты к верхнему регистру; неизвестные коды
// заменяются базовой валютой
func (c Config) NormalizeCurrency(currency string) string {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == c.AltCurrency {
		return currency
	}
	return c.BaseCurrency
}

// Round2 округляет до копеек (half away from zero)
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
