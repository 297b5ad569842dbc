package money

import (
	"github.com/shopspring/decimal"
)

// Unavailable - заглушка для сумм, которые нельзя пересчитать (нет курса)
const Unavailable = "—"

// RateSource отдает последний сохраненный курс для пары валют.
// nil без ошибки - курса нет.
type RateSource interface {
	LatestRate(base, quote string) (*decimal.Decimal, error)
}

// Amount - результат конвертации. Available=false означает "курс недоступен".
type Amount struct {
	Value     decimal.Decimal
	Currency  string
	Available bool
}

// String форматирует сумму с двумя знаками или возвращает заглушку
func (a Amount) String() string {
	if !a.Available {
		return Unavailable
	}
	return a.Value.StringFixed(2) + " " + a.Currency
}

// Converter пересчитывает суммы из базовой валюты в альтернативную
// по последнему известному курсу (независимо от периода отчета).
type Converter struct {
	cfg    Config
	rates  RateSource
	pinned *decimal.Decimal
	pinSet bool
}

func NewConverter(cfg Config, rates RateSource) *Converter {
	return &Converter{cfg: cfg, rates: rates}
}

// Pinned возвращает конвертер, который читает курс один раз.
// Используется в пределах одного отчета.
func (c *Converter) Pinned() *Converter {
	rate := c.latest()
	return &Converter{cfg: c.cfg, rates: c.rates, pinned: rate, pinSet: true}
}

// Rate возвращает используемый курс base->alt или nil
func (c *Converter) Rate() *decimal.Decimal {
	if c.pinSet {
		return c.pinned
	}
	return c.latest()
}

// Convert пересчитывает amount (в базовой валюте) в target.
func (c *Converter) Convert(amount decimal.Decimal, target string) Amount {
	if target == "" || target == c.cfg.BaseCurrency {
		return Amount{Value: amount, Currency: c.cfg.BaseCurrency, Available: true}
	}
	if target != c.cfg.AltCurrency {
		return Amount{Currency: target}
	}

	rate := c.Rate()
	if rate == nil || !rate.IsPositive() {
		return Amount{Currency: target}
	}

	return Amount{Value: Round2(amount.Mul(*rate)), Currency: target, Available: true}
}

func (c *Converter) latest() *decimal.Decimal {
	if c.rates == nil {
		return nil
	}
	rate, err := c.rates.LatestRate(c.cfg.BaseCurrency, c.cfg.AltCurrency)
	if err != nil {
		return nil
	}
	return rate
}
