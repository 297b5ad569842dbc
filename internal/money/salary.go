package money

import "github.com/shopspring/decimal"

const (
	monthsPerYear   = 12
	weeksPerYear    = 52
	workDaysPerWeek = 5

	// DailyRatePlaces - точность хранения дневной ставки
	DailyRatePlaces = 4
)

// DailyRate переводит месячный брутто в дневную ставку: gross * 12 / 52 / 5
func DailyRate(grossMonthly decimal.Decimal) decimal.Decimal {
	return grossMonthly.
		Mul(decimal.NewFromInt(monthsPerYear)).
		Div(decimal.NewFromInt(weeksPerYear)).
		Div(decimal.NewFromInt(workDaysPerWeek)).
		Round(DailyRatePlaces)
}

// Contributions - удержания из брутто
type Contributions struct {
	Social    decimal.Decimal
	Health    decimal.Decimal
	IncomeTax decimal.Decimal
	Net       decimal.Decimal
}

// NetMonthly считает удержания и нетто. Налог на доход берется с
// (gross - social - health), но не меньше нуля.
func NetMonthly(grossMonthly decimal.Decimal, cfg Config) Contributions {
	social := grossMonthly.Mul(cfg.SocialRate)
	health := grossMonthly.Mul(cfg.HealthRate)
	taxable := grossMonthly.Sub(social).Sub(health)
	incomeTax := decimal.Max(taxable.Mul(cfg.IncomeTaxRate), decimal.Zero)

	return Contributions{
		Social:    social,
		Health:    health,
		IncomeTax: incomeTax,
		Net:       Round2(grossMonthly.Sub(social).Sub(health).Sub(incomeTax)),
	}
}
