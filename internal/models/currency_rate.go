package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CurrencyRate - курс base->quote на дату. Одна запись на дату и пару валют.
type CurrencyRate struct {
	ID            uint            `gorm:"primarykey" json:"id"`
	Date          time.Time       `gorm:"type:date;not null;uniqueIndex:idx_currency_rates_pair_date,priority:3" json:"date"`
	BaseCurrency  string          `gorm:"type:varchar(3);not null;uniqueIndex:idx_currency_rates_pair_date,priority:1" json:"base_currency"`
	QuoteCurrency string          `gorm:"type:varchar(3);not null;uniqueIndex:idx_currency_rates_pair_date,priority:2" json:"quote_currency"`
	Rate          decimal.Decimal `gorm:"type:decimal(16,8);not null" json:"rate"`
	Source        string          `gorm:"type:varchar(50)" json:"source"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (CurrencyRate) TableName() string {
	return "currency_rates"
}

// IsValid проверяет валидность данных
func (r *CurrencyRate) IsValid() bool {
	return !r.Date.IsZero() && r.BaseCurrency != "" && r.QuoteCurrency != "" && r.Rate.IsPositive()
}

// Setting - настройка ключ/значение (налоговые ставки, ставки НДС, провайдер курсов)
type Setting struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Key       string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"key"`
	Value     string    `gorm:"not null" json:"value"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Setting) TableName() string {
	return "settings"
}

// Ключи настроек
const (
	SettingCASRate        = "cas_rate"
	SettingCASSRate       = "cass_rate"
	SettingIncomeTaxRate  = "income_tax_rate"
	SettingDefaultVATRate = "default_vat_rate"
	SettingVATRates       = "vat_rates"
	SettingFXProvider     = "fx_api_provider"
)
