package money

import "github.com/shopspring/decimal"

// VATInputMode - какая из цен за единицу введена пользователем
type VATInputMode string

const (
	VATInclusive VATInputMode = "inc"
	VATExclusive VATInputMode = "ex"
)

// UnitCosts - цена за единицу без НДС и с НДС
type UnitCosts struct {
	ExVAT  decimal.Decimal
	IncVAT decimal.Decimal
}

// LineTotals - итоги строки материала
type LineTotals struct {
	ExVAT  decimal.Decimal
	VAT    decimal.Decimal
	IncVAT decimal.Decimal
}

// ResolveUnitCosts выводит недостающую цену за единицу.
// inc: ex = round(inc / (1+rate), 2); ex: inc = round(ex * (1+rate), 2).
// Если в выбранном режиме цена не передана, расчет ведется от той, что есть.
func ResolveUnitCosts(mode VATInputMode, incVAT, exVAT *decimal.Decimal, rate decimal.Decimal) (UnitCosts, error) {
	if incVAT == nil && exVAT == nil {
		return UnitCosts{}, ErrMissingUnitCost
	}
	if (incVAT != nil && incVAT.IsNegative()) || (exVAT != nil && exVAT.IsNegative()) {
		return UnitCosts{}, ErrNegativeUnitCost
	}

	multiplier := decimal.NewFromInt(1).Add(rate)

	fromInclusive := incVAT != nil && (mode == VATInclusive || exVAT == nil)
	if fromInclusive {
		return UnitCosts{
			ExVAT:  Round2(incVAT.Div(multiplier)),
			IncVAT: *incVAT,
		}, nil
	}

	return UnitCosts{
		ExVAT:  *exVAT,
		IncVAT: Round2(exVAT.Mul(multiplier)),
	}, nil
}

// ComputeLineTotals считает итоги строки без промежуточного округления:
// ex = q * unit, vat = ex * rate, inc = ex + vat
func ComputeLineTotals(quantity, unitExVAT, rate decimal.Decimal) LineTotals {
	ex := quantity.Mul(unitExVAT)
	vat := ex.Mul(rate)
	return LineTotals{
		ExVAT:  ex,
		VAT:    vat,
		IncVAT: ex.Add(vat),
	}
}
