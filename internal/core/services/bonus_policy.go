package services

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/moneta-ict/moneta-backend/internal/apperrors"
	"github.com/moneta-ict/moneta-backend/internal/core/domain"
)

// welcomeBonuses maps jurisdiction codes to the one-time credit a new
// account is entitled to. The table is deliberately short: jurisdictions are
// onboarded one at a time and each needs a funded local bank account first.
var welcomeBonuses = map[string]domain.WelcomeBonus{
	"CO": {Amount: decimal.NewFromInt(12000), CurrencyCode: "COP", CountryName: "Colombia"},
	"PE": {Amount: decimal.NewFromInt(10), CurrencyCode: "PEN", CountryName: "Peru"},
}

// BonusForCountry returns the welcome bonus entitlement for a jurisdiction
// code, or ErrUnsupportedJurisdiction when there is no entry. Callers must
// not fail the enclosing registration on that error.
func BonusForCountry(country string) (domain.WelcomeBonus, error) {
	bonus, ok := welcomeBonuses[country]
	if !ok {
		return domain.WelcomeBonus{}, fmt.Errorf("%w: no welcome bonus for country %q", apperrors.ErrUnsupportedJurisdiction, country)
	}
	return bonus, nil
}
