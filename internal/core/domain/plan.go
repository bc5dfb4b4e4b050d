package domain

import "github.com/shopspring/decimal"

// InvestmentPlan is a fixed-term product a user can lock funds into.
// Plans are a static catalog; the repo ships them in code.
type InvestmentPlan struct {
	PlanID       string          `json:"planID"`
	Name         string          `json:"name"`
	DailyReturn  decimal.Decimal `json:"dailyReturn"` // percent per day
	DurationDays int             `json:"durationDays"`
	MinAmount    decimal.Decimal `json:"minAmount"`
}

// WelcomeBonus is the one-time credit granted to a new account, determined
// by the account's jurisdiction.
type WelcomeBonus struct {
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode"`
	CountryName  string          `json:"countryName"`
}
