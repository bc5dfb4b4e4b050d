package services

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/moneta-ict/moneta-backend/internal/apperrors"
	"github.com/moneta-ict/moneta-backend/internal/core/domain"
)

// investmentPlans is the static plan catalog. Terms are snapshotted onto
// each investment request at creation time, so editing this table never
// changes an existing investment.
var investmentPlans = []domain.InvestmentPlan{
	{PlanID: "starter", Name: "Starter", DailyReturn: decimal.RequireFromString("1.5"), DurationDays: 30, MinAmount: decimal.NewFromInt(50)},
	{PlanID: "growth", Name: "Growth", DailyReturn: decimal.RequireFromString("2.0"), DurationDays: 60, MinAmount: decimal.NewFromInt(500)},
	{PlanID: "premium", Name: "Premium", DailyReturn: decimal.RequireFromString("2.5"), DurationDays: 90, MinAmount: decimal.NewFromInt(5000)},
}

// PlanByID looks up a plan in the catalog.
func PlanByID(planID string) (domain.InvestmentPlan, error) {
	for _, p := range investmentPlans {
		if p.PlanID == planID {
			return p, nil
		}
	}
	return domain.InvestmentPlan{}, fmt.Errorf("%w: investment plan %q", apperrors.ErrNotFound, planID)
}

// Plans returns the full catalog.
func Plans() []domain.InvestmentPlan {
	out := make([]domain.InvestmentPlan, len(investmentPlans))
	copy(out, investmentPlans)
	return out
}
