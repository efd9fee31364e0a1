package usecase_test

import (
	"testing"
	"time"

	"go-coaching-backend/internal/domain"
	"go-coaching-backend/internal/usecase"

	"github.com/stretchr/testify/assert"
)

func TestBuildPlanTargets(t *testing.T) {
	detail := domain.PlanDetail{
		NetIncomeGoal:     70000,
		TaxRatePct:        25,
		AvgSalePrice:      450000,
		CommissionRatePct: 3,
		IncomeSplitPct:    60,
	}

	targets := usecase.BuildPlanTargets(detail)

	t.Run("Derives income chain", func(t *testing.T) {
		// 70000 / 0.75 = 93333.33, / 0.60 = 155555.56
		assert.InDelta(t, 93333.33, targets.PreTaxIncome, 0.01)
		assert.InDelta(t, 155555.56, targets.GCIRequired, 0.01)
		assert.InDelta(t, 13500, targets.AvgCommission, 0.01)
	})

	t.Run("Rounds deals up", func(t *testing.T) {
		// 155555.56 / 13500 = 11.52 -> 12 deals
		assert.Equal(t, 12, targets.TotalDealsNeeded)
		assert.Equal(t, 1, targets.MonthlyDealsPace)
		assert.InDelta(t, float64(12)*450000, targets.TotalSalesVolume, 0.01)
	})

	t.Run("Splits sides with 50/50 default", func(t *testing.T) {
		assert.Equal(t, 6, targets.BuyerDeals)
		assert.Equal(t, 6, targets.ListingDeals)
		assert.Equal(t, targets.TotalDealsNeeded, targets.BuyerDeals+targets.ListingDeals)
	})

	t.Run("Reverse funnel uses default rates", func(t *testing.T) {
		f := targets.BuyerFunnel
		// 6 closings at 85% -> 8 contracts, 60% -> 14 agreements,
		// 50% -> 28 appointments, 10% -> 280 conversations
		assert.Equal(t, 6, f.Closings.Annual)
		assert.Equal(t, 8, f.Contracts.Annual)
		assert.Equal(t, 14, f.Agreements.Annual)
		assert.Equal(t, 28, f.Appointments.Annual)
		assert.Equal(t, 280, f.Conversations.Annual)
	})

	t.Run("Monthly pace rounds half up", func(t *testing.T) {
		// 280 / 12 = 23.33 -> 23; 14 / 12 = 1.17 -> 1; 8 / 12 = 0.67 -> 1
		assert.Equal(t, 23, targets.BuyerFunnel.Conversations.Monthly)
		assert.Equal(t, 1, targets.BuyerFunnel.Agreements.Monthly)
		assert.Equal(t, 1, targets.BuyerFunnel.Contracts.Monthly)
	})
}

func TestBuildPlanTargetsEdgeCases(t *testing.T) {
	t.Run("Zero tax rate means no gross-up", func(t *testing.T) {
		targets := usecase.BuildPlanTargets(domain.PlanDetail{
			NetIncomeGoal:     100000,
			AvgSalePrice:      400000,
			CommissionRatePct: 2.5,
			IncomeSplitPct:    100,
		})
		assert.InDelta(t, 100000, targets.PreTaxIncome, 0.01)
		assert.InDelta(t, 100000, targets.GCIRequired, 0.01)
	})

	t.Run("Expenses add to the gross requirement", func(t *testing.T) {
		with := usecase.BuildPlanTargets(domain.PlanDetail{
			NetIncomeGoal: 100000, AnnualExpenses: 20000,
			AvgSalePrice: 400000, CommissionRatePct: 2.5, IncomeSplitPct: 100,
		})
		without := usecase.BuildPlanTargets(domain.PlanDetail{
			NetIncomeGoal: 100000,
			AvgSalePrice:  400000, CommissionRatePct: 2.5, IncomeSplitPct: 100,
		})
		assert.Greater(t, with.GCIRequired, without.GCIRequired)
	})

	t.Run("Funnel stages never shrink downstream", func(t *testing.T) {
		targets := usecase.BuildPlanTargets(domain.PlanDetail{
			NetIncomeGoal:     150000,
			TaxRatePct:        30,
			AvgSalePrice:      350000,
			CommissionRatePct: 3,
			IncomeSplitPct:    70,
			Rates: domain.ConversionRates{
				ConversationToAppointment: 8,
				AppointmentToAgreement:    40,
				AgreementToContract:       70,
				ContractToClosing:         90,
			},
		})
		for _, f := range []domain.Funnel{targets.BuyerFunnel, targets.ListingFunnel} {
			assert.GreaterOrEqual(t, f.Conversations.Annual, f.Appointments.Annual)
			assert.GreaterOrEqual(t, f.Appointments.Annual, f.Agreements.Annual)
			assert.GreaterOrEqual(t, f.Agreements.Annual, f.Contracts.Annual)
			assert.GreaterOrEqual(t, f.Contracts.Annual, f.Closings.Annual)
		}
	})
}

func TestConfidenceScore(t *testing.T) {
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	deadline := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)

	goal := func(current, target float64) *domain.Goal {
		return &domain.Goal{
			TargetValue:  target,
			CurrentValue: current,
			CreatedAt:    created,
			Deadline:     &deadline,
		}
	}

	t.Run("Zero target scores zero", func(t *testing.T) {
		assert.Equal(t, 0, usecase.ConfidenceScore(goal(5, 0), created))
	})

	t.Run("Reached target always scores 100", func(t *testing.T) {
		late := deadline.AddDate(1, 0, 0)
		assert.Equal(t, 100, usecase.ConfidenceScore(goal(10, 10), late))
		assert.Equal(t, 100, usecase.ConfidenceScore(goal(15, 10), late))
	})

	t.Run("On schedule sits at 50", func(t *testing.T) {
		mid := created.Add(deadline.Sub(created) / 2)
		assert.Equal(t, 50, usecase.ConfidenceScore(goal(5, 10), mid))
	})

	t.Run("No deadline grades on value alone", func(t *testing.T) {
		g := goal(5, 10)
		g.Deadline = nil
		assert.Equal(t, 75, usecase.ConfidenceScore(g, created))
	})

	t.Run("Score is clamped to [0,100]", func(t *testing.T) {
		assert.Equal(t, 0, usecase.ConfidenceScore(goal(0, 10), deadline.AddDate(2, 0, 0)))
		for _, current := range []float64{0, 2.5, 5, 7.5, 9.99} {
			s := usecase.ConfidenceScore(goal(current, 10), deadline)
			assert.GreaterOrEqual(t, s, 0)
			assert.LessOrEqual(t, s, 100)
		}
	})

	t.Run("Never decreases as progress grows", func(t *testing.T) {
		mid := created.Add(deadline.Sub(created) / 3)
		prev := -1
		for _, current := range []float64{0, 1, 2, 4, 6, 8, 9, 10} {
			s := usecase.ConfidenceScore(goal(current, 10), mid)
			assert.GreaterOrEqual(t, s, prev)
			prev = s
		}
	})
}
