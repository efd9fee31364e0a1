package usecase

import (
	"math"
	"time"

	"go-coaching-backend/internal/domain"
)

// Pure calculators behind the production planner and the goal confidence
// score. No I/O: same inputs always produce the same outputs.

// Funnel defaults used when an input rate is zero.
const (
	defaultConversationToAppointment = 10.0
	defaultAppointmentToAgreement    = 50.0
	defaultAgreementToContract       = 60.0
	defaultContractToClosing         = 85.0
	defaultBuyerSidePct              = 50.0
)

// monthlyPace is the fixed rounding policy for monthly targets: the annual
// total divided by 12, rounded half up.
func monthlyPace(annual int) int {
	return int(math.Floor(float64(annual)/12.0 + 0.5))
}

// ceilRate reverse-computes how many inputs a stage needs so that inputs x
// rate% covers the required outputs. Zero output or rate short-circuits to
// zero instead of propagating Inf/NaN.
func ceilRate(required int, ratePct float64) int {
	if required <= 0 || ratePct <= 0 {
		return 0
	}
	return int(math.Ceil(float64(required) * 100.0 / ratePct))
}

func orDefault(v, fallback float64) float64 {
	if v <= 0 {
		return fallback
	}
	return v
}

func buildFunnel(closings int, rates domain.ConversionRates) domain.Funnel {
	contracts := ceilRate(closings, orDefault(rates.ContractToClosing, defaultContractToClosing))
	agreements := ceilRate(contracts, orDefault(rates.AgreementToContract, defaultAgreementToContract))
	appointments := ceilRate(agreements, orDefault(rates.AppointmentToAgreement, defaultAppointmentToAgreement))
	conversations := ceilRate(appointments, orDefault(rates.ConversationToAppointment, defaultConversationToAppointment))

	stage := func(annual int) domain.FunnelStage {
		return domain.FunnelStage{Annual: annual, Monthly: monthlyPace(annual)}
	}
	return domain.Funnel{
		Conversations: stage(conversations),
		Appointments:  stage(appointments),
		Agreements:    stage(agreements),
		Contracts:     stage(contracts),
		Closings:      stage(closings),
	}
}

// BuildPlanTargets reverse-engineers annual activity targets from the
// deal-economics inputs: net income -> pre-tax income -> GCI -> deal count ->
// per-side funnels. Every division guards its denominator.
func BuildPlanTargets(detail domain.PlanDetail) domain.PlanTargets {
	var targets domain.PlanTargets

	grossNeeded := detail.NetIncomeGoal + detail.AnnualExpenses
	if detail.TaxRatePct > 0 && detail.TaxRatePct < 100 {
		targets.PreTaxIncome = grossNeeded / (1 - detail.TaxRatePct/100)
	} else {
		targets.PreTaxIncome = grossNeeded
	}

	if detail.IncomeSplitPct > 0 {
		targets.GCIRequired = targets.PreTaxIncome / (detail.IncomeSplitPct / 100)
	} else {
		targets.GCIRequired = targets.PreTaxIncome
	}

	targets.AvgCommission = detail.AvgSalePrice * detail.CommissionRatePct / 100
	if targets.AvgCommission > 0 && targets.GCIRequired > 0 {
		targets.TotalDealsNeeded = int(math.Ceil(targets.GCIRequired / targets.AvgCommission))
	}
	targets.MonthlyDealsPace = monthlyPace(targets.TotalDealsNeeded)
	targets.TotalSalesVolume = float64(targets.TotalDealsNeeded) * detail.AvgSalePrice

	buyerPct := orDefault(detail.BuyerSidePct, defaultBuyerSidePct)
	targets.BuyerDeals = int(math.Round(float64(targets.TotalDealsNeeded) * buyerPct / 100))
	targets.ListingDeals = targets.TotalDealsNeeded - targets.BuyerDeals

	targets.BuyerFunnel = buildFunnel(targets.BuyerDeals, detail.Rates)
	targets.ListingFunnel = buildFunnel(targets.ListingDeals, detail.Rates)
	return targets
}

// ConfidenceScore grades a goal by how its value progress compares to the
// elapsed share of its runway, clamped to [0,100]. On schedule sits at 50;
// a reached target is always 100. Holding time fixed the score never
// decreases as currentValue grows.
func ConfidenceScore(goal *domain.Goal, now time.Time) int {
	if goal.TargetValue <= 0 {
		return 0
	}
	if goal.CurrentValue >= goal.TargetValue {
		return 100
	}

	valueFrac := goal.CurrentValue / goal.TargetValue
	if valueFrac < 0 {
		valueFrac = 0
	}

	var timeFrac float64
	if goal.Deadline != nil {
		total := goal.Deadline.Sub(goal.CreatedAt)
		if total > 0 {
			timeFrac = float64(now.Sub(goal.CreatedAt)) / float64(total)
			if timeFrac < 0 {
				timeFrac = 0
			}
			if timeFrac > 1 {
				timeFrac = 1
			}
		}
	}

	score := int(math.Round(50 + 50*(valueFrac-timeFrac)))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
