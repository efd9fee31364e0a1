package domain

import (
	"context"
	"time"
)

// PlanSchemaVersion tags the stored plan detail so older blobs surface as
// typed decode errors instead of silently defaulting.
const PlanSchemaVersion = 1

// ConversionRates are the funnel percentages used to reverse-engineer
// activity targets from a closing count. Zero values fall back to defaults
// at calculation time.
type ConversionRates struct {
	ConversationToAppointment float64 `json:"conversationToAppointment" validate:"gte=0,lte=100"`
	AppointmentToAgreement    float64 `json:"appointmentToAgreement" validate:"gte=0,lte=100"`
	AgreementToContract       float64 `json:"agreementToContract" validate:"gte=0,lte=100"`
	ContractToClosing         float64 `json:"contractToClosing" validate:"gte=0,lte=100"`
}

// PlanDetail captures the planner inputs.
type PlanDetail struct {
	NetIncomeGoal     float64         `json:"netIncomeGoal" validate:"required,gt=0"`
	AnnualExpenses    float64         `json:"annualExpenses" validate:"gte=0"`
	TaxRatePct        float64         `json:"taxRatePct" validate:"gte=0,lt=100"`
	AvgSalePrice      float64         `json:"avgSalePrice" validate:"required,gt=0"`
	CommissionRatePct float64         `json:"commissionRatePct" validate:"required,gt=0,lte=100"`
	IncomeSplitPct    float64         `json:"incomeSplitPct" validate:"required,gt=0,lte=100"`
	BuyerSidePct      float64         `json:"buyerSidePct" validate:"gte=0,lte=100"`
	Rates             ConversionRates `json:"conversionRates"`
}

// FunnelStage is one annual/monthly pair in the reverse funnel.
type FunnelStage struct {
	Annual  int `json:"annual"`
	Monthly int `json:"monthly"`
}

// Funnel is the conversations -> appointments -> agreements -> contracts ->
// closings pipeline for one side of the business.
type Funnel struct {
	Conversations FunnelStage `json:"conversations"`
	Appointments  FunnelStage `json:"appointments"`
	Agreements    FunnelStage `json:"agreements"`
	Contracts     FunnelStage `json:"contracts"`
	Closings      FunnelStage `json:"closings"`
}

// PlanTargets are the derived annual numbers.
type PlanTargets struct {
	PreTaxIncome      float64 `json:"preTaxIncome"`
	GCIRequired       float64 `json:"gciRequired"`
	AvgCommission     float64 `json:"avgCommissionPerDeal"`
	TotalDealsNeeded  int     `json:"totalDealsNeeded"`
	MonthlyDealsPace  int     `json:"monthlyDealsPace"`
	TotalSalesVolume  float64 `json:"totalSalesVolume"`
	BuyerDeals        int     `json:"buyerDeals"`
	ListingDeals      int     `json:"listingDeals"`
	BuyerFunnel       Funnel  `json:"buyerFunnel"`
	ListingFunnel     Funnel  `json:"listingFunnel"`
}

// BusinessPlan is the single plan row per user; a re-save supersedes it.
type BusinessPlan struct {
	UserID        string      `json:"userId"`
	SchemaVersion int         `json:"schemaVersion"`
	Detail        PlanDetail  `json:"detail"`
	Targets       PlanTargets `json:"targets"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// PlanSaveRequest validates the planner inputs and optionally regenerates
// the planner-derived goals.
type PlanSaveRequest struct {
	Detail        PlanDetail `json:"detail" validate:"required"`
	GenerateGoals bool       `json:"generateGoals"`
}

type PlanRepository interface {
	Upsert(ctx context.Context, plan *BusinessPlan) error
	GetByUser(ctx context.Context, userID string) (*BusinessPlan, error)
}

type PlannerUsecase interface {
	SavePlan(ctx context.Context, userID string, req *PlanSaveRequest) (*BusinessPlan, error)
	GetPlan(ctx context.Context, userID string) (*BusinessPlan, error)
}
