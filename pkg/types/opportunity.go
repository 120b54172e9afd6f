package types

import "time"

// StrategySide names which leg of a MarketPair a strategy buys YES on.
type StrategySide string

const (
	// BuyYesAThenNoB buys YES on venue A and NO on venue B.
	BuyYesAThenNoB StrategySide = "buyYES-A+NO-B"
	// BuyYesBThenNoA buys YES on venue B and NO on venue A.
	BuyYesBThenNoA StrategySide = "buyYES-B+NO-A"
)

// OpportunityType classifies an arbitrage opportunity by how it was derived.
type OpportunityType string

const (
	TypeGuaranteed OpportunityType = "guaranteed"
	TypeSimple     OpportunityType = "simple"
	TypeSpread     OpportunityType = "spread"
)

// ArbitrageOpportunity is the output of the arbitrage calculator for one MarketPair.
type ArbitrageOpportunity struct {
	Pair              MarketPair
	Strategy          StrategySide
	Type              OpportunityType
	ProfitPct         float64
	GuaranteedProfit  *float64
	Action            string
	DetectedAt        time.Time
}

// LiquidityLimiter classifies which side of the book bounded an opportunity's size.
type LiquidityLimiter string

const (
	LimitedByVenueADepth  LiquidityLimiter = "A-depth"
	LimitedByVenueBDepth  LiquidityLimiter = "B-depth"
	LimitedBySpreadExhaust LiquidityLimiter = "spread-exhausted"
	LimitedBySpreadClosed LiquidityLimiter = "spread-closed"
	LimitedByNoLiquidity  LiquidityLimiter = "no-liquidity"
)

// LadderStep records one consumed level pair while walking both ask ladders.
type LadderStep struct {
	PriceA           float64
	PriceB           float64
	Contracts        float64
	ProfitPerContract float64
	CumulativeContracts float64
	CumulativeProfit    float64
}

// LiquidityAnalysis is the output of walking both ask ladders for an opportunity.
type LiquidityAnalysis struct {
	Opportunity   ArbitrageOpportunity
	MaxContracts  float64
	MaxInvestment float64
	MaxProfit     float64
	AvgProfitPct  float64
	Ladder        []LadderStep
	LimitedBy     LiquidityLimiter
	BestAskA      float64 // diagnostic, populated on spread-closed / no-liquidity
	BestAskB      float64
}

// BlockingIndex maps a blocking key to the set of event ids sharing it, for one venue.
type BlockingIndex struct {
	Venue Venue
	Index map[string]map[string]struct{}
}

// BlockingStats summarizes candidate-pair reduction for one blocking pass.
type BlockingStats struct {
	TotalPotential int
	Actual         int
	ReductionPct   float64
}

// MatchCandidate is a blocked (eventA, eventB) pair awaiting fuzzy scoring.
type MatchCandidate struct {
	EventA         EventRef
	EventB         EventRef
	CompositeScore float64
	TitleScore     float64
	TokenScore     float64
	DateScore      float64
}

// FuzzyClassification is the outcome of scoring a MatchCandidate.
type FuzzyClassification string

const (
	FuzzyConfirmed FuzzyClassification = "confirmed"
	FuzzyUncertain FuzzyClassification = "uncertain"
	FuzzyDiscard   FuzzyClassification = "discard"
)

// OpportunityDTO is the external, serialization-stable shape of an opportunity
// as described for the HTTP snapshot reader.
type OpportunityDTO struct {
	ID                 string          `json:"id"`
	EventName          string          `json:"eventName"`
	MarketName         string          `json:"marketName"`
	Category           string          `json:"category"`
	Type               OpportunityType `json:"type"`
	SpreadPct          float64         `json:"spreadPct"`
	Action             string          `json:"action"`
	PotentialProfit    float64         `json:"potentialProfit"`
	MaxInvestment       float64        `json:"maxInvestment"`
	TimeToResolution   string          `json:"timeToResolution,omitempty"`
	Fees               FeesDTO         `json:"fees"`
	Prices             PricesDTO       `json:"prices"`
	Liquidity          LiquidityDTO    `json:"liquidity"`
	ROI                *float64        `json:"roi,omitempty"`
	APR                *float64        `json:"apr,omitempty"`
	LastUpdated        time.Time       `json:"lastUpdated"`
}

// FeesDTO carries the per-venue taker fee used in the calculation.
type FeesDTO struct {
	VenueA float64 `json:"venueA"`
	VenueB float64 `json:"venueB"`
}

// VenuePricesDTO is the YES/NO mid prices quoted on one venue.
type VenuePricesDTO struct {
	Yes float64 `json:"yes"`
	No  float64 `json:"no"`
}

// PricesDTO reports the prices used to derive an opportunity, plus the
// individual order-book asks consumed when a liquidity analysis ran.
type PricesDTO struct {
	VenueA    VenuePricesDTO `json:"venueA"`
	VenueB    VenuePricesDTO `json:"venueB"`
	AskYesA   *float64       `json:"askYesA,omitempty"`
	AskNoB    *float64       `json:"askNoB,omitempty"`
	AskYesB   *float64       `json:"askYesB,omitempty"`
	AskNoA    *float64       `json:"askNoA,omitempty"`
}

// LiquidityStatus summarizes an opportunity's executable size for display.
type LiquidityStatus string

const (
	LiquidityAvailable   LiquidityStatus = "available"
	LiquiditySpreadClosed LiquidityStatus = "spread_closed"
	LiquidityNone        LiquidityStatus = "no_liquidity"
	LiquidityNotAnalyzed LiquidityStatus = "not_analyzed"
)

// LiquidityDTO is the liquidity summary embedded in an OpportunityDTO.
type LiquidityDTO struct {
	Status    LiquidityStatus   `json:"status"`
	LimitedBy *LiquidityLimiter `json:"limitedBy,omitempty"`
}

// OpportunitiesSnapshot is the single-holder, TTL-cached batch-scan result.
type OpportunitiesSnapshot struct {
	Opportunities []OpportunityDTO `json:"opportunities"`
	ScannedAt     time.Time        `json:"scannedAt"`
	TotalCount    int              `json:"totalCount"`
}
