package usecase

import "time"

const (
	// DefaultPaymentLookback is the window used for payment and receipt
	// listings when either bound is missing.
	DefaultPaymentLookback = 180 * 24 * time.Hour

	// DefaultLatestLimit is the row count of "latest N" listings.
	DefaultLatestLimit = 5

	// DefaultRankLimit is the size of top-N rankings.
	DefaultRankLimit = 10

	// DefaultAnalyticsLookback is applied to a missing analytics start date.
	DefaultAnalyticsLookback = 365 * 24 * time.Hour

	// DefaultForecastPeriods is the number of months projected by predictive analytics.
	DefaultForecastPeriods = 12
	MaxForecastPeriods     = 60

	// RecentTransactionsLimit caps the movement history returned with item details.
	RecentTransactionsLimit = 10

	// StrategicLookback is the fixed window of strategic insights.
	StrategicLookback = 90 * 24 * time.Hour

	// CrossFunctionalLimit caps the sales/inventory cross analysis.
	CrossFunctionalLimit = 20

	// RelationshipLimit caps the supplier/customer cross analysis.
	RelationshipLimit = 15

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour
)

// Thresholds used by rule-based recommendations.
const (
	HighTransactionVolume = 1000
	DiversePortfolioItems = 50
	WideNetworkParties    = 100
	// ConcentrationPercent flags a single party or item above this share of the total.
	ConcentrationPercent = 50
)
