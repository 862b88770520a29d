package payments

// RiskScorer estimates the risk of authorizing a payment, in [0,1]. It is a
// strategy hook: a real fraud model can replace the default without touching
// the state machine.
type RiskScorer interface {
	Score(record Record) float64
}

// DefaultRiskThreshold is the veto boundary: scores strictly above it fail
// the authorization permanently.
const DefaultRiskThreshold = 0.8

// AmountScorer is the default scorer: a base risk plus a component that
// grows with amount and saturates, so the score is monotonically
// non-decreasing in amount and bounded well inside [0,1].
type AmountScorer struct{}

func (AmountScorer) Score(record Record) float64 {
	const (
		baseRisk      = 0.1
		amountCeiling = 0.3
	)
	amountRisk := record.Amount / 1000.0
	if amountRisk > amountCeiling {
		amountRisk = amountCeiling
	}
	return baseRisk + amountRisk
}
