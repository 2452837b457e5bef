package constprop

import "github.com/ethereum/go-ethereum/metrics"

var (
	operatorReducedCounter   = metrics.NewRegisteredCounter("constprop/reduced/operator", nil)
	conditionReducedCounter  = metrics.NewRegisteredCounter("constprop/reduced/condition", nil)
	addressingReducedCounter = metrics.NewRegisteredCounter("constprop/reduced/addressing", nil)
	cacheHitCounter          = metrics.NewRegisteredCounter("constprop/cache/hit", nil)
	cacheMissCounter         = metrics.NewRegisteredCounter("constprop/cache/miss", nil)
)

// ReductionCounts reports how many rewrites each rewriter family has
// performed since process start.
func ReductionCounts() (operator, condition, addressing int64) {
	return operatorReducedCounter.Snapshot().Count(),
		conditionReducedCounter.Snapshot().Count(),
		addressingReducedCounter.Snapshot().Count()
}
