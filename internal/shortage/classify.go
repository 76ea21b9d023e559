package shortage

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// criticalShortfallPercent marks the boundary (inclusive) at which a partial
// availability is escalated to CRITICAL.
const criticalShortfallPercent = 80.0

// Classification is the outcome of comparing requirement against
// availability for one ingredient on one production day.
type Classification struct {
	Status    Status
	Priority  Priority
	Shortfall float64
}

// Classify compares a required base quantity with the available base
// quantity and assigns status and priority. Quantities must already be in
// the same base unit.
func Classify(required, available float64, productionDate, today time.Time) Classification {
	shortfall := required - available

	var status Status
	switch {
	case required <= 0:
		// Nothing required: sufficient no matter what is on hand.
		status = StatusSufficient
	case available == 0:
		status = StatusMissing
	case shortfall > 0:
		if (shortfall/required)*100 >= criticalShortfallPercent {
			status = StatusCritical
		} else {
			status = StatusPartial
		}
	default:
		status = StatusSufficient
	}

	days := daysUntil(productionDate, today)

	var priority Priority
	switch {
	case days <= 1 || status == StatusMissing || status == StatusCritical:
		priority = PriorityHigh
	case days <= 3 || status == StatusPartial:
		priority = PriorityMedium
	default:
		priority = PriorityLow
	}

	return Classification{Status: status, Priority: priority, Shortfall: shortfall}
}

func daysUntil(productionDate, today time.Time) int {
	return int(math.Ceil(productionDate.Sub(today).Hours() / 24))
}

// Round2 rounds a quantity to two decimal places for persisted results.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}
