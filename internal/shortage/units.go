package shortage

import "strings"

// Base units every quantity is converted to before comparison.
const (
	BaseGram       = "GM"
	BaseMilliliter = "ML"
	BaseUnit       = "UNIT"
)

// maxBaseQuantity caps converted quantities so a pathological multiplier
// chain cannot overflow persistence.
const maxBaseQuantity = 1e11

type conversion struct {
	factor float64
	base   string
}

var conversions = map[string]conversion{
	// Mass to grams.
	"GM": {1, BaseGram},
	"G":  {1, BaseGram},
	"KG": {1000, BaseGram},
	"LB": {453.592, BaseGram},
	"OZ": {28.3495, BaseGram},

	// Volume to milliliters.
	"ML":    {1, BaseMilliliter},
	"L":     {1000, BaseMilliliter},
	"LITER": {1000, BaseMilliliter},
	"LITRE": {1000, BaseMilliliter},
	"CUP":   {240, BaseMilliliter},
	"TBSP":  {15, BaseMilliliter},
	"TSP":   {5, BaseMilliliter},

	// Count units.
	"UNIT":  {1, BaseUnit},
	"UNITS": {1, BaseUnit},
	"PIECE": {1, BaseUnit},
	"EA":    {1, BaseUnit},
}

// Normalize converts a (quantity, unit) pair to its base quantity and base
// unit. Unknown units pass through unchanged rather than failing; callers
// rely on best-effort behavior for dirty upstream data.
func Normalize(quantity float64, unit string) (float64, string) {
	key := strings.ToUpper(strings.TrimSpace(unit))
	conv, ok := conversions[key]
	if !ok {
		return clampQuantity(quantity), key
	}
	return clampQuantity(quantity * conv.factor), conv.base
}

// KnownUnit reports whether the unit has a conversion entry.
func KnownUnit(unit string) bool {
	_, ok := conversions[strings.ToUpper(strings.TrimSpace(unit))]
	return ok
}

func clampQuantity(q float64) float64 {
	if q > maxBaseQuantity {
		return maxBaseQuantity
	}
	return q
}
