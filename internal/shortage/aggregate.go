package shortage

import "strings"

// AggregationKey is the identity of an aggregated ingredient: two entries
// merge only when both the lowercased name and the base unit agree. The same
// name converted to different base units stays separate.
func AggregationKey(name, baseUnit string) string {
	return strings.ToLower(name) + ":" + baseUnit
}

// Aggregate merges flattened ingredients into per-ingredient totals,
// keeping every contribution in Sources for audit. Output order follows
// first appearance in the input.
func Aggregate(items []FlattenedIngredient) []AggregatedIngredient {
	byKey := make(map[string]*AggregatedIngredient, len(items))
	var order []string

	for _, item := range items {
		key := AggregationKey(item.Name, item.BaseUnit)
		agg, ok := byKey[key]
		if !ok {
			agg = &AggregatedIngredient{
				Name:     item.Name,
				Unit:     item.Unit,
				BaseUnit: item.BaseUnit,
			}
			byKey[key] = agg
			order = append(order, key)
		}
		agg.TotalQuantity += item.Quantity
		agg.BaseQuantity += item.BaseQuantity
		// Repeated sourcing from the same recipe stays as separate entries.
		agg.Sources = append(agg.Sources, IngredientSource{
			Recipe:         item.SourceRecipe,
			ProductionItem: item.SourceItem,
			Quantity:       item.Quantity,
		})
	}

	out := make([]AggregatedIngredient, 0, len(order))
	for _, key := range order {
		out = append(out, *byKey[key])
	}
	return out
}
