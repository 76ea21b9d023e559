package shortage

import (
	"context"
	"fmt"
	"log/slog"
)

// maxFlattenDepth bounds sub-recipe expansion against cyclic or
// pathologically deep recipe graphs.
const maxFlattenDepth = 10

// Flattener expands nested recipe trees into flat base-ingredient lists.
type Flattener struct {
	recipes RecipeRepository
	log     *slog.Logger
}

// NewFlattener creates a flattener over the given recipe repository.
func NewFlattener(recipes RecipeRepository, log *slog.Logger) *Flattener {
	if log == nil {
		log = slog.Default()
	}
	return &Flattener{recipes: recipes, log: log}
}

// FlattenRun memoizes recipe lookups for the duration of one check run.
// Recipes can change between runs, so the cache never outlives a run.
type FlattenRun struct {
	f    *Flattener
	rows map[string][]IngredientRow
}

// NewRun starts a flattening pass with a fresh lookup cache.
func (f *Flattener) NewRun() *FlattenRun {
	return &FlattenRun{f: f, rows: make(map[string][]IngredientRow)}
}

// Flatten resolves a recipe into its raw ingredients, scaled by the
// production quantity and converted to base units.
func (r *FlattenRun) Flatten(ctx context.Context, recipeName string, productionQty float64, productionItem string) ([]FlattenedIngredient, error) {
	return r.flatten(ctx, recipeName, productionQty, productionItem, 0, map[string]bool{})
}

func (r *FlattenRun) flatten(ctx context.Context, recipeName string, productionQty float64, productionItem string, depth int, visited map[string]bool) ([]FlattenedIngredient, error) {
	if depth >= maxFlattenDepth || visited[recipeName] {
		// Cycle or runaway depth: drop this branch silently instead of
		// failing the whole run.
		return nil, nil
	}

	rows, err := r.lookup(ctx, recipeName)
	if err != nil {
		return nil, err
	}

	var out []FlattenedIngredient
	for _, row := range rows {
		scaled := row.Quantity * productionQty

		if row.Kind == RowSubRecipe {
			// Each branch gets its own copy of the visited set: only the
			// current path is cycle-guarded, siblings may legitimately
			// expand the same sub-recipe again.
			branch := make(map[string]bool, len(visited)+1)
			for name := range visited {
				branch[name] = true
			}
			branch[recipeName] = true

			children, err := r.flatten(ctx, row.Name, scaled, productionItem, depth+1, branch)
			if err != nil {
				return nil, err
			}
			for i := range children {
				children[i].SourceRecipe = recipeName + " > " + children[i].SourceRecipe
			}
			out = append(out, children...)
			continue
		}

		baseQty, baseUnit := Normalize(scaled, row.Unit)
		if !KnownUnit(row.Unit) {
			r.f.log.Warn("unknown unit, passing through unconverted",
				"recipe", recipeName, "ingredient", row.Name, "unit", row.Unit)
		}
		out = append(out, FlattenedIngredient{
			Name:         row.Name,
			Quantity:     scaled,
			Unit:         row.Unit,
			BaseQuantity: baseQty,
			BaseUnit:     baseUnit,
			SourceRecipe: recipeName,
			SourceItem:   productionItem,
		})
	}
	return out, nil
}

func (r *FlattenRun) lookup(ctx context.Context, recipeName string) ([]IngredientRow, error) {
	if rows, ok := r.rows[recipeName]; ok {
		return rows, nil
	}
	rows, err := r.f.recipes.Ingredients(ctx, recipeName)
	if err != nil {
		return nil, fmt.Errorf("look up recipe %q: %w", recipeName, err)
	}
	r.rows[recipeName] = rows
	return rows, nil
}
