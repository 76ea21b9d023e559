package shortage

import "time"

// RowKind discriminates the two kinds of rows a recipe can contain.
type RowKind int

const (
	RowIngredient RowKind = iota
	RowSubRecipe
)

func (k RowKind) String() string {
	switch k {
	case RowIngredient:
		return "ingredient"
	case RowSubRecipe:
		return "subrecipe"
	default:
		return "unknown"
	}
}

// IngredientRow is one row of a recipe: either a raw ingredient or a
// reference to another recipe scaled by Quantity.
type IngredientRow struct {
	Kind     RowKind
	Name     string
	Quantity float64
	Unit     string
}

// FlattenedIngredient is a raw ingredient after recursive expansion,
// scaled to production demand and converted to its base unit.
type FlattenedIngredient struct {
	Name         string
	Quantity     float64
	Unit         string
	BaseQuantity float64
	BaseUnit     string
	// SourceRecipe records the expansion path ("parent > child") for
	// diagnostics.
	SourceRecipe string
	SourceItem   string
}

// IngredientSource records one contribution to an aggregated total.
type IngredientSource struct {
	Recipe         string  `json:"recipe"`
	ProductionItem string  `json:"production_item"`
	Quantity       float64 `json:"quantity"`
}

// AggregatedIngredient is the per-day total for one (name, base unit) pair.
type AggregatedIngredient struct {
	Name          string
	TotalQuantity float64
	Unit          string
	BaseQuantity  float64
	BaseUnit      string
	Sources       []IngredientSource
}

// StockRecord is one on-hand inventory line from the latest snapshot.
type StockRecord struct {
	Item     string
	Quantity float64
	Unit     string
}

// Snapshot is the read-only inventory state a whole check runs against.
type Snapshot struct {
	Date    time.Time
	Records []StockRecord
}

// Status classifies one ingredient's availability for one production day.
type Status string

const (
	StatusMissing    Status = "MISSING"
	StatusPartial    Status = "PARTIAL"
	StatusCritical   Status = "CRITICAL"
	StatusSufficient Status = "SUFFICIENT"
)

// Priority drives urgency framing on dashboards and alerts.
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// OverallStatus summarises a whole check.
type OverallStatus string

const (
	OverallAllGood          OverallStatus = "ALL_GOOD"
	OverallPartialShortage  OverallStatus = "PARTIAL_SHORTAGE"
	OverallCriticalShortage OverallStatus = "CRITICAL_SHORTAGE"
)

// CheckType distinguishes user-triggered checks from scheduled ones.
type CheckType string

const (
	CheckManual    CheckType = "MANUAL"
	CheckAutomatic CheckType = "AUTOMATIC"
)

// Shortage is one surfaced deficit: an ingredient on a production day whose
// classification came back non-sufficient.
type Shortage struct {
	ShortageID      string    `json:"shortage_id"`
	Ingredient      string    `json:"ingredient_name"`
	InventoryItem   string    `json:"inventory_item_name,omitempty"`
	Required        float64   `json:"required_quantity"`
	Available       float64   `json:"available_quantity"`
	Shortfall       float64   `json:"shortfall_amount"`
	Unit            string    `json:"unit"`
	Status          Status    `json:"status"`
	Priority        Priority  `json:"priority"`
	AffectedRecipes []string  `json:"affected_recipes"`
	AffectedItems   []string  `json:"affected_production_items"`
	ProductionDate  time.Time `json:"production_date"`
}

// CheckResult is the full outcome of one orchestrator run. Immutable once
// persisted; a re-run always produces a new result with a new CheckID.
type CheckResult struct {
	CheckID          string        `json:"check_id"`
	ScheduleID       string        `json:"schedule_id"`
	ProductionDates  []string      `json:"production_dates"`
	OverallStatus    OverallStatus `json:"overall_status"`
	TotalIngredients int           `json:"total_ingredients_required"`
	Missing          int           `json:"missing_ingredients_count"`
	Partial          int           `json:"partial_ingredients_count"`
	Sufficient       int           `json:"sufficient_ingredients_count"`
	Shortages        []Shortage    `json:"shortages"`
	InventoryDate    time.Time     `json:"inventory_date"`
	CheckedBy        string        `json:"checked_by"`
	CheckType        CheckType     `json:"check_type"`
	CreatedAt        time.Time     `json:"created_at"`
}

// Schedule is the engine's view of a production schedule.
type Schedule struct {
	ScheduleID string
	Days       []ScheduleDay
}

// ScheduleDay is one production day with its items, in schedule order.
type ScheduleDay struct {
	Date  time.Time
	Items []ProductionItem
}

// ProductionItem names a recipe and how much of it a day must produce.
// AdjustedQuantity, when set, overrides Quantity.
type ProductionItem struct {
	RecipeName       string
	Quantity         float64
	AdjustedQuantity *float64
}

// EffectiveQuantity returns the production quantity the flattener scales by.
func (p ProductionItem) EffectiveQuantity() float64 {
	if p.AdjustedQuantity != nil {
		return *p.AdjustedQuantity
	}
	return p.Quantity
}
