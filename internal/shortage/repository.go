package shortage

import (
	"context"
	"errors"
	"time"
)

// ErrScheduleNotFound aborts a check when the schedule id resolves to nothing.
var ErrScheduleNotFound = errors.New("production schedule not found")

// ScheduleRepository loads production schedules.
type ScheduleRepository interface {
	// Schedule returns the schedule with its days in schedule order, or
	// ErrScheduleNotFound.
	Schedule(ctx context.Context, scheduleID string) (*Schedule, error)
	// UpcomingScheduleIDs lists schedules with at least one production day
	// at or after the given time. Used by the automatic check runner.
	UpcomingScheduleIDs(ctx context.Context, from time.Time) ([]string, error)
}

// RecipeRepository resolves recipe ingredient rows by recipe name.
type RecipeRepository interface {
	// Ingredients returns the ordered rows for a recipe. An unknown recipe
	// returns an empty slice, not an error.
	Ingredients(ctx context.Context, recipeName string) ([]IngredientRow, error)
	// Exists reports whether a recipe has any rows at all.
	Exists(ctx context.Context, recipeName string) (bool, error)
}

// InventoryRepository reads the on-hand snapshot for one location.
type InventoryRepository interface {
	// LatestSnapshot returns all records at the most recent inventory date
	// at or before the given time. No inventory yields an empty snapshot.
	LatestSnapshot(ctx context.Context, location string, at time.Time) (*Snapshot, error)
}

// MappingRepository is the optional ingredient-name alias table. A
// deployment without it is legitimate; implementations report absence as a
// miss, never as a failure.
type MappingRepository interface {
	InventoryName(ctx context.Context, ingredientName string) (string, bool, error)
}

// CheckStore persists completed checks and rehydrates the latest one.
type CheckStore interface {
	SaveCheck(ctx context.Context, result *CheckResult) error
	// LatestCheck returns the most recently created check for a schedule
	// with its shortages, or (nil, nil) when the schedule has never been
	// checked.
	LatestCheck(ctx context.Context, scheduleID string) (*CheckResult, error)
}
