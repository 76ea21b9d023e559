package shortage

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
)

// DefaultLocation is the inventory scope checks run against unless
// configured otherwise.
const DefaultLocation = "Central Kitchen"

// Recorder receives metrics about completed checks.
type Recorder interface {
	ObserveCheck(result *CheckResult, took time.Duration)
}

// Notifier receives completed check results, e.g. to push to dashboards.
type Notifier interface {
	CheckCompleted(result *CheckResult)
}

// Checker is the top-level orchestrator: it walks a production schedule,
// flattens and aggregates demand per day, compares it against the latest
// inventory snapshot, and persists the resulting check.
type Checker struct {
	schedules ScheduleRepository
	recipes   RecipeRepository
	inventory InventoryRepository
	store     CheckStore
	flattener *Flattener
	matcher   *Matcher
	location  string
	log       *slog.Logger

	recorder  Recorder
	notifiers []Notifier

	now func() time.Time
}

// CheckerOption customises a Checker.
type CheckerOption func(*Checker)

// WithLocation overrides the inventory location checks run against.
func WithLocation(location string) CheckerOption {
	return func(c *Checker) { c.location = location }
}

// WithRecorder attaches a metrics recorder.
func WithRecorder(r Recorder) CheckerOption {
	return func(c *Checker) { c.recorder = r }
}

// WithNotifier attaches a completion notifier. May be given more than once;
// every notifier receives every completed check.
func WithNotifier(n Notifier) CheckerOption {
	return func(c *Checker) { c.notifiers = append(c.notifiers, n) }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) CheckerOption {
	return func(c *Checker) { c.now = now }
}

// NewChecker wires the orchestrator. The mapping repository may be nil when
// no alias table is provisioned.
func NewChecker(
	schedules ScheduleRepository,
	recipes RecipeRepository,
	inventory InventoryRepository,
	mappings MappingRepository,
	store CheckStore,
	log *slog.Logger,
	opts ...CheckerOption,
) *Checker {
	if log == nil {
		log = slog.Default()
	}
	c := &Checker{
		schedules: schedules,
		recipes:   recipes,
		inventory: inventory,
		store:     store,
		flattener: NewFlattener(recipes, log),
		matcher:   NewMatcher(mappings, log),
		location:  DefaultLocation,
		log:       log,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RunCheck performs one full shortage check for a schedule. An empty userID
// records the check as an AUTOMATIC run by "system". Every invocation is a
// fresh, independently identified check; prior checks are never updated.
func (c *Checker) RunCheck(ctx context.Context, scheduleID, userID string) (*CheckResult, error) {
	start := time.Now()
	today := c.now()

	sched, err := c.schedules.Schedule(ctx, scheduleID)
	if err != nil {
		return nil, err
	}

	// One snapshot per run, passed explicitly to every day's comparison.
	snapshot, err := c.inventory.LatestSnapshot(ctx, c.location, today)
	if err != nil {
		return nil, fmt.Errorf("load inventory snapshot: %w", err)
	}

	checkedBy, checkType := userID, CheckManual
	if checkedBy == "" {
		checkedBy, checkType = "system", CheckAutomatic
	}

	result := &CheckResult{
		CheckID:       uuid.NewString(),
		ScheduleID:    scheduleID,
		InventoryDate: snapshot.Date,
		CheckedBy:     checkedBy,
		CheckType:     checkType,
		CreatedAt:     today,
	}

	run := c.flattener.NewRun()
	for _, day := range sched.Days {
		result.ProductionDates = append(result.ProductionDates, day.Date.Format("2006-01-02"))

		var flat []FlattenedIngredient
		for _, item := range day.Items {
			known, err := c.recipes.Exists(ctx, item.RecipeName)
			if err != nil {
				return nil, fmt.Errorf("check recipe %q: %w", item.RecipeName, err)
			}
			if !known {
				// Tolerated data-quality gap: skip the item, keep the run.
				c.log.Warn("production item references unknown recipe, skipping",
					"schedule", scheduleID, "recipe", item.RecipeName,
					"date", day.Date.Format("2006-01-02"))
				continue
			}

			items, err := run.Flatten(ctx, item.RecipeName, item.EffectiveQuantity(), item.RecipeName)
			if err != nil {
				return nil, err
			}
			flat = append(flat, items...)
		}

		// Aggregation is scoped to the day: a Monday shortage must not be
		// masked by Tuesday surplus.
		dayIngredients := Aggregate(flat)
		result.TotalIngredients += len(dayIngredients)

		for _, ing := range dayIngredients {
			shortage, ok := c.checkIngredient(ctx, ing, snapshot, day.Date, today)
			if ok {
				result.Shortages = append(result.Shortages, shortage)
			}
		}
	}

	for _, s := range result.Shortages {
		switch s.Status {
		case StatusMissing, StatusCritical:
			result.Missing++
		case StatusPartial:
			result.Partial++
		}
	}
	result.Sufficient = result.TotalIngredients - len(result.Shortages)

	// Shortages are served ordered by priority then shortfall everywhere a
	// result surfaces, so order once here before anything persists or
	// caches it.
	SortShortages(result.Shortages)

	switch {
	case result.Missing > 0:
		result.OverallStatus = OverallCriticalShortage
	case result.Partial > 0:
		result.OverallStatus = OverallPartialShortage
	default:
		result.OverallStatus = OverallAllGood
	}

	if err := c.store.SaveCheck(ctx, result); err != nil {
		return nil, fmt.Errorf("persist check %s: %w", result.CheckID, err)
	}

	c.log.Info("inventory check completed",
		"check_id", result.CheckID, "schedule", scheduleID,
		"overall_status", result.OverallStatus,
		"ingredients", result.TotalIngredients, "shortages", len(result.Shortages))

	if c.recorder != nil {
		c.recorder.ObserveCheck(result, time.Since(start))
	}
	for _, n := range c.notifiers {
		n.CheckCompleted(result)
	}
	return result, nil
}

// checkIngredient matches and classifies one aggregated ingredient for one
// production day. The boolean reports whether a shortage was surfaced;
// sufficient ingredients only contribute to the tallies.
func (c *Checker) checkIngredient(ctx context.Context, ing AggregatedIngredient, snapshot *Snapshot, productionDate, today time.Time) (Shortage, bool) {
	var available float64
	var inventoryItem string

	if rec := c.matcher.Match(ctx, ing.Name, snapshot); rec != nil {
		available, _ = Normalize(rec.Quantity, rec.Unit)
		inventoryItem = rec.Item
	} else {
		c.log.Warn("no inventory match for ingredient, treating as zero on hand",
			"ingredient", ing.Name, "date", productionDate.Format("2006-01-02"))
	}

	cls := Classify(ing.BaseQuantity, available, productionDate, today)
	if cls.Status == StatusSufficient {
		return Shortage{}, false
	}

	recipes := make([]string, 0, len(ing.Sources))
	items := make([]string, 0, len(ing.Sources))
	for _, src := range ing.Sources {
		recipes = appendUnique(recipes, src.Recipe)
		items = appendUnique(items, src.ProductionItem)
	}

	return Shortage{
		ShortageID:      uuid.NewString(),
		Ingredient:      ing.Name,
		InventoryItem:   inventoryItem,
		Required:        Round2(ing.BaseQuantity),
		Available:       Round2(available),
		Shortfall:       Round2(cls.Shortfall),
		Unit:            ing.BaseUnit,
		Status:          cls.Status,
		Priority:        cls.Priority,
		AffectedRecipes: recipes,
		AffectedItems:   items,
		ProductionDate:  productionDate,
	}, true
}

// LatestCheck returns the most recently created check for a schedule with
// its shortages ordered by priority descending, then shortfall descending.
// Returns (nil, nil) when the schedule has never been checked.
func (c *Checker) LatestCheck(ctx context.Context, scheduleID string) (*CheckResult, error) {
	result, err := c.store.LatestCheck(ctx, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("load latest check for %s: %w", scheduleID, err)
	}
	if result != nil {
		SortShortages(result.Shortages)
	}
	return result, nil
}

// SortShortages orders shortages by priority descending, then shortfall
// descending. Stable so equal rows keep persistence order.
func SortShortages(shortages []Shortage) {
	sort.SliceStable(shortages, func(i, j int) bool {
		pi, pj := priorityRank(shortages[i].Priority), priorityRank(shortages[j].Priority)
		if pi != pj {
			return pi > pj
		}
		return shortages[i].Shortfall > shortages[j].Shortfall
	})
}

func priorityRank(p Priority) int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

func appendUnique(list []string, value string) []string {
	for _, v := range list {
		if v == value {
			return list
		}
	}
	return append(list, value)
}
