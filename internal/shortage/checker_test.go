package shortage

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSchedules struct {
	schedules map[string]*Schedule
}

func (f *fakeSchedules) Schedule(_ context.Context, scheduleID string) (*Schedule, error) {
	sched, ok := f.schedules[scheduleID]
	if !ok {
		return nil, ErrScheduleNotFound
	}
	return sched, nil
}

func (f *fakeSchedules) UpcomingScheduleIDs(_ context.Context, from time.Time) ([]string, error) {
	var ids []string
	for id, sched := range f.schedules {
		for _, day := range sched.Days {
			if !day.Date.Before(from) {
				ids = append(ids, id)
				break
			}
		}
	}
	return ids, nil
}

type fakeInventory struct {
	snapshot *Snapshot
}

func (f *fakeInventory) LatestSnapshot(_ context.Context, _ string, _ time.Time) (*Snapshot, error) {
	return f.snapshot, nil
}

type fakeStore struct {
	mu    sync.Mutex
	saved []*CheckResult
}

func (f *fakeStore) SaveCheck(_ context.Context, result *CheckResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, result)
	return nil
}

func (f *fakeStore) LatestCheck(_ context.Context, scheduleID string) (*CheckResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.saved) - 1; i >= 0; i-- {
		if f.saved[i].ScheduleID == scheduleID {
			return f.saved[i], nil
		}
	}
	return nil, nil
}

func (f *fakeStore) savedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saved)
}

type fakeRecorder struct {
	observed int
}

func (f *fakeRecorder) ObserveCheck(_ *CheckResult, _ time.Duration) { f.observed++ }

type fakeNotifier struct {
	completed []*CheckResult
}

func (f *fakeNotifier) CheckCompleted(result *CheckResult) {
	f.completed = append(f.completed, result)
}

var checkerToday = time.Date(2026, 1, 16, 8, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return checkerToday }

func newTestChecker(schedules *fakeSchedules, recipes *fakeRecipes, inv *fakeInventory, store *fakeStore, opts ...CheckerOption) *Checker {
	opts = append([]CheckerOption{WithClock(fixedClock)}, opts...)
	return NewChecker(schedules, recipes, inv, nil, store, nil, opts...)
}

func TestRunCheck_BrowniesScenario(t *testing.T) {
	productionDate := time.Date(2026, 1, 19, 0, 0, 0, 0, time.UTC)

	schedules := &fakeSchedules{schedules: map[string]*Schedule{
		"week-1": {
			ScheduleID: "week-1",
			Days: []ScheduleDay{
				{Date: productionDate, Items: []ProductionItem{
					{RecipeName: "Brownies 1 KG", Quantity: 2},
				}},
			},
		},
	}}
	recipes := newFakeRecipes()
	recipes.rows["Brownies 1 KG"] = []IngredientRow{
		{Kind: RowIngredient, Name: "Butter", Quantity: 200, Unit: "GM"},
	}
	inv := &fakeInventory{snapshot: &Snapshot{
		Date:    checkerToday.Truncate(24 * time.Hour),
		Records: []StockRecord{{Item: "Butter", Quantity: 150, Unit: "GM"}},
	}}
	store := &fakeStore{}
	recorder := &fakeRecorder{}
	notifier := &fakeNotifier{}

	checker := newTestChecker(schedules, recipes, inv, store,
		WithRecorder(recorder), WithNotifier(notifier))

	result, err := checker.RunCheck(context.Background(), "week-1", "chef-1")
	require.NoError(t, err)

	assert.NotEmpty(t, result.CheckID)
	assert.Equal(t, "week-1", result.ScheduleID)
	assert.Equal(t, []string{"2026-01-19"}, result.ProductionDates)
	assert.Equal(t, "chef-1", result.CheckedBy)
	assert.Equal(t, CheckManual, result.CheckType)

	require.Len(t, result.Shortages, 1)
	sh := result.Shortages[0]
	assert.Equal(t, "Butter", sh.Ingredient)
	assert.Equal(t, "Butter", sh.InventoryItem)
	assert.Equal(t, 400.0, sh.Required)
	assert.Equal(t, 150.0, sh.Available)
	assert.Equal(t, 250.0, sh.Shortfall)
	assert.Equal(t, "GM", sh.Unit)
	assert.Equal(t, StatusPartial, sh.Status)
	assert.Equal(t, PriorityMedium, sh.Priority) // three days out
	assert.Equal(t, []string{"Brownies 1 KG"}, sh.AffectedRecipes)

	assert.Equal(t, OverallPartialShortage, result.OverallStatus)
	assert.Equal(t, 1, result.TotalIngredients)
	assert.Equal(t, 0, result.Missing)
	assert.Equal(t, 1, result.Partial)
	assert.Equal(t, 0, result.Sufficient)

	require.Len(t, store.saved, 1)
	assert.Equal(t, 1, recorder.observed)
	require.Len(t, notifier.completed, 1)
}

func TestRunCheck_PerDayIsolation(t *testing.T) {
	monday := time.Date(2026, 1, 19, 0, 0, 0, 0, time.UTC)
	tuesday := monday.AddDate(0, 0, 1)

	schedules := &fakeSchedules{schedules: map[string]*Schedule{
		"week-2": {
			ScheduleID: "week-2",
			Days: []ScheduleDay{
				{Date: monday, Items: []ProductionItem{{RecipeName: "Bread", Quantity: 10}}},
				{Date: tuesday, Items: []ProductionItem{{RecipeName: "Bread", Quantity: 1}}},
			},
		},
	}}
	recipes := newFakeRecipes()
	recipes.rows["Bread"] = []IngredientRow{
		{Kind: RowIngredient, Name: "Flour", Quantity: 5, Unit: "GM"},
	}
	inv := &fakeInventory{snapshot: &Snapshot{
		Records: []StockRecord{{Item: "Flour", Quantity: 10, Unit: "GM"}},
	}}
	store := &fakeStore{}

	checker := newTestChecker(schedules, recipes, inv, store)

	result, err := checker.RunCheck(context.Background(), "week-2", "")
	require.NoError(t, err)

	// Monday needs 50 GM against 10 on hand; Tuesday needs 5 and is covered.
	require.Len(t, result.Shortages, 1)
	assert.Equal(t, monday, result.Shortages[0].ProductionDate)
	assert.Equal(t, 2, result.TotalIngredients)
	assert.Equal(t, 1, result.Sufficient)
}

func TestRunCheck_UnknownRecipeIsSkipped(t *testing.T) {
	date := checkerToday.AddDate(0, 0, 2)
	schedules := &fakeSchedules{schedules: map[string]*Schedule{
		"week-3": {
			ScheduleID: "week-3",
			Days: []ScheduleDay{
				{Date: date, Items: []ProductionItem{
					{RecipeName: "Ghost Recipe", Quantity: 5},
					{RecipeName: "Soup", Quantity: 1},
				}},
			},
		},
	}}
	recipes := newFakeRecipes()
	recipes.rows["Soup"] = []IngredientRow{
		{Kind: RowIngredient, Name: "Stock", Quantity: 1, Unit: "L"},
	}
	inv := &fakeInventory{snapshot: &Snapshot{
		Records: []StockRecord{{Item: "Stock", Quantity: 10, Unit: "L"}},
	}}
	store := &fakeStore{}

	checker := newTestChecker(schedules, recipes, inv, store)

	result, err := checker.RunCheck(context.Background(), "week-3", "")
	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalIngredients)
	assert.Empty(t, result.Shortages)
	assert.Equal(t, OverallAllGood, result.OverallStatus)
}

func TestRunCheck_AdjustedQuantityWins(t *testing.T) {
	date := checkerToday.AddDate(0, 0, 5)
	adjusted := 4.0
	schedules := &fakeSchedules{schedules: map[string]*Schedule{
		"week-4": {
			ScheduleID: "week-4",
			Days: []ScheduleDay{
				{Date: date, Items: []ProductionItem{
					{RecipeName: "Pie", Quantity: 1, AdjustedQuantity: &adjusted},
				}},
			},
		},
	}}
	recipes := newFakeRecipes()
	recipes.rows["Pie"] = []IngredientRow{
		{Kind: RowIngredient, Name: "Apples", Quantity: 100, Unit: "GM"},
	}
	inv := &fakeInventory{snapshot: &Snapshot{}}
	store := &fakeStore{}

	checker := newTestChecker(schedules, recipes, inv, store)

	result, err := checker.RunCheck(context.Background(), "week-4", "")
	require.NoError(t, err)
	require.Len(t, result.Shortages, 1)
	assert.Equal(t, 400.0, result.Shortages[0].Required)
	assert.Equal(t, StatusMissing, result.Shortages[0].Status)
	assert.Equal(t, "", result.Shortages[0].InventoryItem)
}

func TestRunCheck_InventoryUnitIsConverted(t *testing.T) {
	date := checkerToday.AddDate(0, 0, 5)
	schedules := &fakeSchedules{schedules: map[string]*Schedule{
		"week-5": {
			ScheduleID: "week-5",
			Days: []ScheduleDay{
				{Date: date, Items: []ProductionItem{{RecipeName: "Brioche", Quantity: 1}}},
			},
		},
	}}
	recipes := newFakeRecipes()
	recipes.rows["Brioche"] = []IngredientRow{
		{Kind: RowIngredient, Name: "Butter", Quantity: 500, Unit: "GM"},
	}
	// On-hand butter tracked in kilograms.
	inv := &fakeInventory{snapshot: &Snapshot{
		Records: []StockRecord{{Item: "Butter", Quantity: 0.2, Unit: "KG"}},
	}}
	store := &fakeStore{}

	checker := newTestChecker(schedules, recipes, inv, store)

	result, err := checker.RunCheck(context.Background(), "week-5", "")
	require.NoError(t, err)
	require.Len(t, result.Shortages, 1)
	assert.Equal(t, 200.0, result.Shortages[0].Available)
	assert.Equal(t, 300.0, result.Shortages[0].Shortfall)
}

func TestRunCheck_ScheduleNotFound(t *testing.T) {
	checker := newTestChecker(
		&fakeSchedules{schedules: map[string]*Schedule{}},
		newFakeRecipes(),
		&fakeInventory{snapshot: &Snapshot{}},
		&fakeStore{},
	)

	_, err := checker.RunCheck(context.Background(), "missing", "")
	require.ErrorIs(t, err, ErrScheduleNotFound)
}

func TestRunCheck_SystemRunWhenNoUser(t *testing.T) {
	date := checkerToday.AddDate(0, 0, 1)
	schedules := &fakeSchedules{schedules: map[string]*Schedule{
		"week-6": {ScheduleID: "week-6", Days: []ScheduleDay{{Date: date}}},
	}}
	store := &fakeStore{}

	checker := newTestChecker(schedules, newFakeRecipes(), &fakeInventory{snapshot: &Snapshot{}}, store)

	result, err := checker.RunCheck(context.Background(), "week-6", "")
	require.NoError(t, err)
	assert.Equal(t, "system", result.CheckedBy)
	assert.Equal(t, CheckAutomatic, result.CheckType)
	assert.Equal(t, OverallAllGood, result.OverallStatus)
}

func TestRunCheck_FreshCheckIDPerRun(t *testing.T) {
	date := checkerToday.AddDate(0, 0, 1)
	schedules := &fakeSchedules{schedules: map[string]*Schedule{
		"week-7": {ScheduleID: "week-7", Days: []ScheduleDay{{Date: date}}},
	}}
	store := &fakeStore{}

	checker := newTestChecker(schedules, newFakeRecipes(), &fakeInventory{snapshot: &Snapshot{}}, store)

	first, err := checker.RunCheck(context.Background(), "week-7", "")
	require.NoError(t, err)
	second, err := checker.RunCheck(context.Background(), "week-7", "")
	require.NoError(t, err)

	assert.NotEqual(t, first.CheckID, second.CheckID)
	assert.Len(t, store.saved, 2)
}

func TestRunCheck_ShortagesOrderedByPriority(t *testing.T) {
	date := checkerToday.AddDate(0, 0, 5)
	schedules := &fakeSchedules{schedules: map[string]*Schedule{
		"week-10": {
			ScheduleID: "week-10",
			Days: []ScheduleDay{
				{Date: date, Items: []ProductionItem{{RecipeName: "Custard Tart", Quantity: 1}}},
			},
		},
	}}
	recipes := newFakeRecipes()
	recipes.rows["Custard Tart"] = []IngredientRow{
		{Kind: RowIngredient, Name: "Flour", Quantity: 100, Unit: "GM"},
		{Kind: RowIngredient, Name: "Eggs", Quantity: 10, Unit: "UNIT"},
		{Kind: RowIngredient, Name: "Sugar", Quantity: 100, Unit: "GM"},
		{Kind: RowIngredient, Name: "Milk", Quantity: 100, Unit: "ML"},
	}
	inv := &fakeInventory{snapshot: &Snapshot{
		Records: []StockRecord{
			{Item: "Flour", Quantity: 60, Unit: "GM"}, // PARTIAL, shortfall 40
			{Item: "Sugar", Quantity: 10, Unit: "GM"}, // CRITICAL, shortfall 90
			{Item: "Milk", Quantity: 70, Unit: "ML"},  // PARTIAL, shortfall 30
		},
	}}
	store := &fakeStore{}

	checker := newTestChecker(schedules, recipes, inv, store)

	result, err := checker.RunCheck(context.Background(), "week-10", "")
	require.NoError(t, err)
	require.Len(t, result.Shortages, 4)

	// Priority descending, then shortfall descending, in the returned and
	// persisted result, not just on latest-check reads.
	var order []string
	for _, sh := range result.Shortages {
		order = append(order, sh.Ingredient)
	}
	assert.Equal(t, []string{"Sugar", "Eggs", "Flour", "Milk"}, order)

	require.Len(t, store.saved, 1)
	assert.Equal(t, result.Shortages, store.saved[0].Shortages)
}

func TestRunCheck_NotifiesAllSubscribers(t *testing.T) {
	date := checkerToday.AddDate(0, 0, 1)
	schedules := &fakeSchedules{schedules: map[string]*Schedule{
		"week-11": {ScheduleID: "week-11", Days: []ScheduleDay{{Date: date}}},
	}}
	first := &fakeNotifier{}
	second := &fakeNotifier{}

	checker := newTestChecker(schedules, newFakeRecipes(), &fakeInventory{snapshot: &Snapshot{}}, &fakeStore{},
		WithNotifier(first), WithNotifier(second))

	result, err := checker.RunCheck(context.Background(), "week-11", "")
	require.NoError(t, err)

	require.Len(t, first.completed, 1)
	require.Len(t, second.completed, 1)
	assert.Equal(t, result.CheckID, first.completed[0].CheckID)
	assert.Equal(t, result.CheckID, second.completed[0].CheckID)
}

func TestLatestCheck_OrdersShortages(t *testing.T) {
	store := &fakeStore{saved: []*CheckResult{
		{
			CheckID:    "c1",
			ScheduleID: "week-8",
			Shortages: []Shortage{
				{Ingredient: "a", Priority: PriorityLow, Shortfall: 900},
				{Ingredient: "b", Priority: PriorityHigh, Shortfall: 10},
				{Ingredient: "c", Priority: PriorityMedium, Shortfall: 50},
				{Ingredient: "d", Priority: PriorityHigh, Shortfall: 300},
			},
		},
	}}

	checker := newTestChecker(
		&fakeSchedules{schedules: map[string]*Schedule{}},
		newFakeRecipes(),
		&fakeInventory{snapshot: &Snapshot{}},
		store,
	)

	result, err := checker.LatestCheck(context.Background(), "week-8")
	require.NoError(t, err)
	require.NotNil(t, result)

	var order []string
	for _, sh := range result.Shortages {
		order = append(order, sh.Ingredient)
	}
	assert.Equal(t, []string{"d", "b", "c", "a"}, order)
}

func TestLatestCheck_NoneIsNil(t *testing.T) {
	checker := newTestChecker(
		&fakeSchedules{schedules: map[string]*Schedule{}},
		newFakeRecipes(),
		&fakeInventory{snapshot: &Snapshot{}},
		&fakeStore{},
	)

	result, err := checker.LatestCheck(context.Background(), "never-checked")
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestRunner_FiresAutomaticChecks(t *testing.T) {
	// The runner filters on wall-clock time, so the day must be genuinely
	// in the future.
	date := time.Now().AddDate(0, 0, 1)
	schedules := &fakeSchedules{schedules: map[string]*Schedule{
		"week-9": {ScheduleID: "week-9", Days: []ScheduleDay{{Date: date}}},
	}}
	store := &fakeStore{}
	checker := newTestChecker(schedules, newFakeRecipes(), &fakeInventory{snapshot: &Snapshot{}}, store)

	runner := NewRunner(checker, schedules, time.Hour, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		runner.Run(ctx)
		close(done)
	}()

	// The first round fires immediately; give it a moment, then stop.
	assert.Eventually(t, func() bool { return store.savedCount() >= 1 }, time.Second, 10*time.Millisecond)
	cancel()
	<-done

	require.NotEmpty(t, store.saved)
	assert.Equal(t, CheckAutomatic, store.saved[0].CheckType)
	assert.Equal(t, "system", store.saved[0].CheckedBy)
}
