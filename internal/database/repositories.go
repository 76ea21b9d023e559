package database

import (
	"context"
	"strings"
	"time"

	"kitchenops/internal/models"
	"kitchenops/internal/shortage"

	"github.com/jinzhu/gorm"
)

// ScheduleRepo reads production schedules for the checker.
type ScheduleRepo struct {
	db *gorm.DB
}

// NewScheduleRepo creates a schedule repository
func NewScheduleRepo(db *gorm.DB) *ScheduleRepo {
	return &ScheduleRepo{db: db}
}

// Schedule loads a schedule with its days and items in schedule order.
func (r *ScheduleRepo) Schedule(_ context.Context, scheduleID string) (*shortage.Schedule, error) {
	var header models.ProductionSchedule
	if err := r.db.Where("schedule_id = ?", scheduleID).First(&header).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, shortage.ErrScheduleNotFound
		}
		return nil, err
	}

	var days []models.ProductionDay
	if err := r.db.Where("schedule_id = ?", scheduleID).
		Order("position asc, date asc").Find(&days).Error; err != nil {
		return nil, err
	}

	sched := &shortage.Schedule{ScheduleID: scheduleID}
	for _, day := range days {
		var items []models.ProductionItem
		if err := r.db.Where("day_id = ?", day.ID).
			Order("position asc, id asc").Find(&items).Error; err != nil {
			return nil, err
		}

		scheduleDay := shortage.ScheduleDay{Date: day.Date}
		for _, item := range items {
			scheduleDay.Items = append(scheduleDay.Items, shortage.ProductionItem{
				RecipeName:       item.RecipeName,
				Quantity:         item.Quantity,
				AdjustedQuantity: item.AdjustedQuantity,
			})
		}
		sched.Days = append(sched.Days, scheduleDay)
	}
	return sched, nil
}

// UpcomingScheduleIDs lists schedules with production days at or after the
// given time.
func (r *ScheduleRepo) UpcomingScheduleIDs(_ context.Context, from time.Time) ([]string, error) {
	var ids []string
	err := r.db.Model(&models.ProductionDay{}).
		Where("date >= ?", from).
		Pluck("DISTINCT schedule_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// RecipeRepo reads recipe ingredient rows for the flattener.
type RecipeRepo struct {
	db *gorm.DB
}

// NewRecipeRepo creates a recipe repository
func NewRecipeRepo(db *gorm.DB) *RecipeRepo {
	return &RecipeRepo{db: db}
}

// Ingredients returns a recipe's rows in stored order. Unknown recipes
// return an empty slice.
func (r *RecipeRepo) Ingredients(_ context.Context, recipeName string) ([]shortage.IngredientRow, error) {
	var rows []models.RecipeIngredient
	if err := r.db.Where("recipe_name = ?", recipeName).
		Order("position asc, id asc").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]shortage.IngredientRow, 0, len(rows))
	for _, row := range rows {
		kind := shortage.RowIngredient
		if row.ItemType == models.ItemTypeSubRecipe {
			kind = shortage.RowSubRecipe
		}
		out = append(out, shortage.IngredientRow{
			Kind:     kind,
			Name:     row.IngredientName,
			Quantity: row.Quantity,
			Unit:     row.Unit,
		})
	}
	return out, nil
}

// Exists reports whether a recipe has any ingredient rows.
func (r *RecipeRepo) Exists(_ context.Context, recipeName string) (bool, error) {
	var count int
	err := r.db.Model(&models.RecipeIngredient{}).
		Where("recipe_name = ?", recipeName).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InventoryRepo reads the latest on-hand snapshot for a location.
type InventoryRepo struct {
	db *gorm.DB
}

// NewInventoryRepo creates an inventory repository
func NewInventoryRepo(db *gorm.DB) *InventoryRepo {
	return &InventoryRepo{db: db}
}

// LatestSnapshot returns all records at the most recent inventory date at
// or before the given time. No inventory yields an empty snapshot.
func (r *InventoryRepo) LatestSnapshot(_ context.Context, location string, at time.Time) (*shortage.Snapshot, error) {
	var latest models.InventoryRecord
	err := r.db.Where("location = ? AND inventory_date <= ?", location, at).
		Order("inventory_date desc").First(&latest).Error
	if gorm.IsRecordNotFoundError(err) {
		return &shortage.Snapshot{}, nil
	}
	if err != nil {
		return nil, err
	}

	var rows []models.InventoryRecord
	if err := r.db.Where("location = ? AND inventory_date = ?", location, latest.InventoryDate).
		Order("id asc").Find(&rows).Error; err != nil {
		return nil, err
	}

	snapshot := &shortage.Snapshot{Date: latest.InventoryDate}
	for _, row := range rows {
		snapshot.Records = append(snapshot.Records, shortage.StockRecord{
			Item:     row.Item,
			Quantity: row.Quantity,
			Unit:     row.Unit,
		})
	}
	return snapshot, nil
}

// MappingRepo reads the optional ingredient alias table.
type MappingRepo struct {
	db *gorm.DB
}

// NewMappingRepo creates a mapping repository
func NewMappingRepo(db *gorm.DB) *MappingRepo {
	return &MappingRepo{db: db}
}

// InventoryName resolves an ingredient name through the alias table. A
// missing table or row is a miss, not a failure.
func (r *MappingRepo) InventoryName(_ context.Context, ingredientName string) (string, bool, error) {
	if !r.db.HasTable(&models.IngredientMapping{}) {
		return "", false, nil
	}

	var mapping models.IngredientMapping
	err := r.db.Where("recipe_ingredient_name = ?",
		strings.ToLower(strings.TrimSpace(ingredientName))).First(&mapping).Error
	if gorm.IsRecordNotFoundError(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return mapping.InventoryItemName, true, nil
}

// CheckStore persists completed checks and their shortages.
type CheckStore struct {
	db *gorm.DB
}

// NewCheckStore creates a check store
func NewCheckStore(db *gorm.DB) *CheckStore {
	return &CheckStore{db: db}
}

// SaveCheck writes one check row and one row per shortage in a single
// transaction.
func (s *CheckStore) SaveCheck(_ context.Context, result *shortage.CheckResult) error {
	tx := s.db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	check := models.InventoryCheck{
		CheckID:          result.CheckID,
		ScheduleID:       result.ScheduleID,
		ProductionDates:  models.StringSlice(result.ProductionDates),
		Status:           "COMPLETED",
		TotalIngredients: result.TotalIngredients,
		MissingCount:     result.Missing,
		PartialCount:     result.Partial,
		SufficientCount:  result.Sufficient,
		OverallStatus:    string(result.OverallStatus),
		InventoryDate:    result.InventoryDate,
		CheckedBy:        result.CheckedBy,
		CheckType:        string(result.CheckType),
	}
	if err := tx.Create(&check).Error; err != nil {
		tx.Rollback()
		return err
	}

	for _, sh := range result.Shortages {
		row := models.IngredientShortage{
			ShortageID:        sh.ShortageID,
			CheckID:           result.CheckID,
			ScheduleID:        result.ScheduleID,
			ProductionDate:    sh.ProductionDate,
			IngredientName:    sh.Ingredient,
			RequiredQuantity:  sh.Required,
			AvailableQuantity: sh.Available,
			ShortfallAmount:   sh.Shortfall,
			Unit:              sh.Unit,
			ShortageStatus:    string(sh.Status),
			Priority:          string(sh.Priority),
			AffectedRecipes:   models.StringSlice(sh.AffectedRecipes),
			AffectedItems:     models.StringSlice(sh.AffectedItems),
			ResolutionStatus:  "PENDING",
		}
		if sh.InventoryItem != "" {
			name := sh.InventoryItem
			row.InventoryItemName = &name
		}
		if err := tx.Create(&row).Error; err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit().Error
}

// LatestCheck rehydrates the most recently created check for a schedule, or
// (nil, nil) when none exists.
func (s *CheckStore) LatestCheck(_ context.Context, scheduleID string) (*shortage.CheckResult, error) {
	var check models.InventoryCheck
	err := s.db.Where("schedule_id = ?", scheduleID).
		Order("created_at desc, id desc").First(&check).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var rows []models.IngredientShortage
	if err := s.db.Where("check_id = ?", check.CheckID).Find(&rows).Error; err != nil {
		return nil, err
	}

	result := &shortage.CheckResult{
		CheckID:          check.CheckID,
		ScheduleID:       check.ScheduleID,
		ProductionDates:  []string(check.ProductionDates),
		OverallStatus:    shortage.OverallStatus(check.OverallStatus),
		TotalIngredients: check.TotalIngredients,
		Missing:          check.MissingCount,
		Partial:          check.PartialCount,
		Sufficient:       check.SufficientCount,
		InventoryDate:    check.InventoryDate,
		CheckedBy:        check.CheckedBy,
		CheckType:        shortage.CheckType(check.CheckType),
		CreatedAt:        check.CreatedAt,
	}
	for _, row := range rows {
		sh := shortage.Shortage{
			ShortageID:      row.ShortageID,
			Ingredient:      row.IngredientName,
			Required:        row.RequiredQuantity,
			Available:       row.AvailableQuantity,
			Shortfall:       row.ShortfallAmount,
			Unit:            row.Unit,
			Status:          shortage.Status(row.ShortageStatus),
			Priority:        shortage.Priority(row.Priority),
			AffectedRecipes: []string(row.AffectedRecipes),
			AffectedItems:   []string(row.AffectedItems),
			ProductionDate:  row.ProductionDate,
		}
		if row.InventoryItemName != nil {
			sh.InventoryItem = *row.InventoryItemName
		}
		result.Shortages = append(result.Shortages, sh)
	}
	return result, nil
}
