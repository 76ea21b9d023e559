package main

import (
	"flag"
	"fmt"
	"os"

	"kitchenops/internal/shortage"
)

var (
	scheduleID = flag.String("schedule", "", "Schedule ID to check")
	userID     = flag.String("user", "", "User ID recorded on manual checks")
	latest     = flag.Bool("latest", false, "Show the latest check instead of running a new one")
)

func main() {
	flag.Parse()

	client := NewApiClient()

	if ok, err := client.CheckHealth(); !ok {
		fmt.Fprintf(os.Stderr, "API server at %s is not available: %v\n", client.BaseURL, err)
		os.Exit(1)
	}

	if *scheduleID == "" {
		fmt.Fprintln(os.Stderr, "usage: kitchenops-cli -schedule <id> [-user <id>] [-latest]")
		os.Exit(2)
	}

	var result *shortage.CheckResult
	var err error
	if *latest {
		result, err = client.LatestCheck(*scheduleID)
	} else {
		result, err = client.RunCheck(*scheduleID, *userID)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if result == nil {
		fmt.Printf("No check found for schedule %s\n", *scheduleID)
		return
	}

	printResult(result)
	if result.OverallStatus == shortage.OverallCriticalShortage {
		os.Exit(1)
	}
}

func printResult(result *shortage.CheckResult) {
	fmt.Printf("Check %s for schedule %s (%s by %s)\n",
		result.CheckID, result.ScheduleID, result.CheckType, result.CheckedBy)
	fmt.Printf("Overall: %s: %d ingredients, %d missing, %d partial, %d sufficient\n",
		result.OverallStatus, result.TotalIngredients, result.Missing, result.Partial, result.Sufficient)

	if len(result.Shortages) == 0 {
		fmt.Println("No shortages.")
		return
	}

	fmt.Println("\nShortages:")
	for _, sh := range result.Shortages {
		matched := sh.InventoryItem
		if matched == "" {
			matched = "(no inventory match)"
		}
		fmt.Printf("  [%s/%s] %s on %s: need %.2f %s, have %.2f, short %.2f, matched %s\n",
			sh.Priority, sh.Status, sh.Ingredient,
			sh.ProductionDate.Format("2006-01-02"),
			sh.Required, sh.Unit, sh.Available, sh.Shortfall, matched)
	}
}
