package report

import (
	"sort"
	"time"

	"github.com/kitchenops/backend/internal/domain/logbook"
	"github.com/shopspring/decimal"
)

// MealRates maps a meal category (breakfast, lunch) to its reimbursable
// rate per meal served. Rates are configured per deployment.
type MealRates map[string]decimal.Decimal

// MealDay is one day's counts and revenue in the reimbursable report
type MealDay struct {
	Date    time.Time       `json:"date"`
	Counts  map[string]int64 `json:"counts"`
	Revenue decimal.Decimal `json:"revenue"`
}

// ReimbursableMealsReport summarizes meal counts and revenue over a window
type ReimbursableMealsReport struct {
	Days          []MealDay        `json:"days"`
	TotalCounts   map[string]int64 `json:"total_counts"`
	TotalRevenue  decimal.Decimal  `json:"total_revenue"`
	AveragePerDay decimal.Decimal  `json:"average_per_day"`
}

// ReimbursableMeals sums meal counts from reimbursable-meal submissions
// and prices them against the configured rates. Counts are read from
// data keys named "<category>_count" so a rate with no matching field
// simply contributes zero.
func ReimbursableMeals(window logbook.SubmissionWindow, submissions []*logbook.LogSubmission, rates MealRates) ReimbursableMealsReport {
	byDay := make(map[time.Time]map[string]int64)
	for _, s := range submissions {
		if !s.IsCompleted() {
			continue
		}
		day := dateOf(s.SubmissionDate)
		counts := byDay[day]
		if counts == nil {
			counts = make(map[string]int64)
			byDay[day] = counts
		}
		for category := range rates {
			counts[category] += mealCount(s.Data, category)
		}
	}

	report := ReimbursableMealsReport{
		Days:          make([]MealDay, 0, len(byDay)),
		TotalCounts:   make(map[string]int64, len(rates)),
		TotalRevenue:  decimal.Zero,
		AveragePerDay: decimal.Zero,
	}

	dates := make([]time.Time, 0, len(byDay))
	for day := range byDay {
		dates = append(dates, day)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	for _, day := range dates {
		counts := byDay[day]
		revenue := decimal.Zero
		for category, count := range counts {
			revenue = revenue.Add(rates[category].Mul(decimal.NewFromInt(count)))
			report.TotalCounts[category] += count
		}
		report.Days = append(report.Days, MealDay{Date: day, Counts: counts, Revenue: revenue})
		report.TotalRevenue = report.TotalRevenue.Add(revenue)
	}

	if days := windowDays(window); days > 0 {
		report.AveragePerDay = report.TotalRevenue.DivRound(decimal.NewFromInt(int64(days)), 2)
	}

	return report
}

// mealCount reads a non-negative meal count from the submission data,
// tolerating both the raw count key and the category name itself
func mealCount(data logbook.DataMap, category string) int64 {
	for _, key := range []string{category + "_count", category} {
		if v, ok := data[key]; ok {
			if n, ok := v.(float64); ok && n > 0 {
				return int64(n)
			}
		}
	}
	return 0
}
