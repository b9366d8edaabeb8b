package report

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kitchenops/backend/internal/domain/logbook"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRates() MealRates {
	return MealRates{
		"breakfast": decimal.RequireFromString("2.50"),
		"lunch":     decimal.RequireFromString("4.25"),
	}
}

func TestReimbursableMeals(t *testing.T) {
	templateID := uuid.New()
	staffID := uuid.New()
	day1 := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	window := logbook.SubmissionWindow{Start: day1, End: day2}

	subs := []*logbook.LogSubmission{
		logbook.NewLogSubmission(templateID, day1, staffID, logbook.DataMap{"breakfast_count": 40.0, "lunch_count": 100.0}),
		logbook.NewLogSubmission(templateID, day2, staffID, logbook.DataMap{"breakfast_count": 50.0, "lunch_count": 90.0}),
	}

	report := ReimbursableMeals(window, subs, testRates())

	t.Run("daily breakdown in date order", func(t *testing.T) {
		require.Len(t, report.Days, 2)
		assert.Equal(t, day1, report.Days[0].Date)
		assert.Equal(t, int64(40), report.Days[0].Counts["breakfast"])
		// 40 * 2.50 + 100 * 4.25
		assert.True(t, report.Days[0].Revenue.Equal(decimal.RequireFromString("525.00")),
			"got %s", report.Days[0].Revenue)
	})

	t.Run("window totals", func(t *testing.T) {
		assert.Equal(t, int64(90), report.TotalCounts["breakfast"])
		assert.Equal(t, int64(190), report.TotalCounts["lunch"])
		// 525.00 + (50 * 2.50 + 90 * 4.25)
		assert.True(t, report.TotalRevenue.Equal(decimal.RequireFromString("1032.50")),
			"got %s", report.TotalRevenue)
	})

	t.Run("average per calendar day", func(t *testing.T) {
		assert.True(t, report.AveragePerDay.Equal(decimal.RequireFromString("516.25")),
			"got %s", report.AveragePerDay)
	})

	t.Run("pending submissions are excluded", func(t *testing.T) {
		pending := logbook.NewPendingSubmission(templateID, day1, staffID, logbook.DataMap{"lunch_count": 500.0})
		again := ReimbursableMeals(window, append(subs, pending), testRates())
		assert.True(t, again.TotalRevenue.Equal(report.TotalRevenue))
	})

	t.Run("empty window yields zero totals", func(t *testing.T) {
		empty := ReimbursableMeals(window, nil, testRates())
		assert.Empty(t, empty.Days)
		assert.True(t, empty.TotalRevenue.IsZero())
		assert.True(t, empty.AveragePerDay.IsZero())
	})

	t.Run("multiple submissions on one day accumulate", func(t *testing.T) {
		doubled := ReimbursableMeals(window, append(subs,
			logbook.NewLogSubmission(templateID, day1, staffID, logbook.DataMap{"lunch_count": 10.0}),
		), testRates())
		require.Len(t, doubled.Days, 2)
		assert.Equal(t, int64(110), doubled.Days[0].Counts["lunch"])
	})
}

func TestLogHistory(t *testing.T) {
	tmpl := makeTemplate(t, "Cooler Temperature Log", logbook.CategoryTemperature, logbook.FrequencyDaily)
	other := makeTemplate(t, "Lunch Tray Check", logbook.CategoryReimbursableMeal, logbook.FrequencyPerMeal)
	staffID := uuid.New()

	s1 := logbook.NewLogSubmission(tmpl.ID, time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC), staffID, logbook.DataMap{"value": 36.0})
	s2 := logbook.NewLogSubmission(tmpl.ID, time.Date(2026, 3, 3, 8, 0, 0, 0, time.UTC), staffID, logbook.DataMap{"value": 37.0})

	groups := LogHistory([]*logbook.LogTemplate{tmpl, other}, []*logbook.LogSubmission{s2, s1})

	require.Len(t, groups, 2)

	t.Run("groups carry the full data mapping", func(t *testing.T) {
		cooler := groups[0]
		assert.Equal(t, tmpl.ID, cooler.TemplateID)
		require.Len(t, cooler.Entries, 2)
		assert.Equal(t, logbook.DataMap{"value": 36.0}, cooler.Entries[0].Data)
	})

	t.Run("requested templates with no submissions appear empty", func(t *testing.T) {
		assert.Equal(t, other.ID, groups[1].TemplateID)
		assert.Empty(t, groups[1].Entries)
	})

	t.Run("submissions for unrequested templates are dropped", func(t *testing.T) {
		stray := logbook.NewLogSubmission(uuid.New(), time.Now(), staffID, logbook.DataMap{})
		again := LogHistory([]*logbook.LogTemplate{tmpl}, []*logbook.LogSubmission{s1, stray})
		require.Len(t, again, 1)
		assert.Len(t, again[0].Entries, 1)
	})
}
