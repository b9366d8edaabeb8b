package report

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kitchenops/backend/internal/domain/logbook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func testComplianceRules() ComplianceRules {
	return ComplianceRules{
		TemperatureRanges: map[string]SafeRange{
			"cooler":   {Min: floatPtr(34), Max: floatPtr(40)},
			"freezer":  {Max: floatPtr(0)},
			"hot_hold": {Min: floatPtr(135)},
		},
		MealComponents:    []string{"protein", "grain", "fruit", "vegetable", "milk"},
		MinMealComponents: 3,
	}
}

func TestTemperatureViolations(t *testing.T) {
	tmpl := makeTemplate(t, "Cooler Temperature Log", logbook.CategoryTemperature, logbook.FrequencyTwiceDaily)
	rules := testComplianceRules()

	submit := func(data logbook.DataMap) []*logbook.LogSubmission {
		return []*logbook.LogSubmission{
			logbook.NewLogSubmission(tmpl.ID, time.Date(2026, 3, 3, 8, 0, 0, 0, time.UTC), uuid.New(), data),
		}
	}

	t.Run("out-of-range cooler reading is flagged", func(t *testing.T) {
		report := ComplianceViolations([]*logbook.LogTemplate{tmpl}, submit(logbook.DataMap{"cooler_temp": 45.0}), rules)

		assert.Equal(t, 1, report.TotalViolations)
		assert.Equal(t, 1, report.TotalSubmissions)
		assert.Equal(t, 100, report.ViolationRate)
		require.Len(t, report.Groups, 1)
		require.Len(t, report.Groups[0].Records, 1)
		assert.Equal(t, "temperature_out_of_range", report.Groups[0].Records[0].Issue)
		assert.Contains(t, report.Groups[0].Records[0].Details, "cooler_temp")
	})

	t.Run("in-range reading is compliant", func(t *testing.T) {
		report := ComplianceViolations([]*logbook.LogTemplate{tmpl}, submit(logbook.DataMap{"cooler_temp": 38.0}), rules)
		assert.Zero(t, report.TotalViolations)
		assert.Empty(t, report.Groups)
	})

	t.Run("range bounds are inclusive", func(t *testing.T) {
		for _, value := range []float64{34, 40} {
			report := ComplianceViolations([]*logbook.LogTemplate{tmpl}, submit(logbook.DataMap{"cooler_temp": value}), rules)
			assert.Zero(t, report.TotalViolations, "reading %g should be compliant", value)
		}
	})

	t.Run("hot holding only has a lower bound", func(t *testing.T) {
		report := ComplianceViolations([]*logbook.LogTemplate{tmpl}, submit(logbook.DataMap{"hot_hold_temp": 128.0}), rules)
		assert.Equal(t, 1, report.TotalViolations)

		report = ComplianceViolations([]*logbook.LogTemplate{tmpl}, submit(logbook.DataMap{"hot_hold_temp": 165.0}), rules)
		assert.Zero(t, report.TotalViolations)
	})

	t.Run("each out-of-range field is its own violation", func(t *testing.T) {
		report := ComplianceViolations([]*logbook.LogTemplate{tmpl}, submit(logbook.DataMap{
			"cooler_temp":  45.0,
			"freezer_temp": 10.0,
		}), rules)
		assert.Equal(t, 2, report.TotalViolations)
	})
}

func TestMealComponentViolations(t *testing.T) {
	tmpl := makeTemplate(t, "Lunch Tray Check", logbook.CategoryReimbursableMeal, logbook.FrequencyPerMeal)
	rules := testComplianceRules()

	tray := func(present ...string) logbook.DataMap {
		data := logbook.DataMap{"protein": false, "grain": false, "fruit": false, "vegetable": false, "milk": false}
		for _, c := range present {
			data[c] = true
		}
		return data
	}

	submit := func(data logbook.DataMap) []*logbook.LogSubmission {
		return []*logbook.LogSubmission{
			logbook.NewLogSubmission(tmpl.ID, time.Date(2026, 3, 3, 11, 30, 0, 0, time.UTC), uuid.New(), data),
		}
	}

	t.Run("exactly three components is compliant", func(t *testing.T) {
		report := ComplianceViolations([]*logbook.LogTemplate{tmpl}, submit(tray("protein", "grain", "fruit")), rules)
		assert.Zero(t, report.TotalViolations)
	})

	t.Run("two components is a violation", func(t *testing.T) {
		report := ComplianceViolations([]*logbook.LogTemplate{tmpl}, submit(tray("protein", "grain")), rules)
		require.Equal(t, 1, report.TotalViolations)
		record := report.Groups[0].Records[0]
		assert.Equal(t, "insufficient_meal_components", record.Issue)
		assert.Contains(t, record.Details, "2 of 5")
	})

	t.Run("all five components is compliant", func(t *testing.T) {
		report := ComplianceViolations([]*logbook.LogTemplate{tmpl}, submit(tray("protein", "grain", "fruit", "vegetable", "milk")), rules)
		assert.Zero(t, report.TotalViolations)
	})
}

func TestComplianceReportRate(t *testing.T) {
	tmpl := makeTemplate(t, "Cooler Temperature Log", logbook.CategoryTemperature, logbook.FrequencyDaily)
	rules := testComplianceRules()

	subs := []*logbook.LogSubmission{
		logbook.NewLogSubmission(tmpl.ID, time.Now(), uuid.New(), logbook.DataMap{"cooler_temp": 45.0}),
		logbook.NewLogSubmission(tmpl.ID, time.Now(), uuid.New(), logbook.DataMap{"cooler_temp": 38.0}),
		logbook.NewLogSubmission(tmpl.ID, time.Now(), uuid.New(), logbook.DataMap{"cooler_temp": 36.0}),
	}

	report := ComplianceViolations([]*logbook.LogTemplate{tmpl}, subs, rules)
	assert.Equal(t, 3, report.TotalSubmissions)
	assert.Equal(t, 1, report.TotalViolations)
	assert.Equal(t, 33, report.ViolationRate)

	t.Run("pending submissions are not counted", func(t *testing.T) {
		pending := logbook.NewPendingSubmission(tmpl.ID, time.Now(), uuid.New(), logbook.DataMap{"cooler_temp": 99.0})
		report := ComplianceViolations([]*logbook.LogTemplate{tmpl}, append(subs, pending), rules)
		assert.Equal(t, 3, report.TotalSubmissions)
		assert.Equal(t, 1, report.TotalViolations)
	})

	t.Run("empty window yields a zero rate", func(t *testing.T) {
		report := ComplianceViolations([]*logbook.LogTemplate{tmpl}, nil, rules)
		assert.Zero(t, report.ViolationRate)
	})
}
