package report

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/kitchenops/backend/internal/domain/logbook"
)

// ScheduleRules converts a template frequency into an expected
// submission count for a window. Values come from deployment config.
type ScheduleRules struct {
	ServicesPerDay int
	MealsPerDay    int
}

// TemplateCompletion is one row of the weekly completion report
type TemplateCompletion struct {
	TemplateID     uuid.UUID         `json:"template_id"`
	TemplateName   string            `json:"template_name"`
	Category       string            `json:"category"`
	Frequency      logbook.Frequency `json:"frequency"`
	Completed      int64             `json:"completed"`
	Pending        int64             `json:"pending"`
	TotalExpected  int64             `json:"total_expected"`
	CompletionRate int               `json:"completion_rate"`
}

// ExpectedSubmissions derives how many submissions a template should
// receive over a span of calendar days
func ExpectedSubmissions(frequency logbook.Frequency, days int, rules ScheduleRules) int64 {
	if days <= 0 {
		return 0
	}
	switch frequency {
	case logbook.FrequencyDaily:
		return int64(days)
	case logbook.FrequencyTwiceDaily:
		return int64(days) * 2
	case logbook.FrequencyPerService:
		return int64(days) * int64(rules.ServicesPerDay)
	case logbook.FrequencyPerMeal:
		return int64(days) * int64(rules.MealsPerDay)
	case logbook.FrequencyWeekly:
		return int64(days / 7)
	default:
		return 0
	}
}

// WeeklyCompletion computes per-template completion over a window.
// Templates with zero expected submissions are omitted rather than
// reported as 0/0.
func WeeklyCompletion(window logbook.SubmissionWindow, templates []*logbook.LogTemplate, submissions []*logbook.LogSubmission, rules ScheduleRules) []TemplateCompletion {
	days := windowDays(window)

	completed := make(map[uuid.UUID]int64)
	pending := make(map[uuid.UUID]int64)
	for _, s := range submissions {
		if s.IsCompleted() {
			completed[s.TemplateID]++
		} else {
			pending[s.TemplateID]++
		}
	}

	rows := make([]TemplateCompletion, 0, len(templates))
	for _, t := range templates {
		expected := ExpectedSubmissions(t.Frequency, days, rules)
		if expected == 0 {
			continue
		}
		done := completed[t.ID]
		rows = append(rows, TemplateCompletion{
			TemplateID:     t.ID,
			TemplateName:   t.Name,
			Category:       t.Category,
			Frequency:      t.Frequency,
			Completed:      done,
			Pending:        pending[t.ID],
			TotalExpected:  expected,
			CompletionRate: roundRate(done, expected),
		})
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].TemplateName < rows[j].TemplateName })

	return rows
}

// windowDays counts calendar days in the window, inclusive of both ends
func windowDays(window logbook.SubmissionWindow) int {
	start := dateOf(window.Start)
	end := dateOf(window.End)
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func roundRate(part, whole int64) int {
	if whole == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}
