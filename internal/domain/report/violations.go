package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kitchenops/backend/internal/domain/logbook"
)

// SafeRange bounds a recorded temperature. A nil bound is unbounded on
// that side, so hot-holding can require only a minimum.
type SafeRange struct {
	Min *float64
	Max *float64
}

// Contains reports whether the value falls inside the range, inclusive
func (r SafeRange) Contains(value float64) bool {
	if r.Min != nil && value < *r.Min {
		return false
	}
	if r.Max != nil && value > *r.Max {
		return false
	}
	return true
}

func (r SafeRange) String() string {
	switch {
	case r.Min != nil && r.Max != nil:
		return fmt.Sprintf("%g-%g", *r.Min, *r.Max)
	case r.Min != nil:
		return fmt.Sprintf(">=%g", *r.Min)
	case r.Max != nil:
		return fmt.Sprintf("<=%g", *r.Max)
	default:
		return "unbounded"
	}
}

// ComplianceRules configures the per-category violation checks.
// TemperatureRanges is keyed by a substring of the data field name
// (cooler, freezer, hot_hold) so one temperature template can log
// several pieces of equipment.
type ComplianceRules struct {
	TemperatureRanges map[string]SafeRange
	MealComponents    []string
	MinMealComponents int
}

// ViolationRecord is one flagged submission in the compliance report
type ViolationRecord struct {
	Issue            string    `json:"issue"`
	SubmittedAt      time.Time `json:"submitted_at"`
	SubmittedBy      uuid.UUID `json:"submitted_by"`
	Details          string    `json:"details"`
	CorrectiveAction string    `json:"corrective_action"`
}

// ViolationGroup collects violations per template
type ViolationGroup struct {
	TemplateID   uuid.UUID         `json:"template_id"`
	TemplateName string            `json:"template_name"`
	Category     string            `json:"category"`
	Count        int               `json:"count"`
	Records      []ViolationRecord `json:"records"`
}

// ComplianceReport summarizes violations over a window
type ComplianceReport struct {
	Groups           []ViolationGroup `json:"groups"`
	TotalViolations  int              `json:"total_violations"`
	TotalSubmissions int              `json:"total_submissions"`
	ViolationRate    int              `json:"violation_rate"`
}

// ComplianceViolations applies category rules to each completed
// submission in the window. Source data is never mutated.
func ComplianceViolations(templates []*logbook.LogTemplate, submissions []*logbook.LogSubmission, rules ComplianceRules) ComplianceReport {
	byTemplate := make(map[uuid.UUID]*logbook.LogTemplate, len(templates))
	for _, t := range templates {
		byTemplate[t.ID] = t
	}

	groups := make(map[uuid.UUID]*ViolationGroup)
	report := ComplianceReport{}

	for _, s := range submissions {
		if !s.IsCompleted() {
			continue
		}
		report.TotalSubmissions++

		t, ok := byTemplate[s.TemplateID]
		if !ok {
			continue
		}

		var records []ViolationRecord
		switch t.Category {
		case logbook.CategoryTemperature:
			records = temperatureViolations(s, rules)
		case logbook.CategoryReimbursableMeal:
			records = mealComponentViolations(s, rules)
		}
		if len(records) == 0 {
			continue
		}

		group := groups[t.ID]
		if group == nil {
			group = &ViolationGroup{TemplateID: t.ID, TemplateName: t.Name, Category: t.Category}
			groups[t.ID] = group
		}
		group.Records = append(group.Records, records...)
		group.Count += len(records)
		report.TotalViolations += len(records)
	}

	report.Groups = make([]ViolationGroup, 0, len(groups))
	for _, g := range groups {
		report.Groups = append(report.Groups, *g)
	}
	sort.Slice(report.Groups, func(i, j int) bool {
		return report.Groups[i].TemplateName < report.Groups[j].TemplateName
	})
	report.ViolationRate = roundRate(int64(report.TotalViolations), int64(report.TotalSubmissions))

	return report
}

func temperatureViolations(s *logbook.LogSubmission, rules ComplianceRules) []ViolationRecord {
	var records []ViolationRecord
	fields := make([]string, 0, len(s.Data))
	for name := range s.Data {
		fields = append(fields, name)
	}
	sort.Strings(fields)

	for _, name := range fields {
		value, ok := s.Data[name].(float64)
		if !ok {
			continue
		}
		for keyword, safe := range rules.TemperatureRanges {
			if !strings.Contains(name, keyword) {
				continue
			}
			if !safe.Contains(value) {
				records = append(records, ViolationRecord{
					Issue:            "temperature_out_of_range",
					SubmittedAt:      s.SubmittedAt,
					SubmittedBy:      s.SubmittedBy,
					Details:          fmt.Sprintf("%s recorded %g, safe range %s", name, value, safe),
					CorrectiveAction: "Discard product held outside the safe range and inspect the equipment",
				})
			}
			break
		}
	}
	return records
}

// mealComponentViolations flags trays with fewer than the minimum USDA
// components marked present. Exactly the minimum is compliant.
func mealComponentViolations(s *logbook.LogSubmission, rules ComplianceRules) []ViolationRecord {
	if len(rules.MealComponents) == 0 {
		return nil
	}

	present := 0
	var missing []string
	for _, component := range rules.MealComponents {
		if v, ok := s.Data[component].(bool); ok && v {
			present++
		} else {
			missing = append(missing, component)
		}
	}

	if present >= rules.MinMealComponents {
		return nil
	}

	return []ViolationRecord{{
		Issue:            "insufficient_meal_components",
		SubmittedAt:      s.SubmittedAt,
		SubmittedBy:      s.SubmittedBy,
		Details:          fmt.Sprintf("%d of %d components present, missing: %s", present, len(rules.MealComponents), strings.Join(missing, ", ")),
		CorrectiveAction: "Review the tray against the USDA meal pattern before claiming reimbursement",
	}}
}
