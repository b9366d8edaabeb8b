package report

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/kitchenops/backend/internal/domain/logbook"
)

// HistoryEntry is one submission in the audit history, carrying its
// full validated data mapping
type HistoryEntry struct {
	SubmissionID   uuid.UUID       `json:"submission_id"`
	SubmissionDate time.Time       `json:"submission_date"`
	SubmittedAt    time.Time       `json:"submitted_at"`
	SubmittedBy    uuid.UUID       `json:"submitted_by"`
	Status         string          `json:"status"`
	Data           logbook.DataMap `json:"data"`
	CorrectsID     *uuid.UUID      `json:"corrects_id,omitempty"`
}

// TemplateHistory groups a template's submissions for audit review
type TemplateHistory struct {
	TemplateID   uuid.UUID      `json:"template_id"`
	TemplateName string         `json:"template_name"`
	Category     string         `json:"category"`
	Entries      []HistoryEntry `json:"entries"`
}

// LogHistory groups raw submissions by template, ordered by submitted_at
// within each group. Templates with no submissions in the window still
// appear with an empty entry list so the caller sees every id it asked
// for.
func LogHistory(templates []*logbook.LogTemplate, submissions []*logbook.LogSubmission) []TemplateHistory {
	groups := make([]TemplateHistory, 0, len(templates))
	index := make(map[uuid.UUID]int, len(templates))
	for i, t := range templates {
		index[t.ID] = i
		groups = append(groups, TemplateHistory{
			TemplateID:   t.ID,
			TemplateName: t.Name,
			Category:     t.Category,
			Entries:      []HistoryEntry{},
		})
	}

	for _, s := range submissions {
		i, ok := index[s.TemplateID]
		if !ok {
			continue
		}
		groups[i].Entries = append(groups[i].Entries, HistoryEntry{
			SubmissionID:   s.ID,
			SubmissionDate: s.SubmissionDate,
			SubmittedAt:    s.SubmittedAt,
			SubmittedBy:    s.SubmittedBy,
			Status:         string(s.Status),
			Data:           s.Data,
			CorrectsID:     s.CorrectsID,
		})
	}

	for i := range groups {
		entries := groups[i].Entries
		sort.Slice(entries, func(a, b int) bool { return entries[a].SubmittedAt.Before(entries[b].SubmittedAt) })
	}

	sort.Slice(groups, func(i, j int) bool { return groups[i].TemplateName < groups[j].TemplateName })

	return groups
}
