package logbook

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	domain "github.com/kitchenops/backend/internal/domain/logbook"
)

// CreateTemplateRequest carries a new template definition
type CreateTemplateRequest struct {
	Name      string          `json:"name" binding:"required,max=200"`
	Category  string          `json:"category" binding:"required,max=100"`
	Frequency string          `json:"frequency" binding:"required"`
	FormSchema json.RawMessage `json:"form_schema" binding:"required"`
	UISchema  json.RawMessage `json:"ui_schema,omitempty"`
}

// UpdateSchemaRequest carries a schema change for an existing template
type UpdateSchemaRequest struct {
	FormSchema json.RawMessage `json:"form_schema" binding:"required"`
	UISchema   json.RawMessage `json:"ui_schema,omitempty"`
}

// RetireTemplateRequest selects how a template leaves active service
type RetireTemplateRequest struct {
	Transition string `json:"transition" binding:"required,oneof=deprecate archive"`
}

// TemplateResponse is the template read model
type TemplateResponse struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	Frequency    string          `json:"frequency"`
	FormSchema   json.RawMessage `json:"form_schema"`
	UISchema     json.RawMessage `json:"ui_schema,omitempty"`
	Status       string          `json:"status"`
	SupersedesID *uuid.UUID      `json:"supersedes_id,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func toTemplateResponse(t *domain.LogTemplate) TemplateResponse {
	return TemplateResponse{
		ID:           t.ID,
		Name:         t.Name,
		Category:     t.Category,
		Frequency:    string(t.Frequency),
		FormSchema:   json.RawMessage(t.SchemaJSON),
		UISchema:     json.RawMessage(t.UISchemaJSON),
		Status:       string(t.Status),
		SupersedesID: t.SupersedesID,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

// SubmitRequest carries a candidate submission
type SubmitRequest struct {
	TemplateID     uuid.UUID      `json:"template_id" binding:"required"`
	SubmissionDate time.Time      `json:"submission_date" binding:"required"`
	SubmittedBy    uuid.UUID      `json:"submitted_by" binding:"required"`
	Data           map[string]any `json:"data" binding:"required"`
}

// CompleteRequest carries the final data for a pending submission
type CompleteRequest struct {
	Data map[string]any `json:"data" binding:"required"`
}

// CorrectRequest carries replacement data for a completed submission
type CorrectRequest struct {
	SubmittedBy uuid.UUID      `json:"submitted_by" binding:"required"`
	Data        map[string]any `json:"data" binding:"required"`
}

// SubmissionResponse is the submission read model
type SubmissionResponse struct {
	ID             uuid.UUID      `json:"id"`
	TemplateID     uuid.UUID      `json:"template_id"`
	SubmissionDate time.Time      `json:"submission_date"`
	SubmittedAt    time.Time      `json:"submitted_at"`
	SubmittedBy    uuid.UUID      `json:"submitted_by"`
	Status         string         `json:"status"`
	Data           map[string]any `json:"data"`
	CorrectsID     *uuid.UUID     `json:"corrects_id,omitempty"`
}

func toSubmissionResponse(s *domain.LogSubmission) SubmissionResponse {
	return SubmissionResponse{
		ID:             s.ID,
		TemplateID:     s.TemplateID,
		SubmissionDate: s.SubmissionDate,
		SubmittedAt:    s.SubmittedAt,
		SubmittedBy:    s.SubmittedBy,
		Status:         string(s.Status),
		Data:           s.Data,
		CorrectsID:     s.CorrectsID,
	}
}
