package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// JSONB is a jsonb column mapped to a generic map.
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to scan JSONB: %v", value)
	}
	return json.Unmarshal(bytes, j)
}

// ActionPlan is the corrective-action plan for one inspection. An inspection
// owns at most one plan, created when AI processing succeeds.
type ActionPlan struct {
	ID           string    `json:"id" gorm:"primaryKey;size:32"`
	InspectionID string    `json:"inspection_id" gorm:"size:32;not null;uniqueIndex"`
	Summary      string    `json:"summary" gorm:"type:text"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Items []ActionPlanItem `json:"items,omitempty" gorm:"foreignKey:PlanID"`
}

func (ActionPlan) TableName() string {
	return "action_plans"
}

// ActionPlanItem is one corrective action within a plan.
type ActionPlanItem struct {
	ID          string `json:"id" gorm:"primaryKey;size:32"`
	PlanID      string `json:"plan_id" gorm:"size:32;not null;index"`
	Description string `json:"description" gorm:"type:text;not null"`
	Severity    string `json:"severity" gorm:"size:20"`

	// AISuggestedDeadline is the AI's original suggestion, written once at
	// creation and never overwritten by manager edits.
	AISuggestedDeadline string     `json:"ai_suggested_deadline" gorm:"size:100"`
	DeadlineDate        *time.Time `json:"deadline_date" gorm:"type:date"`
	DeadlineText        *string    `json:"deadline_text" gorm:"size:100"` // manager override, verbatim

	CurrentStatus    string  `json:"current_status" gorm:"size:20;default:PENDENTE"`
	ResolutionNotes  string  `json:"resolution_notes" gorm:"type:text"`
	EvidenceImageURL *string `json:"evidence_image_url" gorm:"size:500"`
	OrderIndex       *int    `json:"order_index"` // nil sorts last

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ActionPlanItem) TableName() string {
	return "action_plan_items"
}

// Item severities
const (
	SeverityLow      = "BAIXA"
	SeverityMedium   = "MEDIA"
	SeverityHigh     = "ALTA"
	SeverityCritical = "CRITICA"
)

// Item resolution statuses
const (
	ItemStatusPending   = "PENDENTE"
	ItemStatusCorrected = "Corrigido"
)

// deadline parse formats tried in order: ISO first, then Brazilian.
var deadlineFormats = []string{"2006-01-02", "02/01/2006"}

// ParseDeadline tries to parse a free-text deadline as a date. The bool is
// false when no format matches.
func ParseDeadline(s string) (time.Time, bool) {
	for _, layout := range deadlineFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ApplyDeadlineEdit records a manager's deadline edit without touching the
// AI suggestion. An edit equal to the AI suggestion records no override.
// Values that fail to parse as dates stay text-only; that is not an error.
func (item *ActionPlanItem) ApplyDeadlineEdit(newValue string) {
	if newValue == item.AISuggestedDeadline {
		return
	}
	v := newValue
	item.DeadlineText = &v
	if t, ok := ParseDeadline(newValue); ok {
		item.DeadlineDate = &t
	}
}

// DisplayDeadline resolves the deadline shown to users: manager override
// first, then the structured date as DD/MM/YYYY, then the AI suggestion.
func (item *ActionPlanItem) DisplayDeadline() string {
	if item.DeadlineText != nil && *item.DeadlineText != "" {
		return *item.DeadlineText
	}
	if item.DeadlineDate != nil {
		return item.DeadlineDate.Format("02/01/2006")
	}
	if item.AISuggestedDeadline != "" {
		return item.AISuggestedDeadline
	}
	return "N/A"
}

// SortItems orders items by order_index ascending with nil last, breaking
// ties by id so display order stays deterministic.
func SortItems(items []ActionPlanItem) {
	sort.SliceStable(items, func(a, b int) bool {
		ia, ib := items[a].OrderIndex, items[b].OrderIndex
		switch {
		case ia == nil && ib == nil:
			return items[a].ID < items[b].ID
		case ia == nil:
			return false
		case ib == nil:
			return true
		case *ia != *ib:
			return *ia < *ib
		default:
			return items[a].ID < items[b].ID
		}
	})
}
