package entity

import "time"

// ActivityLog records who did what to an inspection, including every status
// transition.
type ActivityLog struct {
	ID         string `json:"id" gorm:"primaryKey;size:32"`
	EntityType string `json:"entity_type" gorm:"size:50;not null;index:idx_activity_entity"` // inspection/plan/item/user
	EntityID   string `json:"entity_id" gorm:"size:32;not null;index:idx_activity_entity"`

	Action     string `json:"action" gorm:"size:50;not null"` // upload/status_change/plan_edit/approve/evidence/cancel
	FromStatus string `json:"from_status" gorm:"size:40"`
	ToStatus   string `json:"to_status" gorm:"size:40"`

	Content  string `json:"content" gorm:"type:text"`
	Metadata JSONB  `json:"metadata" gorm:"type:jsonb"`

	OperatorID   string    `json:"operator_id" gorm:"size:32"`
	OperatorName string    `json:"operator_name" gorm:"size:128"`
	CreatedAt    time.Time `json:"created_at"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}

// Activity actions
const (
	ActionUpload       = "upload"
	ActionStatusChange = "status_change"
	ActionPlanEdit     = "plan_edit"
	ActionApprove      = "approve"
	ActionEvidence     = "evidence"
	ActionCancel       = "cancel"
)
