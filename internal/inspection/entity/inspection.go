package entity

import (
	"fmt"
	"time"
)

// Inspection is one uploaded sanitary-inspection report and its lifecycle.
type Inspection struct {
	ID              string     `json:"id" gorm:"primaryKey;size:32"`
	EstablishmentID string     `json:"establishment_id" gorm:"size:32;not null;index"`
	FileName        string     `json:"file_name" gorm:"size:300;not null"`
	FileHash        string     `json:"file_hash" gorm:"size:64;index"` // sha256 of the uploaded PDF
	FileURL         string     `json:"file_url" gorm:"size:500"`
	Status          string     `json:"status" gorm:"size:40;not null;index"`
	AIRawResponse   JSONB      `json:"ai_raw_response,omitempty" gorm:"type:jsonb"` // immutable AI snapshot
	RejectReason    string     `json:"reject_reason" gorm:"size:1000"`
	UploadedBy      string     `json:"uploaded_by" gorm:"size:32"`
	ApprovedBy      *string    `json:"approved_by" gorm:"size:32"`
	ApprovedAt      *time.Time `json:"approved_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	EstablishmentName string      `json:"establishment_name,omitempty" gorm:"-"`
	Plan              *ActionPlan `json:"plan,omitempty" gorm:"foreignKey:InspectionID"`
}

func (Inspection) TableName() string {
	return "inspections"
}

// Inspection statuses
const (
	InspectionStatusProcessing              = "PROCESSING"
	InspectionStatusPendingManagerReview    = "PENDING_MANAGER_REVIEW"
	InspectionStatusApproved                = "APPROVED"
	InspectionStatusPendingConsultantVerify = "PENDING_CONSULTANT_VERIFICATION"
	InspectionStatusCompleted               = "COMPLETED"
	InspectionStatusRejected                = "REJECTED"
	InspectionStatusCanceled                = "CANCELED"
)

// ValidInspectionTransitions maps each active status to the statuses it may
// move to. Any active status may additionally be canceled.
var ValidInspectionTransitions = map[string][]string{
	InspectionStatusProcessing: {
		InspectionStatusPendingManagerReview,
		InspectionStatusRejected,
		InspectionStatusCanceled,
	},
	InspectionStatusPendingManagerReview: {
		InspectionStatusApproved,
		InspectionStatusCanceled,
	},
	InspectionStatusApproved: {
		InspectionStatusPendingConsultantVerify,
		InspectionStatusCanceled,
	},
	InspectionStatusPendingConsultantVerify: {
		InspectionStatusCompleted,
		InspectionStatusCanceled,
	},
}

var inspectionStatuses = map[string]bool{
	InspectionStatusProcessing:              true,
	InspectionStatusPendingManagerReview:    true,
	InspectionStatusApproved:                true,
	InspectionStatusPendingConsultantVerify: true,
	InspectionStatusCompleted:               true,
	InspectionStatusRejected:                true,
	InspectionStatusCanceled:                true,
}

// ParseInspectionStatus validates a persisted status string. Unknown values
// are an error, never passed through.
func ParseInspectionStatus(s string) (string, error) {
	if !inspectionStatuses[s] {
		return "", fmt.Errorf("status de inspeção desconhecido: %q", s)
	}
	return s, nil
}

// IsTerminalStatus reports whether no further transition is possible.
func IsTerminalStatus(status string) bool {
	switch status {
	case InspectionStatusCompleted, InspectionStatusRejected, InspectionStatusCanceled:
		return true
	}
	return false
}

// CanTransition reports whether from→to is an edge of the lifecycle graph.
func CanTransition(from, to string) bool {
	for _, allowed := range ValidInspectionTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// InvalidTransitionError is returned when a status change is not adjacent in
// the lifecycle graph.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("Não é possível mudar inspeção de '%s' para '%s'", e.From, e.To)
}

// Transition moves the inspection to a new status after validating the edge.
func (i *Inspection) Transition(to string) error {
	if _, err := ParseInspectionStatus(to); err != nil {
		return err
	}
	if !CanTransition(i.Status, to) {
		return &InvalidTransitionError{From: i.Status, To: to}
	}
	i.Status = to
	i.UpdatedAt = time.Now()
	return nil
}
