package entity

import (
	"errors"
	"testing"
)

var allStatuses = []string{
	InspectionStatusProcessing,
	InspectionStatusPendingManagerReview,
	InspectionStatusApproved,
	InspectionStatusPendingConsultantVerify,
	InspectionStatusCompleted,
	InspectionStatusRejected,
	InspectionStatusCanceled,
}

func TestCanTransitionMatrix(t *testing.T) {
	allowed := map[string]map[string]bool{
		InspectionStatusProcessing: {
			InspectionStatusPendingManagerReview: true,
			InspectionStatusRejected:             true,
			InspectionStatusCanceled:             true,
		},
		InspectionStatusPendingManagerReview: {
			InspectionStatusApproved: true,
			InspectionStatusCanceled: true,
		},
		InspectionStatusApproved: {
			InspectionStatusPendingConsultantVerify: true,
			InspectionStatusCanceled:                true,
		},
		InspectionStatusPendingConsultantVerify: {
			InspectionStatusCompleted: true,
			InspectionStatusCanceled:  true,
		},
	}

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			want := allowed[from][to]
			if got := CanTransition(from, to); got != want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestTerminalStatusesHaveNoOutgoingEdges(t *testing.T) {
	for _, from := range []string{InspectionStatusCompleted, InspectionStatusRejected, InspectionStatusCanceled} {
		if !IsTerminalStatus(from) {
			t.Errorf("IsTerminalStatus(%s) = false, want true", from)
		}
		for _, to := range allStatuses {
			if CanTransition(from, to) {
				t.Errorf("Terminal status %s must not transition to %s", from, to)
			}
		}
	}
	for _, from := range []string{
		InspectionStatusProcessing,
		InspectionStatusPendingManagerReview,
		InspectionStatusApproved,
		InspectionStatusPendingConsultantVerify,
	} {
		if IsTerminalStatus(from) {
			t.Errorf("IsTerminalStatus(%s) = true, want false", from)
		}
		if !CanTransition(from, InspectionStatusCanceled) {
			t.Errorf("Active status %s must allow cancellation", from)
		}
	}
}

func TestParseInspectionStatusRejectsUnknown(t *testing.T) {
	for _, s := range allStatuses {
		if _, err := ParseInspectionStatus(s); err != nil {
			t.Errorf("ParseInspectionStatus(%s) returned error: %v", s, err)
		}
	}
	for _, s := range []string{"", "processing", "DONE", "PENDING"} {
		if _, err := ParseInspectionStatus(s); err == nil {
			t.Errorf("ParseInspectionStatus(%q) should fail", s)
		}
	}
}

func TestTransitionUpdatesStatus(t *testing.T) {
	insp := &Inspection{Status: InspectionStatusProcessing}
	if err := insp.Transition(InspectionStatusPendingManagerReview); err != nil {
		t.Fatalf("Transition failed: %v", err)
	}
	if insp.Status != InspectionStatusPendingManagerReview {
		t.Errorf("Status = %s, want %s", insp.Status, InspectionStatusPendingManagerReview)
	}
	if insp.UpdatedAt.IsZero() {
		t.Error("UpdatedAt not set after transition")
	}
}

func TestTransitionRejectsInvalidEdge(t *testing.T) {
	insp := &Inspection{Status: InspectionStatusProcessing}
	err := insp.Transition(InspectionStatusCompleted)
	if err == nil {
		t.Fatal("Expected error for PROCESSING -> COMPLETED")
	}

	var transErr *InvalidTransitionError
	if !errors.As(err, &transErr) {
		t.Fatalf("Expected InvalidTransitionError, got %T", err)
	}
	want := "Não é possível mudar inspeção de 'PROCESSING' para 'COMPLETED'"
	if transErr.Error() != want {
		t.Errorf("Error message = %q, want %q", transErr.Error(), want)
	}
	if insp.Status != InspectionStatusProcessing {
		t.Errorf("Status changed on failed transition: %s", insp.Status)
	}
}

func TestTransitionRejectsUnknownTarget(t *testing.T) {
	insp := &Inspection{Status: InspectionStatusProcessing}
	err := insp.Transition("ARCHIVED")
	if err == nil {
		t.Fatal("Expected error for unknown target status")
	}
	var transErr *InvalidTransitionError
	if errors.As(err, &transErr) {
		t.Error("Unknown status should fail parsing, not transition validation")
	}
}
