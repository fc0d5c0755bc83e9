package entity

import (
	"testing"
	"time"
)

func TestApplyDeadlineEditBrazilianDate(t *testing.T) {
	item := &ActionPlanItem{AISuggestedDeadline: "7 dias"}
	item.ApplyDeadlineEdit("15/02/2026")

	if item.DeadlineText == nil || *item.DeadlineText != "15/02/2026" {
		t.Fatalf("DeadlineText = %v, want 15/02/2026", item.DeadlineText)
	}
	if item.DeadlineDate == nil {
		t.Fatal("DeadlineDate not set for parseable date")
	}
	want := time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)
	if !item.DeadlineDate.Equal(want) {
		t.Errorf("DeadlineDate = %v, want %v", item.DeadlineDate, want)
	}
	if got := item.DisplayDeadline(); got != "15/02/2026" {
		t.Errorf("DisplayDeadline = %q, want 15/02/2026", got)
	}
}

func TestApplyDeadlineEditISODate(t *testing.T) {
	item := &ActionPlanItem{}
	item.ApplyDeadlineEdit("2026-02-15")

	if item.DeadlineDate == nil {
		t.Fatal("DeadlineDate not set for ISO date")
	}
	want := time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)
	if !item.DeadlineDate.Equal(want) {
		t.Errorf("DeadlineDate = %v, want %v", item.DeadlineDate, want)
	}
}

func TestApplyDeadlineEditFreeText(t *testing.T) {
	item := &ActionPlanItem{AISuggestedDeadline: "30 dias"}
	item.ApplyDeadlineEdit("Imediato")

	if item.DeadlineText == nil || *item.DeadlineText != "Imediato" {
		t.Fatalf("DeadlineText = %v, want Imediato", item.DeadlineText)
	}
	if item.DeadlineDate != nil {
		t.Errorf("DeadlineDate = %v, want nil for unparseable text", item.DeadlineDate)
	}
	if got := item.DisplayDeadline(); got != "Imediato" {
		t.Errorf("DisplayDeadline = %q, want Imediato", got)
	}
}

func TestApplyDeadlineEditEqualToSuggestionIsNoOp(t *testing.T) {
	item := &ActionPlanItem{AISuggestedDeadline: "7 dias"}
	item.ApplyDeadlineEdit("7 dias")

	if item.DeadlineText != nil {
		t.Errorf("DeadlineText = %v, want nil when edit equals AI suggestion", *item.DeadlineText)
	}
	if item.DeadlineDate != nil {
		t.Errorf("DeadlineDate = %v, want nil", item.DeadlineDate)
	}
	if got := item.DisplayDeadline(); got != "7 dias" {
		t.Errorf("DisplayDeadline = %q, want 7 dias", got)
	}
}

func TestDeadlineEditsNeverTouchSuggestion(t *testing.T) {
	item := &ActionPlanItem{AISuggestedDeadline: "15 dias"}
	for _, edit := range []string{"15/02/2026", "Imediato", "2026-06-01", "após a reforma"} {
		item.ApplyDeadlineEdit(edit)
		if item.AISuggestedDeadline != "15 dias" {
			t.Fatalf("AISuggestedDeadline overwritten by edit %q: %s", edit, item.AISuggestedDeadline)
		}
	}
}

func TestDisplayDeadlinePriority(t *testing.T) {
	text := "Imediato"
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		item ActionPlanItem
		want string
	}{
		{"text wins over date and suggestion", ActionPlanItem{DeadlineText: &text, DeadlineDate: &date, AISuggestedDeadline: "7 dias"}, "Imediato"},
		{"date wins over suggestion", ActionPlanItem{DeadlineDate: &date, AISuggestedDeadline: "7 dias"}, "10/03/2026"},
		{"suggestion as fallback", ActionPlanItem{AISuggestedDeadline: "7 dias"}, "7 dias"},
		{"all empty", ActionPlanItem{}, "N/A"},
	}

	for _, tt := range tests {
		if got := tt.item.DisplayDeadline(); got != tt.want {
			t.Errorf("%s: DisplayDeadline = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestDisplayDeadlineIgnoresEmptyText(t *testing.T) {
	empty := ""
	item := ActionPlanItem{DeadlineText: &empty, AISuggestedDeadline: "7 dias"}
	if got := item.DisplayDeadline(); got != "7 dias" {
		t.Errorf("DisplayDeadline = %q, want 7 dias when override is empty", got)
	}
}

func TestParseDeadline(t *testing.T) {
	if _, ok := ParseDeadline("2026-12-01"); !ok {
		t.Error("ISO date should parse")
	}
	if _, ok := ParseDeadline("01/12/2026"); !ok {
		t.Error("Brazilian date should parse")
	}
	for _, s := range []string{"", "30 dias", "Imediato", "12/2026", "2026/12/01"} {
		if _, ok := ParseDeadline(s); ok {
			t.Errorf("ParseDeadline(%q) should not parse", s)
		}
	}
}

func TestSortItemsNilOrderIndexLast(t *testing.T) {
	one, two := 1, 2
	items := []ActionPlanItem{
		{ID: "A", OrderIndex: nil},
		{ID: "B", OrderIndex: &two},
		{ID: "C", OrderIndex: &one},
	}
	SortItems(items)

	got := []string{items[0].ID, items[1].ID, items[2].ID}
	want := []string{"C", "B", "A"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Sorted order = %v, want %v", got, want)
		}
	}
}

func TestSortItemsTieBreakByID(t *testing.T) {
	one := 1
	items := []ActionPlanItem{
		{ID: "B", OrderIndex: &one},
		{ID: "A", OrderIndex: &one},
		{ID: "D"},
		{ID: "C"},
	}
	SortItems(items)

	got := []string{items[0].ID, items[1].ID, items[2].ID, items[3].ID}
	want := []string{"A", "B", "C", "D"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Sorted order = %v, want %v", got, want)
		}
	}
}
