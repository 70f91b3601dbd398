package models

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func checklist(completed ...bool) []ChecklistItem {
	items := make([]ChecklistItem, len(completed))
	for i, done := range completed {
		items[i] = ChecklistItem{Text: "item", Completed: done}
	}
	return items
}

func TestChecklistProgress(t *testing.T) {
	tests := []struct {
		name  string
		items []ChecklistItem
		want  int
	}{
		{"empty", nil, 0},
		{"none completed", checklist(false, false), 0},
		{"all completed", checklist(true, true, true), 100},
		{"two of three rounds up", checklist(true, false, true), 67},
		{"one of three", checklist(true, false, false), 33},
		{"one of two", checklist(true, false), 50},
		{"one of eight rounds half up", checklist(true, false, false, false, false, false, false, false), 13},
		{"five of six", checklist(true, true, true, true, true, false), 83},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ChecklistProgress(tt.items); got != tt.want {
				t.Errorf("ChecklistProgress() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestStatusForProgress(t *testing.T) {
	tests := []struct {
		progress int
		want     TaskStatus
	}{
		{0, StatusPending},
		{1, StatusInProgress},
		{67, StatusInProgress},
		{99, StatusInProgress},
		{100, StatusCompleted},
	}

	for _, tt := range tests {
		if got := StatusForProgress(tt.progress); got != tt.want {
			t.Errorf("StatusForProgress(%d) = %q, want %q", tt.progress, got, tt.want)
		}
	}
}

func TestApplyChecklist(t *testing.T) {
	task := Task{Status: StatusPending}

	task.ApplyChecklist(checklist(true, false, true))
	if task.Progress != 67 {
		t.Errorf("progress = %d, want 67", task.Progress)
	}
	if task.Status != StatusInProgress {
		t.Errorf("status = %q, want %q", task.Status, StatusInProgress)
	}

	task.ApplyChecklist(checklist(true, true, true))
	if task.Progress != 100 || task.Status != StatusCompleted {
		t.Errorf("progress/status = %d/%q, want 100/%q", task.Progress, task.Status, StatusCompleted)
	}

	task.ApplyChecklist(checklist(false, false))
	if task.Progress != 0 || task.Status != StatusPending {
		t.Errorf("progress/status = %d/%q, want 0/%q", task.Progress, task.Status, StatusPending)
	}
}

func TestApplyChecklistEmptyKeepsStatus(t *testing.T) {
	task := Task{Status: StatusInProgress, Progress: 50, TodoChecklist: checklist(true, false)}

	task.ApplyChecklist(nil)
	if task.Progress != 0 {
		t.Errorf("progress = %d, want 0", task.Progress)
	}
	if task.Status != StatusInProgress {
		t.Errorf("status = %q, want it unchanged (%q)", task.Status, StatusInProgress)
	}
}

func TestApplyChecklistIdempotent(t *testing.T) {
	task := Task{Status: StatusPending}
	items := checklist(true, false, true)

	task.ApplyChecklist(items)
	firstProgress, firstStatus := task.Progress, task.Status
	task.ApplyChecklist(items)

	if task.Progress != firstProgress || task.Status != firstStatus {
		t.Errorf("second apply changed state: %d/%q vs %d/%q", task.Progress, task.Status, firstProgress, firstStatus)
	}
}

func TestSetStatusCompletedCascades(t *testing.T) {
	task := Task{
		Status:        StatusInProgress,
		Progress:      33,
		TodoChecklist: checklist(true, false, false),
	}

	task.SetStatus(StatusCompleted)

	if task.Progress != 100 {
		t.Errorf("progress = %d, want 100", task.Progress)
	}
	for i, item := range task.TodoChecklist {
		if !item.Completed {
			t.Errorf("checklist item %d not completed after SetStatus(Completed)", i)
		}
	}

	// A subsequent derivation from the cascaded checklist agrees.
	if got := ChecklistProgress(task.TodoChecklist); got != 100 {
		t.Errorf("ChecklistProgress after cascade = %d, want 100", got)
	}
}

func TestSetStatusNonCompletedLeavesChecklist(t *testing.T) {
	task := Task{
		Status:        StatusPending,
		Progress:      33,
		TodoChecklist: checklist(true, false, false),
	}

	task.SetStatus(StatusInProgress)

	if task.Status != StatusInProgress {
		t.Errorf("status = %q, want %q", task.Status, StatusInProgress)
	}
	if task.Progress != 33 {
		t.Errorf("progress = %d, want 33", task.Progress)
	}
	if task.TodoChecklist[1].Completed || task.TodoChecklist[2].Completed {
		t.Error("checklist mutated by a non-Completed status change")
	}
}

func TestIsAssignedTo(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()
	outsider := primitive.NewObjectID()
	task := Task{AssignedTo: []primitive.ObjectID{a, b}}

	if !task.IsAssignedTo(a.Hex()) {
		t.Error("assignee not recognized by hex ID")
	}
	if task.IsAssignedTo(outsider.Hex()) {
		t.Error("non-assignee recognized")
	}
	if task.IsAssignedTo("") {
		t.Error("empty ID recognized")
	}
}
