package models

import "math"

// ChecklistProgress returns the completion percentage for a checklist,
// rounded half up. An empty checklist yields 0; callers that replace a
// checklist with an empty one keep the task's prior status (see
// ApplyChecklist).
func ChecklistProgress(items []ChecklistItem) int {
	total := len(items)
	if total == 0 {
		return 0
	}
	completed := 0
	for _, item := range items {
		if item.Completed {
			completed++
		}
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// StatusForProgress maps a progress percentage to a task status.
func StatusForProgress(progress int) TaskStatus {
	switch {
	case progress == 100:
		return StatusCompleted
	case progress > 0:
		return StatusInProgress
	default:
		return StatusPending
	}
}

// ApplyChecklist replaces the task's checklist and recomputes progress and
// status from it. With an empty checklist progress drops to 0 but the
// existing status stands, since there is nothing to derive it from.
func (t *Task) ApplyChecklist(items []ChecklistItem) {
	t.TodoChecklist = items
	t.Progress = ChecklistProgress(items)
	if len(items) > 0 {
		t.Status = StatusForProgress(t.Progress)
	}
}

// SetStatus updates the task status directly. Setting Completed also marks
// every checklist item as done and raises progress to 100; completing the
// checklist item by item reaches the same state through ApplyChecklist.
func (t *Task) SetStatus(status TaskStatus) {
	t.Status = status
	if status != StatusCompleted {
		return
	}
	for i := range t.TodoChecklist {
		t.TodoChecklist[i].Completed = true
	}
	t.Progress = 100
}
