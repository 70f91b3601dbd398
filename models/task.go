package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskStatus string

const (
	StatusPending    TaskStatus = "Pending"
	StatusInProgress TaskStatus = "In Progress"
	StatusCompleted  TaskStatus = "Completed"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "Low"
	PriorityMedium TaskPriority = "Medium"
	PriorityHigh   TaskPriority = "High"
)

type ChecklistItem struct {
	Text      string `bson:"text" json:"text"`
	Completed bool   `bson:"completed" json:"completed"`
}

type Task struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title         string               `bson:"title" json:"title"`
	Description   string               `bson:"description" json:"description"`
	Priority      TaskPriority         `bson:"priority" json:"priority"`
	Status        TaskStatus           `bson:"status" json:"status"`
	DueDate       time.Time            `bson:"dueDate" json:"dueDate"`
	AssignedTo    []primitive.ObjectID `bson:"assignedTo" json:"assignedTo"`
	Attachments   []string             `bson:"attachments" json:"attachments"`
	TodoChecklist []ChecklistItem      `bson:"todoChecklist" json:"todoChecklist"`
	Progress      int                  `bson:"progress" json:"progress"`
	CreatedBy     primitive.ObjectID   `bson:"createdBy" json:"createdBy"`
	CreatedAt     time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// CompletedCount returns the number of finished checklist items.
func (t *Task) CompletedCount() int {
	count := 0
	for _, item := range t.TodoChecklist {
		if item.Completed {
			count++
		}
	}
	return count
}

// IsAssignedTo reports whether the given user appears in the assignment
// list. Both sides are compared as ObjectID hex strings so that a caller ID
// taken from a token matches a stored reference.
func (t *Task) IsAssignedTo(userID string) bool {
	for _, id := range t.AssignedTo {
		if id.Hex() == userID {
			return true
		}
	}
	return false
}
