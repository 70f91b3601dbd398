package services

import (
	"testing"

	"task-manager/backend/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCanMutateTask(t *testing.T) {
	assignee := primitive.NewObjectID()
	task := &models.Task{AssignedTo: []primitive.ObjectID{assignee}}

	admin := Caller{ID: primitive.NewObjectID().Hex(), Role: models.RoleAdmin}
	assigned := Caller{ID: assignee.Hex(), Role: models.RoleUser}
	outsider := Caller{ID: primitive.NewObjectID().Hex(), Role: models.RoleUser}

	tests := []struct {
		name       string
		caller     Caller
		capability TaskCapability
		want       bool
	}{
		{"admin edits fields", admin, CapEditFields, true},
		{"admin deletes", admin, CapDelete, true},
		{"admin updates status", admin, CapUpdateStatus, true},
		{"admin updates checklist", admin, CapUpdateChecklist, true},

		{"assignee edits fields", assigned, CapEditFields, false},
		{"assignee deletes", assigned, CapDelete, false},
		{"assignee updates status", assigned, CapUpdateStatus, true},
		{"assignee updates checklist", assigned, CapUpdateChecklist, true},

		{"outsider updates status", outsider, CapUpdateStatus, false},
		{"outsider updates checklist", outsider, CapUpdateChecklist, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanMutateTask(tt.caller, tt.capability, task); got != tt.want {
				t.Errorf("CanMutateTask() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanMutateTaskUnassignedTask(t *testing.T) {
	task := &models.Task{}
	user := Caller{ID: primitive.NewObjectID().Hex(), Role: models.RoleUser}

	if CanMutateTask(user, CapUpdateStatus, task) {
		t.Error("non-admin allowed to update a task with no assignees")
	}
}
