package services

import "task-manager/backend/models"

// Caller is the verified identity a request acts under.
type Caller struct {
	ID   string
	Role string
}

// TaskCapability names one kind of task mutation.
type TaskCapability int

const (
	CapEditFields TaskCapability = iota
	CapUpdateStatus
	CapUpdateChecklist
	CapDelete
)

// taskPolicy is the single source of truth for who may mutate a task:
// which roles always hold a capability, and whether assignees hold it too.
var taskPolicy = map[TaskCapability]struct {
	roles    map[string]bool
	assignee bool
}{
	CapEditFields:      {roles: map[string]bool{models.RoleAdmin: true}},
	CapDelete:          {roles: map[string]bool{models.RoleAdmin: true}},
	CapUpdateStatus:    {roles: map[string]bool{models.RoleAdmin: true}, assignee: true},
	CapUpdateChecklist: {roles: map[string]bool{models.RoleAdmin: true}, assignee: true},
}

// CanMutateTask decides whether the caller may perform the given mutation
// on the task. Assignee membership is compared by ObjectID hex value.
func CanMutateTask(caller Caller, capability TaskCapability, task *models.Task) bool {
	policy, ok := taskPolicy[capability]
	if !ok {
		return false
	}
	if policy.roles[caller.Role] {
		return true
	}
	return policy.assignee && task.IsAssignedTo(caller.ID)
}
