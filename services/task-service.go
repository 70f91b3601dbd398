package services

import (
	"context"
	"fmt"
	"time"

	"task-manager/backend/logging"
	"task-manager/backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type TaskService struct {
	tasksCollection *mongo.Collection
	usersCollection *mongo.Collection
}

func NewTaskService(tasksCollection, usersCollection *mongo.Collection) *TaskService {
	return &TaskService{
		tasksCollection: tasksCollection,
		usersCollection: usersCollection,
	}
}

type CreateTaskInput struct {
	Title         string                 `json:"title"`
	Description   string                 `json:"description"`
	Priority      models.TaskPriority    `json:"priority"`
	DueDate       time.Time              `json:"dueDate"`
	AssignedTo    []string               `json:"assignedTo"`
	Attachments   []string               `json:"attachments"`
	TodoChecklist []models.ChecklistItem `json:"todoChecklist"`
}

// CreateTask inserts a new task. Progress and status are derived from the
// initial checklist.
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput, creatorID string) (*models.Task, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("title is required: %w", ErrValidation)
	}

	creator, err := primitive.ObjectIDFromHex(creatorID)
	if err != nil {
		return nil, fmt.Errorf("invalid creator ID format: %w", ErrValidation)
	}

	assignedTo, err := parseObjectIDs(input.AssignedTo)
	if err != nil {
		return nil, fmt.Errorf("assignedTo must be a list of user IDs: %w", ErrValidation)
	}

	if input.Priority == "" {
		input.Priority = models.PriorityMedium
	}
	if input.Attachments == nil {
		input.Attachments = []string{}
	}
	if input.TodoChecklist == nil {
		input.TodoChecklist = []models.ChecklistItem{}
	}

	now := time.Now()
	task := models.Task{
		Title:       input.Title,
		Description: input.Description,
		Priority:    input.Priority,
		Status:      models.StatusPending,
		DueDate:     input.DueDate,
		AssignedTo:  assignedTo,
		Attachments: input.Attachments,
		CreatedBy:   creator,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	task.ApplyChecklist(input.TodoChecklist)

	result, err := s.tasksCollection.InsertOne(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %v", err)
	}
	task.ID = result.InsertedID.(primitive.ObjectID)

	logging.Logger.Infof("Event ID: TASK_CREATED, Description: Task %s created by %s", task.ID.Hex(), creatorID)
	return &task, nil
}

// TaskWithDetails is a task response enriched with the completed item
// count and assignee projections.
type TaskWithDetails struct {
	models.Task
	CompletedCount int                  `json:"completedCount"`
	Assignees      []models.UserSummary `json:"assignees,omitempty"`
}

type StatusSummary struct {
	All             int64 `json:"all"`
	PendingTasks    int64 `json:"pendingTasks"`
	InProgressTasks int64 `json:"inProgressTasks"`
	CompletedTasks  int64 `json:"completedTasks"`
}

type TaskList struct {
	Tasks         []TaskWithDetails `json:"tasks"`
	StatusSummary StatusSummary     `json:"statusSummary"`
}

// GetTasks lists the tasks visible to the caller, optionally filtered by
// status, with per-status summary counts. Admins see every task, other
// callers only their assignments.
func (s *TaskService) GetTasks(ctx context.Context, caller Caller, statusFilter string) (*TaskList, error) {
	scope := bson.M{}
	if caller.Role != models.RoleAdmin {
		callerID, err := primitive.ObjectIDFromHex(caller.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid user ID format: %w", ErrValidation)
		}
		scope["assignedTo"] = callerID
	}

	filter := bson.M{}
	for k, v := range scope {
		filter[k] = v
	}
	if statusFilter != "" {
		filter["status"] = statusFilter
	}

	cursor, err := s.tasksCollection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve tasks: %v", err)
	}
	defer cursor.Close(ctx)

	var tasks []models.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %v", err)
	}

	list := &TaskList{Tasks: make([]TaskWithDetails, 0, len(tasks))}
	for i := range tasks {
		detail, err := s.withDetails(ctx, &tasks[i])
		if err != nil {
			return nil, err
		}
		list.Tasks = append(list.Tasks, *detail)
	}

	for status, target := range map[models.TaskStatus]*int64{
		models.StatusPending:    &list.StatusSummary.PendingTasks,
		models.StatusInProgress: &list.StatusSummary.InProgressTasks,
		models.StatusCompleted:  &list.StatusSummary.CompletedTasks,
	} {
		countFilter := bson.M{"status": status}
		for k, v := range scope {
			countFilter[k] = v
		}
		count, err := s.tasksCollection.CountDocuments(ctx, countFilter)
		if err != nil {
			return nil, fmt.Errorf("failed to count tasks: %v", err)
		}
		*target = count
	}
	all, err := s.tasksCollection.CountDocuments(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %v", err)
	}
	list.StatusSummary.All = all

	return list, nil
}

// GetTaskByID returns one task with assignee details.
func (s *TaskService) GetTaskByID(ctx context.Context, taskID string) (*TaskWithDetails, error) {
	task, err := s.findTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return s.withDetails(ctx, task)
}

type UpdateTaskInput struct {
	Title         *string                 `json:"title"`
	Description   *string                 `json:"description"`
	Priority      *models.TaskPriority    `json:"priority"`
	DueDate       *time.Time              `json:"dueDate"`
	AssignedTo    *[]string               `json:"assignedTo"`
	Attachments   *[]string               `json:"attachments"`
	TodoChecklist *[]models.ChecklistItem `json:"todoChecklist"`
}

// UpdateTask applies a full field update, admin only. Replacing the
// checklist recomputes progress and status.
func (s *TaskService) UpdateTask(ctx context.Context, caller Caller, taskID string, input UpdateTaskInput) (*TaskWithDetails, error) {
	task, err := s.findTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !CanMutateTask(caller, CapEditFields, task) {
		return nil, fmt.Errorf("only an admin can edit task fields: %w", ErrUnauthorized)
	}

	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}
	if input.DueDate != nil {
		task.DueDate = *input.DueDate
	}
	if input.Attachments != nil {
		task.Attachments = *input.Attachments
	}
	if input.AssignedTo != nil {
		assignedTo, err := parseObjectIDs(*input.AssignedTo)
		if err != nil {
			return nil, fmt.Errorf("assignedTo must be a list of user IDs: %w", ErrValidation)
		}
		task.AssignedTo = assignedTo
	}
	if input.TodoChecklist != nil {
		task.ApplyChecklist(*input.TodoChecklist)
	}

	if err := s.saveTask(ctx, task); err != nil {
		return nil, err
	}
	return s.withDetails(ctx, task)
}

// UpdateTaskStatus sets the status directly; admins and assignees only.
// Setting Completed cascades completion onto every checklist item.
func (s *TaskService) UpdateTaskStatus(ctx context.Context, caller Caller, taskID string, status models.TaskStatus) (*TaskWithDetails, error) {
	task, err := s.findTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !CanMutateTask(caller, CapUpdateStatus, task) {
		return nil, fmt.Errorf("only an admin or an assignee can change the task status: %w", ErrUnauthorized)
	}

	switch status {
	case models.StatusPending, models.StatusInProgress, models.StatusCompleted:
	default:
		return nil, fmt.Errorf("unknown task status %q: %w", status, ErrValidation)
	}

	task.SetStatus(status)
	if err := s.saveTask(ctx, task); err != nil {
		return nil, err
	}
	return s.withDetails(ctx, task)
}

// UpdateTaskChecklist replaces the checklist and recomputes progress and
// status; admins and assignees only.
func (s *TaskService) UpdateTaskChecklist(ctx context.Context, caller Caller, taskID string, checklist []models.ChecklistItem) (*TaskWithDetails, error) {
	task, err := s.findTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !CanMutateTask(caller, CapUpdateChecklist, task) {
		return nil, fmt.Errorf("only an admin or an assignee can update the checklist: %w", ErrUnauthorized)
	}

	if checklist == nil {
		checklist = []models.ChecklistItem{}
	}
	task.ApplyChecklist(checklist)
	if err := s.saveTask(ctx, task); err != nil {
		return nil, err
	}
	return s.withDetails(ctx, task)
}

// DeleteTask removes a task, admin only.
func (s *TaskService) DeleteTask(ctx context.Context, caller Caller, taskID string) error {
	task, err := s.findTask(ctx, taskID)
	if err != nil {
		return err
	}
	if !CanMutateTask(caller, CapDelete, task) {
		return fmt.Errorf("only an admin can delete a task: %w", ErrUnauthorized)
	}

	if _, err := s.tasksCollection.DeleteOne(ctx, bson.M{"_id": task.ID}); err != nil {
		return fmt.Errorf("failed to delete task: %v", err)
	}

	logging.Logger.Infof("Event ID: TASK_DELETED, Description: Task %s deleted by %s", taskID, caller.ID)
	return nil
}

func (s *TaskService) findTask(ctx context.Context, taskID string) (*models.Task, error) {
	objectID, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return nil, fmt.Errorf("invalid task ID format: %w", ErrValidation)
	}

	var task models.Task
	if err := s.tasksCollection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&task); err != nil {
		return nil, fmt.Errorf("task not found: %w", ErrNotFound)
	}
	return &task, nil
}

// saveTask writes the full mutable state back. Last writer wins, there is
// no version token on the document.
func (s *TaskService) saveTask(ctx context.Context, task *models.Task) error {
	task.UpdatedAt = time.Now()
	update := bson.M{"$set": bson.M{
		"title":         task.Title,
		"description":   task.Description,
		"priority":      task.Priority,
		"status":        task.Status,
		"dueDate":       task.DueDate,
		"assignedTo":    task.AssignedTo,
		"attachments":   task.Attachments,
		"todoChecklist": task.TodoChecklist,
		"progress":      task.Progress,
		"updatedAt":     task.UpdatedAt,
	}}

	result, err := s.tasksCollection.UpdateOne(ctx, bson.M{"_id": task.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update task: %v", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("task not found: %w", ErrNotFound)
	}
	return nil
}

func (s *TaskService) withDetails(ctx context.Context, task *models.Task) (*TaskWithDetails, error) {
	detail := &TaskWithDetails{Task: *task, CompletedCount: task.CompletedCount()}
	if len(task.AssignedTo) == 0 {
		return detail, nil
	}

	cursor, err := s.usersCollection.Find(ctx, bson.M{"_id": bson.M{"$in": task.AssignedTo}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch assignees: %v", err)
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, &detail.Assignees); err != nil {
		return nil, fmt.Errorf("failed to decode assignees: %v", err)
	}
	return detail, nil
}

func parseObjectIDs(ids []string) ([]primitive.ObjectID, error) {
	parsed := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		objectID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, objectID)
	}
	return parsed, nil
}
