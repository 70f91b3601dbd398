package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"task-manager/backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type DashboardStatistics struct {
	TotalTasks     int64 `json:"totalTasks"`
	PendingTasks   int64 `json:"pendingTasks"`
	CompletedTasks int64 `json:"completedTasks"`
	OverdueTasks   int64 `json:"overdueTasks"`
}

type DashboardCharts struct {
	TaskDistribution  map[string]int64 `json:"taskDistribution"`
	TaskPriorityLevel map[string]int64 `json:"taskPriorityLevel"`
}

type DashboardData struct {
	Statistics  DashboardStatistics `json:"statistics"`
	Charts      DashboardCharts     `json:"charts"`
	RecentTasks []models.Task       `json:"recentTasks"`
}

// GetDashboardData aggregates statistics over all tasks (admin dashboard).
func (s *TaskService) GetDashboardData(ctx context.Context) (*DashboardData, error) {
	return s.dashboardData(ctx, bson.M{})
}

// GetUserDashboardData aggregates statistics over the caller's assigned
// tasks.
func (s *TaskService) GetUserDashboardData(ctx context.Context, userID string) (*DashboardData, error) {
	objectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format: %w", ErrValidation)
	}
	return s.dashboardData(ctx, bson.M{"assignedTo": objectID})
}

// dashboardData runs the count and $group queries for one scope. The reads
// are sequential with no transactional snapshot; dashboards are advisory.
func (s *TaskService) dashboardData(ctx context.Context, scope bson.M) (*DashboardData, error) {
	data := &DashboardData{}

	var err error
	if data.Statistics.TotalTasks, err = s.tasksCollection.CountDocuments(ctx, scope); err != nil {
		return nil, fmt.Errorf("failed to count tasks: %v", err)
	}
	if data.Statistics.PendingTasks, err = s.countScoped(ctx, scope, bson.M{"status": models.StatusPending}); err != nil {
		return nil, err
	}
	if data.Statistics.CompletedTasks, err = s.countScoped(ctx, scope, bson.M{"status": models.StatusCompleted}); err != nil {
		return nil, err
	}
	overdue := bson.M{
		"status":  bson.M{"$ne": models.StatusCompleted},
		"dueDate": bson.M{"$lt": time.Now()},
	}
	if data.Statistics.OverdueTasks, err = s.countScoped(ctx, scope, overdue); err != nil {
		return nil, err
	}

	statusCounts, err := s.groupCounts(ctx, scope, "$status")
	if err != nil {
		return nil, err
	}
	data.Charts.TaskDistribution = map[string]int64{"All": data.Statistics.TotalTasks}
	for _, status := range []models.TaskStatus{models.StatusPending, models.StatusInProgress, models.StatusCompleted} {
		key := strings.ReplaceAll(string(status), " ", "")
		data.Charts.TaskDistribution[key] = statusCounts[string(status)]
	}

	priorityCounts, err := s.groupCounts(ctx, scope, "$priority")
	if err != nil {
		return nil, err
	}
	data.Charts.TaskPriorityLevel = map[string]int64{}
	for _, priority := range []models.TaskPriority{models.PriorityLow, models.PriorityMedium, models.PriorityHigh} {
		data.Charts.TaskPriorityLevel[string(priority)] = priorityCounts[string(priority)]
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(10).
		SetProjection(bson.M{"title": 1, "status": 1, "priority": 1, "dueDate": 1, "createdAt": 1})
	cursor, err := s.tasksCollection.Find(ctx, scope, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recent tasks: %v", err)
	}
	defer cursor.Close(ctx)
	if err := cursor.All(ctx, &data.RecentTasks); err != nil {
		return nil, fmt.Errorf("failed to decode recent tasks: %v", err)
	}

	return data, nil
}

func (s *TaskService) countScoped(ctx context.Context, scope, extra bson.M) (int64, error) {
	filter := bson.M{}
	for k, v := range scope {
		filter[k] = v
	}
	for k, v := range extra {
		filter[k] = v
	}
	count, err := s.tasksCollection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count tasks: %v", err)
	}
	return count, nil
}

func (s *TaskService) groupCounts(ctx context.Context, scope bson.M, field string) (map[string]int64, error) {
	pipeline := []bson.M{}
	if len(scope) > 0 {
		pipeline = append(pipeline, bson.M{"$match": scope})
	}
	pipeline = append(pipeline, bson.M{"$group": bson.M{
		"_id":   field,
		"count": bson.M{"$sum": 1},
	}})

	cursor, err := s.tasksCollection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate tasks: %v", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID    string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode aggregation: %v", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.ID] = row.Count
	}
	return counts, nil
}
