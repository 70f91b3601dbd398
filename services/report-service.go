package services

import (
	"context"
	"fmt"
	"strings"

	"task-manager/backend/models"

	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type ReportService struct {
	tasksCollection *mongo.Collection
	usersCollection *mongo.Collection
}

func NewReportService(tasksCollection, usersCollection *mongo.Collection) *ReportService {
	return &ReportService{
		tasksCollection: tasksCollection,
		usersCollection: usersCollection,
	}
}

// TaskReportRow is one line of the tasks worksheet.
type TaskReportRow struct {
	ID          string
	Title       string
	Description string
	Priority    string
	Status      string
	DueDate     string
	AssignedTo  string
}

// UserReportRow is one line of the users worksheet.
type UserReportRow struct {
	Name           string
	Email          string
	TotalTasks     int
	Pending        int
	InProgress     int
	Completed      int
	CompletionRate string
}

// TasksReport renders every task into an xlsx workbook.
func (s *ReportService) TasksReport(ctx context.Context) (*excelize.File, error) {
	cursor, err := s.tasksCollection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tasks: %v", err)
	}
	defer cursor.Close(ctx)

	var tasks []models.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %v", err)
	}

	users, err := s.userSummaries(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]TaskReportRow, 0, len(tasks))
	for _, task := range tasks {
		assigned := make([]string, 0, len(task.AssignedTo))
		for _, id := range task.AssignedTo {
			if user, ok := users[id.Hex()]; ok {
				assigned = append(assigned, fmt.Sprintf("%s (%s)", user.Name, user.Email))
			}
		}
		assignedTo := "Unassigned"
		if len(assigned) > 0 {
			assignedTo = strings.Join(assigned, ", ")
		}

		dueDate := "-"
		if !task.DueDate.IsZero() {
			dueDate = task.DueDate.UTC().Format("2006-01-02")
		}
		description := task.Description
		if description == "" {
			description = "-"
		}

		rows = append(rows, TaskReportRow{
			ID:          task.ID.Hex(),
			Title:       task.Title,
			Description: description,
			Priority:    string(task.Priority),
			Status:      string(task.Status),
			DueDate:     dueDate,
			AssignedTo:  assignedTo,
		})
	}

	return BuildTasksWorkbook(rows)
}

// UsersReport renders per-user task tallies into an xlsx workbook.
func (s *ReportService) UsersReport(ctx context.Context) (*excelize.File, error) {
	users, err := s.userSummaries(ctx)
	if err != nil {
		return nil, err
	}

	cursor, err := s.tasksCollection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tasks: %v", err)
	}
	defer cursor.Close(ctx)

	var tasks []models.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %v", err)
	}

	type tally struct {
		pending, inProgress, completed, total int
	}
	tallies := make(map[string]*tally, len(users))
	order := make([]string, 0, len(users))
	for id := range users {
		tallies[id] = &tally{}
		order = append(order, id)
	}
	for _, task := range tasks {
		for _, id := range task.AssignedTo {
			t, ok := tallies[id.Hex()]
			if !ok {
				continue
			}
			t.total++
			switch task.Status {
			case models.StatusPending:
				t.pending++
			case models.StatusInProgress:
				t.inProgress++
			case models.StatusCompleted:
				t.completed++
			}
		}
	}

	rows := make([]UserReportRow, 0, len(order))
	for _, id := range order {
		user := users[id]
		t := tallies[id]
		rate := "0%"
		if t.total > 0 {
			rate = fmt.Sprintf("%.1f%%", float64(t.completed)/float64(t.total)*100)
		}
		rows = append(rows, UserReportRow{
			Name:           user.Name,
			Email:          user.Email,
			TotalTasks:     t.total,
			Pending:        t.pending,
			InProgress:     t.inProgress,
			Completed:      t.completed,
			CompletionRate: rate,
		})
	}

	return BuildUsersWorkbook(rows)
}

func (s *ReportService) userSummaries(ctx context.Context) (map[string]models.UserSummary, error) {
	cursor, err := s.usersCollection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %v", err)
	}
	defer cursor.Close(ctx)

	var users []models.UserSummary
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %v", err)
	}

	byID := make(map[string]models.UserSummary, len(users))
	for _, user := range users {
		byID[user.ID.Hex()] = user
	}
	return byID, nil
}

// BuildTasksWorkbook lays out task rows under a styled header.
func BuildTasksWorkbook(rows []TaskReportRow) (*excelize.File, error) {
	headers := []string{"Task ID", "Title", "Description", "Priority", "Status", "Due Date", "Assigned To"}
	widths := []float64{25, 30, 50, 15, 20, 20, 35}

	f, sheet, err := newReportSheet("Tasks Report", headers, widths)
	if err != nil {
		return nil, err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := []interface{}{row.ID, row.Title, row.Description, row.Priority, row.Status, row.DueDate, row.AssignedTo}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// BuildUsersWorkbook lays out user rows under a styled header.
func BuildUsersWorkbook(rows []UserReportRow) (*excelize.File, error) {
	headers := []string{"User Name", "Email", "Total Tasks", "Pending", "In Progress", "Completed", "Completion Rate (%)"}
	widths := []float64{25, 35, 15, 15, 15, 15, 20}

	f, sheet, err := newReportSheet("User Task Report", headers, widths)
	if err != nil {
		return nil, err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := []interface{}{row.Name, row.Email, row.TotalTasks, row.Pending, row.InProgress, row.Completed, row.CompletionRate}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func newReportSheet(name string, headers []string, widths []float64) (*excelize.File, string, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", name); err != nil {
		return nil, "", err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"556B2F"}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, "", err
	}

	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, "", err
		}
		if err := f.SetCellValue(name, cell, header); err != nil {
			return nil, "", err
		}
		if err := f.SetCellStyle(name, cell, cell, headerStyle); err != nil {
			return nil, "", err
		}
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, "", err
		}
		if err := f.SetColWidth(name, col, col, widths[i]); err != nil {
			return nil, "", err
		}
	}

	return f, name, nil
}
