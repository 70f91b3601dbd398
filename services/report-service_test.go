package services

import (
	"testing"
)

func TestBuildTasksWorkbook(t *testing.T) {
	rows := []TaskReportRow{
		{
			ID:          "64f1c0ffee0000000000abcd",
			Title:       "Fix the sink",
			Description: "Kitchen sink is leaking",
			Priority:    "High",
			Status:      "In Progress",
			DueDate:     "2026-09-15",
			AssignedTo:  "Ana (ana@example.com), Bob (bob@example.com)",
		},
		{
			ID:          "64f1c0ffee0000000000abce",
			Title:       "Paint the fence",
			Description: "-",
			Priority:    "Low",
			Status:      "Pending",
			DueDate:     "-",
			AssignedTo:  "Unassigned",
		},
	}

	f, err := BuildTasksWorkbook(rows)
	if err != nil {
		t.Fatalf("BuildTasksWorkbook() error = %v", err)
	}
	defer f.Close()

	const sheet = "Tasks Report"
	for cell, want := range map[string]string{
		"A1": "Task ID",
		"G1": "Assigned To",
		"B2": "Fix the sink",
		"E2": "In Progress",
		"G2": "Ana (ana@example.com), Bob (bob@example.com)",
		"B3": "Paint the fence",
		"G3": "Unassigned",
	} {
		got, err := f.GetCellValue(sheet, cell)
		if err != nil {
			t.Fatalf("GetCellValue(%s) error = %v", cell, err)
		}
		if got != want {
			t.Errorf("cell %s = %q, want %q", cell, got, want)
		}
	}
}

func TestBuildUsersWorkbook(t *testing.T) {
	rows := []UserReportRow{
		{Name: "Ana", Email: "ana@example.com", TotalTasks: 4, Pending: 1, InProgress: 1, Completed: 2, CompletionRate: "50.0%"},
		{Name: "Bob", Email: "bob@example.com", CompletionRate: "0%"},
	}

	f, err := BuildUsersWorkbook(rows)
	if err != nil {
		t.Fatalf("BuildUsersWorkbook() error = %v", err)
	}
	defer f.Close()

	const sheet = "User Task Report"
	for cell, want := range map[string]string{
		"A1": "User Name",
		"G1": "Completion Rate (%)",
		"A2": "Ana",
		"C2": "4",
		"G2": "50.0%",
		"A3": "Bob",
		"C3": "0",
		"G3": "0%",
	} {
		got, err := f.GetCellValue(sheet, cell)
		if err != nil {
			t.Fatalf("GetCellValue(%s) error = %v", cell, err)
		}
		if got != want {
			t.Errorf("cell %s = %q, want %q", cell, got, want)
		}
	}
}
