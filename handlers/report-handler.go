package handlers

import (
	"fmt"
	"net/http"
	"time"

	"task-manager/backend/logging"
	"task-manager/backend/services"
	"task-manager/backend/utils"

	"github.com/xuri/excelize/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	ReportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{ReportService: reportService}
}

func (h *ReportHandler) ExportTasks(w http.ResponseWriter, r *http.Request) {
	f, err := h.ReportService.TasksReport(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeWorkbook(w, f, "tasks_report")
}

func (h *ReportHandler) ExportUsers(w http.ResponseWriter, r *http.Request) {
	f, err := h.ReportService.UsersReport(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeWorkbook(w, f, "users_report")
}

func writeWorkbook(w http.ResponseWriter, f *excelize.File, prefix string) {
	defer f.Close()

	timestamp := time.Now().UTC().Format("2006-01-02T15-04-05")
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s_%s.xlsx"`, prefix, timestamp))

	if err := f.Write(w); err != nil {
		logging.Logger.Errorf("Event ID: REPORT_WRITE_FAILED, Description: Failed to stream workbook: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "Failed to generate report")
	}
}
