package handlers

import (
	"encoding/json"
	"net/http"

	"task-manager/backend/middleware"
	"task-manager/backend/models"
	"task-manager/backend/services"
	"task-manager/backend/utils"

	"github.com/gorilla/mux"
)

type TaskHandler struct {
	TaskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{TaskService: taskService}
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "User not authorized")
		return
	}

	var input services.CreateTaskInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	task, err := h.TaskService.CreateTask(r.Context(), input, caller.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Task created successfully",
		"task":    task,
	})
}

func (h *TaskHandler) GetTasks(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "User not authorized")
		return
	}

	list, err := h.TaskService.GetTasks(r.Context(), caller, r.URL.Query().Get("status"))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, list)
}

func (h *TaskHandler) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	task, err := h.TaskService.GetTaskByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "User not authorized")
		return
	}

	var input services.UpdateTaskInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	task, err := h.TaskService.UpdateTask(r.Context(), caller, mux.Vars(r)["id"], input)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Task updated successfully",
		"task":    task,
	})
}

func (h *TaskHandler) UpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "User not authorized")
		return
	}

	var input struct {
		Status models.TaskStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	task, err := h.TaskService.UpdateTaskStatus(r.Context(), caller, mux.Vars(r)["id"], input.Status)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Task status updated",
		"task":    task,
	})
}

func (h *TaskHandler) UpdateTaskChecklist(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "User not authorized")
		return
	}

	var input struct {
		TodoChecklist []models.ChecklistItem `json:"todoChecklist"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	task, err := h.TaskService.UpdateTaskChecklist(r.Context(), caller, mux.Vars(r)["id"], input.TodoChecklist)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Task checklist updated",
		"task":    task,
	})
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "User not authorized")
		return
	}

	if err := h.TaskService.DeleteTask(r.Context(), caller, mux.Vars(r)["id"]); err != nil {
		respondServiceError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Task deleted successfully",
	})
}

func (h *TaskHandler) DashboardData(w http.ResponseWriter, r *http.Request) {
	data, err := h.TaskService.GetDashboardData(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, data)
}

func (h *TaskHandler) UserDashboardData(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "User not authorized")
		return
	}

	data, err := h.TaskService.GetUserDashboardData(r.Context(), caller.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, data)
}
