package api

import (
	"net/http"

	"github.com/phrazzld/tasks-api/internal/api/middleware"
	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/phrazzld/tasks-api/internal/service"
)

// TaskHandler serves the /tasks endpoints. Every route must sit behind
// AuthMiddleware.Authenticate.
type TaskHandler struct {
	tasks service.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(tasks service.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// callerID returns the authenticated user, writing a 401 when there is none.
func callerID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondUnauthorized(w, r, shared.MsgNotAuthenticated, "", nil)
		return 0, false
	}
	return userID, true
}

// ListTasks handles GET /tasks.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	page, err := h.tasks.ListTasks(r.Context(), userID, getTaskListParams(r))
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasksToListResponse(page.Count, page.Tasks))
}

// CreateTask handles POST /tasks.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	obj, err := shared.DecodeObject(w, r)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	changes, err := decodeTaskChanges(obj, true)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	task, err := h.tasks.CreateTask(r.Context(), userID, changes)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, taskToCreateResponse(task))
}

// GetTask handles GET /tasks/{id}.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	taskID, ok := getPathID(r, TaskIDParam)
	if !ok {
		shared.RespondWithError(w, r, http.StatusNotFound, MsgNotFound)
		return
	}

	task, err := h.tasks.GetTask(r.Context(), userID, taskID)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToDetailResponse(task))
}

// PatchTask handles PATCH /tasks/{id}: only the supplied fields change.
func (h *TaskHandler) PatchTask(w http.ResponseWriter, r *http.Request) {
	h.updateTask(w, r, false)
}

// ReplaceTask handles PUT /tasks/{id}: a full update that requires a title.
func (h *TaskHandler) ReplaceTask(w http.ResponseWriter, r *http.Request) {
	h.updateTask(w, r, true)
}

func (h *TaskHandler) updateTask(w http.ResponseWriter, r *http.Request, requireTitle bool) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	taskID, ok := getPathID(r, TaskIDParam)
	if !ok {
		shared.RespondWithError(w, r, http.StatusNotFound, MsgNotFound)
		return
	}

	obj, err := shared.DecodeObject(w, r)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	changes, err := decodeTaskChanges(obj, requireTitle)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	task, err := h.tasks.UpdateTask(r.Context(), userID, taskID, changes, requireTitle)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToDetailResponse(task))
}

// DeleteTask handles DELETE /tasks/{id}.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	taskID, ok := getPathID(r, TaskIDParam)
	if !ok {
		shared.RespondWithError(w, r, http.StatusNotFound, MsgNotFound)
		return
	}

	if err := h.tasks.DeleteTask(r.Context(), userID, taskID); err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithNoContent(w)
}
