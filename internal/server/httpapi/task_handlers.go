package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/gorilla/mux"
)

type createTaskRequest struct {
	Name      *string `json:"name"`
	Completed *bool   `json:"completed"`
}

// GET /tasks
func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	tasks, err := s.tasks.List(r.Context(), claims.UserID())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

// POST /tasks
func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	var in createTaskRequest
	if err := decodeStrictJSON(w, r, &in); err != nil {
		var typeErr *json.UnmarshalTypeError
		if field, ok := unknownField(err); ok {
			writeMessage(w, http.StatusBadRequest, field+" is not allowed")
			return
		}
		switch {
		case errors.As(err, &typeErr) && typeErr.Field == "completed":
			writeMessage(w, http.StatusBadRequest, `"completed" must be a boolean`)
		case errors.As(err, &typeErr) && typeErr.Field == "name":
			writeMessage(w, http.StatusBadRequest, `"name" must be a string`)
		default:
			writeMessage(w, http.StatusBadRequest, msgInvalidJSON)
		}
		return
	}
	if in.Name == nil {
		writeMessage(w, http.StatusBadRequest, `"name" is required`)
		return
	}

	completed := in.Completed != nil && *in.Completed
	task, err := s.tasks.Create(r.Context(), claims.UserID(), *in.Name, completed)
	if err != nil {
		if errors.Is(err, common.ErrorValidation) {
			writeMessage(w, http.StatusBadRequest, `"name" length must be at least 3 characters long`)
			return
		}
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

// DELETE /tasks/{id}
func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	err := s.tasks.Delete(r.Context(), claims.UserID(), mux.Vars(r)["id"])
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeMessage(w, http.StatusNotFound, msgTaskNotFound)
			return
		}
		s.writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Task deleted")
}

// GET /admin/tasks (admin only)
func (s *Server) handleListAllTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.tasks.ListAll(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}
