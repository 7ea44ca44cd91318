package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/todo-api/internal/model"
	"github.com/BuzzLyutic/todo-api/internal/repo"
	"github.com/BuzzLyutic/todo-api/internal/service"
	"github.com/BuzzLyutic/todo-api/pkg/respond"
)

type TodoHandler struct {
	service *service.TodoService
	logger  *zap.Logger
}

func NewTodoHandler(srv *service.TodoService, logger *zap.Logger) *TodoHandler {
	return &TodoHandler{
		service: srv,
		logger:  logger,
	}
}

func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.List(r.Context(), parseQuery(r))
	if err != nil {
		h.handleErrors(w, r, err, "Not found")
		return
	}

	if res.Grouped != nil {
		respond.JSON(w, r, http.StatusOK, res.Grouped)
		return
	}
	respond.JSON(w, r, http.StatusOK, res.Page)
}

func (h *TodoHandler) Get(w http.ResponseWriter, r *http.Request) {
	todo, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleErrors(w, r, err, "Not found")
		return
	}
	respond.JSON(w, r, http.StatusOK, map[string]any{"todo": todo})
}

func (h *TodoHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.handleErrors(w, r, err, "Not found")
		return
	}
	respond.JSON(w, r, http.StatusOK, map[string]any{"stats": stats})
}

func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.TodoInput
	if err := decodeBody(r, &req); err != nil {
		h.logger.Debug("failed to decode json", zap.Error(err))
		respond.Error(w, r, http.StatusBadRequest, "invalid json")
		return
	}

	todo, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.handleErrors(w, r, err, "Not found")
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/todos/%s", todo.ID))
	respond.JSON(w, r, http.StatusCreated, map[string]any{"success": true, "todo": todo})
}

func (h *TodoHandler) Replace(w http.ResponseWriter, r *http.Request) {
	var req model.TodoInput
	if err := decodeBody(r, &req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "invalid json")
		return
	}

	todo, err := h.service.Replace(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.handleErrors(w, r, err, "Not Found")
		return
	}
	respond.JSON(w, r, http.StatusOK, map[string]any{"success": true, "todo": todo})
}

func (h *TodoHandler) Patch(w http.ResponseWriter, r *http.Request) {
	var req model.TodoPatch
	if err := decodeBody(r, &req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "invalid json")
		return
	}

	todo, err := h.service.Patch(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.handleErrors(w, r, err, "Not Found")
		return
	}
	respond.JSON(w, r, http.StatusOK, map[string]any{"success": true, "todo": todo})
}

func (h *TodoHandler) handleErrors(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	var svcErr *service.Error
	switch {
	case errors.Is(err, repo.ErrorNotFound):
		respond.Error(w, r, http.StatusNotFound, notFound)
	case errors.As(err, &svcErr):
		respond.Error(w, r, http.StatusBadRequest, svcErr.Message)
	default:
		h.logger.Error("internal error", zap.Error(err))
		respond.Error(w, r, http.StatusInternalServerError, "internal server error")
	}
}

// decodeBody treats an empty body as an empty object.
func decodeBody(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func parseQuery(r *http.Request) model.Query {
	v := r.URL.Query()
	page, _ := strconv.Atoi(v.Get("page"))
	limit, _ := strconv.Atoi(v.Get("limit"))

	return model.Query{
		Search:    v.Get("search"),
		Status:    model.Status(v.Get("status")),
		Priority:  model.Priority(v.Get("priority")),
		GroupBy:   v.Get("groupBy"),
		SortBy:    v.Get("sortBy"),
		SortOrder: model.SortOrder(v.Get("sortOrder")),
		Page:      page,
		Limit:     limit,
	}
}
