package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/todo-api/internal/service"
	"github.com/BuzzLyutic/todo-api/pkg/respond"
)

type ExternalHandler struct {
	service *service.ExternalService
	logger  *zap.Logger
}

func NewExternalHandler(srv *service.ExternalService, logger *zap.Logger) *ExternalHandler {
	return &ExternalHandler{
		service: srv,
		logger:  logger,
	}
}

func (h *ExternalHandler) UserData(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.UserData(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, map[string]any{"success": true, "data": res.Data, "meta": res.Meta})
}

func (h *ExternalHandler) Batch(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.Batch(r.Context(), chi.URLParam(r, "count"))
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, map[string]any{"success": true, "data": res.Data, "meta": res.Meta})
}

func (h *ExternalHandler) handleErrors(w http.ResponseWriter, r *http.Request, err error) {
	var (
		svcErr *service.Error
		upErr  *service.UpstreamError
	)
	switch {
	case errors.As(err, &svcErr):
		respond.Error(w, r, http.StatusBadRequest, svcErr.Message)
	case errors.As(err, &upErr):
		respond.ErrorWithDetail(w, r, http.StatusInternalServerError, upErr.Op, upErr.Err.Error())
	default:
		h.logger.Error("internal error", zap.Error(err))
		respond.Error(w, r, http.StatusInternalServerError, "internal server error")
	}
}
