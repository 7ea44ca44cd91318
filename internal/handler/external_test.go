package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/todo-api/internal/service"
	"github.com/BuzzLyutic/todo-api/internal/upstream"
	"github.com/BuzzLyutic/todo-api/internal/worker"
)

// failingAPI отказывает на запросе постов
type failingAPI struct {
	*upstream.Mock
}

func (failingAPI) GetUserPosts(context.Context, int) ([]upstream.Post, error) {
	return nil, errors.New("posts backend timeout")
}

func setupExternalHandler(api upstream.API) *ExternalHandler {
	svc := service.NewExternalService(api, worker.NewPool(zap.NewNop(), 0), zap.NewNop())
	return NewExternalHandler(svc, zap.NewNop())
}

func TestExternalHandler_UserData(t *testing.T) {
	tests := []struct {
		name     string
		api      upstream.API
		userID   string
		wantCode int
		wantBody map[string]string
	}{
		{name: "ok", api: upstream.NewMock(upstream.WithLatency(0, 0)), userID: "1", wantCode: http.StatusOK},
		{name: "invalid id", api: upstream.NewMock(), userID: "abc", wantCode: http.StatusBadRequest, wantBody: map[string]string{"error": "Invalid user ID"}},
		{
			name:     "upstream failure",
			api:      failingAPI{upstream.NewMock(upstream.WithLatency(0, 0))},
			userID:   "1",
			wantCode: http.StatusInternalServerError,
			wantBody: map[string]string{"error": "Failed to fetch external data", "message": "posts: posts backend timeout"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := setupExternalHandler(tt.api)
			req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/todos/external/user-data/"+tt.userID, nil), "userId", tt.userID)
			w := httptest.NewRecorder()
			h.UserData(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantBody != nil {
				var got map[string]string
				require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
				assert.Equal(t, tt.wantBody, got)
				return
			}

			var got struct {
				Success bool                 `json:"success"`
				Data    service.UserData     `json:"data"`
				Meta    service.UserDataMeta `json:"meta"`
			}
			require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
			assert.True(t, got.Success)
			assert.Equal(t, 1, got.Data.User.ID)
			assert.Len(t, got.Data.Posts, 5)
			assert.Len(t, got.Data.FirstPostComments, 3)
			assert.Equal(t, 3, got.Meta.ParallelRequests)
			assert.Equal(t, 1, got.Meta.SequentialRequests)
		})
	}
}

func TestExternalHandler_Batch(t *testing.T) {
	h := setupExternalHandler(upstream.NewMock(upstream.WithLatency(0, 0)))

	t.Run("too many", func(t *testing.T) {
		req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/todos/external/batch/25", nil), "count", "25")
		w := httptest.NewRecorder()
		h.Batch(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var got map[string]string
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		assert.Equal(t, "Maximum 20 requests allowed", got["error"])
	})

	t.Run("default count", func(t *testing.T) {
		req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/todos/external/batch/invalid", nil), "count", "invalid")
		w := httptest.NewRecorder()
		h.Batch(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var got struct {
			Data service.BatchData `json:"data"`
			Meta service.BatchMeta `json:"meta"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		assert.Equal(t, 10, got.Meta.TotalRequests)
		for i := range got.Data.Users {
			assert.Equal(t, got.Data.Users[i].ID, got.Data.PostsByUser[i].UserID)
		}
	})
}
