package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/futig/coursechat-backend/internal/entity"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChatUsecase struct {
	resp *entity.ChatResponse
	err  error

	got *entity.ChatRequest
}

func (s *stubChatUsecase) ProcessTurn(_ context.Context, req *entity.ChatRequest) (*entity.ChatResponse, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

func newTestRouter(uc ChatUsecase) http.Handler {
	r := chi.NewRouter()
	RegisterRoutes(r, NewHandler(uc))
	return r
}

func TestProcessChatSuccess(t *testing.T) {
	t.Parallel()

	uc := &stubChatUsecase{
		resp: &entity.ChatResponse{
			Response:      "Сначала прочитай методичку.",
			UsedMaterials: []entity.Material{{ID: 1, Title: "lab1", Content: "A", Type: "txt"}},
		},
	}
	router := newTestRouter(uc)

	body := `{
		"message": "Как сдать первую лабораторную?",
		"history": [{"role": "user", "content": "Привет"}],
		"materials": [{"id": 1, "title": "lab1", "content": "A", "type": "txt"}],
		"usedMaterials": []
	}`
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp entity.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Сначала прочитай методичку.", resp.Response)
	require.Len(t, resp.UsedMaterials, 1)
	assert.Equal(t, "lab1", resp.UsedMaterials[0].Title)

	require.NotNil(t, uc.got)
	assert.Equal(t, "Как сдать первую лабораторную?", uc.got.Message)
	assert.Len(t, uc.got.History, 1)
	assert.Len(t, uc.got.Materials, 1)
}

func TestProcessChatEmptyUsedMaterialsStaysArray(t *testing.T) {
	t.Parallel()

	uc := &stubChatUsecase{
		resp: &entity.ChatResponse{Response: "Привет!", UsedMaterials: []entity.Material{}},
	}
	router := newTestRouter(uc)

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message": "Привет"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"usedMaterials":[]`)
}

func TestProcessChatInvalidBody(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&stubChatUsecase{})

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{not json`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var errResp entity.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Equal(t, "invalid request body", errResp.Error)
	assert.NotEmpty(t, errResp.Details)
}

func TestProcessChatErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			name:       "missing message",
			err:        fmt.Errorf("%w: message", entity.ErrMissingField),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "bad history role",
			err:        fmt.Errorf("%w: history[0]: unknown role", entity.ErrInvalidParameter),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "model failure",
			err:        errors.New("select titles failed: connection refused"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router := newTestRouter(&stubChatUsecase{err: tt.err})

			req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message": "hi"}`))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)

			var errResp entity.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
			assert.NotEmpty(t, errResp.Error)
			assert.NotEmpty(t, errResp.Details)
		})
	}
}
