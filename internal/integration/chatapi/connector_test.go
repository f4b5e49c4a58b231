package chatapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/futig/coursechat-backend/internal/config"
	"github.com/futig/coursechat-backend/internal/entity"
	pkghttp "github.com/futig/coursechat-backend/pkg/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(url string) config.ChatAPIConnectorConfig {
	return config.ChatAPIConnectorConfig{
		HTTPClientConfig: config.HTTPClientConfig{
			RequestTimeout:        5 * time.Second,
			ConnTimeout:           time.Second,
			KeepAlive:             time.Second,
			IdleConnTimeout:       time.Second,
			ResponseHeaderTimeout: 5 * time.Second,
			Token:                 "test-token",
			Url:                   url,
		},
		ChatEndpoint:      "/chat",
		MaterialsEndpoint: "/init-materials",
		UploadEndpoint:    "/upload",
	}
}

func TestInitMaterials(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/init-materials", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"materials":[{"id":1,"title":"lab1","content":"Введение в Go."}]}`))
	}))
	defer srv.Close()

	connector := NewConnector(testConfig(srv.URL), zap.NewNop())

	materials, err := connector.InitMaterials(context.Background())
	require.NoError(t, err)
	require.Len(t, materials, 1)
	assert.Equal(t, "lab1", materials[0].Title)
	assert.Equal(t, "Введение в Go.", materials[0].Content)
}

func TestChat(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat", r.URL.Path)

		var req entity.ChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "как сдать первую лабу?", req.Message)
		assert.Len(t, req.History, 2)
		assert.Len(t, req.Materials, 1)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response":"Сначала прочитай методичку.","usedMaterials":[{"id":1,"title":"lab1"}]}`))
	}))
	defer srv.Close()

	connector := NewConnector(testConfig(srv.URL), zap.NewNop())

	resp, err := connector.Chat(context.Background(), &entity.ChatRequest{
		Message: "как сдать первую лабу?",
		History: []entity.ConversationTurn{
			{Role: entity.TurnRoleUser, Content: "привет"},
			{Role: entity.TurnRoleAssistant, Content: "Привет! Чем помочь?"},
		},
		Materials:     []entity.Material{{ID: 1, Title: "lab1"}},
		UsedMaterials: []entity.Material{},
	})
	require.NoError(t, err)
	assert.Equal(t, "Сначала прочитай методичку.", resp.Response)
	require.Len(t, resp.UsedMaterials, 1)
	assert.Equal(t, "lab1", resp.UsedMaterials[0].Title)
}

func TestChatBackendErrorIsHTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"failed to process chat turn","details":"select titles: boom"}`))
	}))
	defer srv.Close()

	connector := NewConnector(testConfig(srv.URL), zap.NewNop())

	_, err := connector.Chat(context.Background(), &entity.ChatRequest{Message: "hi"})
	require.Error(t, err)

	var httpErr *pkghttp.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusInternalServerError, httpErr.StatusCode)
	assert.Contains(t, httpErr.Message, "failed to process chat turn")
}

func TestUploadMaterial(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/upload", r.URL.Path)

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Лекция 3", r.FormValue("title"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "lecture3.txt", header.Filename)

		content, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "конспект лекции", string(content))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"material uploaded successfully","contentPreview":"конспект лекции"}`))
	}))
	defer srv.Close()

	connector := NewConnector(testConfig(srv.URL), zap.NewNop())

	resp, err := connector.UploadMaterial(context.Background(), "Лекция 3", "lecture3.txt", []byte("конспект лекции"))
	require.NoError(t, err)
	assert.Equal(t, "material uploaded successfully", resp.Message)
	assert.Equal(t, "конспект лекции", resp.ContentPreview)
}
