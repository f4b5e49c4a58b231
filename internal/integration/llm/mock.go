package llm

import (
	"context"

	"github.com/futig/coursechat-backend/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector - мок-реализация модельного коннектора для тестирования
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

// SelectTitles - мок выбора материалов, всегда возвращает пустой список
func (m *MockConnector) SelectTitles(ctx context.Context, messages []entity.ChatMessage) (string, error) {
	ctxzap.Info(ctx, "[MOCK] selecting material titles")

	return "selected titles:", nil
}

// GenerateReply - мок генерации ответа
func (m *MockConnector) GenerateReply(ctx context.Context, messages []entity.ChatMessage) (string, error) {
	ctxzap.Info(ctx, "[MOCK] generating chat reply")

	reply := `Это тестовый ответ ассистента (MOCK).

Мок-режим включен, материалы курса при генерации не использовались.`

	ctxzap.Info(ctx, "[MOCK] reply generated", zap.Int("result_length", len(reply)))
	return reply, nil
}
