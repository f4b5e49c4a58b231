package repository

import (
	"github.com/futig/coursechat-backend/internal/entity"
	"github.com/jackc/pgx/v5/pgtype"
)

// materialRow mirrors the materials table layout
type materialRow struct {
	ID        int64
	Title     string
	Content   string
	Type      string
	CreatedAt pgtype.Timestamptz
}

func toEntityMaterial(row *materialRow) *entity.Material {
	return &entity.Material{
		ID:        row.ID,
		Title:     row.Title,
		Content:   row.Content,
		Type:      row.Type,
		CreatedAt: row.CreatedAt.Time,
	}
}
