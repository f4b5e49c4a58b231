package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/futig/coursechat-backend/internal/entity"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MaterialRepository defines the interface for material persistence
type MaterialRepository interface {
	ListAll(ctx context.Context) ([]entity.Material, error)
	Insert(ctx context.Context, title, content, materialType string) (*entity.Material, error)
	GetByID(ctx context.Context, id int64) (*entity.Material, error)
}

var _ MaterialRepository = &MaterialPostgres{}

// MaterialPostgres implements MaterialRepository using PostgreSQL
type MaterialPostgres struct {
	db *pgxpool.Pool
}

func NewMaterialPostgres(db *pgxpool.Pool) *MaterialPostgres {
	return &MaterialPostgres{db: db}
}

const listMaterialsQuery = `
SELECT id, title, content, type, created_at
FROM materials
ORDER BY id`

func (r *MaterialPostgres) ListAll(ctx context.Context) ([]entity.Material, error) {
	rows, err := r.db.Query(ctx, listMaterialsQuery)
	if err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	defer rows.Close()

	var materials []entity.Material
	for rows.Next() {
		var row materialRow
		if err := rows.Scan(&row.ID, &row.Title, &row.Content, &row.Type, &row.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		materials = append(materials, *toEntityMaterial(&row))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate materials: %w", err)
	}

	return materials, nil
}

const insertMaterialQuery = `
INSERT INTO materials (title, content, type)
VALUES ($1, $2, $3)
RETURNING id, title, content, type, created_at`

// Insert stores one material. The title is lower-cased here so selection
// matching stays case-insensitive for every caller.
func (r *MaterialPostgres) Insert(ctx context.Context, title, content, materialType string) (*entity.Material, error) {
	var row materialRow
	err := r.db.QueryRow(ctx, insertMaterialQuery, strings.ToLower(title), content, materialType).
		Scan(&row.ID, &row.Title, &row.Content, &row.Type, &row.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert material: %w", err)
	}

	return toEntityMaterial(&row), nil
}

const getMaterialQuery = `
SELECT id, title, content, type, created_at
FROM materials
WHERE id = $1`

func (r *MaterialPostgres) GetByID(ctx context.Context, id int64) (*entity.Material, error) {
	var row materialRow
	err := r.db.QueryRow(ctx, getMaterialQuery, id).
		Scan(&row.ID, &row.Title, &row.Content, &row.Type, &row.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrMaterialNotFound
		}
		return nil, fmt.Errorf("get material: %w", err)
	}

	return toEntityMaterial(&row), nil
}
