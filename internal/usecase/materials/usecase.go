package materials

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/futig/coursechat-backend/internal/entity"
	"github.com/futig/coursechat-backend/internal/pkg/extract"
	"github.com/futig/coursechat-backend/internal/pkg/validator"
	"github.com/futig/coursechat-backend/internal/repository"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const previewRuneLimit = 200

// MaterialsUsecase implements material ingestion and retrieval
type MaterialsUsecase struct {
	materialRepo repository.MaterialRepository
	validator    *validator.Validator
	logger       *zap.Logger
}

// NewUsecase creates a new materials use case
func NewUsecase(
	materialRepo repository.MaterialRepository,
	validator *validator.Validator,
	logger *zap.Logger,
) *MaterialsUsecase {
	return &MaterialsUsecase{
		materialRepo: materialRepo,
		validator:    validator,
		logger:       logger,
	}
}

// UploadMaterial extracts text from the uploaded file and stores it under the
// given title. Files of unrecognized type are stored with empty content.
func (uc *MaterialsUsecase) UploadMaterial(
	ctx context.Context,
	req *entity.UploadMaterialRequest,
) (*entity.UploadResponse, error) {
	if err := uc.validator.ValidateUploadMaterial(req); err != nil {
		return nil, err
	}

	data, err := readUpload(req.File)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	content, err := extract.Text(req.File.Filename, data)
	if err != nil {
		// Extraction failures are not surfaced: the material is stored with
		// empty content, same as an unrecognized file type.
		ctxzap.Warn(ctx, "text extraction failed, storing empty content",
			zap.String("filename", req.File.Filename),
			zap.Error(err),
		)
		content = ""
	}

	material, err := uc.materialRepo.Insert(
		ctx,
		strings.TrimSpace(req.Title),
		content,
		extract.TypeTag(req.File.Filename),
	)
	if err != nil {
		return nil, fmt.Errorf("insert material: %w", err)
	}

	ctxzap.Info(ctx, "material uploaded",
		zap.Int64("material_id", material.ID),
		zap.String("title", material.Title),
		zap.String("type", material.Type),
		zap.Int("content_length", len(material.Content)),
	)

	return &entity.UploadResponse{
		Message:        "material uploaded successfully",
		ContentPreview: contentPreview(material.Content),
	}, nil
}

// ListMaterials returns every stored material. Store failures are logged and
// degrade to an empty list so the chat client can still start a conversation.
func (uc *MaterialsUsecase) ListMaterials(ctx context.Context) []entity.Material {
	materials, err := uc.materialRepo.ListAll(ctx)
	if err != nil {
		ctxzap.Warn(ctx, "failed to list materials, degrading to empty list", zap.Error(err))
		return []entity.Material{}
	}

	if materials == nil {
		materials = []entity.Material{}
	}

	return materials
}

// GetMaterial retrieves a single material by ID
func (uc *MaterialsUsecase) GetMaterial(ctx context.Context, id int64) (*entity.Material, error) {
	material, err := uc.materialRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get material: %w", err)
	}

	return material, nil
}

// readUpload reads the full content of an uploaded file
func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", entity.ErrInvalidFile, fh.Filename, err)
	}

	data, err := io.ReadAll(src)
	src.Close()
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", entity.ErrInvalidFile, fh.Filename, err)
	}

	return data, nil
}

// contentPreview returns the first part of the extracted content for the
// upload response.
func contentPreview(content string) string {
	runes := []rune(content)
	if len(runes) <= previewRuneLimit {
		return content
	}
	return string(runes[:previewRuneLimit])
}
