package materials

import (
	"context"

	"github.com/futig/coursechat-backend/internal/entity"
)

type MaterialsUsecase interface {
	UploadMaterial(ctx context.Context, req *entity.UploadMaterialRequest) (*entity.UploadResponse, error)
	ListMaterials(ctx context.Context) []entity.Material
	GetMaterial(ctx context.Context, id int64) (*entity.Material, error)
}
