package materials

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/futig/coursechat-backend/internal/config"
	"github.com/futig/coursechat-backend/internal/entity"
	"github.com/futig/coursechat-backend/internal/pkg/formatter"
	"github.com/futig/coursechat-backend/internal/pkg/logger"
	"github.com/futig/coursechat-backend/internal/pkg/response"
	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	usecase MaterialsUsecase
	cfg     config.FileUploadConfig
}

func NewHandler(usecase MaterialsUsecase, cfg config.FileUploadConfig) *Handler {
	return &Handler{
		usecase: usecase,
		cfg:     cfg,
	}
}

// InitMaterials handles GET /init-materials - list every stored material
func (h *Handler) InitMaterials(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "InitMaterials")

	materials := h.usecase.ListMaterials(ctx)

	ctxzap.Info(ctx, "materials listed successfully", zap.Int("count", len(materials)))

	h.respondJSON(w, http.StatusOK, &entity.MaterialsResponse{
		Materials: materials,
	})
}

// UploadMaterial handles POST /upload - store one uploaded material
func (h *Handler) UploadMaterial(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "UploadMaterial")

	if err := r.ParseMultipartForm(h.cfg.MaxUploadSize); err != nil {
		ctxzap.Error(ctx, "failed to parse multipart form", zap.Error(err))
		h.respondError(ctx, w, http.StatusBadRequest, "invalid form data or size too large", err)
		return
	}

	var file *multipart.FileHeader
	if files := r.MultipartForm.File["file"]; len(files) > 0 {
		file = files[0]
	}

	req := entity.UploadMaterialRequest{
		Title: r.FormValue("title"),
		File:  file,
	}

	if file != nil {
		ctxzap.Info(ctx, "uploading material",
			zap.String("title", req.Title),
			zap.String("filename", file.Filename),
			zap.Int64("size_bytes", file.Size),
		)
	}

	resp, err := h.usecase.UploadMaterial(ctx, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, resp)
}

// ExportMaterial handles GET /materials/{id}/export - download a material as a document
func (h *Handler) ExportMaterial(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	idParam := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil {
		ctxzap.Warn(ctx, "invalid material id", zap.String("id", idParam))
		h.respondError(ctx, w, http.StatusBadRequest, "invalid material id",
			fmt.Errorf("%w: id must be an integer", entity.ErrInvalidParameter))
		return
	}

	ctx = logger.AddFields(ctx,
		zap.Int64("material_id", id),
		zap.String("action", "ExportMaterial"),
	)

	formatParam := r.URL.Query().Get("format")
	if formatParam == "" {
		formatParam = "markdown"
	}

	format := entity.ResultFormat(formatParam)
	if !format.IsValid() {
		ctxzap.Warn(ctx, "invalid format parameter", zap.String("format", formatParam))
		h.respondError(ctx, w, http.StatusBadRequest, "invalid format parameter",
			fmt.Errorf("format must be one of: markdown, docx, pdf"))
		return
	}

	ctx = logger.AddFields(ctx, zap.String("format", string(format)))
	ctxzap.Debug(ctx, "fetching material")

	material, err := h.usecase.GetMaterial(ctx, id)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	factory := formatter.NewFactory()
	fmtr, err := factory.Create(format)
	if err != nil {
		ctxzap.Error(ctx, "format not implemented", zap.Error(err))
		h.respondError(ctx, w, http.StatusNotImplemented, "format not implemented", err)
		return
	}

	exported, err := fmtr.Format(material.Title, material.Content)
	if err != nil {
		ctxzap.Error(ctx, "failed to format material", zap.Error(err))
		h.respondError(ctx, w, http.StatusInternalServerError, "failed to format material", err)
		return
	}

	ctxzap.Info(ctx, "material exported successfully")
	w.Header().Set("Content-Type", fmtr.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"material-%d%s\"", id, fmtr.FileExtension()))
	w.WriteHeader(http.StatusOK)
	w.Write(exported)
}

// Helper methods
func (h *Handler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	response.JSON(w, status, data)
}

func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		ctxzap.Error(ctx, message, zap.Error(err))
		response.Error(w, status, message, err.Error())
		return
	}
	ctxzap.Error(ctx, message)
	response.Error(w, status, message, "")
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	if errors.Is(err, entity.ErrMaterialNotFound) {
		h.respondError(ctx, w, http.StatusNotFound, "material not found", err)
	} else if errors.Is(err, entity.ErrMissingField) || errors.Is(err, entity.ErrInvalidParameter) || errors.Is(err, entity.ErrInvalidFormat) {
		h.respondError(ctx, w, http.StatusBadRequest, "validation failed", err)
	} else if errors.Is(err, entity.ErrInvalidFile) || errors.Is(err, entity.ErrFileTooLarge) {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid file", err)
	} else {
		h.respondError(ctx, w, http.StatusInternalServerError, "internal server error", err)
	}
}
