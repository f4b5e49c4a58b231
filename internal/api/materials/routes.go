package materials

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers material routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/init-materials", h.InitMaterials)
	r.Post("/upload", h.UploadMaterial)
	r.Get("/materials/{id}/export", h.ExportMaterial)
}
