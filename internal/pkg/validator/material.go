package validator

import (
	"fmt"
	"strings"

	"github.com/futig/coursechat-backend/internal/config"
	"github.com/futig/coursechat-backend/internal/entity"
)

// Validator validates incoming requests
type Validator struct {
	cfg config.FileUploadConfig
}

func NewFileValidator(cfg config.FileUploadConfig) *Validator {
	return &Validator{cfg: cfg}
}

// ValidateUploadMaterial validates a material upload. Any declared file type
// is accepted here: unrecognized types are stored with empty content later in
// the pipeline instead of being rejected.
func (v *Validator) ValidateUploadMaterial(req *entity.UploadMaterialRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return fmt.Errorf("%w: title", entity.ErrMissingField)
	}

	if req.File == nil {
		return fmt.Errorf("%w: file", entity.ErrMissingField)
	}

	if req.File.Size > v.cfg.MaxFileSize {
		return fmt.Errorf("%w: file '%s' is %d bytes (max %d)", entity.ErrFileTooLarge, req.File.Filename, req.File.Size, v.cfg.MaxFileSize)
	}

	return nil
}

// ValidateChatRequest validates a chat turn request
func (v *Validator) ValidateChatRequest(req *entity.ChatRequest) error {
	if strings.TrimSpace(req.Message) == "" {
		return fmt.Errorf("%w: message", entity.ErrMissingField)
	}

	for i := range req.History {
		if err := req.History[i].Role.Validate(); err != nil {
			return fmt.Errorf("%w: history[%d]: %v", entity.ErrInvalidParameter, i, err)
		}
	}

	return nil
}
