package materials

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"testing"
	"time"

	"github.com/futig/coursechat-backend/internal/config"
	"github.com/futig/coursechat-backend/internal/entity"
	"github.com/futig/coursechat-backend/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type insertCall struct {
	title       string
	content     string
	contentType string
}

// fakeMaterialRepo records calls instead of touching a database.
type fakeMaterialRepo struct {
	materials []entity.Material
	listErr   error
	insertErr error

	inserts []insertCall
}

func (f *fakeMaterialRepo) ListAll(_ context.Context) ([]entity.Material, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.materials, nil
}

func (f *fakeMaterialRepo) Insert(_ context.Context, title, content, materialType string) (*entity.Material, error) {
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	f.inserts = append(f.inserts, insertCall{title: title, content: content, contentType: materialType})
	return &entity.Material{
		ID:        int64(len(f.inserts)),
		Title:     title,
		Content:   content,
		Type:      materialType,
		CreatedAt: time.Now(),
	}, nil
}

func (f *fakeMaterialRepo) GetByID(_ context.Context, id int64) (*entity.Material, error) {
	for i := range f.materials {
		if f.materials[i].ID == id {
			return &f.materials[i], nil
		}
	}
	return nil, entity.ErrMaterialNotFound
}

func newTestUsecase(repo *fakeMaterialRepo, maxFileSize int64) *MaterialsUsecase {
	v := validator.NewFileValidator(config.FileUploadConfig{MaxFileSize: maxFileSize, MaxUploadSize: 4 * maxFileSize})
	return NewUsecase(repo, v, zap.NewNop())
}

// fileHeaderFixture builds a real multipart.FileHeader whose Open works.
func fileHeaderFixture(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })

	require.NotEmpty(t, form.File["file"])
	return form.File["file"][0]
}

func TestUploadMaterialStoresExtractedText(t *testing.T) {
	t.Parallel()

	repo := &fakeMaterialRepo{}
	uc := newTestUsecase(repo, 1<<20)

	resp, err := uc.UploadMaterial(context.Background(), &entity.UploadMaterialRequest{
		Title: "  Lab1  ",
		File:  fileHeaderFixture(t, "lab1.txt", []byte("hello")),
	})
	require.NoError(t, err)

	require.Len(t, repo.inserts, 1)
	assert.Equal(t, "Lab1", repo.inserts[0].title, "surrounding whitespace is trimmed, case is the store's concern")
	assert.Equal(t, "hello", repo.inserts[0].content)
	assert.Equal(t, "txt", repo.inserts[0].contentType)

	assert.Equal(t, "material uploaded successfully", resp.Message)
	assert.Equal(t, "hello", resp.ContentPreview)
}

func TestUploadMaterialUnknownTypeStoresEmptyContent(t *testing.T) {
	t.Parallel()

	repo := &fakeMaterialRepo{}
	uc := newTestUsecase(repo, 1<<20)

	resp, err := uc.UploadMaterial(context.Background(), &entity.UploadMaterialRequest{
		Title: "archive",
		File:  fileHeaderFixture(t, "lab1.zip", []byte{0x50, 0x4b, 0x03, 0x04}),
	})
	require.NoError(t, err)

	require.Len(t, repo.inserts, 1)
	assert.Empty(t, repo.inserts[0].content)
	assert.Equal(t, "zip", repo.inserts[0].contentType)
	assert.Empty(t, resp.ContentPreview)
}

func TestUploadMaterialCorruptDocumentDegradesToEmpty(t *testing.T) {
	t.Parallel()

	repo := &fakeMaterialRepo{}
	uc := newTestUsecase(repo, 1<<20)

	resp, err := uc.UploadMaterial(context.Background(), &entity.UploadMaterialRequest{
		Title: "broken",
		File:  fileHeaderFixture(t, "broken.docx", []byte("not a zip archive")),
	})
	require.NoError(t, err, "extraction failure must not fail the upload")

	require.Len(t, repo.inserts, 1)
	assert.Empty(t, repo.inserts[0].content)
	assert.Empty(t, resp.ContentPreview)
}

func TestUploadMaterialValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		req     func(t *testing.T) *entity.UploadMaterialRequest
		wantErr error
	}{
		{
			name: "missing title",
			req: func(t *testing.T) *entity.UploadMaterialRequest {
				return &entity.UploadMaterialRequest{
					Title: "   ",
					File:  fileHeaderFixture(t, "lab1.txt", []byte("hello")),
				}
			},
			wantErr: entity.ErrMissingField,
		},
		{
			name: "missing file",
			req: func(t *testing.T) *entity.UploadMaterialRequest {
				return &entity.UploadMaterialRequest{Title: "lab1"}
			},
			wantErr: entity.ErrMissingField,
		},
		{
			name: "file too large",
			req: func(t *testing.T) *entity.UploadMaterialRequest {
				return &entity.UploadMaterialRequest{
					Title: "lab1",
					File:  fileHeaderFixture(t, "lab1.txt", bytes.Repeat([]byte("a"), 64)),
				}
			},
			wantErr: entity.ErrFileTooLarge,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := &fakeMaterialRepo{}
			uc := newTestUsecase(repo, 32)

			_, err := uc.UploadMaterial(context.Background(), tt.req(t))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, repo.inserts, "validation failure must not write to the store")
		})
	}
}

func TestUploadMaterialInsertFailure(t *testing.T) {
	t.Parallel()

	repo := &fakeMaterialRepo{insertErr: errors.New("connection refused")}
	uc := newTestUsecase(repo, 1<<20)

	_, err := uc.UploadMaterial(context.Background(), &entity.UploadMaterialRequest{
		Title: "lab1",
		File:  fileHeaderFixture(t, "lab1.txt", []byte("hello")),
	})
	require.Error(t, err)
}

func TestUploadMaterialLongContentPreviewTruncated(t *testing.T) {
	t.Parallel()

	repo := &fakeMaterialRepo{}
	uc := newTestUsecase(repo, 1<<20)

	long := bytes.Repeat([]byte("я"), 500)
	resp, err := uc.UploadMaterial(context.Background(), &entity.UploadMaterialRequest{
		Title: "long",
		File:  fileHeaderFixture(t, "long.txt", long),
	})
	require.NoError(t, err)

	assert.Equal(t, previewRuneLimit, len([]rune(resp.ContentPreview)))
}

func TestListMaterialsDegradesToEmptyOnStoreFailure(t *testing.T) {
	t.Parallel()

	repo := &fakeMaterialRepo{listErr: errors.New("connection refused")}
	uc := newTestUsecase(repo, 1<<20)

	materials := uc.ListMaterials(context.Background())
	assert.NotNil(t, materials)
	assert.Empty(t, materials)
}

func TestListMaterialsNeverReturnsNil(t *testing.T) {
	t.Parallel()

	repo := &fakeMaterialRepo{}
	uc := newTestUsecase(repo, 1<<20)

	materials := uc.ListMaterials(context.Background())
	assert.NotNil(t, materials)
}

func TestGetMaterial(t *testing.T) {
	t.Parallel()

	repo := &fakeMaterialRepo{materials: []entity.Material{
		{ID: 7, Title: "lab1", Content: "A", Type: "txt"},
	}}
	uc := newTestUsecase(repo, 1<<20)

	t.Run("found", func(t *testing.T) {
		t.Parallel()

		material, err := uc.GetMaterial(context.Background(), 7)
		require.NoError(t, err)
		assert.Equal(t, "lab1", material.Title)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()

		_, err := uc.GetMaterial(context.Background(), 404)
		require.Error(t, err)
		assert.ErrorIs(t, err, entity.ErrMaterialNotFound)
	})
}
