package usecase

import (
	"context"
	"io"

	"miniblog/internal/domain/entity"
	"miniblog/internal/domain/service"

	"github.com/google/uuid"
)

// UploadMediaInput describes an uploaded file.
type UploadMediaInput struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
	PostID      *uuid.UUID
}

// MediaOutput is the stored media with its public URL.
type MediaOutput struct {
	Media *entity.Media
	URL   string
}

// MediaUsecase defines image upload and retrieval.
type MediaUsecase interface {
	Upload(ctx context.Context, identity entity.Identity, input UploadMediaInput) (*MediaOutput, error)

	// Open streams a stored object by key. The caller closes the reader.
	Open(ctx context.Context, key string) (io.ReadCloser, *service.ObjectAttributes, error)
}
