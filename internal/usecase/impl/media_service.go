package impl

import (
	"bytes"
	"context"
	"crypto/rand"
	"image"
	_ "image/gif"  // register GIF header decoding
	_ "image/jpeg" // register JPEG header decoding
	_ "image/png"  // register PNG header decoding
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"miniblog/config"
	deliverycontext "miniblog/internal/delivery/context"
	"miniblog/internal/domain/entity"
	domainerrors "miniblog/internal/domain/errors"
	"miniblog/internal/domain/repository"
	"miniblog/internal/domain/service"
	"miniblog/internal/errors"
	"miniblog/internal/usecase"

	"github.com/oklog/ulid/v2"
	"go.uber.org/fx"
)

const defaultMaxUploadBytes int64 = 5 << 20

// mediaService implements the MediaUsecase interface.
type mediaService struct {
	mediaRepo    repository.MediaRepository
	storage      service.ObjectStorage
	publicPrefix string
	maxBytes     int64
	logger       *slog.Logger
	now          func() time.Time
}

// MediaServiceParams holds dependencies for MediaService, injected by Fx.
type MediaServiceParams struct {
	fx.In

	MediaRepo repository.MediaRepository
	Storage   service.ObjectStorage
	Config    *config.Config
	Logger    *slog.Logger
}

// NewMediaService creates a new media service.
func NewMediaService(params MediaServiceParams) usecase.MediaUsecase {
	prefix := "/uploads"
	maxBytes := defaultMaxUploadBytes
	if media := params.Config.Media; media != nil {
		if media.PublicPrefix != "" {
			prefix = media.PublicPrefix
		}
		if media.MaxUploadBytes > 0 {
			maxBytes = media.MaxUploadBytes
		}
	}

	return &mediaService{
		mediaRepo:    params.MediaRepo,
		storage:      params.Storage,
		publicPrefix: strings.TrimRight(prefix, "/"),
		maxBytes:     maxBytes,
		logger:       params.Logger,
		now:          time.Now,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *mediaService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Upload validates an image, writes it to the bucket and records its metadata.
func (srv *mediaService) Upload(ctx context.Context, identity entity.Identity, input usecase.UploadMediaInput) (*usecase.MediaOutput, error) {
	if input.Body == nil {
		return nil, domainerrors.ErrMediaFileRequired
	}
	if !strings.HasPrefix(input.ContentType, "image/") {
		return nil, domainerrors.ErrMediaInvalidType
	}
	if input.Size > srv.maxBytes {
		return nil, domainerrors.ErrMediaTooLarge
	}

	// The declared size is not trusted; read one byte past the limit to detect oversize bodies.
	data, err := io.ReadAll(io.LimitReader(input.Body, srv.maxBytes+1))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read upload")
	}
	if int64(len(data)) > srv.maxBytes {
		return nil, domainerrors.ErrMediaTooLarge
	}
	if len(data) == 0 {
		return nil, domainerrors.ErrMediaFileRequired
	}

	// The declared type only gates the request; what is stored and served is what the bytes are.
	contentType := http.DetectContentType(data)
	if !entity.IsInlineImageType(contentType) {
		srv.log(ctx).Debug("Upload rejected by content sniffing",
			slog.String("declared", input.ContentType),
			slog.String("sniffed", contentType),
		)

		return nil, domainerrors.ErrMediaInvalidType
	}

	key, err := srv.objectKey(input.FileName)
	if err != nil {
		return nil, err
	}

	if err := srv.storage.Put(ctx, key, contentType, bytes.NewReader(data)); err != nil {
		return nil, errors.Wrap(err, "failed to store upload")
	}

	media := &entity.Media{
		OwnerID:   identity.UserID,
		PostID:    input.PostID,
		Path:      key,
		MimeType:  contentType,
		SizeBytes: int64(len(data)),
	}
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		media.Width, media.Height = &cfg.Width, &cfg.Height
	}

	if err := srv.mediaRepo.Create(ctx, media); err != nil {
		if delErr := srv.storage.Delete(ctx, key); delErr != nil {
			srv.log(ctx).Warn("Failed to remove orphaned upload", slog.String("key", key), slog.Any("error", delErr))
		}
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil, domainerrors.ErrPostNotFound
		}

		return nil, errors.Wrap(err, "failed to record media")
	}

	srv.log(ctx).Info("Media uploaded",
		slog.String("mediaID", media.ID.String()),
		slog.String("key", key),
		slog.Int64("size", media.SizeBytes),
	)

	return &usecase.MediaOutput{Media: media, URL: srv.publicPrefix + "/" + key}, nil
}

// Open streams a stored object. Keys are flat, so anything resembling a path is rejected.
func (srv *mediaService) Open(ctx context.Context, key string) (io.ReadCloser, *service.ObjectAttributes, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return nil, nil, domainerrors.ErrNotFound
	}

	reader, attrs, err := srv.storage.Open(ctx, key)
	if err != nil {
		if errors.Is(err, service.ErrObjectNotFound) {
			return nil, nil, domainerrors.ErrNotFound
		}

		return nil, nil, errors.Wrap(err, "failed to open media")
	}

	return reader, attrs, nil
}

// objectKey returns a new ULID with the lowercased extension of the original file name.
func (srv *mediaService) objectKey(fileName string) (string, error) {
	id, err := ulid.New(ulid.Timestamp(srv.now()), rand.Reader)
	if err != nil {
		return "", errors.Wrap(err, "failed to generate object key")
	}

	ext := strings.ToLower(filepath.Ext(filepath.Base(fileName)))
	if strings.ContainsAny(ext, `/\`) || len(ext) > 10 {
		ext = ""
	}

	return id.String() + ext, nil
}
