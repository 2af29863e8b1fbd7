package impl

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"io"
	"strings"
	"testing"

	"miniblog/internal/domain/entity"
	domainerrors "miniblog/internal/domain/errors"
	"miniblog/internal/infra/persistence/memory"
	"miniblog/internal/infra/storage"
	"miniblog/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"
)

func newMediaFixture(t *testing.T, maxBytes int64) (*mediaService, entity.Identity) {
	t.Helper()

	store := memory.NewStore()
	owner := &entity.User{Email: "owner@example.com", PasswordHash: "x", DisplayName: "Owner"}
	require.NoError(t, memory.NewUserRepository(store).Create(context.Background(), owner))

	bucket := memblob.OpenBucket(nil)
	t.Cleanup(func() { _ = bucket.Close() })

	cfg := newTestConfig("")
	cfg.Media.MaxUploadBytes = maxBytes

	svc := NewMediaService(MediaServiceParams{
		MediaRepo: memory.NewMediaRepository(store),
		Storage:   storage.NewBlobStorage(bucket),
		Config:    cfg,
		Logger:    newDiscardLogger(),
	}).(*mediaService)

	return svc, owner.Identity()
}

// Smallest byte prefixes http.DetectContentType recognises for each format.
const (
	pngMagic  = "\x89PNG\r\n\x1a\n"
	webpMagic = "RIFF\x00\x00\x00\x00WEBPVP8 "
)

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height))))

	return buf.Bytes()
}

func TestMediaService_Upload(t *testing.T) {
	svc, owner := newMediaFixture(t, 1<<20)
	ctx := context.Background()
	data := encodePNG(t, 3, 2)

	out, err := svc.Upload(ctx, owner, usecase.UploadMediaInput{
		FileName:    "Photo.PNG",
		ContentType: "image/png",
		Size:        int64(len(data)),
		Body:        bytes.NewReader(data),
	})
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(out.Media.Path, ".png"))
	assert.Equal(t, "/uploads/"+out.Media.Path, out.URL)
	assert.Equal(t, owner.UserID, out.Media.OwnerID)
	assert.Equal(t, int64(len(data)), out.Media.SizeBytes)
	require.NotNil(t, out.Media.Width)
	require.NotNil(t, out.Media.Height)
	assert.Equal(t, 3, *out.Media.Width)
	assert.Equal(t, 2, *out.Media.Height)

	r, attrs, err := svc.Open(ctx, out.Media.Path)
	require.NoError(t, err)
	defer r.Close()

	stored, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, data, stored)
	assert.Equal(t, "image/png", attrs.ContentType)
}

func TestMediaService_Upload_UndecodableImage(t *testing.T) {
	svc, owner := newMediaFixture(t, 1<<20)

	out, err := svc.Upload(context.Background(), owner, usecase.UploadMediaInput{
		FileName:    "pic.webp",
		ContentType: "image/webp",
		Body:        strings.NewReader(webpMagic + "not really"),
	})
	require.NoError(t, err)
	assert.Equal(t, "image/webp", out.Media.MimeType)
	assert.Nil(t, out.Media.Width)
	assert.Nil(t, out.Media.Height)
}

func TestMediaService_Upload_Rejections(t *testing.T) {
	svc, owner := newMediaFixture(t, 16)

	tests := []struct {
		name  string
		input usecase.UploadMediaInput
		want  error
	}{
		{
			name:  "missing file",
			input: usecase.UploadMediaInput{ContentType: "image/png"},
			want:  domainerrors.ErrMediaFileRequired,
		},
		{
			name:  "empty file",
			input: usecase.UploadMediaInput{ContentType: "image/png", Body: strings.NewReader("")},
			want:  domainerrors.ErrMediaFileRequired,
		},
		{
			name:  "not an image",
			input: usecase.UploadMediaInput{ContentType: "application/pdf", Body: strings.NewReader("%PDF")},
			want:  domainerrors.ErrMediaInvalidType,
		},
		{
			name:  "svg declared as image",
			input: usecase.UploadMediaInput{ContentType: "image/svg+xml", Body: strings.NewReader(`<svg onload="x">`)},
			want:  domainerrors.ErrMediaInvalidType,
		},
		{
			name:  "html declared as png",
			input: usecase.UploadMediaInput{ContentType: "image/png", Body: strings.NewReader("<html><script>")},
			want:  domainerrors.ErrMediaInvalidType,
		},
		{
			name:  "text declared as png",
			input: usecase.UploadMediaInput{ContentType: "image/png", Body: strings.NewReader("just some text")},
			want:  domainerrors.ErrMediaInvalidType,
		},
		{
			name:  "declared too large",
			input: usecase.UploadMediaInput{ContentType: "image/png", Size: 17, Body: strings.NewReader("x")},
			want:  domainerrors.ErrMediaTooLarge,
		},
		{
			name:  "body larger than declared",
			input: usecase.UploadMediaInput{ContentType: "image/png", Size: 1, Body: strings.NewReader(strings.Repeat("x", 17))},
			want:  domainerrors.ErrMediaTooLarge,
		},
		{
			name: "unknown post",
			input: usecase.UploadMediaInput{
				ContentType: "image/png",
				Body:        strings.NewReader(pngMagic),
				PostID:      func() *uuid.UUID { id := uuid.New(); return &id }(),
			},
			want: domainerrors.ErrPostNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Upload(context.Background(), owner, tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestMediaService_Upload_StoresSniffedType(t *testing.T) {
	svc, owner := newMediaFixture(t, 1<<20)
	ctx := context.Background()
	data := encodePNG(t, 1, 1)

	out, err := svc.Upload(ctx, owner, usecase.UploadMediaInput{
		FileName:    "pixel.jpg",
		ContentType: "image/jpeg",
		Body:        bytes.NewReader(data),
	})
	require.NoError(t, err)
	assert.Equal(t, "image/png", out.Media.MimeType)

	r, attrs, err := svc.Open(ctx, out.Media.Path)
	require.NoError(t, err)
	defer r.Close()
	assert.Equal(t, "image/png", attrs.ContentType)
}

func TestMediaService_Open_RejectsPaths(t *testing.T) {
	svc, _ := newMediaFixture(t, 1<<20)

	for _, key := range []string{"", "../secret", "a/b.png", `a\b.png`, "missing.png"} {
		_, _, err := svc.Open(context.Background(), key)
		assert.ErrorIs(t, err, domainerrors.ErrNotFound, key)
	}
}
