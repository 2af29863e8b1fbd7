package handler

import (
	"net/http"
	"strconv"
	"time"

	"miniblog/internal/delivery/api/response"
	"miniblog/internal/domain/entity"
	domainerrors "miniblog/internal/domain/errors"
	"miniblog/internal/errors"
	"miniblog/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type mediaResponse struct {
	ID        uuid.UUID `json:"id"`
	Path      string    `json:"path"`
	URL       string    `json:"url"`
	MimeType  string    `json:"mimeType"`
	SizeBytes int64     `json:"sizeBytes"`
	Width     *int      `json:"width"`
	Height    *int      `json:"height"`
	CreatedAt time.Time `json:"createdAt"`
}

// MediaHandler handles image uploads and serves stored objects.
type MediaHandler struct {
	uc usecase.MediaUsecase
}

// NewMediaHandler is the constructor for MediaHandler, injected by Fx.
func NewMediaHandler(uc usecase.MediaUsecase) *MediaHandler {
	return &MediaHandler{uc: uc}
}

// Upload accepts a multipart form with a "file" part and an optional "postId" field.
func (h *MediaHandler) Upload(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return domainerrors.ErrMediaFileRequired
		}

		return errors.WithStack(err)
	}

	input := usecase.UploadMediaInput{
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get(echo.HeaderContentType),
		Size:        fileHeader.Size,
	}
	if raw := c.FormValue("postId"); raw != "" {
		postID, err := uuid.Parse(raw)
		if err != nil {
			return domainerrors.ErrValidationFailed.WithDetails("postId must be a valid UUID")
		}
		input.PostID = &postID
	}

	file, err := fileHeader.Open()
	if err != nil {
		return errors.Wrap(err, "open uploaded file")
	}
	defer file.Close()
	input.Body = file

	out, err := h.uc.Upload(c.Request().Context(), identity, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, mediaResponse{
		ID:        out.Media.ID,
		Path:      out.Media.Path,
		URL:       out.URL,
		MimeType:  out.Media.MimeType,
		SizeBytes: out.Media.SizeBytes,
		Width:     out.Media.Width,
		Height:    out.Media.Height,
		CreatedAt: out.Media.CreatedAt,
	})
}

// Serve streams a stored object by key.
func (h *MediaHandler) Serve(c echo.Context) error {
	reader, attrs, err := h.uc.Open(c.Request().Context(), c.Param("key"))
	if err != nil {
		return errors.WithStack(err)
	}
	defer reader.Close()

	header := c.Response().Header()
	header.Set(echo.HeaderContentLength, strconv.FormatInt(attrs.Size, 10))
	header.Set("Cache-Control", "public, max-age=31536000, immutable")
	header.Set("X-Content-Type-Options", "nosniff")
	header.Set("Content-Security-Policy", "default-src 'none'; sandbox")
	contentType := attrs.ContentType
	if !entity.IsInlineImageType(contentType) {
		// Objects written before uploads were sniffed are downloaded, never rendered.
		contentType = echo.MIMEOctetStream
		header.Set(echo.HeaderContentDisposition, "attachment")
	}

	return c.Stream(http.StatusOK, contentType, reader)
}
