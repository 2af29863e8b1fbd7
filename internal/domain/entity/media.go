package entity

import (
	"time"

	"github.com/google/uuid"
)

// Media is an uploaded image stored in the object bucket.
type Media struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	PostID    *uuid.UUID // Optional post the image was uploaded for.
	Path      string     // Object key inside the bucket.
	MimeType  string
	SizeBytes int64
	Width     *int // Nil when the image header could not be decoded.
	Height    *int
	CreatedAt time.Time
}

// Raster formats accepted for upload. The type is taken from the bytes, never from the client.
var inlineImageTypes = map[string]struct{}{
	"image/png":  {},
	"image/jpeg": {},
	"image/gif":  {},
	"image/webp": {},
}

// IsInlineImageType reports whether contentType is a raster image safe to render inline.
func IsInlineImageType(contentType string) bool {
	_, ok := inlineImageTypes[contentType]

	return ok
}
