// Package imagedata decodes base64 data URIs submitted by clients and checks
// that the payload really is an image before it is handed to storage.
package imagedata

import (
	"encoding/base64"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/chatapp/realtime-chat/internal/core/domain"
)

// MaxBytes is the largest decoded image accepted.
const MaxBytes = 5 << 20

// Decode parses a "data:image/<type>;base64,<payload>" URI. The declared media
// type must be an image and the sniffed content must agree.
func Decode(encoded string) (domain.Image, error) {
	encoded = strings.TrimSpace(encoded)
	rest, ok := strings.CutPrefix(encoded, "data:")
	if !ok {
		return domain.Image{}, domain.ErrInvalidImageFormat
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return domain.Image{}, domain.ErrInvalidImageFormat
	}
	mediaType, ok := strings.CutSuffix(header, ";base64")
	if !ok || !strings.HasPrefix(strings.ToLower(mediaType), "image/") {
		return domain.Image{}, domain.ErrInvalidImageFormat
	}

	if base64.StdEncoding.DecodedLen(len(payload)) > MaxBytes+2 {
		return domain.Image{}, domain.ErrImageTooLarge
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil || len(data) == 0 {
		return domain.Image{}, domain.ErrInvalidImageFormat
	}
	if len(data) > MaxBytes {
		return domain.Image{}, domain.ErrImageTooLarge
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return domain.Image{}, domain.ErrInvalidImageFormat
	}

	return domain.Image{
		Data:        data,
		ContentType: mt.String(),
		Extension:   mt.Extension(),
	}, nil
}
