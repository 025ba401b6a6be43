package fileconv

import (
	"bytes"
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ImageExtractor wraps an uploaded image without decoding its pixels.
type ImageExtractor struct{}

// NewImageExtractor creates a new ImageExtractor.
func NewImageExtractor() *ImageExtractor {
	return &ImageExtractor{}
}

// Extract reads only the image header for its dimensions. Formats the header
// reader does not know, such as SVG, keep zero dimensions. A display handle
// is minted when the source carries a minter, and again whenever the last one
// was swept.
func (e *ImageExtractor) Extract(ctx context.Context, src Source) (ContentModel, error) {
	if err := ctx.Err(); err != nil {
		return nil, extractionCancelled(src.Category, err)
	}
	img := &ImageRef{
		Data:   src.Data,
		Name:   src.Name,
		Format: src.Extension,
		Size:   int64(len(src.Data)),
	}
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(src.Data)); err == nil {
		img.Width, img.Height = cfg.Width, cfg.Height
	}
	if src.Displays != nil {
		img.minter = src.Displays
		img.display = src.Displays.Acquire()
	}
	return img, nil
}
